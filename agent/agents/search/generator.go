package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	contractx "github.com/tanpawarit/Reside-Multi-Agent-Real-Estate-Assistant/agent/contract"
)

const generatedRowCap = 10

// SQLQueryGeneratorAgent turns a natural-language query into a SQL query.
// The generative backend is preferred; any backend failure or empty output
// falls back to a deterministic keyword predicate.
type SQLQueryGeneratorAgent struct {
	backend contractx.GenerativeBackend
}

func NewGenerator(backend contractx.GenerativeBackend) *SQLQueryGeneratorAgent {
	return &SQLQueryGeneratorAgent{backend: backend}
}

func (a *SQLQueryGeneratorAgent) Name() string { return contractx.AgentSQLGenerator }

func (a *SQLQueryGeneratorAgent) Handle(ctx context.Context, req contractx.Request) (contractx.Envelope, error) {
	q := strings.TrimSpace(req.Query)

	sqlQuery := ""
	if q != "" && a.backend != nil {
		generated, err := a.backend.GenerateSQL(ctx, q)
		if err != nil {
			log.Warn().Err(err).Str("agent", a.Name()).Msg("sql generation fell back to heuristic")
		} else {
			sqlQuery = SanitizeQuery(generated)
		}
	}
	if sqlQuery == "" {
		sqlQuery = heuristicQuery(q)
	}

	return contractx.Envelope{
		ResultType:   contractx.ResultSQLQuery,
		Content:      sqlQuery,
		SourceAgents: []string{a.Name()},
	}, nil
}

// heuristicQuery builds a LIKE-OR predicate over the searchable columns, or
// an unconditional one when the query is empty or asks for all properties.
func heuristicQuery(q string) string {
	esc := strings.ReplaceAll(strings.ToLower(q), "'", "''")

	conditions := "1=1"
	if esc != "" && !(strings.Contains(esc, "all") && strings.Contains(esc, "propert")) {
		conditions = fmt.Sprintf(
			"LOWER(address) LIKE '%%%[1]s%%' OR LOWER(location) LIKE '%%%[1]s%%' OR LOWER(description) LIKE '%%%[1]s%%'",
			esc,
		)
	}
	return fmt.Sprintf("SELECT * FROM properties WHERE %s LIMIT %d", conditions, generatedRowCap)
}
