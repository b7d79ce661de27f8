package search

import (
	"context"

	"github.com/rs/zerolog/log"

	contractx "github.com/tanpawarit/Reside-Multi-Agent-Real-Estate-Assistant/agent/contract"
	"github.com/tanpawarit/Reside-Multi-Agent-Real-Estate-Assistant/agent/propstore"
)

// SQLQueryExecutorAgent runs sanitized SQL against the in-memory property
// store. Execution errors are swallowed into an empty result; an empty result
// without an error reruns the bounded default query and substitutes it as the
// returned SQLQuery so downstream stages see what actually ran.
type SQLQueryExecutorAgent struct {
	store *propstore.Store
}

func NewExecutor(store *propstore.Store) *SQLQueryExecutorAgent {
	return &SQLQueryExecutorAgent{store: store}
}

func (a *SQLQueryExecutorAgent) Name() string { return contractx.AgentSQLExecutor }

func (a *SQLQueryExecutorAgent) Handle(ctx context.Context, req contractx.Request) (contractx.Envelope, error) {
	cleaned := SanitizeQuery(req.SQLQuery)
	log.Debug().Str("agent", a.Name()).Str("sql", cleaned).Msg("executing query")

	errored := false
	rows, err := a.store.Query(ctx, cleaned)
	if err != nil {
		log.Warn().Err(err).Str("sql", cleaned).Msg("query failed; returning no results")
		rows = nil
		errored = true
	}

	if len(rows) == 0 && !errored {
		fallback, err := a.store.Query(ctx, propstore.DefaultQuery)
		if err != nil {
			log.Warn().Err(err).Msg("default query failed")
		} else {
			rows = fallback
			cleaned = propstore.DefaultQuery
		}
	}

	if rows == nil {
		rows = []contractx.Row{}
	}
	return contractx.Envelope{
		ResultType:   contractx.ResultSQLResults,
		Content:      rows,
		SourceAgents: []string{a.Name()},
		SQLQuery:     cleaned,
	}, nil
}
