package search

import (
	"context"
	"strings"

	contractx "github.com/tanpawarit/Reside-Multi-Agent-Real-Estate-Assistant/agent/contract"
)

// SQLValidatorAgent judges whether an executed query plausibly targeted the
// properties relation: read-only, names the relation, and returned rows.
type SQLValidatorAgent struct{}

func NewValidator() *SQLValidatorAgent { return &SQLValidatorAgent{} }

func (a *SQLValidatorAgent) Name() string { return contractx.AgentSQLValidator }

func (a *SQLValidatorAgent) Handle(_ context.Context, req contractx.Request) (contractx.Envelope, error) {
	q := strings.ToLower(strings.TrimSpace(req.SQLQuery))
	valid := strings.HasPrefix(q, "select") &&
		strings.Contains(q, "properties") &&
		len(req.Results) > 0

	return contractx.Envelope{
		ResultType:   contractx.ResultValidation,
		Content:      valid,
		SourceAgents: []string{a.Name()},
	}, nil
}
