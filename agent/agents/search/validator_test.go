package search

import (
	"context"
	"testing"

	contractx "github.com/tanpawarit/Reside-Multi-Agent-Real-Estate-Assistant/agent/contract"
)

func TestValidatorVerdicts(t *testing.T) {
	t.Parallel()

	oneRow := []contractx.Row{{"id": "1001"}}

	cases := []struct {
		name    string
		query   string
		results []contractx.Row
		want    bool
	}{
		{"valid select with rows", "SELECT * FROM properties LIMIT 10", oneRow, true},
		{"case insensitive prefix", "  select id from Properties", oneRow, true},
		{"non-select rejected", "DELETE FROM properties", oneRow, false},
		{"wrong table rejected", "SELECT * FROM leads", oneRow, false},
		{"no rows rejected", "SELECT * FROM properties", nil, false},
		{"empty query rejected", "", oneRow, false},
	}

	validator := NewValidator()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			env, err := validator.Handle(context.Background(), contractx.Request{
				SQLQuery: tc.query,
				Results:  tc.results,
			})
			if err != nil {
				t.Fatalf("Handle() error = %v", err)
			}
			if env.ResultType != contractx.ResultValidation {
				t.Fatalf("result type = %s", env.ResultType)
			}
			if got := env.Content.(bool); got != tc.want {
				t.Fatalf("verdict = %v, want %v", got, tc.want)
			}
		})
	}
}
