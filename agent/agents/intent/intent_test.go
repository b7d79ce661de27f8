package intent

import (
	"context"
	"errors"
	"testing"

	contractx "github.com/tanpawarit/Reside-Multi-Agent-Real-Estate-Assistant/agent/contract"
)

type fakeSource struct {
	rows     []contractx.Row
	err      error
	keywords string
	limit    int
}

func (f *fakeSource) Search(ctx context.Context, keywords string, limit int) ([]contractx.Row, error) {
	f.keywords = keywords
	f.limit = limit
	return f.rows, f.err
}

func TestClassifierPropertySearch(t *testing.T) {
	t.Parallel()

	source := &fakeSource{rows: []contractx.Row{{"id": "1001"}}}
	agent := NewClassifier(source)

	env, err := agent.Handle(context.Background(), contractx.Request{Query: "houses in Austin"})
	if err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if env.ResultType != contractx.ResultIntent {
		t.Fatalf("result type = %s", env.ResultType)
	}
	if got := env.Content.(string); got != contractx.IntentPropertySearch {
		t.Fatalf("intent = %s, want property_search", got)
	}
	if source.limit != 1 {
		t.Fatalf("probe limit = %d, want 1", source.limit)
	}
}

func TestClassifierGeneralInfoOnNoMatch(t *testing.T) {
	t.Parallel()

	agent := NewClassifier(&fakeSource{})
	env, err := agent.Handle(context.Background(), contractx.Request{Query: "what is escrow"})
	if err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if got := env.Content.(string); got != contractx.IntentGeneralInfo {
		t.Fatalf("intent = %s, want general_info", got)
	}
}

func TestClassifierTokenCleaning(t *testing.T) {
	t.Parallel()

	source := &fakeSource{rows: []contractx.Row{{"id": "1001"}}}
	agent := NewClassifier(source)

	// "in" is too short to keep; "houses" and "condos" are singularized.
	if _, err := agent.Handle(context.Background(), contractx.Request{Query: "houses in condos"}); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if source.keywords != "house condo" {
		t.Fatalf("probe keywords = %q, want %q", source.keywords, "house condo")
	}
}

func TestClassifierShortTokensSkipProbe(t *testing.T) {
	t.Parallel()

	source := &fakeSource{rows: []contractx.Row{{"id": "1001"}}}
	agent := NewClassifier(source)

	env, err := agent.Handle(context.Background(), contractx.Request{Query: "hi"})
	if err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if got := env.Content.(string); got != contractx.IntentGeneralInfo {
		t.Fatalf("intent = %s, want general_info", got)
	}
	if source.keywords != "" {
		t.Fatalf("probe ran on a too-short query: %q", source.keywords)
	}
}

func TestClassifierProbeErrorAssumesGeneralInfo(t *testing.T) {
	t.Parallel()

	agent := NewClassifier(&fakeSource{err: errors.New("store offline")})
	env, err := agent.Handle(context.Background(), contractx.Request{Query: "houses for sale"})
	if err != nil {
		t.Fatalf("Handle() error = %v, probe errors must be swallowed", err)
	}
	if got := env.Content.(string); got != contractx.IntentGeneralInfo {
		t.Fatalf("intent = %s, want general_info", got)
	}
}
