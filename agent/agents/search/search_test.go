package search

import (
	"context"
	"errors"
	"strings"
	"testing"

	contractx "github.com/tanpawarit/Reside-Multi-Agent-Real-Estate-Assistant/agent/contract"
)

func newPipeline(t *testing.T, backend contractx.GenerativeBackend) *PropertySearchAgent {
	t.Helper()
	agent, err := NewSearch(
		NewGenerator(backend),
		NewExecutor(newTestStore(t)),
		NewValidator(),
	)
	if err != nil {
		t.Fatalf("NewSearch() error = %v", err)
	}
	return agent
}

func TestSearchAllProperties(t *testing.T) {
	t.Parallel()

	// Backend down: the heuristic recognizes "all properties" and the
	// pipeline still returns every listing.
	agent := newPipeline(t, &fakeBackend{sqlErr: errors.New("model down")})

	env, err := agent.Handle(context.Background(), contractx.Request{Query: "show me all properties"})
	if err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if env.ResultType != contractx.ResultPropertySearch {
		t.Fatalf("result type = %s", env.ResultType)
	}
	content, ok := env.Content.(contractx.SearchContent)
	if !ok {
		t.Fatalf("content is %T, want SearchContent", env.Content)
	}
	if len(content.Properties) != 2 {
		t.Fatalf("got %d cards, want 2", len(content.Properties))
	}
	if !strings.HasPrefix(content.Message, "Here are the top properties I found: ") {
		t.Fatalf("message = %q", content.Message)
	}
	if !strings.Contains(content.Message, "$450,000") {
		t.Fatalf("message missing formatted price: %q", content.Message)
	}
}

func TestSearchIdempotent(t *testing.T) {
	t.Parallel()

	agent := newPipeline(t, &fakeBackend{sql: "SELECT * FROM properties LIMIT 10"})

	req := contractx.Request{Query: "homes"}
	first, err := agent.Handle(context.Background(), req)
	if err != nil {
		t.Fatalf("first Handle() error = %v", err)
	}
	second, err := agent.Handle(context.Background(), req)
	if err != nil {
		t.Fatalf("second Handle() error = %v", err)
	}

	fc := first.Content.(contractx.SearchContent)
	sc := second.Content.(contractx.SearchContent)
	if fc.Message != sc.Message || len(fc.Properties) != len(sc.Properties) {
		t.Fatalf("repeated search diverged: %v vs %v", fc, sc)
	}
}

func TestSearchInvalidVerdictEmptiesCards(t *testing.T) {
	t.Parallel()

	// The generated query targets the wrong relation; the executor errors
	// and the validator gates the rows out.
	agent := newPipeline(t, &fakeBackend{sql: "SELECT * FROM leads"})

	env, err := agent.Handle(context.Background(), contractx.Request{Query: "homes"})
	if err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	content := env.Content.(contractx.SearchContent)
	if len(content.Properties) != 0 {
		t.Fatalf("invalid query yielded %d cards, want 0", len(content.Properties))
	}
	if content.Message != "No matching properties found." {
		t.Fatalf("message = %q", content.Message)
	}
}

func TestSearchProvenanceChain(t *testing.T) {
	t.Parallel()

	agent := newPipeline(t, &fakeBackend{sql: "SELECT * FROM properties LIMIT 10"})
	env, err := agent.Handle(context.Background(), contractx.Request{Query: "homes"})
	if err != nil {
		t.Fatalf("Handle() error = %v", err)
	}

	want := []string{
		contractx.AgentPropertySearch,
		contractx.AgentSQLGenerator,
		contractx.AgentSQLExecutor,
		contractx.AgentSQLValidator,
	}
	if len(env.SourceAgents) != len(want) {
		t.Fatalf("source agents = %v, want %v", env.SourceAgents, want)
	}
	for i, name := range want {
		if env.SourceAgents[i] != name {
			t.Fatalf("source agents = %v, want %v", env.SourceAgents, want)
		}
	}
}

func TestSearchCardProjection(t *testing.T) {
	t.Parallel()

	rows := []contractx.Row{
		{"address": "123 Maple Street", "price": int64(450000), "description": "Single Family Home", "image": "https://example.com/1.jpg"},
		{"address": nil, "location": "Dallas, TX", "price": nil, "description": "Condo", "image": nil},
	}

	cards := projectCards(rows)
	if len(cards) != 2 {
		t.Fatalf("got %d cards, want 2", len(cards))
	}
	if cards[0].Address != "123 Maple Street" || cards[0].Image != "https://example.com/1.jpg" {
		t.Fatalf("unexpected first card: %+v", cards[0])
	}
	if cards[1].Address != "Dallas, TX" {
		t.Fatalf("address did not fall back to location: %+v", cards[1])
	}
	if cards[1].Image != placeholderImage {
		t.Fatalf("missing image did not default: %+v", cards[1])
	}
}

func TestFormatPrice(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   any
		want string
	}{
		{int64(450000), "$450,000"},
		{1234567, "$1,234,567"},
		{float64(999), "$999"},
		{nil, "N/A"},
		{"call for price", "call for price"},
	}
	for _, tc := range cases {
		if got := formatPrice(tc.in); got != tc.want {
			t.Fatalf("formatPrice(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
