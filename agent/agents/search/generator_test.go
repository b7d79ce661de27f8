package search

import (
	"context"
	"errors"
	"strings"
	"testing"

	contractx "github.com/tanpawarit/Reside-Multi-Agent-Real-Estate-Assistant/agent/contract"
)

type fakeBackend struct {
	sql       string
	answer    string
	sqlErr    error
	answerErr error
}

func (f *fakeBackend) GenerateSQL(ctx context.Context, query string) (string, error) {
	return f.sql, f.sqlErr
}

func (f *fakeBackend) Answer(ctx context.Context, question string) (string, error) {
	return f.answer, f.answerErr
}

func TestGeneratorUsesBackend(t *testing.T) {
	t.Parallel()

	gen := NewGenerator(&fakeBackend{sql: "```sql\nSELECT * FROM properties WHERE price < 500000 LIMIT 10\n```"})
	env, err := gen.Handle(context.Background(), contractx.Request{Query: "cheap homes"})
	if err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if env.ResultType != contractx.ResultSQLQuery {
		t.Fatalf("result type = %s, want sql_query", env.ResultType)
	}
	got, ok := env.Content.(string)
	if !ok {
		t.Fatalf("content is %T, want string", env.Content)
	}
	if got != "SELECT * FROM properties WHERE price < 500000 LIMIT 10" {
		t.Fatalf("content = %q, fences not stripped", got)
	}
}

func TestGeneratorFallsBackOnBackendError(t *testing.T) {
	t.Parallel()

	gen := NewGenerator(&fakeBackend{sqlErr: errors.New("model unavailable")})
	env, err := gen.Handle(context.Background(), contractx.Request{Query: "homes in austin"})
	if err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	got := env.Content.(string)
	if !strings.HasPrefix(got, "SELECT * FROM properties WHERE ") {
		t.Fatalf("heuristic query = %q", got)
	}
	if !strings.Contains(got, "LOWER(address) LIKE '%homes in austin%'") {
		t.Fatalf("heuristic query missing keyword predicate: %q", got)
	}
	if !strings.HasSuffix(got, "LIMIT 10") {
		t.Fatalf("heuristic query unbounded: %q", got)
	}
}

func TestGeneratorAllPropertiesShortcut(t *testing.T) {
	t.Parallel()

	gen := NewGenerator(&fakeBackend{sqlErr: errors.New("down")})
	env, err := gen.Handle(context.Background(), contractx.Request{Query: "show me all properties"})
	if err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if got := env.Content.(string); got != "SELECT * FROM properties WHERE 1=1 LIMIT 10" {
		t.Fatalf("all-properties query = %q", got)
	}
}

func TestGeneratorEscapesQuotes(t *testing.T) {
	t.Parallel()

	gen := NewGenerator(&fakeBackend{sqlErr: errors.New("down")})
	env, err := gen.Handle(context.Background(), contractx.Request{Query: "o'brien"})
	if err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	got := env.Content.(string)
	if !strings.Contains(got, "o''brien") {
		t.Fatalf("quote not escaped: %q", got)
	}
}

func TestGeneratorEmptyQuery(t *testing.T) {
	t.Parallel()

	gen := NewGenerator(&fakeBackend{})
	env, err := gen.Handle(context.Background(), contractx.Request{Query: "   "})
	if err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if got := env.Content.(string); got != "SELECT * FROM properties WHERE 1=1 LIMIT 10" {
		t.Fatalf("empty-query fallback = %q", got)
	}
}

func TestGeneratorProvenance(t *testing.T) {
	t.Parallel()

	gen := NewGenerator(&fakeBackend{sql: "SELECT * FROM properties LIMIT 10"})
	env, err := gen.Handle(context.Background(), contractx.Request{Query: "homes"})
	if err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if len(env.SourceAgents) != 1 || env.SourceAgents[0] != contractx.AgentSQLGenerator {
		t.Fatalf("source agents = %v", env.SourceAgents)
	}
}
