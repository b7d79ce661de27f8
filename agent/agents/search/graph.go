package search

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/compose"

	contractx "github.com/tanpawarit/Reside-Multi-Agent-Real-Estate-Assistant/agent/contract"
)

// searchGraphState is threaded through the pipeline stages. SQLQuery always
// holds the query that was most recently run, fallback substitution included.
type searchGraphState struct {
	Query    string
	SQLQuery string
	Rows     []contractx.Row
	Sources  []string
}

func (a *PropertySearchAgent) compileSearchGraph(ctx context.Context) (compose.Runnable[contractx.Request, contractx.Envelope], error) {
	graph := compose.NewGraph[contractx.Request, contractx.Envelope]()

	if err := graph.AddLambdaNode("generate_sql",
		compose.InvokableLambda(func(ctx context.Context, in contractx.Request) (*searchGraphState, error) {
			env, err := a.generator.Handle(ctx, in)
			if err != nil {
				return nil, err
			}
			sqlQuery, ok := env.Content.(string)
			if !ok {
				return nil, fmt.Errorf("%w: generator returned %T, want string", contractx.ErrValidation, env.Content)
			}
			return &searchGraphState{
				Query:    in.Query,
				SQLQuery: sqlQuery,
				Sources:  env.SourceAgents,
			}, nil
		}),
	); err != nil {
		return nil, fmt.Errorf("add node generate_sql: %w", err)
	}

	if err := graph.AddLambdaNode("execute_sql",
		compose.InvokableLambda(func(ctx context.Context, in *searchGraphState) (*searchGraphState, error) {
			env, err := a.executor.Handle(ctx, contractx.Request{Query: in.Query, SQLQuery: in.SQLQuery})
			if err != nil {
				return nil, err
			}
			rows, ok := env.Content.([]contractx.Row)
			if !ok {
				return nil, fmt.Errorf("%w: executor returned %T, want rows", contractx.ErrValidation, env.Content)
			}
			in.Rows = rows
			in.SQLQuery = env.SQLQuery
			in.Sources = append(in.Sources, env.SourceAgents...)
			return in, nil
		}),
	); err != nil {
		return nil, fmt.Errorf("add node execute_sql: %w", err)
	}

	if err := graph.AddLambdaNode("validate_results",
		compose.InvokableLambda(func(ctx context.Context, in *searchGraphState) (*searchGraphState, error) {
			env, err := a.validator.Handle(ctx, contractx.Request{SQLQuery: in.SQLQuery, Results: in.Rows})
			if err != nil {
				return nil, err
			}
			valid, ok := env.Content.(bool)
			if !ok {
				return nil, fmt.Errorf("%w: validator returned %T, want bool", contractx.ErrValidation, env.Content)
			}
			if !valid {
				in.Rows = nil
			}
			in.Sources = append(in.Sources, env.SourceAgents...)
			return in, nil
		}),
	); err != nil {
		return nil, fmt.Errorf("add node validate_results: %w", err)
	}

	if err := graph.AddLambdaNode("build_cards",
		compose.InvokableLambda(func(ctx context.Context, in *searchGraphState) (contractx.Envelope, error) {
			cards := projectCards(in.Rows)
			return contractx.Envelope{
				ResultType: contractx.ResultPropertySearch,
				Content: contractx.SearchContent{
					Message:    summaryMessage(cards),
					Properties: cards,
				},
				SourceAgents: append([]string{contractx.AgentPropertySearch}, in.Sources...),
			}, nil
		}),
	); err != nil {
		return nil, fmt.Errorf("add node build_cards: %w", err)
	}

	edges := [][2]string{
		{compose.START, "generate_sql"},
		{"generate_sql", "execute_sql"},
		{"execute_sql", "validate_results"},
		{"validate_results", "build_cards"},
		{"build_cards", compose.END},
	}
	for _, edge := range edges {
		if err := graph.AddEdge(edge[0], edge[1]); err != nil {
			return nil, fmt.Errorf("add edge %s->%s: %w", edge[0], edge[1], err)
		}
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName("search.pipeline"))
	if err != nil {
		return nil, fmt.Errorf("compile search pipeline graph: %w", err)
	}
	return runner, nil
}
