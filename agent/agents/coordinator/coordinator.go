package coordinator

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	contractx "github.com/tanpawarit/Reside-Multi-Agent-Real-Estate-Assistant/agent/contract"
)

// CoordinatorAgent fans a shared request out to a configured list of agents,
// waits for all of them, and folds their envelopes into one aggregate.
// Unresolvable names are skipped, and a failing agent contributes an error
// envelope instead of breaking its siblings.
type CoordinatorAgent struct {
	agentNames []string
	registry   contractx.Registry
}

func New(agentNames []string) *CoordinatorAgent {
	return &CoordinatorAgent{agentNames: agentNames}
}

func (a *CoordinatorAgent) Name() string { return contractx.AgentCoordinator }

func (a *CoordinatorAgent) AttachRegistry(r contractx.Registry) { a.registry = r }

func (a *CoordinatorAgent) Handle(ctx context.Context, req contractx.Request) (contractx.Envelope, error) {
	agents := make([]contractx.Agent, 0, len(a.agentNames))
	for _, name := range a.agentNames {
		agent, err := a.registry.Get(name)
		if err != nil {
			log.Warn().Str("agent", name).Msg("skipping unregistered agent in fan-out")
			continue
		}
		agents = append(agents, agent)
	}

	// One result slot per agent keeps the merge deterministic in invocation
	// order even though completion order is not.
	results := make([]contractx.Envelope, len(agents))
	var wg sync.WaitGroup
	for i, agent := range agents {
		wg.Add(1)
		go func(i int, agent contractx.Agent) {
			defer wg.Done()
			results[i] = a.invoke(ctx, agent, req)
		}(i, agent)
	}
	wg.Wait()

	return a.merge(results), nil
}

// invoke converts any agent failure into an error envelope at this boundary
// so a single bad agent never terminates the dispatch of its siblings.
func (a *CoordinatorAgent) invoke(ctx context.Context, agent contractx.Agent, req contractx.Request) contractx.Envelope {
	log.Debug().Str("agent", agent.Name()).Msg("coordinator dispatching")
	env, err := agent.Handle(ctx, req)
	if err != nil {
		log.Warn().Err(err).Str("agent", agent.Name()).Msg("fanned-out agent failed")
		return contractx.Envelope{
			ResultType:   contractx.ResultError,
			Content:      err.Error(),
			SourceAgents: []string{agent.Name()},
		}
	}
	return env
}

func (a *CoordinatorAgent) merge(results []contractx.Envelope) contractx.Envelope {
	content := contractx.AggregateContent{}
	sources := []string{a.Name()}

	for _, res := range results {
		sources = append(sources, res.SourceAgents...)

		switch res.ResultType {
		case contractx.ResultMessage:
			content.Messages = append(content.Messages, res.Content)
		case contractx.ResultPropertyCards:
			content.PropertyCards = append(content.PropertyCards, toCards(res.Content)...)
		case contractx.ResultError:
			content.Errors = append(content.Errors, fmt.Sprintf("%v", res.Content))
		default:
			if content.Extra == nil {
				content.Extra = map[contractx.ResultType][]any{}
			}
			content.Extra[res.ResultType] = append(content.Extra[res.ResultType], res.Content)
		}
	}

	return contractx.Envelope{
		ResultType:   contractx.ResultAggregate,
		Content:      content,
		SourceAgents: sources,
	}
}

// toCards flattens list-valued card content so the aggregate holds one shared
// list rather than nested lists.
func toCards(content any) []contractx.PropertyCard {
	switch cards := content.(type) {
	case []contractx.PropertyCard:
		return cards
	case []any:
		out := make([]contractx.PropertyCard, 0, len(cards))
		for _, c := range cards {
			if card, ok := c.(contractx.PropertyCard); ok {
				out = append(out, card)
			}
		}
		return out
	default:
		return nil
	}
}
