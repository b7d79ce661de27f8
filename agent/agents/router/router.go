package router

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	contractx "github.com/tanpawarit/Reside-Multi-Agent-Real-Estate-Assistant/agent/contract"
)

// Strategy selects how the router decides a branch.
type Strategy string

const (
	// StrategyKeyword matches a fixed property keyword set as substrings.
	StrategyKeyword Strategy = "keyword"
	// StrategyClassifier delegates the decision to the intent classifier.
	StrategyClassifier Strategy = "classifier"
)

var propertyKeywords = []string{
	"property", "properties", "listing", "listings",
	"home", "house", "apartment", "condo",
}

var greetingKeywords = []string{"hi", "hello", "hey"}

const (
	greetingMessage = "Hello! Ask me about property listings or anything real estate."
	fallbackMessage = "Sorry, I can't handle that request yet."
)

// QueryRouterAgent forwards each query to exactly one downstream agent and
// prepends itself to the result's provenance. It is stateless across calls.
type QueryRouterAgent struct {
	strategy Strategy
	registry contractx.Registry
}

func New(strategy Strategy) *QueryRouterAgent {
	if strategy != StrategyClassifier {
		strategy = StrategyKeyword
	}
	return &QueryRouterAgent{strategy: strategy}
}

func (a *QueryRouterAgent) Name() string { return contractx.AgentQueryRouter }

// AttachRegistry gives the router its peer-lookup back-reference when it is
// registered.
func (a *QueryRouterAgent) AttachRegistry(r contractx.Registry) { a.registry = r }

func (a *QueryRouterAgent) Handle(ctx context.Context, req contractx.Request) (contractx.Envelope, error) {
	if a.strategy == StrategyClassifier {
		return a.routeByClassifier(ctx, req)
	}
	return a.routeByKeyword(ctx, req)
}

func (a *QueryRouterAgent) routeByKeyword(ctx context.Context, req contractx.Request) (contractx.Envelope, error) {
	q := strings.ToLower(req.Query)

	if containsAny(q, propertyKeywords) {
		return a.dispatch(ctx, contractx.AgentPropertySearch, req)
	}
	if containsAny(q, greetingKeywords) {
		return a.canned(contractx.ResultMessage, greetingMessage), nil
	}
	return a.canned(contractx.ResultMessage, fallbackMessage), nil
}

func (a *QueryRouterAgent) routeByClassifier(ctx context.Context, req contractx.Request) (contractx.Envelope, error) {
	classifier, err := a.registry.Get(contractx.AgentIntentClassifier)
	if err != nil {
		log.Warn().Err(err).Msg("intent classifier unavailable; query is unroutable")
		return a.canned(contractx.ResultMessage, fallbackMessage), nil
	}

	env, err := classifier.Handle(ctx, req)
	if err != nil {
		log.Warn().Err(err).Msg("intent classification failed; query is unroutable")
		return a.canned(contractx.ResultMessage, fallbackMessage), nil
	}

	target := contractx.AgentRealEstateInfo
	if intent, ok := env.Content.(string); ok && intent == contractx.IntentPropertySearch {
		target = contractx.AgentPropertySearch
	}
	return a.dispatch(ctx, target, req)
}

// dispatch forwards the request to a registered peer and prepends the
// router's name so provenance shows the full chain in call order.
func (a *QueryRouterAgent) dispatch(ctx context.Context, name string, req contractx.Request) (contractx.Envelope, error) {
	downstream, err := a.registry.Get(name)
	if err != nil {
		log.Warn().Err(err).Str("target", name).Msg("downstream agent unavailable; query is unroutable")
		return a.canned(contractx.ResultMessage, fallbackMessage), nil
	}

	env, err := downstream.Handle(ctx, req)
	if err != nil {
		log.Warn().Err(err).Str("target", name).Msg("downstream agent failed")
		return contractx.Envelope{
			ResultType:   contractx.ResultError,
			Content:      err.Error(),
			SourceAgents: []string{a.Name(), name},
		}, nil
	}

	env.SourceAgents = append([]string{a.Name()}, env.SourceAgents...)
	return env, nil
}

func (a *QueryRouterAgent) canned(resultType contractx.ResultType, message string) contractx.Envelope {
	return contractx.Envelope{
		ResultType:   resultType,
		Content:      message,
		SourceAgents: []string{a.Name()},
	}
}

func containsAny(q string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(q, kw) {
			return true
		}
	}
	return false
}
