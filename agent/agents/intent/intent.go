package intent

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	contractx "github.com/tanpawarit/Reside-Multi-Agent-Real-Estate-Assistant/agent/contract"
)

const minTokenLen = 3

// IntentClassifierAgent decides whether a query needs property retrieval by
// probing the property store with the query's informative tokens. The
// retrieval path doubles as a cheap relevance oracle: a single matching
// listing is enough to call the intent property_search.
type IntentClassifierAgent struct {
	source contractx.PropertySource
	limit  int
}

func NewClassifier(source contractx.PropertySource) *IntentClassifierAgent {
	return &IntentClassifierAgent{source: source, limit: 1}
}

func (a *IntentClassifierAgent) Name() string { return contractx.AgentIntentClassifier }

func (a *IntentClassifierAgent) Handle(ctx context.Context, req contractx.Request) (contractx.Envelope, error) {
	intent := contractx.IntentGeneralInfo

	// Drop short tokens so greetings and filler don't trigger retrieval,
	// and singularize so "houses" still matches "house".
	tokens := make([]string, 0, 4)
	for _, t := range strings.Fields(strings.ToLower(req.Query)) {
		if len(t) < minTokenLen {
			continue
		}
		tokens = append(tokens, strings.TrimSuffix(t, "s"))
	}

	if len(tokens) > 0 {
		listings, err := a.source.Search(ctx, strings.Join(tokens, " "), a.limit)
		if err != nil {
			log.Warn().Err(err).Str("agent", a.Name()).Msg("relevance probe failed; assuming general_info")
		} else if len(listings) > 0 {
			intent = contractx.IntentPropertySearch
		}
	}

	return contractx.Envelope{
		ResultType:   contractx.ResultIntent,
		Content:      intent,
		SourceAgents: []string{a.Name()},
	}, nil
}
