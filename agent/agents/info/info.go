package info

import (
	"context"

	"github.com/rs/zerolog/log"

	contractx "github.com/tanpawarit/Reside-Multi-Agent-Real-Estate-Assistant/agent/contract"
)

const apologyMessage = "Sorry, I couldn't answer that right now. Please try again in a moment."

// RealEstateInfoAgent answers free-form questions through the generative
// backend with no retrieval context. Backend failures degrade to an apology
// message; nothing propagates past this boundary.
type RealEstateInfoAgent struct {
	backend contractx.GenerativeBackend
}

func New(backend contractx.GenerativeBackend) *RealEstateInfoAgent {
	return &RealEstateInfoAgent{backend: backend}
}

func (a *RealEstateInfoAgent) Name() string { return contractx.AgentRealEstateInfo }

func (a *RealEstateInfoAgent) Handle(ctx context.Context, req contractx.Request) (contractx.Envelope, error) {
	answer, err := a.backend.Answer(ctx, req.Query)
	if err != nil {
		log.Warn().Err(err).Str("agent", a.Name()).Msg("backend answer failed")
		answer = apologyMessage
	}

	return contractx.Envelope{
		ResultType:   contractx.ResultMessage,
		Content:      answer,
		SourceAgents: []string{a.Name()},
	}, nil
}
