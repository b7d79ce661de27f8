package search

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/cloudwego/eino/compose"
	"github.com/rs/zerolog/log"

	contractx "github.com/tanpawarit/Reside-Multi-Agent-Real-Estate-Assistant/agent/contract"
)

const placeholderImage = "https://placehold.co/400x300"

const noMatchMessage = "No matching properties found."

// PropertySearchAgent chains the generator, executor, and validator stages
// and turns surviving rows into display-ready property cards. It is the
// failure boundary for the whole pipeline: any stage error becomes an
// error-typed envelope, never a returned error.
type PropertySearchAgent struct {
	generator contractx.Agent
	executor  contractx.Agent
	validator contractx.Agent

	runner compose.Runnable[contractx.Request, contractx.Envelope]
}

func NewSearch(generator, executor, validator contractx.Agent) (*PropertySearchAgent, error) {
	if generator == nil || executor == nil || validator == nil {
		return nil, errors.New("generator, executor, and validator are required")
	}
	a := &PropertySearchAgent{
		generator: generator,
		executor:  executor,
		validator: validator,
	}
	runner, err := a.compileSearchGraph(context.Background())
	if err != nil {
		return nil, err
	}
	a.runner = runner
	return a, nil
}

func (a *PropertySearchAgent) Name() string { return contractx.AgentPropertySearch }

func (a *PropertySearchAgent) Handle(ctx context.Context, req contractx.Request) (contractx.Envelope, error) {
	out, err := a.runner.Invoke(ctx, req)
	if err != nil {
		log.Warn().Err(err).Str("agent", a.Name()).Msg("search pipeline failed")
		return contractx.Envelope{
			ResultType:   contractx.ResultError,
			Content:      err.Error(),
			SourceAgents: []string{a.Name()},
		}, nil
	}
	return out, nil
}

func projectCards(rows []contractx.Row) []contractx.PropertyCard {
	cards := make([]contractx.PropertyCard, 0, len(rows))
	for _, row := range rows {
		address := stringField(row["address"])
		if address == "" {
			address = stringField(row["location"])
		}
		image := stringField(row["image"])
		if image == "" {
			image = placeholderImage
		}
		cards = append(cards, contractx.PropertyCard{
			Address:     address,
			Price:       row["price"],
			Description: stringField(row["description"]),
			Image:       image,
		})
	}
	return cards
}

func summaryMessage(cards []contractx.PropertyCard) string {
	if len(cards) == 0 {
		return noMatchMessage
	}
	parts := make([]string, 0, len(cards))
	for _, card := range cards {
		parts = append(parts, fmt.Sprintf("%s (%s)", card.Address, formatPrice(card.Price)))
	}
	return "Here are the top properties I found: " + strings.Join(parts, ", ")
}

// formatPrice renders numeric prices with thousands separators; non-numeric
// values pass through as-is.
func formatPrice(price any) string {
	switch p := price.(type) {
	case nil:
		return "N/A"
	case int:
		return "$" + groupThousands(int64(p))
	case int64:
		return "$" + groupThousands(p)
	case float64:
		return "$" + groupThousands(int64(p))
	default:
		return fmt.Sprintf("%v", p)
	}
}

func groupThousands(n int64) string {
	digits := strconv.FormatInt(n, 10)
	sign := ""
	if strings.HasPrefix(digits, "-") {
		sign = "-"
		digits = digits[1:]
	}
	var b strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}
	return sign + b.String()
}

func stringField(v any) string {
	if v == nil {
		return ""
	}
	return strings.TrimSpace(fmt.Sprintf("%v", v))
}
