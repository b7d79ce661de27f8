package main

import (
	"context"

	"github.com/rs/zerolog/log"

	coordinatorx "github.com/tanpawarit/Reside-Multi-Agent-Real-Estate-Assistant/agent/agents/coordinator"
	infox "github.com/tanpawarit/Reside-Multi-Agent-Real-Estate-Assistant/agent/agents/info"
	intentx "github.com/tanpawarit/Reside-Multi-Agent-Real-Estate-Assistant/agent/agents/intent"
	routerx "github.com/tanpawarit/Reside-Multi-Agent-Real-Estate-Assistant/agent/agents/router"
	searchx "github.com/tanpawarit/Reside-Multi-Agent-Real-Estate-Assistant/agent/agents/search"
	contractx "github.com/tanpawarit/Reside-Multi-Agent-Real-Estate-Assistant/agent/contract"
	llmx "github.com/tanpawarit/Reside-Multi-Agent-Real-Estate-Assistant/agent/llm"
	"github.com/tanpawarit/Reside-Multi-Agent-Real-Estate-Assistant/agent/propstore"
	registryx "github.com/tanpawarit/Reside-Multi-Agent-Real-Estate-Assistant/agent/registry"
	"github.com/tanpawarit/Reside-Multi-Agent-Real-Estate-Assistant/pkg/calendar"
	configx "github.com/tanpawarit/Reside-Multi-Agent-Real-Estate-Assistant/pkg/config"
	"github.com/tanpawarit/Reside-Multi-Agent-Real-Estate-Assistant/pkg/leadstore"
	_ "github.com/tanpawarit/Reside-Multi-Agent-Real-Estate-Assistant/pkg/logger/autoload"
	"github.com/tanpawarit/Reside-Multi-Agent-Real-Estate-Assistant/server"
)

type AppConfig struct {
	DataFile       string `envconfig:"DATA_FILE" split_words:"true" default:"data/listings.csv"`
	RouterStrategy string `envconfig:"ROUTER_STRATEGY" split_words:"true" default:"keyword"`
}

func main() {
	ctx := context.Background()

	appCfg := configx.MustNew[AppConfig]("")
	serverCfg := configx.MustNew[server.Config]("SERVER")

	store, err := propstore.New(appCfg.DataFile)
	if err != nil {
		log.Fatal().Err(err).Str("data_file", appCfg.DataFile).Msg("failed to load property data")
	}

	llmCfg := configx.MustNew[llmx.Config]("OPENROUTER")
	backend, err := llmx.NewClient(ctx, *llmCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build llm backend")
	}

	searchAgent, err := searchx.NewSearch(
		searchx.NewGenerator(backend),
		searchx.NewExecutor(store),
		searchx.NewValidator(),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build search pipeline")
	}

	reg := registryx.New()
	reg.Register(searchAgent)
	reg.Register(intentx.NewClassifier(store))
	reg.Register(infox.New(backend))
	reg.Register(routerx.New(routerx.Strategy(appCfg.RouterStrategy)))
	reg.Register(coordinatorx.New([]string{
		contractx.AgentPropertySearch,
		contractx.AgentRealEstateInfo,
	}))

	// Leads and calendar are optional; the server degrades their routes when
	// either is absent.
	var leads *leadstore.Store
	if leadCfg, err := configx.New[leadstore.Config]("LEADS"); err != nil {
		log.Warn().Err(err).Msg("lead store disabled")
	} else if leads, err = leadstore.New(*leadCfg); err != nil {
		log.Warn().Err(err).Msg("lead store disabled")
		leads = nil
	} else if err := leads.Init(ctx); err != nil {
		log.Warn().Err(err).Msg("lead store disabled")
		leads = nil
	}

	cal := calendar.MustNew(*configx.MustNew[calendar.Config]("CALENDAR"))
	if !cal.Configured() {
		log.Info().Msg("calendar not configured; appointment booking disabled")
	}

	srv := server.New(reg, leads, cal)
	if err := srv.Run(serverCfg.Listen); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
