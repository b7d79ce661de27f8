// Package server exposes the agent system over HTTP.
package server

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog/log"

	contractx "github.com/tanpawarit/Reside-Multi-Agent-Real-Estate-Assistant/agent/contract"
	"github.com/tanpawarit/Reside-Multi-Agent-Real-Estate-Assistant/pkg/calendar"
	"github.com/tanpawarit/Reside-Multi-Agent-Real-Estate-Assistant/pkg/leadstore"
)

type Config struct {
	Listen string `split_words:"true" default:":8000"`
}

// Server wires the agent registry and the supporting stores into an echo app.
// Leads and calendar are optional; their routes return 503 when absent.
type Server struct {
	echo     *echo.Echo
	registry contractx.Registry
	leads    *leadstore.Store
	calendar *calendar.Client
}

func New(registry contractx.Registry, leads *leadstore.Store, cal *calendar.Client) *Server {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{"Content-Type"},
	}))

	e.HTTPErrorHandler = func(err error, c echo.Context) {
		code := http.StatusInternalServerError
		msg := err.Error()
		if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
			if he.Message != nil {
				msg = fmt.Sprint(he.Message)
			}
		}
		req := c.Request()
		log.Warn().Int("status", code).Str("method", req.Method).Str("path", req.URL.Path).Err(err).Msg("request failed")
		if !c.Response().Committed {
			_ = c.JSON(code, map[string]any{"error": msg})
		}
	}

	s := &Server{echo: e, registry: registry, leads: leads, calendar: cal}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.echo.GET("/healthz", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })

	s.echo.POST("/chat", s.chat)
	s.echo.POST("/aggregate", s.aggregate)

	s.echo.GET("/leads", s.listLeads)
	s.echo.POST("/leads", s.createLead)
	s.echo.PUT("/leads/:id", s.updateLeadStage)
	s.echo.DELETE("/leads/:id", s.deleteLead)

	s.echo.GET("/appointments", s.listAppointments)
	s.echo.POST("/appointments", s.createAppointment)
}

func (s *Server) Run(addr string) error {
	log.Info().Str("addr", addr).Msg("http server listening")
	return s.echo.Start(addr)
}
