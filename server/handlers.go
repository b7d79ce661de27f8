package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	contractx "github.com/tanpawarit/Reside-Multi-Agent-Real-Estate-Assistant/agent/contract"
	"github.com/tanpawarit/Reside-Multi-Agent-Real-Estate-Assistant/pkg/calendar"
	"github.com/tanpawarit/Reside-Multi-Agent-Real-Estate-Assistant/pkg/leadstore"
)

type chatRequest struct {
	Query string `json:"query"`
}

func (s *Server) chat(c echo.Context) error {
	return s.dispatch(c, contractx.AgentQueryRouter)
}

func (s *Server) aggregate(c echo.Context) error {
	return s.dispatch(c, contractx.AgentCoordinator)
}

func (s *Server) dispatch(c echo.Context, agentName string) error {
	var req chatRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if strings.TrimSpace(req.Query) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "query is required")
	}

	agent, err := s.registry.Get(agentName)
	if err != nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, fmt.Sprintf("%s is not available", agentName))
	}

	env, err := agent.Handle(c.Request().Context(), contractx.Request{Query: req.Query})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, env)
}

func (s *Server) listLeads(c echo.Context) error {
	if s.leads == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "lead store not configured")
	}
	leads, err := s.leads.List(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, leads)
}

func (s *Server) createLead(c echo.Context) error {
	if s.leads == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "lead store not configured")
	}
	var lead leadstore.Lead
	if err := c.Bind(&lead); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := s.leads.Create(c.Request().Context(), &lead); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, lead)
}

type leadStageRequest struct {
	Stage string `json:"stage"`
}

func (s *Server) updateLeadStage(c echo.Context) error {
	if s.leads == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "lead store not configured")
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid lead id")
	}
	var req leadStageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := s.leads.UpdateStage(c.Request().Context(), id, req.Stage); err != nil {
		if errors.Is(err, leadstore.ErrLeadNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) deleteLead(c echo.Context) error {
	if s.leads == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "lead store not configured")
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid lead id")
	}
	if err := s.leads.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, leadstore.ErrLeadNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) listAppointments(c echo.Context) error {
	if s.calendar == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "calendar not configured")
	}
	events, err := s.calendar.ListEvents(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, events)
}

type appointmentRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
	Date  string `json:"date"`
	Time  string `json:"time"`
}

func (s *Server) createAppointment(c echo.Context) error {
	if s.calendar == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "calendar not configured")
	}
	var req appointmentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if strings.TrimSpace(req.Name) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name is required")
	}

	start, end, err := calendar.ParseSlot(req.Date, req.Time)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	summary := fmt.Sprintf("Property viewing with %s", req.Name)
	description := fmt.Sprintf("Phone: %s\nEmail: %s", req.Phone, req.Email)
	event, err := s.calendar.CreateEvent(c.Request().Context(), summary, start, end, description)
	if err != nil {
		if errors.Is(err, calendar.ErrNotConfigured) {
			return echo.NewHTTPError(http.StatusServiceUnavailable, err.Error())
		}
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	}
	return c.JSON(http.StatusCreated, event)
}
