package api

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/hal9000y/gmail-triage/internal/triage"
)

const msgInvalidBody = "Invalid request body"

type triageSvc interface {
	Analyze(ctx context.Context, batch []triage.MessageSummary) ([]triage.Suggestion, error)
	Ask(ctx context.Context, q triage.AgentQuery) (triage.AgentAnswer, error)
}

// AnalyzeRequest is the body of POST /api/emails/analyze.
type AnalyzeRequest struct {
	Emails []triage.MessageSummary `json:"emails"`
}

// AnalyzeResponse carries suggestions already normalized on the server.
type AnalyzeResponse struct {
	Suggestions []triage.Suggestion `json:"suggestions"`
}

// TriageHandler serves the analysis and agent endpoints.
type TriageHandler struct {
	svc triageSvc
	log zerolog.Logger
}

// NewTriageHandler creates a TriageHandler.
func NewTriageHandler(svc triageSvc, log zerolog.Logger) *TriageHandler {
	return &TriageHandler{svc: svc, log: log}
}

// Analyze handles POST /api/emails/analyze.
func (h *TriageHandler) Analyze(c echo.Context) error {
	var req AnalyzeRequest
	if err := c.Bind(&req); err != nil {
		h.log.Debug().Err(err).Msg("Analyze: bad body")
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: msgInvalidBody})
	}

	suggestions, err := h.svc.Analyze(c.Request().Context(), req.Emails)
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(http.StatusOK, AnalyzeResponse{Suggestions: suggestions})
}

// Ask handles POST /api/agent.
func (h *TriageHandler) Ask(c echo.Context) error {
	var q triage.AgentQuery
	if err := c.Bind(&q); err != nil {
		h.log.Debug().Err(err).Msg("Ask: bad body")
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: msgInvalidBody})
	}

	answer, err := h.svc.Ask(c.Request().Context(), q)
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(http.StatusOK, answer)
}
