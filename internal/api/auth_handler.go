package api

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/hal9000y/gmail-triage/internal/mailimport"
	"github.com/hal9000y/gmail-triage/internal/triage"
)

const msgAuthFailed = "Google Authentication Failed"

type importer interface {
	BeginConsent() (string, error)
	CompleteConsent(ctx context.Context, code, state string) ([]triage.MessageSummary, error)
}

// AuthHandler runs the consent redirect and hands the imported batch to the
// frontend.
type AuthHandler struct {
	imp         importer
	frontendURL string
	log         zerolog.Logger
}

// NewAuthHandler creates an AuthHandler redirecting to frontendURL on success.
func NewAuthHandler(imp importer, frontendURL string, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{imp: imp, frontendURL: frontendURL, log: log}
}

// Begin handles GET /auth/google.
func (h *AuthHandler) Begin(c echo.Context) error {
	u, err := h.imp.BeginConsent()
	if err != nil {
		h.log.Error().Err(err).Msg("BeginConsent failed")
		return c.String(http.StatusInternalServerError, msgAuthFailed)
	}

	return c.Redirect(http.StatusFound, u)
}

// Callback handles GET /auth/google/callback.
func (h *AuthHandler) Callback(c echo.Context) error {
	if providerErr := c.QueryParam("error"); providerErr != "" {
		h.log.Warn().Str("error", providerErr).Msg("Consent denied by provider")
		return c.String(http.StatusInternalServerError, msgAuthFailed)
	}

	code := c.QueryParam("code")
	if code == "" {
		h.log.Warn().Msg("Callback without code")
		return c.String(http.StatusInternalServerError, msgAuthFailed)
	}

	summaries, err := h.imp.CompleteConsent(c.Request().Context(), code, c.QueryParam("state"))
	if err != nil {
		h.log.Error().Err(err).Msg("Error during Google auth")
		return c.String(http.StatusInternalServerError, msgAuthFailed)
	}

	handoff, err := mailimport.HandoffURL(h.frontendURL, summaries)
	if err != nil {
		h.log.Error().Err(err).Msg("HandoffURL failed")
		return c.String(http.StatusInternalServerError, msgAuthFailed)
	}

	return c.Redirect(http.StatusFound, handoff)
}
