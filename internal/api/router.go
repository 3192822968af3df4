// Package api exposes the consent flow, analysis and agent endpoints over HTTP.
package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/hal9000y/gmail-triage/internal/metrics"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	Triage         triageSvc
	Import         importer
	FrontendURL    string
	AllowedOrigins []string
	Metrics        *metrics.Metrics // optional
	MCP            http.Handler     // optional
	Logger         zerolog.Logger
}

// NewRouter creates the Echo instance with all routes and middleware.
func NewRouter(cfg RouterConfig) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(RequestID())
	e.Use(CORS(cfg.AllowedOrigins))
	e.Use(RequestLogger(cfg.Logger, cfg.Metrics))

	authH := NewAuthHandler(cfg.Import, cfg.FrontendURL, cfg.Logger)
	e.GET("/auth/google", authH.Begin)
	e.GET("/auth/google/callback", authH.Callback)

	triageH := NewTriageHandler(cfg.Triage, cfg.Logger)
	e.POST("/api/emails/analyze", triageH.Analyze)
	e.POST("/api/agent", triageH.Ask)

	e.GET("/health", health)

	if cfg.Metrics != nil {
		e.GET("/metrics", echo.WrapHandler(cfg.Metrics.Handler()))
	}
	if cfg.MCP != nil {
		e.Any("/mcp", echo.WrapHandler(cfg.MCP))
	}

	return e
}

func health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
