// Package config loads service settings from the environment.
package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"
	oauth2api "google.golang.org/api/oauth2/v2"
)

const (
	// ModeMock swaps the model service for an offline stub.
	ModeMock = "MOCK"

	defaultModel       = "gpt-4-1106-preview"
	defaultFrontendURL = "http://localhost:5173"
)

// Config holds everything the capabilities need at construction time.
type Config struct {
	// Model service
	OpenAIAPIKey  string
	OpenAIModel   string
	OpenAIBaseURL string
	OpenAITimeout time.Duration

	// Mail provider
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURI  string

	// Presentation layer
	FrontendURL    string
	AllowedOrigins []string

	LogLevel string
	Mode     string
}

// Load reads configuration from environment variables, applying defaults.
func Load() *Config {
	frontendURL := getEnv("FRONTEND_URL", defaultFrontendURL)

	return &Config{
		OpenAIAPIKey:       os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:        getEnv("OPENAI_MODEL", defaultModel),
		OpenAIBaseURL:      os.Getenv("OPENAI_BASE_URL"),
		OpenAITimeout:      time.Duration(getEnvInt("OPENAI_TIMEOUT_MS", 60000)) * time.Millisecond,
		GoogleClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		GoogleRedirectURI:  getEnv("GOOGLE_REDIRECT_URI", "http://localhost:3001/auth/google/callback"),
		FrontendURL:        frontendURL,
		AllowedOrigins:     getEnvList("ALLOWED_ORIGINS", []string{frontendURL}),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		Mode:               strings.ToUpper(os.Getenv("TRIAGE_MODE")),
	}
}

// MockMode reports whether the model service should be stubbed.
func (c *Config) MockMode() bool {
	return c.Mode == ModeMock
}

// Validate reports every required setting that is missing.
func (c *Config) Validate() error {
	var errs []error

	if c.OpenAIAPIKey == "" && !c.MockMode() {
		errs = append(errs, errors.New("OPENAI_API_KEY must be set"))
	}
	if c.GoogleClientID == "" || c.GoogleClientSecret == "" {
		errs = append(errs, errors.New("GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET must be set"))
	}
	if c.FrontendURL == "" {
		errs = append(errs, errors.New("FRONTEND_URL must not be empty"))
	}

	return errors.Join(errs...)
}

// OAuth2 builds the Google client configuration for the consent flow.
func (c *Config) OAuth2() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     c.GoogleClientID,
		ClientSecret: c.GoogleClientSecret,
		RedirectURL:  c.GoogleRedirectURI,
		Scopes:       []string{gmail.GmailModifyScope, oauth2api.UserinfoEmailScope},
		Endpoint:     google.Endpoint,
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvList(key string, defaultVal []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}

	parts := strings.Split(val, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	if len(result) == 0 {
		return defaultVal
	}
	return result
}
