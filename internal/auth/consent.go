// Package auth drives the Google OAuth2 consent and code exchange.
package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/oauth2"
)

const stateTTL = 5 * time.Minute

// ErrInvalidState indicates a callback carried an unknown or expired state.
var ErrInvalidState = errors.New("invalid or expired state parameter")

// Consent produces consent URLs and exchanges authorization codes. Tokens are
// handed to the caller and never stored.
type Consent struct {
	mu         sync.Mutex
	cfg        *oauth2.Config
	stateStore map[string]time.Time
	now        func() time.Time
}

// NewConsent creates a Consent for the given client configuration.
func NewConsent(cfg *oauth2.Config) *Consent {
	return &Consent{
		cfg:        cfg,
		stateStore: make(map[string]time.Time),
		now:        time.Now,
	}
}

// RedirectURL generates the consent URL with a one-time random state,
// requesting offline access and forcing the consent screen.
func (c *Consent) RedirectURL() (string, error) {
	state, err := c.generateState()
	if err != nil {
		return "", fmt.Errorf("generateState failed: %w", err)
	}

	return c.cfg.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce), nil
}

// Exchange trades an authorization code for a token after validating state.
func (c *Consent) Exchange(ctx context.Context, code, state string) (*oauth2.Token, error) {
	if !c.validateState(state) {
		return nil, ErrInvalidState
	}

	tok, err := c.cfg.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("cfg.Exchange failed: %w", err)
	}

	return tok, nil
}

func (c *Consent) generateState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("rand.Read failed: %w", err)
	}
	state := base64.URLEncoding.EncodeToString(b)

	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	c.stateStore[state] = now.Add(stateTTL)

	for s, exp := range c.stateStore {
		if exp.Before(now) {
			delete(c.stateStore, s)
		}
	}

	return state, nil
}

func (c *Consent) validateState(state string) bool {
	if state == "" {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	expiry, exists := c.stateStore[state]
	if !exists {
		return false
	}

	delete(c.stateStore, state)

	return !c.now().After(expiry)
}
