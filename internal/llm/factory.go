package llm

import (
	"github.com/rs/zerolog/log"
)

// NewCompleter returns a MockClient when mock is set, otherwise a Client.
func NewCompleter(mock bool, cfg Config) Completer {
	if mock {
		log.Warn().Msg("TRIAGE_MODE=MOCK detected, using mock model client")
		return NewMockClient()
	}

	return NewClient(cfg)
}
