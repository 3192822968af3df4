package triage

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const fence = "```"

var (
	errEmptyReply = errors.New("empty reply")
	errNoItems    = errors.New("reply is not a non-empty JSON array")
	errBadItem    = errors.New("suggestion without subject or action")
)

// placeholder is what callers get when the model reply cannot be parsed.
func placeholder() []Suggestion {
	return []Suggestion{{
		Subject: "Error",
		Action:  ActionNone,
		Reason:  "Could not parse GPT response",
	}}
}

// Normalize recovers suggestions from a raw model reply. It never fails: an
// unparseable reply yields a single error placeholder and the raw text is
// logged through the global logger.
func Normalize(raw string) []Suggestion {
	suggestions, _ := normalize(log.Logger, raw)
	return suggestions
}

func normalize(l zerolog.Logger, raw string) ([]Suggestion, bool) {
	suggestions, err := parseSuggestions(raw)
	if err != nil {
		l.Warn().Err(err).Str("raw_reply", raw).Msg("Could not parse model reply, using placeholder")
		return placeholder(), false
	}

	return suggestions, true
}

func parseSuggestions(raw string) ([]Suggestion, error) {
	text := stripFence(raw)
	if text == "" {
		return nil, errEmptyReply
	}

	var suggestions []Suggestion
	if err := json.Unmarshal([]byte(text), &suggestions); err != nil {
		return nil, fmt.Errorf("json.Unmarshal failed: %w", err)
	}

	// null decodes into a nil slice without error
	if len(suggestions) == 0 {
		return nil, errNoItems
	}
	for _, s := range suggestions {
		if s.Subject == "" || s.Action == "" {
			return nil, errBadItem
		}
	}

	return suggestions, nil
}

// stripFence removes an optional leading ```lang line and a trailing ```.
func stripFence(s string) string {
	s = strings.TrimSpace(s)

	if rest, ok := strings.CutPrefix(s, fence); ok {
		line, body, found := strings.Cut(rest, "\n")
		if found && isLangTag(strings.TrimSpace(line)) {
			rest = body
		} else {
			rest = strings.TrimLeftFunc(rest, isLangTagRune)
		}
		s = strings.TrimSpace(rest)
	}

	s = strings.TrimSuffix(s, fence)

	return strings.TrimSpace(s)
}

func isLangTag(s string) bool {
	for _, r := range s {
		if !isLangTagRune(r) {
			return false
		}
	}
	return true
}

func isLangTagRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '+' || r == '_' || r == '.'
}
