package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// MockClient answers without a network call. Analysis prompts get a fenced
// JSON array suggesting Ignore for every listed email.
type MockClient struct{}

// NewMockClient creates a new mock client.
func NewMockClient() *MockClient {
	return &MockClient{}
}

// Ensure MockClient implements Completer.
var _ Completer = (*MockClient)(nil)

type mockSuggestion struct {
	Subject string `json:"subject"`
	From    string `json:"from"`
	Date    string `json:"date"`
	Action  string `json:"action"`
	Reason  string `json:"reason"`
}

// Complete returns a canned reply derived from the prompt.
func (m *MockClient) Complete(_ context.Context, prompt string) (string, error) {
	_, emails, found := strings.Cut(prompt, "\nEmails:\n")
	if !found {
		return fmt.Sprintf("[MOCK] Received your message: %q. This is a mock response.", truncate(prompt, 100)), nil
	}

	suggestions := []mockSuggestion{}
	for _, line := range strings.Split(emails, "\n") {
		last := len(suggestions) - 1
		switch {
		case strings.HasPrefix(line, "Subject: "):
			suggestions = append(suggestions, mockSuggestion{
				Subject: strings.TrimPrefix(line, "Subject: "),
				Action:  "Ignore",
				Reason:  "[MOCK] No model configured",
			})
		case last >= 0 && strings.HasPrefix(line, "From: "):
			suggestions[last].From = strings.TrimPrefix(line, "From: ")
		case last >= 0 && strings.HasPrefix(line, "Date: "):
			suggestions[last].Date = strings.TrimPrefix(line, "Date: ")
		}
	}

	out, err := json.Marshal(suggestions)
	if err != nil {
		return "", fmt.Errorf("json.Marshal failed: %w", err)
	}

	return "```json\n" + string(out) + "\n```", nil
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
