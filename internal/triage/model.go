// Package triage turns unread message summaries into suggested inbox actions.
package triage

// MessageSummary is the header metadata of one unread message.
type MessageSummary struct {
	Subject string `json:"subject" jsonschema:"message subject"`
	From    string `json:"from" jsonschema:"sender as it appears in the From header"`
	Date    string `json:"date" jsonschema:"value of the Date header"`
}

func (m MessageSummary) complete() bool {
	return m.Subject != "" && m.From != "" && m.Date != ""
}

// Action is what the model suggests doing with a message.
type Action string

const (
	ActionReply   Action = "Reply"
	ActionArchive Action = "Archive"
	ActionIgnore  Action = "Ignore"
	// ActionNone only appears on the parse failure placeholder.
	ActionNone Action = "none"
)

// Suggestion is the model's verdict for one message. From and Date are
// passed through when the model echoes them.
type Suggestion struct {
	Subject string `json:"subject" jsonschema:"subject of the analyzed message"`
	From    string `json:"from,omitempty" jsonschema:"sender of the analyzed message"`
	Date    string `json:"date,omitempty" jsonschema:"date of the analyzed message"`
	Action  Action `json:"action" jsonschema:"suggested action: Reply, Archive or Ignore"`
	Reason  string `json:"reason" jsonschema:"short explanation"`
}

// AgentQuery is a free-text prompt for the model.
type AgentQuery struct {
	Prompt string `json:"prompt" jsonschema:"prompt forwarded verbatim to the model"`
}

// AgentAnswer is the model's unmodified reply.
type AgentAnswer struct {
	Response string `json:"response" jsonschema:"model reply"`
}
