package triage

import (
	"strings"
)

const promptInstructions = `You are an AI inbox assistant.
Your task is to analyze unread email summaries and respond ONLY with a valid JSON array.
Each object must include:
- subject
- from
- date
- action (Reply, Archive, or Ignore)
- reason (short explanation)

Do NOT include markdown formatting or backticks.

[
  {
    "subject": "Example subject",
    "from": "sender@example.com",
    "date": "Mon, 1 Apr 2025 10:00:00 -0700",
    "action": "Reply",
    "reason": "Brief explanation of why"
  }
]

Emails:
`

// BuildPrompt renders the analysis instruction followed by one block per
// summary, in input order. The batch must not be empty.
func BuildPrompt(batch []MessageSummary) string {
	var b strings.Builder
	b.WriteString(promptInstructions)

	for i, m := range batch {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString("Subject: ")
		b.WriteString(m.Subject)
		b.WriteString("\nFrom: ")
		b.WriteString(m.From)
		b.WriteString("\nDate: ")
		b.WriteString(m.Date)
	}
	b.WriteString("\n")

	return b.String()
}
