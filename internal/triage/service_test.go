package triage_test

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hal9000y/gmail-triage/internal/apperr"
	"github.com/hal9000y/gmail-triage/internal/metrics"
	"github.com/hal9000y/gmail-triage/internal/triage"
)

type completerMock struct {
	CompleteFunc func(ctx context.Context, prompt string) (string, error)
	prompts      []string
}

func (m *completerMock) Complete(ctx context.Context, prompt string) (string, error) {
	m.prompts = append(m.prompts, prompt)
	return m.CompleteFunc(ctx, prompt)
}

func replying(reply string, err error) *completerMock {
	return &completerMock{
		CompleteFunc: func(context.Context, string) (string, error) {
			return reply, err
		},
	}
}

var meetingNotes = triage.MessageSummary{
	Subject: "Follow up on meeting notes",
	From:    "client@example.com",
	Date:    "Mon, 15 Apr 2024 09:00:00 -0500",
}

func TestAnalyze(t *testing.T) {
	cases := []struct {
		name          string
		batch         []triage.MessageSummary
		reply         string
		replyErr      error
		expected      []triage.Suggestion
		expectedKind  apperr.Kind
		expectedMsg   string
		expectedCalls int
		fallbacks     float64
	}{
		{
			name:  "fenced reply",
			batch: []triage.MessageSummary{meetingNotes},
			reply: "```json\n[{\"subject\":\"Follow up on meeting notes\",\"action\":\"Reply\",\"reason\":\"Client awaiting response\"}]\n```",
			expected: []triage.Suggestion{
				{Subject: "Follow up on meeting notes", Action: triage.ActionReply, Reason: "Client awaiting response"},
			},
			expectedCalls: 1,
		},
		{
			name:          "unparseable reply degrades to placeholder",
			batch:         []triage.MessageSummary{meetingNotes},
			reply:         "Sure! Here is what I think...",
			expected:      placeholder,
			expectedCalls: 1,
			fallbacks:     1,
		},
		{
			name:         "empty batch",
			batch:        nil,
			expectedKind: apperr.KindBadRequest,
			expectedMsg:  "No emails provided",
		},
		{
			name:         "only incomplete summaries",
			batch:        []triage.MessageSummary{{Subject: "no sender", Date: "today"}, {From: "a@example.com"}},
			expectedKind: apperr.KindBadRequest,
			expectedMsg:  "No emails provided",
		},
		{
			name:          "model failure",
			batch:         []triage.MessageSummary{meetingNotes},
			replyErr:      errors.New("429 quota exceeded"),
			expectedKind:  apperr.KindDependencyFailure,
			expectedMsg:   "Failed to analyze emails.",
			expectedCalls: 1,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			llm := replying(tc.reply, tc.replyErr)
			m := metrics.New()
			svc := triage.NewService(llm, m, zerolog.Nop())

			result, err := svc.Analyze(context.Background(), tc.batch)

			assert.Len(t, llm.prompts, tc.expectedCalls)
			assert.Equal(t, tc.fallbacks, testutil.ToFloat64(m.ParseFallbackTotal))

			if tc.expectedKind != apperr.KindUnknown {
				require.Error(t, err)
				assert.Nil(t, result)
				assert.Equal(t, tc.expectedKind, apperr.KindOf(err))
				assert.Equal(t, tc.expectedMsg, apperr.PublicMessage(err))
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.expected, result)
		})
	}
}

func TestAnalyzeDropsIncompleteSummaries(t *testing.T) {
	llm := replying(`[{"subject":"Follow up on meeting notes","action":"Reply","reason":"r"}]`, nil)
	svc := triage.NewService(llm, nil, zerolog.Nop())

	_, err := svc.Analyze(context.Background(), []triage.MessageSummary{
		{Subject: "missing date", From: "a@example.com"},
		meetingNotes,
	})
	require.NoError(t, err)

	require.Len(t, llm.prompts, 1)
	assert.Equal(t, triage.BuildPrompt([]triage.MessageSummary{meetingNotes}), llm.prompts[0])
	assert.NotContains(t, llm.prompts[0], "missing date")
}

func TestAnalyzeModelFailureHidesCause(t *testing.T) {
	cause := errors.New("invalid api key sk-123")
	svc := triage.NewService(replying("", cause), nil, zerolog.Nop())

	_, err := svc.Analyze(context.Background(), []triage.MessageSummary{meetingNotes})

	require.ErrorIs(t, err, cause)
	assert.NotContains(t, apperr.PublicMessage(err), "sk-123")
}

func TestAsk(t *testing.T) {
	cases := []struct {
		name         string
		query        triage.AgentQuery
		reply        string
		replyErr     error
		expected     triage.AgentAnswer
		expectedKind apperr.Kind
		expectedMsg  string
		calls        int
	}{
		{
			name:     "reply returned unmodified",
			query:    triage.AgentQuery{Prompt: "Summarize"},
			reply:    "```\nnot normalized\n```",
			expected: triage.AgentAnswer{Response: "```\nnot normalized\n```"},
			calls:    1,
		},
		{
			name:         "model failure",
			query:        triage.AgentQuery{Prompt: "Summarize"},
			replyErr:     errors.New("timeout"),
			expectedKind: apperr.KindDependencyFailure,
			expectedMsg:  "Failed to get response from OpenAI.",
			calls:        1,
		},
		{
			name:         "blank prompt",
			query:        triage.AgentQuery{Prompt: "  \n"},
			expectedKind: apperr.KindBadRequest,
			expectedMsg:  "No prompt provided",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			llm := replying(tc.reply, tc.replyErr)
			svc := triage.NewService(llm, nil, zerolog.Nop())

			answer, err := svc.Ask(context.Background(), tc.query)

			require.Len(t, llm.prompts, tc.calls)
			if tc.calls > 0 {
				assert.Equal(t, tc.query.Prompt, llm.prompts[0])
			}

			if tc.expectedKind != apperr.KindUnknown {
				require.Error(t, err)
				assert.Equal(t, tc.expectedKind, apperr.KindOf(err))
				assert.Equal(t, tc.expectedMsg, apperr.PublicMessage(err))
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.expected, answer)
		})
	}
}
