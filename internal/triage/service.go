package triage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/hal9000y/gmail-triage/internal/apperr"
	"github.com/hal9000y/gmail-triage/internal/metrics"
)

const (
	msgNoEmails       = "No emails provided"
	msgNoPrompt       = "No prompt provided"
	msgAnalyzeFailed  = "Failed to analyze emails."
	msgAgentFailed    = "Failed to get response from OpenAI."
	operationAnalyze  = "analyze"
	operationAskAgent = "ask"
)

type completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Service runs analysis and agent queries against the model service.
// Failures are surfaced, never retried.
type Service struct {
	llm     completer
	metrics *metrics.Metrics
	log     zerolog.Logger
}

// NewService creates a Service. m may be nil.
func NewService(llm completer, m *metrics.Metrics, log zerolog.Logger) *Service {
	return &Service{
		llm:     llm,
		metrics: m,
		log:     log,
	}
}

// Analyze asks the model for one suggestion per summary. Summaries missing a
// subject, sender or date are dropped first; an empty batch fails without a
// model call.
func (s *Service) Analyze(ctx context.Context, batch []MessageSummary) ([]Suggestion, error) {
	batch = completeOnly(batch)
	if len(batch) == 0 {
		return nil, apperr.BadRequest(msgNoEmails)
	}

	reply, err := s.complete(ctx, operationAnalyze, BuildPrompt(batch))
	if err != nil {
		s.log.Error().Err(err).Int("emails", len(batch)).Msg("Analyze failed")
		return nil, apperr.DependencyFailure(msgAnalyzeFailed, err)
	}

	s.log.Debug().Str("raw_reply", reply).Msg("Model reply received")

	suggestions, ok := normalize(s.log, reply)
	if !ok {
		s.metrics.RecordParseFallback()
	}

	return suggestions, nil
}

// Ask forwards the prompt verbatim and returns the reply unmodified.
func (s *Service) Ask(ctx context.Context, q AgentQuery) (AgentAnswer, error) {
	if strings.TrimSpace(q.Prompt) == "" {
		return AgentAnswer{}, apperr.BadRequest(msgNoPrompt)
	}

	reply, err := s.complete(ctx, operationAskAgent, q.Prompt)
	if err != nil {
		s.log.Error().Err(err).Msg("Ask failed")
		return AgentAnswer{}, apperr.DependencyFailure(msgAgentFailed, err)
	}

	return AgentAnswer{Response: reply}, nil
}

func (s *Service) complete(ctx context.Context, operation, prompt string) (string, error) {
	start := time.Now()
	reply, err := s.llm.Complete(ctx, prompt)
	s.metrics.RecordModelCall(operation, err, time.Since(start))
	if err != nil {
		return "", fmt.Errorf("llm.Complete failed: %w", err)
	}

	return reply, nil
}

func completeOnly(batch []MessageSummary) []MessageSummary {
	result := make([]MessageSummary, 0, len(batch))
	for _, m := range batch {
		if m.complete() {
			result = append(result, m)
		}
	}
	return result
}
