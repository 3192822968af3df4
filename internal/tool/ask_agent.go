package tool

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hal9000y/gmail-triage/internal/apperr"
	"github.com/hal9000y/gmail-triage/internal/triage"
)

type askSvc interface {
	Ask(ctx context.Context, q triage.AgentQuery) (triage.AgentAnswer, error)
}

func NewAskAgent(svc askSvc) *AskAgent {
	return &AskAgent{
		svc: svc,
	}
}

type AskAgent struct {
	svc askSvc
}

// AskAgent returns the model reply unmodified.
func (t *AskAgent) AskAgent(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input triage.AgentQuery,
) (*mcp.CallToolResult, triage.AgentAnswer, error) {
	answer, err := t.svc.Ask(ctx, input)
	if err != nil {
		return nil, triage.AgentAnswer{}, errors.New(apperr.PublicMessage(err))
	}

	return nil, answer, nil
}
