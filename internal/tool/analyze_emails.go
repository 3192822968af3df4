package tool

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hal9000y/gmail-triage/internal/apperr"
	"github.com/hal9000y/gmail-triage/internal/triage"
)

type AnalyzeEmailsRequest struct {
	Emails []triage.MessageSummary `json:"emails" jsonschema:"unread email summaries to triage"`
}

type AnalyzeEmailsResponse struct {
	Suggestions []triage.Suggestion `json:"suggestions" jsonschema:"one suggestion per analyzed email"`
}

type analyzeSvc interface {
	Analyze(ctx context.Context, batch []triage.MessageSummary) ([]triage.Suggestion, error)
}

func NewAnalyzeEmails(svc analyzeSvc) *AnalyzeEmails {
	return &AnalyzeEmails{
		svc: svc,
	}
}

type AnalyzeEmails struct {
	svc analyzeSvc
}

func (t *AnalyzeEmails) AnalyzeEmails(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input AnalyzeEmailsRequest,
) (*mcp.CallToolResult, AnalyzeEmailsResponse, error) {
	suggestions, err := t.svc.Analyze(ctx, input.Emails)
	if err != nil {
		return nil, AnalyzeEmailsResponse{}, errors.New(apperr.PublicMessage(err))
	}

	return nil, AnalyzeEmailsResponse{Suggestions: suggestions}, nil
}
