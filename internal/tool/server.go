// Package tool exposes triage operations as MCP tools.
package tool

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hal9000y/gmail-triage/internal/triage"
)

type triageSvc interface {
	Analyze(ctx context.Context, batch []triage.MessageSummary) ([]triage.Suggestion, error)
	Ask(ctx context.Context, q triage.AgentQuery) (triage.AgentAnswer, error)
}

// NewServer creates an MCP server with the triage tools.
func NewServer(svc triageSvc) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{Name: "gmail-triage", Version: "v1.0.0"}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "analyze_emails",
		Description: "Suggest Reply, Archive or Ignore for each unread email summary",
	}, NewAnalyzeEmails(svc).AnalyzeEmails)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "ask_agent",
		Description: "Forward a free-text prompt to the model and return its reply",
	}, NewAskAgent(svc).AskAgent)

	return server
}
