package tool_test

import (
	"context"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"

	"github.com/hal9000y/gmail-triage/internal/tool"
	"github.com/hal9000y/gmail-triage/internal/triage"
)

type triageSvcMock struct {
	AnalyzeFunc func(ctx context.Context, batch []triage.MessageSummary) ([]triage.Suggestion, error)
	AskFunc     func(ctx context.Context, q triage.AgentQuery) (triage.AgentAnswer, error)
}

func (m *triageSvcMock) Analyze(ctx context.Context, batch []triage.MessageSummary) ([]triage.Suggestion, error) {
	return m.AnalyzeFunc(ctx, batch)
}

func (m *triageSvcMock) Ask(ctx context.Context, q triage.AgentQuery) (triage.AgentAnswer, error) {
	return m.AskFunc(ctx, q)
}

type triageSvc interface {
	Analyze(ctx context.Context, batch []triage.MessageSummary) ([]triage.Suggestion, error)
	Ask(ctx context.Context, q triage.AgentQuery) (triage.AgentAnswer, error)
}

func connect(t *testing.T, svc triageSvc) *mcp.ClientSession {
	t.Helper()

	server := tool.NewServer(svc)
	client := mcp.NewClient(&mcp.Implementation{Name: "test-client"}, nil)
	clientTransport, serverTransport := mcp.NewInMemoryTransports()

	ctx := context.Background()

	serverSession, err := server.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = serverSession.Close() })

	clientSession, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = clientSession.Close() })

	return clientSession
}
