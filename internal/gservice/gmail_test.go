package gservice_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
	"google.golang.org/api/option"

	"github.com/hal9000y/gmail-triage/internal/gservice"
)

func newGoogleAPI(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/oauth2/v2/userinfo", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer access-1", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":"42","email":"me@example.com","verified_email":true}`)
	})
	mux.HandleFunc("/gmail/v1/users/me/messages", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "INBOX", q.Get("labelIds"))
		assert.Equal(t, "is:unread", q.Get("q"))
		assert.Equal(t, "5", q.Get("maxResults"))

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"messages":[{"id":"m-001","threadId":"t-001"},{"id":"m-002","threadId":"t-002"}],"resultSizeEstimate":2}`)
	})
	mux.HandleFunc("/gmail/v1/users/me/messages/m-001", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "metadata", q.Get("format"))
		assert.Equal(t, []string{"Subject", "From", "Date"}, q["metadataHeaders"])

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":"m-001","payload":{"headers":[{"name":"Subject","value":"Hello"},{"name":"From","value":"A <a@example.com>"}]}}`)
	})
	mux.HandleFunc("/gmail/v1/users/me/messages/missing", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"error":{"code":404,"message":"Requested entity was not found."}}`)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return srv
}

func newGMail(t *testing.T, endpoint string) *gservice.GMail {
	t.Helper()

	cfg := &oauth2.Config{ClientID: "client-id", ClientSecret: "client-secret"}
	tok := &oauth2.Token{AccessToken: "access-1", TokenType: "Bearer"}

	m, err := gservice.NewGmail(context.Background(), cfg, tok, option.WithEndpoint(endpoint+"/"))
	require.NoError(t, err)

	return m
}

func TestGMail(t *testing.T) {
	srv := newGoogleAPI(t)
	m := newGMail(t, srv.URL)
	ctx := context.Background()

	email, err := m.UserEmail(ctx)
	require.NoError(t, err)
	assert.Equal(t, "me@example.com", email)

	messages, err := m.ListUnread(ctx, 5)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, "m-001", messages[0].Id)
	assert.Equal(t, "m-002", messages[1].Id)

	msg, err := m.GetMessageMetadata(ctx, "m-001")
	require.NoError(t, err)
	require.NotNil(t, msg.Payload)
	require.Len(t, msg.Payload.Headers, 2)
	assert.Equal(t, "Subject", msg.Payload.Headers[0].Name)
	assert.Equal(t, "Hello", msg.Payload.Headers[0].Value)
}

func TestGMailErrors(t *testing.T) {
	srv := newGoogleAPI(t)
	m := newGMail(t, srv.URL)

	_, err := m.GetMessageMetadata(context.Background(), "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "messages.Get failed")
}
