// Package gservice wraps the Google APIs used by the mail import.
package gservice

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
	"google.golang.org/api/gmail/v1"
	oauth2api "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"
)

const (
	gmailUserID  = "me"
	inboxLabelID = "INBOX"
	unreadQuery  = "is:unread"
)

// GMail is an authenticated view of one user's mailbox.
type GMail struct {
	gmail    *gmail.Service
	userinfo *oauth2api.Service
}

// NewGmail builds the API clients for the owner of tok. Extra options are
// appended after the authorized HTTP client.
func NewGmail(ctx context.Context, cfg *oauth2.Config, tok *oauth2.Token, opts ...option.ClientOption) (*GMail, error) {
	clt := cfg.Client(ctx, tok)
	opts = append([]option.ClientOption{option.WithHTTPClient(clt)}, opts...)

	gsvc, err := gmail.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("gmail.NewService failed: %w", err)
	}

	usvc, err := oauth2api.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("oauth2api.NewService failed: %w", err)
	}

	return &GMail{
		gmail:    gsvc,
		userinfo: usvc,
	}, nil
}

// UserEmail returns the email address of the authenticated account.
func (m *GMail) UserEmail(ctx context.Context) (string, error) {
	info, err := m.userinfo.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("userinfo.Get failed: %w", err)
	}

	return info.Email, nil
}

// ListUnread lists up to maxResults unread inbox messages. Only IDs are
// populated.
func (m *GMail) ListUnread(ctx context.Context, maxResults int64) ([]*gmail.Message, error) {
	result, err := m.gmail.Users.Messages.List(gmailUserID).
		LabelIds(inboxLabelID).
		Q(unreadQuery).
		MaxResults(maxResults).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("messages.List failed: %w", err)
	}

	return result.Messages, nil
}

// GetMessageMetadata fetches the Subject, From and Date headers of a message.
func (m *GMail) GetMessageMetadata(ctx context.Context, msgID string) (*gmail.Message, error) {
	msg, err := m.gmail.Users.Messages.Get(gmailUserID, msgID).
		Format("metadata").
		MetadataHeaders("Subject", "From", "Date").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("messages.Get failed: %w", err)
	}

	return msg, nil
}
