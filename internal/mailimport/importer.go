// Package mailimport pulls unread message summaries out of a mailbox after
// the user has granted consent.
package mailimport

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
	"google.golang.org/api/gmail/v1"

	"github.com/hal9000y/gmail-triage/internal/apperr"
	"github.com/hal9000y/gmail-triage/internal/metrics"
	"github.com/hal9000y/gmail-triage/internal/triage"
)

// MaxMessages caps how many unread messages one import returns.
const MaxMessages = 5

const (
	msgImportFailed = "Google Authentication Failed"

	defaultSubject = "(No subject)"
	defaultFrom    = "(Unknown sender)"
	defaultDate    = "(Unknown date)"
)

type consent interface {
	RedirectURL() (string, error)
	Exchange(ctx context.Context, code, state string) (*oauth2.Token, error)
}

// Mailbox is the slice of the mail provider API the import needs.
type Mailbox interface {
	UserEmail(ctx context.Context) (string, error)
	ListUnread(ctx context.Context, maxResults int64) ([]*gmail.Message, error)
	GetMessageMetadata(ctx context.Context, msgID string) (*gmail.Message, error)
}

// MailboxOpener opens the mailbox that tok grants access to.
type MailboxOpener func(ctx context.Context, tok *oauth2.Token) (Mailbox, error)

// Importer runs the consent redirect and the one-shot unread import.
type Importer struct {
	consent consent
	open    MailboxOpener
	metrics *metrics.Metrics
	log     zerolog.Logger
}

// NewImporter creates an Importer. m may be nil.
func NewImporter(c consent, open MailboxOpener, m *metrics.Metrics, log zerolog.Logger) *Importer {
	return &Importer{
		consent: c,
		open:    open,
		metrics: m,
		log:     log,
	}
}

// BeginConsent returns the provider consent URL.
func (i *Importer) BeginConsent() (string, error) {
	u, err := i.consent.RedirectURL()
	if err != nil {
		return "", apperr.DependencyFailure(msgImportFailed, fmt.Errorf("consent.RedirectURL failed: %w", err))
	}

	return u, nil
}

// CompleteConsent exchanges code and imports up to MaxMessages unread
// summaries. Any failure aborts the whole import.
func (i *Importer) CompleteConsent(ctx context.Context, code, state string) ([]triage.MessageSummary, error) {
	summaries, err := i.importUnread(ctx, code, state)
	i.metrics.RecordImport(len(summaries), err)
	if err != nil {
		return nil, apperr.DependencyFailure(msgImportFailed, err)
	}

	return summaries, nil
}

func (i *Importer) importUnread(ctx context.Context, code, state string) ([]triage.MessageSummary, error) {
	tok, err := i.consent.Exchange(ctx, code, state)
	if err != nil {
		return nil, fmt.Errorf("consent.Exchange failed: %w", err)
	}

	mb, err := i.open(ctx, tok)
	if err != nil {
		return nil, fmt.Errorf("open mailbox failed: %w", err)
	}

	email, err := mb.UserEmail(ctx)
	if err != nil {
		return nil, fmt.Errorf("mb.UserEmail failed: %w", err)
	}
	i.log.Info().Str("email", email).Msg("Gmail connected")

	messages, err := mb.ListUnread(ctx, MaxMessages)
	if err != nil {
		return nil, fmt.Errorf("mb.ListUnread failed: %w", err)
	}
	if len(messages) > MaxMessages {
		messages = messages[:MaxMessages]
	}
	if len(messages) == 0 {
		i.log.Info().Msg("No unread messages found")
	}

	summaries := make([]triage.MessageSummary, 0, len(messages))
	for _, m := range messages {
		msg, err := mb.GetMessageMetadata(ctx, m.Id)
		if err != nil {
			return nil, fmt.Errorf("get message %s failed: %w", m.Id, err)
		}

		summary := extractSummary(msg)
		i.log.Debug().
			Str("subject", summary.Subject).
			Str("from", summary.From).
			Str("date", summary.Date).
			Msg("Parsed message")
		summaries = append(summaries, summary)
	}

	return summaries, nil
}

func extractSummary(msg *gmail.Message) triage.MessageSummary {
	summary := triage.MessageSummary{}

	if msg != nil && msg.Payload != nil {
		for _, header := range msg.Payload.Headers {
			if header == nil {
				continue
			}
			switch {
			case strings.EqualFold(header.Name, "Subject"):
				summary.Subject = header.Value
			case strings.EqualFold(header.Name, "From"):
				summary.From = header.Value
			case strings.EqualFold(header.Name, "Date"):
				summary.Date = header.Value
			}
		}
	}

	if summary.Subject == "" {
		summary.Subject = defaultSubject
	}
	if summary.From == "" {
		summary.From = defaultFrom
	}
	if summary.Date == "" {
		summary.Date = defaultDate
	}

	return summary
}

// HandoffURL appends the batch to base as the emails query parameter,
// JSON encoded and URL escaped.
func HandoffURL(base string, batch []triage.MessageSummary) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("url.Parse failed: %w", err)
	}
	if u.Path == "" {
		u.Path = "/"
	}

	if batch == nil {
		batch = []triage.MessageSummary{}
	}
	payload, err := json.Marshal(batch)
	if err != nil {
		return "", fmt.Errorf("json.Marshal failed: %w", err)
	}

	q := u.Query()
	q.Set("emails", string(payload))
	u.RawQuery = q.Encode()

	return u.String(), nil
}
