// Package mailx sends transactional email. SendGridMailer talks to the
// SendGrid v3 API; LogMailer only logs and is used in development and tests.
package mailx

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/aussiebroadwan/clubhouse/pkg/slogx"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

var ErrInvalidMessage = errors.New("mailx: message needs a recipient and a subject")

// Message is a single outgoing email.
type Message struct {
	ToName  string
	ToEmail string
	Subject string
	Text    string
	HTML    string
}

func (m Message) validate() error {
	if strings.TrimSpace(m.ToEmail) == "" || strings.TrimSpace(m.Subject) == "" {
		return ErrInvalidMessage
	}
	return nil
}

// Mailer delivers a Message.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// SendGridMailer delivers through the SendGrid v3 mail send endpoint.
type SendGridMailer struct {
	client    *sendgrid.Client
	fromEmail string
	fromName  string
}

func NewSendGridMailer(apiKey, fromEmail, fromName string) *SendGridMailer {
	return &SendGridMailer{
		client:    sendgrid.NewSendClient(apiKey),
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

func (s *SendGridMailer) Send(ctx context.Context, msg Message) error {
	if err := msg.validate(); err != nil {
		return err
	}

	from := mail.NewEmail(s.fromName, s.fromEmail)
	to := mail.NewEmail(msg.ToName, msg.ToEmail)
	message := mail.NewSingleEmail(from, msg.Subject, to, msg.Text, msg.HTML)

	resp, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("mailx: sendgrid send: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("mailx: sendgrid status %d: %s", resp.StatusCode, resp.Body)
	}

	slogx.FromContext(ctx).Debug("email sent", "to", msg.ToEmail, "subject", msg.Subject)
	return nil
}

// LogMailer records messages instead of sending them.
type LogMailer struct {
	log *slog.Logger

	mu   sync.Mutex
	sent []Message
}

func NewLogMailer(log *slog.Logger) *LogMailer {
	return &LogMailer{log: log}
}

func (l *LogMailer) Send(ctx context.Context, msg Message) error {
	if err := msg.validate(); err != nil {
		return err
	}

	l.mu.Lock()
	l.sent = append(l.sent, msg)
	l.mu.Unlock()

	l.log.InfoContext(ctx, "email (not sent)",
		"to", msg.ToEmail,
		"subject", msg.Subject,
		"body", msg.Text,
	)
	return nil
}

// Sent returns a copy of every message accepted so far.
func (l *LogMailer) Sent() []Message {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Message(nil), l.sent...)
}
