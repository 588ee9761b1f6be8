// Package mailx renders and delivers transactional email.
package mailx

import (
	"context"
	"errors"
	"log/slog"
	"sync"
)

// Message is a rendered email with HTML and plain-text bodies.
type Message struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

// Sender delivers a rendered message.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

var ErrNoRecipient = errors.New("mailx: message has no recipient")

// LogSender writes messages to the logger instead of delivering them. It is
// the default in development.
type LogSender struct {
	Logger *slog.Logger
}

func (s LogSender) Send(ctx context.Context, msg Message) error {
	if msg.To == "" {
		return ErrNoRecipient
	}
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.InfoContext(ctx, "email (log sender)",
		slog.String("to", msg.To),
		slog.String("subject", msg.Subject),
		slog.String("body", msg.Text),
	)
	return nil
}

// MemorySender keeps every message it is given.
type MemorySender struct {
	mu   sync.Mutex
	sent []Message
	fail error
}

// FailWith makes Send return err without recording. nil restores delivery.
func (s *MemorySender) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail = err
}

func (s *MemorySender) Send(_ context.Context, msg Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		return s.fail
	}
	if msg.To == "" {
		return ErrNoRecipient
	}
	s.sent = append(s.sent, msg)
	return nil
}

// Sent returns a copy of the delivered messages.
func (s *MemorySender) Sent() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Message(nil), s.sent...)
}
