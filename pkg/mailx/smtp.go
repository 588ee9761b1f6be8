package mailx

import (
	"context"
	"crypto/tls"
	"fmt"
	"time"

	"github.com/wneessen/go-mail"
)

// SMTPSender delivers mail through an SMTP relay, upgrading to STARTTLS
// when the server offers it.
type SMTPSender struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string

	// Timeout bounds dialing plus the whole conversation.
	Timeout time.Duration
}

func (s SMTPSender) Send(ctx context.Context, msg Message) error {
	if msg.To == "" {
		return ErrNoRecipient
	}

	m, err := buildMessage(s.From, msg)
	if err != nil {
		return err
	}

	client, err := mail.NewClient(s.Host, s.clientOptions()...)
	if err != nil {
		return fmt.Errorf("mailx: smtp client: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout())
	defer cancel()

	if err := client.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("mailx: send to %s:%d: %w", s.Host, s.Port, err)
	}
	return nil
}

func (s SMTPSender) timeout() time.Duration {
	if s.Timeout > 0 {
		return s.Timeout
	}
	return 15 * time.Second
}

func (s SMTPSender) clientOptions() []mail.Option {
	opts := []mail.Option{
		mail.WithTLSPortPolicy(mail.TLSOpportunistic),
		mail.WithPort(s.Port),
		mail.WithTLSConfig(&tls.Config{ServerName: s.Host, MinVersion: tls.VersionTLS12}),
		mail.WithTimeout(s.timeout()),
	}
	if s.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(s.Username),
			mail.WithPassword(s.Password),
		)
	}
	return opts
}

// buildMessage renders a multipart/alternative message with text first so
// clients prefer the HTML part.
func buildMessage(from string, msg Message) (*mail.Msg, error) {
	m := mail.NewMsg()
	if err := m.From(from); err != nil {
		return nil, fmt.Errorf("mailx: from address: %w", err)
	}
	if err := m.To(msg.To); err != nil {
		return nil, fmt.Errorf("mailx: to address: %w", err)
	}
	m.Subject(msg.Subject)
	m.SetDate()

	switch {
	case msg.Text != "" && msg.HTML != "":
		m.SetBodyString(mail.TypeTextPlain, msg.Text)
		m.AddAlternativeString(mail.TypeTextHTML, msg.HTML)
	case msg.HTML != "":
		m.SetBodyString(mail.TypeTextHTML, msg.HTML)
	default:
		m.SetBodyString(mail.TypeTextPlain, msg.Text)
	}
	return m, nil
}
