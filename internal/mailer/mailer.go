package mailer

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"fuatilia.org/internal/config"
)

// SMTP sends plain-text email through a single relay.
type SMTP struct {
	host string
	port int
	user string
	pass string
	from string
}

// NewSMTP builds the sender from service configuration.
func NewSMTP(cfg *config.Config) (*SMTP, error) {
	if !cfg.SMTPConfigured() {
		return nil, fmt.Errorf("mailer: SMTP host and sender address are required")
	}
	return &SMTP{
		host: cfg.SMTPHost,
		port: cfg.SMTPPort,
		user: cfg.SMTPUsername,
		pass: cfg.SMTPPassword,
		from: cfg.InfoEmail,
	}, nil
}

// Send delivers one message. The context bounds the whole SMTP exchange
// only coarsely since net/smtp does not accept one; callers should wrap
// Send in a goroutine with a deadline.
func (m *SMTP) Send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	to = strings.TrimSpace(to)
	if !strings.Contains(to, "@") {
		return fmt.Errorf("mailer: invalid recipient %q", to)
	}
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s", m.from, to, subject, body)
	addr := fmt.Sprintf("%s:%d", m.host, m.port)
	var a smtp.Auth
	if m.user != "" {
		a = smtp.PlainAuth("", m.user, m.pass, m.host)
	}
	if err := smtp.SendMail(addr, a, m.from, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("mailer: send to %s: %w", to, err)
	}
	return nil
}
