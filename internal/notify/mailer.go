// Package notify delivers digest emails over SMTP.
package notify

import (
	"context"
	"errors"
	"fmt"
	"net/smtp"
	"strings"
)

// ErrDelivery means the digest email could not be handed to the SMTP server.
var ErrDelivery = errors.New("email delivery failed")

// SendFunc matches smtp.SendMail and allows injection for testing.
type SendFunc func(addr string, auth smtp.Auth, from string, to []string, msg []byte) error

// MailerOption configures the Mailer.
type MailerOption func(*Mailer)

// WithSendFunc sets a custom send function.
func WithSendFunc(send SendFunc) MailerOption {
	return func(m *Mailer) {
		m.send = send
	}
}

// Mailer sends plain-text Markdown digests from an authenticated SMTP account.
type Mailer struct {
	host     string
	port     int
	username string
	password string
	send     SendFunc
}

// NewMailer creates a mailer for the given SMTP account. The username doubles
// as the From address.
func NewMailer(host string, port int, username, password string, opts ...MailerOption) *Mailer {
	m := &Mailer{
		host:     host,
		port:     port,
		username: username,
		password: password,
		send:     smtp.SendMail,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Send delivers one message to recipient.
func (m *Mailer) Send(ctx context.Context, recipient, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrDelivery, err)
	}

	msg := buildMessage(m.username, recipient, subject, body)
	auth := smtp.PlainAuth("", m.username, m.password, m.host)
	addr := fmt.Sprintf("%s:%d", m.host, m.port)

	if err := m.send(addr, auth, m.username, []string{recipient}, msg); err != nil {
		return fmt.Errorf("%w: %v", ErrDelivery, err)
	}
	return nil
}

// headerValue flattens a header value to a single line. Subjects come from
// feed-supplied video titles, so stray CR/LF must never reach the header
// block where it would start a new header.
func headerValue(v string) string {
	v = strings.ReplaceAll(v, "\r", " ")
	v = strings.ReplaceAll(v, "\n", " ")
	return strings.Join(strings.Fields(v), " ")
}

// buildMessage assembles an RFC 5322 message with CRLF line endings and a
// UTF-8 text/plain body. The Markdown digest travels as-is; mail clients
// that render Markdown may style it further.
func buildMessage(from, to, subject, body string) []byte {
	var b strings.Builder
	b.WriteString("From: " + headerValue(from) + "\r\n")
	b.WriteString("To: " + headerValue(to) + "\r\n")
	b.WriteString("Subject: " + headerValue(subject) + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(body, "\n", "\r\n"))
	return []byte(b.String())
}
