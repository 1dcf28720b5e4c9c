// Package smtp implements linksum.Mailer over SMTP.
package smtp

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"net/smtp"
	"time"

	"github.com/emersion/go-message/mail"
	"github.com/fwojciec/linksum"
)

// Ensure Mailer implements linksum.Mailer at compile time.
var _ linksum.Mailer = (*Mailer)(nil)

// SendFunc has the signature of smtp.SendMail.
type SendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// Config holds SMTP connection settings.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
}

// Addr returns host:port.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, fmt.Sprint(c.Port))
}

// Mailer sends email through an SMTP relay.
type Mailer struct {
	config Config
	send   SendFunc
	now    func() time.Time
}

// Option configures a Mailer.
type Option func(*Mailer)

// WithSendFunc replaces smtp.SendMail.
func WithSendFunc(fn SendFunc) Option {
	return func(m *Mailer) {
		m.send = fn
	}
}

// NewMailer creates a new Mailer for the relay in config.
func NewMailer(config Config, opts ...Option) *Mailer {
	m := &Mailer{
		config: config,
		send:   smtp.SendMail,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Send assembles a MIME message and hands it to the relay. The generated
// Message-ID is returned as the delivery ID.
func (m *Mailer) Send(ctx context.Context, email *linksum.Email) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	from, err := mail.ParseAddress(email.From)
	if err != nil {
		return "", linksum.Errorf(linksum.EINVALID, "invalid from address %q", email.From)
	}
	to, err := mail.ParseAddress(email.To)
	if err != nil {
		return "", linksum.Errorf(linksum.EINVALID, "invalid recipient address %q", email.To)
	}

	msg, id, err := buildMessage(from, to, email.Subject, email.HTML, m.now())
	if err != nil {
		return "", err
	}

	var auth smtp.Auth
	if m.config.Username != "" {
		auth = smtp.PlainAuth("", m.config.Username, m.config.Password, m.config.Host)
	}

	if err := m.send(m.config.Addr(), auth, from.Address, []string{to.Address}, msg); err != nil {
		return "", linksum.Errorf(linksum.EDELIVERY, "smtp: %v", err)
	}
	return id, nil
}

// buildMessage renders a single-part HTML message and returns it with its
// Message-ID.
func buildMessage(from, to *mail.Address, subject, html string, date time.Time) ([]byte, string, error) {
	var h mail.Header
	h.SetDate(date)
	h.SetAddressList("From", []*mail.Address{from})
	h.SetAddressList("To", []*mail.Address{to})
	h.SetSubject(subject)
	h.SetContentType("text/html", map[string]string{"charset": "utf-8"})
	if err := h.GenerateMessageID(); err != nil {
		return nil, "", fmt.Errorf("generate message id: %w", err)
	}
	id, err := h.MessageID()
	if err != nil {
		return nil, "", fmt.Errorf("read message id: %w", err)
	}

	var buf bytes.Buffer
	w, err := mail.CreateSingleInlineWriter(&buf, h)
	if err != nil {
		return nil, "", fmt.Errorf("create message writer: %w", err)
	}
	if _, err := w.Write([]byte(html)); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}

	return buf.Bytes(), id, nil
}
