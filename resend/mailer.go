// Package resend implements linksum.Mailer using the Resend email API.
package resend

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/fwojciec/linksum"
	"github.com/resend/resend-go/v2"
)

// DefaultBaseURL is the Resend API root.
const DefaultBaseURL = "https://api.resend.com/"

// Ensure Mailer implements linksum.Mailer at compile time.
var _ linksum.Mailer = (*Mailer)(nil)

// Mailer sends email through the Resend API.
type Mailer struct {
	client *resend.Client
}

type config struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures a Mailer.
type Option func(*config)

// WithBaseURL overrides the API root.
func WithBaseURL(u string) Option {
	return func(c *config) {
		c.baseURL = u
	}
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *config) {
		c.httpClient = hc
	}
}

// NewMailer creates a new Mailer authenticated with apiKey.
func NewMailer(apiKey string, opts ...Option) *Mailer {
	cfg := &config{
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(cfg)
	}

	client := resend.NewCustomClient(cfg.httpClient, apiKey)
	if u, err := url.Parse(cfg.baseURL); err == nil {
		client.BaseURL = u
	}
	return &Mailer{client: client}
}

// Send submits the email to Resend and returns the provider's message ID.
// Transport failures and provider rejections return EDELIVERY.
func (m *Mailer) Send(ctx context.Context, email *linksum.Email) (string, error) {
	sent, err := m.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    email.From,
		To:      []string{email.To},
		Subject: email.Subject,
		Html:    email.HTML,
	})
	if err != nil {
		return "", linksum.Errorf(linksum.EDELIVERY, "resend: %v", err)
	}
	if sent == nil || sent.Id == "" {
		return "", linksum.Errorf(linksum.EDELIVERY, "resend: response missing message id")
	}
	return sent.Id, nil
}
