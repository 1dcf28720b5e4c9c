package linksum

import "context"

// Email is an outbound HTML message.
type Email struct {
	From    string
	To      string
	Subject string
	HTML    string
}

// Mailer hands an email to an external delivery provider.
type Mailer interface {
	// Send delivers the email and returns the provider's message ID.
	// Returns EDELIVERY when the provider rejects the message.
	Send(ctx context.Context, email *Email) (id string, err error)
}

// Delivery reports the outcome of a single email send.
type Delivery struct {
	Success bool   `json:"success"`
	ID      string `json:"id,omitempty"`
	Error   string `json:"error,omitempty"`
}

// EmailOptions controls how an analysis email is built.
type EmailOptions struct {
	// Subject overrides DefaultSubject when set.
	Subject string

	// IncludeFullContent appends an excerpt of the extracted text.
	IncludeFullContent bool
}

// DefaultSubject is the subject of an analysis email when none is given.
func DefaultSubject(a *Analysis) string {
	if a.Title != "" {
		return "Analysis: " + a.Title
	}
	return "Analysis: " + a.URL
}

// Notifier emails analysis results.
type Notifier interface {
	// SendAnalysis formats and sends the analysis to the recipient.
	// Failures are reported in the Delivery, never returned.
	SendAnalysis(ctx context.Context, to string, a *Analysis, opts EmailOptions) *Delivery
}
