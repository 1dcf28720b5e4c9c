package notify

import (
	"context"

	"github.com/fwojciec/linksum"
	"go.uber.org/zap"
)

// Ensure Notifier implements linksum.Notifier at compile time.
var _ linksum.Notifier = (*Notifier)(nil)

// Notifier sends analysis emails through a Mailer.
type Notifier struct {
	mailer linksum.Mailer
	from   string
	logger *zap.Logger
}

// NewNotifier creates a new Notifier sending from the given address.
func NewNotifier(mailer linksum.Mailer, from string, logger *zap.Logger) *Notifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Notifier{mailer: mailer, from: from, logger: logger}
}

// Send delivers a preformatted HTML email. It never returns an error;
// the outcome is reported in the Delivery.
func (n *Notifier) Send(ctx context.Context, to, subject, html string) *linksum.Delivery {
	id, err := n.mailer.Send(ctx, &linksum.Email{
		From:    n.from,
		To:      to,
		Subject: subject,
		HTML:    html,
	})
	if err != nil {
		n.logger.Warn("email delivery failed", zap.String("to", to), zap.Error(err))
		return &linksum.Delivery{Success: false, Error: linksum.ErrorMessage(err)}
	}

	n.logger.Info("email sent", zap.String("to", to), zap.String("id", id))
	return &linksum.Delivery{Success: true, ID: id}
}

// SendAnalysis formats the analysis and sends it. The subject defaults to
// linksum.DefaultSubject.
func (n *Notifier) SendAnalysis(ctx context.Context, to string, a *linksum.Analysis, opts linksum.EmailOptions) *linksum.Delivery {
	html, err := FormatEmail(a, a.TagNames(), opts.IncludeFullContent)
	if err != nil {
		n.logger.Error("format email", zap.String("url", a.URL), zap.Error(err))
		return &linksum.Delivery{Success: false, Error: err.Error()}
	}

	subject := opts.Subject
	if subject == "" {
		subject = linksum.DefaultSubject(a)
	}
	return n.Send(ctx, to, subject, html)
}
