package zap

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/fwojciec/linksum"
)

// Ensure LoggingMailer implements linksum.Mailer.
var _ linksum.Mailer = (*LoggingMailer)(nil)

// LoggingMailer wraps a Mailer and logs every send.
type LoggingMailer struct {
	next   linksum.Mailer
	logger *zap.Logger
}

// NewLoggingMailer creates a new LoggingMailer.
func NewLoggingMailer(next linksum.Mailer, logger *zap.Logger) *LoggingMailer {
	return &LoggingMailer{next: next, logger: logger}
}

// Send delegates to the wrapped mailer. Message bodies are not logged.
func (m *LoggingMailer) Send(ctx context.Context, email *linksum.Email) (string, error) {
	begin := time.Now()
	id, err := m.next.Send(ctx, email)
	if err != nil {
		m.logger.Warn("send email",
			zap.String("to", email.To),
			zap.Duration("duration", time.Since(begin)),
			zap.Error(err),
		)
		return "", err
	}
	m.logger.Info("send email",
		zap.String("to", email.To),
		zap.String("id", id),
		zap.Duration("duration", time.Since(begin)),
	)
	return id, nil
}
