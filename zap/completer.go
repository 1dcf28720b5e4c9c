package zap

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/fwojciec/linksum"
)

// Ensure LoggingCompleter implements linksum.Completer.
var _ linksum.Completer = (*LoggingCompleter)(nil)

// LoggingCompleter wraps a Completer and logs every model call.
type LoggingCompleter struct {
	next     linksum.Completer
	provider string
	logger   *zap.Logger
}

// NewLoggingCompleter creates a new LoggingCompleter. provider names the
// model backend in log entries.
func NewLoggingCompleter(next linksum.Completer, provider string, logger *zap.Logger) *LoggingCompleter {
	return &LoggingCompleter{next: next, provider: provider, logger: logger}
}

// Complete delegates to the wrapped completer and logs prompt and reply size.
func (c *LoggingCompleter) Complete(ctx context.Context, messages []linksum.Message) (string, error) {
	var promptChars int
	for _, m := range messages {
		promptChars += len(m.Content)
	}

	begin := time.Now()
	reply, err := c.next.Complete(ctx, messages)
	if err != nil {
		c.logger.Warn("completion",
			zap.String("provider", c.provider),
			zap.Int("prompt_chars", promptChars),
			zap.Duration("duration", time.Since(begin)),
			zap.Error(err),
		)
		return "", err
	}
	c.logger.Info("completion",
		zap.String("provider", c.provider),
		zap.Int("prompt_chars", promptChars),
		zap.Int("reply_chars", len(reply)),
		zap.Duration("duration", time.Since(begin)),
	)
	return reply, nil
}
