package zap

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/fwojciec/linksum"
)

// Ensure LoggingFetcher implements linksum.Fetcher.
var _ linksum.Fetcher = (*LoggingFetcher)(nil)

// LoggingFetcher wraps a Fetcher and logs every fetch.
type LoggingFetcher struct {
	next   linksum.Fetcher
	logger *zap.Logger
}

// NewLoggingFetcher creates a new LoggingFetcher.
func NewLoggingFetcher(next linksum.Fetcher, logger *zap.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

// Fetch delegates to the wrapped fetcher and logs url, size and duration.
func (f *LoggingFetcher) Fetch(ctx context.Context, url string) (string, error) {
	begin := time.Now()
	html, err := f.next.Fetch(ctx, url)
	if err != nil {
		f.logger.Warn("fetch",
			zap.String("url", url),
			zap.Duration("duration", time.Since(begin)),
			zap.Error(err),
		)
		return "", err
	}
	f.logger.Info("fetch",
		zap.String("url", url),
		zap.Int("bytes", len(html)),
		zap.Duration("duration", time.Since(begin)),
	)
	return html, nil
}
