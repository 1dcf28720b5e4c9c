package mock

import (
	"context"

	"github.com/fwojciec/linksum"
)

var _ linksum.Summarizer = (*Summarizer)(nil)

// Summarizer is a mock implementation of linksum.Summarizer.
type Summarizer struct {
	SummarizeFn func(ctx context.Context, content string, length linksum.SummaryLength) *linksum.Summary
}

func (s *Summarizer) Summarize(ctx context.Context, content string, length linksum.SummaryLength) *linksum.Summary {
	return s.SummarizeFn(ctx, content, length)
}

var _ linksum.Completer = (*Completer)(nil)

// Completer is a mock implementation of linksum.Completer.
type Completer struct {
	CompleteFn func(ctx context.Context, messages []linksum.Message) (string, error)
}

func (c *Completer) Complete(ctx context.Context, messages []linksum.Message) (string, error) {
	return c.CompleteFn(ctx, messages)
}
