// Package summarize implements linksum.Summarizer on top of a
// linksum.Completer.
package summarize

import (
	"context"

	"github.com/fwojciec/linksum"
)

// Ensure Summarizer implements linksum.Summarizer at compile time.
var _ linksum.Summarizer = (*Summarizer)(nil)

// Summarizer asks a model for a summary and tags and parses the reply.
type Summarizer struct {
	completer linksum.Completer
}

// NewSummarizer creates a new Summarizer. A nil completer always produces
// degraded summaries.
func NewSummarizer(completer linksum.Completer) *Summarizer {
	return &Summarizer{completer: completer}
}

// Summarize returns the model's summary of content. When the model cannot be
// reached the result is a degraded summary cut from the content itself.
func (s *Summarizer) Summarize(ctx context.Context, content string, length linksum.SummaryLength) *linksum.Summary {
	if s.completer == nil {
		return linksum.DegradedSummary(content)
	}

	reply, err := s.completer.Complete(ctx, linksum.SummaryMessages(content, length))
	if err != nil {
		return linksum.DegradedSummary(content)
	}

	return linksum.ParseSummaryReply(reply)
}
