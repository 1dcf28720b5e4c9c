package mock

import (
	"context"

	"github.com/fwojciec/linksum"
)

var _ linksum.Notifier = (*Notifier)(nil)

// Notifier is a mock implementation of linksum.Notifier.
type Notifier struct {
	SendAnalysisFn func(ctx context.Context, to string, a *linksum.Analysis, opts linksum.EmailOptions) *linksum.Delivery
}

func (n *Notifier) SendAnalysis(ctx context.Context, to string, a *linksum.Analysis, opts linksum.EmailOptions) *linksum.Delivery {
	return n.SendAnalysisFn(ctx, to, a, opts)
}
