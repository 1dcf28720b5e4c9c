package mock

import (
	"context"

	"github.com/fwojciec/linksum"
)

var _ linksum.Analyzer = (*Analyzer)(nil)

// Analyzer is a mock implementation of linksum.Analyzer.
type Analyzer struct {
	AnalyzeFn      func(ctx context.Context, url string, opts linksum.AnalyzeOptions) (*linksum.Analysis, error)
	BeginFn        func(ctx context.Context, url string) (*linksum.Analysis, bool, error)
	RunFn          func(ctx context.Context, a *linksum.Analysis, opts linksum.AnalyzeOptions) (*linksum.Analysis, error)
	AnalyzeBatchFn func(ctx context.Context, urls []string, opts linksum.AnalyzeOptions) (*linksum.BatchResult, error)
}

func (a *Analyzer) Analyze(ctx context.Context, url string, opts linksum.AnalyzeOptions) (*linksum.Analysis, error) {
	return a.AnalyzeFn(ctx, url, opts)
}

func (a *Analyzer) Begin(ctx context.Context, url string) (*linksum.Analysis, bool, error) {
	return a.BeginFn(ctx, url)
}

func (a *Analyzer) Run(ctx context.Context, analysis *linksum.Analysis, opts linksum.AnalyzeOptions) (*linksum.Analysis, error) {
	return a.RunFn(ctx, analysis, opts)
}

func (a *Analyzer) AnalyzeBatch(ctx context.Context, urls []string, opts linksum.AnalyzeOptions) (*linksum.BatchResult, error) {
	return a.AnalyzeBatchFn(ctx, urls, opts)
}
