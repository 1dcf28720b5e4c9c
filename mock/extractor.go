package mock

import "github.com/fwojciec/linksum"

var _ linksum.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of linksum.Extractor.
type Extractor struct {
	ExtractFn func(html string) *linksum.ExtractResult
}

func (e *Extractor) Extract(html string) *linksum.ExtractResult {
	return e.ExtractFn(html)
}
