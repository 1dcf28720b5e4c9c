// Package trafilatura implements linksum.Extractor using go-trafilatura.
package trafilatura

import (
	"strings"

	"github.com/fwojciec/linksum"
	"github.com/markusmobius/go-trafilatura"
)

// Ensure Extractor implements linksum.Extractor at compile time.
var _ linksum.Extractor = (*Extractor)(nil)

// Extractor wraps go-trafilatura to extract the main text of a page.
type Extractor struct {
	opts trafilatura.Options
}

// NewExtractor creates a new Extractor with fallback extractors enabled.
func NewExtractor() *Extractor {
	return &Extractor{
		opts: trafilatura.Options{
			EnableFallback: true,
		},
	}
}

// Extract returns the page title and main text. Pages trafilatura cannot
// parse yield an empty result.
func (e *Extractor) Extract(rawHTML string) *linksum.ExtractResult {
	if rawHTML == "" {
		return &linksum.ExtractResult{}
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), e.opts)
	if err != nil || result == nil {
		return &linksum.ExtractResult{}
	}

	return linksum.NewExtractResult(result.Metadata.Title, result.ContentText)
}
