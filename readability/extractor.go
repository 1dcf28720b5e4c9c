// Package readability implements linksum.Extractor using go-readability.
package readability

import (
	"strings"

	"github.com/fwojciec/linksum"
	"github.com/go-shiori/go-readability"
)

// Ensure Extractor implements linksum.Extractor at compile time.
var _ linksum.Extractor = (*Extractor)(nil)

// Extractor wraps go-readability to extract the main article text.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract returns the article title and its plain text. Pages readability
// cannot parse yield an empty result.
func (e *Extractor) Extract(rawHTML string) *linksum.ExtractResult {
	if rawHTML == "" {
		return &linksum.ExtractResult{}
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), nil)
	if err != nil {
		return &linksum.ExtractResult{}
	}

	return linksum.NewExtractResult(article.Title, article.TextContent)
}
