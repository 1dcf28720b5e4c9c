// Package goquery implements linksum.Extractor with CSS selectors over a
// parsed DOM.
package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/linksum"
	"golang.org/x/net/html"
)

// Ensure Extractor implements linksum.Extractor at compile time.
var _ linksum.Extractor = (*Extractor)(nil)

// DefaultRegionSelectors lists the content-bearing regions tried in order.
// The first selector with a match supplies the page text.
var DefaultRegionSelectors = []string{
	"article",
	"main",
	`[class*="content"]`,
	`[class*="post"]`,
	"body",
}

// Extractor extracts page text from the first matching content region.
type Extractor struct {
	selectors []string
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithRegionSelectors replaces the ordered list of region selectors.
func WithRegionSelectors(selectors ...string) Option {
	return func(e *Extractor) {
		e.selectors = selectors
	}
}

// NewExtractor creates a new Extractor using DefaultRegionSelectors.
func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{selectors: DefaultRegionSelectors}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract returns the title and plain text of the page. Script and style
// elements never contribute text.
func (e *Extractor) Extract(rawHTML string) *linksum.ExtractResult {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return &linksum.ExtractResult{}
	}

	title := doc.Find("title").First().Text()

	doc.Find("script, style").Remove()

	region := doc.Selection
	for _, selector := range e.selectors {
		if sel := doc.Find(selector).First(); sel.Length() > 0 {
			region = sel
			break
		}
	}

	return linksum.NewExtractResult(title, nodeText(region))
}

// nodeText joins every text node under the selection with spaces so that
// adjacent block elements do not run their words together.
func nodeText(sel *goquery.Selection) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			sb.WriteString(n.Data)
			sb.WriteByte(' ')
		case html.CommentNode:
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range sel.Nodes {
		walk(n)
	}
	return sb.String()
}
