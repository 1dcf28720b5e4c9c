package linksum

import "strings"

// MinContentLength is the shortest extracted text accepted for summarization.
const MinContentLength = 50

// ExtractResult holds the text extracted from an HTML page.
type ExtractResult struct {
	Title     string
	Content   string
	WordCount int
}

// Extractor turns raw markup into plain text.
type Extractor interface {
	// Extract returns the title and plain-text content of a page.
	// It never fails; unparsable input yields empty strings.
	Extract(html string) *ExtractResult
}

// NormalizeText collapses runs of whitespace to a single space and trims.
func NormalizeText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// CountWords returns the number of whitespace-delimited tokens in s.
func CountWords(s string) int {
	return len(strings.Fields(s))
}

// NewExtractResult normalizes title and content and counts words.
func NewExtractResult(title, content string) *ExtractResult {
	content = NormalizeText(content)
	return &ExtractResult{
		Title:     strings.TrimSpace(title),
		Content:   content,
		WordCount: CountWords(content),
	}
}
