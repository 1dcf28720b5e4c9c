package linksum

import (
	"context"
	"net/url"
	"strings"
	"time"
)

// DefaultLanguage is stored on every analysis until language detection exists.
const DefaultLanguage = "en"

// Status is the position of an analysis in its state machine.
type Status string

// Status constants.
const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusCompleted, StatusFailed:
		return true
	}
	return false
}

// ParseStatus converts a string into a Status.
// Returns EINVALID for unknown values.
func ParseStatus(s string) (Status, error) {
	status := Status(strings.ToLower(strings.TrimSpace(s)))
	if !status.Valid() {
		return "", Errorf(EINVALID, "invalid status %q", s)
	}
	return status, nil
}

// ContentType is a coarse classification of the analyzed page.
type ContentType string

// ContentType constants.
const (
	ContentTypeArticle ContentType = "article"
	ContentTypeBlog    ContentType = "blog"
	ContentTypeNews    ContentType = "news"
)

// Valid reports whether c is a known content type.
func (c ContentType) Valid() bool {
	switch c {
	case ContentTypeArticle, ContentTypeBlog, ContentTypeNews:
		return true
	}
	return false
}

// ParseContentType converts a string into a ContentType.
// Returns EINVALID for unknown values.
func ParseContentType(s string) (ContentType, error) {
	ct := ContentType(strings.ToLower(strings.TrimSpace(s)))
	if !ct.Valid() {
		return "", Errorf(EINVALID, "invalid content type %q", s)
	}
	return ct, nil
}

// ClassifyURL derives a content type from the URL text.
// "blog" is checked before "news", so a URL containing both is a blog.
func ClassifyURL(rawURL string) ContentType {
	switch {
	case strings.Contains(rawURL, "blog"):
		return ContentTypeBlog
	case strings.Contains(rawURL, "news"):
		return ContentTypeNews
	default:
		return ContentTypeArticle
	}
}

// NormalizeURL trims the URL and verifies it is an absolute http(s) URL.
func NormalizeURL(rawURL string) (string, error) {
	s := strings.TrimSpace(rawURL)
	if s == "" {
		return "", Errorf(EINVALID, "URL required")
	}
	u, err := url.Parse(s)
	if err != nil {
		return "", Errorf(EINVALID, "invalid URL %q: %v", s, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", Errorf(EINVALID, "URL must use http or https: %q", s)
	}
	if u.Host == "" {
		return "", Errorf(EINVALID, "URL host required: %q", s)
	}
	return s, nil
}

// Analysis is the persisted record of the latest analysis attempt for a URL.
type Analysis struct {
	ID           string      `json:"id"`
	URL          string      `json:"url"`
	Title        string      `json:"title"`
	Content      string      `json:"content"`
	Summary      string      `json:"summary"`
	WordCount    int         `json:"wordCount"`
	ContentType  ContentType `json:"contentType"`
	Language     string      `json:"language"`
	ContentHash  string      `json:"contentHash"`
	Status       Status      `json:"status"`
	ErrorMessage string      `json:"errorMessage,omitempty"`
	AnalysisDate *time.Time  `json:"analysisDate,omitempty"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`

	// Tags attached to the analysis. Populated by the pipeline and by
	// detail lookups, not by list queries.
	Tags []*Tag `json:"tags,omitempty"`
}

// Validate returns an error if the analysis contains invalid fields.
func (a *Analysis) Validate() error {
	if a.URL == "" {
		return Errorf(EINVALID, "analysis URL required")
	}
	if !a.Status.Valid() {
		return Errorf(EINVALID, "invalid analysis status %q", a.Status)
	}
	if a.ContentType != "" && !a.ContentType.Valid() {
		return Errorf(EINVALID, "invalid content type %q", a.ContentType)
	}
	if a.WordCount < 0 {
		return Errorf(EINVALID, "word count must not be negative")
	}
	return nil
}

// TagNames returns the tag labels in insertion order.
func (a *Analysis) TagNames() []string {
	names := make([]string, 0, len(a.Tags))
	for _, t := range a.Tags {
		names = append(names, t.Tag)
	}
	return names
}

// AnalysisService represents a service for managing analysis records.
type AnalysisService interface {
	// FindAnalysisByID retrieves an analysis by ID.
	// Returns ENOTFOUND if the analysis does not exist.
	FindAnalysisByID(ctx context.Context, id string) (*Analysis, error)

	// FindAnalysisByURL retrieves the analysis for a URL.
	// Returns ENOTFOUND if the URL has never been analyzed.
	FindAnalysisByURL(ctx context.Context, url string) (*Analysis, error)

	// FindAnalyses retrieves analyses matching the filter along with the
	// total number of matches ignoring Offset and Limit.
	FindAnalyses(ctx context.Context, filter AnalysisFilter) ([]*Analysis, int, error)

	// CreateAnalysis inserts a new analysis. Timestamps are supplied by the caller.
	// Returns ECONFLICT if an analysis already exists for the URL.
	CreateAnalysis(ctx context.Context, a *Analysis) error

	// UpdateAnalysis applies upd to the analysis with the given ID.
	// Returns ENOTFOUND if the analysis does not exist.
	UpdateAnalysis(ctx context.Context, id string, upd AnalysisUpdate) (*Analysis, error)

	// DeleteAnalysis permanently removes an analysis and all of its tags.
	// Returns ENOTFOUND if the analysis does not exist.
	DeleteAnalysis(ctx context.Context, id string) error
}

// AnalysisFilter represents a filter for FindAnalyses.
type AnalysisFilter struct {
	Status      *Status      `json:"status"`
	ContentType *ContentType `json:"contentType"`
	Language    *string      `json:"language"`

	// Search matches analyses whose content contains the substring.
	Search *string `json:"search"`

	CreatedFrom *time.Time `json:"createdFrom"`
	CreatedTo   *time.Time `json:"createdTo"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// AnalysisUpdate represents fields that can be updated on an analysis.
// ClearError empties ErrorMessage regardless of the ErrorMessage field.
type AnalysisUpdate struct {
	Title        *string      `json:"title"`
	Content      *string      `json:"content"`
	Summary      *string      `json:"summary"`
	WordCount    *int         `json:"wordCount"`
	ContentType  *ContentType `json:"contentType"`
	Language     *string      `json:"language"`
	Status       *Status      `json:"status"`
	ErrorMessage *string      `json:"errorMessage"`
	ClearError   bool         `json:"clearError"`
	AnalysisDate *time.Time   `json:"analysisDate"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}
