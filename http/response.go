package http

import (
	"time"

	"github.com/fwojciec/linksum"
)

// AnalysisData is the JSON shape of an analysis in every response.
type AnalysisData struct {
	ID           string              `json:"id"`
	URL          string              `json:"url"`
	Title        string              `json:"title"`
	Summary      string              `json:"summary"`
	Content      string              `json:"content,omitempty"`
	Tags         []string            `json:"tags"`
	WordCount    int                 `json:"word_count"`
	ContentType  linksum.ContentType `json:"content_type"`
	Language     string              `json:"language"`
	ContentHash  string              `json:"content_hash,omitempty"`
	Status       linksum.Status      `json:"status"`
	ErrorMessage string              `json:"error_message,omitempty"`
	AnalysisDate *time.Time          `json:"analysis_date,omitempty"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}

// newAnalysisData converts a record. Content is only included when
// withContent is set.
func newAnalysisData(a *linksum.Analysis, withContent bool) *AnalysisData {
	d := &AnalysisData{
		ID:           a.ID,
		URL:          a.URL,
		Title:        a.Title,
		Summary:      a.Summary,
		Tags:         a.TagNames(),
		WordCount:    a.WordCount,
		ContentType:  a.ContentType,
		Language:     a.Language,
		ContentHash:  a.ContentHash,
		Status:       a.Status,
		ErrorMessage: a.ErrorMessage,
		AnalysisDate: a.AnalysisDate,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
	if withContent {
		d.Content = a.Content
	}
	return d
}

// EmailResult reports a single email delivery in a response.
type EmailResult struct {
	Sent    bool   `json:"sent"`
	EmailID string `json:"emailId,omitempty"`
	Error   string `json:"error,omitempty"`
}

func newEmailResult(d *linksum.Delivery) *EmailResult {
	return &EmailResult{Sent: d.Success, EmailID: d.ID, Error: d.Error}
}

// AnalyzeResponse is the body of POST /webhook/analyze and of its callback.
type AnalyzeResponse struct {
	Success bool          `json:"success"`
	Data    *AnalysisData `json:"data"`
	Email   *EmailResult  `json:"email,omitempty"`
}

// FailureResponse is posted to the callback URL when a detached analysis
// fails.
type FailureResponse struct {
	Success bool   `json:"success"`
	URL     string `json:"url"`
	Error   string `json:"error"`
}

// ProcessingResponse acknowledges a callback-mode request.
type ProcessingResponse struct {
	Success bool   `json:"success"`
	Status  string `json:"status"`
	ID      string `json:"id,omitempty"`
	URL     string `json:"url,omitempty"`
	Total   int    `json:"total,omitempty"`
}

// AnalyzeAndEmailResponse is the body of POST /webhook/analyze-and-email.
type AnalyzeAndEmailResponse struct {
	Success  bool          `json:"success"`
	Analysis *AnalysisData `json:"analysis"`
	Email    *EmailResult  `json:"email"`
}

// BatchItemResult is one entry of a batch response.
type BatchItemResult struct {
	URL     string        `json:"url"`
	Success bool          `json:"success"`
	Data    *AnalysisData `json:"data,omitempty"`
	Error   string        `json:"error,omitempty"`
}

// BatchEmailResult counts emails sent for a batch.
type BatchEmailResult struct {
	Sent   int `json:"sent"`
	Failed int `json:"failed"`
}

// BatchResponse is the body of POST /webhook/batch-analyze and of its
// callback.
type BatchResponse struct {
	Success    bool               `json:"success"`
	Total      int                `json:"total"`
	Successful int                `json:"successful"`
	Failed     int                `json:"failed"`
	Results    []*BatchItemResult `json:"results"`
	Email      *BatchEmailResult  `json:"email,omitempty"`
}

// Pagination describes a page of list results.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

// SummariesResponse is the body of GET /api/summaries.
type SummariesResponse struct {
	Data       []*AnalysisData `json:"data"`
	Pagination Pagination      `json:"pagination"`
}

// SearchResponse is the body of GET /api/search.
type SearchResponse struct {
	Query   string          `json:"query"`
	Results []*AnalysisData `json:"results"`
	Count   int             `json:"count"`
}

// TagsResponse is the body of GET /api/tags.
type TagsResponse struct {
	Tags []*linksum.TagCount `json:"tags"`
}

// DeleteResponse is the body of DELETE /api/analysis/{id}.
type DeleteResponse struct {
	Success bool   `json:"success"`
	ID      string `json:"id"`
}
