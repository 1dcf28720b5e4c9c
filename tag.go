package linksum

import (
	"context"
	"time"
)

// DefaultTagConfidence is the confidence stored for model-generated tags.
const DefaultTagConfidence = 0.8

// MaxTags is the maximum number of tags kept from a model reply.
const MaxTags = 5

// Tag is a short label attached to an analysis.
type Tag struct {
	ID         string    `json:"id"`
	AnalysisID string    `json:"analysisId"`
	Tag        string    `json:"tag"`
	Confidence float64   `json:"confidence"`
	CreatedAt  time.Time `json:"createdAt"`
}

// TagCount is one entry of the tag histogram.
type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

// TagService represents a service for managing tags.
type TagService interface {
	// CreateTags inserts one tag row per label for the analysis.
	// Returns ENOTFOUND if the analysis does not exist.
	CreateTags(ctx context.Context, analysisID string, labels []string, confidence float64, createdAt time.Time) ([]*Tag, error)

	// FindTagsByAnalysis returns the tags of an analysis in insertion order.
	FindTagsByAnalysis(ctx context.Context, analysisID string) ([]*Tag, error)

	// TagHistogram counts tag labels, most frequent first.
	TagHistogram(ctx context.Context, filter TagFilter) ([]*TagCount, error)
}

// TagFilter represents a filter for TagHistogram.
type TagFilter struct {
	MinConfidence float64 `json:"minConfidence"`
	Limit         int     `json:"limit"`
}
