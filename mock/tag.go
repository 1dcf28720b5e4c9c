package mock

import (
	"context"
	"time"

	"github.com/fwojciec/linksum"
)

var _ linksum.TagService = (*TagService)(nil)

// TagService is a mock implementation of linksum.TagService.
type TagService struct {
	CreateTagsFn         func(ctx context.Context, analysisID string, labels []string, confidence float64, createdAt time.Time) ([]*linksum.Tag, error)
	FindTagsByAnalysisFn func(ctx context.Context, analysisID string) ([]*linksum.Tag, error)
	TagHistogramFn       func(ctx context.Context, filter linksum.TagFilter) ([]*linksum.TagCount, error)
}

func (s *TagService) CreateTags(ctx context.Context, analysisID string, labels []string, confidence float64, createdAt time.Time) ([]*linksum.Tag, error) {
	return s.CreateTagsFn(ctx, analysisID, labels, confidence, createdAt)
}

func (s *TagService) FindTagsByAnalysis(ctx context.Context, analysisID string) ([]*linksum.Tag, error) {
	return s.FindTagsByAnalysisFn(ctx, analysisID)
}

func (s *TagService) TagHistogram(ctx context.Context, filter linksum.TagFilter) ([]*linksum.TagCount, error) {
	return s.TagHistogramFn(ctx, filter)
}
