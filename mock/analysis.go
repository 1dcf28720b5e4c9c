package mock

import (
	"context"

	"github.com/fwojciec/linksum"
)

var _ linksum.AnalysisService = (*AnalysisService)(nil)

// AnalysisService is a mock implementation of linksum.AnalysisService.
type AnalysisService struct {
	FindAnalysisByIDFn  func(ctx context.Context, id string) (*linksum.Analysis, error)
	FindAnalysisByURLFn func(ctx context.Context, url string) (*linksum.Analysis, error)
	FindAnalysesFn      func(ctx context.Context, filter linksum.AnalysisFilter) ([]*linksum.Analysis, int, error)
	CreateAnalysisFn    func(ctx context.Context, a *linksum.Analysis) error
	UpdateAnalysisFn    func(ctx context.Context, id string, upd linksum.AnalysisUpdate) (*linksum.Analysis, error)
	DeleteAnalysisFn    func(ctx context.Context, id string) error
}

func (s *AnalysisService) FindAnalysisByID(ctx context.Context, id string) (*linksum.Analysis, error) {
	return s.FindAnalysisByIDFn(ctx, id)
}

func (s *AnalysisService) FindAnalysisByURL(ctx context.Context, url string) (*linksum.Analysis, error) {
	return s.FindAnalysisByURLFn(ctx, url)
}

func (s *AnalysisService) FindAnalyses(ctx context.Context, filter linksum.AnalysisFilter) ([]*linksum.Analysis, int, error) {
	return s.FindAnalysesFn(ctx, filter)
}

func (s *AnalysisService) CreateAnalysis(ctx context.Context, a *linksum.Analysis) error {
	return s.CreateAnalysisFn(ctx, a)
}

func (s *AnalysisService) UpdateAnalysis(ctx context.Context, id string, upd linksum.AnalysisUpdate) (*linksum.Analysis, error) {
	return s.UpdateAnalysisFn(ctx, id, upd)
}

func (s *AnalysisService) DeleteAnalysis(ctx context.Context, id string) error {
	return s.DeleteAnalysisFn(ctx, id)
}
