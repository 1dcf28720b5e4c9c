// Package analyze runs the fetch, extract, summarize and persist pipeline
// that turns a URL into a stored analysis.
package analyze

import (
	"context"
	"errors"
	"time"
	"unicode/utf8"

	"github.com/fwojciec/linksum"
	"go.uber.org/zap"
)

// Ensure Analyzer implements linksum.Analyzer at compile time.
var _ linksum.Analyzer = (*Analyzer)(nil)

// Analyzer orchestrates a single analysis from URL to completed record.
type Analyzer struct {
	Analyses   linksum.AnalysisService
	Tags       linksum.TagService
	Fetcher    linksum.Fetcher
	Extractor  linksum.Extractor
	Summarizer linksum.Summarizer
	Logger     *zap.Logger

	// Now returns the current time. Defaults to time.Now in UTC.
	Now func() time.Time
}

func (a *Analyzer) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now().UTC()
}

func (a *Analyzer) logger() *zap.Logger {
	if a.Logger != nil {
		return a.Logger
	}
	return zap.NewNop()
}

// Analyze returns the completed analysis for rawURL, running the pipeline
// unless the URL already completed.
func (a *Analyzer) Analyze(ctx context.Context, rawURL string, opts linksum.AnalyzeOptions) (*linksum.Analysis, error) {
	rec, done, err := a.Begin(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	if done {
		return rec, nil
	}
	return a.Run(ctx, rec, opts)
}

// Begin puts the URL's record into the pending state. A completed record is
// returned with done set and its tags loaded. A failed or pending record is
// reset to pending with its error cleared. A URL seen for the first time gets
// a new pending record.
func (a *Analyzer) Begin(ctx context.Context, rawURL string) (*linksum.Analysis, bool, error) {
	u, err := linksum.NormalizeURL(rawURL)
	if err != nil {
		return nil, false, err
	}

	existing, err := a.Analyses.FindAnalysisByURL(ctx, u)
	switch {
	case err == nil && existing.Status == linksum.StatusCompleted:
		tags, err := a.Tags.FindTagsByAnalysis(ctx, existing.ID)
		if err != nil {
			return nil, false, err
		}
		existing.Tags = tags
		return existing, true, nil

	case err == nil:
		pending := linksum.StatusPending
		rec, err := a.Analyses.UpdateAnalysis(ctx, existing.ID, linksum.AnalysisUpdate{
			Status:     &pending,
			ClearError: true,
			UpdatedAt:  a.now(),
		})
		if err != nil {
			return nil, false, err
		}
		return rec, false, nil

	case linksum.ErrorCode(err) == linksum.ENOTFOUND:
		now := a.now()
		rec := &linksum.Analysis{
			URL:         u,
			Status:      linksum.StatusPending,
			ContentType: linksum.ClassifyURL(u),
			Language:    linksum.DefaultLanguage,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := a.Analyses.CreateAnalysis(ctx, rec); err != nil {
			if linksum.ErrorCode(err) == linksum.ECONFLICT {
				return nil, false, linksum.Errorf(linksum.ECONFLICT, "analysis for %s is already in progress", u)
			}
			return nil, false, err
		}
		return rec, false, nil

	default:
		return nil, false, err
	}
}

// Run fetches, extracts and summarizes a pending record and commits the
// outcome. On failure the record is marked failed and the original error is
// returned. Store writes outlive cancellation of ctx so a record never stays
// pending after Run returns.
func (a *Analyzer) Run(ctx context.Context, rec *linksum.Analysis, opts linksum.AnalyzeOptions) (*linksum.Analysis, error) {
	log := a.logger().With(zap.String("url", rec.URL), zap.String("id", rec.ID))
	commitCtx := context.WithoutCancel(ctx)

	html, err := a.Fetcher.Fetch(ctx, rec.URL)
	if err != nil {
		return nil, a.fail(ctx, log, rec, err)
	}

	extracted := a.Extractor.Extract(html)
	if utf8.RuneCountInString(extracted.Content) < linksum.MinContentLength {
		return nil, a.fail(ctx, log, rec, linksum.Errorf(linksum.EEXTRACT, "insufficient content"))
	}

	length := opts.SummaryLength
	if !length.Valid() {
		length = linksum.SummaryMedium
	}
	summary := a.Summarizer.Summarize(ctx, extracted.Content, length)
	if summary.Degraded {
		log.Warn("summarizer unavailable, stored truncated content as summary")
	}

	now := a.now()
	completed := linksum.StatusCompleted
	contentType := linksum.ClassifyURL(rec.URL)
	language := linksum.DefaultLanguage
	updated, err := a.Analyses.UpdateAnalysis(commitCtx, rec.ID, linksum.AnalysisUpdate{
		Title:        &extracted.Title,
		Content:      &extracted.Content,
		Summary:      &summary.Summary,
		WordCount:    &extracted.WordCount,
		ContentType:  &contentType,
		Language:     &language,
		Status:       &completed,
		ClearError:   true,
		AnalysisDate: &now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, a.fail(ctx, log, rec, err)
	}

	updated.Tags = []*linksum.Tag{}
	if opts.GenerateTags && len(summary.Tags) > 0 {
		tags, err := a.Tags.CreateTags(commitCtx, updated.ID, summary.Tags, linksum.DefaultTagConfidence, now)
		if err != nil {
			return nil, a.fail(ctx, log, rec, err)
		}
		updated.Tags = tags
	}

	log.Info("analysis completed",
		zap.Int("words", updated.WordCount),
		zap.Int("tags", len(updated.Tags)),
		zap.Bool("degraded", summary.Degraded))

	return updated, nil
}

// AnalyzeBatch analyzes each URL in input order. Per-URL failures are
// recorded in the result and do not stop the batch.
func (a *Analyzer) AnalyzeBatch(ctx context.Context, urls []string, opts linksum.AnalyzeOptions) (*linksum.BatchResult, error) {
	if len(urls) == 0 {
		return nil, linksum.Errorf(linksum.EINVALID, "at least one URL required")
	}
	if len(urls) > linksum.MaxBatchSize {
		return nil, linksum.Errorf(linksum.EINVALID, "maximum %d URLs per batch", linksum.MaxBatchSize)
	}

	result := &linksum.BatchResult{Items: make([]*linksum.BatchItem, 0, len(urls))}
	for _, u := range urls {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		item := &linksum.BatchItem{URL: u}
		item.Analysis, item.Err = a.Analyze(ctx, u, opts)
		if item.Err != nil {
			result.Failed++
		} else {
			result.Successful++
		}
		result.Items = append(result.Items, item)
	}

	return result, nil
}

// fail marks the record failed and returns cause. A failure to record the
// failure is logged only.
func (a *Analyzer) fail(ctx context.Context, log *zap.Logger, rec *linksum.Analysis, cause error) error {
	failed := linksum.StatusFailed
	msg := failureMessage(cause)
	if _, err := a.Analyses.UpdateAnalysis(context.WithoutCancel(ctx), rec.ID, linksum.AnalysisUpdate{
		Status:       &failed,
		ErrorMessage: &msg,
		UpdatedAt:    a.now(),
	}); err != nil {
		log.Error("failed to record analysis failure", zap.Error(err), zap.NamedError("cause", cause))
	}

	log.Warn("analysis failed", zap.String("code", linksum.ErrorCode(cause)), zap.String("reason", msg))
	return cause
}

// failureMessage is the text stored on a failed record.
func failureMessage(err error) string {
	var e *linksum.Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
