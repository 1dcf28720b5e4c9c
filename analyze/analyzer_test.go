package analyze_test

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fwojciec/linksum"
	"github.com/fwojciec/linksum/analyze"
	"github.com/fwojciec/linksum/goquery"
	"github.com/fwojciec/linksum/mock"
	"github.com/fwojciec/linksum/sqlite"
	"github.com/fwojciec/linksum/summarize"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const longPage = `<html><head><title>Release Notes</title></head><body><article>
<p>The new release improves performance across the board and fixes several long standing bugs.</p>
</article></body></html>`

var fixedNow = time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	analyzer   *analyze.Analyzer
	analyses   *sqlite.AnalysisService
	tags       *sqlite.TagService
	fetches    *atomic.Int32
	summarizes *atomic.Int32
}

// newFixture wires an Analyzer over an in-memory store. fetch and reply
// control the fetched page and the summarizer output.
func newFixture(t *testing.T, fetch func(url string) (string, error), reply func() *linksum.Summary) *fixture {
	t.Helper()

	db := sqlite.NewDB(":memory:")
	require.NoError(t, db.Open())
	t.Cleanup(func() { db.Close() })

	f := &fixture{
		analyses:   sqlite.NewAnalysisService(db),
		tags:       sqlite.NewTagService(db),
		fetches:    &atomic.Int32{},
		summarizes: &atomic.Int32{},
	}
	f.analyzer = &analyze.Analyzer{
		Analyses: f.analyses,
		Tags:     f.tags,
		Fetcher: &mock.Fetcher{
			FetchFn: func(_ context.Context, url string) (string, error) {
				f.fetches.Add(1)
				return fetch(url)
			},
		},
		Extractor: goquery.NewExtractor(),
		Summarizer: &mock.Summarizer{
			SummarizeFn: func(context.Context, string, linksum.SummaryLength) *linksum.Summary {
				f.summarizes.Add(1)
				return reply()
			},
		},
		Now: func() time.Time { return fixedNow },
	}
	return f
}

func servePage(string) (string, error) { return longPage, nil }

func replyWith(summary string, tags ...string) func() *linksum.Summary {
	return func() *linksum.Summary {
		return &linksum.Summary{Summary: summary, Tags: tags}
	}
}

func TestAnalyzer_Analyze(t *testing.T) {
	t.Parallel()

	t.Run("completes new URL with tags", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t, servePage, replyWith("Faster and fixed.", "release", "performance"))

		a, err := f.analyzer.Analyze(context.Background(), "https://example.com/blog/release", linksum.DefaultAnalyzeOptions())

		require.NoError(t, err)
		assert.Equal(t, linksum.StatusCompleted, a.Status)
		assert.Equal(t, "Release Notes", a.Title)
		assert.Equal(t, "Faster and fixed.", a.Summary)
		assert.Equal(t, linksum.ContentTypeBlog, a.ContentType)
		assert.Equal(t, linksum.DefaultLanguage, a.Language)
		assert.Equal(t, linksum.CountWords(a.Content), a.WordCount)
		assert.NotEmpty(t, a.ContentHash)
		require.NotNil(t, a.AnalysisDate)
		assert.True(t, fixedNow.Equal(*a.AnalysisDate))
		assert.Equal(t, []string{"release", "performance"}, a.TagNames())
		for _, tag := range a.Tags {
			assert.InDelta(t, linksum.DefaultTagConfidence, tag.Confidence, 0.0001)
		}

		stored, err := f.analyses.FindAnalysisByID(context.Background(), a.ID)
		require.NoError(t, err)
		assert.Equal(t, linksum.StatusCompleted, stored.Status)
		assert.Empty(t, stored.ErrorMessage)
	})

	t.Run("returns completed record without fetching again", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t, servePage, replyWith("Summary.", "go"))
		ctx := context.Background()

		first, err := f.analyzer.Analyze(ctx, "https://example.com/a", linksum.DefaultAnalyzeOptions())
		require.NoError(t, err)

		second, err := f.analyzer.Analyze(ctx, "https://example.com/a", linksum.DefaultAnalyzeOptions())
		require.NoError(t, err)

		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, []string{"go"}, second.TagNames())
		assert.Equal(t, int32(1), f.fetches.Load())
		assert.Equal(t, int32(1), f.summarizes.Load())
	})

	t.Run("skips tags when not requested", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t, servePage, replyWith("Summary.", "go", "db"))

		a, err := f.analyzer.Analyze(context.Background(), "https://example.com/n", linksum.AnalyzeOptions{SummaryLength: linksum.SummaryShort})

		require.NoError(t, err)
		assert.Empty(t, a.Tags)
		stored, err := f.tags.FindTagsByAnalysis(context.Background(), a.ID)
		require.NoError(t, err)
		assert.Empty(t, stored)
	})

	t.Run("stores degraded summary as completed", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t, servePage, func() *linksum.Summary {
			return linksum.DegradedSummary(strings.Repeat("x", 400))
		})

		a, err := f.analyzer.Analyze(context.Background(), "https://example.com/d", linksum.DefaultAnalyzeOptions())

		require.NoError(t, err)
		assert.Equal(t, linksum.StatusCompleted, a.Status)
		assert.True(t, strings.HasSuffix(a.Summary, "..."))
		assert.Empty(t, a.Tags)
	})

	t.Run("marks record failed on fetch error", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t, func(string) (string, error) {
			return "", linksum.Errorf(linksum.EFETCH, "HTTP 404 Not Found")
		}, replyWith("unused"))
		ctx := context.Background()

		_, err := f.analyzer.Analyze(ctx, "https://example.com/missing", linksum.DefaultAnalyzeOptions())

		require.Error(t, err)
		assert.Equal(t, linksum.EFETCH, linksum.ErrorCode(err))
		assert.Equal(t, "HTTP 404 Not Found", linksum.ErrorMessage(err))
		assert.Equal(t, int32(0), f.summarizes.Load())

		stored, err := f.analyses.FindAnalysisByURL(ctx, "https://example.com/missing")
		require.NoError(t, err)
		assert.Equal(t, linksum.StatusFailed, stored.Status)
		assert.Equal(t, "HTTP 404 Not Found", stored.ErrorMessage)
	})

	t.Run("rejects short content as insufficient", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t, func(string) (string, error) {
			return "<html><body><p>Too short.</p></body></html>", nil
		}, replyWith("unused"))
		ctx := context.Background()

		_, err := f.analyzer.Analyze(ctx, "https://example.com/short", linksum.DefaultAnalyzeOptions())

		assert.Equal(t, linksum.EEXTRACT, linksum.ErrorCode(err))
		assert.Equal(t, "insufficient content", linksum.ErrorMessage(err))
		assert.Equal(t, int32(0), f.summarizes.Load())

		stored, err := f.analyses.FindAnalysisByURL(ctx, "https://example.com/short")
		require.NoError(t, err)
		assert.Equal(t, linksum.StatusFailed, stored.Status)
		assert.Equal(t, "insufficient content", stored.ErrorMessage)
	})

	t.Run("counts characters not bytes when checking content length", func(t *testing.T) {
		t.Parallel()

		// 20 characters, 60 bytes.
		page := "<html><body><article>" + strings.Repeat("語", 20) + "</article></body></html>"
		f := newFixture(t, func(string) (string, error) { return page, nil }, replyWith("unused"))
		ctx := context.Background()

		_, err := f.analyzer.Analyze(ctx, "https://example.com/cjk", linksum.DefaultAnalyzeOptions())

		assert.Equal(t, linksum.EEXTRACT, linksum.ErrorCode(err))
		assert.Equal(t, int32(0), f.summarizes.Load())

		stored, err := f.analyses.FindAnalysisByURL(ctx, "https://example.com/cjk")
		require.NoError(t, err)
		assert.Equal(t, linksum.StatusFailed, stored.Status)
	})

	t.Run("records failure when caller cancels during fetch", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t, servePage, replyWith("unused"))
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		f.analyzer.Fetcher = &mock.Fetcher{
			FetchFn: func(context.Context, string) (string, error) {
				cancel()
				return "", context.Canceled
			},
		}

		_, err := f.analyzer.Analyze(ctx, "https://example.com/gone", linksum.DefaultAnalyzeOptions())
		require.ErrorIs(t, err, context.Canceled)

		stored, err := f.analyses.FindAnalysisByURL(context.Background(), "https://example.com/gone")
		require.NoError(t, err)
		assert.Equal(t, linksum.StatusFailed, stored.Status)
		assert.Equal(t, context.Canceled.Error(), stored.ErrorMessage)
	})

	t.Run("retries failed record and clears error", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		f := newFixture(t, func(string) (string, error) {
			if calls.Add(1) == 1 {
				return "", errors.New("connection reset")
			}
			return longPage, nil
		}, replyWith("Recovered."))
		ctx := context.Background()

		_, err := f.analyzer.Analyze(ctx, "https://example.com/flaky", linksum.DefaultAnalyzeOptions())
		require.Error(t, err)

		failed, err := f.analyses.FindAnalysisByURL(ctx, "https://example.com/flaky")
		require.NoError(t, err)
		assert.Equal(t, "connection reset", failed.ErrorMessage)

		a, err := f.analyzer.Analyze(ctx, "https://example.com/flaky", linksum.DefaultAnalyzeOptions())
		require.NoError(t, err)
		assert.Equal(t, failed.ID, a.ID)
		assert.Equal(t, linksum.StatusCompleted, a.Status)
		assert.Empty(t, a.ErrorMessage)
	})

	t.Run("rejects invalid URL before store access", func(t *testing.T) {
		t.Parallel()

		analyzer := &analyze.Analyzer{Analyses: &mock.AnalysisService{}}

		_, err := analyzer.Analyze(context.Background(), "ftp://example.com", linksum.DefaultAnalyzeOptions())

		assert.Equal(t, linksum.EINVALID, linksum.ErrorCode(err))
	})
}

func TestAnalyzer_Analyze_ModelReply(t *testing.T) {
	t.Parallel()

	withCompleter := func(t *testing.T, complete func() (string, error)) *fixture {
		t.Helper()
		f := newFixture(t, servePage, replyWith("unused"))
		f.analyzer.Summarizer = summarize.NewSummarizer(&mock.Completer{
			CompleteFn: func(context.Context, []linksum.Message) (string, error) {
				return complete()
			},
		})
		return f
	}

	t.Run("stores at most five tags from the reply", func(t *testing.T) {
		t.Parallel()

		f := withCompleter(t, func() (string, error) {
			return "SUMMARY: Faster release.\nTAGS: a, b, c, d, e, f, g, h", nil
		})
		ctx := context.Background()

		a, err := f.analyzer.Analyze(ctx, "https://example.com/tags", linksum.DefaultAnalyzeOptions())
		require.NoError(t, err)
		assert.Equal(t, "Faster release.", a.Summary)

		stored, err := f.tags.FindTagsByAnalysis(ctx, a.ID)
		require.NoError(t, err)
		require.Len(t, stored, 5)
		for i, tag := range stored {
			assert.Equal(t, string(rune('a'+i)), tag.Tag)
			assert.InDelta(t, 0.8, tag.Confidence, 0.0001)
		}
	})

	t.Run("completes with content excerpt when the model call fails", func(t *testing.T) {
		t.Parallel()

		f := withCompleter(t, func() (string, error) {
			return "", errors.New("503 service unavailable")
		})
		ctx := context.Background()

		a, err := f.analyzer.Analyze(ctx, "https://example.com/offline", linksum.DefaultAnalyzeOptions())
		require.NoError(t, err)
		assert.Equal(t, linksum.StatusCompleted, a.Status)
		assert.Equal(t, a.Content, a.Summary)
		assert.Empty(t, a.Tags)

		stored, err := f.tags.FindTagsByAnalysis(ctx, a.ID)
		require.NoError(t, err)
		assert.Empty(t, stored)
	})
}

func TestAnalyzer_Begin(t *testing.T) {
	t.Parallel()

	t.Run("creates pending record classified by URL", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t, servePage, replyWith("s"))

		a, done, err := f.analyzer.Begin(context.Background(), " https://news.example.com/today ")

		require.NoError(t, err)
		assert.False(t, done)
		assert.Equal(t, "https://news.example.com/today", a.URL)
		assert.Equal(t, linksum.StatusPending, a.Status)
		assert.Equal(t, linksum.ContentTypeNews, a.ContentType)
		assert.NotEmpty(t, a.ID)
		assert.Equal(t, int32(0), f.fetches.Load())
	})

	t.Run("reports conflict when another caller inserted first", func(t *testing.T) {
		t.Parallel()

		var updates int
		analyses := &mock.AnalysisService{
			FindAnalysisByURLFn: func(context.Context, string) (*linksum.Analysis, error) {
				return nil, linksum.Errorf(linksum.ENOTFOUND, "no analysis")
			},
			CreateAnalysisFn: func(context.Context, *linksum.Analysis) error {
				return linksum.Errorf(linksum.ECONFLICT, "analysis already exists")
			},
			UpdateAnalysisFn: func(context.Context, string, linksum.AnalysisUpdate) (*linksum.Analysis, error) {
				updates++
				return nil, nil
			},
		}
		analyzer := &analyze.Analyzer{Analyses: analyses}

		_, _, err := analyzer.Begin(context.Background(), "https://example.com/race")

		assert.Equal(t, linksum.ECONFLICT, linksum.ErrorCode(err))
		assert.Equal(t, "analysis for https://example.com/race is already in progress", linksum.ErrorMessage(err))
		assert.Zero(t, updates)
	})
}

func TestAnalyzer_Run(t *testing.T) {
	t.Parallel()

	t.Run("returns original error when failure cannot be recorded", func(t *testing.T) {
		t.Parallel()

		fetchErr := linksum.Errorf(linksum.EFETCH, "HTTP 500 Internal Server Error")
		analyzer := &analyze.Analyzer{
			Analyses: &mock.AnalysisService{
				UpdateAnalysisFn: func(context.Context, string, linksum.AnalysisUpdate) (*linksum.Analysis, error) {
					return nil, errors.New("database is locked")
				},
			},
			Fetcher: &mock.Fetcher{
				FetchFn: func(context.Context, string) (string, error) { return "", fetchErr },
			},
		}

		_, err := analyzer.Run(context.Background(), &linksum.Analysis{ID: "1", URL: "https://example.com"}, linksum.DefaultAnalyzeOptions())

		assert.Equal(t, fetchErr, err)
	})
}

func TestAnalyzer_AnalyzeBatch(t *testing.T) {
	t.Parallel()

	t.Run("isolates failures and keeps input order", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t, func(url string) (string, error) {
			if strings.HasSuffix(url, "/bad") {
				return "", linksum.Errorf(linksum.EFETCH, "HTTP 500 Internal Server Error")
			}
			return longPage, nil
		}, replyWith("ok"))

		urls := []string{"https://example.com/1", "https://example.com/bad", "https://example.com/3"}
		result, err := f.analyzer.AnalyzeBatch(context.Background(), urls, linksum.DefaultAnalyzeOptions())

		require.NoError(t, err)
		assert.Equal(t, 2, result.Successful)
		assert.Equal(t, 1, result.Failed)
		require.Len(t, result.Items, 3)
		for i, item := range result.Items {
			assert.Equal(t, urls[i], item.URL)
		}
		assert.NotNil(t, result.Items[0].Analysis)
		assert.Equal(t, linksum.EFETCH, linksum.ErrorCode(result.Items[1].Err))
		assert.NotNil(t, result.Items[2].Analysis)
	})

	t.Run("rejects more than ten URLs before fetching", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t, servePage, replyWith("s"))
		urls := make([]string, 11)
		for i := range urls {
			urls[i] = "https://example.com/" + string(rune('a'+i))
		}

		_, err := f.analyzer.AnalyzeBatch(context.Background(), urls, linksum.DefaultAnalyzeOptions())

		assert.Equal(t, linksum.EINVALID, linksum.ErrorCode(err))
		assert.Equal(t, int32(0), f.fetches.Load())
	})

	t.Run("rejects empty batch", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t, servePage, replyWith("s"))

		_, err := f.analyzer.AnalyzeBatch(context.Background(), nil, linksum.DefaultAnalyzeOptions())

		assert.Equal(t, linksum.EINVALID, linksum.ErrorCode(err))
	})
}
