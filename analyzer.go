package linksum

import "context"

// MaxBatchSize is the maximum number of URLs accepted in one batch.
const MaxBatchSize = 10

// AnalyzeOptions controls a single analysis run.
type AnalyzeOptions struct {
	GenerateTags  bool          `json:"generateTags"`
	SummaryLength SummaryLength `json:"summaryLength"`
}

// DefaultAnalyzeOptions returns the options used when a caller sends none.
func DefaultAnalyzeOptions() AnalyzeOptions {
	return AnalyzeOptions{GenerateTags: true, SummaryLength: SummaryMedium}
}

// BatchItem is the outcome of one URL in a batch.
type BatchItem struct {
	URL      string    `json:"url"`
	Analysis *Analysis `json:"analysis,omitempty"`
	Err      error     `json:"-"`
}

// BatchResult aggregates the outcomes of a batch run in input order.
type BatchResult struct {
	Items      []*BatchItem `json:"items"`
	Successful int          `json:"successful"`
	Failed     int          `json:"failed"`
}

// Analyzer runs the fetch, extract, summarize and persist pipeline.
type Analyzer interface {
	// Analyze returns the completed analysis for url. A URL that already
	// completed is returned without fetching or summarizing again.
	Analyze(ctx context.Context, url string, opts AnalyzeOptions) (*Analysis, error)

	// Begin moves the URL's record into the pending state, or returns the
	// completed record with done set. Run finishes a pending record.
	Begin(ctx context.Context, url string) (a *Analysis, done bool, err error)
	Run(ctx context.Context, a *Analysis, opts AnalyzeOptions) (*Analysis, error)

	// AnalyzeBatch analyzes each URL in order. A failed URL does not stop
	// the batch. Returns EINVALID for more than MaxBatchSize URLs.
	AnalyzeBatch(ctx context.Context, urls []string, opts AnalyzeOptions) (*BatchResult, error)
}
