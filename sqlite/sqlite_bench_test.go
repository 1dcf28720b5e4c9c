package sqlite_test

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/fwojciec/linksum"
	"github.com/fwojciec/linksum/sqlite"
	"github.com/stretchr/testify/require"
)

// BenchmarkAnalysisLifecycle measures the writes of one pipeline run:
// insert pending, commit completed, insert tags.
func BenchmarkAnalysisLifecycle(b *testing.B) {
	db := sqlite.NewDB(filepath.Join(b.TempDir(), "bench.db"))
	require.NoError(b, db.Open())
	defer db.Close()

	ctx := context.Background()
	analyses := sqlite.NewAnalysisService(db)
	tags := sqlite.NewTagService(db)

	content := "Lorem ipsum dolor sit amet, consectetur adipiscing elit. Sed do eiusmod tempor incididunt ut labore."
	completed := linksum.StatusCompleted
	wordCount := linksum.CountWords(content)

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		now := time.Now().UTC()
		a := &linksum.Analysis{
			URL:       fmt.Sprintf("https://example.com/page%d", i),
			Status:    linksum.StatusPending,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := analyses.CreateAnalysis(ctx, a); err != nil {
			b.Fatal(err)
		}
		if _, err := analyses.UpdateAnalysis(ctx, a.ID, linksum.AnalysisUpdate{
			Content:   &content,
			WordCount: &wordCount,
			Status:    &completed,
			UpdatedAt: now,
		}); err != nil {
			b.Fatal(err)
		}
		if _, err := tags.CreateTags(ctx, a.ID, []string{"go", "sqlite"}, linksum.DefaultTagConfidence, now); err != nil {
			b.Fatal(err)
		}
	}
}
