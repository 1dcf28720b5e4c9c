package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/fwojciec/linksum"
	"github.com/fwojciec/linksum/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTagService_CreateTags(t *testing.T) {
	t.Parallel()

	t.Run("inserts tags with confidence in order", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		analyses := sqlite.NewAnalysisService(db)
		svc := sqlite.NewTagService(db)
		ctx := context.Background()
		a := createPending(t, analyses, "https://example.com/t", time.Now())

		created, err := svc.CreateTags(ctx, a.ID, []string{"go", "testing", "sqlite"}, linksum.DefaultTagConfidence, time.Now())
		require.NoError(t, err)
		require.Len(t, created, 3)

		found, err := svc.FindTagsByAnalysis(ctx, a.ID)
		require.NoError(t, err)
		require.Len(t, found, 3)
		assert.Equal(t, "go", found[0].Tag)
		assert.Equal(t, "testing", found[1].Tag)
		assert.Equal(t, "sqlite", found[2].Tag)
		for _, tag := range found {
			assert.Equal(t, a.ID, tag.AnalysisID)
			assert.InDelta(t, 0.8, tag.Confidence, 1e-9)
		}
	})

	t.Run("accumulates duplicate labels", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		analyses := sqlite.NewAnalysisService(db)
		svc := sqlite.NewTagService(db)
		ctx := context.Background()
		a := createPending(t, analyses, "https://example.com/dup-tags", time.Now())

		_, err := svc.CreateTags(ctx, a.ID, []string{"go"}, linksum.DefaultTagConfidence, time.Now())
		require.NoError(t, err)
		_, err = svc.CreateTags(ctx, a.ID, []string{"go"}, linksum.DefaultTagConfidence, time.Now())
		require.NoError(t, err)

		found, err := svc.FindTagsByAnalysis(ctx, a.ID)
		require.NoError(t, err)
		assert.Len(t, found, 2)
	})

	t.Run("returns ENOTFOUND for unknown analysis", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewTagService(db)

		_, err := svc.CreateTags(context.Background(), "missing", []string{"go"}, linksum.DefaultTagConfidence, time.Now())

		assert.Equal(t, linksum.ENOTFOUND, linksum.ErrorCode(err))
	})

	t.Run("rejects confidence outside range", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewTagService(db)

		_, err := svc.CreateTags(context.Background(), "a", []string{"go"}, 1.5, time.Now())

		assert.Equal(t, linksum.EINVALID, linksum.ErrorCode(err))
	})
}

func TestTagService_TagHistogram(t *testing.T) {
	t.Parallel()

	t.Run("counts tags descending", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		analyses := sqlite.NewAnalysisService(db)
		svc := sqlite.NewTagService(db)
		ctx := context.Background()
		a1 := createPending(t, analyses, "https://example.com/h1", time.Now())
		a2 := createPending(t, analyses, "https://example.com/h2", time.Now())

		_, err := svc.CreateTags(ctx, a1.ID, []string{"go", "web"}, linksum.DefaultTagConfidence, time.Now())
		require.NoError(t, err)
		_, err = svc.CreateTags(ctx, a2.ID, []string{"go", "ai"}, linksum.DefaultTagConfidence, time.Now())
		require.NoError(t, err)
		_, err = svc.CreateTags(ctx, a2.ID, []string{"low"}, 0.2, time.Now())
		require.NoError(t, err)

		hist, err := svc.TagHistogram(ctx, linksum.TagFilter{MinConfidence: 0.5})
		require.NoError(t, err)
		require.Len(t, hist, 3)
		assert.Equal(t, linksum.TagCount{Tag: "go", Count: 2}, *hist[0])
		assert.Equal(t, "ai", hist[1].Tag)
		assert.Equal(t, "web", hist[2].Tag)

		limited, err := svc.TagHistogram(ctx, linksum.TagFilter{Limit: 1})
		require.NoError(t, err)
		require.Len(t, limited, 1)
		assert.Equal(t, "go", limited[0].Tag)
	})
}
