package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/fwojciec/linksum"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ linksum.TagService = (*TagService)(nil)

// TagService implements linksum.TagService using SQLite.
type TagService struct {
	db *DB
}

// NewTagService creates a new TagService.
func NewTagService(db *DB) *TagService {
	return &TagService{db: db}
}

// CreateTags inserts all labels in a single transaction.
func (s *TagService) CreateTags(ctx context.Context, analysisID string, labels []string, confidence float64, createdAt time.Time) ([]*linksum.Tag, error) {
	if analysisID == "" {
		return nil, linksum.Errorf(linksum.EINVALID, "analysis ID required")
	}
	if confidence < 0 || confidence > 1 {
		return nil, linksum.Errorf(linksum.EINVALID, "confidence must be between 0 and 1")
	}
	if len(labels) == 0 {
		return []*linksum.Tag{}, nil
	}
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	tags := make([]*linksum.Tag, 0, len(labels))
	for _, label := range labels {
		tag := &linksum.Tag{
			ID:         uuid.New().String(),
			AnalysisID: analysisID,
			Tag:        label,
			Confidence: confidence,
			CreatedAt:  createdAt,
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO content_tags (id, analysis_id, tag, confidence, created_at)
			VALUES (?, ?, ?, ?, ?)
		`, tag.ID, tag.AnalysisID, tag.Tag, tag.Confidence, formatTime(tag.CreatedAt))
		if isForeignKeyViolation(err) {
			return nil, linksum.Errorf(linksum.ENOTFOUND, "analysis not found")
		}
		if err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit tags: %w", err)
	}
	return tags, nil
}

// FindTagsByAnalysis returns the tags of an analysis in insertion order.
func (s *TagService) FindTagsByAnalysis(ctx context.Context, analysisID string) ([]*linksum.Tag, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, analysis_id, tag, confidence, created_at
		FROM content_tags
		WHERE analysis_id = ?
		ORDER BY rowid ASC
	`, analysisID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tags := make([]*linksum.Tag, 0)
	for rows.Next() {
		var tag linksum.Tag
		var createdAt string
		if err := rows.Scan(&tag.ID, &tag.AnalysisID, &tag.Tag, &tag.Confidence, &createdAt); err != nil {
			return nil, err
		}
		if tag.CreatedAt, err = parseRFC3339(createdAt, "created_at"); err != nil {
			return nil, err
		}
		tags = append(tags, &tag)
	}

	return tags, rows.Err()
}

// TagHistogram counts tag labels with confidence at or above the filter
// minimum, most frequent first. Ties are ordered alphabetically.
func (s *TagService) TagHistogram(ctx context.Context, filter linksum.TagFilter) ([]*linksum.TagCount, error) {
	query := `
		SELECT tag, COUNT(*) AS n
		FROM content_tags
		WHERE confidence >= ?
		GROUP BY tag
		ORDER BY n DESC, tag ASC`
	args := []any{filter.MinConfidence}
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make([]*linksum.TagCount, 0)
	for rows.Next() {
		var tc linksum.TagCount
		if err := rows.Scan(&tc.Tag, &tc.Count); err != nil {
			return nil, err
		}
		counts = append(counts, &tc)
	}

	return counts, rows.Err()
}
