package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/linksum"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ linksum.AnalysisService = (*AnalysisService)(nil)

const analysisColumns = `id, url, title, content, summary, word_count, content_type, language,
	content_hash, status, error_message, analysis_date, created_at, updated_at`

// AnalysisService implements linksum.AnalysisService using SQLite.
type AnalysisService struct {
	db *DB
}

// NewAnalysisService creates a new AnalysisService.
func NewAnalysisService(db *DB) *AnalysisService {
	return &AnalysisService{db: db}
}

// hashContent computes the xxHash of content as a hex string.
// Empty content hashes to the empty string.
func hashContent(content string) string {
	if content == "" {
		return ""
	}
	return fmt.Sprintf("%016x", xxhash.Sum64String(content))
}

// CreateAnalysis inserts a new analysis with a generated ID.
func (s *AnalysisService) CreateAnalysis(ctx context.Context, a *linksum.Analysis) error {
	if err := a.Validate(); err != nil {
		return err
	}

	a.ID = uuid.New().String()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	if a.UpdatedAt.IsZero() {
		a.UpdatedAt = a.CreatedAt
	}
	if a.ContentType == "" {
		a.ContentType = linksum.ContentTypeArticle
	}
	if a.Language == "" {
		a.Language = linksum.DefaultLanguage
	}
	a.ContentHash = hashContent(a.Content)

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO analyses (`+analysisColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, a.ID, a.URL, nullString(a.Title), nullString(a.Content), nullString(a.Summary),
		a.WordCount, string(a.ContentType), a.Language, a.ContentHash, string(a.Status),
		nullString(a.ErrorMessage), nullTime(a.AnalysisDate),
		formatTime(a.CreatedAt), formatTime(a.UpdatedAt))

	if isUniqueViolation(err) {
		a.ID = ""
		return linksum.Errorf(linksum.ECONFLICT, "analysis for %s already exists", a.URL)
	}
	if err != nil {
		a.ID = ""
		return err
	}
	return nil
}

// FindAnalysisByID retrieves an analysis by ID.
func (s *AnalysisService) FindAnalysisByID(ctx context.Context, id string) (*linksum.Analysis, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+analysisColumns+` FROM analyses WHERE id = ?`, id)
	a, err := scanAnalysis(row)
	if err == sql.ErrNoRows {
		return nil, linksum.Errorf(linksum.ENOTFOUND, "analysis not found")
	}
	return a, err
}

// FindAnalysisByURL retrieves the analysis for a URL.
func (s *AnalysisService) FindAnalysisByURL(ctx context.Context, url string) (*linksum.Analysis, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+analysisColumns+` FROM analyses WHERE url = ?`, url)
	a, err := scanAnalysis(row)
	if err == sql.ErrNoRows {
		return nil, linksum.Errorf(linksum.ENOTFOUND, "no analysis for %s", url)
	}
	return a, err
}

// FindAnalyses retrieves analyses matching the filter, newest first.
func (s *AnalysisService) FindAnalyses(ctx context.Context, filter linksum.AnalysisFilter) ([]*linksum.Analysis, int, error) {
	var where strings.Builder
	var args []any

	where.WriteString(" WHERE 1=1")

	if filter.Status != nil {
		where.WriteString(" AND status = ?")
		args = append(args, string(*filter.Status))
	}
	if filter.ContentType != nil {
		where.WriteString(" AND content_type = ?")
		args = append(args, string(*filter.ContentType))
	}
	if filter.Language != nil {
		where.WriteString(" AND language = ?")
		args = append(args, *filter.Language)
	}
	if filter.Search != nil && *filter.Search != "" {
		where.WriteString(` AND content LIKE ? ESCAPE '\'`)
		args = append(args, "%"+escapeLike(*filter.Search)+"%")
	}
	if filter.CreatedFrom != nil {
		where.WriteString(" AND created_at >= ?")
		args = append(args, formatTime(*filter.CreatedFrom))
	}
	if filter.CreatedTo != nil {
		where.WriteString(" AND created_at <= ?")
		args = append(args, formatTime(*filter.CreatedTo))
	}

	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM analyses"+where.String(), args...).Scan(&n); err != nil {
		return nil, 0, err
	}

	var query strings.Builder
	query.WriteString("SELECT " + analysisColumns + " FROM analyses")
	query.WriteString(where.String())
	query.WriteString(" ORDER BY created_at DESC, rowid DESC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	analyses := make([]*linksum.Analysis, 0)
	for rows.Next() {
		a, err := scanAnalysis(rows)
		if err != nil {
			return nil, 0, err
		}
		analyses = append(analyses, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return analyses, n, nil
}

// UpdateAnalysis applies upd and rewrites the whole row.
func (s *AnalysisService) UpdateAnalysis(ctx context.Context, id string, upd linksum.AnalysisUpdate) (*linksum.Analysis, error) {
	// First check if analysis exists
	a, err := s.FindAnalysisByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Apply updates
	if upd.Title != nil {
		a.Title = *upd.Title
	}
	if upd.Content != nil {
		a.Content = *upd.Content
		a.ContentHash = hashContent(a.Content)
	}
	if upd.Summary != nil {
		a.Summary = *upd.Summary
	}
	if upd.WordCount != nil {
		a.WordCount = *upd.WordCount
	}
	if upd.ContentType != nil {
		a.ContentType = *upd.ContentType
	}
	if upd.Language != nil {
		a.Language = *upd.Language
	}
	if upd.Status != nil {
		a.Status = *upd.Status
	}
	if upd.ErrorMessage != nil {
		a.ErrorMessage = *upd.ErrorMessage
	}
	if upd.ClearError {
		a.ErrorMessage = ""
	}
	if upd.AnalysisDate != nil {
		t := *upd.AnalysisDate
		a.AnalysisDate = &t
	}
	if !upd.UpdatedAt.IsZero() {
		a.UpdatedAt = upd.UpdatedAt
	} else {
		a.UpdatedAt = time.Now().UTC()
	}

	// Validate before persisting
	if err := a.Validate(); err != nil {
		return nil, err
	}

	_, err = s.db.ExecContext(ctx, `
		UPDATE analyses
		SET title = ?, content = ?, summary = ?, word_count = ?, content_type = ?, language = ?,
			content_hash = ?, status = ?, error_message = ?, analysis_date = ?, updated_at = ?
		WHERE id = ?
	`, nullString(a.Title), nullString(a.Content), nullString(a.Summary), a.WordCount,
		string(a.ContentType), a.Language, a.ContentHash, string(a.Status),
		nullString(a.ErrorMessage), nullTime(a.AnalysisDate), formatTime(a.UpdatedAt), id)

	if err != nil {
		return nil, err
	}

	return a, nil
}

// DeleteAnalysis permanently removes an analysis. Tags are removed by the
// ON DELETE CASCADE foreign key.
func (s *AnalysisService) DeleteAnalysis(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM analyses WHERE id = ?", id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return linksum.Errorf(linksum.ENOTFOUND, "analysis not found")
	}

	return nil
}

// scanner is implemented by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanAnalysis(row scanner) (*linksum.Analysis, error) {
	var a linksum.Analysis
	var title, content, summary, errMsg, analysisDate sql.NullString
	var contentType, status, createdAt, updatedAt string

	if err := row.Scan(&a.ID, &a.URL, &title, &content, &summary, &a.WordCount, &contentType,
		&a.Language, &a.ContentHash, &status, &errMsg, &analysisDate, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	a.Title = title.String
	a.Content = content.String
	a.Summary = summary.String
	a.ErrorMessage = errMsg.String
	a.ContentType = linksum.ContentType(contentType)
	a.Status = linksum.Status(status)

	var err error
	if a.CreatedAt, err = parseRFC3339(createdAt, "created_at"); err != nil {
		return nil, err
	}
	if a.UpdatedAt, err = parseRFC3339(updatedAt, "updated_at"); err != nil {
		return nil, err
	}
	if analysisDate.Valid {
		t, err := parseRFC3339(analysisDate.String, "analysis_date")
		if err != nil {
			return nil, err
		}
		a.AnalysisDate = &t
	}

	return &a, nil
}
