package http

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/fwojciec/linksum"
)

// List limits.
const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
	DefaultTagLimit  = 50

	// MaxPage keeps (page-1)*limit within int range.
	MaxPage = 1_000_000
)

func (s *Server) handleListSummaries(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	page, err := intParam(q.Get("page"), "page", 1)
	if err != nil {
		Error(w, r, s.logger(), err)
		return
	}
	if page < 1 {
		page = 1
	}
	if page > MaxPage {
		Error(w, r, s.logger(), linksum.Errorf(linksum.EINVALID, "page must be at most %d", MaxPage))
		return
	}
	limit, err := limitParam(q.Get("limit"), DefaultPageLimit)
	if err != nil {
		Error(w, r, s.logger(), err)
		return
	}

	filter := linksum.AnalysisFilter{
		Offset: (page - 1) * limit,
		Limit:  limit,
	}
	if v := q.Get("status"); v != "" {
		status, err := linksum.ParseStatus(v)
		if err != nil {
			Error(w, r, s.logger(), err)
			return
		}
		filter.Status = &status
	}
	if v := q.Get("content_type"); v != "" {
		ct, err := linksum.ParseContentType(v)
		if err != nil {
			Error(w, r, s.logger(), err)
			return
		}
		filter.ContentType = &ct
	}
	if v := q.Get("search"); v != "" {
		filter.Search = &v
	}

	analyses, total, err := s.Analyses.FindAnalyses(r.Context(), filter)
	if err != nil {
		Error(w, r, s.logger(), err)
		return
	}

	data := make([]*AnalysisData, 0, len(analyses))
	for _, a := range analyses {
		data = append(data, newAnalysisData(a, false))
	}

	writeJSON(w, r, s.logger(), http.StatusOK, &SummariesResponse{
		Data: data,
		Pagination: Pagination{
			Page:  page,
			Limit: limit,
			Total: total,
			Pages: (total + limit - 1) / limit,
		},
	})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	query := strings.TrimSpace(q.Get("q"))
	if query == "" {
		Error(w, r, s.logger(), linksum.Errorf(linksum.EINVALID, "search query (q) is required"))
		return
	}
	limit, err := limitParam(q.Get("limit"), DefaultPageLimit)
	if err != nil {
		Error(w, r, s.logger(), err)
		return
	}

	filter := linksum.AnalysisFilter{Search: &query, Limit: limit}
	if v := q.Get("content_type"); v != "" {
		ct, err := linksum.ParseContentType(v)
		if err != nil {
			Error(w, r, s.logger(), err)
			return
		}
		filter.ContentType = &ct
	}
	if v := q.Get("language"); v != "" {
		filter.Language = &v
	}
	if v := q.Get("date_from"); v != "" {
		from, err := parseDate(v, "date_from", false)
		if err != nil {
			Error(w, r, s.logger(), err)
			return
		}
		filter.CreatedFrom = &from
	}
	if v := q.Get("date_to"); v != "" {
		to, err := parseDate(v, "date_to", true)
		if err != nil {
			Error(w, r, s.logger(), err)
			return
		}
		filter.CreatedTo = &to
	}

	analyses, _, err := s.Analyses.FindAnalyses(r.Context(), filter)
	if err != nil {
		Error(w, r, s.logger(), err)
		return
	}

	results := make([]*AnalysisData, 0, len(analyses))
	for _, a := range analyses {
		results = append(results, newAnalysisData(a, false))
	}

	writeJSON(w, r, s.logger(), http.StatusOK, &SearchResponse{
		Query:   query,
		Results: results,
		Count:   len(results),
	})
}

func (s *Server) handleGetAnalysis(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	a, err := s.Analyses.FindAnalysisByID(r.Context(), id)
	if err != nil {
		Error(w, r, s.logger(), err)
		return
	}
	if a.Tags, err = s.Tags.FindTagsByAnalysis(r.Context(), id); err != nil {
		Error(w, r, s.logger(), err)
		return
	}

	writeJSON(w, r, s.logger(), http.StatusOK, newAnalysisData(a, true))
}

func (s *Server) handleDeleteAnalysis(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if err := s.Analyses.DeleteAnalysis(r.Context(), id); err != nil {
		Error(w, r, s.logger(), err)
		return
	}

	writeJSON(w, r, s.logger(), http.StatusOK, &DeleteResponse{Success: true, ID: id})
}

func (s *Server) handleListTags(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := linksum.TagFilter{Limit: DefaultTagLimit}
	if v := q.Get("min_confidence"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f < 0 || f > 1 {
			Error(w, r, s.logger(), linksum.Errorf(linksum.EINVALID, "min_confidence must be a number between 0 and 1"))
			return
		}
		filter.MinConfidence = f
	}
	limit, err := intParam(q.Get("limit"), "limit", DefaultTagLimit)
	if err != nil {
		Error(w, r, s.logger(), err)
		return
	}
	if limit > 0 {
		filter.Limit = limit
	}

	counts, err := s.Tags.TagHistogram(r.Context(), filter)
	if err != nil {
		Error(w, r, s.logger(), err)
		return
	}

	writeJSON(w, r, s.logger(), http.StatusOK, &TagsResponse{Tags: counts})
}

// intParam parses an optional integer query parameter.
func intParam(v, name string, def int) (int, error) {
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, linksum.Errorf(linksum.EINVALID, "%s must be an integer", name)
	}
	return n, nil
}

// limitParam parses limit, falling back to def when absent or below one and
// capping at MaxPageLimit.
func limitParam(v string, def int) (int, error) {
	limit, err := intParam(v, "limit", def)
	if err != nil {
		return 0, err
	}
	if limit < 1 {
		limit = def
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	return limit, nil
}

// parseDate accepts RFC 3339 timestamps or plain dates. A plain date used as
// an upper bound covers the whole day.
func parseDate(v, name string, endOfDay bool) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.DateOnly, v)
	if err != nil {
		return time.Time{}, linksum.Errorf(linksum.EINVALID, "%s must be a date (YYYY-MM-DD) or RFC 3339 timestamp", name)
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Second)
	}
	return t, nil
}
