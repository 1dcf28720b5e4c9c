package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/fwojciec/linksum"
	"go.uber.org/zap"
)

// RequestOptions is the nested options object accepted by the webhooks.
type RequestOptions struct {
	GenerateTags  *bool  `json:"generate_tags"`
	SummaryLength string `json:"summary_length" validate:"omitempty,oneof=short medium long"`
}

// AnalyzeRequest is the body of POST /webhook/analyze. Top-level
// generate_tags and summary_length override the nested options.
type AnalyzeRequest struct {
	URL                string          `json:"url" validate:"required,http_url"`
	Options            *RequestOptions `json:"options"`
	GenerateTags       *bool           `json:"generate_tags"`
	SummaryLength      string          `json:"summary_length" validate:"omitempty,oneof=short medium long"`
	Email              string          `json:"email" validate:"omitempty,email"`
	Subject            string          `json:"subject"`
	IncludeFullContent bool            `json:"include_full_content"`
	CallbackURL        string          `json:"callback_url" validate:"omitempty,http_url"`
}

// AnalyzeAndEmailRequest is the body of POST /webhook/analyze-and-email.
type AnalyzeAndEmailRequest struct {
	URL                string `json:"url" validate:"http_url"`
	Email              string `json:"email" validate:"email"`
	Subject            string `json:"subject"`
	IncludeFullContent bool   `json:"include_full_content"`
}

// BatchAnalyzeRequest is the body of POST /webhook/batch-analyze.
type BatchAnalyzeRequest struct {
	URLs               []string        `json:"urls"`
	Options            *RequestOptions `json:"options"`
	GenerateTags       *bool           `json:"generate_tags"`
	SummaryLength      string          `json:"summary_length" validate:"omitempty,oneof=short medium long"`
	Email              string          `json:"email" validate:"omitempty,email"`
	SubjectPrefix      string          `json:"subject_prefix"`
	IncludeFullContent bool            `json:"include_full_content"`
	CallbackURL        string          `json:"callback_url" validate:"omitempty,http_url"`
}

// analyzeOptions merges request options over the defaults.
func analyzeOptions(nested *RequestOptions, generateTags *bool, summaryLength string) linksum.AnalyzeOptions {
	opts := linksum.DefaultAnalyzeOptions()
	if nested != nil {
		if nested.GenerateTags != nil {
			opts.GenerateTags = *nested.GenerateTags
		}
		if nested.SummaryLength != "" {
			opts.SummaryLength = linksum.SummaryLength(nested.SummaryLength)
		}
	}
	if generateTags != nil {
		opts.GenerateTags = *generateTags
	}
	if summaryLength != "" {
		opts.SummaryLength = linksum.SummaryLength(summaryLength)
	}
	return opts
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := decodeJSON(r, &req); err != nil {
		Error(w, r, s.logger(), err)
		return
	}
	if err := s.validateRequest(&req); err != nil {
		Error(w, r, s.logger(), err)
		return
	}
	opts := analyzeOptions(req.Options, req.GenerateTags, req.SummaryLength)

	if req.CallbackURL != "" {
		s.analyzeWithCallback(w, r, &req, opts)
		return
	}

	a, err := s.Analyzer.Analyze(r.Context(), req.URL, opts)
	if err != nil {
		Error(w, r, s.logger(), err)
		return
	}

	writeJSON(w, r, s.logger(), http.StatusOK, s.analyzeResponse(r.Context(), a, &req))
}

// analyzeWithCallback moves the record to pending, acknowledges the request
// and finishes the analysis in a detached task that posts the outcome to
// the callback URL exactly once.
func (s *Server) analyzeWithCallback(w http.ResponseWriter, r *http.Request, req *AnalyzeRequest, opts linksum.AnalyzeOptions) {
	rec, done, err := s.Analyzer.Begin(r.Context(), req.URL)
	if err != nil {
		Error(w, r, s.logger(), err)
		return
	}

	ctx := context.WithoutCancel(r.Context())
	s.tasks.Go(func() error {
		a := rec
		if !done {
			var err error
			if a, err = s.Analyzer.Run(ctx, rec, opts); err != nil {
				s.postCallback(ctx, req.CallbackURL, &FailureResponse{
					Success: false,
					URL:     rec.URL,
					Error:   linksum.ErrorMessage(err),
				})
				return nil
			}
		}
		s.postCallback(ctx, req.CallbackURL, s.analyzeResponse(ctx, a, req))
		return nil
	})

	writeJSON(w, r, s.logger(), http.StatusAccepted, &ProcessingResponse{
		Success: true,
		Status:  "processing",
		ID:      rec.ID,
		URL:     rec.URL,
	})
}

func (s *Server) analyzeResponse(ctx context.Context, a *linksum.Analysis, req *AnalyzeRequest) *AnalyzeResponse {
	resp := &AnalyzeResponse{Success: true, Data: newAnalysisData(a, false)}
	if req.Email != "" {
		resp.Email = s.sendEmail(ctx, req.Email, a, linksum.EmailOptions{
			Subject:            req.Subject,
			IncludeFullContent: req.IncludeFullContent,
		})
	}
	return resp
}

func (s *Server) handleAnalyzeAndEmail(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeAndEmailRequest
	if err := decodeJSON(r, &req); err != nil {
		Error(w, r, s.logger(), err)
		return
	}
	if strings.TrimSpace(req.URL) == "" || strings.TrimSpace(req.Email) == "" {
		Error(w, r, s.logger(), linksum.Errorf(linksum.EINVALID, "URL and email are required"))
		return
	}
	if err := s.validateRequest(&req); err != nil {
		Error(w, r, s.logger(), err)
		return
	}
	if s.Notifier == nil {
		Error(w, r, s.logger(), linksum.Errorf(linksum.ECONFIG, "email provider not configured"))
		return
	}

	a, err := s.Analyzer.Analyze(r.Context(), req.URL, linksum.DefaultAnalyzeOptions())
	if err != nil {
		Error(w, r, s.logger(), err)
		return
	}

	delivery := s.Notifier.SendAnalysis(r.Context(), req.Email, a, linksum.EmailOptions{
		Subject:            req.Subject,
		IncludeFullContent: req.IncludeFullContent,
	})

	writeJSON(w, r, s.logger(), http.StatusOK, &AnalyzeAndEmailResponse{
		Success:  true,
		Analysis: newAnalysisData(a, false),
		Email:    newEmailResult(delivery),
	})
}

func (s *Server) handleBatchAnalyze(w http.ResponseWriter, r *http.Request) {
	var req BatchAnalyzeRequest
	if err := decodeJSON(r, &req); err != nil {
		Error(w, r, s.logger(), err)
		return
	}
	if len(req.URLs) == 0 {
		Error(w, r, s.logger(), linksum.Errorf(linksum.EINVALID, "urls must contain at least one URL"))
		return
	}
	if len(req.URLs) > linksum.MaxBatchSize {
		Error(w, r, s.logger(), linksum.Errorf(linksum.EINVALID, "maximum %d URLs per batch", linksum.MaxBatchSize))
		return
	}
	if err := s.validateRequest(&req); err != nil {
		Error(w, r, s.logger(), err)
		return
	}
	opts := analyzeOptions(req.Options, req.GenerateTags, req.SummaryLength)

	if req.CallbackURL != "" {
		ctx := context.WithoutCancel(r.Context())
		s.tasks.Go(func() error {
			resp, err := s.runBatch(ctx, &req, opts)
			if err != nil {
				s.postCallback(ctx, req.CallbackURL, &FailureResponse{Success: false, Error: linksum.ErrorMessage(err)})
				return nil
			}
			s.postCallback(ctx, req.CallbackURL, resp)
			return nil
		})

		writeJSON(w, r, s.logger(), http.StatusAccepted, &ProcessingResponse{
			Success: true,
			Status:  "processing",
			Total:   len(req.URLs),
		})
		return
	}

	resp, err := s.runBatch(r.Context(), &req, opts)
	if err != nil {
		Error(w, r, s.logger(), err)
		return
	}
	writeJSON(w, r, s.logger(), http.StatusOK, resp)
}

// runBatch analyzes the URLs and, when requested, emails each success.
func (s *Server) runBatch(ctx context.Context, req *BatchAnalyzeRequest, opts linksum.AnalyzeOptions) (*BatchResponse, error) {
	result, err := s.Analyzer.AnalyzeBatch(ctx, req.URLs, opts)
	if err != nil {
		return nil, err
	}

	resp := &BatchResponse{
		Success:    true,
		Total:      len(result.Items),
		Successful: result.Successful,
		Failed:     result.Failed,
		Results:    make([]*BatchItemResult, 0, len(result.Items)),
	}
	for _, item := range result.Items {
		if item.Err != nil {
			resp.Results = append(resp.Results, &BatchItemResult{URL: item.URL, Error: linksum.ErrorMessage(item.Err)})
			continue
		}
		resp.Results = append(resp.Results, &BatchItemResult{URL: item.URL, Success: true, Data: newAnalysisData(item.Analysis, false)})
	}

	if req.Email != "" {
		resp.Email = &BatchEmailResult{}
		for _, item := range result.Items {
			if item.Err != nil {
				continue
			}
			var subject string
			if req.SubjectPrefix != "" {
				subject = req.SubjectPrefix + " " + linksum.DefaultSubject(item.Analysis)
			}
			res := s.sendEmail(ctx, req.Email, item.Analysis, linksum.EmailOptions{
				Subject:            subject,
				IncludeFullContent: req.IncludeFullContent,
			})
			if res.Sent {
				resp.Email.Sent++
			} else {
				resp.Email.Failed++
			}
		}
	}

	return resp, nil
}

// sendEmail reports a disabled notifier as an unsent email.
func (s *Server) sendEmail(ctx context.Context, to string, a *linksum.Analysis, opts linksum.EmailOptions) *EmailResult {
	if s.Notifier == nil {
		return &EmailResult{Sent: false, Error: "email provider not configured"}
	}
	return newEmailResult(s.Notifier.SendAnalysis(ctx, to, a, opts))
}

// postCallback delivers payload to url. Failures are logged only.
func (s *Server) postCallback(ctx context.Context, url string, payload any) {
	log := s.logger().With(zap.String("callback_url", url))

	body, err := json.Marshal(payload)
	if err != nil {
		log.Error("encode callback payload", zap.Error(err))
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		log.Warn("build callback request", zap.Error(err))
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.CallbackClient.Do(req)
	if err != nil {
		log.Warn("callback delivery failed", zap.Error(err))
		return
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Warn("callback rejected", zap.Int("status", resp.StatusCode))
		return
	}
	log.Info("callback delivered", zap.Int("status", resp.StatusCode))
}
