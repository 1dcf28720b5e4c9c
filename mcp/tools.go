package mcp

import (
	"context"
	"strings"

	"github.com/fwojciec/linksum"
	"github.com/mark3labs/mcp-go/mcp"
)

func analyzeURLTool() mcp.Tool {
	return mcp.NewTool("analyze_url",
		mcp.WithDescription("Fetch a web page, summarize it and store the analysis. Previously analyzed URLs are returned from storage."),
		mcp.WithString("url",
			mcp.Required(),
			mcp.Description("Absolute http(s) URL to analyze"),
		),
		mcp.WithString("summary_length",
			mcp.Description("Summary length (default: medium)"),
			mcp.Enum("short", "medium", "long"),
		),
	)
}

func getSummariesTool() mcp.Tool {
	return mcp.NewTool("get_summaries",
		mcp.WithDescription("List the most recent completed analyses"),
		mcp.WithNumber("limit",
			mcp.Description("Maximum results (default: 10, max: 100)"),
		),
		mcp.WithString("content_type",
			mcp.Description("Filter by content type"),
			mcp.Enum("article", "blog", "news"),
		),
	)
}

func searchContentTool() mcp.Tool {
	return mcp.NewTool("search_content",
		mcp.WithDescription("Find analyses whose extracted content contains the query (case-insensitive substring match)"),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Text to look for"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum results (default: 10, max: 100)"),
		),
	)
}

func getURLDetailsTool() mcp.Tool {
	return mcp.NewTool("get_url_details",
		mcp.WithDescription("Return the stored analysis of a URL including its full content and tags"),
		mcp.WithString("url",
			mcp.Required(),
			mcp.Description("URL that was analyzed"),
		),
	)
}

func emailAnalysisTool() mcp.Tool {
	return mcp.NewTool("email_analysis",
		mcp.WithDescription("Analyze a URL if needed and email the summary"),
		mcp.WithString("url",
			mcp.Required(),
			mcp.Description("URL to analyze"),
		),
		mcp.WithString("email",
			mcp.Required(),
			mcp.Description("Recipient address"),
		),
		mcp.WithString("subject",
			mcp.Description("Subject line (default: \"Analysis: <title>\")"),
		),
		mcp.WithBoolean("include_full_content",
			mcp.Description("Append an excerpt of the extracted content"),
		),
	)
}

func (s *Server) handleAnalyzeURL(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	url, err := request.RequireString("url")
	if err != nil || strings.TrimSpace(url) == "" {
		return mcp.NewToolResultError("url is required"), nil
	}

	opts := linksum.DefaultAnalyzeOptions()
	if v := request.GetString("summary_length", ""); v != "" {
		length, err := linksum.ParseSummaryLength(v)
		if err != nil {
			return s.errorResult("analyze_url", err), nil
		}
		opts.SummaryLength = length
	}

	a, err := s.Analyzer.Analyze(ctx, url, opts)
	if err != nil {
		return s.errorResult("analyze_url", err), nil
	}
	return jsonResult(newResult(a, false))
}

func (s *Server) handleGetSummaries(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	status := linksum.StatusCompleted
	filter := linksum.AnalysisFilter{
		Status: &status,
		Limit:  clampLimit(request.GetInt("limit", DefaultToolLimit)),
	}
	if v := request.GetString("content_type", ""); v != "" {
		ct, err := linksum.ParseContentType(v)
		if err != nil {
			return s.errorResult("get_summaries", err), nil
		}
		filter.ContentType = &ct
	}

	analyses, total, err := s.Analyses.FindAnalyses(ctx, filter)
	if err != nil {
		return s.errorResult("get_summaries", err), nil
	}

	results := make([]*Result, 0, len(analyses))
	for _, a := range analyses {
		results = append(results, newResult(a, false))
	}
	return jsonResult(map[string]any{
		"total":     total,
		"count":     len(results),
		"summaries": results,
	})
}

func (s *Server) handleSearchContent(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	query = strings.TrimSpace(query)
	if err != nil || query == "" {
		return mcp.NewToolResultError("query is required"), nil
	}

	analyses, _, err := s.Analyses.FindAnalyses(ctx, linksum.AnalysisFilter{
		Search: &query,
		Limit:  clampLimit(request.GetInt("limit", DefaultToolLimit)),
	})
	if err != nil {
		return s.errorResult("search_content", err), nil
	}

	results := make([]*Result, 0, len(analyses))
	for _, a := range analyses {
		results = append(results, newResult(a, false))
	}
	return jsonResult(map[string]any{
		"query":   query,
		"count":   len(results),
		"results": results,
	})
}

func (s *Server) handleGetURLDetails(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := request.RequireString("url")
	if err != nil || strings.TrimSpace(raw) == "" {
		return mcp.NewToolResultError("url is required"), nil
	}
	url, err := linksum.NormalizeURL(raw)
	if err != nil {
		return s.errorResult("get_url_details", err), nil
	}

	a, err := s.Analyses.FindAnalysisByURL(ctx, url)
	if linksum.ErrorCode(err) == linksum.ENOTFOUND {
		return mcp.NewToolResultError("no analysis found for " + url), nil
	} else if err != nil {
		return s.errorResult("get_url_details", err), nil
	}
	if a.Tags, err = s.Tags.FindTagsByAnalysis(ctx, a.ID); err != nil {
		return s.errorResult("get_url_details", err), nil
	}
	return jsonResult(newResult(a, true))
}

func (s *Server) handleEmailAnalysis(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	url, urlErr := request.RequireString("url")
	email, emailErr := request.RequireString("email")
	if urlErr != nil || emailErr != nil || strings.TrimSpace(url) == "" || strings.TrimSpace(email) == "" {
		return mcp.NewToolResultError("url and email are required"), nil
	}
	if s.Notifier == nil {
		return mcp.NewToolResultError("email provider not configured"), nil
	}

	a, err := s.Analyzer.Analyze(ctx, url, linksum.DefaultAnalyzeOptions())
	if err != nil {
		return s.errorResult("email_analysis", err), nil
	}

	delivery := s.Notifier.SendAnalysis(ctx, email, a, linksum.EmailOptions{
		Subject:            request.GetString("subject", ""),
		IncludeFullContent: request.GetBool("include_full_content", false),
	})
	if !delivery.Success {
		return mcp.NewToolResultError("failed to send email: " + delivery.Error), nil
	}
	return jsonResult(map[string]any{
		"sent":     true,
		"email_id": delivery.ID,
		"analysis": newResult(a, false),
	})
}
