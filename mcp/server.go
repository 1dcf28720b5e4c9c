// Package mcp exposes the analysis pipeline as MCP tools over streamable
// HTTP.
package mcp

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/fwojciec/linksum"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"
)

// Tool list limits.
const (
	DefaultToolLimit = 10
	MaxToolLimit     = 100
)

// Server registers the linksum tools on an MCP server.
type Server struct {
	Analyzer linksum.Analyzer
	Analyses linksum.AnalysisService
	Tags     linksum.TagService

	// Notifier sends analysis emails. Nil disables email_analysis.
	Notifier linksum.Notifier

	Version string
	Logger  *zap.Logger
}

func (s *Server) logger() *zap.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return zap.NewNop()
}

// MCPServer returns an MCP server with every tool registered.
func (s *Server) MCPServer() *server.MCPServer {
	ms := server.NewMCPServer(
		"linksum",
		s.Version,
		server.WithToolCapabilities(true),
	)
	ms.AddTools(s.Tools()...)
	return ms
}

// Handler returns the streamable HTTP handler mounted at /mcp.
func (s *Server) Handler() http.Handler {
	return server.NewStreamableHTTPServer(s.MCPServer(), server.WithStateLess(true))
}

// Tools returns the tool definitions paired with their handlers.
func (s *Server) Tools() []server.ServerTool {
	return []server.ServerTool{
		{Tool: analyzeURLTool(), Handler: s.handleAnalyzeURL},
		{Tool: getSummariesTool(), Handler: s.handleGetSummaries},
		{Tool: searchContentTool(), Handler: s.handleSearchContent},
		{Tool: getURLDetailsTool(), Handler: s.handleGetURLDetails},
		{Tool: emailAnalysisTool(), Handler: s.handleEmailAnalysis},
	}
}

// Result is the JSON shape of an analysis in tool results.
type Result struct {
	ID           string              `json:"id"`
	URL          string              `json:"url"`
	Title        string              `json:"title"`
	Summary      string              `json:"summary"`
	Content      string              `json:"content,omitempty"`
	Tags         []string            `json:"tags"`
	WordCount    int                 `json:"word_count"`
	ContentType  linksum.ContentType `json:"content_type"`
	Status       linksum.Status      `json:"status"`
	ErrorMessage string              `json:"error_message,omitempty"`
	AnalysisDate *time.Time          `json:"analysis_date,omitempty"`
}

func newResult(a *linksum.Analysis, withContent bool) *Result {
	r := &Result{
		ID:           a.ID,
		URL:          a.URL,
		Title:        a.Title,
		Summary:      a.Summary,
		Tags:         a.TagNames(),
		WordCount:    a.WordCount,
		ContentType:  a.ContentType,
		Status:       a.Status,
		ErrorMessage: a.ErrorMessage,
		AnalysisDate: a.AnalysisDate,
	}
	if withContent {
		r.Content = a.Content
	}
	return r
}

// jsonResult encodes v as the text content of a successful result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(string(b)), nil
}

// errorResult reports err as an error-flagged tool result. Internal errors
// are logged.
func (s *Server) errorResult(tool string, err error) *mcp.CallToolResult {
	if linksum.ErrorCode(err) == linksum.EINTERNAL {
		s.logger().Error("tool failed", zap.String("tool", tool), zap.Error(err))
	}
	return mcp.NewToolResultError(linksum.ErrorMessage(err))
}

// clampLimit applies the default and the cap to a requested limit.
func clampLimit(n int) int {
	if n < 1 {
		return DefaultToolLimit
	}
	if n > MaxToolLimit {
		return MaxToolLimit
	}
	return n
}
