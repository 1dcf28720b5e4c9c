// Package http provides the page Fetcher and the HTTP server exposing the
// webhook and REST API.
package http

import (
	"context"
	"errors"
	"net"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/fwojciec/linksum"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ShutdownTimeout is the time given for outstanding requests to finish
// before the server is forcibly closed.
const ShutdownTimeout = 5 * time.Second

// DefaultCallbackTimeout bounds a single callback POST.
const DefaultCallbackTimeout = 10 * time.Second

// Server serves the webhook and REST API.
type Server struct {
	ln       net.Listener
	server   *http.Server
	router   *http.ServeMux
	validate *validator.Validate

	// tasks owns callback-mode analyses that outlive their request.
	tasks errgroup.Group

	// Addr is the bind address, e.g. ":8787".
	Addr string

	Analyzer linksum.Analyzer
	Analyses linksum.AnalysisService
	Tags     linksum.TagService

	// Notifier sends analysis emails. Nil disables email.
	Notifier linksum.Notifier

	// MCPHandler serves the tool endpoint at /mcp when set.
	MCPHandler http.Handler

	// CallbackClient posts callback payloads.
	CallbackClient *http.Client

	Logger *zap.Logger
}

// NewServer returns a new instance of Server with its routes registered.
func NewServer() *Server {
	s := &Server{
		server:         &http.Server{ReadHeaderTimeout: 10 * time.Second},
		router:         http.NewServeMux(),
		validate:       newValidator(),
		CallbackClient: &http.Client{Timeout: DefaultCallbackTimeout},
	}
	s.server.Handler = http.HandlerFunc(s.serveHTTP)

	s.router.HandleFunc("POST /webhook/analyze", s.handleAnalyze)
	s.router.HandleFunc("POST /webhook/analyze-and-email", s.handleAnalyzeAndEmail)
	s.router.HandleFunc("POST /webhook/batch-analyze", s.handleBatchAnalyze)

	s.router.HandleFunc("GET /api/summaries", s.handleListSummaries)
	s.router.HandleFunc("GET /api/search", s.handleSearch)
	s.router.HandleFunc("GET /api/analysis/{id}", s.handleGetAnalysis)
	s.router.HandleFunc("DELETE /api/analysis/{id}", s.handleDeleteAnalysis)
	s.router.HandleFunc("GET /api/tags", s.handleListTags)
	s.router.HandleFunc("GET /health", s.handleHealth)

	s.router.HandleFunc("/mcp", s.handleMCP)
	s.router.HandleFunc("/mcp/", s.handleMCP)

	return s
}

func (s *Server) logger() *zap.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return zap.NewNop()
}

// Open begins listening on Addr and serving in a background goroutine.
func (s *Server) Open() (err error) {
	if s.ln, err = net.Listen("tcp", s.Addr); err != nil {
		return err
	}

	go func() {
		if err := s.server.Serve(s.ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger().Error("http server stopped", zap.Error(err))
		}
	}()

	return nil
}

// Port returns the TCP port of the running server.
func (s *Server) Port() int {
	if s.ln == nil {
		return 0
	}
	return s.ln.Addr().(*net.TCPAddr).Port
}

// Close gracefully shuts down the server and waits for detached analyses
// to deliver their callbacks.
func (s *Server) Close() error {
	var err error
	if s.ln != nil {
		ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		err = s.server.Shutdown(ctx)
	}
	s.Wait()
	s.CallbackClient.CloseIdleConnections()
	return err
}

// Wait blocks until every detached analysis has finished.
func (s *Server) Wait() {
	_ = s.tasks.Wait()
}

// ServeHTTP lets the server be driven directly, e.g. by httptest.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.server.Handler.ServeHTTP(w, r)
}

// serveHTTP logs every request and turns panics into a 500.
func (s *Server) serveHTTP(w http.ResponseWriter, r *http.Request) {
	begin := time.Now()
	rw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

	defer func() {
		if v := recover(); v != nil {
			s.logger().Error("panic serving request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Any("panic", v),
			)
			if !rw.wrote {
				Error(rw, r, s.logger(), linksum.Errorf(linksum.EINTERNAL, "internal error"))
			}
		}
		s.logger().Info("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rw.status),
			zap.Duration("duration", time.Since(begin)),
		)
	}()

	s.router.ServeHTTP(rw, r)
}

func (s *Server) handleMCP(w http.ResponseWriter, r *http.Request) {
	if s.MCPHandler == nil {
		http.NotFound(w, r)
		return
	}
	s.MCPHandler.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, s.logger(), http.StatusOK, map[string]string{"status": "ok"})
}

// statusWriter records the status code written by a handler.
type statusWriter struct {
	http.ResponseWriter
	status int
	wrote  bool
}

func (w *statusWriter) WriteHeader(code int) {
	if !w.wrote {
		w.status = code
		w.wrote = true
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	w.wrote = true
	return w.ResponseWriter.Write(b)
}

// Flush supports streaming responses from the MCP handler.
func (w *statusWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Unwrap exposes the underlying writer to http.ResponseController.
func (w *statusWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

// newValidator returns a validator that reports JSON field names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}
