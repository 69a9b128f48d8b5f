// Package server exposes the analysis and chat pipelines over an
// HTTP JSON API with bearer authentication and per-client rate limiting.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/siteintel/siteintel/agent"
	"github.com/siteintel/siteintel/config"
	"github.com/siteintel/siteintel/scrape/weburl"
)

// Version is the API version reported by the health endpoint.
const Version = "1.0.0"

// Orchestrator is the slice of the agent the server needs.
type Orchestrator interface {
	Analyze(ctx context.Context, url string, questions []string) (*agent.AnalysisReport, error)
	Chat(ctx context.Context, url, query string) (*agent.ChatReply, error)
}

// Server is the HTTP API server.
type Server struct {
	orchestrator Orchestrator
	secret       string
	limiter      *ClientLimiter
	metrics      *Metrics
	logger       *slog.Logger

	addr            string
	shutdownTimeout time.Duration
}

// New creates a server around an orchestrator.
func New(cfg *config.Config, orchestrator Orchestrator, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		orchestrator:    orchestrator,
		secret:          cfg.Auth.Secret,
		limiter:         NewClientLimiter(cfg.RateLimit.PerMinute),
		metrics:         NewMetrics(),
		logger:          logger,
		addr:            fmt.Sprintf(":%d", cfg.Server.Port),
		shutdownTimeout: cfg.Server.ShutdownTimeout,
	}
}

// Handler builds the route table with middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.Handle("GET /", s.metrics.instrument("root", http.HandlerFunc(s.handleRoot)))
	mux.Handle("GET /health", s.metrics.instrument("health", http.HandlerFunc(s.handleHealth)))
	mux.Handle("GET /metrics", s.metrics.Handler())

	protect := func(route string, h http.HandlerFunc) http.Handler {
		return s.metrics.instrument(route, s.requireAuth(s.rateLimit(h)))
	}
	mux.Handle("POST /api/analyze", protect("analyze", s.handleAnalyze))
	mux.Handle("POST /api/chat", protect("chat", s.handleChat))

	return mux
}

// Run serves the API until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("API server listening", "addr", s.addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

// --- Request/response types ---

// AnalyzeRequest is the body of POST /api/analyze.
type AnalyzeRequest struct {
	URL       string   `json:"url"`
	Questions []string `json:"questions,omitempty"`
}

// ChatRequest is the body of POST /api/chat.
type ChatRequest struct {
	URL   string `json:"url"`
	Query string `json:"query"`
}

// errorResponse is the standard error body.
type errorResponse struct {
	Detail string `json:"detail"`
}

// --- Handlers ---

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		writeJSONError(w, http.StatusNotFound, "Not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Website Intelligence Agent API",
		"status":  "healthy",
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"version":   Version,
	})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusUnprocessableEntity, "Invalid request body")
		return
	}
	if err := weburl.ValidateTarget(req.URL); err != nil {
		writeJSONError(w, http.StatusUnprocessableEntity, "Invalid URL: "+err.Error())
		return
	}

	report, err := s.orchestrator.Analyze(r.Context(), req.URL, req.Questions)
	if err != nil {
		s.logger.Error("Analysis error", "url", req.URL, "error", err)
		writeJSONError(w, http.StatusInternalServerError, "Analysis failed: "+pipelineDetail(err))
		return
	}

	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusUnprocessableEntity, "Invalid request body")
		return
	}
	if err := weburl.ValidateTarget(req.URL); err != nil {
		writeJSONError(w, http.StatusUnprocessableEntity, "Invalid URL: "+err.Error())
		return
	}
	if req.Query == "" {
		writeJSONError(w, http.StatusUnprocessableEntity, "Query is required")
		return
	}

	reply, err := s.orchestrator.Chat(r.Context(), req.URL, req.Query)
	if errors.Is(err, agent.ErrNotAnalyzed) {
		writeJSONError(w, http.StatusNotFound,
			"Website not found. Please analyze the website first using /api/analyze")
		return
	}
	if err != nil {
		s.logger.Error("Chat error", "url", req.URL, "error", err)
		writeJSONError(w, http.StatusInternalServerError, "Chat failed: "+pipelineDetail(err))
		return
	}

	writeJSON(w, http.StatusOK, reply)
}

// pipelineDetail unwraps a PipelineError so the client detail echoes the
// originating stage's message without the wrapper prefix.
func pipelineDetail(err error) string {
	var pipelineErr *agent.PipelineError
	if errors.As(err, &pipelineErr) {
		return pipelineErr.Err.Error()
	}
	return err.Error()
}

// --- JSON helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, errorResponse{Detail: detail})
}
