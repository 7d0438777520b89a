// Package api - Thin HTTP layer over the conversion engine
// The API is ONLY responsible for: input ingestion, engine invocation, output serialization.
// The API NEVER performs conversion logic.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"nlconvert/core/engine"
	"nlconvert/core/output"
	"nlconvert/core/units"
)

// MaxBatch caps the number of queries in one POST /convert
const MaxBatch = 100

// Server is the API server
type Server struct {
	engine  *engine.Engine
	mux     *http.ServeMux
	version string
	logger  *zap.Logger
	msgpack output.Formatter
}

// BatchRequest is the body of POST /convert
type BatchRequest struct {
	Queries []string `json:"queries"`
}

// BatchResponse answers POST /convert, one entry per query; misses are null
type BatchResponse struct {
	Responses []*engine.Response `json:"responses"`
}

// NewServer creates a new API server
func NewServer(eng *engine.Engine, version string, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		engine:  eng,
		mux:     http.NewServeMux(),
		version: version,
		logger:  logger,
		msgpack: &output.MsgpackFormatter{},
	}

	s.registerRoutes()
	return s
}

// registerRoutes registers all API routes
func (s *Server) registerRoutes() {
	// Core endpoints
	s.mux.HandleFunc("GET /convert", s.handleConvert)
	s.mux.HandleFunc("POST /convert", s.handleBatch)
	s.mux.HandleFunc("GET /units", s.handleUnits)

	// Supporting endpoints
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("GET /version", s.handleVersion)
}

// handleConvert handles GET /convert?q=...
func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if strings.TrimSpace(q) == "" {
		s.writeError(w, "MISSING_QUERY", "query parameter q is required", http.StatusBadRequest)
		return
	}

	resp := s.engine.Convert(q)

	if wantsMsgpack(r) {
		w.Header().Set("Content-Type", "application/msgpack")
		w.WriteHeader(http.StatusOK)
		if err := s.msgpack.Render(w, resp); err != nil {
			s.logger.Warn("msgpack write failed", zap.Error(err))
		}
		return
	}

	if resp == nil {
		s.writeJSON(w, output.Missed{Results: []units.Display{}}, http.StatusOK)
		return
	}
	s.writeJSON(w, resp, http.StatusOK)
}

// handleBatch handles POST /convert
func (s *Server) handleBatch(w http.ResponseWriter, r *http.Request) {
	var req BatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, "INVALID_JSON", err.Error(), http.StatusBadRequest)
		return
	}
	if len(req.Queries) == 0 {
		s.writeError(w, "VALIDATION_ERROR", "queries is required", http.StatusBadRequest)
		return
	}
	if len(req.Queries) > MaxBatch {
		s.writeError(w, "VALIDATION_ERROR", "too many queries", http.StatusRequestEntityTooLarge)
		return
	}

	result := BatchResponse{Responses: make([]*engine.Response, len(req.Queries))}
	for i, q := range req.Queries {
		result.Responses[i] = s.engine.Convert(q)
	}
	s.writeJSON(w, result, http.StatusOK)
}

// handleUnits handles GET /units
func (s *Server) handleUnits(w http.ResponseWriter, r *http.Request) {
	rows := s.engine.Help()
	if rows == nil {
		rows = []units.HelpRow{}
	}
	s.writeJSON(w, map[string]interface{}{
		"conversions": rows,
		"count":       len(rows),
	}, http.StatusOK)
}

// handleHealth handles GET /health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]interface{}{
		"status":  "healthy",
		"version": s.version,
		"time":    time.Now().UTC().Format(time.RFC3339),
	}, http.StatusOK)
}

// handleVersion handles GET /version
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]string{
		"version":     s.version,
		"engine":      "nlconvert",
		"api_version": "v1",
	}, http.StatusOK)
}

func (s *Server) writeJSON(w http.ResponseWriter, data interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Warn("response write failed", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, code, message string, status int) {
	s.writeJSON(w, map[string]interface{}{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	}, status)
}

func wantsMsgpack(r *http.Request) bool {
	return r.URL.Query().Get("format") == "msgpack" ||
		strings.Contains(r.Header.Get("Accept"), "application/msgpack")
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	s.mux.ServeHTTP(w, r)
	s.logger.Debug("request",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Duration("duration", time.Since(start)),
	)
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
