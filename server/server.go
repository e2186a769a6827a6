// Package server exposes the QA engine over HTTP.
package server

import (
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/hubenschmidt/go-docqa/engine"
	"github.com/hubenschmidt/go-docqa/server/store"
)

const defaultMaxUploadBytes = 32 << 20 // 32 MiB

// Config configures a new Server instance.
type Config struct {
	Engine      *engine.Engine
	DatabaseDSN string // history store DSN (postgres:// or sqlite path)

	MaxUploadBytes int64 // multipart upload cap (default: 32 MiB)
	Logger         *zap.Logger

	// History injects a custom history store, bypassing DatabaseDSN.
	History store.HistoryStore
}

// Server is the HTTP API for the document QA service.
type Server struct {
	engine    *engine.Engine
	history   store.HistoryStore
	maxUpload int64
	log       *zap.Logger
}

// New creates a new Server with the given configuration.
func New(cfg Config) (*Server, error) {
	if cfg.Engine == nil {
		return nil, fmt.Errorf("server: nil engine")
	}

	history := cfg.History
	if history == nil {
		hs, err := store.NewHistoryStore(cfg.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("initialize history store: %w", err)
		}
		history = hs
	}

	maxUpload := cfg.MaxUploadBytes
	if maxUpload <= 0 {
		maxUpload = defaultMaxUploadBytes
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Server{
		engine:    cfg.Engine,
		history:   history,
		maxUpload: maxUpload,
		log:       logger,
	}, nil
}

// Close closes the server and releases resources.
func (s *Server) Close() error {
	if s.history != nil {
		if err := s.history.Close(); err != nil {
			return fmt.Errorf("close history store: %w", err)
		}
	}
	return nil
}

// Handler returns an http.Handler for the API routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /status", s.handleStatus)

	mux.HandleFunc("POST /upload", s.handleUpload)
	mux.HandleFunc("POST /ask", s.handleAsk)

	mux.HandleFunc("GET /history", s.handleHistoryList)
	mux.HandleFunc("GET /history/{id}", s.handleHistoryGet)
	mux.HandleFunc("DELETE /history/{id}", s.handleHistoryDelete)
	mux.HandleFunc("GET /metrics/summary", s.handleMetricsSummary)

	return corsMiddleware(mux)
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
