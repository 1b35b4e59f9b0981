// Package server provides the HTTP API for bunko.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/bunkodb/bunko/internal/answer"
	"github.com/bunkodb/bunko/internal/config"
	"github.com/bunkodb/bunko/internal/ingest"
	"github.com/bunkodb/bunko/internal/retrieve"
	"github.com/bunkodb/bunko/internal/storage"
)

// Index is the slice of the vector index manager the API exposes.
type Index interface {
	Rebuild(ctx context.Context) error
	Size() int
	Dimensions() int
}

// Server is the HTTP server for the bunko API.
type Server struct {
	store     storage.Store
	ingester  *ingest.Service
	retriever *retrieve.Retriever
	answerer  *answer.Answerer // nil when QA is disabled
	index     Index
	config    *config.Config
	logger    *zap.Logger
	server    *http.Server
}

// NewServer creates a server with the given dependencies. answerer may
// be nil; the QA endpoint then responds 501.
func NewServer(
	store storage.Store,
	ingester *ingest.Service,
	retriever *retrieve.Retriever,
	answerer *answer.Answerer,
	index Index,
	cfg *config.Config,
	logger *zap.Logger,
) *Server {
	return &Server{
		store:     store,
		ingester:  ingester,
		retriever: retriever,
		answerer:  answerer,
		index:     index,
		config:    cfg,
		logger:    logger,
	}
}

// Router builds the chi router with all API routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(middleware.Compress(5))

	r.Post("/api/v1/ingest/text", s.handleIngestText)
	r.Post("/api/v1/ingest/file", s.handleIngestFile)
	r.Post("/api/v1/search", s.handleSearch)
	r.Post("/api/v1/completeness", s.handleCompleteness)
	r.Post("/api/v1/qa", s.handleQA)
	r.Post("/api/v1/reindex", s.handleReindex)
	r.Get("/api/v1/documents/{id}", s.handleGetDocument)
	r.Delete("/api/v1/documents/{id}", s.handleDeleteDocument)
	r.Get("/api/v1/status", s.handleStatus)
	r.Get("/health", s.handleHealth)
	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.Router(),
	}
	s.logger.Info("starting server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
