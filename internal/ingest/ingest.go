// Package ingest turns raw text and files into stored, indexed
// documents while keeping the document store and the vector index
// consistent with each other.
package ingest

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/bunkodb/bunko/internal/extract"
	"github.com/bunkodb/bunko/internal/models"
	"github.com/bunkodb/bunko/internal/splitter"
	"github.com/bunkodb/bunko/internal/storage"
)

// ErrUnsupportedFile is returned for file extensions outside the
// ingest allow-list.
var ErrUnsupportedFile = errors.New("unsupported file type")

// Status reports what an ingest call did.
type Status string

const (
	// StatusIngested means a new document and its vectors were created.
	StatusIngested Status = "ingested"
	// StatusSkipped means an identical document already existed.
	StatusSkipped Status = "skipped"
	// StatusEmpty means the input had no content after cleaning.
	StatusEmpty Status = "empty"
)

// Result describes the outcome of an ingest call.
type Result struct {
	Status     Status `json:"status"`
	DocumentID int64  `json:"document_id,omitempty"`
	NumChunks  int    `json:"num_chunks,omitempty"`
}

// VectorIndex is the slice of the index manager the orchestrator needs.
type VectorIndex interface {
	AddChunks(ctx context.Context, chunks []*models.Chunk) error
	Remove(ctx context.Context, ids []int64) error
}

// Service orchestrates the ingest pipeline: clean, dedup, supersede,
// split, store, index.
type Service struct {
	store        storage.Store
	index        VectorIndex
	extractor    *extract.Extractor
	chunkSize    int
	chunkOverlap int
	logger       *zap.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithChunking overrides the chunk window size and overlap.
func WithChunking(size, overlap int) Option {
	return func(s *Service) {
		s.chunkSize = size
		s.chunkOverlap = overlap
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// NewService creates an ingest service with default chunking
// (1000 characters, 200 overlap).
func NewService(store storage.Store, index VectorIndex, opts ...Option) *Service {
	s := &Service{
		store:        store,
		index:        index,
		extractor:    extract.NewExtractor(),
		chunkSize:    1000,
		chunkOverlap: 200,
		logger:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// IngestText stores and indexes one text document.
//
// Identical content (by hash of the cleaned text) is skipped. When
// sourceID is set and a different document from the same source
// exists, that document is superseded: its vectors are removed before
// its rows so a crash in between leaves orphan rows, never orphan
// vectors.
func (s *Service) IngestText(ctx context.Context, text, sourceID, kind string) (*Result, error) {
	cleaned := splitter.Clean(text)
	if cleaned == "" {
		return &Result{Status: StatusEmpty}, nil
	}

	sum := sha256.Sum256([]byte(cleaned))
	hash := hex.EncodeToString(sum[:])

	existing, err := s.store.FindByHash(ctx, hash)
	if err == nil {
		s.logger.Debug("duplicate content, skipping",
			zap.Int64("document_id", existing.ID),
			zap.String("sha256", hash))
		return &Result{
			Status:     StatusSkipped,
			DocumentID: existing.ID,
			NumChunks:  existing.NumChunks,
		}, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("failed to check content hash: %w", err)
	}

	if sourceID != "" {
		if err := s.supersede(ctx, sourceID); err != nil {
			return nil, err
		}
	}

	texts := splitter.Split(cleaned, s.chunkSize, s.chunkOverlap)

	doc := &models.Document{
		SourceID:   sourceID,
		SourceKind: kind,
		SHA256:     hash,
		NumChunks:  len(texts),
	}
	if err := s.store.CreateDocument(ctx, doc); err != nil {
		return nil, fmt.Errorf("failed to store document: %w", err)
	}
	chunks, err := s.store.CreateChunks(ctx, doc.ID, texts)
	if err != nil {
		return nil, fmt.Errorf("failed to store chunks: %w", err)
	}
	if err := s.index.AddChunks(ctx, chunks); err != nil {
		// Roll the rows back so a stored chunk always has a vector.
		if delErr := s.store.DeleteDocument(ctx, doc.ID); delErr != nil {
			s.logger.Error("failed to roll back document after index error",
				zap.Int64("document_id", doc.ID),
				zap.Error(delErr))
		}
		return nil, fmt.Errorf("failed to index chunks: %w", err)
	}

	s.logger.Info("document ingested",
		zap.Int64("document_id", doc.ID),
		zap.String("source_id", sourceID),
		zap.Int("num_chunks", len(chunks)))
	return &Result{
		Status:     StatusIngested,
		DocumentID: doc.ID,
		NumChunks:  len(chunks),
	}, nil
}

// IngestFile extracts text from an uploaded file and ingests it. The
// filename extension must be on the allow-list.
func (s *Service) IngestFile(ctx context.Context, data []byte, filename, sourceID string) (*Result, error) {
	ext := filepath.Ext(filename)
	if !extract.Supported(ext) {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFile, ext)
	}
	text, err := s.extractor.ExtractBytes(data, ext)
	if err != nil {
		return nil, fmt.Errorf("failed to extract %s: %w", filename, err)
	}
	return s.IngestText(ctx, text, sourceID, models.SourceKindFile)
}

// Delete removes a document and its vectors. Vectors go first: a
// failure in between leaves rows without vectors, which a rebuild can
// repair, rather than vectors without rows.
func (s *Service) Delete(ctx context.Context, documentID int64) error {
	if _, err := s.store.GetDocument(ctx, documentID); err != nil {
		return err
	}
	return s.removeDocument(ctx, documentID)
}

// DeleteBySource removes the document ingested from sourceID, if any.
// A missing source is not an error.
func (s *Service) DeleteBySource(ctx context.Context, sourceID string) error {
	doc, err := s.store.FindBySource(ctx, sourceID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	return s.removeDocument(ctx, doc.ID)
}

func (s *Service) supersede(ctx context.Context, sourceID string) error {
	old, err := s.store.FindBySource(ctx, sourceID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to look up source %q: %w", sourceID, err)
	}
	s.logger.Info("superseding document",
		zap.Int64("document_id", old.ID),
		zap.String("source_id", sourceID))
	return s.removeDocument(ctx, old.ID)
}

func (s *Service) removeDocument(ctx context.Context, documentID int64) error {
	ids, err := s.store.ChunkIDsByDocument(ctx, documentID)
	if err != nil {
		return fmt.Errorf("failed to list chunk IDs: %w", err)
	}
	if err := s.index.Remove(ctx, ids); err != nil {
		return fmt.Errorf("failed to remove vectors: %w", err)
	}
	if err := s.store.DeleteDocument(ctx, documentID); err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	s.logger.Debug("document removed",
		zap.Int64("document_id", documentID),
		zap.Int("num_chunks", len(ids)))
	return nil
}
