package vector

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"go.uber.org/zap"

	"github.com/bunkodb/bunko/internal/models"
)

// rebuildBatchSize is how many chunks are pulled from the store per
// round while rebuilding the index.
const rebuildBatchSize = 256

// initDecision names the path Initialize took for an existing (or
// absent) index file.
type initDecision int

const (
	decisionCreate initDecision = iota
	decisionAdopt
	decisionRebuildDimension
	decisionRebuildLegacy
)

func (d initDecision) String() string {
	switch d {
	case decisionCreate:
		return "create"
	case decisionAdopt:
		return "adopt"
	case decisionRebuildDimension:
		return "rebuild_dimension"
	case decisionRebuildLegacy:
		return "rebuild_legacy"
	default:
		return "unknown"
	}
}

// Embedder is the slice of the embedding service the manager needs.
type Embedder interface {
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Dimensions() int
	ModelID() string
}

// ChunkSource streams chunk rows in ID order so the index can be
// rebuilt from the document store.
type ChunkSource interface {
	ListChunksAfter(ctx context.Context, afterID int64, limit int) ([]*models.Chunk, error)
}

// Manager owns the persisted vector index. It is the single writer:
// one mutex serializes additions, removals, and searches, and every
// mutation is flushed to disk before the call returns so that a crash
// never leaves the index ahead of the document store.
type Manager struct {
	mu sync.Mutex

	engine   Engine
	embedder Embedder
	source   ChunkSource

	indexPath string
	metaPath  string

	logger *zap.Logger
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithLogger sets the logger used by the manager.
func WithLogger(logger *zap.Logger) ManagerOption {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager creates a manager for the index at indexPath with its
// meta sidecar at metaPath. Call Initialize before use.
func NewManager(indexPath, metaPath string, embedder Embedder, source ChunkSource, opts ...ManagerOption) *Manager {
	m := &Manager{
		embedder:  embedder,
		source:    source,
		indexPath: indexPath,
		metaPath:  metaPath,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Initialize loads the persisted index or builds a usable one. The
// outcome depends on what is on disk:
//
//   - no index file: create an empty index for the configured model
//   - index is ID-addressable and matches the embedder dimension: adopt it
//   - dimension mismatch (model changed): rebuild from the store
//   - legacy positional format (no ID map): rebuild from the store
func (m *Manager) Initialize(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	decision, snapshot, err := m.decide()
	if err != nil {
		return err
	}

	m.logger.Info("initializing vector index",
		zap.String("path", m.indexPath),
		zap.String("decision", decision.String()),
		zap.Int("model_dimensions", m.embedder.Dimensions()))

	switch decision {
	case decisionAdopt:
		engine, err := NewFlatEngineFromSnapshot(snapshot)
		if err != nil {
			return err
		}
		m.engine = engine
		m.logger.Info("adopted existing vector index",
			zap.Int("entries", m.engine.Size()))
		return nil
	case decisionCreate:
		engine, err := NewFlatEngine(m.embedder.Dimensions())
		if err != nil {
			return err
		}
		m.engine = engine
		return m.persistLocked()
	default:
		engine, err := NewFlatEngine(m.embedder.Dimensions())
		if err != nil {
			return err
		}
		m.engine = engine
		if err := m.rebuildLocked(ctx); err != nil {
			return fmt.Errorf("index rebuild (%s): %w", decision, err)
		}
		return nil
	}
}

func (m *Manager) decide() (initDecision, *FileSnapshot, error) {
	snapshot, err := ReadEngineFile(m.indexPath)
	if errors.Is(err, os.ErrNotExist) {
		return decisionCreate, nil, nil
	}
	if err != nil {
		return 0, nil, fmt.Errorf("failed to load vector index: %w", err)
	}
	if !snapshot.IDAddressable() {
		return decisionRebuildLegacy, nil, nil
	}
	if snapshot.Dimensions != m.embedder.Dimensions() {
		return decisionRebuildDimension, nil, nil
	}
	return decisionAdopt, snapshot, nil
}

// AddChunks embeds the chunk contents and indexes the vectors under
// the chunk IDs. The index file is persisted before returning.
func (m *Manager) AddChunks(ctx context.Context, chunks []*models.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}
	texts := make([]string, len(chunks))
	ids := make([]int64, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Content
		ids[i] = c.ID
	}
	vectors, err := m.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return fmt.Errorf("failed to embed chunks: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.engine.Add(ids, vectors); err != nil {
		return err
	}
	return m.persistLocked()
}

// Remove drops the given chunk IDs from the index and persists. A nil
// or empty slice is a no-op and does not touch the file.
func (m *Manager) Remove(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.engine.Remove(ids); err != nil {
		return err
	}
	return m.persistLocked()
}

// Search embeds the query and returns up to k scored chunk IDs in
// descending similarity order. Padding sentinels are filtered out.
func (m *Manager) Search(ctx context.Context, query string, k int) ([]Hit, error) {
	vectors, err := m.embedder.EmbedBatch(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	hits, err := m.engine.Search(vectors[0], k)
	if err != nil {
		return nil, err
	}
	out := hits[:0]
	for _, h := range hits {
		if h.ID == NoResultID {
			continue
		}
		out = append(out, h)
	}
	return out, nil
}

// Rebuild discards the in-memory index and rebuilds it from the
// document store, re-embedding every chunk with the current model.
func (m *Manager) Rebuild(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	engine, err := NewFlatEngine(m.embedder.Dimensions())
	if err != nil {
		return err
	}
	m.engine = engine
	return m.rebuildLocked(ctx)
}

func (m *Manager) rebuildLocked(ctx context.Context) error {
	var (
		afterID int64
		total   int
	)
	for {
		chunks, err := m.source.ListChunksAfter(ctx, afterID, rebuildBatchSize)
		if err != nil {
			return fmt.Errorf("failed to list chunks: %w", err)
		}
		if len(chunks) == 0 {
			break
		}
		texts := make([]string, len(chunks))
		ids := make([]int64, len(chunks))
		for i, c := range chunks {
			texts[i] = c.Content
			ids[i] = c.ID
		}
		vectors, err := m.embedder.EmbedBatch(ctx, texts)
		if err != nil {
			return fmt.Errorf("failed to embed chunks: %w", err)
		}
		if err := m.engine.Add(ids, vectors); err != nil {
			return err
		}
		total += len(chunks)
		afterID = chunks[len(chunks)-1].ID
	}
	if err := m.persistLocked(); err != nil {
		return err
	}
	m.logger.Info("rebuilt vector index",
		zap.Int("chunks", total),
		zap.Int("dimensions", m.embedder.Dimensions()))
	return nil
}

// Size returns the number of indexed vectors.
func (m *Manager) Size() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.engine.Size()
}

// Dimensions returns the dimensionality of the live index.
func (m *Manager) Dimensions() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.engine.Dimensions()
}

func (m *Manager) persistLocked() error {
	if err := WriteEngineFile(m.indexPath, m.engine); err != nil {
		return fmt.Errorf("failed to persist vector index: %w", err)
	}
	meta := &Meta{
		Dimension: m.engine.Dimensions(),
		Model:     m.embedder.ModelID(),
	}
	if err := WriteMeta(m.metaPath, meta); err != nil {
		return err
	}
	return nil
}
