// Package retrieve answers similarity queries against the document
// store and the vector index.
package retrieve

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/bunkodb/bunko/internal/storage"
	"github.com/bunkodb/bunko/internal/vector"
	"github.com/bunkodb/bunko/pkg/utils"
)

// DefaultCompletenessThreshold is the mean-score cutoff above which a
// query is considered answerable from the knowledge base.
const DefaultCompletenessThreshold = 0.4

// Result is one retrieved chunk with its similarity score.
type Result struct {
	ChunkID    int64   `json:"chunk_id"`
	DocumentID int64   `json:"document_id"`
	SourceID   string  `json:"source_id"`
	Position   int     `json:"position"`
	Content    string  `json:"content"`
	Score      float64 `json:"score"`
}

// Completeness reports how well the knowledge base covers a query.
type Completeness struct {
	Coverage float64  `json:"coverage"`
	Complete bool     `json:"complete"`
	K        int      `json:"k"`
	Results  []Result `json:"results"`
}

// Searcher is the slice of the vector index manager the retriever uses.
type Searcher interface {
	Search(ctx context.Context, query string, k int) ([]vector.Hit, error)
}

// Retriever embeds queries, searches the index, and hydrates the hits
// back into chunk content.
type Retriever struct {
	store     storage.Store
	index     Searcher
	threshold float64
	logger    *zap.Logger
}

// Option configures a Retriever.
type Option func(*Retriever)

// WithThreshold overrides the completeness threshold.
func WithThreshold(threshold float64) Option {
	return func(r *Retriever) { r.threshold = threshold }
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Retriever) { r.logger = logger }
}

// NewRetriever creates a retriever with the default completeness
// threshold.
func NewRetriever(store storage.Store, index Searcher, opts ...Option) *Retriever {
	r := &Retriever{
		store:     store,
		index:     index,
		threshold: DefaultCompletenessThreshold,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Search returns up to k chunks most similar to the query, in
// descending score order. Hits whose rows have vanished in the window
// between index search and hydration are dropped.
func (r *Retriever) Search(ctx context.Context, query string, k int) ([]Result, error) {
	hits, err := r.index.Search(ctx, query, k)
	if err != nil {
		return nil, fmt.Errorf("vector search failed: %w", err)
	}
	if len(hits) == 0 {
		return nil, nil
	}

	ids := make([]int64, len(hits))
	scoreByID := make(map[int64]float64, len(hits))
	for i, h := range hits {
		ids[i] = h.ID
		scoreByID[h.ID] = h.Score
	}
	rows, err := r.store.Hydrate(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to hydrate chunks: %w", err)
	}

	results := make([]Result, 0, len(rows))
	for _, row := range rows {
		sourceID := row.Document.SourceID
		if sourceID == "" {
			sourceID = fmt.Sprintf("doc-%d", row.Document.ID)
		}
		results = append(results, Result{
			ChunkID:    row.Chunk.ID,
			DocumentID: row.Document.ID,
			SourceID:   sourceID,
			Position:   row.Chunk.Position,
			Content:    row.Chunk.Content,
			Score:      scoreByID[row.Chunk.ID],
		})
	}
	r.logger.Debug("search completed",
		zap.Int("k", k),
		zap.Int("hits", len(hits)),
		zap.Int("results", len(results)))
	return results, nil
}

// Check retrieves for the query and reduces the scores to a coverage
// verdict. Coverage is the mean score of the returned results, 0 when
// nothing was retrieved.
func (r *Retriever) Check(ctx context.Context, query string, k int) (*Completeness, error) {
	results, err := r.Search(ctx, query, k)
	if err != nil {
		return nil, err
	}
	scores := make([]float64, len(results))
	for i, res := range results {
		scores[i] = res.Score
	}
	coverage := utils.MeanFloat64(scores)
	return &Completeness{
		Coverage: coverage,
		Complete: len(results) > 0 && coverage >= r.threshold,
		K:        k,
		Results:  results,
	}, nil
}
