// Package storage defines durable persistence for documents and chunks.
package storage

import (
	"context"

	"github.com/bunkodb/bunko/internal/models"
)

// Store defines document and chunk persistence. Surrogate integer IDs are
// assigned by the store; callers never choose them.
type Store interface {
	// Document operations
	CreateDocument(ctx context.Context, doc *models.Document) error
	GetDocument(ctx context.Context, id int64) (*models.Document, error)
	FindByHash(ctx context.Context, sha256 string) (*models.Document, error)
	FindBySource(ctx context.Context, sourceID string) (*models.Document, error)
	DeleteDocument(ctx context.Context, id int64) error
	ListDocuments(ctx context.Context, offset, limit int) ([]*models.Document, error)

	// Chunk operations
	CreateChunks(ctx context.Context, documentID int64, texts []string) ([]*models.Chunk, error)
	ChunkIDsByDocument(ctx context.Context, documentID int64) ([]int64, error)
	Hydrate(ctx context.Context, chunkIDs []int64) ([]*models.ChunkWithDocument, error)
	ListChunksAfter(ctx context.Context, afterID int64, limit int) ([]*models.Chunk, error)

	// Stats
	CountDocuments(ctx context.Context) (int64, error)
	CountChunks(ctx context.Context) (int64, error)

	Close() error
}
