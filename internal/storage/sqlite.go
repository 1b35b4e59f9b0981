// Package storage provides the SQLite implementation of the Store interface.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/bunkodb/bunko/internal/models"
	"github.com/bunkodb/bunko/internal/splitter"
)

// ErrNotFound is returned when a document or chunk does not exist.
var ErrNotFound = errors.New("not found")

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens or creates a SQLite database at dbPath and initializes
// the schema. Parent directories are created if they do not exist.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func initSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS documents (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		source_id TEXT,
		source_kind TEXT NOT NULL DEFAULT 'api',
		sha256 TEXT NOT NULL,
		num_chunks INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_documents_sha256 ON documents(sha256);
	CREATE INDEX IF NOT EXISTS idx_documents_source_id ON documents(source_id);

	CREATE TABLE IF NOT EXISTS chunks (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		document_id INTEGER NOT NULL,
		position INTEGER NOT NULL,
		content TEXT NOT NULL,
		token_count INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMP NOT NULL,
		FOREIGN KEY (document_id) REFERENCES documents(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_chunks_document_id ON chunks(document_id);
	CREATE INDEX IF NOT EXISTS idx_chunks_document_position ON chunks(document_id, position);
	`
	_, err := db.Exec(schema)
	return err
}

// CreateDocument inserts a document and fills in its assigned ID and timestamps.
func (s *SQLiteStore) CreateDocument(ctx context.Context, doc *models.Document) error {
	now := time.Now().UTC()
	doc.CreatedAt = now
	doc.UpdatedAt = now

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO documents (source_id, source_kind, sha256, num_chunks, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		nullableString(doc.SourceID), doc.SourceKind, doc.SHA256, doc.NumChunks, doc.CreatedAt, doc.UpdatedAt,
	)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("last insert id: %w", err)
	}
	doc.ID = id
	return nil
}

// GetDocument returns a document by ID.
func (s *SQLiteStore) GetDocument(ctx context.Context, id int64) (*models.Document, error) {
	return s.scanDocument(s.db.QueryRowContext(ctx,
		`SELECT id, source_id, source_kind, sha256, num_chunks, created_at, updated_at
		 FROM documents WHERE id = ?`, id))
}

// FindByHash returns the live document with the given content hash, or
// ErrNotFound if none exists.
func (s *SQLiteStore) FindByHash(ctx context.Context, sha256 string) (*models.Document, error) {
	return s.scanDocument(s.db.QueryRowContext(ctx,
		`SELECT id, source_id, source_kind, sha256, num_chunks, created_at, updated_at
		 FROM documents WHERE sha256 = ? LIMIT 1`, sha256))
}

// FindBySource returns the live document with the given source identifier, or
// ErrNotFound if none exists.
func (s *SQLiteStore) FindBySource(ctx context.Context, sourceID string) (*models.Document, error) {
	return s.scanDocument(s.db.QueryRowContext(ctx,
		`SELECT id, source_id, source_kind, sha256, num_chunks, created_at, updated_at
		 FROM documents WHERE source_id = ? LIMIT 1`, sourceID))
}

func (s *SQLiteStore) scanDocument(row *sql.Row) (*models.Document, error) {
	var doc models.Document
	var sourceID sql.NullString
	err := row.Scan(&doc.ID, &sourceID, &doc.SourceKind, &doc.SHA256, &doc.NumChunks, &doc.CreatedAt, &doc.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	doc.SourceID = sourceID.String
	return &doc, nil
}

// DeleteDocument removes a document; its chunks go with it via the cascade.
func (s *SQLiteStore) DeleteDocument(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, id)
	return err
}

// ListDocuments returns documents with offset and limit, newest first.
func (s *SQLiteStore) ListDocuments(ctx context.Context, offset, limit int) ([]*models.Document, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, source_id, source_kind, sha256, num_chunks, created_at, updated_at
		 FROM documents ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`,
		limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []*models.Document
	for rows.Next() {
		var doc models.Document
		var sourceID sql.NullString
		if err := rows.Scan(&doc.ID, &sourceID, &doc.SourceKind, &doc.SHA256, &doc.NumChunks, &doc.CreatedAt, &doc.UpdatedAt); err != nil {
			return nil, err
		}
		doc.SourceID = sourceID.String
		docs = append(docs, &doc)
	}
	return docs, rows.Err()
}

// CreateChunks inserts the given texts as chunks of documentID in a single
// transaction, assigning positions 0..N-1 and token-count estimates. The
// returned chunks carry their store-assigned IDs.
func (s *SQLiteStore) CreateChunks(ctx context.Context, documentID int64, texts []string) ([]*models.Chunk, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO chunks (document_id, position, content, token_count, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return nil, err
	}
	defer stmt.Close()

	now := time.Now().UTC()
	chunks := make([]*models.Chunk, 0, len(texts))
	for i, text := range texts {
		chunk := &models.Chunk{
			DocumentID: documentID,
			Position:   i,
			Content:    text,
			TokenCount: splitter.EstimateTokens(text),
			CreatedAt:  now,
		}
		res, err := stmt.ExecContext(ctx, chunk.DocumentID, chunk.Position, chunk.Content, chunk.TokenCount, chunk.CreatedAt)
		if err != nil {
			return nil, err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return nil, fmt.Errorf("last insert id: %w", err)
		}
		chunk.ID = id
		chunks = append(chunks, chunk)
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return chunks, nil
}

// ChunkIDsByDocument returns the IDs of all chunks of documentID in position order.
func (s *SQLiteStore) ChunkIDsByDocument(ctx context.Context, documentID int64) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id FROM chunks WHERE document_id = ? ORDER BY position`, documentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Hydrate returns chunk+document pairs for the given chunk IDs, preserving the
// caller's order. IDs that no longer exist are silently dropped; a chunk may
// have been deleted between a search and its hydration.
func (s *SQLiteStore) Hydrate(ctx context.Context, chunkIDs []int64) ([]*models.ChunkWithDocument, error) {
	if len(chunkIDs) == 0 {
		return nil, nil
	}
	placeholders := strings.TrimRight(strings.Repeat("?,", len(chunkIDs)), ",")
	args := make([]interface{}, len(chunkIDs))
	for i, id := range chunkIDs {
		args[i] = id
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT c.id, c.document_id, c.position, c.content, c.token_count, c.created_at,
		        d.id, d.source_id, d.source_kind, d.sha256, d.num_chunks, d.created_at, d.updated_at
		 FROM chunks c JOIN documents d ON c.document_id = d.id
		 WHERE c.id IN (`+placeholders+`)`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byID := make(map[int64]*models.ChunkWithDocument, len(chunkIDs))
	for rows.Next() {
		var chunk models.Chunk
		var doc models.Document
		var sourceID sql.NullString
		if err := rows.Scan(
			&chunk.ID, &chunk.DocumentID, &chunk.Position, &chunk.Content, &chunk.TokenCount, &chunk.CreatedAt,
			&doc.ID, &sourceID, &doc.SourceKind, &doc.SHA256, &doc.NumChunks, &doc.CreatedAt, &doc.UpdatedAt,
		); err != nil {
			return nil, err
		}
		doc.SourceID = sourceID.String
		byID[chunk.ID] = &models.ChunkWithDocument{Chunk: &chunk, Document: &doc}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]*models.ChunkWithDocument, 0, len(chunkIDs))
	for _, id := range chunkIDs {
		if pair, ok := byID[id]; ok {
			out = append(out, pair)
		}
	}
	return out, nil
}

// ListChunksAfter returns up to limit chunks with ID greater than afterID, in
// ascending ID order. Used to stream the whole chunk table during a rebuild.
func (s *SQLiteStore) ListChunksAfter(ctx context.Context, afterID int64, limit int) ([]*models.Chunk, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, document_id, position, content, token_count, created_at
		 FROM chunks WHERE id > ? ORDER BY id ASC LIMIT ?`, afterID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var chunks []*models.Chunk
	for rows.Next() {
		var chunk models.Chunk
		if err := rows.Scan(&chunk.ID, &chunk.DocumentID, &chunk.Position, &chunk.Content, &chunk.TokenCount, &chunk.CreatedAt); err != nil {
			return nil, err
		}
		chunks = append(chunks, &chunk)
	}
	return chunks, rows.Err()
}

// CountDocuments returns the total number of documents.
func (s *SQLiteStore) CountDocuments(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents`).Scan(&count)
	return count, err
}

// CountChunks returns the total number of chunks.
func (s *SQLiteStore) CountChunks(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM chunks`).Scan(&count)
	return count, err
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func nullableString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
