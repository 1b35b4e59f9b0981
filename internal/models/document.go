// Package models defines the core records for documents, chunks, and API payloads.
package models

import "time"

// Source kinds recorded on a document.
const (
	SourceKindAPI  = "api"
	SourceKindFile = "file"
)

// Document is one ingested source text, content-addressed by the SHA-256 of
// its cleaned full text. SourceID is an optional URI; at most one live
// document may carry a given SourceID, and no two live documents share a hash.
type Document struct {
	ID         int64     `json:"id"`
	SourceID   string    `json:"source_id,omitempty"`
	SourceKind string    `json:"source_kind"`
	SHA256     string    `json:"sha256"`
	NumChunks  int       `json:"num_chunks"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Chunk is one contiguous, possibly overlapping window of a document's text,
// the unit of embedding and retrieval. Positions within a document are
// contiguous starting at 0.
type Chunk struct {
	ID         int64     `json:"id"`
	DocumentID int64     `json:"document_id"`
	Position   int       `json:"position"`
	Content    string    `json:"content"`
	TokenCount int       `json:"token_count"`
	CreatedAt  time.Time `json:"created_at"`
}

// ChunkWithDocument pairs a chunk with its owning document, as returned by
// hydration after a vector search.
type ChunkWithDocument struct {
	Chunk    *Chunk
	Document *Document
}
