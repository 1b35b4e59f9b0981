// Package vector provides the ANN engine and the manager that keeps it
// synchronized with the document store.
package vector

import "io"

// NoResultID is the sentinel ID engines use to pad search results shorter
// than k. Callers must filter it out before hydration.
const NoResultID int64 = -1

// Hit is a single search result: a chunk ID and its similarity score.
// Scores follow the engine's metric (higher is more similar) and are not
// normalized to a fixed range.
type Hit struct {
	ID    int64
	Score float64
}

// Engine is an ID-addressable vector index over caller-assigned int64 IDs.
// Implementations are not safe for concurrent use; the Manager serializes
// all access behind one lock. Encode writes the index in a format
// ReadEngineFile can decode, so the Manager can persist any engine.
type Engine interface {
	Dimensions() int
	IDAddressable() bool
	Size() int
	Add(ids []int64, vectors [][]float32) error
	Remove(ids []int64) error
	Search(query []float32, k int) ([]Hit, error)
	Encode(w io.Writer) error
}
