package retrieve

import (
	"context"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/bunkodb/bunko/internal/models"
	"github.com/bunkodb/bunko/internal/storage"
	"github.com/bunkodb/bunko/internal/vector"
)

type stubSearcher struct {
	hits []vector.Hit
	err  error
}

func (s *stubSearcher) Search(context.Context, string, int) ([]vector.Hit, error) {
	return s.hits, s.err
}

func seedStore(t *testing.T) (storage.Store, []*models.Chunk, *models.Document) {
	t.Helper()
	store, err := storage.NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	doc := &models.Document{
		SourceKind: models.SourceKindAPI,
		SHA256:     "abc123",
		NumChunks:  3,
	}
	if err := store.CreateDocument(context.Background(), doc); err != nil {
		t.Fatalf("CreateDocument: %v", err)
	}
	chunks, err := store.CreateChunks(context.Background(), doc.ID,
		[]string{"first chunk", "second chunk", "third chunk"})
	if err != nil {
		t.Fatalf("CreateChunks: %v", err)
	}
	return store, chunks, doc
}

func TestSearch_OrderedAndHydrated(t *testing.T) {
	store, chunks, doc := seedStore(t)
	searcher := &stubSearcher{hits: []vector.Hit{
		{ID: chunks[2].ID, Score: 0.9},
		{ID: chunks[0].ID, Score: 0.5},
	}}
	r := NewRetriever(store, searcher)

	results, err := r.Search(context.Background(), "query", 2)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].ChunkID != chunks[2].ID || results[0].Score != 0.9 {
		t.Errorf("first result = %+v, want chunk %d score 0.9", results[0], chunks[2].ID)
	}
	if results[0].Score < results[1].Score {
		t.Error("results not in descending score order")
	}
	if results[0].Content != "third chunk" {
		t.Errorf("content = %q, want %q", results[0].Content, "third chunk")
	}
	if results[0].DocumentID != doc.ID {
		t.Errorf("document ID = %d, want %d", results[0].DocumentID, doc.ID)
	}
	if results[0].Position != 2 {
		t.Errorf("position = %d, want 2", results[0].Position)
	}
}

func TestSearch_SynthesizesSourceID(t *testing.T) {
	store, chunks, doc := seedStore(t)
	searcher := &stubSearcher{hits: []vector.Hit{{ID: chunks[0].ID, Score: 0.8}}}
	r := NewRetriever(store, searcher)

	results, err := r.Search(context.Background(), "query", 1)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	want := "doc-" + strconv.FormatInt(doc.ID, 10)
	if results[0].SourceID != want {
		t.Errorf("source ID = %q, want %q", results[0].SourceID, want)
	}
}

func TestSearch_DropsVanishedChunks(t *testing.T) {
	store, chunks, _ := seedStore(t)
	// One hit points at a chunk ID that no longer exists.
	searcher := &stubSearcher{hits: []vector.Hit{
		{ID: chunks[0].ID, Score: 0.7},
		{ID: 99999, Score: 0.6},
	}}
	r := NewRetriever(store, searcher)

	results, err := r.Search(context.Background(), "query", 2)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected vanished chunk to be dropped, got %d results", len(results))
	}
	if results[0].ChunkID != chunks[0].ID {
		t.Errorf("surviving result = %+v", results[0])
	}
}

func TestSearch_EmptyIndex(t *testing.T) {
	store, _, _ := seedStore(t)
	r := NewRetriever(store, &stubSearcher{})
	results, err := r.Search(context.Background(), "query", 5)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected no results, got %d", len(results))
	}
}

func TestCheck_Coverage(t *testing.T) {
	store, chunks, _ := seedStore(t)
	searcher := &stubSearcher{hits: []vector.Hit{
		{ID: chunks[0].ID, Score: 0.6},
		{ID: chunks[1].ID, Score: 0.4},
	}}
	r := NewRetriever(store, searcher, WithThreshold(0.45))

	c, err := r.Check(context.Background(), "query", 2)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if c.Coverage < 0.49 || c.Coverage > 0.51 {
		t.Errorf("coverage = %f, want 0.5", c.Coverage)
	}
	if !c.Complete {
		t.Error("expected complete at coverage 0.5 with threshold 0.45")
	}
	if len(c.Results) != 2 {
		t.Errorf("expected results included, got %d", len(c.Results))
	}
}

func TestCheck_EmptyIsIncomplete(t *testing.T) {
	store, _, _ := seedStore(t)
	r := NewRetriever(store, &stubSearcher{})
	c, err := r.Check(context.Background(), "query", 5)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if c.Coverage != 0 {
		t.Errorf("coverage = %f, want 0", c.Coverage)
	}
	if c.Complete {
		t.Error("empty retrieval must not be complete")
	}
}
