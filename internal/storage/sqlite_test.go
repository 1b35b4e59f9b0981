package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/bunkodb/bunko/internal/models"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSQLiteStore_documents(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	doc := &models.Document{
		SourceID:   "file:///tmp/a.txt",
		SourceKind: models.SourceKindFile,
		SHA256:     "abc123",
		NumChunks:  2,
	}
	if err := store.CreateDocument(ctx, doc); err != nil {
		t.Fatal(err)
	}
	if doc.ID == 0 {
		t.Fatal("ID should be assigned")
	}
	if doc.CreatedAt.IsZero() {
		t.Error("CreatedAt should be set")
	}

	got, err := store.GetDocument(ctx, doc.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.SHA256 != "abc123" || got.SourceID != "file:///tmp/a.txt" {
		t.Errorf("got %+v", got)
	}

	byHash, err := store.FindByHash(ctx, "abc123")
	if err != nil {
		t.Fatal(err)
	}
	if byHash.ID != doc.ID {
		t.Errorf("FindByHash ID = %d, want %d", byHash.ID, doc.ID)
	}

	bySource, err := store.FindBySource(ctx, "file:///tmp/a.txt")
	if err != nil {
		t.Fatal(err)
	}
	if bySource.ID != doc.ID {
		t.Errorf("FindBySource ID = %d, want %d", bySource.ID, doc.ID)
	}

	if _, err := store.FindByHash(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("FindByHash miss: err = %v, want ErrNotFound", err)
	}
	if _, err := store.FindBySource(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("FindBySource miss: err = %v, want ErrNotFound", err)
	}

	docs, err := store.ListDocuments(ctx, 0, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 1 {
		t.Errorf("expected 1 doc, got %d", len(docs))
	}
}

func TestSQLiteStore_nilSourceID(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	doc := &models.Document{SourceKind: models.SourceKindAPI, SHA256: "h1"}
	if err := store.CreateDocument(ctx, doc); err != nil {
		t.Fatal(err)
	}
	got, err := store.GetDocument(ctx, doc.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.SourceID != "" {
		t.Errorf("SourceID = %q, want empty", got.SourceID)
	}
	// A NULL source_id must not match an empty-string lookup twice over:
	// documents without a source are invisible to FindBySource.
	if _, err := store.FindBySource(ctx, ""); !errors.Is(err, ErrNotFound) {
		t.Errorf("FindBySource(\"\") err = %v, want ErrNotFound", err)
	}
}

func TestSQLiteStore_chunks(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	doc := &models.Document{SourceKind: models.SourceKindAPI, SHA256: "h2", NumChunks: 3}
	if err := store.CreateDocument(ctx, doc); err != nil {
		t.Fatal(err)
	}

	chunks, err := store.CreateChunks(ctx, doc.ID, []string{"alpha beta", "gamma", "delta epsilon zeta"})
	if err != nil {
		t.Fatal(err)
	}
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}
	for i, ch := range chunks {
		if ch.ID == 0 {
			t.Errorf("chunk %d has no ID", i)
		}
		if ch.Position != i {
			t.Errorf("chunk %d position = %d", i, ch.Position)
		}
	}
	if chunks[0].TokenCount != 2 || chunks[1].TokenCount != 1 || chunks[2].TokenCount != 3 {
		t.Errorf("token counts = %d,%d,%d", chunks[0].TokenCount, chunks[1].TokenCount, chunks[2].TokenCount)
	}

	ids, err := store.ChunkIDsByDocument(ctx, doc.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 3 {
		t.Fatalf("expected 3 chunk IDs, got %d", len(ids))
	}

	count, err := store.CountChunks(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if count != 3 {
		t.Errorf("CountChunks = %d, want 3", count)
	}
}

func TestSQLiteStore_hydrate(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	doc := &models.Document{SourceID: "u1", SourceKind: models.SourceKindAPI, SHA256: "h3", NumChunks: 2}
	if err := store.CreateDocument(ctx, doc); err != nil {
		t.Fatal(err)
	}
	chunks, err := store.CreateChunks(ctx, doc.ID, []string{"first", "second"})
	if err != nil {
		t.Fatal(err)
	}

	// Order must follow the caller's IDs, not the table order, and unknown
	// IDs are dropped without error.
	pairs, err := store.Hydrate(ctx, []int64{chunks[1].ID, 99999, chunks[0].ID})
	if err != nil {
		t.Fatal(err)
	}
	if len(pairs) != 2 {
		t.Fatalf("expected 2 pairs, got %d", len(pairs))
	}
	if pairs[0].Chunk.Content != "second" || pairs[1].Chunk.Content != "first" {
		t.Errorf("order not preserved: %q, %q", pairs[0].Chunk.Content, pairs[1].Chunk.Content)
	}
	if pairs[0].Document.SourceID != "u1" {
		t.Errorf("document not joined: %+v", pairs[0].Document)
	}

	empty, err := store.Hydrate(ctx, nil)
	if err != nil {
		t.Fatal(err)
	}
	if empty != nil {
		t.Errorf("Hydrate(nil) = %v, want nil", empty)
	}
}

func TestSQLiteStore_deleteCascades(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	doc := &models.Document{SourceKind: models.SourceKindAPI, SHA256: "h4", NumChunks: 2}
	if err := store.CreateDocument(ctx, doc); err != nil {
		t.Fatal(err)
	}
	chunks, err := store.CreateChunks(ctx, doc.ID, []string{"one", "two"})
	if err != nil {
		t.Fatal(err)
	}

	if err := store.DeleteDocument(ctx, doc.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := store.GetDocument(ctx, doc.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("document still present after delete: %v", err)
	}
	pairs, err := store.Hydrate(ctx, []int64{chunks[0].ID, chunks[1].ID})
	if err != nil {
		t.Fatal(err)
	}
	if len(pairs) != 0 {
		t.Errorf("chunks survived the cascade: %d", len(pairs))
	}
	count, _ := store.CountChunks(ctx)
	if count != 0 {
		t.Errorf("CountChunks = %d after cascade", count)
	}
}

func TestSQLiteStore_listChunksAfter(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	doc := &models.Document{SourceKind: models.SourceKindAPI, SHA256: "h5", NumChunks: 5}
	if err := store.CreateDocument(ctx, doc); err != nil {
		t.Fatal(err)
	}
	if _, err := store.CreateChunks(ctx, doc.ID, []string{"a", "b", "c", "d", "e"}); err != nil {
		t.Fatal(err)
	}

	var seen []int64
	var after int64
	for {
		batch, err := store.ListChunksAfter(ctx, after, 2)
		if err != nil {
			t.Fatal(err)
		}
		if len(batch) == 0 {
			break
		}
		for _, ch := range batch {
			if ch.ID <= after {
				t.Fatalf("batch not strictly ascending: %d <= %d", ch.ID, after)
			}
			seen = append(seen, ch.ID)
		}
		after = batch[len(batch)-1].ID
	}
	if len(seen) != 5 {
		t.Errorf("streamed %d chunks, want 5", len(seen))
	}
}
