package vector

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
)

// FlatEngine is a brute-force inner-product engine. All stored vectors are
// expected to be L2-normalized, so inner product equals cosine similarity.
type FlatEngine struct {
	dimensions int
	ids        []int64
	vectors    [][]float32
}

var _ Engine = (*FlatEngine)(nil)

// NewFlatEngine creates an empty engine with the given dimension.
func NewFlatEngine(dimensions int) (*FlatEngine, error) {
	if dimensions <= 0 {
		return nil, fmt.Errorf("dimensions must be positive")
	}
	return &FlatEngine{dimensions: dimensions}, nil
}

// Dimensions returns the vector dimension.
func (e *FlatEngine) Dimensions() int { return e.dimensions }

// IDAddressable reports that the engine stores caller-assigned IDs.
func (e *FlatEngine) IDAddressable() bool { return true }

// Size returns the number of stored vectors.
func (e *FlatEngine) Size() int { return len(e.ids) }

// Add appends vectors under the given IDs.
func (e *FlatEngine) Add(ids []int64, vectors [][]float32) error {
	if len(ids) != len(vectors) {
		return fmt.Errorf("ids and vectors length mismatch: %d vs %d", len(ids), len(vectors))
	}
	for i, id := range ids {
		if len(vectors[i]) != e.dimensions {
			return fmt.Errorf("vector dimension mismatch: got %d, expected %d", len(vectors[i]), e.dimensions)
		}
		vec := make([]float32, e.dimensions)
		copy(vec, vectors[i])
		e.ids = append(e.ids, id)
		e.vectors = append(e.vectors, vec)
	}
	return nil
}

// Remove drops the entries with the given IDs. Unknown IDs are ignored.
func (e *FlatEngine) Remove(ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	removeSet := make(map[int64]bool, len(ids))
	for _, id := range ids {
		removeSet[id] = true
	}
	newIDs := e.ids[:0]
	newVectors := e.vectors[:0]
	for i, id := range e.ids {
		if !removeSet[id] {
			newIDs = append(newIDs, id)
			newVectors = append(newVectors, e.vectors[i])
		}
	}
	e.ids = newIDs
	e.vectors = newVectors
	return nil
}

// Search returns exactly k hits ordered by descending inner product. When
// fewer than k vectors are stored, the tail is padded with NoResultID.
func (e *FlatEngine) Search(query []float32, k int) ([]Hit, error) {
	if len(query) != e.dimensions {
		return nil, fmt.Errorf("query dimension mismatch: got %d, expected %d", len(query), e.dimensions)
	}
	if k <= 0 {
		return nil, nil
	}
	hits := make([]Hit, len(e.ids))
	for i, vec := range e.vectors {
		var dot float64
		for j := 0; j < e.dimensions; j++ {
			dot += float64(query[j] * vec[j])
		}
		hits[i] = Hit{ID: e.ids[i], Score: dot}
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })
	if len(hits) > k {
		hits = hits[:k]
	}
	for len(hits) < k {
		hits = append(hits, Hit{ID: NoResultID})
	}
	return hits, nil
}

// Serialized index format. v2 stores caller IDs next to each vector; v1 is
// the legacy positional layout without an ID map. The manager uses the
// version to decide whether a persisted file can be adopted.
const (
	formatMagic     = "BVIX"
	formatVersionV1 = 1
	formatVersionV2 = 2
)

// FileSnapshot is the decoded content of a persisted index file.
type FileSnapshot struct {
	Version    int
	Dimensions int
	IDs        []int64 // nil for v1 files
	Vectors    [][]float32
}

// IDAddressable reports whether the file carried an ID map.
func (s *FileSnapshot) IDAddressable() bool { return s.Version >= formatVersionV2 }

// NewFlatEngineFromSnapshot builds an engine from an ID-addressable snapshot.
func NewFlatEngineFromSnapshot(snap *FileSnapshot) (*FlatEngine, error) {
	if !snap.IDAddressable() {
		return nil, fmt.Errorf("snapshot has no ID map (format v%d)", snap.Version)
	}
	e, err := NewFlatEngine(snap.Dimensions)
	if err != nil {
		return nil, err
	}
	e.ids = snap.IDs
	e.vectors = snap.Vectors
	return e, nil
}

// Encode writes the engine in the v2 format.
func (e *FlatEngine) Encode(w io.Writer) error {
	if _, err := w.Write([]byte(formatMagic)); err != nil {
		return fmt.Errorf("write magic: %w", err)
	}
	header := []interface{}{uint8(formatVersionV2), uint32(e.dimensions), uint32(len(e.ids))}
	for _, v := range header {
		if err := binary.Write(w, binary.LittleEndian, v); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}
	for i, id := range e.ids {
		if err := binary.Write(w, binary.LittleEndian, id); err != nil {
			return fmt.Errorf("write id: %w", err)
		}
		if _, err := w.Write(float32SliceToBytes(e.vectors[i])); err != nil {
			return fmt.Errorf("write vector: %w", err)
		}
	}
	return nil
}

// WriteEngineFile persists the engine to path. The parent directory is
// created if needed.
func WriteEngineFile(path string, e Engine) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create index dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create index file: %w", err)
	}
	defer f.Close()
	return e.Encode(f)
}

// ReadEngineFile decodes the index file at path. Returns os.ErrNotExist
// (wrapped) when no file is present.
func ReadEngineFile(path string) (*FileSnapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open index file: %w", err)
	}
	defer f.Close()

	magic := make([]byte, len(formatMagic))
	if _, err := io.ReadFull(f, magic); err != nil {
		return nil, fmt.Errorf("read magic: %w", err)
	}
	if string(magic) != formatMagic {
		return nil, fmt.Errorf("not an index file: bad magic %q", magic)
	}
	var version uint8
	var dim, count uint32
	if err := binary.Read(f, binary.LittleEndian, &version); err != nil {
		return nil, fmt.Errorf("read version: %w", err)
	}
	if version != formatVersionV1 && version != formatVersionV2 {
		return nil, fmt.Errorf("unsupported index format version %d", version)
	}
	if err := binary.Read(f, binary.LittleEndian, &dim); err != nil {
		return nil, fmt.Errorf("read dimensions: %w", err)
	}
	if err := binary.Read(f, binary.LittleEndian, &count); err != nil {
		return nil, fmt.Errorf("read count: %w", err)
	}

	snap := &FileSnapshot{
		Version:    int(version),
		Dimensions: int(dim),
		Vectors:    make([][]float32, 0, count),
	}
	if version == formatVersionV2 {
		snap.IDs = make([]int64, 0, count)
	}
	buf := make([]byte, int(dim)*4)
	for i := uint32(0); i < count; i++ {
		if version == formatVersionV2 {
			var id int64
			if err := binary.Read(f, binary.LittleEndian, &id); err != nil {
				return nil, fmt.Errorf("read id: %w", err)
			}
			snap.IDs = append(snap.IDs, id)
		}
		if _, err := io.ReadFull(f, buf); err != nil {
			return nil, fmt.Errorf("read vector: %w", err)
		}
		snap.Vectors = append(snap.Vectors, bytesToFloat32Slice(buf))
	}
	return snap, nil
}

func float32SliceToBytes(s []float32) []byte {
	const size = 4
	out := make([]byte, len(s)*size)
	for i, v := range s {
		binary.LittleEndian.PutUint32(out[i*size:(i+1)*size], math.Float32bits(v))
	}
	return out
}

func bytesToFloat32Slice(b []byte) []float32 {
	const size = 4
	out := make([]float32, len(b)/size)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*size : (i+1)*size]))
	}
	return out
}
