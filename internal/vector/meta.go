package vector

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Meta is the sidecar descriptor persisted next to the index file. It
// records the embedding geometry the index was built with so that a
// restart can detect when the configured model no longer matches.
type Meta struct {
	Dimension int    `json:"dimension"`
	Model     string `json:"model"`
}

// ReadMeta loads the sidecar file. A missing file is reported via
// os.ErrNotExist so callers can distinguish "never written" from
// corruption.
func ReadMeta(path string) (*Meta, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m Meta
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse index meta %s: %w", path, err)
	}
	return &m, nil
}

// WriteMeta persists the sidecar atomically via a rename.
func WriteMeta(path string, m *Meta) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create meta directory: %w", err)
	}
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode index meta: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write index meta: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to replace index meta: %w", err)
	}
	return nil
}
