package repositories

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// fileCollection is one JSON document holding an entire entity collection.
// Every mutation rewrites the file wholesale; the mutex makes each
// read-modify-write atomic within the process.
type fileCollection struct {
	path string
	mu   sync.Mutex
}

func newFileCollection(dir, name string) (*fileCollection, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data dir %s: %w", dir, err)
	}
	return &fileCollection{path: filepath.Join(dir, name)}, nil
}

// load reads the collection into v. A missing file is treated as an empty
// collection.
func (c *fileCollection) load(v any) error {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read %s: %w", c.path, err)
	}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", c.path, err)
	}
	return nil
}

// save rewrites the collection file from v.
func (c *fileCollection) save(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", c.path, err)
	}
	if err := os.WriteFile(c.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", c.path, err)
	}
	return nil
}
