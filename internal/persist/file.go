package persist

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/districtmap/districtboard/internal/store"
)

// FileAdapter persists the snapshot as an indented JSON file.
//
// The file's top-level shape is identical to the store snapshot
// (district → {status, color}), human-readable, and safe to delete: the next
// startup regenerates the all-normal default. Saves write to a temp file in
// the same directory and rename it over the target, so a crash mid-write
// leaves the previous copy intact.
type FileAdapter struct {
	path string
}

// NewFileAdapter creates a [FileAdapter] writing to the given path.
func NewFileAdapter(path string) *FileAdapter {
	return &FileAdapter{path: path}
}

// Path returns the snapshot file path.
func (f *FileAdapter) Path() string {
	return f.path
}

// Load reads and parses the snapshot file.
func (f *FileAdapter) Load(ctx context.Context) (store.Snapshot, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNoSnapshot, f.path)
		}
		return nil, fmt.Errorf("%w: reading %s: %v", ErrNoSnapshot, f.path, err)
	}

	var snap store.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		// corrupt is treated identically to absent
		return nil, fmt.Errorf("%w: parsing %s: %v", ErrNoSnapshot, f.path, err)
	}
	return snap, nil
}

// Save writes the snapshot, replacing the previous file.
func (f *FileAdapter) Save(ctx context.Context, snap store.Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(f.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(f.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp snapshot file: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("writing snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("closing snapshot file: %w", err)
	}

	if err := os.Rename(tmp.Name(), f.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replacing snapshot file: %w", err)
	}
	return nil
}
