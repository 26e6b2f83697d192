package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/starford/raido/internal/checksum"
	"github.com/starford/raido/internal/models"
)

// File implements Provider backed by a single JSON file.
type File struct {
	path string // absolute path to the data file
}

// NewFile creates a File provider for the given data file path, creating the
// parent directory if needed. The file itself may not exist yet.
func NewFile(path string) (*File, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("storage: resolve path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return nil, fmt.Errorf("storage: create data dir: %w", err)
	}
	if info, err := os.Stat(abs); err == nil && info.IsDir() {
		return nil, fmt.Errorf("storage: data path is a directory: %s", abs)
	}
	return &File{path: abs}, nil
}

// Path returns the absolute path of the data file.
func (f *File) Path() string {
	return f.path
}

// Load reads and decodes the section tree from the data file.
func (f *File) Load() ([]models.Section, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("storage: read %s: %w", f.path, err)
	}
	var sections []models.Section
	if err := json.Unmarshal(data, &sections); err != nil {
		return nil, fmt.Errorf("storage: decode %s: %w", f.path, err)
	}
	return sections, nil
}

// Save atomically writes the section tree: tmp file → fsync → rename.
// Output is indented to keep the data file diffable and hand-editable.
func (f *File) Save(sections []models.Section) error {
	data, err := json.MarshalIndent(sections, "", "  ")
	if err != nil {
		return fmt.Errorf("storage: encode sections: %w", err)
	}

	dir := filepath.Dir(f.path)
	tmp, err := os.CreateTemp(dir, ".raido-tmp-*")
	if err != nil {
		return fmt.Errorf("storage: create temp: %w", err)
	}
	tmpName := tmp.Name()

	// Clean up on any failure path.
	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("storage: write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("storage: fsync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("storage: close temp: %w", err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		return fmt.Errorf("storage: rename: %w", err)
	}
	success = true
	return nil
}

// Raw returns the stored bytes without decoding them.
func (f *File) Raw() ([]byte, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("storage: read %s: %w", f.path, err)
	}
	return data, nil
}

// Checksum returns the SHA-256 digest of the data file, or "" when absent.
func (f *File) Checksum() (string, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("storage: read %s: %w", f.path, err)
	}
	return checksum.Sum(data), nil
}
