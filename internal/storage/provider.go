// Package storage persists the section/deck/card tree as a single JSON data
// file on the local file system.
package storage

import "github.com/starford/raido/internal/models"

// Provider is the interface for deck data persistence.
type Provider interface {
	// Load returns the persisted section tree. If no data file exists yet,
	// it returns an error wrapping os.ErrNotExist.
	Load() ([]models.Section, error)
	// Save atomically replaces the data file with the given tree.
	Save(sections []models.Section) error
	// Raw returns the data file bytes exactly as stored.
	Raw() ([]byte, error)
	// Checksum returns the SHA-256 hex digest of the current data file,
	// or the empty string when no data file exists.
	Checksum() (string, error)
	// Path returns the absolute path of the data file.
	Path() string
}
