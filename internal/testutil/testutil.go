// Package testutil provides shared test helpers for setting up deck stores and exporters.
package testutil

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/starford/raido/internal/anki"
	"github.com/starford/raido/internal/storage"
)

// TestStore creates a file-backed deck store under a temporary directory
// that is automatically cleaned up.
func TestStore(t *testing.T) storage.Provider {
	t.Helper()
	store, err := storage.NewFile(filepath.Join(t.TempDir(), "decks.json"))
	if err != nil {
		t.Fatal(err)
	}
	return store
}

// TestExporter creates an exporter whose staging directory lives under a
// temporary directory. The directory is returned so tests can assert on
// staging cleanup.
func TestExporter(t *testing.T, opts ...anki.BuilderOption) (string, *anki.Exporter) {
	t.Helper()
	tempDir := t.TempDir()
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	return tempDir, anki.NewExporter(tempDir, logger, opts...)
}
