package anki

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/starford/raido/internal/models"
)

// Exporter runs the full export pipeline: build collection → serialize
// SQLite snapshot → collect media → pack archive. Each call stages its work
// in a fresh directory under tempDir, so concurrent exports never share
// state.
type Exporter struct {
	tempDir string
	logger  *slog.Logger
	opts    []BuilderOption
}

// NewExporter creates an Exporter staging under tempDir. Builder options
// (clock, jitter) are passed through to each export's Builder.
func NewExporter(tempDir string, logger *slog.Logger, opts ...BuilderOption) *Exporter {
	return &Exporter{tempDir: tempDir, logger: logger, opts: opts}
}

// Export produces <filename>.apkg for the selected decks and returns the
// finished archive path plus a cleanup function that removes the whole
// staging directory. The archive is fully written and closed before Export
// returns; on error the staging directory is already removed and the cleanup
// function is nil.
func (e *Exporter) Export(sections []models.Section, selectedDeckIDs []string, filename string) (string, func(), error) {
	col, err := NewBuilder(e.logger, e.opts...).Build(sections, selectedDeckIDs)
	if err != nil {
		return "", nil, err
	}

	stageDir := filepath.Join(e.tempDir, "export-"+uuid.NewString())
	if err := os.MkdirAll(stageDir, 0o755); err != nil {
		return "", nil, fmt.Errorf("anki: create staging dir: %w", err)
	}
	cleanup := func() {
		if err := os.RemoveAll(stageDir); err != nil {
			e.logger.Warn("staging cleanup failed",
				slog.String("dir", stageDir),
				slog.String("error", err.Error()))
		}
	}

	// Any failure from here on must still clean up the staging directory.
	dbPath := filepath.Join(stageDir, dbEntryName)
	if err := col.WriteDB(dbPath, e.logger); err != nil {
		cleanup()
		return "", nil, err
	}

	media, manifest := col.Media.Finalize(e.logger)

	apkgPath := filepath.Join(stageDir, filename+".apkg")
	out, err := os.Create(apkgPath)
	if err != nil {
		cleanup()
		return "", nil, fmt.Errorf("anki: create archive file: %w", err)
	}

	if err := WritePackage(out, dbPath, media, manifest); err != nil {
		out.Close()
		cleanup()
		return "", nil, err
	}
	if err := out.Sync(); err != nil {
		out.Close()
		cleanup()
		return "", nil, fmt.Errorf("anki: sync archive: %w", err)
	}
	if err := out.Close(); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("anki: close archive file: %w", err)
	}

	e.logger.Info("export complete",
		slog.String("archive", apkgPath),
		slog.Int("notes", len(col.Notes)),
		slog.Int("media", len(media)))

	return apkgPath, cleanup, nil
}
