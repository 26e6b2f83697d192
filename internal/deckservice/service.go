// Package deckservice coordinates deck persistence and Anki export.
package deckservice

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/starford/raido/internal/anki"
	"github.com/starford/raido/internal/apperr"
	"github.com/starford/raido/internal/models"
	"github.com/starford/raido/internal/storage"
)

// Service is the application service behind the deck API.
type Service struct {
	store    storage.Provider
	exporter *anki.Exporter
}

// NewService creates a deck service.
func NewService(store storage.Provider, exporter *anki.Exporter) *Service {
	return &Service{store: store, exporter: exporter}
}

// Sections returns the persisted section tree. A missing data file yields an
// empty tree, not an error: the editor seeds its own defaults client-side.
func (s *Service) Sections(_ context.Context) ([]models.Section, error) {
	sections, err := s.store.Load()
	if errors.Is(err, os.ErrNotExist) {
		return []models.Section{}, nil
	}
	if err != nil {
		return nil, err
	}
	return sections, nil
}

// SaveSections persists the full section tree.
func (s *Service) SaveSections(_ context.Context, sections []models.Section) error {
	if sections == nil {
		return fmt.Errorf("deckservice: sections are required: %w", apperr.ErrValidation)
	}
	return s.store.Save(sections)
}

// Deck returns the persisted deck with the given id.
func (s *Service) Deck(ctx context.Context, deckID string) (models.Deck, error) {
	sections, err := s.Sections(ctx)
	if err != nil {
		return models.Deck{}, err
	}
	for _, sec := range sections {
		for _, d := range sec.Decks {
			if d.ID == deckID {
				return d, nil
			}
		}
	}
	return models.Deck{}, fmt.Errorf("deckservice: deck %s: %w", deckID, apperr.ErrNotFound)
}

// RawExport returns the stored JSON exactly as persisted, for file download.
func (s *Service) RawExport(_ context.Context) ([]byte, error) {
	data, err := s.store.Raw()
	if errors.Is(err, os.ErrNotExist) {
		return nil, apperr.ErrNoData
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Checksum returns the current data file digest ("" when no data exists).
func (s *Service) Checksum(_ context.Context) (string, error) {
	return s.store.Checksum()
}

// ExportAnki validates the request and runs the full export pipeline. It
// returns the finished .apkg path and a cleanup function removing its staging
// directory; the caller invokes cleanup after the archive has been sent.
func (s *Service) ExportAnki(_ context.Context, sections []models.Section, selectedDeckIDs []string, filename string) (string, func(), error) {
	if sections == nil {
		return "", nil, fmt.Errorf("deckservice: sections are required: %w", apperr.ErrValidation)
	}
	if len(selectedDeckIDs) == 0 {
		return "", nil, fmt.Errorf("deckservice: no decks selected: %w", apperr.ErrValidation)
	}
	name, err := safeFilename(filename)
	if err != nil {
		return "", nil, err
	}
	return s.exporter.Export(sections, selectedDeckIDs, name)
}

// safeFilename validates the client-supplied archive name: a plain name with
// no path separators or traversal, since it is joined into a staging path.
func safeFilename(name string) (string, error) {
	name = strings.TrimSpace(strings.TrimSuffix(name, ".apkg"))
	if name == "" {
		return "", fmt.Errorf("deckservice: filename is required: %w", apperr.ErrValidation)
	}
	cleaned := filepath.Clean(name)
	if cleaned != filepath.Base(cleaned) || strings.Contains(cleaned, "..") {
		return "", fmt.Errorf("deckservice: invalid filename %q: %w", name, apperr.ErrValidation)
	}
	return cleaned, nil
}
