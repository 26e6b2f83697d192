package deckservice

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/starford/raido/internal/anki"
	"github.com/starford/raido/internal/apperr"
	"github.com/starford/raido/internal/models"
	"github.com/starford/raido/internal/testutil"
)

func testService(t *testing.T) *Service {
	t.Helper()
	store := testutil.TestStore(t)
	_, exporter := testutil.TestExporter(t,
		anki.WithClock(func() time.Time { return time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC) }))
	return NewService(store, exporter)
}

func sampleTree() []models.Section {
	return []models.Section{{
		ID: "s1", Title: "Go",
		Decks: []models.Deck{{
			ID: "d1", Title: "Concurrency",
			Cards: []models.Card{
				{ID: "c1", DisplayID: "CON-01", Front: "What is a goroutine?", Back: "A lightweight thread", Category: "Runtime"},
			},
		}},
	}}
}

func TestSectionsEmptyWhenNoData(t *testing.T) {
	svc := testService(t)
	sections, err := svc.Sections(context.Background())
	if err != nil {
		t.Fatalf("Sections: %v", err)
	}
	if sections == nil || len(sections) != 0 {
		t.Fatalf("sections = %#v, want empty non-nil slice", sections)
	}
}

func TestSaveAndReload(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	if err := svc.SaveSections(ctx, sampleTree()); err != nil {
		t.Fatalf("SaveSections: %v", err)
	}
	sections, err := svc.Sections(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(sections) != 1 || sections[0].Decks[0].Title != "Concurrency" {
		t.Fatalf("round trip mismatch: %+v", sections)
	}
}

func TestSaveNilSections(t *testing.T) {
	svc := testService(t)
	if err := svc.SaveSections(context.Background(), nil); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("err = %v, want apperr.ErrValidation", err)
	}
}

func TestDeckLookup(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	if err := svc.SaveSections(ctx, sampleTree()); err != nil {
		t.Fatalf("SaveSections: %v", err)
	}

	deck, err := svc.Deck(ctx, "d1")
	if err != nil {
		t.Fatalf("Deck: %v", err)
	}
	if deck.Title != "Concurrency" || len(deck.Cards) != 1 {
		t.Errorf("deck = %+v", deck)
	}

	if _, err := svc.Deck(ctx, "missing"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestRawExportNoData(t *testing.T) {
	svc := testService(t)
	if _, err := svc.RawExport(context.Background()); !errors.Is(err, apperr.ErrNoData) {
		t.Fatalf("err = %v, want apperr.ErrNoData", err)
	}
}

func TestExportAnkiValidation(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()
	tree := sampleTree()

	cases := []struct {
		name     string
		sections []models.Section
		ids      []string
		filename string
	}{
		{"nil sections", nil, []string{"d1"}, "out"},
		{"empty selection", tree, nil, "out"},
		{"empty filename", tree, []string{"d1"}, ""},
		{"path traversal", tree, []string{"d1"}, "../escape"},
		{"nested path", tree, []string{"d1"}, "a/b"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, _, err := svc.ExportAnki(ctx, c.sections, c.ids, c.filename)
			if !errors.Is(err, apperr.ErrValidation) {
				t.Errorf("err = %v, want apperr.ErrValidation", err)
			}
		})
	}
}

func TestExportAnkiSuccess(t *testing.T) {
	svc := testService(t)

	path, cleanup, err := svc.ExportAnki(context.Background(), sampleTree(), []string{"d1"}, "go-cards.apkg")
	if err != nil {
		t.Fatalf("ExportAnki: %v", err)
	}
	defer cleanup()

	// A trailing .apkg in the request is not doubled up.
	if filepath.Base(path) != "go-cards.apkg" {
		t.Errorf("archive = %s", filepath.Base(path))
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("archive missing: %v", err)
	}

	cleanup()
	if _, err := os.Stat(filepath.Dir(path)); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("staging dir survived cleanup: %v", err)
	}
}
