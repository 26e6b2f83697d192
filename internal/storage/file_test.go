package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/starford/raido/internal/models"
)

func testStore(t *testing.T) *File {
	t.Helper()
	dir := t.TempDir()
	f, err := NewFile(filepath.Join(dir, "decks.json"))
	if err != nil {
		t.Fatalf("NewFile: %v", err)
	}
	return f
}

func sampleSections() []models.Section {
	return []models.Section{
		{
			ID:    "sec-1",
			Title: "Databases",
			Decks: []models.Deck{
				{
					ID:    "deck-1",
					Title: "Basics",
					Cards: []models.Card{
						{ID: "c1", DisplayID: "BAS-01", Front: "What is ACID?", Back: "Atomicity...", Category: "Basics"},
						{ID: "c2", DisplayID: "BAS-02", Front: "What is WAL?", Back: "Write-ahead log", Category: "Engines"},
					},
				},
			},
		},
	}
}

func TestLoadMissingFile(t *testing.T) {
	f := testStore(t)
	_, err := f.Load()
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("Load on missing file: err = %v, want os.ErrNotExist", err)
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	f := testStore(t)
	want := sampleSections()
	if err := f.Save(want); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := f.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got) != 1 || got[0].Title != "Databases" {
		t.Fatalf("unexpected tree: %+v", got)
	}
	if len(got[0].Decks[0].Cards) != 2 {
		t.Fatalf("cards = %d, want 2", len(got[0].Decks[0].Cards))
	}
	if got[0].Decks[0].Cards[0].DisplayID != "BAS-01" {
		t.Errorf("displayId = %q", got[0].Decks[0].Cards[0].DisplayID)
	}
}

func TestSaveLeavesNoTempFiles(t *testing.T) {
	f := testStore(t)
	if err := f.Save(sampleSections()); err != nil {
		t.Fatalf("Save: %v", err)
	}
	entries, err := os.ReadDir(filepath.Dir(f.Path()))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "decks.json" {
		t.Fatalf("unexpected dir contents: %v", entries)
	}
}

func TestChecksumTracksContent(t *testing.T) {
	f := testStore(t)

	sum, err := f.Checksum()
	if err != nil {
		t.Fatalf("Checksum on missing file: %v", err)
	}
	if sum != "" {
		t.Fatalf("checksum of missing file = %q, want empty", sum)
	}

	if err := f.Save(sampleSections()); err != nil {
		t.Fatal(err)
	}
	first, err := f.Checksum()
	if err != nil || first == "" {
		t.Fatalf("Checksum after save: %q, %v", first, err)
	}

	changed := sampleSections()
	changed[0].Title = "Storage Engines"
	if err := f.Save(changed); err != nil {
		t.Fatal(err)
	}
	second, _ := f.Checksum()
	if second == first {
		t.Error("checksum unchanged after content change")
	}
}

func TestRawMatchesDisk(t *testing.T) {
	f := testStore(t)
	if err := f.Save(sampleSections()); err != nil {
		t.Fatal(err)
	}
	raw, err := f.Raw()
	if err != nil {
		t.Fatalf("Raw: %v", err)
	}
	disk, err := os.ReadFile(f.Path())
	if err != nil {
		t.Fatal(err)
	}
	if string(raw) != string(disk) {
		t.Error("Raw bytes differ from file contents")
	}
}
