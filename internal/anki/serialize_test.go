package anki

import (
	"database/sql"
	"path/filepath"
	"strings"
	"testing"

	"github.com/starford/raido/internal/checksum"
)

// writeTestDB builds a collection for the given decks and serializes it into
// a temp file, returning an open handle for inspection.
func writeTestDB(t *testing.T, deckIDs ...string) *sql.DB {
	t.Helper()
	col, err := testBuilder(t).Build(testSections(), deckIDs)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "collection.anki2")
	if err := col.WriteDB(path, testLogger()); err != nil {
		t.Fatalf("WriteDB: %v", err)
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestWriteDBColRow(t *testing.T) {
	db := writeTestDB(t, "deck-1")

	var id, ver int
	var conf, modelsBlob, decksBlob, dconf, tags string
	err := db.QueryRow(`SELECT id, ver, conf, models, decks, dconf, tags FROM col`).
		Scan(&id, &ver, &conf, &modelsBlob, &decksBlob, &dconf, &tags)
	if err != nil {
		t.Fatalf("col row: %v", err)
	}
	if id != 1 {
		t.Errorf("col id = %d, want 1", id)
	}
	if ver != 11 {
		t.Errorf("col ver = %d, want 11", ver)
	}
	if tags != "{}" {
		t.Errorf("col tags = %q, want {}", tags)
	}
	if !strings.Contains(modelsBlob, "Knowledge Visualizer") {
		t.Error("models blob missing note type")
	}
	if !strings.Contains(decksBlob, `"Default"`) {
		t.Error("decks blob missing built-in Default deck")
	}
	if !strings.HasPrefix(conf, "{") || !strings.HasPrefix(dconf, "{") {
		t.Error("conf/dconf blobs are not JSON objects")
	}

	var colRows int
	if err := db.QueryRow(`SELECT COUNT(*) FROM col`).Scan(&colRows); err != nil {
		t.Fatal(err)
	}
	if colRows != 1 {
		t.Errorf("col rows = %d, want exactly 1", colRows)
	}
}

func TestWriteDBNotesAndCards(t *testing.T) {
	db := writeTestDB(t, "deck-1")

	rows, err := db.Query(`SELECT id, flds, sfld, csum FROM notes ORDER BY id`)
	if err != nil {
		t.Fatal(err)
	}
	defer rows.Close()

	var count int
	seen := make(map[int64]bool)
	for rows.Next() {
		var id int64
		var flds, sfld string
		var csum int64
		if err := rows.Scan(&id, &flds, &sfld, &csum); err != nil {
			t.Fatal(err)
		}
		if seen[id] {
			t.Errorf("duplicate note id %d", id)
		}
		seen[id] = true
		if uint32(csum) != checksum.Field(sfld) {
			t.Errorf("note %d csum %#x does not match Field(%q)", id, csum, sfld)
		}
		if strings.Count(flds, FieldSeparator) != 1 {
			t.Errorf("note %d has malformed field string %q", id, flds)
		}
		count++
	}
	if err := rows.Err(); err != nil {
		t.Fatal(err)
	}
	if count != 2 {
		t.Errorf("notes = %d, want 2", count)
	}

	var cards, newCards int
	if err := db.QueryRow(`SELECT COUNT(*) FROM cards`).Scan(&cards); err != nil {
		t.Fatal(err)
	}
	if cards != 2 {
		t.Errorf("cards = %d, want 2", cards)
	}
	if err := db.QueryRow(`SELECT COUNT(*) FROM cards WHERE type = 0 AND queue = 0`).Scan(&newCards); err != nil {
		t.Fatal(err)
	}
	if newCards != cards {
		t.Errorf("%d of %d cards are not new/unscheduled", cards-newCards, cards)
	}

	// Freshly exported collections carry no history.
	for _, table := range []string{"revlog", "graves"} {
		var n int
		if err := db.QueryRow(`SELECT COUNT(*) FROM ` + table).Scan(&n); err != nil {
			t.Fatalf("%s: %v", table, err)
		}
		if n != 0 {
			t.Errorf("%s has %d rows, want 0", table, n)
		}
	}
}

// TestSchemaPin fails loudly if a column is added, removed, or reordered
// without the schema version being revisited. The column lists drive the
// INSERT statements, so drift here means an unreadable package.
func TestSchemaPin(t *testing.T) {
	if schemaVersion != 11 {
		t.Fatalf("schemaVersion = %d; the DDL and col JSON blobs are pinned to 11", schemaVersion)
	}

	db := writeTestDB(t, "deck-1")

	tableColumns := func(table string) []string {
		rows, err := db.Query(`SELECT name FROM pragma_table_info(?)`, table)
		if err != nil {
			t.Fatalf("pragma_table_info(%s): %v", table, err)
		}
		defer rows.Close()
		var cols []string
		for rows.Next() {
			var name string
			if err := rows.Scan(&name); err != nil {
				t.Fatal(err)
			}
			cols = append(cols, name)
		}
		return cols
	}

	pins := []struct {
		table string
		want  []string
	}{
		{"col", colColumns},
		{"notes", noteColumns},
		{"cards", cardColumns},
		{"revlog", []string{"id", "cid", "usn", "ease", "ivl", "lastIvl", "factor", "time", "type"}},
		{"graves", []string{"usn", "oid", "type"}},
	}
	for _, pin := range pins {
		got := tableColumns(pin.table)
		if len(got) != len(pin.want) {
			t.Errorf("%s has %d columns, want %d", pin.table, len(got), len(pin.want))
			continue
		}
		for i := range got {
			if got[i] != pin.want[i] {
				t.Errorf("%s column %d = %q, want %q", pin.table, i, got[i], pin.want[i])
			}
		}
	}
}
