package anki

import (
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// WriteDB serializes the collection into a fresh SQLite database at path
// (the collection.anki2 payload). Failures creating the container or the col
// row are fatal; a failed note or card insert only drops that card from the
// export.
func (c *Collection) WriteDB(path string, logger *slog.Logger) error {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=OFF")
	if err != nil {
		return fmt.Errorf("anki: open collection db: %w", err)
	}
	defer db.Close()

	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("anki: create schema: %w", err)
	}

	nowSeconds := c.Created.Unix()
	nowMillis := c.Created.UnixMilli()

	if _, err := db.Exec(insertSQL("col", colColumns),
		colRowID,       // id
		nowSeconds,     // crt
		nowSeconds,     // mod
		nowMillis,      // scm
		schemaVersion,  // ver
		0,              // dty
		0,              // usn
		0,              // ls
		c.ConfJSON,     // conf
		c.ModelsJSON,   // models
		c.DecksJSON,    // decks
		c.DConfJSON,    // dconf
		"{}",           // tags
	); err != nil {
		return fmt.Errorf("anki: insert col row: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("anki: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	noteStmt, err := tx.Prepare(insertSQL("notes", noteColumns))
	if err != nil {
		return fmt.Errorf("anki: prepare note insert: %w", err)
	}
	defer noteStmt.Close()

	cardStmt, err := tx.Prepare(insertSQL("cards", cardColumns))
	if err != nil {
		return fmt.Errorf("anki: prepare card insert: %w", err)
	}
	defer cardStmt.Close()

	// Notes and cards are 1:1 and share an index; a failed note insert skips
	// its card as well so no orphan card rows are written.
	for i := range c.Notes {
		n := c.Notes[i]
		if _, err := noteStmt.Exec(
			n.ID, n.GUID, n.ModelID, n.Mod, 0, n.Tags,
			n.Fields, n.SortField, int64(n.Checksum), 0, "",
		); err != nil {
			logger.Warn("note insert failed, skipping card",
				slog.Int64("note_id", n.ID),
				slog.String("error", err.Error()))
			continue
		}

		card := c.Cards[i]
		if _, err := cardStmt.Exec(
			card.ID, card.NoteID, card.DeckID, 0, card.Mod, 0,
			0, 0, card.Due, 0, 0, 0, 0, 0, 0, 0, 0, "",
		); err != nil {
			logger.Warn("card insert failed, skipping card",
				slog.Int64("card_id", card.ID),
				slog.String("error", err.Error()))
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("anki: commit: %w", err)
	}
	return nil
}

func insertSQL(table string, columns []string) string {
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ")
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		table, strings.Join(columns, ", "), placeholders)
}
