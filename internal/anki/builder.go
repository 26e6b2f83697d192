package anki

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strconv"
	"time"

	"github.com/starford/raido/internal/apperr"
	"github.com/starford/raido/internal/checksum"
	"github.com/starford/raido/internal/models"
)

// cardIDOffset separates card ids from note ids built on the same
// second-resolution base timestamp.
const cardIDOffset = 1_000_000

// Builder constructs a Collection from the editor's section tree. The clock
// and jitter source are injected so exports are reproducible under test.
type Builder struct {
	now    func() time.Time
	jitter func(n int) int // returns a value in [0, n)
	logger *slog.Logger
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithClock overrides the wall clock.
func WithClock(fn func() time.Time) BuilderOption {
	return func(b *Builder) { b.now = fn }
}

// WithJitter overrides the random jitter source used for deck and model ids.
func WithJitter(fn func(n int) int) BuilderOption {
	return func(b *Builder) { b.jitter = fn }
}

// NewBuilder creates a Builder with the given logger and options.
func NewBuilder(logger *slog.Logger, opts ...BuilderOption) *Builder {
	b := &Builder{
		now:    time.Now,
		jitter: rand.IntN,
		logger: logger,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// generateID produces an Anki-conventional id: the current epoch milliseconds
// plus random jitter, so ids allocated within one millisecond stay distinct.
// Collisions advance linearly from the jittered draw, which guarantees
// termination even when the jitter source is constant. Used only for the few,
// rare ids (decks, model); note and card ids are sequential instead (see Build).
func (b *Builder) generateID(nowMillis int64, taken map[int64]bool) int64 {
	id := nowMillis + int64(b.jitter(1000))
	for taken[id] {
		id++
	}
	taken[id] = true
	return id
}

// Build walks the section tree and constructs the relational collection for
// the selected decks. Decks whose id is not in selectedDeckIDs contribute
// nothing. An empty selection fails with apperr.ErrValidation before any
// state is created.
func (b *Builder) Build(sections []models.Section, selectedDeckIDs []string) (*Collection, error) {
	if len(selectedDeckIDs) == 0 {
		return nil, fmt.Errorf("anki: no decks selected for export: %w", apperr.ErrValidation)
	}

	selected := make(map[string]bool, len(selectedDeckIDs))
	for _, id := range selectedDeckIDs {
		selected[id] = true
	}

	now := b.now()
	nowMillis := now.UnixMilli()
	nowSeconds := now.Unix()

	taken := map[int64]bool{defaultDeckID: true}
	modelID := b.generateID(nowMillis, taken)

	col := &Collection{
		Created: now,
		ModelID: modelID,
		Media:   NewMedia(),
	}

	// Anki requires the built-in Default deck even when nothing lives in it.
	decks := map[string]deckJSON{
		strconv.FormatInt(defaultDeckID, 10): newDeck(defaultDeckID, "Default", "", nowSeconds, true),
	}
	col.Decks = append(col.Decks, DeckRow{ID: defaultDeckID, Name: "Default"})

	noteIndex := 0
	due := 0

	for _, section := range sections {
		for _, deck := range section.Decks {
			if !selected[deck.ID] {
				continue
			}

			deckID := b.generateID(nowMillis, taken)
			deckName := "Default::" + section.Title + "::" + deck.Title
			decks[strconv.FormatInt(deckID, 10)] = newDeck(deckID, deckName, deck.Title, nowSeconds, false)
			col.Decks = append(col.Decks, DeckRow{ID: deckID, Name: deckName})

			for _, card := range deck.Cards {
				note, row := b.encodeCard(col, card, deck.Title, deckID, modelID, nowSeconds, noteIndex, due)
				col.Notes = append(col.Notes, note)
				col.Cards = append(col.Cards, row)
				noteIndex++
				due++
			}
		}
	}

	var err error
	if col.ConfJSON, err = marshalBlob(newConf(modelID)); err != nil {
		return nil, err
	}
	modelMap := map[string]modelJSON{
		strconv.FormatInt(modelID, 10): newModel(modelID, nowSeconds),
	}
	if col.ModelsJSON, err = marshalBlob(modelMap); err != nil {
		return nil, err
	}
	if col.DecksJSON, err = marshalBlob(decks); err != nil {
		return nil, err
	}
	if col.DConfJSON, err = marshalBlob(map[string]dconfJSON{"1": newDConf(nowSeconds)}); err != nil {
		return nil, err
	}

	b.logger.Info("collection built",
		slog.Int("decks", len(col.Decks)-1),
		slog.Int("notes", len(col.Notes)),
		slog.Int("media", col.Media.Len()))

	return col, nil
}

// encodeCard produces the note and card rows for one flashcard. The front is
// projected to plain text for the sort field and dedup checksum; the back is
// kept as HTML. A data-URI back image is handed to the media collector and
// referenced from the back field by its numeric index. A front image, if
// present, is accepted but never embedded (long-standing export behavior).
func (b *Builder) encodeCard(col *Collection, card models.Card, deckTitle string, deckID, modelID, nowSeconds int64, noteIndex, due int) (Note, Card) {
	frontText := PlainText(card.Front)
	backHTML := card.Back

	if len(card.BackImage) > 5 && card.BackImage[:5] == "data:" {
		idx := col.Media.Add(card.BackImage)
		backHTML += fmt.Sprintf(`<br/><img src="%d" style="max-width:100%%;" />`, idx)
	}

	noteID := nowSeconds*1000 + int64(noteIndex)
	note := Note{
		ID:        noteID,
		GUID:      fmt.Sprintf("note-%d-%s", noteID, card.ID),
		ModelID:   modelID,
		Mod:       nowSeconds,
		Tags:      noteTags(card.Category, deckTitle),
		Fields:    frontText + FieldSeparator + backHTML,
		SortField: frontText,
		Checksum:  checksum.Field(frontText),
	}

	row := Card{
		ID:     noteID + cardIDOffset,
		NoteID: noteID,
		DeckID: deckID,
		Mod:    nowSeconds,
		Due:    due,
	}
	return note, row
}
