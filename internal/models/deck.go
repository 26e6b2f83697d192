// Package models defines the domain types for Raido.
package models

// Section is a top-level grouping (a "book") containing related decks.
// IDs are opaque strings owned by the editor frontend.
type Section struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Decks []Deck `json:"decks"`
}

// Deck is a named collection of cards inside a section.
type Deck struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Cards []Card `json:"cards"`
}

// Card is a single flashcard. Front and Back hold Markdown/HTML-ish text as
// produced by the editor. FrontImage and BackImage are optional data-URI
// encoded images, at most one per side.
type Card struct {
	ID         string `json:"id"`
	DisplayID  string `json:"displayId"`
	Front      string `json:"front"`
	Back       string `json:"back"`
	Category   string `json:"category"`
	FrontImage string `json:"frontImage,omitempty"`
	BackImage  string `json:"backImage,omitempty"`
}
