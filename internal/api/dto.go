package api

import "github.com/starford/raido/internal/models"

// SaveDecksResponse acknowledges a successful save.
type SaveDecksResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ExportAnkiRequest is the request body for POST /decks/export-anki. The full
// section tree is passed each time, so export has no server-side state
// dependency beyond the request itself.
type ExportAnkiRequest struct {
	SelectedDeckIDs []string         `json:"selectedDeckIds"`
	Filename        string           `json:"filename"`
	Sections        []models.Section `json:"sections"`
}

// ImageUploadResponse is returned after converting an uploaded image to a
// data-URI for embedding in a card.
type ImageUploadResponse struct {
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
	DataURI  string `json:"dataUri"`
}
