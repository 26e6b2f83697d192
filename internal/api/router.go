package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/starford/raido/internal/deckservice"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
// cleanupDelay is how long exported archives linger before staging cleanup.
func NewRouter(svc *deckservice.Service, authEnabled bool, token string, sseHandler http.Handler, cleanupDelay time.Duration) chi.Router {
	h := NewHandler(svc, cleanupDelay)
	ih := NewImageHandler()

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Deck persistence.
	r.Get("/decks", h.ListDecks)
	r.Post("/decks/save", h.SaveDecks)

	// Exports.
	r.Get("/decks/export", h.ExportJSON)
	r.Post("/decks/export-anki", h.ExportAnki)

	// Image upload for card embedding.
	r.Post("/images", ih.Upload)

	// SSE endpoint (protected by same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
