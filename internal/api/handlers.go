package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/starford/raido/internal/apperr"
	"github.com/starford/raido/internal/deckservice"
	"github.com/starford/raido/internal/models"
)

const maxBodyBytes = 50 << 20 // 50 MB; card trees carry inline data-URI images

// Handler holds API route handlers.
type Handler struct {
	svc *deckservice.Service
	// cleanupDelay is how long after streaming an archive its staging
	// directory is removed, tolerating slow consumers.
	cleanupDelay time.Duration
}

// NewHandler creates a new Handler.
func NewHandler(svc *deckservice.Service, cleanupDelay time.Duration) *Handler {
	return &Handler{svc: svc, cleanupDelay: cleanupDelay}
}

// ListDecks handles GET /decks. Returns the persisted section tree, or an
// empty array when nothing has been saved yet.
func (h *Handler) ListDecks(w http.ResponseWriter, r *http.Request) {
	sections, err := h.svc.Sections(r.Context())
	if err != nil {
		slog.Error("list decks failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("failed to read decks"))
		return
	}
	writeJSON(w, http.StatusOK, sections)
}

// SaveDecks handles POST /decks/save. The body is the full section tree.
func (h *Handler) SaveDecks(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var sections []models.Section
	if err := json.NewDecoder(r.Body).Decode(&sections); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if err := h.svc.SaveSections(r.Context(), sections); err != nil {
		if errors.Is(err, apperr.ErrValidation) {
			writeJSON(w, http.StatusBadRequest, errorBody("sections are required"))
			return
		}
		slog.Error("save decks failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("failed to save decks"))
		return
	}
	writeJSON(w, http.StatusOK, SaveDecksResponse{Success: true, Message: "Decks saved successfully"})
}

// ExportJSON handles GET /decks/export: downloads the raw data file.
func (h *Handler) ExportJSON(w http.ResponseWriter, r *http.Request) {
	data, err := h.svc.RawExport(r.Context())
	if err != nil {
		if errors.Is(err, apperr.ErrNoData) {
			writeJSON(w, http.StatusNotFound, errorBody("no decks to export"))
			return
		}
		slog.Error("export decks failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("failed to export decks"))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="decks-export.json"`)
	_, _ = w.Write(data)
}

// ExportAnki handles POST /decks/export-anki. On success the finished .apkg
// is streamed back; the staging directory is removed after a short delay so
// slow consumers still get the full file. Nothing is written to the response
// until the archive is completely built, so a failed export never leaks a
// partial package.
func (h *Handler) ExportAnki(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var req ExportAnkiRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}

	path, cleanup, err := h.svc.ExportAnki(r.Context(), req.Sections, req.SelectedDeckIDs, req.Filename)
	if err != nil {
		if errors.Is(err, apperr.ErrValidation) {
			// Rejections differ (empty selection, bad filename, missing
			// sections); the client gets the specific one.
			writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
			return
		}
		slog.Error("anki export failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("failed to export Anki deck"))
		return
	}
	defer time.AfterFunc(h.cleanupDelay, cleanup)

	f, err := os.Open(path)
	if err != nil {
		slog.Error("open archive failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("failed to export Anki deck"))
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		slog.Error("stat archive failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("failed to export Anki deck"))
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filepath.Base(path)+`"`)
	w.Header().Set("Content-Length", strconv.FormatInt(info.Size(), 10))
	if _, err := io.Copy(w, f); err != nil {
		// Headers are already sent; nothing to do but log.
		slog.Warn("archive stream interrupted", slog.String("error", err.Error()))
	}
}
