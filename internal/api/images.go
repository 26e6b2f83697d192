package api

import (
	"encoding/base64"
	"io"
	"net/http"
)

const maxImageBytes = 10 << 20 // 10 MB

// imageMIMEs are the content types the editor may embed in a card side.
var imageMIMEs = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/gif":  true,
	"image/webp": true,
}

// ImageHandler converts uploaded images into data-URIs for card embedding.
// Cards store images inline, so nothing is persisted server-side here.
type ImageHandler struct{}

// NewImageHandler creates an ImageHandler.
func NewImageHandler() *ImageHandler {
	return &ImageHandler{}
}

// Upload handles POST /images (multipart/form-data, field "file"). The
// response data-URI is what the editor assigns to a card's frontImage or
// backImage.
func (h *ImageHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImageBytes)

	if err := r.ParseMultipartForm(maxImageBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("file too large or invalid multipart"))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("missing 'file' field in multipart form"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("failed to read file"))
		return
	}

	mime := http.DetectContentType(data)
	if !imageMIMEs[mime] {
		writeJSON(w, http.StatusBadRequest, errorBody("unsupported image type: "+mime))
		return
	}

	writeJSON(w, http.StatusCreated, ImageUploadResponse{
		Filename: header.Filename,
		Size:     int64(len(data)),
		DataURI:  "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data),
	})
}
