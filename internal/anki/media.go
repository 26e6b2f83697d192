package anki

import (
	"encoding/base64"
	"log/slog"
	"strconv"
	"strings"
)

// Media accumulates data-URI images discovered while walking cards. Indices
// are assigned in first-seen order across the whole export, starting at 0.
// Inside the archive each image is stored under its bare numeric key; the
// manifest maps that key to a display filename for Anki's bookkeeping.
type Media struct {
	uris []string
}

// NewMedia returns an empty media collector.
func NewMedia() *Media {
	return &Media{}
}

// Add records a data-URI image and returns its assigned index.
func (m *Media) Add(dataURI string) int {
	m.uris = append(m.uris, dataURI)
	return len(m.uris) - 1
}

// Len returns the number of collected entries.
func (m *Media) Len() int {
	return len(m.uris)
}

// Finalize decodes all collected entries and returns the raw files keyed by
// numeric index together with the matching manifest (key → display filename).
// A malformed entry is logged and dropped from both maps, so every manifest
// key always corresponds to exactly one archive file. Both maps are non-nil;
// an empty manifest serializes as {}.
func (m *Media) Finalize(logger *slog.Logger) (files map[string][]byte, manifest map[string]string) {
	files = make(map[string][]byte, len(m.uris))
	manifest = make(map[string]string, len(m.uris))
	for i, uri := range m.uris {
		data, err := decodeDataURI(uri)
		if err != nil {
			logger.Warn("media decode failed, skipping entry",
				slog.Int("index", i),
				slog.String("error", err.Error()))
			continue
		}
		key := strconv.Itoa(i)
		files[key] = data
		manifest[key] = "image-" + key + ".png"
	}
	return files, manifest
}

// decodeDataURI base64-decodes an image, stripping a leading
// "data:...;base64," prefix when present.
func decodeDataURI(uri string) ([]byte, error) {
	payload := uri
	if strings.HasPrefix(uri, "data:") {
		if i := strings.IndexByte(uri, ','); i >= 0 {
			payload = uri[i+1:]
		}
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		// Tolerate payloads without padding.
		if raw, rawErr := base64.RawStdEncoding.DecodeString(payload); rawErr == nil {
			return raw, nil
		}
		return nil, err
	}
	return data, nil
}
