package anki

import (
	"archive/zip"
	"compress/flate"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
)

// dbEntryName is the fixed name of the collection snapshot inside an .apkg.
const dbEntryName = "collection.anki2"

// WritePackage writes a complete .apkg archive to w: the collection database,
// one entry per media file named by its bare numeric key, and the "media"
// JSON manifest (always present, {} when empty). The zip stream is fully
// flushed and closed before the function returns nil; a partial archive is
// never reported as success.
func WritePackage(w io.Writer, dbPath string, media map[string][]byte, manifest map[string]string) error {
	zw := zip.NewWriter(w)
	zw.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, flate.BestCompression)
	})

	dbFile, err := os.Open(dbPath)
	if err != nil {
		return fmt.Errorf("anki: open collection db: %w", err)
	}
	defer dbFile.Close()

	entry, err := zw.Create(dbEntryName)
	if err != nil {
		return fmt.Errorf("anki: create db entry: %w", err)
	}
	if _, err := io.Copy(entry, dbFile); err != nil {
		return fmt.Errorf("anki: write db entry: %w", err)
	}

	for _, key := range sortedMediaKeys(media) {
		entry, err := zw.Create(key)
		if err != nil {
			return fmt.Errorf("anki: create media entry %s: %w", key, err)
		}
		if _, err := entry.Write(media[key]); err != nil {
			return fmt.Errorf("anki: write media entry %s: %w", key, err)
		}
	}

	if manifest == nil {
		manifest = map[string]string{}
	}
	manifestJSON, err := json.Marshal(manifest)
	if err != nil {
		return fmt.Errorf("anki: marshal media manifest: %w", err)
	}
	entry, err = zw.Create("media")
	if err != nil {
		return fmt.Errorf("anki: create manifest entry: %w", err)
	}
	if _, err := entry.Write(manifestJSON); err != nil {
		return fmt.Errorf("anki: write manifest entry: %w", err)
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("anki: close archive: %w", err)
	}
	return nil
}

// sortedMediaKeys orders numeric keys by value so archive entries appear in
// index order.
func sortedMediaKeys(media map[string][]byte) []string {
	keys := make([]string, 0, len(media))
	for k := range media {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, _ := strconv.Atoi(keys[i])
		b, _ := strconv.Atoi(keys[j])
		return a < b
	})
	return keys
}
