package anki

import (
	"archive/zip"
	"bytes"
	"encoding/base64"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func writeTempDB(t *testing.T, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "collection.anki2")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func readArchive(t *testing.T, data []byte) map[string][]byte {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("zip reader: %v", err)
	}
	out := make(map[string][]byte, len(zr.File))
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("open %s: %v", f.Name, err)
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("read %s: %v", f.Name, err)
		}
		out[f.Name] = content
	}
	return out
}

func TestWritePackageNoMedia(t *testing.T) {
	dbPath := writeTempDB(t, []byte("sqlite-bytes"))

	var buf bytes.Buffer
	if err := WritePackage(&buf, dbPath, nil, map[string]string{}); err != nil {
		t.Fatalf("WritePackage: %v", err)
	}

	entries := readArchive(t, buf.Bytes())
	if len(entries) != 2 {
		t.Fatalf("archive entries = %d, want 2 (db + manifest)", len(entries))
	}
	if !bytes.Equal(entries["collection.anki2"], []byte("sqlite-bytes")) {
		t.Error("collection.anki2 content mismatch")
	}
	// The manifest is always present, {} when no media exists.
	if string(entries["media"]) != "{}" {
		t.Errorf("manifest = %q, want {}", entries["media"])
	}
}

func TestWritePackageManifestArchiveBijection(t *testing.T) {
	dbPath := writeTempDB(t, []byte("db"))

	imageA, _ := base64.StdEncoding.DecodeString("AAAA")
	imageB := []byte{0x89, 0x50, 0x4e, 0x47}
	media := map[string][]byte{"0": imageA, "1": imageB}
	manifest := map[string]string{"0": "image-0.png", "1": "image-1.png"}

	var buf bytes.Buffer
	if err := WritePackage(&buf, dbPath, media, manifest); err != nil {
		t.Fatal(err)
	}

	entries := readArchive(t, buf.Bytes())

	var decoded map[string]string
	if err := json.Unmarshal(entries["media"], &decoded); err != nil {
		t.Fatalf("manifest: %v", err)
	}

	// Every manifest key has exactly one archive entry and vice versa. Media
	// lives under its numeric key; the display filename exists only in the
	// manifest.
	for key := range decoded {
		if _, ok := entries[key]; !ok {
			t.Errorf("manifest key %q has no archive entry", key)
		}
	}
	for name := range entries {
		if name == "collection.anki2" || name == "media" {
			continue
		}
		if _, ok := decoded[name]; !ok {
			t.Errorf("archive entry %q not in manifest", name)
		}
	}
	if _, ok := entries["image-0.png"]; ok {
		t.Error("media stored under display filename instead of numeric key")
	}
	if !bytes.Equal(entries["0"], imageA) {
		t.Errorf("entry 0 = %v, want %v", entries["0"], imageA)
	}
	if !bytes.Equal(entries["1"], imageB) {
		t.Error("entry 1 content mismatch")
	}
}

func TestWritePackageMissingDB(t *testing.T) {
	var buf bytes.Buffer
	err := WritePackage(&buf, filepath.Join(t.TempDir(), "absent.anki2"), nil, nil)
	if err == nil {
		t.Fatal("expected error for missing collection db")
	}
}
