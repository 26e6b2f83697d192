package anki

import (
	"bytes"
	"encoding/base64"
	"testing"
)

func TestMediaIndicesFirstSeenOrder(t *testing.T) {
	m := NewMedia()
	if idx := m.Add("data:image/png;base64,AAAA"); idx != 0 {
		t.Errorf("first index = %d, want 0", idx)
	}
	if idx := m.Add("data:image/png;base64,BBBB"); idx != 1 {
		t.Errorf("second index = %d, want 1", idx)
	}
	if m.Len() != 2 {
		t.Errorf("len = %d, want 2", m.Len())
	}
}

func TestMediaFinalize(t *testing.T) {
	m := NewMedia()
	m.Add("data:image/png;base64,AAAA")

	files, manifest := m.Finalize(testLogger())

	want, _ := base64.StdEncoding.DecodeString("AAAA")
	if !bytes.Equal(files["0"], want) {
		t.Errorf("files[0] = %v, want %v", files["0"], want)
	}
	if manifest["0"] != "image-0.png" {
		t.Errorf("manifest = %v", manifest)
	}
	if len(files) != 1 || len(manifest) != 1 {
		t.Errorf("files/manifest sizes = %d/%d", len(files), len(manifest))
	}
}

func TestMediaFinalizeEmpty(t *testing.T) {
	files, manifest := NewMedia().Finalize(testLogger())
	if files == nil || manifest == nil {
		t.Fatal("Finalize returned nil maps")
	}
	if len(files) != 0 || len(manifest) != 0 {
		t.Errorf("expected empty maps, got %v / %v", files, manifest)
	}
}

func TestMediaFinalizeSkipsBadEntries(t *testing.T) {
	m := NewMedia()
	m.Add("data:image/png;base64,AAAA")
	m.Add("data:image/png;base64,!!!not-base64!!!")
	m.Add("data:image/png;base64,CCCC")

	files, manifest := m.Finalize(testLogger())

	// The bad entry is dropped from both maps; surviving entries keep their
	// originally assigned indices.
	if len(files) != 2 || len(manifest) != 2 {
		t.Fatalf("files/manifest sizes = %d/%d, want 2/2", len(files), len(manifest))
	}
	if _, ok := files["1"]; ok {
		t.Error("bad entry survived decoding")
	}
	if _, ok := files["2"]; !ok {
		t.Error("entry after the bad one lost its index")
	}
	for k := range manifest {
		if _, ok := files[k]; !ok {
			t.Errorf("manifest key %q has no file", k)
		}
	}
}

func TestDecodeDataURI(t *testing.T) {
	want := []byte("raido")
	encoded := base64.StdEncoding.EncodeToString(want)

	for _, in := range []string{
		"data:image/png;base64," + encoded,
		encoded, // bare base64, no prefix
	} {
		got, err := decodeDataURI(in)
		if err != nil {
			t.Fatalf("decodeDataURI(%q): %v", in, err)
		}
		if !bytes.Equal(got, want) {
			t.Errorf("decodeDataURI(%q) = %q", in, got)
		}
	}

	// Unpadded payloads are tolerated.
	unpadded := base64.RawStdEncoding.EncodeToString([]byte("ok"))
	if _, err := decodeDataURI("data:image/png;base64," + unpadded); err != nil {
		t.Errorf("unpadded payload rejected: %v", err)
	}
}
