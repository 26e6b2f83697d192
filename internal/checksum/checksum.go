// Package checksum provides the content digests used by Raido: a SHA-256 hex
// digest for change detection on the deck data file, and Anki's SHA-1 based
// field checksum used for duplicate-note detection.
package checksum

import (
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
)

// Sum returns the hex-encoded SHA-256 digest of data.
func Sum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// Field returns Anki's dedup checksum for a note's first field: the first
// 8 hex characters of SHA-1(text) parsed as a 32-bit unsigned integer.
// Field("") is 0xda39a3ee, the prefix of the empty SHA-1 digest.
func Field(text string) uint32 {
	h := sha1.Sum([]byte(text))
	// First 4 bytes are the first 8 hex characters.
	return uint32(h[0])<<24 | uint32(h[1])<<16 | uint32(h[2])<<8 | uint32(h[3])
}
