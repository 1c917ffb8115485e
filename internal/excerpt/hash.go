// Package excerpt provides the content-integrity fingerprint for cited
// excerpts. The hash is order-sensitive, stable across platforms and
// process restarts, and defined for the empty string. It verifies that a
// stored excerpt has not drifted from the text it was cut from; it is not
// a cryptographic security boundary.
package excerpt

import (
	"crypto/sha256"
	"encoding/hex"
)

// Hash returns the hex-encoded SHA-256 of the UTF-8 bytes of text.
func Hash(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// Verify reports whether hash matches the hash of text.
func Verify(text, hash string) bool {
	return Hash(text) == hash
}
