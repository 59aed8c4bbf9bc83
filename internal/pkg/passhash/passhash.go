// Package passhash implements the salted PBKDF2 password scheme used by
// the credential store. The stored form is a single opaque string: a
// 64-hex-character salt followed by the hex-encoded PBKDF2-SHA512 digest.
package passhash

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"

	"golang.org/x/crypto/pbkdf2"
)

const (
	saltLen    = 64 // hex characters
	iterations = 100_000
	keyLen     = 64 // digest bytes before hex encoding
)

// Hash derives a stored form for the given plaintext with a fresh random
// salt. Hashing the same password twice yields different stored forms.
func Hash(plaintext string) (string, error) {
	raw := make([]byte, 60)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	sum := sha256.Sum256(raw)
	salt := hex.EncodeToString(sum[:])

	digest := pbkdf2.Key([]byte(plaintext), []byte(salt), iterations, keyLen, sha512.New)
	return salt + hex.EncodeToString(digest), nil
}

// Verify reports whether plaintext matches the stored form. A malformed
// stored form (too short) yields false; Verify never returns an error.
func Verify(stored, plaintext string) bool {
	if len(stored) < saltLen {
		return false
	}
	salt := stored[:saltLen]
	want := stored[saltLen:]

	digest := pbkdf2.Key([]byte(plaintext), []byte(salt), iterations, keyLen, sha512.New)
	got := hex.EncodeToString(digest)

	if len(got) != len(want) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(got), []byte(want)) == 1
}
