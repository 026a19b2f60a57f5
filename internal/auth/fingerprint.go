package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
)

// FingerprintToken returns a one-way hash of a raw refresh token suitable
// for storage. The raw value itself is never persisted.
func FingerprintToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

func CheckTokenFingerprint(raw, storedHash string) bool {
	fp := FingerprintToken(raw)
	return subtle.ConstantTimeCompare([]byte(fp), []byte(storedHash)) == 1
}
