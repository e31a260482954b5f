package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
)

// opaqueTokenBytes is the entropy of an opaque token (256 bits).
const opaqueTokenBytes = 32

// NewOpaqueToken returns a cryptographically random, URL-safe opaque token.
// Used for refresh and email-verification tokens, which are not self-describing
// and must be looked up against stored state.
func NewOpaqueToken() (string, error) {
	buf := make([]byte, opaqueTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate opaque token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// HashToken returns the SHA-256 hex digest of the given token string.
// Only digests are persisted, so a leaked database snapshot does not expose
// usable tokens.
func HashToken(token string) string {
	h := sha256.Sum256([]byte(token))
	return hex.EncodeToString(h[:])
}
