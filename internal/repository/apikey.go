package repository

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashToken returns the hex sha256 of a bearer token. Only hashes are stored.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
