package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

const objectIDBytes = 12

// NewObjectID returns a random 24-character lowercase hex identifier,
// matching the document-store id format the API contract exposes.
func NewObjectID() (string, error) {
	buf := make([]byte, objectIDBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate id: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// IsObjectID reports whether s is a well-formed 24-character hex identifier.
// Endpoints must reject malformed ids before touching the store.
func IsObjectID(s string) bool {
	if len(s) != objectIDBytes*2 {
		return false
	}
	for _, c := range s {
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}
