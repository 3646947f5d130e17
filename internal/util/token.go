package util

import (
	"crypto/rand"
	"encoding/base64"
	"strings"
)

// resetTokenBytes gives 256 bits of entropy, encoded URL-safe without padding.
const resetTokenBytes = 32

func GenerateResetToken() (string, error) {
	buf := make([]byte, resetTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// GenerateAPIKey returns a prefixed random key so keys are recognizable in
// logs and support tickets.
func GenerateAPIKey() (string, error) {
	buf := make([]byte, resetTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	var b strings.Builder
	b.WriteString("sk-")
	b.WriteString(base64.RawURLEncoding.EncodeToString(buf))
	return b.String(), nil
}
