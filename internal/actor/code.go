package actor

import (
	"crypto/rand"
	"fmt"
	"strings"
)

const (
	// SessionCodeLength is the number of characters in a session code.
	SessionCodeLength = 6

	sessionCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// NewSessionCode returns a random 6-character uppercase alphanumeric code.
func NewSessionCode() (string, error) {
	// 252 is the largest multiple of 36 below 256; larger bytes are rejected
	// so every character is equally likely.
	const limit = 252
	code := make([]byte, 0, SessionCodeLength)
	buf := make([]byte, 16)
	for len(code) < SessionCodeLength {
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("failed to read random bytes: %w", err)
		}
		for _, b := range buf {
			if b >= limit {
				continue
			}
			code = append(code, sessionCodeAlphabet[int(b)%len(sessionCodeAlphabet)])
			if len(code) == SessionCodeLength {
				break
			}
		}
	}
	return string(code), nil
}

// ValidSessionCode reports whether code has the session code shape.
func ValidSessionCode(code string) bool {
	if len(code) != SessionCodeLength {
		return false
	}
	for i := 0; i < len(code); i++ {
		if !strings.ContainsRune(sessionCodeAlphabet, rune(code[i])) {
			return false
		}
	}
	return true
}

// NormalizeName maps a caller supplied session code onto an instance name.
func NormalizeName(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}
