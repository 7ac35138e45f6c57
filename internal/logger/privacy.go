package logger

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"strings"
)

var hashSalt string

// InitHashSalt loads the log hashing salt from the environment.
// In production set LOG_HASH_SALT.
func InitHashSalt() {
	hashSalt = os.Getenv("LOG_HASH_SALT")
	if hashSalt == "" {
		hashSalt = "default-salt-change-in-production"
	}
}

// HashUserID creates a privacy-preserving hash of a user ID so turns can be
// correlated in logs without exposing the actual Telegram ID.
func HashUserID(userID int64) string {
	if hashSalt == "" {
		InitHashSalt()
	}
	data := fmt.Sprintf("%d:%s", userID, hashSalt)
	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])[:8]
}

// RedactMessage redacts a user message but keeps length information.
// Ledger notes and free-text input are sensitive; never log them verbatim.
func RedactMessage(text string) string {
	if text == "" {
		return "<empty>"
	}
	words := strings.Fields(text)
	return fmt.Sprintf("<redacted: %d words, %d chars>", len(words), len(text))
}
