package util

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// NewID returns a prefixed entity id, e.g. NewID("rcpt") -> "rcpt_1f3a9c0b24d8".
// Twelve hex chars of a v4 UUID are enough to never collide within one user's data.
func NewID(prefix string) string {
	h := strings.ReplaceAll(uuid.NewString(), "-", "")
	return prefix + "_" + h[:12]
}

// RandomHex generates n random bytes from crypto/rand and returns them hex
// encoded (2n chars). Used for session tokens, which must be unguessable.
func RandomHex(n int) (string, error) {
	if n <= 0 {
		return "", fmt.Errorf("length must be positive")
	}
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
