package tickets

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/google/uuid"
)

// tokenLength is the size of every issued token: a random UUID's 32 hex
// characters followed by 16 fresh random bytes encoded as 32 more.
const tokenLength = 64

// GenerateToken produces a ticket token with 256 bits of entropy. Tokens are
// never derived from registration or event data.
func GenerateToken() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("failed to generate token uuid: %w", err)
	}

	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to read token randomness: %w", err)
	}

	return hex.EncodeToString(id[:]) + hex.EncodeToString(buf), nil
}
