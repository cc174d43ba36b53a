package hasher

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/Yuji-2251/expert-assistant/domain"
)

// New returns a domain.Hasher backed by SHA-256.
func New() domain.Hasher { return sha256Hasher{} }

type sha256Hasher struct{}

func (h sha256Hasher) Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
