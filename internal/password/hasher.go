// Package password hashes and verifies user passwords with bcrypt.
package password

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const DefaultCost = 10

// MaxBytes is the longest password bcrypt hashes without truncation.
const MaxBytes = 72

type Hasher struct {
	cost int
}

// New returns a Hasher at the given bcrypt cost. Out-of-range costs fall
// back to DefaultCost.
func New(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}
	return &Hasher{cost: cost}
}

// Hash returns a salted bcrypt hash; two calls on the same input differ.
func (h *Hasher) Hash(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(b), nil
}

// Verify reports whether plain matches hash. A malformed hash is a mismatch,
// and so is any input longer than MaxBytes, since bcrypt would only compare
// its prefix.
func (h *Hasher) Verify(plain, hash string) bool {
	if len(plain) > MaxBytes {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
