package password

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCost is the bcrypt cost used in production.
const DefaultCost = 12

// bcrypt ignores everything past 72 bytes, so longer inputs are refused.
const maxLength = 72

var ErrTooLong = errors.New("password exceeds 72 bytes")

// Hasher hashes and verifies passwords with bcrypt.
type Hasher struct {
	cost int
}

// NewHasher returns a Hasher with the given cost, clamped to bcrypt's range.
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost {
		cost = bcrypt.MinCost
	}
	if cost > bcrypt.MaxCost {
		cost = bcrypt.MaxCost
	}
	return &Hasher{cost: cost}
}

// Hash hashes password using bcrypt
func (h *Hasher) Hash(password string) (string, error) {
	if len(password) > maxLength {
		return "", ErrTooLong
	}
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	return string(bytes), err
}

// Verify compares password with hash
func (h *Hasher) Verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
