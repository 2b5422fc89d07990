// Package auth provides the one-way credential hashing primitive used for
// passwords and security-question answers.
package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Hasher transforms secrets into salted one-way digests and verifies
// candidates against stored digests. Secrets are never compared in plaintext.
type Hasher interface {
	Hash(secret string) (string, error)
	Verify(secret, digest string) bool
}

type bcryptHasher struct {
	cost int
}

// NewBcryptHasher returns a bcrypt-backed Hasher. Costs outside the valid
// bcrypt range fall back to the default cost.
func NewBcryptHasher(cost int) Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &bcryptHasher{cost: cost}
}

func (h *bcryptHasher) Hash(secret string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(secret), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash secret: %w", err)
	}
	return string(digest), nil
}

func (h *bcryptHasher) Verify(secret, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(secret)) == nil
}
