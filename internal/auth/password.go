// Package auth provides credential hashing and session token primitives.
package auth

import (
	"errors"
	"fmt"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// DefaultPasswordCost is the bcrypt work factor used for stored passwords.
const DefaultPasswordCost = 10

var (
	// ErrEmptyPassword indicates an attempt to hash an empty password.
	ErrEmptyPassword = errors.New("password cannot be empty")
	// ErrInvalidHash indicates the stored hash is not a bcrypt hash.
	ErrInvalidHash = errors.New("invalid hash format")
)

// PasswordHasher hashes and verifies user passwords.
type PasswordHasher struct {
	cost int

	dummyOnce sync.Once
	dummyHash []byte
}

// NewPasswordHasher creates a PasswordHasher with the given bcrypt cost.
// Costs outside bcrypt's accepted range fall back to DefaultPasswordCost.
func NewPasswordHasher(cost int) *PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultPasswordCost
	}
	return &PasswordHasher{cost: cost}
}

// Cost returns the configured work factor.
func (h *PasswordHasher) Cost() int {
	return h.cost
}

// Hash returns a salted bcrypt hash of the password.
func (h *PasswordHasher) Hash(password string) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// Verify checks if the password matches the hash.
// Returns (true, nil) on match, (false, nil) on mismatch, or an error on a malformed hash.
func (h *PasswordHasher) Verify(password, encodedHash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(encodedHash), []byte(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, ErrInvalidHash
	}
}

// Burn performs a comparison against a throwaway hash.
// Login calls it for unknown emails so both failure paths cost the same.
func (h *PasswordHasher) Burn(password string) {
	h.dummyOnce.Do(func() {
		h.dummyHash, _ = bcrypt.GenerateFromPassword([]byte("gatherly-dummy-password"), h.cost)
	})
	_ = bcrypt.CompareHashAndPassword(h.dummyHash, []byte(password))
}
