// Package auth gates the manager tools behind a shared secret.
package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultSecret is the manager secret used when none is configured.
const DefaultSecret = "admin"

// ErrAccessDenied indicates the entered secret did not match.
var ErrAccessDenied = errors.New("incorrect password")

// Checker verifies a manager secret.
type Checker interface {
	Check(secret string) error
}

// Secret compares against a plain configured secret.
type Secret string

// Check implements Checker.
func (s Secret) Check(secret string) error {
	if subtle.ConstantTimeCompare([]byte(s), []byte(secret)) != 1 {
		return ErrAccessDenied
	}
	return nil
}

// BcryptHash compares against a bcrypt hash of the secret.
type BcryptHash string

// Check implements Checker.
func (h BcryptHash) Check(secret string) error {
	err := bcrypt.CompareHashAndPassword([]byte(h), []byte(secret))
	if err == nil {
		return nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ErrAccessDenied
	}
	return fmt.Errorf("checking manager secret: %w", err)
}

// Hash returns a bcrypt hash suitable for the secret_hash config key.
func Hash(secret string) (string, error) {
	if secret == "" {
		return "", errors.New("secret cannot be empty")
	}
	h, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hashing secret: %w", err)
	}
	return string(h), nil
}

// New picks a hash checker when hash is set, otherwise a plain secret,
// falling back to DefaultSecret.
func New(secret, hash string) Checker {
	if hash != "" {
		return BcryptHash(hash)
	}
	if secret == "" {
		secret = DefaultSecret
	}
	return Secret(secret)
}
