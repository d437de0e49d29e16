// Package auth holds admin authentication: security-key verification and
// signed admin sessions.
package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"

	"github.com/kiranshivaraju/seatboard/pkg/models"
	"golang.org/x/crypto/bcrypt"
)

// ErrSecretTooLong is returned when a secret exceeds what bcrypt can hash.
var ErrSecretTooLong = errors.New("secret exceeds 72 bytes")

// Verifier decides whether a candidate security key grants admin access.
// Implementations must be safe for concurrent use.
type Verifier interface {
	Verify(ctx context.Context, candidate string) (bool, error)
}

// KeyLister is the slice of the store that KeyStoreVerifier needs.
type KeyLister interface {
	ListSecurityKeys(ctx context.Context) ([]*models.SecurityKey, error)
}

// KeyStoreVerifier accepts a candidate matching any stored bcrypt hash.
type KeyStoreVerifier struct {
	keys KeyLister
}

// NewKeyStoreVerifier creates a Verifier backed by stored security keys.
func NewKeyStoreVerifier(keys KeyLister) *KeyStoreVerifier {
	return &KeyStoreVerifier{keys: keys}
}

func (v *KeyStoreVerifier) Verify(ctx context.Context, candidate string) (bool, error) {
	if candidate == "" {
		return false, nil
	}

	keys, err := v.keys.ListSecurityKeys(ctx)
	if err != nil {
		return false, fmt.Errorf("list security keys: %w", err)
	}

	for _, key := range keys {
		if bcrypt.CompareHashAndPassword([]byte(key.SecretHash), []byte(candidate)) == nil {
			return true, nil
		}
	}
	return false, nil
}

// StaticVerifier accepts exactly one configured secret.
type StaticVerifier struct {
	secret []byte
}

// NewStaticVerifier creates a Verifier for a single secret. An empty secret
// never matches.
func NewStaticVerifier(secret string) *StaticVerifier {
	return &StaticVerifier{secret: []byte(secret)}
}

func (v *StaticVerifier) Verify(_ context.Context, candidate string) (bool, error) {
	if len(v.secret) == 0 {
		return false, nil
	}
	return subtle.ConstantTimeCompare(v.secret, []byte(candidate)) == 1, nil
}

// HashSecret returns the bcrypt hash stored for a security key.
func HashSecret(secret string) (string, error) {
	if len(secret) > 72 {
		return "", ErrSecretTooLong
	}
	h, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash secret: %w", err)
	}
	return string(h), nil
}
