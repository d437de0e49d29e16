package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/kiranshivaraju/seatboard/internal/store"
	"github.com/kiranshivaraju/seatboard/pkg/models"
)

// DefaultKeyLabel is the label given to the bootstrap security key.
const DefaultKeyLabel = "default"

// KeySeeder is the slice of the store needed to seed the bootstrap key.
type KeySeeder interface {
	CountSecurityKeys(ctx context.Context) (int, error)
	CreateSecurityKey(ctx context.Context, key *models.SecurityKey) error
}

// SeedDefaultKey stores secret under DefaultKeyLabel when no security key
// exists yet, so a fresh deployment can log in. It reports whether a key
// was created. An empty secret is a no-op.
func SeedDefaultKey(ctx context.Context, s KeySeeder, secret string) (bool, error) {
	if secret == "" {
		return false, nil
	}

	n, err := s.CountSecurityKeys(ctx)
	if err != nil {
		return false, fmt.Errorf("count security keys: %w", err)
	}
	if n > 0 {
		return false, nil
	}

	hash, err := HashSecret(secret)
	if err != nil {
		return false, err
	}

	err = s.CreateSecurityKey(ctx, &models.SecurityKey{
		ID:         uuid.New(),
		Label:      DefaultKeyLabel,
		SecretHash: hash,
		CreatedAt:  time.Now().UTC(),
	})
	// Another replica seeded it first.
	if errors.Is(err, store.ErrDuplicateKey) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("create default key: %w", err)
	}
	return true, nil
}
