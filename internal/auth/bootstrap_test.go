package auth_test

import (
	"context"
	"errors"
	"testing"

	"github.com/kiranshivaraju/seatboard/internal/auth"
	"github.com/kiranshivaraju/seatboard/internal/store"
	"github.com/kiranshivaraju/seatboard/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type mockSeeder struct {
	count     int
	countErr  error
	createErr error
	created   []*models.SecurityKey
}

func (m *mockSeeder) CountSecurityKeys(_ context.Context) (int, error) {
	return m.count, m.countErr
}

func (m *mockSeeder) CreateSecurityKey(_ context.Context, key *models.SecurityKey) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.created = append(m.created, key)
	return nil
}

func TestSeedDefaultKey_EmptyStore(t *testing.T) {
	s := &mockSeeder{}

	created, err := auth.SeedDefaultKey(context.Background(), s, "bootstrap-secret")
	require.NoError(t, err)
	assert.True(t, created)
	require.Len(t, s.created, 1)

	key := s.created[0]
	assert.Equal(t, auth.DefaultKeyLabel, key.Label)
	assert.NotEqual(t, "bootstrap-secret", key.SecretHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(key.SecretHash), []byte("bootstrap-secret")))
	assert.False(t, key.CreatedAt.IsZero())
}

func TestSeedDefaultKey_SkipsWhenKeysExist(t *testing.T) {
	s := &mockSeeder{count: 2}

	created, err := auth.SeedDefaultKey(context.Background(), s, "bootstrap-secret")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Empty(t, s.created)
}

func TestSeedDefaultKey_EmptySecret(t *testing.T) {
	s := &mockSeeder{countErr: errors.New("must not be called")}

	created, err := auth.SeedDefaultKey(context.Background(), s, "")
	require.NoError(t, err)
	assert.False(t, created)
}

func TestSeedDefaultKey_LostRace(t *testing.T) {
	s := &mockSeeder{createErr: store.ErrDuplicateKey}

	created, err := auth.SeedDefaultKey(context.Background(), s, "bootstrap-secret")
	require.NoError(t, err)
	assert.False(t, created)
}

func TestSeedDefaultKey_Errors(t *testing.T) {
	_, err := auth.SeedDefaultKey(context.Background(), &mockSeeder{countErr: errors.New("conn reset")}, "s")
	assert.ErrorContains(t, err, "count security keys")

	_, err = auth.SeedDefaultKey(context.Background(), &mockSeeder{createErr: errors.New("conn reset")}, "s")
	assert.ErrorContains(t, err, "create default key")
}
