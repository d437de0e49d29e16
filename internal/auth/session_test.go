package auth_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/kiranshivaraju/seatboard/internal/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

// memCache is an in-memory cache.Cache that ignores TTLs.
type memCache struct {
	mu     sync.Mutex
	data   map[string][]byte
	getErr error
}

func newMemCache() *memCache { return &memCache{data: map[string][]byte{}} }

func (m *memCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}
func (m *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, false, m.getErr
	}
	v, ok := m.data[key]
	return v, ok, nil
}
func (m *memCache) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}
func (m *memCache) Ping(_ context.Context) error { return nil }
func (m *memCache) IncrWithExpiry(_ context.Context, _ string, _ time.Duration) (int64, error) {
	return 1, nil
}

func TestSessions_CreateValidateRevoke(t *testing.T) {
	c := newMemCache()
	s := auth.NewSessions(c, testSecret, time.Hour)
	ctx := context.Background()

	sess, err := s.Create(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, sess.ID)
	assert.NotEmpty(t, sess.Token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), sess.ExpiresAt, 5*time.Second)
	assert.Contains(t, c.data, "session:"+sess.ID.String())

	id, err := s.Validate(ctx, sess.Token)
	require.NoError(t, err)
	assert.Equal(t, sess.ID, id)

	require.NoError(t, s.Revoke(ctx, sess.ID))

	_, err = s.Validate(ctx, sess.Token)
	assert.ErrorIs(t, err, auth.ErrSessionNotFound)
}

func TestSessions_RejectsForeignSignature(t *testing.T) {
	c := newMemCache()
	issuer := auth.NewSessions(c, "ffffffffffffffffffffffffffffffff", time.Hour)
	verifier := auth.NewSessions(c, testSecret, time.Hour)

	sess, err := issuer.Create(context.Background())
	require.NoError(t, err)

	_, err = verifier.Validate(context.Background(), sess.Token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestSessions_RejectsGarbage(t *testing.T) {
	s := auth.NewSessions(newMemCache(), testSecret, time.Hour)

	for _, token := range []string{"", "not-a-jwt", "a.b.c"} {
		_, err := s.Validate(context.Background(), token)
		assert.ErrorIs(t, err, auth.ErrInvalidToken, "token %q", token)
	}
}

func TestSessions_RejectsExpiredToken(t *testing.T) {
	s := auth.NewSessions(newMemCache(), testSecret, -time.Minute)

	sess, err := s.Create(context.Background())
	require.NoError(t, err)

	_, err = s.Validate(context.Background(), sess.Token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestSessions_RejectsOtherSigningMethod(t *testing.T) {
	s := auth.NewSessions(newMemCache(), testSecret, time.Hour)

	claims := jwtlib.RegisteredClaims{
		ID:        uuid.NewString(),
		Issuer:    "seatboard",
		ExpiresAt: jwtlib.NewNumericDate(time.Now().Add(time.Hour)),
	}
	token, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS512, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = s.Validate(context.Background(), token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestSessions_CacheErrorIsNotInvalidToken(t *testing.T) {
	c := newMemCache()
	s := auth.NewSessions(c, testSecret, time.Hour)

	sess, err := s.Create(context.Background())
	require.NoError(t, err)

	c.getErr = errors.New("redis down")
	_, err = s.Validate(context.Background(), sess.Token)
	require.Error(t, err)
	assert.NotErrorIs(t, err, auth.ErrInvalidToken)
	assert.NotErrorIs(t, err, auth.ErrSessionNotFound)
}
