package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/kiranshivaraju/seatboard/internal/cache"
)

const (
	sessionIssuer = "seatboard"
	sessionValue  = "admin"
)

var (
	ErrInvalidToken    = errors.New("invalid session token")
	ErrSessionNotFound = errors.New("session not found")
)

// Session is an authenticated admin session.
type Session struct {
	ID        uuid.UUID
	Token     string
	ExpiresAt time.Time
}

// Sessions issues HS256 session tokens and tracks live sessions in the cache
// so that logout takes effect before the token expires.
type Sessions struct {
	cache  cache.Cache
	secret []byte
	ttl    time.Duration
}

// NewSessions creates a session manager.
func NewSessions(c cache.Cache, secret string, ttl time.Duration) *Sessions {
	return &Sessions{cache: c, secret: []byte(secret), ttl: ttl}
}

// TTL returns the lifetime of new sessions.
func (s *Sessions) TTL() time.Duration {
	return s.ttl
}

// Create starts a new admin session.
func (s *Sessions) Create(ctx context.Context) (*Session, error) {
	id := uuid.New()
	now := time.Now()
	expiresAt := now.Add(s.ttl)

	claims := jwtlib.RegisteredClaims{
		ID:        id.String(),
		Issuer:    sessionIssuer,
		IssuedAt:  jwtlib.NewNumericDate(now),
		ExpiresAt: jwtlib.NewNumericDate(expiresAt),
	}
	token, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("sign session token: %w", err)
	}

	if err := s.cache.Set(ctx, cache.SessionKey(id), []byte(sessionValue), s.ttl); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}

	return &Session{ID: id, Token: token, ExpiresAt: expiresAt}, nil
}

// Validate checks the token signature and expiry and that the session has
// not been revoked. Returns the session ID.
func (s *Sessions) Validate(ctx context.Context, token string) (uuid.UUID, error) {
	id, err := s.parse(token)
	if err != nil {
		return uuid.Nil, err
	}

	_, found, err := s.cache.Get(ctx, cache.SessionKey(id))
	if err != nil {
		return uuid.Nil, fmt.Errorf("lookup session: %w", err)
	}
	if !found {
		return uuid.Nil, ErrSessionNotFound
	}
	return id, nil
}

// Revoke ends a session. Revoking an unknown session is not an error.
func (s *Sessions) Revoke(ctx context.Context, id uuid.UUID) error {
	if err := s.cache.Delete(ctx, cache.SessionKey(id)); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}

func (s *Sessions) parse(token string) (uuid.UUID, error) {
	claims := &jwtlib.RegisteredClaims{}
	parsed, err := jwtlib.ParseWithClaims(token, claims, func(*jwtlib.Token) (any, error) {
		return s.secret, nil
	},
		jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Name}),
		jwtlib.WithIssuer(sessionIssuer),
		jwtlib.WithExpirationRequired(),
	)
	if err != nil || !parsed.Valid {
		return uuid.Nil, ErrInvalidToken
	}

	id, err := uuid.Parse(claims.ID)
	if err != nil {
		return uuid.Nil, ErrInvalidToken
	}
	return id, nil
}
