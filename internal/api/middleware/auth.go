package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/kiranshivaraju/seatboard/internal/api/response"
	"github.com/kiranshivaraju/seatboard/internal/auth"
)

// SessionCookie carries the admin session token for browser clients.
const SessionCookie = "seatboard_session"

// SessionValidator resolves a session token to a live session ID.
type SessionValidator interface {
	Validate(ctx context.Context, token string) (uuid.UUID, error)
}

// AdminGuard rejects requests that do not carry a live admin session.
type AdminGuard struct {
	sessions SessionValidator
}

// NewAdminGuard creates a new AdminGuard middleware.
func NewAdminGuard(s SessionValidator) *AdminGuard {
	return &AdminGuard{sessions: s}
}

// RequireAdmin validates the session token from the Authorization header or
// the session cookie and sets the session ID in the request context.
func (g *AdminGuard) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := SessionToken(r)
		if token == "" {
			response.Error(w, http.StatusUnauthorized,
				"ADMIN_REQUIRED", "Admin session required", nil)
			return
		}

		id, err := g.sessions.Validate(r.Context(), token)
		switch {
		case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrSessionNotFound):
			response.Error(w, http.StatusUnauthorized,
				"ADMIN_REQUIRED", "Admin session required", nil)
			return
		case err != nil:
			response.InternalError(w, r, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(SetSessionID(r.Context(), id)))
	})
}

// SessionToken returns the Bearer token if present, otherwise the session
// cookie value.
func SessionToken(r *http.Request) string {
	if token := extractBearerToken(r); token != "" {
		return token
	}
	if c, err := r.Cookie(SessionCookie); err == nil {
		return strings.TrimSpace(c.Value)
	}
	return ""
}

func extractBearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
