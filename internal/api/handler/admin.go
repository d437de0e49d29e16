package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	mw "github.com/kiranshivaraju/seatboard/internal/api/middleware"
	"github.com/kiranshivaraju/seatboard/internal/api/response"
	"github.com/kiranshivaraju/seatboard/internal/auth"
	"github.com/kiranshivaraju/seatboard/internal/metrics"
)

// SessionManager starts and ends admin sessions.
type SessionManager interface {
	Create(ctx context.Context) (*auth.Session, error)
	Revoke(ctx context.Context, id uuid.UUID) error
}

// CookieOptions controls the session cookie written on login.
type CookieOptions struct {
	Secure bool
}

func (o CookieOptions) session(s *auth.Session, now time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     mw.SessionCookie,
		Value:    s.Token,
		Path:     "/",
		Expires:  s.ExpiresAt,
		MaxAge:   int(s.ExpiresAt.Sub(now).Seconds()),
		HttpOnly: true,
		Secure:   o.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}

func (o CookieOptions) cleared() *http.Cookie {
	return &http.Cookie{
		Name:     mw.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   o.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}

type loginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// NewLoginHandler returns an http.HandlerFunc for POST /api/v1/admin/login.
// The submitted key is trimmed before verification.
func NewLoginHandler(v auth.Verifier, sessions SessionManager, cookies CookieOptions, m *metrics.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			SecurityKey string `json:"security_key"`
		}
		if err := response.Decode(r, &req); err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid JSON body", nil)
			return
		}

		ok, err := v.Verify(r.Context(), strings.TrimSpace(req.SecurityKey))
		if err != nil {
			m.Login("error")
			response.InternalError(w, r, err)
			return
		}
		if !ok {
			m.Login("rejected")
			slog.Warn("admin login rejected", "remote_addr", r.RemoteAddr)
			response.Error(w, http.StatusUnauthorized, "INVALID_SECURITY_KEY", "Invalid security key", nil)
			return
		}

		sess, err := sessions.Create(r.Context())
		if err != nil {
			m.Login("error")
			response.InternalError(w, r, err)
			return
		}
		m.Login("ok")
		slog.Info("admin session started", "session_id", sess.ID)

		http.SetCookie(w, cookies.session(sess, time.Now()))
		response.JSON(w, loginResponse{Token: sess.Token, ExpiresAt: sess.ExpiresAt.UTC()})
	}
}

// NewLogoutHandler returns an http.HandlerFunc for POST /api/v1/admin/logout.
// It must run behind RequireAdmin.
func NewLogoutHandler(sessions SessionManager, cookies CookieOptions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := mw.GetSessionID(r)
		if !ok {
			response.Error(w, http.StatusUnauthorized, "ADMIN_REQUIRED", "Admin session required", nil)
			return
		}

		if err := sessions.Revoke(r.Context(), id); err != nil {
			response.InternalError(w, r, err)
			return
		}
		slog.Info("admin session ended", "session_id", id)

		http.SetCookie(w, cookies.cleared())
		response.JSON(w, map[string]bool{"logged_out": true})
	}
}
