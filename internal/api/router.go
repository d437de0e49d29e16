package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	mw "github.com/kiranshivaraju/seatboard/internal/api/middleware"
	"github.com/kiranshivaraju/seatboard/internal/api/response"
	"github.com/kiranshivaraju/seatboard/internal/metrics"
)

// Dependencies holds all handler and middleware dependencies for the router.
type Dependencies struct {
	AdminGuard     *mw.AdminGuard
	LoginRateLimit *mw.RateLimit
	AdminRateLimit *mw.RateLimit
	Metrics        *metrics.Metrics

	HealthHandler  http.HandlerFunc
	MetricsHandler http.Handler

	ListPostsHandler   http.HandlerFunc
	GetPostHandler     http.HandlerFunc
	CreatePostHandler  http.HandlerFunc
	UpdatePostHandler  http.HandlerFunc
	PublishPostHandler http.HandlerFunc
	DeletePostHandler  http.HandlerFunc

	LoginHandler     http.HandlerFunc
	LogoutHandler    http.HandlerFunc
	DashboardHandler http.HandlerFunc
	ListKeysHandler  http.HandlerFunc
	CreateKeyHandler http.HandlerFunc
	DeleteKeyHandler http.HandlerFunc
}

// NewRouter builds the Chi router with middleware stack and all routes.
func NewRouter(deps Dependencies) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(mw.Logger(deps.Metrics))
	r.Use(mw.Recovery)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		response.Error(w, http.StatusNotFound, "RESOURCE_NOT_FOUND", "Route not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		response.Error(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
	})

	// Public routes
	r.Get("/api/v1/health", orNotImplemented(deps.HealthHandler))
	if deps.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
	}

	r.Get("/api/v1/posts", orNotImplemented(deps.ListPostsHandler))
	r.Get("/api/v1/posts/{postID}", orNotImplemented(deps.GetPostHandler))

	r.With(deps.LoginRateLimit.Limit).
		Post("/api/v1/admin/login", orNotImplemented(deps.LoginHandler))

	// Admin routes
	r.Group(func(r chi.Router) {
		r.Use(deps.AdminGuard.RequireAdmin)
		r.Use(deps.AdminRateLimit.Limit)

		r.Post("/api/v1/admin/logout", orNotImplemented(deps.LogoutHandler))
		r.Get("/api/v1/dashboard/data", orNotImplemented(deps.DashboardHandler))

		r.Post("/api/v1/posts", orNotImplemented(deps.CreatePostHandler))
		r.Put("/api/v1/posts/{postID}", orNotImplemented(deps.UpdatePostHandler))
		r.Post("/api/v1/posts/{postID}/publish", orNotImplemented(deps.PublishPostHandler))
		r.Delete("/api/v1/posts/{postID}", orNotImplemented(deps.DeletePostHandler))

		r.Get("/api/v1/admin/keys", orNotImplemented(deps.ListKeysHandler))
		r.Post("/api/v1/admin/keys", orNotImplemented(deps.CreateKeyHandler))
		r.Delete("/api/v1/admin/keys/{label}", orNotImplemented(deps.DeleteKeyHandler))
	})

	return r
}

// orNotImplemented returns the handler if non-nil, or a 501 placeholder.
func orNotImplemented(h http.HandlerFunc) http.HandlerFunc {
	if h != nil {
		return h
	}
	return func(w http.ResponseWriter, r *http.Request) {
		response.Error(w, http.StatusNotImplemented, "NOT_IMPLEMENTED", "Endpoint not yet implemented", nil)
	}
}
