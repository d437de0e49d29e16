package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/kiranshivaraju/seatboard/internal/api/response"
	"github.com/kiranshivaraju/seatboard/internal/dashboard"
)

// DashboardBuilder defines the interface the dashboard handler depends on.
type DashboardBuilder interface {
	Build(ctx context.Context, now time.Time) (*dashboard.Payload, error)
}

// NewDashboardHandler returns an http.HandlerFunc for GET /api/v1/dashboard/data.
func NewDashboardHandler(b DashboardBuilder, clock Clock) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, err := b.Build(r.Context(), clock.now())
		if err != nil {
			response.InternalError(w, r, err)
			return
		}
		response.JSON(w, payload)
	}
}
