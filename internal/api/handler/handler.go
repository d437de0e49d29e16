// Package handler implements the HTTP endpoints mounted by the api router.
package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/kiranshivaraju/seatboard/internal/api/response"
)

// Clock returns the current time. Handlers take one so tests can pin "now".
type Clock func() time.Time

func (c Clock) now() time.Time {
	if c == nil {
		return time.Now()
	}
	return c()
}

// positiveIntParam reads a positive integer URL parameter. On failure it
// writes a 400 and returns false.
func positiveIntParam(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	v, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || v <= 0 {
		response.Error(w, http.StatusBadRequest, "INVALID_REQUEST",
			name+" must be a positive integer", nil)
		return 0, false
	}
	return v, true
}

// queryInt parses an optional integer query parameter, returning def when it
// is absent.
func queryInt(r *http.Request, name string, def int) (int, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def, nil
	}
	return strconv.Atoi(v)
}
