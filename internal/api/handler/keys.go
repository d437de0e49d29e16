package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/kiranshivaraju/seatboard/internal/api/response"
	"github.com/kiranshivaraju/seatboard/internal/auth"
	"github.com/kiranshivaraju/seatboard/internal/store"
	"github.com/kiranshivaraju/seatboard/pkg/models"
)

const maxLabelLen = 50

// KeyStore is the slice of store.Store the security key handlers use.
type KeyStore interface {
	CreateSecurityKey(ctx context.Context, key *models.SecurityKey) error
	ListSecurityKeys(ctx context.Context) ([]*models.SecurityKey, error)
	DeleteSecurityKey(ctx context.Context, label string) error
}

// NewListKeysHandler returns an http.HandlerFunc for GET /api/v1/admin/keys.
// Secrets are never returned.
func NewListKeysHandler(s KeyStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		keys, err := s.ListSecurityKeys(r.Context())
		if err != nil {
			response.InternalError(w, r, err)
			return
		}
		if keys == nil {
			keys = []*models.SecurityKey{}
		}
		response.JSON(w, keys)
	}
}

// NewCreateKeyHandler returns an http.HandlerFunc for POST /api/v1/admin/keys.
func NewCreateKeyHandler(s KeyStore, clock Clock) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Label  string `json:"label"`
			Secret string `json:"secret"`
		}
		if err := response.Decode(r, &req); err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid JSON body", nil)
			return
		}

		label := strings.TrimSpace(req.Label)
		secret := strings.TrimSpace(req.Secret)
		switch {
		case label == "":
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "label is required", nil)
			return
		case utf8.RuneCountInString(label) > maxLabelLen:
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "label must be at most 50 characters", nil)
			return
		case secret == "":
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "secret is required", nil)
			return
		}

		hash, err := auth.HashSecret(secret)
		if errors.Is(err, auth.ErrSecretTooLong) {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "secret must be at most 72 bytes", nil)
			return
		}
		if err != nil {
			response.InternalError(w, r, err)
			return
		}

		key := &models.SecurityKey{
			ID:         uuid.New(),
			Label:      label,
			SecretHash: hash,
			CreatedAt:  clock.now().UTC(),
		}
		if err := s.CreateSecurityKey(r.Context(), key); err != nil {
			if errors.Is(err, store.ErrDuplicateKey) {
				response.Error(w, http.StatusConflict, "DUPLICATE_LABEL",
					"A security key with this label already exists", nil)
				return
			}
			response.InternalError(w, r, err)
			return
		}
		response.Created(w, key)
	}
}

// NewDeleteKeyHandler returns an http.HandlerFunc for DELETE /api/v1/admin/keys/{label}.
func NewDeleteKeyHandler(s KeyStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		label := chi.URLParam(r, "label")
		if err := s.DeleteSecurityKey(r.Context(), label); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				response.Error(w, http.StatusNotFound, "RESOURCE_NOT_FOUND", "Security key not found", nil)
				return
			}
			response.InternalError(w, r, err)
			return
		}
		response.JSON(w, map[string]bool{"deleted": true})
	}
}
