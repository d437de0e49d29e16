package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/kiranshivaraju/seatboard/internal/store"
	"github.com/kiranshivaraju/seatboard/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// --- mock KeyStore ---

type mockKeyStore struct {
	keys []*models.SecurityKey
	err  error
}

func (m *mockKeyStore) CreateSecurityKey(_ context.Context, key *models.SecurityKey) error {
	if m.err != nil {
		return m.err
	}
	for _, k := range m.keys {
		if k.Label == key.Label {
			return store.ErrDuplicateKey
		}
	}
	m.keys = append(m.keys, key)
	return nil
}

func (m *mockKeyStore) ListSecurityKeys(_ context.Context) ([]*models.SecurityKey, error) {
	return m.keys, m.err
}

func (m *mockKeyStore) DeleteSecurityKey(_ context.Context, label string) error {
	if m.err != nil {
		return m.err
	}
	for i, k := range m.keys {
		if k.Label == label {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

func TestCreateKeyHandler(t *testing.T) {
	ks := &mockKeyStore{}
	h := NewCreateKeyHandler(ks, fixedClock())

	body := map[string]string{"label": " tablet ", "secret": "front-desk-1"}
	rec := serve(http.MethodPost, "/keys", h, jsonReq(t, http.MethodPost, "/keys", body))

	data := parseOK(t, rec, http.StatusCreated)
	assert.Equal(t, "tablet", data["label"])
	assert.NotContains(t, rec.Body.String(), "front-desk-1")
	assert.NotContains(t, rec.Body.String(), "secret_hash")

	require.Len(t, ks.keys, 1)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(ks.keys[0].SecretHash), []byte("front-desk-1")))
	assert.True(t, ks.keys[0].CreatedAt.Equal(fixedNow))
}

func TestCreateKeyHandler_Duplicate(t *testing.T) {
	ks := &mockKeyStore{keys: []*models.SecurityKey{{Label: "default"}}}
	h := NewCreateKeyHandler(ks, fixedClock())

	rec := serve(http.MethodPost, "/keys", h, jsonReq(t, http.MethodPost, "/keys", map[string]string{"label": "default", "secret": "x"}))

	status, code := parseErr(t, rec)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "DUPLICATE_LABEL", code)
}

func TestCreateKeyHandler_Validation(t *testing.T) {
	tests := []struct {
		name string
		body any
	}{
		{"malformed", `{"label":`},
		{"missing label", map[string]string{"secret": "x"}},
		{"missing secret", map[string]string{"label": "a"}},
		{"blank secret", map[string]string{"label": "a", "secret": "  "}},
		{"long label", map[string]string{"label": strings.Repeat("l", 51), "secret": "x"}},
		{"long secret", map[string]string{"label": "a", "secret": strings.Repeat("s", 73)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ks := &mockKeyStore{}
			h := NewCreateKeyHandler(ks, fixedClock())

			rec := serve(http.MethodPost, "/keys", h, jsonReq(t, http.MethodPost, "/keys", tt.body))

			status, code := parseErr(t, rec)
			assert.Equal(t, http.StatusBadRequest, status)
			assert.Equal(t, "INVALID_REQUEST", code)
			assert.Empty(t, ks.keys)
		})
	}
}

func TestListKeysHandler(t *testing.T) {
	ks := &mockKeyStore{keys: []*models.SecurityKey{{Label: "default", SecretHash: "$2a$10$hash"}}}
	h := NewListKeysHandler(ks)

	rec := serve(http.MethodGet, "/keys", h, jsonReq(t, http.MethodGet, "/keys", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"label":"default"`)
	assert.NotContains(t, rec.Body.String(), "$2a$10$hash")
}

func TestListKeysHandler_Empty(t *testing.T) {
	rec := serve(http.MethodGet, "/keys", NewListKeysHandler(&mockKeyStore{}), jsonReq(t, http.MethodGet, "/keys", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"data":[]}`, rec.Body.String())
}

func TestDeleteKeyHandler(t *testing.T) {
	ks := &mockKeyStore{keys: []*models.SecurityKey{{Label: "tablet"}}}
	h := NewDeleteKeyHandler(ks)

	rec := serve(http.MethodDelete, "/keys/{label}", h, jsonReq(t, http.MethodDelete, "/keys/tablet", nil))
	data := parseOK(t, rec, http.StatusOK)
	assert.Equal(t, true, data["deleted"])
	assert.Empty(t, ks.keys)

	rec = serve(http.MethodDelete, "/keys/{label}", h, jsonReq(t, http.MethodDelete, "/keys/tablet", nil))
	status, code := parseErr(t, rec)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "RESOURCE_NOT_FOUND", code)
}

func TestDeleteKeyHandler_StoreError(t *testing.T) {
	ks := &mockKeyStore{err: errors.New("db down")}

	rec := serve(http.MethodDelete, "/keys/{label}", NewDeleteKeyHandler(ks), jsonReq(t, http.MethodDelete, "/keys/a", nil))

	status, _ := parseErr(t, rec)
	assert.Equal(t, http.StatusInternalServerError, status)
}
