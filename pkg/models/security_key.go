package models

import (
	"time"

	"github.com/google/uuid"
)

// SecurityKey is an admin credential. Only the bcrypt hash of the secret is
// stored; the raw value is known to whoever created it.
type SecurityKey struct {
	ID         uuid.UUID `db:"id"          json:"id"`
	Label      string    `db:"label"       json:"label"`
	SecretHash string    `db:"secret_hash" json:"-"`
	CreatedAt  time.Time `db:"created_at"  json:"created_at"`
}
