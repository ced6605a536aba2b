package model

import (
	"time"

	"github.com/google/uuid"
)

// AuthAccount is a session-provider account. Only patients have these;
// they are the credential side of the provider, separate from the
// patient profile row.
type AuthAccount struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	Name         string    `db:"name" json:"name"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
