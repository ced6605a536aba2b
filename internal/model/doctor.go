package model

import (
	"time"

	"github.com/google/uuid"
)

// Doctor accounts are provisioned out-of-band and authenticate against
// their own credential check, never the session provider.
type Doctor struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Specialty    *string   `db:"specialty" json:"specialty,omitempty"`
	Status       string    `db:"status" json:"status"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}
