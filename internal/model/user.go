package model

import (
	"strings"

	"github.com/google/uuid"
)

// Role constants. A user holds exactly one role, determined by which
// identity table contains a matching record.
const (
	RolePatient = "patient"
	RoleDoctor  = "doctor"
	RoleAdmin   = "admin"
)

// Account status constants
const (
	StatusActive    = "active"
	StatusInactive  = "inactive"
	StatusSuspended = "suspended"
	// StatusUnverified marks an identity synthesized from a session whose
	// email has no profile row in any identity table.
	StatusUnverified = "unverified"
)

// AuthUser is a resolved identity. It is constructed fresh on every
// login/session-check call and never persisted beyond the in-memory
// session, except for doctor/admin records cached in the local store.
type AuthUser struct {
	ID      uuid.UUID   `json:"id"`
	Name    string      `json:"name"`
	Email   string      `json:"email"`
	Role    string      `json:"role"`
	Status  string      `json:"status"`
	Profile interface{} `json:"profile,omitempty"`
}

// SynthesizedPatient builds the fallback identity for an authenticated
// session whose email matches no identity table. Name is the email's
// local part.
func SynthesizedPatient(userID uuid.UUID, email string) *AuthUser {
	name := email
	if i := strings.Index(email, "@"); i >= 0 {
		name = email[:i]
	}
	return &AuthUser{
		ID:     userID,
		Name:   name,
		Email:  email,
		Role:   RolePatient,
		Status: StatusUnverified,
	}
}

// StoredUser is the serialized record kept in the local store for roles
// that never hold a provider session (doctor/admin).
type StoredUser struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
	Role  string    `json:"role"`
}

// PortalUser is the flattened row shown on the admin user management
// screen, merged from all three identity tables.
type PortalUser struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	Role     string    `json:"role"`
	JoinDate string    `json:"join_date"`
	Status   string    `json:"status"`
}

// LoginRequest represents login parameters
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// SignupRequest represents patient self-registration parameters.
// Doctors and admins are provisioned out-of-band.
type SignupRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}
