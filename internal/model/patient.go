package model

import (
	"time"

	"github.com/google/uuid"
)

// Patient is the self-service role. Rows are keyed by the session
// provider's user id; doctors and admins live in their own tables and
// are keyed by email instead.
type Patient struct {
	ID                uuid.UUID  `db:"id" json:"id"`
	UserID            uuid.UUID  `db:"user_id" json:"user_id"`
	Name              string     `db:"name" json:"name"`
	Email             string     `db:"email" json:"email"`
	Phone             *string    `db:"phone" json:"phone,omitempty"`
	DateOfBirth       *time.Time `db:"date_of_birth" json:"date_of_birth,omitempty"`
	Gender            *string    `db:"gender" json:"gender,omitempty"`
	Address           *string    `db:"address" json:"address,omitempty"`
	MedicalConditions *string    `db:"medical_conditions" json:"medical_conditions,omitempty"`
	Allergies         *string    `db:"allergies" json:"allergies,omitempty"`
	EmergencyContact  *string    `db:"emergency_contact" json:"emergency_contact,omitempty"`
	Status            string     `db:"status" json:"status"`
	CreatedAt         time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time  `db:"updated_at" json:"updated_at"`
}

// UpdateProfileRequest carries the profile-completion form fields.
type UpdateProfileRequest struct {
	Name              string  `json:"name" binding:"required"`
	DateOfBirth       string  `json:"date_of_birth" binding:"required"`
	Gender            string  `json:"gender" binding:"required"`
	Phone             string  `json:"phone" binding:"required"`
	Address           string  `json:"address" binding:"required"`
	MedicalConditions *string `json:"medical_conditions"`
	Allergies         *string `json:"allergies"`
	EmergencyContact  *string `json:"emergency_contact"`
}
