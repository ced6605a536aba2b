package model

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	AppointmentStatusPending   AppointmentStatus = "pending"
	AppointmentStatusConfirmed AppointmentStatus = "confirmed"
	AppointmentStatusCompleted AppointmentStatus = "completed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
)

type Appointment struct {
	ID        uuid.UUID         `db:"id" json:"id"`
	DoctorID  uuid.UUID         `db:"doctor_id" json:"doctor_id"`
	PatientID uuid.UUID         `db:"patient_id" json:"patient_id"`
	Date      time.Time         `db:"date" json:"date"`
	TimeSlot  string            `db:"time_slot" json:"time_slot"`
	Type      string            `db:"type" json:"type"`
	Status    AppointmentStatus `db:"status" json:"status"`
	Notes     string            `db:"notes" json:"notes,omitempty"`
	CreatedAt time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt time.Time         `db:"updated_at" json:"updated_at"`
}

type CreateAppointmentRequest struct {
	DoctorID string `json:"doctor_id" binding:"required,uuid"`
	Date     string `json:"date" binding:"required"`
	TimeSlot string `json:"time_slot" binding:"required"`
	Type     string `json:"type" binding:"omitempty,oneof=consultation followup test"`
	Notes    string `json:"notes" binding:"max=1000"`
}

// AppointmentWithPatient is the appointments→patients join row used by
// the doctor dashboard patient list.
type AppointmentWithPatient struct {
	PatientID   uuid.UUID `db:"patient_id" json:"patient_id"`
	PatientName string    `db:"patient_name" json:"patient_name"`
	Date        time.Time `db:"date" json:"date"`
}
