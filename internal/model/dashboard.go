package model

import (
	"time"

	"github.com/google/uuid"
)

// Dashboard view models. All of these are derived, read-only and
// recomputed on every load; staleness is acceptable.

// SystemMetric is one labeled admin metric card. Change is a static
// presentation value, not a computed trend.
type SystemMetric struct {
	Label  string `json:"label"`
	Value  int64  `json:"value"`
	Change int    `json:"change"`
}

// AdminMetrics holds the raw counts behind the admin metric cards.
type AdminMetrics struct {
	TotalUsers     int64 `json:"total_users"`
	ActiveDoctors  int64 `json:"active_doctors"`
	ActivePatients int64 `json:"active_patients"`
	TotalBookings  int64 `json:"total_bookings"`
}

// Revenue buckets paid bills by created timestamp. Boundaries are
// inclusive (>=).
type Revenue struct {
	Today float64 `json:"today"`
	Week  float64 `json:"week"`
	Month float64 `json:"month"`
	Total float64 `json:"total"`
}

type DoctorStats struct {
	TodayAppointments int64 `json:"today_appointments"`
	TotalPatients     int   `json:"total_patients"`
	MonthAppointments int64 `json:"month_appointments"`
}

// PatientRecord is one entry in the doctor's recent-patient list.
type PatientRecord struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Age       int       `json:"age"`
	Condition string    `json:"condition"`
	LastVisit time.Time `json:"last_visit"`
}

// PendingActions counts work awaiting the doctor. NewReports and
// PrescriptionUpdates stay zero until their tables exist.
type PendingActions struct {
	PendingAppointments int64 `json:"pending_appointments"`
	NewReports          int64 `json:"new_reports"`
	PrescriptionUpdates int64 `json:"prescription_updates"`
}
