package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/SiddhuQuant/dietec-api/internal/model"
	"github.com/SiddhuQuant/dietec-api/internal/repository"
)

type appointmentRepository struct {
	db *sqlx.DB
}

func NewAppointmentRepository(db *sqlx.DB) repository.AppointmentRepository {
	return &appointmentRepository{db: db}
}

func (r *appointmentRepository) Create(ctx context.Context, appointment *model.Appointment) error {
	query := `
		INSERT INTO appointments (
			id, doctor_id, patient_id, date, time_slot,
			type, status, notes, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	appointment.CreatedAt = time.Now()
	appointment.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		appointment.ID,
		appointment.DoctorID,
		appointment.PatientID,
		appointment.Date,
		appointment.TimeSlot,
		appointment.Type,
		appointment.Status,
		appointment.Notes,
		appointment.CreatedAt,
		appointment.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create appointment: %w", err)
	}
	return nil
}

func (r *appointmentRepository) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	query := `SELECT * FROM appointments WHERE id = $1`
	var appointment model.Appointment
	err := r.db.GetContext(ctx, &appointment, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return &appointment, nil
}

func (r *appointmentRepository) Update(ctx context.Context, appointment *model.Appointment) error {
	query := `
		UPDATE appointments
		SET date = $1, time_slot = $2, status = $3, notes = $4, updated_at = $5
		WHERE id = $6
	`
	appointment.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		appointment.Date,
		appointment.TimeSlot,
		appointment.Status,
		appointment.Notes,
		appointment.UpdatedAt,
		appointment.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update appointment: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return repository.ErrNotFound
	}

	return nil
}

func (r *appointmentRepository) ListForPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Appointment, error) {
	query := `SELECT * FROM appointments WHERE patient_id = $1 ORDER BY date DESC`
	var appointments []*model.Appointment
	err := r.db.SelectContext(ctx, &appointments, query, patientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM appointments`)
	return count, err
}

func (r *appointmentRepository) CountForDoctorOn(ctx context.Context, doctorID uuid.UUID, day time.Time) (int64, error) {
	query := `
		SELECT COUNT(*) FROM appointments
		WHERE doctor_id = $1 AND date::date = $2::date AND status != 'cancelled'
	`
	var count int64
	err := r.db.GetContext(ctx, &count, query, doctorID, day)
	return count, err
}

func (r *appointmentRepository) CountForDoctorSince(ctx context.Context, doctorID uuid.UUID, from time.Time) (int64, error) {
	query := `
		SELECT COUNT(*) FROM appointments
		WHERE doctor_id = $1 AND date >= $2 AND status != 'cancelled'
	`
	var count int64
	err := r.db.GetContext(ctx, &count, query, doctorID, from)
	return count, err
}

func (r *appointmentRepository) CountPendingForDoctor(ctx context.Context, doctorID uuid.UUID) (int64, error) {
	query := `
		SELECT COUNT(*) FROM appointments
		WHERE doctor_id = $1 AND status = 'pending'
	`
	var count int64
	err := r.db.GetContext(ctx, &count, query, doctorID)
	return count, err
}

func (r *appointmentRepository) ListPatientIDsForDoctor(ctx context.Context, doctorID uuid.UUID) ([]uuid.UUID, error) {
	query := `SELECT patient_id FROM appointments WHERE doctor_id = $1`
	var ids []uuid.UUID
	err := r.db.SelectContext(ctx, &ids, query, doctorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list patient ids: %w", err)
	}
	return ids, nil
}

func (r *appointmentRepository) ListWithPatientsForDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.AppointmentWithPatient, error) {
	query := `
		SELECT a.patient_id, p.name AS patient_name, a.date
		FROM appointments a
		INNER JOIN patients p ON p.id = a.patient_id
		WHERE a.doctor_id = $1
		ORDER BY a.date DESC
	`
	var rows []*model.AppointmentWithPatient
	err := r.db.SelectContext(ctx, &rows, query, doctorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list doctor patients: %w", err)
	}
	return rows, nil
}
