package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/SiddhuQuant/dietec-api/internal/model"
)

// ErrNotFound is returned when a lookup matches no row. Identity
// resolution distinguishes "no row" from backend failure by it.
var ErrNotFound = errors.New("record not found")

// All repository interfaces in one file
type (
	// PatientRepository handles the self-service identity table, keyed
	// by the provider's user id.
	PatientRepository interface {
		Create(ctx context.Context, patient *model.Patient) error
		Get(ctx context.Context, id uuid.UUID) (*model.Patient, error)
		GetByUserIDOrEmail(ctx context.Context, userID uuid.UUID, email string) (*model.Patient, error)
		GetByEmail(ctx context.Context, email string) (*model.Patient, error)
		Update(ctx context.Context, patient *model.Patient) error
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context) ([]*model.Patient, error)
		Count(ctx context.Context) (int64, error)
	}

	// DoctorRepository covers the out-of-band provisioned doctor table.
	// VerifyCredentials is the credential-check procedure: it returns
	// the matching record or ErrNotFound, never which part failed.
	DoctorRepository interface {
		GetByEmail(ctx context.Context, email string) (*model.Doctor, error)
		VerifyCredentials(ctx context.Context, email, password string) (*model.Doctor, error)
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context) ([]*model.Doctor, error)
		CountByStatus(ctx context.Context, status string) (int64, error)
	}

	AdminRepository interface {
		GetByEmail(ctx context.Context, email string) (*model.Admin, error)
		VerifyCredentials(ctx context.Context, email, password string) (*model.Admin, error)
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context) ([]*model.Admin, error)
	}

	AppointmentRepository interface {
		Create(ctx context.Context, appointment *model.Appointment) error
		Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
		Update(ctx context.Context, appointment *model.Appointment) error
		ListForPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Appointment, error)
		Count(ctx context.Context) (int64, error)
		CountForDoctorOn(ctx context.Context, doctorID uuid.UUID, day time.Time) (int64, error)
		CountForDoctorSince(ctx context.Context, doctorID uuid.UUID, from time.Time) (int64, error)
		CountPendingForDoctor(ctx context.Context, doctorID uuid.UUID) (int64, error)
		ListPatientIDsForDoctor(ctx context.Context, doctorID uuid.UUID) ([]uuid.UUID, error)
		ListWithPatientsForDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.AppointmentWithPatient, error)
	}

	// AuthAccountRepository backs the session provider's credential
	// store (patients only).
	AuthAccountRepository interface {
		Create(ctx context.Context, account *model.AuthAccount) error
		GetByEmail(ctx context.Context, email string) (*model.AuthAccount, error)
	}

	BillRepository interface {
		Create(ctx context.Context, bill *model.Bill) error
		ListPaid(ctx context.Context) ([]*model.Bill, error)
		ListForPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Bill, error)
	}
)
