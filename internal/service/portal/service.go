package portal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/SiddhuQuant/dietec-api/internal/localstore"
	"github.com/SiddhuQuant/dietec-api/internal/model"
	"github.com/SiddhuQuant/dietec-api/internal/repository"
	apperrors "github.com/SiddhuQuant/dietec-api/pkg/errors"
)

// Preference keys addressable through the API, mapped to their storage
// keys. Anything else is rejected.
var preferenceKeys = map[string]string{
	"theme":             localstore.KeyTheme,
	"onboarding":        localstore.KeyOnboardingDone,
	"profile-completed": localstore.KeyProfileCompleted,
}

// Service covers the patient-facing portal operations: appointments,
// bills, profile completion and per-user preferences.
type Service struct {
	patients     repository.PatientRepository
	appointments repository.AppointmentRepository
	bills        repository.BillRepository
	store        *localstore.Store
	logger       zerolog.Logger
}

func NewService(patients repository.PatientRepository, appointments repository.AppointmentRepository,
	bills repository.BillRepository, store *localstore.Store, logger zerolog.Logger) *Service {
	return &Service{
		patients:     patients,
		appointments: appointments,
		bills:        bills,
		store:        store,
		logger:       logger,
	}
}

// patientID maps the authenticated user to their patient row. Portal
// data is keyed by the patient row id, not the session user id.
func (s *Service) patientID(ctx context.Context, userID uuid.UUID, email string) (uuid.UUID, error) {
	patient, err := s.patients.GetByUserIDOrEmail(ctx, userID, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return uuid.Nil, apperrors.NotFound("patient profile", err)
		}
		return uuid.Nil, err
	}
	return patient.ID, nil
}

// BookAppointment creates a pending appointment for the patient.
func (s *Service) BookAppointment(ctx context.Context, userID uuid.UUID, email string, req *model.CreateAppointmentRequest) (*model.Appointment, error) {
	patientID, err := s.patientID(ctx, userID, email)
	if err != nil {
		return nil, err
	}

	doctorID, err := uuid.Parse(req.DoctorID)
	if err != nil {
		return nil, apperrors.BadRequest("invalid doctor id", err)
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, apperrors.BadRequest("invalid date, expected YYYY-MM-DD", err)
	}

	apptType := req.Type
	if apptType == "" {
		apptType = "consultation"
	}

	appointment := &model.Appointment{
		ID:        uuid.New(),
		DoctorID:  doctorID,
		PatientID: patientID,
		Date:      date,
		TimeSlot:  req.TimeSlot,
		Type:      apptType,
		Status:    model.AppointmentStatusPending,
		Notes:     req.Notes,
	}
	if err := s.appointments.Create(ctx, appointment); err != nil {
		return nil, fmt.Errorf("failed to create appointment: %w", err)
	}
	return appointment, nil
}

// Appointments lists the patient's appointments, newest first.
func (s *Service) Appointments(ctx context.Context, userID uuid.UUID, email string) ([]*model.Appointment, error) {
	patientID, err := s.patientID(ctx, userID, email)
	if err != nil {
		return nil, err
	}
	return s.appointments.ListForPatient(ctx, patientID)
}

// CancelAppointment marks an appointment cancelled. Patients can only
// cancel their own.
func (s *Service) CancelAppointment(ctx context.Context, userID uuid.UUID, email string, appointmentID uuid.UUID) error {
	patientID, err := s.patientID(ctx, userID, email)
	if err != nil {
		return err
	}

	appointment, err := s.appointments.Get(ctx, appointmentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFound("appointment", err)
		}
		return err
	}
	if appointment.PatientID != patientID {
		return apperrors.Forbidden(errors.New("appointment belongs to another patient"))
	}

	appointment.Status = model.AppointmentStatusCancelled
	return s.appointments.Update(ctx, appointment)
}

// Bills lists the patient's bills.
func (s *Service) Bills(ctx context.Context, userID uuid.UUID, email string) ([]*model.Bill, error) {
	patientID, err := s.patientID(ctx, userID, email)
	if err != nil {
		return nil, err
	}
	return s.bills.ListForPatient(ctx, patientID)
}

// UpdateProfile completes or edits the patient profile. A patient whose
// signup profile insert soft-failed gets their row created here, which
// also clears the unverified fallback identity on the next resolution.
func (s *Service) UpdateProfile(ctx context.Context, userID uuid.UUID, email string, req *model.UpdateProfileRequest) (*model.Patient, error) {
	dob, err := time.Parse("2006-01-02", req.DateOfBirth)
	if err != nil {
		return nil, apperrors.BadRequest("invalid date of birth, expected YYYY-MM-DD", err)
	}

	patient, err := s.patients.GetByUserIDOrEmail(ctx, userID, email)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	fresh := patient == nil
	if fresh {
		patient = &model.Patient{
			ID:     uuid.New(),
			UserID: userID,
			Email:  email,
			Status: model.StatusActive,
		}
	}

	patient.Name = req.Name
	patient.DateOfBirth = &dob
	patient.Gender = &req.Gender
	patient.Phone = &req.Phone
	patient.Address = &req.Address
	patient.MedicalConditions = req.MedicalConditions
	patient.Allergies = req.Allergies
	patient.EmergencyContact = req.EmergencyContact

	if fresh {
		err = s.patients.Create(ctx, patient)
	} else {
		err = s.patients.Update(ctx, patient)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to save patient profile: %w", err)
	}

	s.store.Set(localstore.UserKey(localstore.KeyProfileCompleted, email), "true")
	return patient, nil
}

// Preference reads a per-user preference. The second return reports
// whether the key is addressable at all.
func (s *Service) Preference(email, key string) (string, bool, error) {
	storageKey, ok := preferenceKeys[key]
	if !ok {
		return "", false, apperrors.BadRequest("unknown preference key", nil)
	}
	value, found := s.store.Get(localstore.UserKey(storageKey, email))
	return value, found, nil
}

// SetPreference writes a per-user preference.
func (s *Service) SetPreference(email, key, value string) error {
	storageKey, ok := preferenceKeys[key]
	if !ok {
		return apperrors.BadRequest("unknown preference key", nil)
	}
	s.store.Set(localstore.UserKey(storageKey, email), value)
	return nil
}
