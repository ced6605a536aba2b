package doctordash

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/SiddhuQuant/dietec-api/internal/model"
	"github.com/SiddhuQuant/dietec-api/internal/repository"
)

// maxRecentPatients caps the dashboard patient list.
const maxRecentPatients = 6

// Service aggregates the doctor dashboard views. Like the admin
// dashboard, backend failures degrade to zeroed defaults instead of
// erroring out the whole screen.
type Service struct {
	patients     repository.PatientRepository
	appointments repository.AppointmentRepository
	logger       zerolog.Logger
}

func NewService(patients repository.PatientRepository, appointments repository.AppointmentRepository,
	logger zerolog.Logger) *Service {
	return &Service{
		patients:     patients,
		appointments: appointments,
		logger:       logger,
	}
}

// Stats computes the three doctor stat cards concurrently: today's
// appointments, distinct patients ever seen, and appointments since the
// start of the current month. Cancelled appointments never count.
func (s *Service) Stats(ctx context.Context, doctorID uuid.UUID) model.DoctorStats {
	now := time.Now()
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	var (
		wg    sync.WaitGroup
		stats model.DoctorStats
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		n, err := s.appointments.CountForDoctorOn(ctx, doctorID, now)
		if err != nil {
			s.logger.Error().Err(err).Str("doctor_id", doctorID.String()).Msg("failed to count today's appointments")
			return
		}
		stats.TodayAppointments = n
	}()
	go func() {
		defer wg.Done()
		ids, err := s.appointments.ListPatientIDsForDoctor(ctx, doctorID)
		if err != nil {
			s.logger.Error().Err(err).Str("doctor_id", doctorID.String()).Msg("failed to list doctor's patients")
			return
		}
		seen := make(map[uuid.UUID]struct{}, len(ids))
		for _, id := range ids {
			seen[id] = struct{}{}
		}
		stats.TotalPatients = len(seen)
	}()
	go func() {
		defer wg.Done()
		n, err := s.appointments.CountForDoctorSince(ctx, doctorID, startOfMonth)
		if err != nil {
			s.logger.Error().Err(err).Str("doctor_id", doctorID.String()).Msg("failed to count month's appointments")
			return
		}
		stats.MonthAppointments = n
	}()
	wg.Wait()

	return stats
}

// Patients returns the doctor's most recently seen patients. The join
// rows arrive newest-first; deduplication keeps the first occurrence,
// so each patient carries their latest visit date. The list is capped
// at six entries.
func (s *Service) Patients(ctx context.Context, doctorID uuid.UUID) []model.PatientRecord {
	rows, err := s.appointments.ListWithPatientsForDoctor(ctx, doctorID)
	if err != nil {
		s.logger.Error().Err(err).Str("doctor_id", doctorID.String()).Msg("failed to list doctor's patient visits")
		return []model.PatientRecord{}
	}

	records := make([]model.PatientRecord, 0, maxRecentPatients)
	seen := make(map[uuid.UUID]struct{})
	for _, row := range rows {
		if _, ok := seen[row.PatientID]; ok {
			continue
		}
		seen[row.PatientID] = struct{}{}

		records = append(records, s.patientRecord(ctx, row))
		if len(records) == maxRecentPatients {
			break
		}
	}
	return records
}

// PendingActions counts work awaiting the doctor. Report and
// prescription counts stay zero until their backing tables exist.
func (s *Service) PendingActions(ctx context.Context, doctorID uuid.UUID) model.PendingActions {
	n, err := s.appointments.CountPendingForDoctor(ctx, doctorID)
	if err != nil {
		s.logger.Error().Err(err).Str("doctor_id", doctorID.String()).Msg("failed to count pending appointments")
		return model.PendingActions{}
	}
	return model.PendingActions{PendingAppointments: n}
}

// patientRecord enriches a join row with age and primary condition from
// the patient profile. A missing or unreadable profile still yields a
// usable row.
func (s *Service) patientRecord(ctx context.Context, row *model.AppointmentWithPatient) model.PatientRecord {
	record := model.PatientRecord{
		ID:        row.PatientID,
		Name:      row.PatientName,
		Condition: "General",
		LastVisit: row.Date,
	}

	patient, err := s.patients.Get(ctx, row.PatientID)
	if err != nil {
		s.logger.Warn().Err(err).Str("patient_id", row.PatientID.String()).Msg("failed to load patient profile")
		return record
	}

	if patient.DateOfBirth != nil {
		record.Age = age(*patient.DateOfBirth, time.Now())
	}
	if patient.MedicalConditions != nil {
		if first := strings.TrimSpace(strings.Split(*patient.MedicalConditions, ",")[0]); first != "" {
			record.Condition = first
		}
	}
	return record
}

func age(dob, now time.Time) int {
	years := now.Year() - dob.Year()
	if now.Month() < dob.Month() || (now.Month() == dob.Month() && now.Day() < dob.Day()) {
		years--
	}
	if years < 0 {
		return 0
	}
	return years
}
