package doctordash

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SiddhuQuant/dietec-api/internal/model"
	"github.com/SiddhuQuant/dietec-api/internal/repository"
)

type fakePatients struct {
	repository.PatientRepository
	byID map[uuid.UUID]*model.Patient
}

func (f *fakePatients) Get(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	if p, ok := f.byID[id]; ok {
		return p, nil
	}
	return nil, repository.ErrNotFound
}

type fakeAppointments struct {
	repository.AppointmentRepository
	todayCount   int64
	patientIDs   []uuid.UUID
	monthCount   int64
	pendingCount int64
	joinRows     []*model.AppointmentWithPatient
	joinErr      error
}

func (f *fakeAppointments) CountForDoctorOn(ctx context.Context, doctorID uuid.UUID, day time.Time) (int64, error) {
	return f.todayCount, nil
}

func (f *fakeAppointments) ListPatientIDsForDoctor(ctx context.Context, doctorID uuid.UUID) ([]uuid.UUID, error) {
	return f.patientIDs, nil
}

func (f *fakeAppointments) CountForDoctorSince(ctx context.Context, doctorID uuid.UUID, from time.Time) (int64, error) {
	return f.monthCount, nil
}

func (f *fakeAppointments) CountPendingForDoctor(ctx context.Context, doctorID uuid.UUID) (int64, error) {
	return f.pendingCount, nil
}

func (f *fakeAppointments) ListWithPatientsForDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.AppointmentWithPatient, error) {
	return f.joinRows, f.joinErr
}

func TestStats(t *testing.T) {
	repeat := uuid.New()
	appointments := &fakeAppointments{
		todayCount: 4,
		monthCount: 31,
		patientIDs: []uuid.UUID{repeat, uuid.New(), repeat, uuid.New()},
	}
	svc := NewService(&fakePatients{}, appointments, zerolog.Nop())

	stats := svc.Stats(context.Background(), uuid.New())
	assert.Equal(t, int64(4), stats.TodayAppointments)
	assert.Equal(t, 3, stats.TotalPatients)
	assert.Equal(t, int64(31), stats.MonthAppointments)
}

func TestPatientsDedupeKeepsLatestVisit(t *testing.T) {
	alice := uuid.New()
	bob := uuid.New()
	jan10 := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	jan05 := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	jan08 := time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)

	// rows arrive newest-first; Alice appears twice
	appointments := &fakeAppointments{joinRows: []*model.AppointmentWithPatient{
		{PatientID: alice, PatientName: "Alice", Date: jan10},
		{PatientID: bob, PatientName: "Bob", Date: jan08},
		{PatientID: alice, PatientName: "Alice", Date: jan05},
	}}
	svc := NewService(&fakePatients{}, appointments, zerolog.Nop())

	records := svc.Patients(context.Background(), uuid.New())
	require.Len(t, records, 2)
	assert.Equal(t, "Alice", records[0].Name)
	assert.Equal(t, jan10, records[0].LastVisit)
	assert.Equal(t, "Bob", records[1].Name)
}

func TestPatientsCappedAtSix(t *testing.T) {
	rows := make([]*model.AppointmentWithPatient, 0, 9)
	for i := 0; i < 9; i++ {
		rows = append(rows, &model.AppointmentWithPatient{
			PatientID:   uuid.New(),
			PatientName: "P",
			Date:        time.Now().AddDate(0, 0, -i),
		})
	}
	svc := NewService(&fakePatients{}, &fakeAppointments{joinRows: rows}, zerolog.Nop())

	records := svc.Patients(context.Background(), uuid.New())
	assert.Len(t, records, 6)
}

func TestPatientsEnrichedFromProfile(t *testing.T) {
	patientID := uuid.New()
	dob := time.Date(1990, 6, 1, 0, 0, 0, 0, time.UTC)
	conditions := "Diabetes, Hypertension"

	patients := &fakePatients{byID: map[uuid.UUID]*model.Patient{
		patientID: {ID: patientID, Name: "Alice", DateOfBirth: &dob, MedicalConditions: &conditions},
	}}
	appointments := &fakeAppointments{joinRows: []*model.AppointmentWithPatient{
		{PatientID: patientID, PatientName: "Alice", Date: time.Now()},
	}}
	svc := NewService(patients, appointments, zerolog.Nop())

	records := svc.Patients(context.Background(), uuid.New())
	require.Len(t, records, 1)
	assert.Equal(t, "Diabetes", records[0].Condition)
	assert.GreaterOrEqual(t, records[0].Age, 35)
}

func TestPatientsMissingProfileStillListed(t *testing.T) {
	patientID := uuid.New()
	appointments := &fakeAppointments{joinRows: []*model.AppointmentWithPatient{
		{PatientID: patientID, PatientName: "Ghost", Date: time.Now()},
	}}
	svc := NewService(&fakePatients{}, appointments, zerolog.Nop())

	records := svc.Patients(context.Background(), uuid.New())
	require.Len(t, records, 1)
	assert.Equal(t, "Ghost", records[0].Name)
	assert.Equal(t, "General", records[0].Condition)
	assert.Zero(t, records[0].Age)
}

func TestPatientsDegradeToEmpty(t *testing.T) {
	svc := NewService(&fakePatients{}, &fakeAppointments{joinErr: errors.New("db down")}, zerolog.Nop())
	assert.Empty(t, svc.Patients(context.Background(), uuid.New()))
}

func TestPendingActions(t *testing.T) {
	svc := NewService(&fakePatients{}, &fakeAppointments{pendingCount: 7}, zerolog.Nop())

	actions := svc.PendingActions(context.Background(), uuid.New())
	assert.Equal(t, int64(7), actions.PendingAppointments)
	assert.Zero(t, actions.NewReports)
	assert.Zero(t, actions.PrescriptionUpdates)
}

func TestAge(t *testing.T) {
	now := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 34, age(time.Date(1990, 6, 1, 0, 0, 0, 0, time.UTC), now))
	assert.Equal(t, 33, age(time.Date(1990, 7, 1, 0, 0, 0, 0, time.UTC), now))
}
