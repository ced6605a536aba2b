package portal

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SiddhuQuant/dietec-api/internal/localstore"
	"github.com/SiddhuQuant/dietec-api/internal/model"
	"github.com/SiddhuQuant/dietec-api/internal/repository"
)

type fakePatients struct {
	repository.PatientRepository
	patient *model.Patient
	updated *model.Patient
	created *model.Patient
}

func (f *fakePatients) GetByUserIDOrEmail(ctx context.Context, userID uuid.UUID, email string) (*model.Patient, error) {
	if f.patient == nil {
		return nil, repository.ErrNotFound
	}
	return f.patient, nil
}

func (f *fakePatients) Update(ctx context.Context, p *model.Patient) error {
	f.updated = p
	return nil
}

func (f *fakePatients) Create(ctx context.Context, p *model.Patient) error {
	f.created = p
	return nil
}

type fakeAppointments struct {
	repository.AppointmentRepository
	byID    map[uuid.UUID]*model.Appointment
	created *model.Appointment
	updated *model.Appointment
}

func (f *fakeAppointments) Create(ctx context.Context, a *model.Appointment) error {
	f.created = a
	return nil
}

func (f *fakeAppointments) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	if a, ok := f.byID[id]; ok {
		return a, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakeAppointments) Update(ctx context.Context, a *model.Appointment) error {
	f.updated = a
	return nil
}

type fakeBills struct {
	repository.BillRepository
}

func newPatientFixture() (*fakePatients, uuid.UUID) {
	userID := uuid.New()
	return &fakePatients{patient: &model.Patient{
		ID:     uuid.New(),
		UserID: userID,
		Email:  "pat@example.com",
		Status: model.StatusActive,
	}}, userID
}

func TestBookAppointment(t *testing.T) {
	patients, userID := newPatientFixture()
	appointments := &fakeAppointments{}
	svc := NewService(patients, appointments, &fakeBills{}, localstore.New("", zerolog.Nop()), zerolog.Nop())

	doctorID := uuid.New()
	appt, err := svc.BookAppointment(context.Background(), userID, "pat@example.com", &model.CreateAppointmentRequest{
		DoctorID: doctorID.String(),
		Date:     "2026-09-01",
		TimeSlot: "10:00",
	})
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusPending, appt.Status)
	assert.Equal(t, "consultation", appt.Type)
	assert.Equal(t, patients.patient.ID, appt.PatientID)
	assert.Equal(t, doctorID, appt.DoctorID)
	require.NotNil(t, appointments.created)
}

func TestBookAppointmentRejectsBadDate(t *testing.T) {
	patients, userID := newPatientFixture()
	svc := NewService(patients, &fakeAppointments{}, &fakeBills{}, localstore.New("", zerolog.Nop()), zerolog.Nop())

	_, err := svc.BookAppointment(context.Background(), userID, "pat@example.com", &model.CreateAppointmentRequest{
		DoctorID: uuid.NewString(),
		Date:     "September 1st",
		TimeSlot: "10:00",
	})
	assert.Error(t, err)
}

func TestCancelAppointmentEnforcesOwnership(t *testing.T) {
	patients, userID := newPatientFixture()
	apptID := uuid.New()
	appointments := &fakeAppointments{byID: map[uuid.UUID]*model.Appointment{
		apptID: {ID: apptID, PatientID: uuid.New(), Status: model.AppointmentStatusPending},
	}}
	svc := NewService(patients, appointments, &fakeBills{}, localstore.New("", zerolog.Nop()), zerolog.Nop())

	err := svc.CancelAppointment(context.Background(), userID, "pat@example.com", apptID)
	assert.Error(t, err)
	assert.Nil(t, appointments.updated)
}

func TestCancelAppointment(t *testing.T) {
	patients, userID := newPatientFixture()
	apptID := uuid.New()
	appointments := &fakeAppointments{byID: map[uuid.UUID]*model.Appointment{
		apptID: {ID: apptID, PatientID: patients.patient.ID, Status: model.AppointmentStatusPending},
	}}
	svc := NewService(patients, appointments, &fakeBills{}, localstore.New("", zerolog.Nop()), zerolog.Nop())

	require.NoError(t, svc.CancelAppointment(context.Background(), userID, "pat@example.com", apptID))
	require.NotNil(t, appointments.updated)
	assert.Equal(t, model.AppointmentStatusCancelled, appointments.updated.Status)
}

func TestUpdateProfileCreatesMissingRow(t *testing.T) {
	patients := &fakePatients{}
	userID := uuid.New()
	store := localstore.New("", zerolog.Nop())
	svc := NewService(patients, &fakeAppointments{}, &fakeBills{}, store, zerolog.Nop())

	p, err := svc.UpdateProfile(context.Background(), userID, "pat@example.com", &model.UpdateProfileRequest{
		Name:        "Pat",
		DateOfBirth: "1990-06-01",
		Gender:      "female",
		Phone:       "555-0100",
		Address:     "1 Main St",
	})
	require.NoError(t, err)
	require.NotNil(t, patients.created)
	assert.Equal(t, userID, p.UserID)
	require.NotNil(t, p.DateOfBirth)
	assert.Equal(t, time.Date(1990, 6, 1, 0, 0, 0, 0, time.UTC), *p.DateOfBirth)

	flag, ok := store.Get(localstore.UserKey(localstore.KeyProfileCompleted, "pat@example.com"))
	require.True(t, ok)
	assert.Equal(t, "true", flag)
}

func TestUpdateProfileUpdatesExistingRow(t *testing.T) {
	patients, userID := newPatientFixture()
	svc := NewService(patients, &fakeAppointments{}, &fakeBills{}, localstore.New("", zerolog.Nop()), zerolog.Nop())

	_, err := svc.UpdateProfile(context.Background(), userID, "pat@example.com", &model.UpdateProfileRequest{
		Name:        "Pat Updated",
		DateOfBirth: "1990-06-01",
		Gender:      "female",
		Phone:       "555-0100",
		Address:     "1 Main St",
	})
	require.NoError(t, err)
	require.NotNil(t, patients.updated)
	assert.Equal(t, "Pat Updated", patients.updated.Name)
	assert.Nil(t, patients.created)
}

func TestPreferences(t *testing.T) {
	svc := NewService(&fakePatients{}, &fakeAppointments{}, &fakeBills{}, localstore.New("", zerolog.Nop()), zerolog.Nop())

	require.NoError(t, svc.SetPreference("pat@example.com", "theme", "dark"))

	v, found, err := svc.Preference("pat@example.com", "theme")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "dark", v)

	// scoped per user
	_, found, err = svc.Preference("other@example.com", "theme")
	require.NoError(t, err)
	assert.False(t, found)

	_, _, err = svc.Preference("pat@example.com", "favorite-color")
	assert.Error(t, err)
}
