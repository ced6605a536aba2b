package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SiddhuQuant/dietec-api/internal/model"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "sqlmock"), mock
}

func strptr(s string) *string { return &s }

func TestPatientCreatePersistsProfileFields(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPatientRepository(db)

	dob := time.Date(1990, 5, 1, 0, 0, 0, 0, time.UTC)
	patient := &model.Patient{
		ID:                uuid.New(),
		UserID:            uuid.New(),
		Name:              "Alice",
		Email:             "alice@example.com",
		Phone:             strptr("555-0100"),
		DateOfBirth:       &dob,
		Gender:            strptr("female"),
		Address:           strptr("12 Main St"),
		MedicalConditions: strptr("Diabetes, Hypertension"),
		Allergies:         strptr("Penicillin"),
		EmergencyContact:  strptr("Bob 555-0101"),
		Status:            model.StatusActive,
	}

	// The insert must send every profile column, not just the identity
	// columns: a patient created through profile completion would
	// otherwise lose the form fields on the floor.
	mock.ExpectExec("INSERT INTO patients").
		WithArgs(
			patient.ID, patient.UserID, patient.Name, patient.Email,
			patient.Phone, patient.DateOfBirth, patient.Gender, patient.Address,
			patient.MedicalConditions, patient.Allergies, patient.EmergencyContact,
			patient.Status, sqlmock.AnyArg(), sqlmock.AnyArg(),
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Create(context.Background(), patient))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPatientCreateAllowsBareSignupRow(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPatientRepository(db)

	patient := &model.Patient{
		ID:     uuid.New(),
		UserID: uuid.New(),
		Name:   "new",
		Email:  "new@example.com",
		Status: model.StatusActive,
	}

	mock.ExpectExec("INSERT INTO patients").
		WithArgs(
			patient.ID, patient.UserID, patient.Name, patient.Email,
			nil, nil, nil, nil, nil, nil, nil,
			patient.Status, sqlmock.AnyArg(), sqlmock.AnyArg(),
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Create(context.Background(), patient))
	assert.NoError(t, mock.ExpectationsWereMet())
}
