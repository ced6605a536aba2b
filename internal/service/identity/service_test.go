package identity

import (
	"context"
	"errors"
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
	byUserIDOrEmail func(userID uuid.UUID, email string) (*model.Patient, error)
	created         []*model.Patient
	createErr       error
}

func (f *fakePatients) GetByUserIDOrEmail(ctx context.Context, userID uuid.UUID, email string) (*model.Patient, error) {
	if f.byUserIDOrEmail == nil {
		return nil, repository.ErrNotFound
	}
	return f.byUserIDOrEmail(userID, email)
}

func (f *fakePatients) Create(ctx context.Context, p *model.Patient) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, p)
	return nil
}

type fakeDoctors struct {
	repository.DoctorRepository
	byEmail   map[string]*model.Doctor
	passwords map[string]string
}

func (f *fakeDoctors) GetByEmail(ctx context.Context, email string) (*model.Doctor, error) {
	if d, ok := f.byEmail[email]; ok {
		return d, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakeDoctors) VerifyCredentials(ctx context.Context, email, password string) (*model.Doctor, error) {
	if d, ok := f.byEmail[email]; ok && f.passwords[email] == password {
		return d, nil
	}
	return nil, repository.ErrNotFound
}

type fakeAdmins struct {
	repository.AdminRepository
	byEmail   map[string]*model.Admin
	passwords map[string]string
}

func (f *fakeAdmins) GetByEmail(ctx context.Context, email string) (*model.Admin, error) {
	if a, ok := f.byEmail[email]; ok {
		return a, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakeAdmins) VerifyCredentials(ctx context.Context, email, password string) (*model.Admin, error) {
	if a, ok := f.byEmail[email]; ok && f.passwords[email] == password {
		return a, nil
	}
	return nil, repository.ErrNotFound
}

type fakeProvider struct {
	session     *model.Session
	signInCalls int
	signOutErr  error
}

func (f *fakeProvider) SignUp(ctx context.Context, email, password, name string) (*model.Session, error) {
	if f.session == nil {
		return nil, errors.New("signup disabled")
	}
	return f.session, nil
}

func (f *fakeProvider) SignInWithPassword(ctx context.Context, email, password string) (*model.Session, error) {
	f.signInCalls++
	if f.session == nil || f.session.Email != email {
		return nil, errors.New("invalid credentials")
	}
	return f.session, nil
}

func (f *fakeProvider) SignOut(ctx context.Context) error {
	f.session = nil
	return f.signOutErr
}

func (f *fakeProvider) CurrentSession(ctx context.Context) (*model.Session, error) {
	return f.session, nil
}

type fakeEmail struct {
	welcomed []string
}

func (f *fakeEmail) SendWelcome(ctx context.Context, to, name string) error {
	f.welcomed = append(f.welcomed, to)
	return nil
}

func (f *fakeEmail) SendCustom(ctx context.Context, to, subject, body string) error {
	return nil
}

type fixture struct {
	svc      *Service
	patients *fakePatients
	doctors  *fakeDoctors
	admins   *fakeAdmins
	provider *fakeProvider
	store    *localstore.Store
}

func newFixture() *fixture {
	patients := &fakePatients{}
	doctors := &fakeDoctors{byEmail: map[string]*model.Doctor{}, passwords: map[string]string{}}
	admins := &fakeAdmins{byEmail: map[string]*model.Admin{}, passwords: map[string]string{}}
	provider := &fakeProvider{}
	store := localstore.New("", zerolog.Nop())

	return &fixture{
		svc:      NewService(patients, doctors, admins, provider, store, &fakeEmail{}, zerolog.Nop()),
		patients: patients,
		doctors:  doctors,
		admins:   admins,
		provider: provider,
		store:    store,
	}
}

func TestResolvePatientWinsOverDoctor(t *testing.T) {
	f := newFixture()
	userID := uuid.New()

	f.patients.byUserIDOrEmail = func(id uuid.UUID, email string) (*model.Patient, error) {
		return &model.Patient{ID: uuid.New(), UserID: userID, Name: "Pat", Email: "both@example.com", Status: model.StatusActive}, nil
	}
	f.doctors.byEmail["both@example.com"] = &model.Doctor{ID: uuid.New(), Name: "Doc", Email: "both@example.com"}

	user := f.svc.Resolve(context.Background(), &userID, "both@example.com")
	require.NotNil(t, user)
	assert.Equal(t, model.RolePatient, user.Role)
	assert.Equal(t, "Pat", user.Name)
	assert.Equal(t, userID, user.ID)
}

func TestResolveDoctorByEmail(t *testing.T) {
	f := newFixture()
	doctorID := uuid.New()
	f.doctors.byEmail["doc@example.com"] = &model.Doctor{ID: doctorID, Name: "Dr. Who", Email: "doc@example.com", Status: model.StatusActive}

	user := f.svc.Resolve(context.Background(), nil, "doc@example.com")
	require.NotNil(t, user)
	assert.Equal(t, model.RoleDoctor, user.Role)
	assert.Equal(t, doctorID, user.ID)
}

func TestResolveAdminByEmail(t *testing.T) {
	f := newFixture()
	f.admins.byEmail["root@example.com"] = &model.Admin{ID: uuid.New(), Name: "Root", Email: "root@example.com", Status: model.StatusActive}

	user := f.svc.Resolve(context.Background(), nil, "root@example.com")
	require.NotNil(t, user)
	assert.Equal(t, model.RoleAdmin, user.Role)
}

func TestResolveSynthesizesDefaultPatient(t *testing.T) {
	f := newFixture()
	userID := uuid.New()

	user := f.svc.Resolve(context.Background(), &userID, "nobody@example.com")
	require.NotNil(t, user)
	assert.Equal(t, model.RolePatient, user.Role)
	assert.Equal(t, model.StatusUnverified, user.Status)
	assert.Equal(t, "nobody", user.Name)
	assert.Equal(t, userID, user.ID)
}

func TestResolveNothingWithoutSession(t *testing.T) {
	f := newFixture()
	assert.Nil(t, f.svc.Resolve(context.Background(), nil, "ghost@example.com"))
}

func TestLoginDoctorSkipsProvider(t *testing.T) {
	f := newFixture()
	f.doctors.byEmail["doc@example.com"] = &model.Doctor{ID: uuid.New(), Name: "Doc", Email: "doc@example.com", Status: model.StatusActive}
	f.doctors.passwords["doc@example.com"] = "secret1"

	user, err := f.svc.Login(context.Background(), "doc@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, model.RoleDoctor, user.Role)
	assert.Zero(t, f.provider.signInCalls)

	// the doctor record must be cached locally
	_, ok := f.store.Get(localstore.KeyCurrentUser)
	assert.True(t, ok)
}

func TestLoginAdmin(t *testing.T) {
	f := newFixture()
	f.admins.byEmail["root@example.com"] = &model.Admin{ID: uuid.New(), Name: "Root", Email: "root@example.com", Status: model.StatusActive}
	f.admins.passwords["root@example.com"] = "hunter2"

	user, err := f.svc.Login(context.Background(), "root@example.com", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, user.Role)
	assert.Zero(t, f.provider.signInCalls)
}

func TestLoginPatientThroughProvider(t *testing.T) {
	f := newFixture()
	userID := uuid.New()
	f.provider.session = &model.Session{Token: "tok", UserID: userID, Email: "pat@example.com", ExpiresAt: time.Now().Add(time.Hour)}
	f.patients.byUserIDOrEmail = func(id uuid.UUID, email string) (*model.Patient, error) {
		return &model.Patient{ID: uuid.New(), UserID: userID, Name: "Pat", Email: "pat@example.com", Status: model.StatusActive}, nil
	}

	user, err := f.svc.Login(context.Background(), "pat@example.com", "password")
	require.NoError(t, err)
	assert.Equal(t, model.RolePatient, user.Role)
	assert.Equal(t, 1, f.provider.signInCalls)
}

func TestLoginWrongCredentialsIsGeneric(t *testing.T) {
	f := newFixture()
	f.doctors.byEmail["doc@example.com"] = &model.Doctor{ID: uuid.New(), Email: "doc@example.com"}
	f.doctors.passwords["doc@example.com"] = "right"

	user, err := f.svc.Login(context.Background(), "doc@example.com", "wrong")
	assert.Nil(t, user)
	assert.ErrorIs(t, err, ErrInvalidLogin)
}

func TestCurrentUserPrefersLocalRecord(t *testing.T) {
	f := newFixture()
	doctorID := uuid.New()
	f.doctors.byEmail["doc@example.com"] = &model.Doctor{ID: doctorID, Name: "Doc", Email: "doc@example.com", Status: model.StatusActive}
	f.store.Set(localstore.KeyCurrentUser,
		`{"id":"`+doctorID.String()+`","name":"Doc","email":"doc@example.com","role":"doctor"}`)

	// a provider session also exists, but the local record wins
	f.provider.session = &model.Session{Token: "tok", UserID: uuid.New(), Email: "pat@example.com", ExpiresAt: time.Now().Add(time.Hour)}

	user, err := f.svc.CurrentUser(context.Background())
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, model.RoleDoctor, user.Role)
	assert.Equal(t, doctorID, user.ID)
}

func TestCurrentUserClearsStaleLocalRecord(t *testing.T) {
	f := newFixture()
	f.store.Set(localstore.KeyCurrentUser,
		`{"id":"`+uuid.NewString()+`","name":"Gone","email":"gone@example.com","role":"doctor"}`)

	user, err := f.svc.CurrentUser(context.Background())
	require.NoError(t, err)
	assert.Nil(t, user)

	_, ok := f.store.Get(localstore.KeyCurrentUser)
	assert.False(t, ok)
}

func TestCurrentUserClearsCorruptLocalRecord(t *testing.T) {
	f := newFixture()
	f.store.Set(localstore.KeyCurrentUser, "{not json")

	userID := uuid.New()
	f.provider.session = &model.Session{Token: "tok", UserID: userID, Email: "pat@example.com", ExpiresAt: time.Now().Add(time.Hour)}

	user, err := f.svc.CurrentUser(context.Background())
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, model.RolePatient, user.Role)

	_, ok := f.store.Get(localstore.KeyCurrentUser)
	assert.False(t, ok)
}

func TestCurrentUserUnauthenticated(t *testing.T) {
	f := newFixture()
	user, err := f.svc.CurrentUser(context.Background())
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestSignupCreatesPatientRow(t *testing.T) {
	f := newFixture()
	userID := uuid.New()
	f.provider.session = &model.Session{Token: "tok", UserID: userID, Email: "new@example.com", ExpiresAt: time.Now().Add(time.Hour)}

	user, err := f.svc.Signup(context.Background(), "new@example.com", "password", "Newbie")
	require.NoError(t, err)
	require.NotNil(t, user)

	require.Len(t, f.patients.created, 1)
	assert.Equal(t, userID, f.patients.created[0].UserID)
	assert.Equal(t, "Newbie", f.patients.created[0].Name)
}

func TestSignupSurvivesProfileInsertFailure(t *testing.T) {
	f := newFixture()
	userID := uuid.New()
	f.provider.session = &model.Session{Token: "tok", UserID: userID, Email: "new@example.com", ExpiresAt: time.Now().Add(time.Hour)}
	f.patients.createErr = errors.New("db down")

	user, err := f.svc.Signup(context.Background(), "new@example.com", "password", "Newbie")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, model.StatusUnverified, user.Status)
	assert.Equal(t, "new", user.Name)
}

func TestLogoutClearsLocalRecordAndSession(t *testing.T) {
	f := newFixture()
	f.store.Set(localstore.KeyCurrentUser, `{"role":"doctor"}`)
	f.provider.session = &model.Session{Token: "tok", UserID: uuid.New(), Email: "pat@example.com"}

	require.NoError(t, f.svc.Logout(context.Background()))

	_, ok := f.store.Get(localstore.KeyCurrentUser)
	assert.False(t, ok)
	assert.Nil(t, f.provider.session)
}
