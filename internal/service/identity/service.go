package identity

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/SiddhuQuant/dietec-api/internal/email"
	"github.com/SiddhuQuant/dietec-api/internal/localstore"
	"github.com/SiddhuQuant/dietec-api/internal/model"
	"github.com/SiddhuQuant/dietec-api/internal/repository"
	"github.com/SiddhuQuant/dietec-api/internal/session"
)

// ErrInvalidLogin is the only credential error surfaced to users. It is
// deliberately generic so login failures don't reveal whether an email
// is registered.
var ErrInvalidLogin = errors.New("invalid email or password")

// SessionProvider is the slice of the session provider the identity
// service consumes.
type SessionProvider interface {
	SignUp(ctx context.Context, email, password, name string) (*model.Session, error)
	SignInWithPassword(ctx context.Context, email, password string) (*model.Session, error)
	SignOut(ctx context.Context) error
	CurrentSession(ctx context.Context) (*model.Session, error)
}

// Service resolves identities across the three role tables and drives
// login, signup and session bootstrap. Resolution and bootstrap never
// hard-fail: backend errors degrade to a fallback identity or nil.
type Service struct {
	patients repository.PatientRepository
	doctors  repository.DoctorRepository
	admins   repository.AdminRepository
	provider SessionProvider
	store    *localstore.Store
	emailSvc email.Service
	logger   zerolog.Logger
}

func NewService(patients repository.PatientRepository, doctors repository.DoctorRepository,
	admins repository.AdminRepository, provider SessionProvider, store *localstore.Store,
	emailSvc email.Service, logger zerolog.Logger) *Service {
	return &Service{
		patients: patients,
		doctors:  doctors,
		admins:   admins,
		provider: provider,
		store:    store,
		emailSvc: emailSvc,
		logger:   logger,
	}
}

// Resolve determines the caller's role by probing the identity tables
// in a fixed order: patient, doctor, admin, first match wins. Patients
// match on session user id or email; doctors and admins are keyed by
// email only since they never hold a provider session. An authenticated
// session whose email matches nothing resolves to a synthesized default
// patient so the portal never deadlocks on an unresolvable identity.
func (s *Service) Resolve(ctx context.Context, userID *uuid.UUID, emailAddr string) *model.AuthUser {
	probeID := uuid.Nil
	if userID != nil {
		probeID = *userID
	}

	patient, err := s.patients.GetByUserIDOrEmail(ctx, probeID, emailAddr)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		s.logger.Warn().Err(err).Msg("patient probe failed, continuing resolution")
	}
	if patient != nil {
		return patientIdentity(patient)
	}

	if emailAddr != "" {
		doctor, err := s.doctors.GetByEmail(ctx, emailAddr)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			s.logger.Warn().Err(err).Msg("doctor probe failed, continuing resolution")
		}
		if doctor != nil {
			return doctorIdentity(doctor)
		}

		admin, err := s.admins.GetByEmail(ctx, emailAddr)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			s.logger.Warn().Err(err).Msg("admin probe failed, continuing resolution")
		}
		if admin != nil {
			return adminIdentity(admin)
		}
	}

	if userID != nil {
		// The provider authenticated someone; fall back to a default
		// patient identity rather than failing the login flow.
		return model.SynthesizedPatient(*userID, emailAddr)
	}

	return nil
}

// CurrentUser is the session bootstrap. Exactly one of three sources
// decides the outcome, checked in order: the locally cached
// doctor/admin record, the provider session, neither. The local record
// wins because those roles have no provider session to check against.
func (s *Service) CurrentUser(ctx context.Context) (*model.AuthUser, error) {
	if user := s.userFromLocalRecord(ctx); user != nil {
		return user, nil
	}

	sess, err := s.provider.CurrentSession(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("session check failed")
		return nil, nil
	}
	if sess == nil {
		return nil, nil
	}

	return s.Resolve(ctx, &sess.UserID, sess.Email), nil
}

// Login authenticates against the doctor and admin credential checks
// before touching the session provider: those credentials are never
// valid provider credentials, and trying the provider first would waste
// a round trip and produce a confusing provider-level error.
func (s *Service) Login(ctx context.Context, emailAddr, password string) (*model.AuthUser, error) {
	doctor, err := s.doctors.VerifyCredentials(ctx, emailAddr, password)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		s.logger.Warn().Err(err).Msg("doctor credential check failed, trying next")
	}
	if doctor != nil {
		user := doctorIdentity(doctor)
		s.persistLocalRecord(user)
		return user, nil
	}

	admin, err := s.admins.VerifyCredentials(ctx, emailAddr, password)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		s.logger.Warn().Err(err).Msg("admin credential check failed, trying next")
	}
	if admin != nil {
		user := adminIdentity(admin)
		s.persistLocalRecord(user)
		return user, nil
	}

	sess, err := s.provider.SignInWithPassword(ctx, emailAddr, password)
	if err != nil {
		return nil, ErrInvalidLogin
	}

	return s.Resolve(ctx, &sess.UserID, sess.Email), nil
}

// Signup registers a patient: a provider account plus a patient profile
// row keyed by the new session's user id. A failed profile insert is
// logged but not surfaced; the user is still signed up and resolves to
// the synthesized default patient until the row exists.
func (s *Service) Signup(ctx context.Context, emailAddr, password, name string) (*model.AuthUser, error) {
	sess, err := s.provider.SignUp(ctx, emailAddr, password, name)
	if err != nil {
		return nil, err
	}

	patient := &model.Patient{
		ID:     uuid.New(),
		UserID: sess.UserID,
		Name:   name,
		Email:  emailAddr,
		Status: model.StatusActive,
	}
	if err := s.patients.Create(ctx, patient); err != nil {
		s.logger.Error().Err(err).Str("email", emailAddr).Msg("failed to create patient profile, continuing signup")
	}

	go func() {
		if err := s.emailSvc.SendWelcome(context.Background(), emailAddr, name); err != nil {
			s.logger.Warn().Err(err).Str("email", emailAddr).Msg("failed to send welcome email")
		}
	}()

	return s.Resolve(ctx, &sess.UserID, emailAddr), nil
}

// Logout clears the local record and the provider session. Both are
// attempted regardless of which one held the identity.
func (s *Service) Logout(ctx context.Context) error {
	s.store.Remove(localstore.KeyCurrentUser)
	return s.provider.SignOut(ctx)
}

// userFromLocalRecord reads and re-validates the cached doctor/admin
// record. A record that fails to parse, or whose account no longer
// exists, is cleared so the next check falls through cleanly.
func (s *Service) userFromLocalRecord(ctx context.Context) *model.AuthUser {
	raw, ok := s.store.Get(localstore.KeyCurrentUser)
	if !ok {
		return nil
	}

	var stored model.StoredUser
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		s.logger.Warn().Err(err).Msg("corrupt local user record, clearing")
		s.store.Remove(localstore.KeyCurrentUser)
		return nil
	}

	switch stored.Role {
	case model.RoleDoctor:
		doctor, err := s.doctors.GetByEmail(ctx, stored.Email)
		if errors.Is(err, repository.ErrNotFound) {
			s.store.Remove(localstore.KeyCurrentUser)
			return nil
		}
		if err != nil {
			s.logger.Warn().Err(err).Msg("doctor revalidation failed, trusting local record")
			return &model.AuthUser{ID: stored.ID, Name: stored.Name, Email: stored.Email, Role: stored.Role, Status: model.StatusActive}
		}
		return doctorIdentity(doctor)
	case model.RoleAdmin:
		admin, err := s.admins.GetByEmail(ctx, stored.Email)
		if errors.Is(err, repository.ErrNotFound) {
			s.store.Remove(localstore.KeyCurrentUser)
			return nil
		}
		if err != nil {
			s.logger.Warn().Err(err).Msg("admin revalidation failed, trusting local record")
			return &model.AuthUser{ID: stored.ID, Name: stored.Name, Email: stored.Email, Role: stored.Role, Status: model.StatusActive}
		}
		return adminIdentity(admin)
	default:
		// Patients never live in the local store.
		s.store.Remove(localstore.KeyCurrentUser)
		return nil
	}
}

func (s *Service) persistLocalRecord(user *model.AuthUser) {
	record := model.StoredUser{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Role:  user.Role,
	}
	payload, err := json.Marshal(record)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to serialize local user record")
		return
	}
	s.store.Set(localstore.KeyCurrentUser, string(payload))
}

func patientIdentity(p *model.Patient) *model.AuthUser {
	return &model.AuthUser{
		ID:      p.UserID,
		Name:    p.Name,
		Email:   p.Email,
		Role:    model.RolePatient,
		Status:  p.Status,
		Profile: p,
	}
}

func doctorIdentity(d *model.Doctor) *model.AuthUser {
	return &model.AuthUser{
		ID:      d.ID,
		Name:    d.Name,
		Email:   d.Email,
		Role:    model.RoleDoctor,
		Status:  d.Status,
		Profile: d,
	}
}

func adminIdentity(a *model.Admin) *model.AuthUser {
	return &model.AuthUser{
		ID:      a.ID,
		Name:    a.Name,
		Email:   a.Email,
		Role:    model.RoleAdmin,
		Status:  a.Status,
		Profile: a,
	}
}

var _ SessionProvider = (*session.Provider)(nil)
