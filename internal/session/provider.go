package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/SiddhuQuant/dietec-api/internal/model"
	"github.com/SiddhuQuant/dietec-api/internal/repository"
	"github.com/SiddhuQuant/dietec-api/pkg/security"
	"github.com/SiddhuQuant/dietec-api/pkg/validator"
)

var (
	ErrNoSession          = errors.New("no active session")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
)

const eventBuffer = 16

// Provider issues and validates patient sessions. It mirrors the hosted
// auth client it replaces: one ambient current session, signed JWT
// tokens, and signed-in/signed-out transition events. Doctors and
// admins never pass through here.
type Provider struct {
	accounts repository.AuthAccountRepository
	store    Store
	hasher   security.PasswordHasher
	validate *validator.Validator
	secret   []byte
	ttl      time.Duration
	logger   zerolog.Logger

	mu      sync.RWMutex
	current *model.Session

	events chan model.SessionEvent
}

func NewProvider(accounts repository.AuthAccountRepository, store Store, hasher security.PasswordHasher,
	secret string, ttl time.Duration, logger zerolog.Logger) *Provider {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Provider{
		accounts: accounts,
		store:    store,
		hasher:   hasher,
		validate: validator.New(),
		secret:   []byte(secret),
		ttl:      ttl,
		logger:   logger,
		events:   make(chan model.SessionEvent, eventBuffer),
	}
}

// SignUp creates a provider account and opens a session for it.
func (p *Provider) SignUp(ctx context.Context, email, password, name string) (*model.Session, error) {
	if err := p.validate.Var(email, "required,email"); err != nil {
		return nil, errors.New("invalid email address")
	}
	if err := p.validate.Var(password, "required,min=6"); err != nil {
		return nil, errors.New("password must be at least 6 characters")
	}

	if existing, _ := p.accounts.GetByEmail(ctx, email); existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := p.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	account := &model.AuthAccount{
		ID:           uuid.New(),
		Email:        email,
		Name:         name,
		PasswordHash: hash,
	}
	if err := p.accounts.Create(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	return p.openSession(ctx, account)
}

// SignInWithPassword authenticates a patient account. The error never
// distinguishes an unknown email from a wrong password.
func (p *Provider) SignInWithPassword(ctx context.Context, email, password string) (*model.Session, error) {
	account, err := p.accounts.GetByEmail(ctx, email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := p.hasher.Compare(account.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}

	return p.openSession(ctx, account)
}

// SignOut closes the current session. Signing out with no session is a
// no-op.
func (p *Provider) SignOut(ctx context.Context) error {
	p.mu.Lock()
	current := p.current
	p.current = nil
	p.mu.Unlock()

	if current == nil {
		return nil
	}

	if err := p.store.Delete(ctx, current.Token); err != nil {
		p.logger.Warn().Err(err).Msg("failed to delete session from store")
	}

	p.publish(model.SessionEvent{Type: model.SessionSignedOut})
	return nil
}

// CurrentSession returns the active session, re-validated against the
// store, or nil when unauthenticated.
func (p *Provider) CurrentSession(ctx context.Context) (*model.Session, error) {
	p.mu.RLock()
	current := p.current
	p.mu.RUnlock()

	if current == nil {
		return nil, nil
	}

	s, err := p.store.Get(ctx, current.Token)
	if errors.Is(err, ErrNoSession) {
		p.mu.Lock()
		if p.current == current {
			p.current = nil
		}
		p.mu.Unlock()
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

// SessionFromToken validates a bearer token and returns its session.
func (p *Provider) SessionFromToken(ctx context.Context, token string) (*model.Session, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return p.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrNoSession
	}

	return p.store.Get(ctx, token)
}

// Events exposes session-state transitions (signed-in / signed-out).
// Token-refresh and user-update transitions are never published.
func (p *Provider) Events() <-chan model.SessionEvent {
	return p.events
}

func (p *Provider) openSession(ctx context.Context, account *model.AuthAccount) (*model.Session, error) {
	expiresAt := time.Now().Add(p.ttl)

	claims := jwt.MapClaims{
		"sub":   account.ID.String(),
		"email": account.Email,
		"exp":   expiresAt.Unix(),
		"iat":   time.Now().Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign session token: %w", err)
	}

	s := &model.Session{
		Token:     token,
		UserID:    account.ID,
		Email:     account.Email,
		Name:      account.Name,
		ExpiresAt: expiresAt,
	}
	if err := p.store.Save(ctx, s); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	p.mu.Lock()
	p.current = s
	p.mu.Unlock()

	p.publish(model.SessionEvent{Type: model.SessionSignedIn, Session: s})
	return s, nil
}

func (p *Provider) publish(event model.SessionEvent) {
	select {
	case p.events <- event:
	default:
		p.logger.Debug().Str("type", string(event.Type)).Msg("session event dropped, no listener")
	}
}
