package model

import (
	"time"

	"github.com/google/uuid"
)

// Session is an active provider session. Only patients hold these;
// doctor/admin logins bypass the provider entirely.
type Session struct {
	Token     string    `json:"token"`
	UserID    uuid.UUID `json:"user_id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	ExpiresAt time.Time `json:"expires_at"`
}

type SessionEventType string

const (
	SessionSignedIn  SessionEventType = "signed_in"
	SessionSignedOut SessionEventType = "signed_out"
)

// SessionEvent is published on session-state transitions. Token refresh
// and user-update transitions are not reported.
type SessionEvent struct {
	Type    SessionEventType `json:"type"`
	Session *Session         `json:"session,omitempty"`
}
