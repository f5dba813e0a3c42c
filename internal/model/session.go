package model

import (
	"time"

	"github.com/google/uuid"
)

// Session is an opaque token issued by the external auth provider and
// synced into the sessions table. Exactly one of UserID / PatientID is set:
// staff sessions carry a user, portal sessions carry a patient.
type Session struct {
	Token     string     `json:"-" db:"token"`
	UserID    *uuid.UUID `json:"user_id,omitempty" db:"user_id"`
	PatientID *uuid.UUID `json:"patient_id,omitempty" db:"patient_id"`
	ExpiresAt time.Time  `json:"expires_at" db:"expires_at"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
}

func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// Auth provider webhook event types.
const (
	AuthEventSessionCreated = "session.created"
	AuthEventSessionRevoked = "session.revoked"
	AuthEventUserUpdated    = "user.updated"
)

// AuthSyncEvent is pushed by the external auth provider to the webhook
// endpoint, authenticated with a shared-secret JWT.
type AuthSyncEvent struct {
	Type    string              `json:"type" binding:"required,oneof=session.created session.revoked user.updated"`
	Session *AuthSessionPayload `json:"session"`
	User    *AuthUserPayload    `json:"user"`
}

type AuthSessionPayload struct {
	Token     string     `json:"token" binding:"required_if=Type session.created"`
	UserID    *uuid.UUID `json:"user_id"`
	PatientID *uuid.UUID `json:"patient_id"`
	ExpiresAt time.Time  `json:"expires_at"`
}

type AuthUserPayload struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
	Name  string    `json:"name"`
}
