package model

import (
	"time"

	"github.com/google/uuid"
)

type InvitationStatus string

const (
	InvitationStatusPending  InvitationStatus = "PENDING"
	InvitationStatusAccepted InvitationStatus = "ACCEPTED"
	InvitationStatusExpired  InvitationStatus = "EXPIRED"
)

// ClinicInvitation invites an email address into a clinic with a role.
// Rows are never deleted; a token is single-use and once ACCEPTED the
// status can never transition again. EXPIRED is derived from expires_at
// on read and only persisted when a stale token is used for an accept.
type ClinicInvitation struct {
	ID        uuid.UUID        `json:"id" db:"id"`
	Token     string           `json:"token" db:"token"`
	Email     string           `json:"email" db:"email"`
	Role      string           `json:"role" db:"role"`
	ClinicID  uuid.UUID        `json:"clinic_id" db:"clinic_id"`
	InvitedBy uuid.UUID        `json:"invited_by" db:"invited_by"`
	Status    InvitationStatus `json:"status" db:"status"`
	ExpiresAt time.Time        `json:"expires_at" db:"expires_at"`
	CreatedAt time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt time.Time        `json:"updated_at" db:"updated_at"`
}

// EffectiveStatus derives the externally visible status without writing:
// a PENDING invitation past its expiry reads as EXPIRED.
func (i *ClinicInvitation) EffectiveStatus(now time.Time) InvitationStatus {
	if i.Status == InvitationStatusPending && now.After(i.ExpiresAt) {
		return InvitationStatusExpired
	}
	return i.Status
}

type CreateInvitationRequest struct {
	Email string `json:"email" binding:"required,email"`
	Role  string `json:"role" binding:"required,oneof=ADMIN DOCTOR STAFF"`
}

type AcceptInvitationRequest struct {
	Name     string  `json:"name" binding:"required"`
	Password string  `json:"password" binding:"required,min=8"`
	Phone    *string `json:"phone"`
}

// CheckInvitationResponse is returned by the public token check endpoint.
type CheckInvitationResponse struct {
	Invitation   InvitationDetails `json:"invitation"`
	ExistingUser bool              `json:"existing_user"`
}

type InvitationDetails struct {
	Email      string           `json:"email"`
	Role       string           `json:"role"`
	ClinicName string           `json:"clinic_name"`
	Status     InvitationStatus `json:"status"`
	ExpiresAt  time.Time        `json:"expires_at"`
}
