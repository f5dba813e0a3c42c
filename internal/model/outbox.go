package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type OutboxStatus string

const (
	OutboxStatusPending   OutboxStatus = "pending"
	OutboxStatusProcessed OutboxStatus = "processed"
	OutboxStatusFailed    OutboxStatus = "failed"
)

// Event types published through the outbox.
const (
	EventInvitationCreated  = "invitation.created"
	EventInvitationAccepted = "invitation.accepted"
	EventRequestSubmitted   = "appointment_request.submitted"
	EventRequestDecided     = "appointment_request.decided"
	EventResultReleased     = "result.released"
)

type OutboxEvent struct {
	ID           uuid.UUID       `db:"id" json:"id"`
	EventType    string          `db:"event_type" json:"event_type"`
	Payload      json.RawMessage `db:"payload" json:"payload"`
	Status       OutboxStatus    `db:"status" json:"status"`
	ErrorMessage *string         `db:"error_message" json:"error_message,omitempty"`
	RetryCount   int             `db:"retry_count" json:"retry_count"`
	RetryAt      *time.Time      `db:"retry_at" json:"retry_at,omitempty"`
	ProcessedAt  *time.Time      `db:"processed_at" json:"processed_at,omitempty"`
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time       `db:"updated_at" json:"updated_at"`
}

// InvitationEmailPayload is the invitation.created payload the mail worker
// consumes.
type InvitationEmailPayload struct {
	Email      string    `json:"email"`
	ClinicName string    `json:"clinic_name"`
	Role       string    `json:"role"`
	Token      string    `json:"token"`
	ExpiresAt  time.Time `json:"expires_at"`
}
