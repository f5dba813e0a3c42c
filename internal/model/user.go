package model

import (
	"time"

	"github.com/google/uuid"
)

// Clinic roles. Role is carried on the clinic membership, not the user:
// the same user may be a doctor in one clinic and plain staff in another.
const (
	RoleAdmin  = "ADMIN"
	RoleDoctor = "DOCTOR"
	RoleStaff  = "STAFF"
)

// User status constants
const (
	UserStatusActive   = "active"
	UserStatusInactive = "inactive"
)

// User represents a staff member or a registered portal account.
type User struct {
	Base
	Email        string  `json:"email" db:"email"`
	Name         string  `json:"name" db:"name"`
	PasswordHash string  `json:"-" db:"password_hash"`
	Phone        *string `json:"phone,omitempty" db:"phone"`
	Status       string  `json:"status" db:"status"`
}

// UserClinic is the join relation between users and clinics. One user may
// belong to multiple clinics; the active clinic is resolved as the earliest
// joined_at membership.
type UserClinic struct {
	UserID   uuid.UUID `json:"user_id" db:"user_id"`
	ClinicID uuid.UUID `json:"clinic_id" db:"clinic_id"`
	Role     string    `json:"role" db:"role"`
	JoinedAt time.Time `json:"joined_at" db:"joined_at"`
}

// Membership is a resolved tenant scope: the clinic every query must be
// restricted to, plus the caller's role in it.
type Membership struct {
	ClinicID uuid.UUID `json:"clinic_id" db:"clinic_id"`
	Role     string    `json:"role" db:"role"`
	JoinedAt time.Time `json:"joined_at" db:"joined_at"`
}

func (m *Membership) IsAdmin() bool {
	return m.Role == RoleAdmin
}
