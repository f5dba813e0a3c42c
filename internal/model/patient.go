package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	PatientStatusActive   = "active"
	PatientStatusInactive = "inactive"
)

// Patient is soft-deleted via deleted_at rather than removed; restore is
// an explicit admin action that clears the flag.
type Patient struct {
	Base
	ClinicID    uuid.UUID  `json:"clinic_id" db:"clinic_id"`
	UserID      *uuid.UUID `json:"user_id,omitempty" db:"user_id"`
	Name        string     `json:"name" db:"name"`
	Email       string     `json:"email" db:"email"`
	Phone       *string    `json:"phone,omitempty" db:"phone"`
	DateOfBirth *time.Time `json:"date_of_birth,omitempty" db:"date_of_birth"`
	Gender      *string    `json:"gender,omitempty" db:"gender"`
	Address     *string    `json:"address,omitempty" db:"address"`
	Status      string     `json:"status" db:"status"`
}

type CreatePatientRequest struct {
	Name        string  `json:"name" binding:"required"`
	Email       string  `json:"email" binding:"required,email"`
	Phone       *string `json:"phone"`
	DateOfBirth *string `json:"date_of_birth" binding:"omitempty,datetime=2006-01-02"`
	Gender      *string `json:"gender" binding:"omitempty,oneof=male female other"`
	Address     *string `json:"address"`
}

type UpdatePatientRequest struct {
	Name    *string `json:"name"`
	Email   *string `json:"email" binding:"omitempty,email"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
	Status  *string `json:"status" binding:"omitempty,oneof=active inactive"`
}

type PatientFilter struct {
	BaseFilter
	IncludeDeleted bool `json:"include_deleted" form:"include_deleted"`
}
