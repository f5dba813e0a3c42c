package model

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentRequestStatus string

const (
	AppointmentRequestStatusPending  AppointmentRequestStatus = "PENDING"
	AppointmentRequestStatusApproved AppointmentRequestStatus = "APPROVED"
	AppointmentRequestStatusRejected AppointmentRequestStatus = "REJECTED"
)

// AppointmentRequest records a portal patient's intent to be seen. It is
// created by the patient and mutated only by clinic staff; history is
// retained, there is no hard delete. Approval does not create a confirmed
// appointment, that is a separate CRUD path.
type AppointmentRequest struct {
	ID             uuid.UUID                `json:"id" db:"id"`
	PatientID      uuid.UUID                `json:"patient_id" db:"patient_id"`
	ClinicID       uuid.UUID                `json:"clinic_id" db:"clinic_id"`
	DoctorID       uuid.UUID                `json:"doctor_id" db:"doctor_id"`
	RequestedStart time.Time                `json:"requested_start" db:"requested_start"`
	Reason         string                   `json:"reason" db:"reason"`
	Status         AppointmentRequestStatus `json:"status" db:"status"`
	DecidedBy      *uuid.UUID               `json:"decided_by,omitempty" db:"decided_by"`
	DecidedAt      *time.Time               `json:"decided_at,omitempty" db:"decided_at"`
	CreatedAt      time.Time                `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time                `json:"updated_at" db:"updated_at"`
}

// SubmitAppointmentRequest is the portal request body. Date and time arrive
// as separate fields and are combined server-side.
type SubmitAppointmentRequest struct {
	Date     string `json:"date" binding:"required,datetime=2006-01-02"`
	Time     string `json:"time" binding:"required,timehhmm"`
	DoctorID string `json:"doctor_id" binding:"required,uuid"`
	Reason   string `json:"reason" binding:"required"`
}

type AppointmentRequestFilter struct {
	Status    AppointmentRequestStatus `form:"status"`
	DoctorID  uuid.UUID                `form:"doctor_id"`
	PatientID uuid.UUID                `form:"patient_id"`
	Pagination
}
