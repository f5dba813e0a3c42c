package model

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	AppointmentStatusScheduled AppointmentStatus = "scheduled"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
	AppointmentStatusCompleted AppointmentStatus = "completed"
)

// Appointment is the confirmed booking. Plain clinic-scoped CRUD with no
// conflict detection; scheduling intent goes through AppointmentRequest.
type Appointment struct {
	Base
	ClinicID  uuid.UUID         `json:"clinic_id" db:"clinic_id"`
	DoctorID  uuid.UUID         `json:"doctor_id" db:"doctor_id"`
	PatientID uuid.UUID         `json:"patient_id" db:"patient_id"`
	StartTime time.Time         `json:"start_time" db:"start_time"`
	EndTime   time.Time         `json:"end_time" db:"end_time"`
	Status    AppointmentStatus `json:"status" db:"status"`
	Notes     string            `json:"notes,omitempty" db:"notes"`
}

type CreateAppointmentRequest struct {
	PatientID string    `json:"patient_id" binding:"required,uuid"`
	DoctorID  string    `json:"doctor_id" binding:"required,uuid"`
	StartTime time.Time `json:"start_time" binding:"required"`
	EndTime   time.Time `json:"end_time" binding:"required,gtfield=StartTime"`
	Notes     string    `json:"notes" binding:"max=1000"`
}

type AppointmentFilter struct {
	DoctorID  uuid.UUID         `form:"doctor_id"`
	PatientID uuid.UUID         `form:"patient_id"`
	Status    AppointmentStatus `form:"status"`
	From      time.Time         `form:"from" time_format:"2006-01-02"`
	To        time.Time         `form:"to" time_format:"2006-01-02"`
}
