package model

import (
	"time"

	"github.com/google/uuid"
)

// ReleaseKind selects which order table a release row points at.
type ReleaseKind string

const (
	ReleaseKindLab     ReleaseKind = "lab"
	ReleaseKindImaging ReleaseKind = "imaging"
)

func (k ReleaseKind) Valid() bool {
	return k == ReleaseKindLab || k == ReleaseKindImaging
}

const (
	OrderStatusOrdered   = "ordered"
	OrderStatusCompleted = "completed"
)

type LabOrder struct {
	Base
	ClinicID    uuid.UUID `json:"clinic_id" db:"clinic_id"`
	PatientID   uuid.UUID `json:"patient_id" db:"patient_id"`
	OrderedBy   uuid.UUID `json:"ordered_by" db:"ordered_by"`
	Description string    `json:"description" db:"description"`
	Result      *string   `json:"result,omitempty" db:"result"`
	Status      string    `json:"status" db:"status"`
}

type ImagingOrder struct {
	Base
	ClinicID    uuid.UUID `json:"clinic_id" db:"clinic_id"`
	PatientID   uuid.UUID `json:"patient_id" db:"patient_id"`
	OrderedBy   uuid.UUID `json:"ordered_by" db:"ordered_by"`
	Modality    string    `json:"modality" db:"modality"`
	Description string    `json:"description" db:"description"`
	Result      *string   `json:"result,omitempty" db:"result"`
	Status      string    `json:"status" db:"status"`
}

// ResultRelease is an append-only visibility marker: the existence of at
// least one row makes the referenced result visible to the portal. Exactly
// one of LabOrderID / ImagingOrderID is set, enforced by a DB CHECK.
// There is no un-release.
type ResultRelease struct {
	ID             uuid.UUID  `json:"id" db:"id"`
	ReleasedBy     uuid.UUID  `json:"released_by" db:"released_by"`
	LabOrderID     *uuid.UUID `json:"lab_order_id,omitempty" db:"lab_order_id"`
	ImagingOrderID *uuid.UUID `json:"imaging_order_id,omitempty" db:"imaging_order_id"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
}

type CreateLabOrderRequest struct {
	PatientID   string `json:"patient_id" binding:"required,uuid"`
	Description string `json:"description" binding:"required"`
}

type CreateImagingOrderRequest struct {
	PatientID   string `json:"patient_id" binding:"required,uuid"`
	Modality    string `json:"modality" binding:"required"`
	Description string `json:"description" binding:"required"`
}

// PortalResult is a released lab or imaging result as shown to the patient.
type PortalResult struct {
	OrderID     uuid.UUID   `json:"order_id" db:"order_id"`
	Kind        ReleaseKind `json:"kind" db:"kind"`
	Description string      `json:"description" db:"description"`
	Result      *string     `json:"result,omitempty" db:"result"`
	ReleasedAt  time.Time   `json:"released_at" db:"released_at"`
}
