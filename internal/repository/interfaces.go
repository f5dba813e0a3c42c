package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/clinovia/portal-api/internal/model"
)

// Sentinel errors surfaced by repositories. Services translate these into
// the API error taxonomy.
var (
	// ErrNotFound is returned when a row does not exist or is outside the
	// caller's clinic scope. The two cases are deliberately indistinguishable.
	ErrNotFound = errors.New("not found")

	// ErrStaleStatus is returned when a conditional status update matched no
	// rows because the row is no longer in the expected state.
	ErrStaleStatus = errors.New("status already transitioned")

	// ErrDuplicate is returned on unique constraint violations.
	ErrDuplicate = errors.New("duplicate record")
)

// AcceptInvitationParams carries everything the single accept transaction
// needs: the conditional invitation update, user creation or linking, the
// membership insert, and the follow-up outbox event.
type AcceptInvitationParams struct {
	InvitationID uuid.UUID
	User         *model.User
	Membership   *model.UserClinic
	LinkPatient  bool
	Event        *model.OutboxEvent
}

type (
	InvitationRepository interface {
		// CreateWithEvent inserts the invitation and its delivery event in
		// one transaction (transactional outbox).
		CreateWithEvent(ctx context.Context, inv *model.ClinicInvitation, event *model.OutboxEvent) error
		GetByToken(ctx context.Context, token string) (*model.ClinicInvitation, error)
		ListByClinic(ctx context.Context, clinicID uuid.UUID) ([]*model.ClinicInvitation, error)
		// MarkExpired transitions PENDING to EXPIRED; reports whether a row
		// actually transitioned.
		MarkExpired(ctx context.Context, id uuid.UUID) (bool, error)
		// Accept performs the guarded accept transaction. Returns
		// ErrStaleStatus when the invitation is no longer PENDING.
		Accept(ctx context.Context, params *AcceptInvitationParams) error
	}

	UserRepository interface {
		Get(ctx context.Context, id uuid.UUID) (*model.User, error)
		GetByEmail(ctx context.Context, email string) (*model.User, error)
		ExistsByEmail(ctx context.Context, email string) (bool, error)
		Upsert(ctx context.Context, user *model.User) error
	}

	MembershipRepository interface {
		// ResolveClinic returns the membership with minimum joined_at for
		// the user, or ErrNotFound when the user has no clinic.
		ResolveClinic(ctx context.Context, userID uuid.UUID) (*model.Membership, error)
		ListDoctors(ctx context.Context, clinicID uuid.UUID) ([]*model.User, error)
		IsDoctorInClinic(ctx context.Context, doctorID, clinicID uuid.UUID) (bool, error)
	}

	ClinicRepository interface {
		Get(ctx context.Context, id uuid.UUID) (*model.Clinic, error)
	}

	PatientRepository interface {
		Create(ctx context.Context, patient *model.Patient) error
		Get(ctx context.Context, clinicID, id uuid.UUID) (*model.Patient, error)
		GetAny(ctx context.Context, id uuid.UUID) (*model.Patient, error)
		List(ctx context.Context, clinicID uuid.UUID, filter *model.PatientFilter) ([]*model.Patient, error)
		Update(ctx context.Context, patient *model.Patient) error
		SoftDelete(ctx context.Context, clinicID, id uuid.UUID) error
		Restore(ctx context.Context, clinicID, id uuid.UUID) (*model.Patient, error)
	}

	AppointmentRequestRepository interface {
		CreateWithEvent(ctx context.Context, req *model.AppointmentRequest, event *model.OutboxEvent) error
		Get(ctx context.Context, clinicID, id uuid.UUID) (*model.AppointmentRequest, error)
		List(ctx context.Context, clinicID uuid.UUID, filter *model.AppointmentRequestFilter) ([]*model.AppointmentRequest, error)
		ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*model.AppointmentRequest, error)
		// Decide transitions PENDING to the terminal status; ErrStaleStatus
		// when the request was already decided.
		Decide(ctx context.Context, clinicID, id uuid.UUID, status model.AppointmentRequestStatus, decidedBy uuid.UUID) (*model.AppointmentRequest, error)
	}

	AppointmentRepository interface {
		Create(ctx context.Context, appointment *model.Appointment) error
		Get(ctx context.Context, clinicID, id uuid.UUID) (*model.Appointment, error)
		List(ctx context.Context, clinicID uuid.UUID, filter *model.AppointmentFilter) ([]*model.Appointment, error)
		ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Appointment, error)
		Cancel(ctx context.Context, clinicID, id uuid.UUID) error
	}

	OrderRepository interface {
		CreateLab(ctx context.Context, order *model.LabOrder) error
		CreateImaging(ctx context.Context, order *model.ImagingOrder) error
		GetLab(ctx context.Context, clinicID, id uuid.UUID) (*model.LabOrder, error)
		GetImaging(ctx context.Context, clinicID, id uuid.UUID) (*model.ImagingOrder, error)
		ListLab(ctx context.Context, clinicID uuid.UUID, patientID *uuid.UUID) ([]*model.LabOrder, error)
		ListImaging(ctx context.Context, clinicID uuid.UUID, patientID *uuid.UUID) ([]*model.ImagingOrder, error)
	}

	ReleaseRepository interface {
		Create(ctx context.Context, release *model.ResultRelease) error
		IsReleased(ctx context.Context, orderID uuid.UUID, kind model.ReleaseKind) (bool, error)
		ListReleasedForPatient(ctx context.Context, patientID uuid.UUID) ([]*model.PortalResult, error)
	}

	SessionRepository interface {
		Get(ctx context.Context, token string) (*model.Session, error)
		Upsert(ctx context.Context, session *model.Session) error
		Delete(ctx context.Context, token string) error
	}

	OutboxRepository interface {
		Create(ctx context.Context, event *model.OutboxEvent) error
		GetPendingEventsWithLock(ctx context.Context, limit, maxRetries int) ([]*model.OutboxEvent, error)
		UpdateStatus(ctx context.Context, id uuid.UUID, status model.OutboxStatus, errorMessage *string, retryAt *time.Time) error
		DeleteProcessedBefore(ctx context.Context, before time.Time) (int64, error)
	}
)
