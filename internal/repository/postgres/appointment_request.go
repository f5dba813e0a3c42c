package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/clinovia/portal-api/internal/model"
	"github.com/clinovia/portal-api/internal/repository"
)

const appointmentRequestColumns = `
	id, patient_id, clinic_id, doctor_id, requested_start, reason,
	status, decided_by, decided_at, created_at, updated_at
`

func (r *appointmentRequestRepository) CreateWithEvent(ctx context.Context, req *model.AppointmentRequest, event *model.OutboxEvent) error {
	req.ID = uuid.New()
	req.Status = model.AppointmentRequestStatusPending
	req.CreatedAt = time.Now()
	req.UpdatedAt = req.CreatedAt

	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		query := `
			INSERT INTO appointment_requests (
				id, patient_id, clinic_id, doctor_id, requested_start,
				reason, status, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`
		_, err := tx.ExecContext(ctx, query,
			req.ID,
			req.PatientID,
			req.ClinicID,
			req.DoctorID,
			req.RequestedStart,
			req.Reason,
			req.Status,
			req.CreatedAt,
			req.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to create appointment request: %w", translateErr(err))
		}

		if event != nil {
			if err := insertOutboxEventTx(ctx, tx, event); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *appointmentRequestRepository) Get(ctx context.Context, clinicID, id uuid.UUID) (*model.AppointmentRequest, error) {
	query := `SELECT ` + appointmentRequestColumns + `
		FROM appointment_requests
		WHERE id = $1 AND clinic_id = $2`

	var req model.AppointmentRequest
	err := r.db.GetContext(ctx, &req, query, id, clinicID)
	if err != nil {
		return nil, fmt.Errorf("failed to get appointment request: %w", translateErr(err))
	}
	return &req, nil
}

func (r *appointmentRequestRepository) List(ctx context.Context, clinicID uuid.UUID, filter *model.AppointmentRequestFilter) ([]*model.AppointmentRequest, error) {
	query := `SELECT ` + appointmentRequestColumns + `
		FROM appointment_requests
		WHERE clinic_id = $1`
	args := []interface{}{clinicID}
	argCount := 2

	if filter.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", argCount)
		args = append(args, filter.Status)
		argCount++
	}

	if filter.DoctorID != uuid.Nil {
		query += fmt.Sprintf(" AND doctor_id = $%d", argCount)
		args = append(args, filter.DoctorID)
		argCount++
	}

	if filter.PatientID != uuid.Nil {
		query += fmt.Sprintf(" AND patient_id = $%d", argCount)
		args = append(args, filter.PatientID)
		argCount++
	}

	filter.Normalize()
	query += fmt.Sprintf(" ORDER BY requested_start ASC LIMIT $%d OFFSET $%d", argCount, argCount+1)
	args = append(args, filter.PageSize, (filter.Page-1)*filter.PageSize)

	var requests []*model.AppointmentRequest
	err := r.db.SelectContext(ctx, &requests, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointment requests: %w", err)
	}
	return requests, nil
}

func (r *appointmentRequestRepository) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*model.AppointmentRequest, error) {
	query := `SELECT ` + appointmentRequestColumns + `
		FROM appointment_requests
		WHERE patient_id = $1
		ORDER BY requested_start DESC`

	var requests []*model.AppointmentRequest
	err := r.db.SelectContext(ctx, &requests, query, patientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list patient requests: %w", err)
	}
	return requests, nil
}

// Decide transitions PENDING to APPROVED or REJECTED. The status guard in
// the WHERE clause keeps concurrent decisions from overwriting each other;
// a request that was already decided returns ErrStaleStatus, one outside
// the clinic scope returns ErrNotFound.
func (r *appointmentRequestRepository) Decide(ctx context.Context, clinicID, id uuid.UUID, status model.AppointmentRequestStatus, decidedBy uuid.UUID) (*model.AppointmentRequest, error) {
	query := `
		UPDATE appointment_requests
		SET status = $1, decided_by = $2, decided_at = $3, updated_at = $3
		WHERE id = $4 AND clinic_id = $5 AND status = $6
		RETURNING ` + appointmentRequestColumns

	var req model.AppointmentRequest
	err := r.db.GetContext(ctx, &req, query,
		status, decidedBy, time.Now(), id, clinicID, model.AppointmentRequestStatusPending)
	if err == nil {
		return &req, nil
	}

	if translateErr(err) == repository.ErrNotFound {
		// Distinguish "gone" from "already decided" for the caller.
		var exists bool
		checkErr := r.db.GetContext(ctx, &exists,
			`SELECT EXISTS (SELECT 1 FROM appointment_requests WHERE id = $1 AND clinic_id = $2)`,
			id, clinicID)
		if checkErr == nil && exists {
			return nil, repository.ErrStaleStatus
		}
		return nil, repository.ErrNotFound
	}
	return nil, fmt.Errorf("failed to decide appointment request: %w", err)
}
