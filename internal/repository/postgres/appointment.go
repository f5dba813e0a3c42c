package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/clinovia/portal-api/internal/model"
	"github.com/clinovia/portal-api/internal/repository"
)

const appointmentColumns = `
	id, clinic_id, doctor_id, patient_id, start_time, end_time,
	status, notes, created_at, updated_at, deleted_at
`

func (r *appointmentRepository) Create(ctx context.Context, appointment *model.Appointment) error {
	query := `
		INSERT INTO appointments (
			id, clinic_id, doctor_id, patient_id,
			start_time, end_time, status, notes,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	appointment.ID = uuid.New()
	appointment.CreatedAt = time.Now()
	appointment.UpdatedAt = appointment.CreatedAt

	_, err := r.db.ExecContext(ctx, query,
		appointment.ID,
		appointment.ClinicID,
		appointment.DoctorID,
		appointment.PatientID,
		appointment.StartTime,
		appointment.EndTime,
		appointment.Status,
		appointment.Notes,
		appointment.CreatedAt,
		appointment.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create appointment: %w", translateErr(err))
	}
	return nil
}

func (r *appointmentRepository) Get(ctx context.Context, clinicID, id uuid.UUID) (*model.Appointment, error) {
	query := `SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE id = $1 AND clinic_id = $2 AND deleted_at IS NULL`

	var appointment model.Appointment
	err := r.db.GetContext(ctx, &appointment, query, id, clinicID)
	if err != nil {
		return nil, fmt.Errorf("failed to get appointment: %w", translateErr(err))
	}
	return &appointment, nil
}

func (r *appointmentRepository) List(ctx context.Context, clinicID uuid.UUID, filter *model.AppointmentFilter) ([]*model.Appointment, error) {
	query := `SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE clinic_id = $1 AND deleted_at IS NULL`
	args := []interface{}{clinicID}
	argCount := 2

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

	if filter.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", argCount)
		args = append(args, filter.Status)
		argCount++
	}

	if !filter.From.IsZero() {
		query += fmt.Sprintf(" AND start_time >= $%d", argCount)
		args = append(args, filter.From)
		argCount++
	}

	if !filter.To.IsZero() {
		query += fmt.Sprintf(" AND start_time < $%d", argCount)
		args = append(args, filter.To)
		argCount++
	}

	query += " ORDER BY start_time ASC"

	var appointments []*model.Appointment
	err := r.db.SelectContext(ctx, &appointments, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Appointment, error) {
	query := `SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE patient_id = $1 AND deleted_at IS NULL
		ORDER BY start_time DESC`

	var appointments []*model.Appointment
	err := r.db.SelectContext(ctx, &appointments, query, patientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list patient appointments: %w", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) Cancel(ctx context.Context, clinicID, id uuid.UUID) error {
	query := `
		UPDATE appointments
		SET status = $1, updated_at = $2
		WHERE id = $3 AND clinic_id = $4 AND status = $5 AND deleted_at IS NULL
	`
	result, err := r.db.ExecContext(ctx, query,
		model.AppointmentStatusCancelled, time.Now(), id, clinicID, model.AppointmentStatusScheduled)
	if err != nil {
		return fmt.Errorf("failed to cancel appointment: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return repository.ErrNotFound
	}
	return nil
}
