package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/clinovia/portal-api/internal/model"
	"github.com/clinovia/portal-api/internal/repository"
)

const patientColumns = `
	id, clinic_id, user_id, name, email, phone, date_of_birth,
	gender, address, status, created_at, updated_at, deleted_at
`

func (r *patientRepository) Create(ctx context.Context, patient *model.Patient) error {
	query := `
		INSERT INTO patients (
			id, clinic_id, user_id, name, email, phone, date_of_birth,
			gender, address, status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	patient.ID = uuid.New()
	patient.CreatedAt = time.Now()
	patient.UpdatedAt = patient.CreatedAt

	_, err := r.db.ExecContext(ctx, query,
		patient.ID,
		patient.ClinicID,
		patient.UserID,
		patient.Name,
		patient.Email,
		patient.Phone,
		patient.DateOfBirth,
		patient.Gender,
		patient.Address,
		patient.Status,
		patient.CreatedAt,
		patient.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create patient: %w", translateErr(err))
	}
	return nil
}

// Get is clinic-scoped: a patient belonging to another clinic reads as not
// found, never as forbidden.
func (r *patientRepository) Get(ctx context.Context, clinicID, id uuid.UUID) (*model.Patient, error) {
	query := `SELECT ` + patientColumns + ` FROM patients WHERE id = $1 AND clinic_id = $2`

	var patient model.Patient
	err := r.db.GetContext(ctx, &patient, query, id, clinicID)
	if err != nil {
		return nil, fmt.Errorf("failed to get patient: %w", translateErr(err))
	}
	return &patient, nil
}

// GetAny looks a patient up without clinic scoping. Reserved for portal
// session resolution where the patient id comes from the session itself.
func (r *patientRepository) GetAny(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	query := `SELECT ` + patientColumns + ` FROM patients WHERE id = $1 AND deleted_at IS NULL`

	var patient model.Patient
	err := r.db.GetContext(ctx, &patient, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get patient: %w", translateErr(err))
	}
	return &patient, nil
}

func (r *patientRepository) List(ctx context.Context, clinicID uuid.UUID, filter *model.PatientFilter) ([]*model.Patient, error) {
	query := `SELECT ` + patientColumns + ` FROM patients WHERE clinic_id = $1`
	args := []interface{}{clinicID}
	argCount := 2

	if !filter.IncludeDeleted {
		query += " AND deleted_at IS NULL"
	}

	if filter.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", argCount)
		args = append(args, filter.Status)
		argCount++
	}

	if filter.SearchTerm != "" {
		query += fmt.Sprintf(" AND (name ILIKE $%d OR email ILIKE $%d)", argCount, argCount)
		args = append(args, "%"+filter.SearchTerm+"%")
		argCount++
	}

	filter.Normalize()
	query += fmt.Sprintf(" ORDER BY name ASC LIMIT $%d OFFSET $%d", argCount, argCount+1)
	args = append(args, filter.PageSize, (filter.Page-1)*filter.PageSize)

	var patients []*model.Patient
	err := r.db.SelectContext(ctx, &patients, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list patients: %w", err)
	}
	return patients, nil
}

func (r *patientRepository) Update(ctx context.Context, patient *model.Patient) error {
	query := `
		UPDATE patients
		SET name = $1, email = $2, phone = $3, address = $4, status = $5, updated_at = $6
		WHERE id = $7 AND clinic_id = $8 AND deleted_at IS NULL
	`
	patient.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		patient.Name,
		patient.Email,
		patient.Phone,
		patient.Address,
		patient.Status,
		patient.UpdatedAt,
		patient.ID,
		patient.ClinicID,
	)
	if err != nil {
		return fmt.Errorf("failed to update patient: %w", translateErr(err))
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

func (r *patientRepository) SoftDelete(ctx context.Context, clinicID, id uuid.UUID) error {
	query := `
		UPDATE patients
		SET deleted_at = $1, updated_at = $1
		WHERE id = $2 AND clinic_id = $3 AND deleted_at IS NULL
	`
	result, err := r.db.ExecContext(ctx, query, time.Now(), id, clinicID)
	if err != nil {
		return fmt.Errorf("failed to delete patient: %w", err)
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

func (r *patientRepository) Restore(ctx context.Context, clinicID, id uuid.UUID) (*model.Patient, error) {
	query := `
		UPDATE patients
		SET deleted_at = NULL, updated_at = $1
		WHERE id = $2 AND clinic_id = $3 AND deleted_at IS NOT NULL
		RETURNING ` + patientColumns

	var patient model.Patient
	err := r.db.GetContext(ctx, &patient, query, time.Now(), id, clinicID)
	if err != nil {
		return nil, fmt.Errorf("failed to restore patient: %w", translateErr(err))
	}
	return &patient, nil
}
