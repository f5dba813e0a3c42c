package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/clinovia/portal-api/internal/model"
)

func (r *orderRepository) CreateLab(ctx context.Context, order *model.LabOrder) error {
	query := `
		INSERT INTO lab_orders (
			id, clinic_id, patient_id, ordered_by, description,
			result, status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	order.ID = uuid.New()
	order.CreatedAt = time.Now()
	order.UpdatedAt = order.CreatedAt

	_, err := r.db.ExecContext(ctx, query,
		order.ID,
		order.ClinicID,
		order.PatientID,
		order.OrderedBy,
		order.Description,
		order.Result,
		order.Status,
		order.CreatedAt,
		order.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create lab order: %w", translateErr(err))
	}
	return nil
}

func (r *orderRepository) CreateImaging(ctx context.Context, order *model.ImagingOrder) error {
	query := `
		INSERT INTO imaging_orders (
			id, clinic_id, patient_id, ordered_by, modality,
			description, result, status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	order.ID = uuid.New()
	order.CreatedAt = time.Now()
	order.UpdatedAt = order.CreatedAt

	_, err := r.db.ExecContext(ctx, query,
		order.ID,
		order.ClinicID,
		order.PatientID,
		order.OrderedBy,
		order.Modality,
		order.Description,
		order.Result,
		order.Status,
		order.CreatedAt,
		order.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create imaging order: %w", translateErr(err))
	}
	return nil
}

func (r *orderRepository) GetLab(ctx context.Context, clinicID, id uuid.UUID) (*model.LabOrder, error) {
	query := `
		SELECT id, clinic_id, patient_id, ordered_by, description,
			   result, status, created_at, updated_at, deleted_at
		FROM lab_orders
		WHERE id = $1 AND clinic_id = $2
	`
	var order model.LabOrder
	err := r.db.GetContext(ctx, &order, query, id, clinicID)
	if err != nil {
		return nil, fmt.Errorf("failed to get lab order: %w", translateErr(err))
	}
	return &order, nil
}

func (r *orderRepository) GetImaging(ctx context.Context, clinicID, id uuid.UUID) (*model.ImagingOrder, error) {
	query := `
		SELECT id, clinic_id, patient_id, ordered_by, modality,
			   description, result, status, created_at, updated_at, deleted_at
		FROM imaging_orders
		WHERE id = $1 AND clinic_id = $2
	`
	var order model.ImagingOrder
	err := r.db.GetContext(ctx, &order, query, id, clinicID)
	if err != nil {
		return nil, fmt.Errorf("failed to get imaging order: %w", translateErr(err))
	}
	return &order, nil
}

func (r *orderRepository) ListLab(ctx context.Context, clinicID uuid.UUID, patientID *uuid.UUID) ([]*model.LabOrder, error) {
	query := `
		SELECT id, clinic_id, patient_id, ordered_by, description,
			   result, status, created_at, updated_at, deleted_at
		FROM lab_orders
		WHERE clinic_id = $1
	`
	args := []interface{}{clinicID}
	if patientID != nil {
		query += " AND patient_id = $2"
		args = append(args, *patientID)
	}
	query += " ORDER BY created_at DESC"

	var orders []*model.LabOrder
	err := r.db.SelectContext(ctx, &orders, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list lab orders: %w", err)
	}
	return orders, nil
}

func (r *orderRepository) ListImaging(ctx context.Context, clinicID uuid.UUID, patientID *uuid.UUID) ([]*model.ImagingOrder, error) {
	query := `
		SELECT id, clinic_id, patient_id, ordered_by, modality,
			   description, result, status, created_at, updated_at, deleted_at
		FROM imaging_orders
		WHERE clinic_id = $1
	`
	args := []interface{}{clinicID}
	if patientID != nil {
		query += " AND patient_id = $2"
		args = append(args, *patientID)
	}
	query += " ORDER BY created_at DESC"

	var orders []*model.ImagingOrder
	err := r.db.SelectContext(ctx, &orders, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list imaging orders: %w", err)
	}
	return orders, nil
}
