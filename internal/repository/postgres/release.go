package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/clinovia/portal-api/internal/model"
)

// Create appends a release marker. No uniqueness is enforced: repeated
// releases produce duplicate rows, which are harmless because visibility
// is "at least one row exists".
func (r *releaseRepository) Create(ctx context.Context, release *model.ResultRelease) error {
	query := `
		INSERT INTO result_releases (
			id, released_by, lab_order_id, imaging_order_id, created_at
		) VALUES ($1, $2, $3, $4, $5)
	`
	release.ID = uuid.New()
	release.CreatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		release.ID,
		release.ReleasedBy,
		release.LabOrderID,
		release.ImagingOrderID,
		release.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create result release: %w", translateErr(err))
	}
	return nil
}

func (r *releaseRepository) IsReleased(ctx context.Context, orderID uuid.UUID, kind model.ReleaseKind) (bool, error) {
	column := "lab_order_id"
	if kind == model.ReleaseKindImaging {
		column = "imaging_order_id"
	}
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM result_releases WHERE %s = $1)`, column)

	var released bool
	err := r.db.GetContext(ctx, &released, query, orderID)
	if err != nil {
		return false, fmt.Errorf("failed to check release: %w", err)
	}
	return released, nil
}

// ListReleasedForPatient returns the patient's released results, labs and
// imaging merged, newest release first. DISTINCT ON collapses duplicate
// release rows for the same order.
func (r *releaseRepository) ListReleasedForPatient(ctx context.Context, patientID uuid.UUID) ([]*model.PortalResult, error) {
	query := `
		SELECT order_id, kind, description, result, released_at FROM (
			SELECT DISTINCT ON (o.id)
				o.id AS order_id, 'lab' AS kind, o.description, o.result,
				rr.created_at AS released_at
			FROM lab_orders o
			JOIN result_releases rr ON rr.lab_order_id = o.id
			WHERE o.patient_id = $1
			ORDER BY o.id, rr.created_at ASC
		) labs
		UNION ALL
		SELECT order_id, kind, description, result, released_at FROM (
			SELECT DISTINCT ON (o.id)
				o.id AS order_id, 'imaging' AS kind, o.description, o.result,
				rr.created_at AS released_at
			FROM imaging_orders o
			JOIN result_releases rr ON rr.imaging_order_id = o.id
			WHERE o.patient_id = $1
			ORDER BY o.id, rr.created_at ASC
		) imaging
		ORDER BY released_at DESC
	`
	var results []*model.PortalResult
	err := r.db.SelectContext(ctx, &results, query, patientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list released results: %w", err)
	}
	return results, nil
}
