package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/clinovia/portal-api/internal/model"
)

func (r *clinicRepository) Get(ctx context.Context, id uuid.UUID) (*model.Clinic, error) {
	query := `
		SELECT id, name, address, phone, timezone, status,
			   created_at, updated_at, deleted_at
		FROM clinics
		WHERE id = $1 AND deleted_at IS NULL
	`
	var clinic model.Clinic
	err := r.db.GetContext(ctx, &clinic, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get clinic: %w", translateErr(err))
	}
	return &clinic, nil
}
