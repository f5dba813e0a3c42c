package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/clinovia/portal-api/internal/model"
)

// ResolveClinic picks the earliest membership. The secondary order on
// clinic_id makes resolution deterministic when two memberships share a
// joined_at timestamp.
func (r *membershipRepository) ResolveClinic(ctx context.Context, userID uuid.UUID) (*model.Membership, error) {
	query := `
		SELECT clinic_id, role, joined_at
		FROM user_clinics
		WHERE user_id = $1
		ORDER BY joined_at ASC, clinic_id ASC
		LIMIT 1
	`
	var membership model.Membership
	err := r.db.GetContext(ctx, &membership, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve clinic: %w", translateErr(err))
	}
	return &membership, nil
}

func (r *membershipRepository) ListDoctors(ctx context.Context, clinicID uuid.UUID) ([]*model.User, error) {
	query := `
		SELECT u.id, u.email, u.name, u.password_hash, u.phone, u.status,
			   u.created_at, u.updated_at, u.deleted_at
		FROM users u
		JOIN user_clinics uc ON uc.user_id = u.id
		WHERE uc.clinic_id = $1 AND uc.role = $2 AND u.deleted_at IS NULL
		ORDER BY u.name ASC
	`
	var doctors []*model.User
	err := r.db.SelectContext(ctx, &doctors, query, clinicID, model.RoleDoctor)
	if err != nil {
		return nil, fmt.Errorf("failed to list doctors: %w", err)
	}
	return doctors, nil
}

func (r *membershipRepository) IsDoctorInClinic(ctx context.Context, doctorID, clinicID uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM user_clinics
			WHERE user_id = $1 AND clinic_id = $2 AND role = $3
		)
	`
	var exists bool
	err := r.db.GetContext(ctx, &exists, query, doctorID, clinicID, model.RoleDoctor)
	if err != nil {
		return false, fmt.Errorf("failed to check doctor membership: %w", err)
	}
	return exists, nil
}
