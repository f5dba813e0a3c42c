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

func (r *invitationRepository) CreateWithEvent(ctx context.Context, inv *model.ClinicInvitation, event *model.OutboxEvent) error {
	inv.ID = uuid.New()
	inv.Status = model.InvitationStatusPending
	inv.CreatedAt = time.Now()
	inv.UpdatedAt = inv.CreatedAt

	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		query := `
			INSERT INTO clinic_invitations (
				id, token, email, role, clinic_id, invited_by,
				status, expires_at, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		`
		_, err := tx.ExecContext(ctx, query,
			inv.ID,
			inv.Token,
			inv.Email,
			inv.Role,
			inv.ClinicID,
			inv.InvitedBy,
			inv.Status,
			inv.ExpiresAt,
			inv.CreatedAt,
			inv.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to create invitation: %w", translateErr(err))
		}

		if event != nil {
			if err := insertOutboxEventTx(ctx, tx, event); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *invitationRepository) GetByToken(ctx context.Context, token string) (*model.ClinicInvitation, error) {
	query := `
		SELECT id, token, email, role, clinic_id, invited_by,
			   status, expires_at, created_at, updated_at
		FROM clinic_invitations
		WHERE token = $1
	`
	var inv model.ClinicInvitation
	err := r.db.GetContext(ctx, &inv, query, token)
	if err != nil {
		return nil, fmt.Errorf("failed to get invitation: %w", translateErr(err))
	}
	return &inv, nil
}

func (r *invitationRepository) ListByClinic(ctx context.Context, clinicID uuid.UUID) ([]*model.ClinicInvitation, error) {
	query := `
		SELECT id, token, email, role, clinic_id, invited_by,
			   status, expires_at, created_at, updated_at
		FROM clinic_invitations
		WHERE clinic_id = $1
		ORDER BY created_at DESC
	`
	var invitations []*model.ClinicInvitation
	err := r.db.SelectContext(ctx, &invitations, query, clinicID)
	if err != nil {
		return nil, fmt.Errorf("failed to list invitations: %w", err)
	}
	return invitations, nil
}

// MarkExpired persists the EXPIRED status. Guarded on PENDING so an
// invitation that was accepted concurrently is left untouched.
func (r *invitationRepository) MarkExpired(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `
		UPDATE clinic_invitations
		SET status = $1, updated_at = $2
		WHERE id = $3 AND status = $4
	`
	result, err := r.db.ExecContext(ctx, query,
		model.InvitationStatusExpired, time.Now(), id, model.InvitationStatusPending)
	if err != nil {
		return false, fmt.Errorf("failed to expire invitation: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows > 0, nil
}

// Accept runs the whole accept flow in one transaction. The conditional
// UPDATE on status is the concurrency guard: of two simultaneous accepts
// only one sees a row transition, the other gets ErrStaleStatus.
func (r *invitationRepository) Accept(ctx context.Context, params *repository.AcceptInvitationParams) error {
	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		now := time.Now()

		result, err := tx.ExecContext(ctx, `
			UPDATE clinic_invitations
			SET status = $1, updated_at = $2
			WHERE id = $3 AND status = $4
		`, model.InvitationStatusAccepted, now, params.InvitationID, model.InvitationStatusPending)
		if err != nil {
			return fmt.Errorf("failed to accept invitation: %w", err)
		}
		rows, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rows == 0 {
			return repository.ErrStaleStatus
		}

		// Create the account, or link to an existing one by email.
		user := params.User
		_, err = tx.ExecContext(ctx, `
			INSERT INTO users (id, email, name, password_hash, phone, status, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			ON CONFLICT (email) DO UPDATE SET updated_at = $8
		`, user.ID, user.Email, user.Name, user.PasswordHash, user.Phone, user.Status, now, now)
		if err != nil {
			return fmt.Errorf("failed to create user: %w", translateErr(err))
		}

		// The conflict clause above may have kept an existing row. Re-read
		// the canonical account so the membership points at it and the
		// caller reports what is actually stored, not the request's name
		// and password.
		var stored model.User
		if err := tx.GetContext(ctx, &stored, `
			SELECT id, email, name, password_hash, phone, status, created_at, updated_at
			FROM users
			WHERE email = $1
		`, user.Email); err != nil {
			return fmt.Errorf("failed to resolve user: %w", translateErr(err))
		}
		*user = stored

		m := params.Membership
		_, err = tx.ExecContext(ctx, `
			INSERT INTO user_clinics (user_id, clinic_id, role, joined_at)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (user_id, clinic_id) DO NOTHING
		`, user.ID, m.ClinicID, m.Role, now)
		if err != nil {
			return fmt.Errorf("failed to create membership: %w", translateErr(err))
		}

		if params.LinkPatient {
			_, err = tx.ExecContext(ctx, `
				UPDATE patients
				SET user_id = $1, updated_at = $2
				WHERE clinic_id = $3 AND email = $4 AND deleted_at IS NULL
			`, user.ID, now, m.ClinicID, user.Email)
			if err != nil {
				return fmt.Errorf("failed to link patient: %w", err)
			}
		}

		if params.Event != nil {
			if err := insertOutboxEventTx(ctx, tx, params.Event); err != nil {
				return err
			}
		}
		return nil
	})
}
