package postgres

import (
	"context"
	"fmt"

	"github.com/clinovia/portal-api/internal/model"
)

func (r *sessionRepository) Get(ctx context.Context, token string) (*model.Session, error) {
	query := `
		SELECT token, user_id, patient_id, expires_at, created_at
		FROM sessions
		WHERE token = $1
	`
	var session model.Session
	err := r.db.GetContext(ctx, &session, query, token)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", translateErr(err))
	}
	return &session, nil
}

func (r *sessionRepository) Upsert(ctx context.Context, session *model.Session) error {
	query := `
		INSERT INTO sessions (token, user_id, patient_id, expires_at, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (token) DO UPDATE SET expires_at = EXCLUDED.expires_at
	`
	_, err := r.db.ExecContext(ctx, query,
		session.Token,
		session.UserID,
		session.PatientID,
		session.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert session: %w", translateErr(err))
	}
	return nil
}

func (r *sessionRepository) Delete(ctx context.Context, token string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE token = $1`, token)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
