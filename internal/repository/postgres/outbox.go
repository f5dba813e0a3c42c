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

type outboxRepository struct {
	BaseRepository
}

func NewOutboxRepository(db *sqlx.DB) repository.OutboxRepository {
	return &outboxRepository{NewBaseRepository(db)}
}

func insertOutboxEventTx(ctx context.Context, tx *sqlx.Tx, event *model.OutboxEvent) error {
	if event.Payload == nil {
		return fmt.Errorf("event payload cannot be nil")
	}

	event.ID = uuid.New()
	event.Status = model.OutboxStatusPending
	event.CreatedAt = time.Now()
	event.UpdatedAt = event.CreatedAt

	query := `
		INSERT INTO outbox_events (
			id, event_type, payload, status, retry_count, created_at, updated_at
		) VALUES ($1, $2, $3, $4, 0, $5, $6)
	`
	_, err := tx.ExecContext(ctx, query,
		event.ID,
		event.EventType,
		event.Payload,
		event.Status,
		event.CreatedAt,
		event.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create outbox event: %w", err)
	}
	return nil
}

func (r *outboxRepository) Create(ctx context.Context, event *model.OutboxEvent) error {
	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		return insertOutboxEventTx(ctx, tx, event)
	})
}

// GetPendingEventsWithLock fetches deliverable rows: fresh pending events
// plus failed ones whose retry_at has come due and whose retry budget is
// not exhausted. Rows past maxRetries stay failed and are never re-fetched.
func (r *outboxRepository) GetPendingEventsWithLock(ctx context.Context, limit, maxRetries int) ([]*model.OutboxEvent, error) {
	query := `
		SELECT id, event_type, payload, status, error_message,
			   retry_count, retry_at, processed_at, created_at, updated_at
		FROM outbox_events
		WHERE (status = 'pending'
			OR (status = 'failed' AND retry_count < $2 AND retry_at <= NOW()))
		ORDER BY created_at ASC
		FOR UPDATE SKIP LOCKED
		LIMIT $1
	`
	var events []*model.OutboxEvent
	err := r.db.SelectContext(ctx, &events, query, limit, maxRetries)
	if err != nil {
		return nil, fmt.Errorf("failed to get pending events: %w", err)
	}
	return events, nil
}

func (r *outboxRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.OutboxStatus, errorMessage *string, retryAt *time.Time) error {
	query := `
		UPDATE outbox_events
		SET status = $1,
			error_message = $2,
			retry_at = $3,
			retry_count = CASE WHEN $3 IS NOT NULL THEN retry_count + 1 ELSE retry_count END,
			processed_at = CASE WHEN $1 = 'processed' THEN NOW() ELSE processed_at END,
			updated_at = NOW()
		WHERE id = $4
	`
	_, err := r.db.ExecContext(ctx, query, status, errorMessage, retryAt, id)
	if err != nil {
		return fmt.Errorf("failed to update outbox event: %w", err)
	}
	return nil
}

func (r *outboxRepository) DeleteProcessedBefore(ctx context.Context, before time.Time) (int64, error) {
	query := `
		DELETE FROM outbox_events
		WHERE status = 'processed'
		AND processed_at < $1
	`
	result, err := r.db.ExecContext(ctx, query, before)
	if err != nil {
		return 0, fmt.Errorf("failed to delete processed events: %w", err)
	}
	return result.RowsAffected()
}
