package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinovia/portal-api/internal/model"
)

func outboxRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "event_type", "payload", "status", "error_message",
		"retry_count", "retry_at", "processed_at", "created_at", "updated_at",
	})
}

func TestGetPendingEventsFetchesDueFailedRows(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewOutboxRepository(db)

	failedID := uuid.New()
	retryAt := time.Now().Add(-time.Minute)
	errMsg := "connection refused"

	// The WHERE clause must pick up failed rows whose retry_at has come due,
	// bounded by the retry budget, alongside fresh pending rows.
	mock.ExpectQuery(`(?s)WHERE \(status = 'pending'\s+OR \(status = 'failed' AND retry_count < \$2 AND retry_at <= NOW\(\)\)\)`).
		WithArgs(10, 3).
		WillReturnRows(outboxRows().
			AddRow(failedID, model.EventInvitationCreated, []byte(`{}`),
				model.OutboxStatusFailed, &errMsg, 1, &retryAt, nil, time.Now(), time.Now()))

	events, err := repo.GetPendingEventsWithLock(context.Background(), 10, 3)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, failedID, events[0].ID)
	assert.Equal(t, model.OutboxStatusFailed, events[0].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatusFailedSchedulesRetry(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewOutboxRepository(db)

	id := uuid.New()
	errMsg := "broker down"
	retryAt := time.Now().Add(5 * time.Second)

	mock.ExpectExec(`UPDATE outbox_events`).
		WithArgs(model.OutboxStatusFailed, &errMsg, &retryAt, id).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateStatus(context.Background(), id, model.OutboxStatusFailed, &errMsg, &retryAt)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
