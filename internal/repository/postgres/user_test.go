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

func TestUpsertWithProviderIDFillsCreatedAt(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	// The auth provider supplies the ID, so the mint-a-new-ID branch is
	// skipped; CreatedAt must still be set for a first-time insert.
	user := &model.User{Email: "dana@example.com", Name: "Dana", Status: model.UserStatusActive}
	user.ID = uuid.New()

	mock.ExpectExec(`INSERT INTO users`).
		WithArgs(user.ID, user.Email, user.Name, sqlmock.AnyArg(), sqlmock.AnyArg(),
			user.Status, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Upsert(context.Background(), user))
	assert.False(t, user.CreatedAt.IsZero())
	assert.False(t, user.UpdatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertKeepsExistingCreatedAt(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	user := &model.User{Email: "dana@example.com", Name: "Dana", Status: model.UserStatusActive}
	user.ID = uuid.New()
	original := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	user.CreatedAt = original

	mock.ExpectExec(`INSERT INTO users`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Upsert(context.Background(), user))
	assert.Equal(t, original, user.CreatedAt)
}
