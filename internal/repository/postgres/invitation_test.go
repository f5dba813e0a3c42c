package postgres

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinovia/portal-api/internal/model"
	"github.com/clinovia/portal-api/internal/repository"
)

func userRowsForAccept() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "email", "name", "password_hash", "phone", "status", "created_at", "updated_at",
	})
}

func TestAcceptStaleStatusRollsBack(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewInvitationRepository(db)

	// The conditional status update matches no rows: a concurrent accept
	// already consumed the token. Nothing else in the transaction may run.
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE clinic_invitations`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	user := &model.User{Email: "dana@example.com"}
	user.ID = uuid.New()

	err := repo.Accept(context.Background(), &repository.AcceptInvitationParams{
		InvitationID: uuid.New(),
		User:         user,
		Membership:   &model.UserClinic{ClinicID: uuid.New(), Role: model.RoleStaff},
	})
	assert.ErrorIs(t, err, repository.ErrStaleStatus)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAcceptCommitsWholeFlow(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewInvitationRepository(db)

	invitationID := uuid.New()
	clinicID := uuid.New()
	canonicalID := uuid.New()

	payload, err := json.Marshal(map[string]string{"email": "dana@example.com"})
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE clinic_invitations`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO users`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`(?s)SELECT id, email, name, password_hash, phone, status, created_at, updated_at\s+FROM users\s+WHERE email = \$1`).
		WithArgs("dana@example.com").
		WillReturnRows(userRowsForAccept().
			AddRow(canonicalID, "dana@example.com", "Dana", "hash", nil, model.UserStatusActive, time.Now(), time.Now()))
	mock.ExpectExec(`INSERT INTO user_clinics`).
		WithArgs(canonicalID, clinicID, model.RoleDoctor, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE patients`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`INSERT INTO outbox_events`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	user := &model.User{Email: "dana@example.com"}
	user.ID = uuid.New()

	err = repo.Accept(context.Background(), &repository.AcceptInvitationParams{
		InvitationID: invitationID,
		User:         user,
		Membership:   &model.UserClinic{ClinicID: clinicID, Role: model.RoleDoctor},
		LinkPatient:  true,
		Event: &model.OutboxEvent{
			EventType: model.EventInvitationAccepted,
			Payload:   payload,
		},
	})
	require.NoError(t, err)

	// The membership must point at the canonical account, not the
	// provisional one generated before the email conflict resolved.
	assert.Equal(t, canonicalID, user.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAcceptLinkingExistingAccountReportsStoredRow(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewInvitationRepository(db)

	existingID := uuid.New()
	clinicID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE clinic_invitations`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO users`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`(?s)SELECT id, email, name, password_hash`).
		WithArgs("sam@example.com").
		WillReturnRows(userRowsForAccept().
			AddRow(existingID, "sam@example.com", "Dr. Sam Ortiz", "stored-hash", nil,
				model.UserStatusActive, time.Now(), time.Now()))
	mock.ExpectExec(`INSERT INTO user_clinics`).
		WithArgs(existingID, clinicID, model.RoleDoctor, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	// The registrant typed a fresh name and password, but the email already
	// has an account; the caller must get back the stored row, not the
	// request's values.
	user := &model.User{Email: "sam@example.com", Name: "Sam", PasswordHash: "fresh-hash"}
	user.ID = uuid.New()

	err := repo.Accept(context.Background(), &repository.AcceptInvitationParams{
		InvitationID: uuid.New(),
		User:         user,
		Membership:   &model.UserClinic{ClinicID: clinicID, Role: model.RoleDoctor},
	})
	require.NoError(t, err)

	assert.Equal(t, existingID, user.ID)
	assert.Equal(t, "Dr. Sam Ortiz", user.Name)
	assert.Equal(t, "stored-hash", user.PasswordHash)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkExpiredGuardedOnPending(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewInvitationRepository(db)

	id := uuid.New()
	mock.ExpectExec(`UPDATE clinic_invitations`).
		WithArgs(model.InvitationStatusExpired, sqlmock.AnyArg(), id, model.InvitationStatusPending).
		WillReturnResult(sqlmock.NewResult(0, 1))

	transitioned, err := repo.MarkExpired(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, transitioned)
}

func TestMarkExpiredAcceptedRowUntouched(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewInvitationRepository(db)

	mock.ExpectExec(`UPDATE clinic_invitations`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	transitioned, err := repo.MarkExpired(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.False(t, transitioned)
}

func TestCreateWithEventIsTransactional(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewInvitationRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO clinic_invitations`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO outbox_events`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	payload, err := json.Marshal(model.InvitationEmailPayload{Email: "new@example.com"})
	require.NoError(t, err)

	inv := &model.ClinicInvitation{
		Token:     "tok",
		Email:     "new@example.com",
		Role:      model.RoleStaff,
		ClinicID:  uuid.New(),
		InvitedBy: uuid.New(),
		ExpiresAt: time.Now().Add(24 * time.Hour),
	}
	err = repo.CreateWithEvent(context.Background(), inv, &model.OutboxEvent{
		EventType: model.EventInvitationCreated,
		Payload:   payload,
	})
	require.NoError(t, err)

	assert.Equal(t, model.InvitationStatusPending, inv.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}
