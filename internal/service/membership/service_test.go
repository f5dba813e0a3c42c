package membership

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinovia/portal-api/internal/model"
	"github.com/clinovia/portal-api/internal/repository"
	apperrors "github.com/clinovia/portal-api/pkg/errors"
)

type mockMembershipRepo struct {
	resolveClinic func(ctx context.Context, userID uuid.UUID) (*model.Membership, error)
	listDoctors   func(ctx context.Context, clinicID uuid.UUID) ([]*model.User, error)
}

func (m *mockMembershipRepo) ResolveClinic(ctx context.Context, userID uuid.UUID) (*model.Membership, error) {
	return m.resolveClinic(ctx, userID)
}

func (m *mockMembershipRepo) ListDoctors(ctx context.Context, clinicID uuid.UUID) ([]*model.User, error) {
	return m.listDoctors(ctx, clinicID)
}

func (m *mockMembershipRepo) IsDoctorInClinic(ctx context.Context, doctorID, clinicID uuid.UUID) (bool, error) {
	return false, nil
}

func TestResolveReturnsEarliestMembership(t *testing.T) {
	clinicID := uuid.New()
	repo := &mockMembershipRepo{
		resolveClinic: func(ctx context.Context, userID uuid.UUID) (*model.Membership, error) {
			return &model.Membership{
				ClinicID: clinicID,
				Role:     model.RoleDoctor,
				JoinedAt: time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC),
			}, nil
		},
	}
	svc := NewService(repo)

	mem, err := svc.Resolve(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Equal(t, clinicID, mem.ClinicID)
	assert.Equal(t, model.RoleDoctor, mem.Role)
}

func TestResolveWithoutMembershipForbidden(t *testing.T) {
	repo := &mockMembershipRepo{
		resolveClinic: func(ctx context.Context, userID uuid.UUID) (*model.Membership, error) {
			return nil, repository.ErrNotFound
		},
	}
	svc := NewService(repo)

	_, err := svc.Resolve(context.Background(), uuid.New())
	require.Error(t, err)

	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, 403, appErr.StatusCode())
}
