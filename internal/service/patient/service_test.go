package patient

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

type mockPatientRepo struct {
	create     func(ctx context.Context, patient *model.Patient) error
	get        func(ctx context.Context, clinicID, id uuid.UUID) (*model.Patient, error)
	softDelete func(ctx context.Context, clinicID, id uuid.UUID) error
	restore    func(ctx context.Context, clinicID, id uuid.UUID) (*model.Patient, error)
}

func (m *mockPatientRepo) Create(ctx context.Context, patient *model.Patient) error {
	return m.create(ctx, patient)
}

func (m *mockPatientRepo) Get(ctx context.Context, clinicID, id uuid.UUID) (*model.Patient, error) {
	return m.get(ctx, clinicID, id)
}

func (m *mockPatientRepo) GetAny(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	return nil, repository.ErrNotFound
}

func (m *mockPatientRepo) List(ctx context.Context, clinicID uuid.UUID, filter *model.PatientFilter) ([]*model.Patient, error) {
	return nil, nil
}

func (m *mockPatientRepo) Update(ctx context.Context, patient *model.Patient) error {
	return nil
}

func (m *mockPatientRepo) SoftDelete(ctx context.Context, clinicID, id uuid.UUID) error {
	return m.softDelete(ctx, clinicID, id)
}

func (m *mockPatientRepo) Restore(ctx context.Context, clinicID, id uuid.UUID) (*model.Patient, error) {
	return m.restore(ctx, clinicID, id)
}

func TestRestoreRequiresAdmin(t *testing.T) {
	repo := &mockPatientRepo{
		restore: func(ctx context.Context, clinicID, id uuid.UUID) (*model.Patient, error) {
			t.Fatal("restore must not reach the repository for non-admins")
			return nil, nil
		},
	}
	svc := NewService(repo)

	for _, role := range []string{model.RoleDoctor, model.RoleStaff} {
		mem := &model.Membership{ClinicID: uuid.New(), Role: role}
		_, err := svc.Restore(context.Background(), mem, uuid.New())
		require.Error(t, err, "role %s", role)

		appErr, ok := apperrors.As(err)
		require.True(t, ok)
		assert.Equal(t, 403, appErr.StatusCode())
	}
}

func TestRestoreAdminClearsDeletion(t *testing.T) {
	mem := &model.Membership{ClinicID: uuid.New(), Role: model.RoleAdmin}
	patientID := uuid.New()

	repo := &mockPatientRepo{
		restore: func(ctx context.Context, clinicID, id uuid.UUID) (*model.Patient, error) {
			assert.Equal(t, mem.ClinicID, clinicID)
			assert.Equal(t, patientID, id)
			p := &model.Patient{ClinicID: clinicID, Name: "Pat"}
			p.ID = id
			return p, nil
		},
	}
	svc := NewService(repo)

	p, err := svc.Restore(context.Background(), mem, patientID)
	require.NoError(t, err)
	assert.Nil(t, p.DeletedAt)
}

func TestRestoreMissingPatientNotFound(t *testing.T) {
	mem := &model.Membership{ClinicID: uuid.New(), Role: model.RoleAdmin}
	repo := &mockPatientRepo{
		restore: func(ctx context.Context, clinicID, id uuid.UUID) (*model.Patient, error) {
			return nil, repository.ErrNotFound
		},
	}
	svc := NewService(repo)

	_, err := svc.Restore(context.Background(), mem, uuid.New())
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestUpdateDeletedPatientConflicts(t *testing.T) {
	deletedAt := time.Now().Add(-time.Hour)
	repo := &mockPatientRepo{
		get: func(ctx context.Context, clinicID, id uuid.UUID) (*model.Patient, error) {
			p := &model.Patient{ClinicID: clinicID, Name: "Pat"}
			p.ID = id
			p.DeletedAt = &deletedAt
			return p, nil
		},
	}
	svc := NewService(repo)

	name := "New Name"
	_, err := svc.Update(context.Background(), uuid.New(), uuid.New(), &model.UpdatePatientRequest{Name: &name})
	require.Error(t, err)
	assert.True(t, apperrors.IsConflict(err))
}

func TestCreateValidatesDateOfBirth(t *testing.T) {
	svc := NewService(&mockPatientRepo{})

	bad := "01/02/1990"
	_, err := svc.Create(context.Background(), uuid.New(), &model.CreatePatientRequest{
		Name:        "Pat",
		Email:       "pat@example.com",
		DateOfBirth: &bad,
	})
	require.Error(t, err)

	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Contains(t, appErr.Fields, "date_of_birth")
}

func TestDeleteIsSoft(t *testing.T) {
	deleted := false
	repo := &mockPatientRepo{
		softDelete: func(ctx context.Context, clinicID, id uuid.UUID) error {
			deleted = true
			return nil
		},
	}
	svc := NewService(repo)

	require.NoError(t, svc.Delete(context.Background(), uuid.New(), uuid.New()))
	assert.True(t, deleted)
}
