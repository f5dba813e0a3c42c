package order

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinovia/portal-api/internal/model"
	"github.com/clinovia/portal-api/internal/repository"
	apperrors "github.com/clinovia/portal-api/pkg/errors"
)

type mockOrderRepo struct {
	createLab     func(ctx context.Context, order *model.LabOrder) error
	createImaging func(ctx context.Context, order *model.ImagingOrder) error
}

func (m *mockOrderRepo) CreateLab(ctx context.Context, order *model.LabOrder) error {
	return m.createLab(ctx, order)
}

func (m *mockOrderRepo) CreateImaging(ctx context.Context, order *model.ImagingOrder) error {
	return m.createImaging(ctx, order)
}

func (m *mockOrderRepo) GetLab(ctx context.Context, clinicID, id uuid.UUID) (*model.LabOrder, error) {
	return nil, repository.ErrNotFound
}

func (m *mockOrderRepo) GetImaging(ctx context.Context, clinicID, id uuid.UUID) (*model.ImagingOrder, error) {
	return nil, repository.ErrNotFound
}

func (m *mockOrderRepo) ListLab(ctx context.Context, clinicID uuid.UUID, patientID *uuid.UUID) ([]*model.LabOrder, error) {
	return nil, nil
}

func (m *mockOrderRepo) ListImaging(ctx context.Context, clinicID uuid.UUID, patientID *uuid.UUID) ([]*model.ImagingOrder, error) {
	return nil, nil
}

type mockPatientRepo struct {
	get func(ctx context.Context, clinicID, id uuid.UUID) (*model.Patient, error)
}

func (m *mockPatientRepo) Create(ctx context.Context, patient *model.Patient) error { return nil }

func (m *mockPatientRepo) Get(ctx context.Context, clinicID, id uuid.UUID) (*model.Patient, error) {
	return m.get(ctx, clinicID, id)
}

func (m *mockPatientRepo) GetAny(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	return nil, repository.ErrNotFound
}

func (m *mockPatientRepo) List(ctx context.Context, clinicID uuid.UUID, filter *model.PatientFilter) ([]*model.Patient, error) {
	return nil, nil
}

func (m *mockPatientRepo) Update(ctx context.Context, patient *model.Patient) error { return nil }

func (m *mockPatientRepo) SoftDelete(ctx context.Context, clinicID, id uuid.UUID) error { return nil }

func (m *mockPatientRepo) Restore(ctx context.Context, clinicID, id uuid.UUID) (*model.Patient, error) {
	return nil, repository.ErrNotFound
}

func TestCreateLabRejectsMalformedPatientID(t *testing.T) {
	svc := NewService(&mockOrderRepo{}, &mockPatientRepo{})

	_, err := svc.CreateLab(context.Background(), uuid.New(), uuid.New(), &model.CreateLabOrderRequest{
		PatientID:   "not-a-uuid",
		Description: "CBC panel",
	})
	require.Error(t, err)

	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Contains(t, appErr.Fields, "patient_id")
}

func TestCreateLabScopesPatientToClinic(t *testing.T) {
	clinicID := uuid.New()
	patients := &mockPatientRepo{
		get: func(ctx context.Context, gotClinic, id uuid.UUID) (*model.Patient, error) {
			assert.Equal(t, clinicID, gotClinic)
			return nil, repository.ErrNotFound
		},
	}
	svc := NewService(&mockOrderRepo{}, patients)

	_, err := svc.CreateLab(context.Background(), clinicID, uuid.New(), &model.CreateLabOrderRequest{
		PatientID:   uuid.New().String(),
		Description: "CBC panel",
	})
	assert.True(t, apperrors.IsNotFound(err))
}

func TestCreateImagingStartsOrdered(t *testing.T) {
	clinicID := uuid.New()
	orderedBy := uuid.New()
	patients := &mockPatientRepo{
		get: func(ctx context.Context, gotClinic, id uuid.UUID) (*model.Patient, error) {
			return &model.Patient{ClinicID: gotClinic}, nil
		},
	}
	repo := &mockOrderRepo{
		createImaging: func(ctx context.Context, order *model.ImagingOrder) error { return nil },
	}
	svc := NewService(repo, patients)

	order, err := svc.CreateImaging(context.Background(), clinicID, orderedBy, &model.CreateImagingOrderRequest{
		PatientID: uuid.New().String(),
		Modality:  "MRI",
	})
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusOrdered, order.Status)
	assert.Equal(t, orderedBy, order.OrderedBy)
	assert.Equal(t, "MRI", order.Modality)
}
