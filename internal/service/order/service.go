package order

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/clinovia/portal-api/internal/model"
	"github.com/clinovia/portal-api/internal/repository"
	apperrors "github.com/clinovia/portal-api/pkg/errors"
)

type Service struct {
	repo        repository.OrderRepository
	patientRepo repository.PatientRepository
}

func NewService(repo repository.OrderRepository, patientRepo repository.PatientRepository) *Service {
	return &Service{
		repo:        repo,
		patientRepo: patientRepo,
	}
}

func (s *Service) CreateLab(ctx context.Context, clinicID, orderedBy uuid.UUID, req *model.CreateLabOrderRequest) (*model.LabOrder, error) {
	patientID, err := s.resolvePatient(ctx, clinicID, req.PatientID)
	if err != nil {
		return nil, err
	}

	order := &model.LabOrder{
		ClinicID:    clinicID,
		PatientID:   patientID,
		OrderedBy:   orderedBy,
		Description: req.Description,
		Status:      model.OrderStatusOrdered,
	}
	if err := s.repo.CreateLab(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to create lab order: %w", err)
	}
	return order, nil
}

func (s *Service) CreateImaging(ctx context.Context, clinicID, orderedBy uuid.UUID, req *model.CreateImagingOrderRequest) (*model.ImagingOrder, error) {
	patientID, err := s.resolvePatient(ctx, clinicID, req.PatientID)
	if err != nil {
		return nil, err
	}

	order := &model.ImagingOrder{
		ClinicID:    clinicID,
		PatientID:   patientID,
		OrderedBy:   orderedBy,
		Modality:    req.Modality,
		Description: req.Description,
		Status:      model.OrderStatusOrdered,
	}
	if err := s.repo.CreateImaging(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to create imaging order: %w", err)
	}
	return order, nil
}

func (s *Service) ListLab(ctx context.Context, clinicID uuid.UUID, patientID *uuid.UUID) ([]*model.LabOrder, error) {
	orders, err := s.repo.ListLab(ctx, clinicID, patientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list lab orders: %w", err)
	}
	return orders, nil
}

func (s *Service) ListImaging(ctx context.Context, clinicID uuid.UUID, patientID *uuid.UUID) ([]*model.ImagingOrder, error) {
	orders, err := s.repo.ListImaging(ctx, clinicID, patientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list imaging orders: %w", err)
	}
	return orders, nil
}

func (s *Service) resolvePatient(ctx context.Context, clinicID uuid.UUID, raw string) (uuid.UUID, error) {
	patientID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperrors.Validation(map[string]string{"patient_id": "invalid patient id"})
	}
	if _, err := s.patientRepo.Get(ctx, clinicID, patientID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return uuid.Nil, apperrors.NotFound("patient", err)
		}
		return uuid.Nil, fmt.Errorf("failed to load patient: %w", err)
	}
	return patientID, nil
}
