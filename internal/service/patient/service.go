package patient

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/clinovia/portal-api/internal/model"
	"github.com/clinovia/portal-api/internal/repository"
	apperrors "github.com/clinovia/portal-api/pkg/errors"
)

type Service struct {
	repo repository.PatientRepository
}

func NewService(repo repository.PatientRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, clinicID uuid.UUID, req *model.CreatePatientRequest) (*model.Patient, error) {
	patient := &model.Patient{
		ClinicID: clinicID,
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Gender:   req.Gender,
		Address:  req.Address,
		Status:   model.PatientStatusActive,
	}

	if req.DateOfBirth != nil {
		dob, err := time.Parse("2006-01-02", *req.DateOfBirth)
		if err != nil {
			return nil, apperrors.Validation(map[string]string{"date_of_birth": "must be YYYY-MM-DD"})
		}
		patient.DateOfBirth = &dob
	}

	if err := s.repo.Create(ctx, patient); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.Conflict("patient with this email already exists")
		}
		return nil, fmt.Errorf("failed to create patient: %w", err)
	}
	return patient, nil
}

func (s *Service) Get(ctx context.Context, clinicID, id uuid.UUID) (*model.Patient, error) {
	patient, err := s.repo.Get(ctx, clinicID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("patient", err)
		}
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}
	return patient, nil
}

func (s *Service) List(ctx context.Context, clinicID uuid.UUID, filter *model.PatientFilter) ([]*model.Patient, error) {
	patients, err := s.repo.List(ctx, clinicID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list patients: %w", err)
	}
	return patients, nil
}

func (s *Service) Update(ctx context.Context, clinicID, id uuid.UUID, req *model.UpdatePatientRequest) (*model.Patient, error) {
	patient, err := s.Get(ctx, clinicID, id)
	if err != nil {
		return nil, err
	}

	if patient.DeletedAt != nil {
		return nil, apperrors.Conflict("patient is deleted")
	}

	if req.Name != nil {
		patient.Name = *req.Name
	}
	if req.Email != nil {
		patient.Email = *req.Email
	}
	if req.Phone != nil {
		patient.Phone = req.Phone
	}
	if req.Address != nil {
		patient.Address = req.Address
	}
	if req.Status != nil {
		patient.Status = *req.Status
	}

	if err := s.repo.Update(ctx, patient); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("patient", err)
		}
		return nil, fmt.Errorf("failed to update patient: %w", err)
	}
	return patient, nil
}

// Delete soft-deletes: the row is kept with deleted_at set and disappears
// from default listings and the portal.
func (s *Service) Delete(ctx context.Context, clinicID, id uuid.UUID) error {
	if err := s.repo.SoftDelete(ctx, clinicID, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFound("patient", err)
		}
		return fmt.Errorf("failed to delete patient: %w", err)
	}
	return nil
}

// Restore clears the soft-delete flag. Admin only: any other role is
// rejected with Forbidden even for the caller's own clinic.
func (s *Service) Restore(ctx context.Context, membership *model.Membership, id uuid.UUID) (*model.Patient, error) {
	if !membership.IsAdmin() {
		return nil, apperrors.Forbidden("restoring a patient requires the ADMIN role")
	}

	patient, err := s.repo.Restore(ctx, membership.ClinicID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("patient", err)
		}
		return nil, fmt.Errorf("failed to restore patient: %w", err)
	}
	return patient, nil
}
