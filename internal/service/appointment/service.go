package appointment

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/clinovia/portal-api/internal/model"
	"github.com/clinovia/portal-api/internal/repository"
	apperrors "github.com/clinovia/portal-api/pkg/errors"
)

// Service is plain clinic-scoped appointment CRUD. No conflict detection:
// double-booking is left to staff judgement, scheduling intent goes through
// appointment requests.
type Service struct {
	repo           repository.AppointmentRepository
	patientRepo    repository.PatientRepository
	membershipRepo repository.MembershipRepository
}

func NewService(repo repository.AppointmentRepository, patientRepo repository.PatientRepository,
	membershipRepo repository.MembershipRepository) *Service {
	return &Service{
		repo:           repo,
		patientRepo:    patientRepo,
		membershipRepo: membershipRepo,
	}
}

func (s *Service) Create(ctx context.Context, clinicID uuid.UUID, req *model.CreateAppointmentRequest) (*model.Appointment, error) {
	patientID, err := uuid.Parse(req.PatientID)
	if err != nil {
		return nil, apperrors.Validation(map[string]string{"patient_id": "invalid patient id"})
	}
	doctorID, err := uuid.Parse(req.DoctorID)
	if err != nil {
		return nil, apperrors.Validation(map[string]string{"doctor_id": "invalid doctor id"})
	}

	// Both foreign keys must resolve inside the clinic.
	if _, err := s.patientRepo.Get(ctx, clinicID, patientID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("patient", err)
		}
		return nil, fmt.Errorf("failed to load patient: %w", err)
	}
	isDoctor, err := s.membershipRepo.IsDoctorInClinic(ctx, doctorID, clinicID)
	if err != nil {
		return nil, fmt.Errorf("failed to verify doctor: %w", err)
	}
	if !isDoctor {
		return nil, apperrors.Validation(map[string]string{"doctor_id": "doctor does not belong to this clinic"})
	}

	appointment := &model.Appointment{
		ClinicID:  clinicID,
		DoctorID:  doctorID,
		PatientID: patientID,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Status:    model.AppointmentStatusScheduled,
		Notes:     req.Notes,
	}

	if err := s.repo.Create(ctx, appointment); err != nil {
		return nil, fmt.Errorf("failed to create appointment: %w", err)
	}
	return appointment, nil
}

func (s *Service) Get(ctx context.Context, clinicID, id uuid.UUID) (*model.Appointment, error) {
	appointment, err := s.repo.Get(ctx, clinicID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("appointment", err)
		}
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return appointment, nil
}

func (s *Service) List(ctx context.Context, clinicID uuid.UUID, filter *model.AppointmentFilter) ([]*model.Appointment, error) {
	appointments, err := s.repo.List(ctx, clinicID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}

func (s *Service) Cancel(ctx context.Context, clinicID, id uuid.UUID) error {
	if err := s.repo.Cancel(ctx, clinicID, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFound("appointment", err)
		}
		return fmt.Errorf("failed to cancel appointment: %w", err)
	}
	return nil
}
