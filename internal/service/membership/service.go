package membership

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/clinovia/portal-api/internal/model"
	"github.com/clinovia/portal-api/internal/repository"
	apperrors "github.com/clinovia/portal-api/pkg/errors"
)

// Service resolves the tenant scope for a user. The resolved clinic is the
// sole tenant-isolation boundary: every staff data-access path resolves the
// clinic first and scopes all queries by it.
type Service struct {
	repo repository.MembershipRepository
}

func NewService(repo repository.MembershipRepository) *Service {
	return &Service{repo: repo}
}

// Resolve returns the user's active clinic: the membership with the
// earliest joined_at, regardless of how many clinics the user belongs to.
func (s *Service) Resolve(ctx context.Context, userID uuid.UUID) (*model.Membership, error) {
	membership, err := s.repo.ResolveClinic(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.Forbidden("no clinic assigned")
		}
		return nil, fmt.Errorf("failed to resolve clinic: %w", err)
	}
	return membership, nil
}

func (s *Service) ListDoctors(ctx context.Context, clinicID uuid.UUID) ([]*model.User, error) {
	doctors, err := s.repo.ListDoctors(ctx, clinicID)
	if err != nil {
		return nil, fmt.Errorf("failed to list doctors: %w", err)
	}
	return doctors, nil
}

func (s *Service) IsDoctorInClinic(ctx context.Context, doctorID, clinicID uuid.UUID) (bool, error) {
	return s.repo.IsDoctorInClinic(ctx, doctorID, clinicID)
}
