package release

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/clinovia/portal-api/internal/model"
	"github.com/clinovia/portal-api/internal/repository"
	apperrors "github.com/clinovia/portal-api/pkg/errors"
	"github.com/clinovia/portal-api/pkg/metrics"
)

// Service is the result release gate: a staff member explicitly flips
// visibility by appending a release marker. Releases are monotonic; there
// is no un-release, and duplicate releases are allowed.
type Service struct {
	repo      repository.ReleaseRepository
	orderRepo repository.OrderRepository
	metrics   *metrics.Metrics
}

func NewService(repo repository.ReleaseRepository, orderRepo repository.OrderRepository, m *metrics.Metrics) *Service {
	return &Service{
		repo:      repo,
		orderRepo: orderRepo,
		metrics:   m,
	}
}

// Release marks the order's result visible to the portal. The order must
// exist within the caller's clinic; a wrong-tenant order id reads as not
// found.
func (s *Service) Release(ctx context.Context, clinicID, orderID, releasedBy uuid.UUID, kind model.ReleaseKind) (*model.ResultRelease, error) {
	if !kind.Valid() {
		return nil, apperrors.BadRequest("type must be lab or imaging", nil)
	}

	release := &model.ResultRelease{ReleasedBy: releasedBy}

	switch kind {
	case model.ReleaseKindLab:
		if _, err := s.orderRepo.GetLab(ctx, clinicID, orderID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, apperrors.NotFound("lab order", err)
			}
			return nil, fmt.Errorf("failed to load lab order: %w", err)
		}
		release.LabOrderID = &orderID
	case model.ReleaseKindImaging:
		if _, err := s.orderRepo.GetImaging(ctx, clinicID, orderID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, apperrors.NotFound("imaging order", err)
			}
			return nil, fmt.Errorf("failed to load imaging order: %w", err)
		}
		release.ImagingOrderID = &orderID
	}

	if err := s.repo.Create(ctx, release); err != nil {
		return nil, fmt.Errorf("failed to create release: %w", err)
	}

	s.metrics.ResultsReleased.WithLabelValues(string(kind)).Inc()
	return release, nil
}

func (s *Service) IsReleased(ctx context.Context, orderID uuid.UUID, kind model.ReleaseKind) (bool, error) {
	if !kind.Valid() {
		return false, apperrors.BadRequest("type must be lab or imaging", nil)
	}
	return s.repo.IsReleased(ctx, orderID, kind)
}
