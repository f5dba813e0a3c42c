package request

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/clinovia/portal-api/internal/model"
	"github.com/clinovia/portal-api/internal/repository"
	apperrors "github.com/clinovia/portal-api/pkg/errors"
	"github.com/clinovia/portal-api/pkg/metrics"
)

// Service is the staff side of the appointment request lifecycle:
// PENDING -> APPROVED | REJECTED, both terminal. Approving does not create
// a confirmed appointment; that is the plain appointments CRUD path.
type Service struct {
	repo       repository.AppointmentRequestRepository
	outboxRepo repository.OutboxRepository
	metrics    *metrics.Metrics
}

func NewService(repo repository.AppointmentRequestRepository,
	outboxRepo repository.OutboxRepository, m *metrics.Metrics) *Service {
	return &Service{
		repo:       repo,
		outboxRepo: outboxRepo,
		metrics:    m,
	}
}

func (s *Service) Get(ctx context.Context, clinicID, id uuid.UUID) (*model.AppointmentRequest, error) {
	req, err := s.repo.Get(ctx, clinicID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("appointment request", err)
		}
		return nil, fmt.Errorf("failed to get appointment request: %w", err)
	}
	return req, nil
}

func (s *Service) List(ctx context.Context, clinicID uuid.UUID, filter *model.AppointmentRequestFilter) ([]*model.AppointmentRequest, error) {
	requests, err := s.repo.List(ctx, clinicID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointment requests: %w", err)
	}
	return requests, nil
}

func (s *Service) Approve(ctx context.Context, clinicID, id, decidedBy uuid.UUID) (*model.AppointmentRequest, error) {
	return s.decide(ctx, clinicID, id, decidedBy, model.AppointmentRequestStatusApproved)
}

func (s *Service) Reject(ctx context.Context, clinicID, id, decidedBy uuid.UUID) (*model.AppointmentRequest, error) {
	return s.decide(ctx, clinicID, id, decidedBy, model.AppointmentRequestStatusRejected)
}

func (s *Service) decide(ctx context.Context, clinicID, id, decidedBy uuid.UUID, status model.AppointmentRequestStatus) (*model.AppointmentRequest, error) {
	req, err := s.repo.Decide(ctx, clinicID, id, status, decidedBy)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, apperrors.NotFound("appointment request", err)
		case errors.Is(err, repository.ErrStaleStatus):
			return nil, apperrors.Conflict("appointment request already decided")
		}
		return nil, fmt.Errorf("failed to decide appointment request: %w", err)
	}

	s.metrics.RequestsDecided.WithLabelValues(string(status)).Inc()
	s.publishDecision(ctx, req)
	return req, nil
}

// publishDecision queues the decision notification. Best effort: a failed
// enqueue does not roll back the decision.
func (s *Service) publishDecision(ctx context.Context, req *model.AppointmentRequest) {
	payload, err := json.Marshal(map[string]interface{}{
		"request_id": req.ID,
		"patient_id": req.PatientID,
		"clinic_id":  req.ClinicID,
		"status":     req.Status,
	})
	if err != nil {
		log.Error().Err(err).Str("request_id", req.ID.String()).Msg("failed to marshal decision event")
		return
	}

	event := &model.OutboxEvent{
		EventType: model.EventRequestDecided,
		Payload:   payload,
	}
	if err := s.outboxRepo.Create(ctx, event); err != nil {
		log.Error().Err(err).Str("request_id", req.ID.String()).Msg("failed to enqueue decision event")
	}
}
