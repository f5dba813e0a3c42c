package invitation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/clinovia/portal-api/internal/model"
	"github.com/clinovia/portal-api/internal/repository"
	apperrors "github.com/clinovia/portal-api/pkg/errors"
	"github.com/clinovia/portal-api/pkg/metrics"
	"github.com/clinovia/portal-api/pkg/token"
)

const (
	defaultExpiry = 7 * 24 * time.Hour
	bcryptCost    = 12
)

type Service struct {
	repo       repository.InvitationRepository
	userRepo   repository.UserRepository
	clinicRepo repository.ClinicRepository
	metrics    *metrics.Metrics
}

func NewService(repo repository.InvitationRepository, userRepo repository.UserRepository,
	clinicRepo repository.ClinicRepository, m *metrics.Metrics) *Service {
	return &Service{
		repo:       repo,
		userRepo:   userRepo,
		clinicRepo: clinicRepo,
		metrics:    m,
	}
}

// Create issues an invitation and queues its delivery email through the
// outbox in the same transaction.
func (s *Service) Create(ctx context.Context, clinicID, invitedBy uuid.UUID, req *model.CreateInvitationRequest) (*model.ClinicInvitation, error) {
	clinic, err := s.clinicRepo.Get(ctx, clinicID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("clinic", err)
		}
		return nil, fmt.Errorf("failed to load clinic: %w", err)
	}

	tok, err := token.New()
	if err != nil {
		return nil, fmt.Errorf("failed to generate invitation token: %w", err)
	}

	inv := &model.ClinicInvitation{
		Token:     tok,
		Email:     req.Email,
		Role:      req.Role,
		ClinicID:  clinicID,
		InvitedBy: invitedBy,
		ExpiresAt: time.Now().Add(defaultExpiry),
	}

	payload, err := json.Marshal(model.InvitationEmailPayload{
		Email:      inv.Email,
		ClinicName: clinic.Name,
		Role:       inv.Role,
		Token:      inv.Token,
		ExpiresAt:  inv.ExpiresAt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal invitation payload: %w", err)
	}

	event := &model.OutboxEvent{
		EventType: model.EventInvitationCreated,
		Payload:   payload,
	}

	if err := s.repo.CreateWithEvent(ctx, inv, event); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.Conflict("invitation already exists for this email")
		}
		return nil, fmt.Errorf("failed to create invitation: %w", err)
	}

	s.metrics.InvitationsCreated.Inc()
	return inv, nil
}

func (s *Service) List(ctx context.Context, clinicID uuid.UUID) ([]*model.ClinicInvitation, error) {
	invitations, err := s.repo.ListByClinic(ctx, clinicID)
	if err != nil {
		return nil, fmt.Errorf("failed to list invitations: %w", err)
	}

	// Stored status may lag behind wall-clock expiry; derive before returning.
	now := time.Now()
	for _, inv := range invitations {
		inv.Status = inv.EffectiveStatus(now)
	}
	return invitations, nil
}

// Check validates a token for the public registration page. It performs no
// writes: the EXPIRED status is derived from expires_at at read time, so
// repeated checks are idempotent. The expiry write happens only on a stale
// accept attempt.
func (s *Service) Check(ctx context.Context, tok string) (*model.CheckInvitationResponse, error) {
	inv, err := s.repo.GetByToken(ctx, tok)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("invitation", err)
		}
		return nil, fmt.Errorf("failed to load invitation: %w", err)
	}

	switch inv.EffectiveStatus(time.Now()) {
	case model.InvitationStatusAccepted:
		return nil, apperrors.Conflict("invitation already accepted")
	case model.InvitationStatusExpired:
		return nil, apperrors.Conflict("invitation expired")
	}

	clinic, err := s.clinicRepo.Get(ctx, inv.ClinicID)
	if err != nil {
		return nil, fmt.Errorf("failed to load clinic: %w", err)
	}

	exists, err := s.userRepo.ExistsByEmail(ctx, inv.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing account: %w", err)
	}

	return &model.CheckInvitationResponse{
		Invitation: model.InvitationDetails{
			Email:      inv.Email,
			Role:       inv.Role,
			ClinicName: clinic.Name,
			Status:     model.InvitationStatusPending,
			ExpiresAt:  inv.ExpiresAt,
		},
		ExistingUser: exists,
	}, nil
}

// Accept registers (or links) the account and consumes the token. The token
// is single-use: the repository guards the transition with a conditional
// update, so a concurrent accept on the same token fails with Conflict and
// never creates a second membership.
func (s *Service) Accept(ctx context.Context, tok string, req *model.AcceptInvitationRequest) (*model.User, error) {
	inv, err := s.repo.GetByToken(ctx, tok)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("invitation", err)
		}
		return nil, fmt.Errorf("failed to load invitation: %w", err)
	}

	switch inv.EffectiveStatus(time.Now()) {
	case model.InvitationStatusAccepted:
		return nil, apperrors.Conflict("invitation already accepted")
	case model.InvitationStatusExpired:
		// A stale accept is the one moment the derived EXPIRED status is
		// persisted.
		if transitioned, err := s.repo.MarkExpired(ctx, inv.ID); err == nil && transitioned {
			s.metrics.InvitationsExpired.Inc()
		}
		return nil, apperrors.Conflict("invitation expired")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Base:         model.Base{ID: uuid.New()},
		Email:        inv.Email,
		Name:         req.Name,
		PasswordHash: string(hash),
		Phone:        req.Phone,
		Status:       model.UserStatusActive,
	}

	payload, err := json.Marshal(map[string]interface{}{
		"email":     inv.Email,
		"clinic_id": inv.ClinicID,
		"role":      inv.Role,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal accept payload: %w", err)
	}

	params := &repository.AcceptInvitationParams{
		InvitationID: inv.ID,
		User:         user,
		Membership: &model.UserClinic{
			ClinicID: inv.ClinicID,
			Role:     inv.Role,
		},
		LinkPatient: true,
		Event: &model.OutboxEvent{
			EventType: model.EventInvitationAccepted,
			Payload:   payload,
		},
	}

	if err := s.repo.Accept(ctx, params); err != nil {
		if errors.Is(err, repository.ErrStaleStatus) {
			return nil, apperrors.Conflict("invitation already accepted")
		}
		return nil, fmt.Errorf("failed to accept invitation: %w", err)
	}

	s.metrics.InvitationsAccepted.Inc()
	return user, nil
}
