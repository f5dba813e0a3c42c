package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/rs/zerolog/log"

	"github.com/clinovia/portal-api/internal/model"
	"github.com/clinovia/portal-api/internal/repository"
	apperrors "github.com/clinovia/portal-api/pkg/errors"
)

const (
	cacheTTL     = 30 * time.Second
	cacheCleanup = 5 * time.Minute
)

// Service resolves opaque bearer tokens against the synced sessions table.
// The external auth provider owns issuance and revocation; we only mirror
// its state via webhook events. Lookups are cached briefly so a revocation
// takes at most cacheTTL to propagate.
type Service struct {
	repo     repository.SessionRepository
	userRepo repository.UserRepository
	cache    *gocache.Cache
}

func NewService(repo repository.SessionRepository, userRepo repository.UserRepository) *Service {
	return &Service{
		repo:     repo,
		userRepo: userRepo,
		cache:    gocache.New(cacheTTL, cacheCleanup),
	}
}

// Resolve validates the token and returns the live session. Unknown and
// expired tokens are both Unauthorized; the caller cannot tell which.
func (s *Service) Resolve(ctx context.Context, token string) (*model.Session, error) {
	if token == "" {
		return nil, apperrors.Unauthorized("missing session token")
	}

	if cached, ok := s.cache.Get(token); ok {
		sess := cached.(*model.Session)
		if sess.Expired(time.Now()) {
			s.cache.Delete(token)
			return nil, apperrors.Unauthorized("session expired")
		}
		return sess, nil
	}

	sess, err := s.repo.Get(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.Unauthorized("invalid session token")
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if sess.Expired(time.Now()) {
		return nil, apperrors.Unauthorized("session expired")
	}

	s.cache.Set(token, sess, gocache.DefaultExpiration)
	return sess, nil
}

// HandleSyncEvent applies one auth-provider webhook event.
func (s *Service) HandleSyncEvent(ctx context.Context, event *model.AuthSyncEvent) error {
	switch event.Type {
	case model.AuthEventSessionCreated:
		return s.createSession(ctx, event)
	case model.AuthEventSessionRevoked:
		return s.revokeSession(ctx, event)
	case model.AuthEventUserUpdated:
		return s.updateUser(ctx, event)
	}
	return apperrors.BadRequest(fmt.Sprintf("unknown event type: %s", event.Type), nil)
}

func (s *Service) createSession(ctx context.Context, event *model.AuthSyncEvent) error {
	if event.Session == nil {
		return apperrors.BadRequest("session payload required", nil)
	}
	if (event.Session.UserID == nil) == (event.Session.PatientID == nil) {
		return apperrors.BadRequest("session must reference exactly one of user_id, patient_id", nil)
	}

	sess := &model.Session{
		Token:     event.Session.Token,
		UserID:    event.Session.UserID,
		PatientID: event.Session.PatientID,
		ExpiresAt: event.Session.ExpiresAt,
	}
	if err := s.repo.Upsert(ctx, sess); err != nil {
		return fmt.Errorf("failed to upsert session: %w", err)
	}
	s.cache.Delete(sess.Token)
	return nil
}

func (s *Service) revokeSession(ctx context.Context, event *model.AuthSyncEvent) error {
	if event.Session == nil || event.Session.Token == "" {
		return apperrors.BadRequest("session token required", nil)
	}

	if err := s.repo.Delete(ctx, event.Session.Token); err != nil {
		// Revoking a token we never saw is fine; the provider retries
		// deliveries and order is not guaranteed.
		if errors.Is(err, repository.ErrNotFound) {
			log.Debug().Msg("revoke for unknown session token")
			return nil
		}
		return fmt.Errorf("failed to delete session: %w", err)
	}
	s.cache.Delete(event.Session.Token)
	return nil
}

func (s *Service) updateUser(ctx context.Context, event *model.AuthSyncEvent) error {
	if event.User == nil {
		return apperrors.BadRequest("user payload required", nil)
	}

	user := &model.User{
		Email:  event.User.Email,
		Name:   event.User.Name,
		Status: model.UserStatusActive,
	}
	user.ID = event.User.ID
	if err := s.userRepo.Upsert(ctx, user); err != nil {
		return fmt.Errorf("failed to upsert user: %w", err)
	}
	return nil
}
