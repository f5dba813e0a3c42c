package request

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
	"github.com/clinovia/portal-api/pkg/metrics"
)

var testMetrics = metrics.NewMetrics("test", "request")

type mockRequestRepo struct {
	decide func(ctx context.Context, clinicID, id uuid.UUID, status model.AppointmentRequestStatus, decidedBy uuid.UUID) (*model.AppointmentRequest, error)
	get    func(ctx context.Context, clinicID, id uuid.UUID) (*model.AppointmentRequest, error)
}

func (m *mockRequestRepo) CreateWithEvent(ctx context.Context, req *model.AppointmentRequest, event *model.OutboxEvent) error {
	return nil
}

func (m *mockRequestRepo) Get(ctx context.Context, clinicID, id uuid.UUID) (*model.AppointmentRequest, error) {
	return m.get(ctx, clinicID, id)
}

func (m *mockRequestRepo) List(ctx context.Context, clinicID uuid.UUID, filter *model.AppointmentRequestFilter) ([]*model.AppointmentRequest, error) {
	return nil, nil
}

func (m *mockRequestRepo) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*model.AppointmentRequest, error) {
	return nil, nil
}

func (m *mockRequestRepo) Decide(ctx context.Context, clinicID, id uuid.UUID, status model.AppointmentRequestStatus, decidedBy uuid.UUID) (*model.AppointmentRequest, error) {
	return m.decide(ctx, clinicID, id, status, decidedBy)
}

type mockOutboxRepo struct {
	created []*model.OutboxEvent
}

func (m *mockOutboxRepo) Create(ctx context.Context, event *model.OutboxEvent) error {
	m.created = append(m.created, event)
	return nil
}

func (m *mockOutboxRepo) GetPendingEventsWithLock(ctx context.Context, limit, maxRetries int) ([]*model.OutboxEvent, error) {
	return nil, nil
}

func (m *mockOutboxRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status model.OutboxStatus, errorMessage *string, retryAt *time.Time) error {
	return nil
}

func (m *mockOutboxRepo) DeleteProcessedBefore(ctx context.Context, before time.Time) (int64, error) {
	return 0, nil
}

func TestApproveAlreadyDecidedConflicts(t *testing.T) {
	repo := &mockRequestRepo{
		decide: func(ctx context.Context, clinicID, id uuid.UUID, status model.AppointmentRequestStatus, decidedBy uuid.UUID) (*model.AppointmentRequest, error) {
			return nil, repository.ErrStaleStatus
		},
	}
	svc := NewService(repo, &mockOutboxRepo{}, testMetrics)

	_, err := svc.Approve(context.Background(), uuid.New(), uuid.New(), uuid.New())
	require.Error(t, err)
	assert.True(t, apperrors.IsConflict(err))
}

func TestDecideWrongClinicNotFound(t *testing.T) {
	repo := &mockRequestRepo{
		decide: func(ctx context.Context, clinicID, id uuid.UUID, status model.AppointmentRequestStatus, decidedBy uuid.UUID) (*model.AppointmentRequest, error) {
			return nil, repository.ErrNotFound
		},
	}
	svc := NewService(repo, &mockOutboxRepo{}, testMetrics)

	_, err := svc.Reject(context.Background(), uuid.New(), uuid.New(), uuid.New())
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestDecisionRecordsDeciderAndQueuesEvent(t *testing.T) {
	deciderID := uuid.New()
	repo := &mockRequestRepo{
		decide: func(ctx context.Context, clinicID, id uuid.UUID, status model.AppointmentRequestStatus, decidedBy uuid.UUID) (*model.AppointmentRequest, error) {
			assert.Equal(t, deciderID, decidedBy)
			now := time.Now()
			return &model.AppointmentRequest{
				ID:        id,
				ClinicID:  clinicID,
				Status:    status,
				DecidedBy: &decidedBy,
				DecidedAt: &now,
			}, nil
		},
	}
	outbox := &mockOutboxRepo{}
	svc := NewService(repo, outbox, testMetrics)

	req, err := svc.Approve(context.Background(), uuid.New(), uuid.New(), deciderID)
	require.NoError(t, err)

	assert.Equal(t, model.AppointmentRequestStatusApproved, req.Status)
	require.Len(t, outbox.created, 1)
	assert.Equal(t, model.EventRequestDecided, outbox.created[0].EventType)
}
