package portal

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

var testMetrics = metrics.NewMetrics("test", "portal")

type mockRequestRepo struct {
	createWithEvent func(ctx context.Context, req *model.AppointmentRequest, event *model.OutboxEvent) error
	listByPatient   func(ctx context.Context, patientID uuid.UUID) ([]*model.AppointmentRequest, error)
}

func (m *mockRequestRepo) CreateWithEvent(ctx context.Context, req *model.AppointmentRequest, event *model.OutboxEvent) error {
	return m.createWithEvent(ctx, req, event)
}

func (m *mockRequestRepo) Get(ctx context.Context, clinicID, id uuid.UUID) (*model.AppointmentRequest, error) {
	return nil, repository.ErrNotFound
}

func (m *mockRequestRepo) List(ctx context.Context, clinicID uuid.UUID, filter *model.AppointmentRequestFilter) ([]*model.AppointmentRequest, error) {
	return nil, nil
}

func (m *mockRequestRepo) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*model.AppointmentRequest, error) {
	return m.listByPatient(ctx, patientID)
}

func (m *mockRequestRepo) Decide(ctx context.Context, clinicID, id uuid.UUID, status model.AppointmentRequestStatus, decidedBy uuid.UUID) (*model.AppointmentRequest, error) {
	return nil, repository.ErrNotFound
}

type mockMembershipRepo struct {
	isDoctor func(ctx context.Context, doctorID, clinicID uuid.UUID) (bool, error)
}

func (m *mockMembershipRepo) ResolveClinic(ctx context.Context, userID uuid.UUID) (*model.Membership, error) {
	return nil, repository.ErrNotFound
}

func (m *mockMembershipRepo) ListDoctors(ctx context.Context, clinicID uuid.UUID) ([]*model.User, error) {
	return nil, nil
}

func (m *mockMembershipRepo) IsDoctorInClinic(ctx context.Context, doctorID, clinicID uuid.UUID) (bool, error) {
	return m.isDoctor(ctx, doctorID, clinicID)
}

func TestCombineDateTime(t *testing.T) {
	got, err := CombineDateTime("2025-03-01", "14:30")
	require.NoError(t, err)

	want := time.Date(2025, time.March, 1, 14, 30, 0, 0, time.Local)
	assert.True(t, got.Equal(want), "got %v want %v", got, want)
	assert.Zero(t, got.Second())
	assert.Zero(t, got.Nanosecond())
}

func TestCombineDateTimeRejectsMalformedInput(t *testing.T) {
	cases := []struct{ date, clock string }{
		{"2025-13-01", "14:30"},
		{"not-a-date", "14:30"},
		{"2025-03-01", "25:00"},
		{"2025-03-01", "2pm"},
	}
	for _, tc := range cases {
		_, err := CombineDateTime(tc.date, tc.clock)
		assert.Error(t, err, "date=%s time=%s", tc.date, tc.clock)
	}
}

func testPatient() *model.Patient {
	p := &model.Patient{
		ClinicID: uuid.New(),
		Name:     "Pat",
		Email:    "pat@example.com",
	}
	p.ID = uuid.New()
	return p
}

func TestSubmitRequestCollectsFieldErrors(t *testing.T) {
	svc := NewService(&mockRequestRepo{}, nil, nil, &mockMembershipRepo{}, testMetrics)

	_, err := svc.SubmitRequest(context.Background(), testPatient(), &model.SubmitAppointmentRequest{})
	require.Error(t, err)

	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Len(t, appErr.Fields, 4)
	assert.Contains(t, appErr.Fields, "date")
	assert.Contains(t, appErr.Fields, "time")
	assert.Contains(t, appErr.Fields, "doctor_id")
	assert.Contains(t, appErr.Fields, "reason")
}

func TestSubmitRequestRejectsForeignDoctor(t *testing.T) {
	memberships := &mockMembershipRepo{
		isDoctor: func(ctx context.Context, doctorID, clinicID uuid.UUID) (bool, error) {
			return false, nil
		},
	}
	svc := NewService(&mockRequestRepo{}, nil, nil, memberships, testMetrics)

	_, err := svc.SubmitRequest(context.Background(), testPatient(), &model.SubmitAppointmentRequest{
		Date:     "2025-03-01",
		Time:     "14:30",
		DoctorID: uuid.New().String(),
		Reason:   "checkup",
	})
	require.Error(t, err)

	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Contains(t, appErr.Fields, "doctor_id")
}

func TestSubmitRequestScopesToPatientClinic(t *testing.T) {
	patient := testPatient()
	doctorID := uuid.New()

	memberships := &mockMembershipRepo{
		isDoctor: func(ctx context.Context, gotDoctor, gotClinic uuid.UUID) (bool, error) {
			assert.Equal(t, doctorID, gotDoctor)
			assert.Equal(t, patient.ClinicID, gotClinic)
			return true, nil
		},
	}

	var created *model.AppointmentRequest
	var event *model.OutboxEvent
	requests := &mockRequestRepo{
		createWithEvent: func(ctx context.Context, req *model.AppointmentRequest, ev *model.OutboxEvent) error {
			created = req
			event = ev
			return nil
		},
	}
	svc := NewService(requests, nil, nil, memberships, testMetrics)

	req, err := svc.SubmitRequest(context.Background(), patient, &model.SubmitAppointmentRequest{
		Date:     "2025-03-01",
		Time:     "09:15",
		DoctorID: doctorID.String(),
		Reason:   "follow-up",
	})
	require.NoError(t, err)
	require.NotNil(t, created)

	assert.Equal(t, patient.ClinicID, req.ClinicID)
	assert.Equal(t, patient.ID, req.PatientID)
	assert.Equal(t, time.Date(2025, time.March, 1, 9, 15, 0, 0, time.Local), req.RequestedStart)
	require.NotNil(t, event)
	assert.Equal(t, model.EventRequestSubmitted, event.EventType)
}

func TestListRequestsIncludesDecidedHistory(t *testing.T) {
	patientID := uuid.New()
	requests := &mockRequestRepo{
		listByPatient: func(ctx context.Context, id uuid.UUID) ([]*model.AppointmentRequest, error) {
			assert.Equal(t, patientID, id)
			return []*model.AppointmentRequest{
				{Status: model.AppointmentRequestStatusPending},
				{Status: model.AppointmentRequestStatusRejected},
			}, nil
		},
	}
	svc := NewService(requests, nil, nil, &mockMembershipRepo{}, testMetrics)

	got, err := svc.ListRequests(context.Background(), patientID)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}
