package portal

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/clinovia/portal-api/internal/model"
	"github.com/clinovia/portal-api/internal/repository"
	apperrors "github.com/clinovia/portal-api/pkg/errors"
	"github.com/clinovia/portal-api/pkg/metrics"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

// Service is the patient-facing side: appointment requests, released
// results, and contact messages, all scoped to the patient's own clinic.
type Service struct {
	requestRepo     repository.AppointmentRequestRepository
	appointmentRepo repository.AppointmentRepository
	releaseRepo     repository.ReleaseRepository
	membershipRepo  repository.MembershipRepository
	metrics         *metrics.Metrics
}

func NewService(requestRepo repository.AppointmentRequestRepository,
	appointmentRepo repository.AppointmentRepository,
	releaseRepo repository.ReleaseRepository,
	membershipRepo repository.MembershipRepository,
	m *metrics.Metrics) *Service {
	return &Service{
		requestRepo:     requestRepo,
		appointmentRepo: appointmentRepo,
		releaseRepo:     releaseRepo,
		membershipRepo:  membershipRepo,
		metrics:         m,
	}
}

// CombineDateTime overlays the hour and minute onto the date, with seconds
// and nanoseconds zeroed, in server-local time.
func CombineDateTime(dateStr, timeStr string) (time.Time, error) {
	date, err := time.ParseInLocation(dateLayout, dateStr, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date: %w", err)
	}
	clock, err := time.Parse(timeLayout, timeStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time: %w", err)
	}
	return time.Date(date.Year(), date.Month(), date.Day(),
		clock.Hour(), clock.Minute(), 0, 0, time.Local), nil
}

// SubmitRequest records the patient's intent as a PENDING request. No
// overlap or double-booking check happens here; staff decide later.
func (s *Service) SubmitRequest(ctx context.Context, patient *model.Patient, req *model.SubmitAppointmentRequest) (*model.AppointmentRequest, error) {
	fields := map[string]string{}
	if req.Date == "" {
		fields["date"] = "date is required"
	}
	if req.Time == "" {
		fields["time"] = "time is required"
	}
	if req.DoctorID == "" {
		fields["doctor_id"] = "doctor is required"
	}
	if req.Reason == "" {
		fields["reason"] = "reason is required"
	}
	if len(fields) > 0 {
		return nil, apperrors.Validation(fields)
	}

	requestedStart, err := CombineDateTime(req.Date, req.Time)
	if err != nil {
		return nil, apperrors.Validation(map[string]string{"date": err.Error()})
	}

	doctorID, err := uuid.Parse(req.DoctorID)
	if err != nil {
		return nil, apperrors.Validation(map[string]string{"doctor_id": "invalid doctor id"})
	}

	// Reject doctors outside the patient's clinic so a request can never
	// reference another tenant.
	isDoctor, err := s.membershipRepo.IsDoctorInClinic(ctx, doctorID, patient.ClinicID)
	if err != nil {
		return nil, fmt.Errorf("failed to verify doctor: %w", err)
	}
	if !isDoctor {
		return nil, apperrors.Validation(map[string]string{"doctor_id": "doctor does not belong to this clinic"})
	}

	request := &model.AppointmentRequest{
		PatientID:      patient.ID,
		ClinicID:       patient.ClinicID,
		DoctorID:       doctorID,
		RequestedStart: requestedStart,
		Reason:         req.Reason,
	}

	payload, err := json.Marshal(map[string]interface{}{
		"patient_id":      patient.ID,
		"clinic_id":       patient.ClinicID,
		"doctor_id":       doctorID,
		"requested_start": requestedStart,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request payload: %w", err)
	}

	event := &model.OutboxEvent{
		EventType: model.EventRequestSubmitted,
		Payload:   payload,
	}

	if err := s.requestRepo.CreateWithEvent(ctx, request, event); err != nil {
		return nil, fmt.Errorf("failed to create appointment request: %w", err)
	}

	s.metrics.RequestsSubmitted.Inc()
	return request, nil
}

// ListRequests returns the patient's own request history, terminal states
// included.
func (s *Service) ListRequests(ctx context.Context, patientID uuid.UUID) ([]*model.AppointmentRequest, error) {
	requests, err := s.requestRepo.ListByPatient(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}
	return requests, nil
}

func (s *Service) ListAppointments(ctx context.Context, patientID uuid.UUID) ([]*model.Appointment, error) {
	appointments, err := s.appointmentRepo.ListByPatient(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}

// ListResults returns only released results: visibility is gated on the
// existence of a release marker, nothing else.
func (s *Service) ListResults(ctx context.Context, patientID uuid.UUID) ([]*model.PortalResult, error) {
	results, err := s.releaseRepo.ListReleasedForPatient(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list results: %w", err)
	}
	return results, nil
}

func (s *Service) ListDoctors(ctx context.Context, clinicID uuid.UUID) ([]*model.User, error) {
	doctors, err := s.membershipRepo.ListDoctors(ctx, clinicID)
	if err != nil {
		return nil, fmt.Errorf("failed to list doctors: %w", err)
	}
	return doctors, nil
}

// SubmitContact accepts a contact message. Outbound delivery is not wired
// up; the message is logged for the clinic inbox integration.
func (s *Service) SubmitContact(ctx context.Context, patient *model.Patient, msg *model.ContactMessage) error {
	log.Info().
		Str("patient_id", patient.ID.String()).
		Str("clinic_id", patient.ClinicID.String()).
		Str("subject", msg.Subject).
		Msg("portal contact message received")
	return nil
}
