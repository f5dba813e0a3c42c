package postgres

import (
	"github.com/jmoiron/sqlx"

	"github.com/clinovia/portal-api/internal/repository"
)

type invitationRepository struct {
	BaseRepository
}

type userRepository struct {
	db *sqlx.DB
}

type membershipRepository struct {
	db *sqlx.DB
}

type clinicRepository struct {
	db *sqlx.DB
}

type patientRepository struct {
	db *sqlx.DB
}

type appointmentRequestRepository struct {
	BaseRepository
}

type appointmentRepository struct {
	db *sqlx.DB
}

type orderRepository struct {
	db *sqlx.DB
}

type releaseRepository struct {
	db *sqlx.DB
}

type sessionRepository struct {
	db *sqlx.DB
}

func NewInvitationRepository(db *sqlx.DB) repository.InvitationRepository {
	return &invitationRepository{NewBaseRepository(db)}
}

func NewUserRepository(db *sqlx.DB) repository.UserRepository {
	return &userRepository{db: db}
}

func NewMembershipRepository(db *sqlx.DB) repository.MembershipRepository {
	return &membershipRepository{db: db}
}

func NewClinicRepository(db *sqlx.DB) repository.ClinicRepository {
	return &clinicRepository{db: db}
}

func NewPatientRepository(db *sqlx.DB) repository.PatientRepository {
	return &patientRepository{db: db}
}

func NewAppointmentRequestRepository(db *sqlx.DB) repository.AppointmentRequestRepository {
	return &appointmentRequestRepository{NewBaseRepository(db)}
}

func NewAppointmentRepository(db *sqlx.DB) repository.AppointmentRepository {
	return &appointmentRepository{db: db}
}

func NewOrderRepository(db *sqlx.DB) repository.OrderRepository {
	return &orderRepository{db: db}
}

func NewReleaseRepository(db *sqlx.DB) repository.ReleaseRepository {
	return &releaseRepository{db: db}
}

func NewSessionRepository(db *sqlx.DB) repository.SessionRepository {
	return &sessionRepository{db: db}
}
