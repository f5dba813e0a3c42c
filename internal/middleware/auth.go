package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/clinovia/portal-api/internal/model"
	"github.com/clinovia/portal-api/internal/repository"
	"github.com/clinovia/portal-api/internal/service/membership"
	"github.com/clinovia/portal-api/internal/service/session"
	apperrors "github.com/clinovia/portal-api/pkg/errors"
)

// Context keys set by the auth middleware.
const (
	ContextUserID     = "user_id"
	ContextMembership = "membership"
	ContextClinicID   = "clinic_id"
	ContextPatient    = "patient"
)

type AuthMiddleware struct {
	sessions    *session.Service
	memberships *membership.Service
	patients    repository.PatientRepository
}

func NewAuthMiddleware(sessions *session.Service, memberships *membership.Service,
	patients repository.PatientRepository) *AuthMiddleware {
	return &AuthMiddleware{
		sessions:    sessions,
		memberships: memberships,
		patients:    patients,
	}
}

// Authenticate resolves a staff session and pins the request to the
// caller's clinic. Every downstream query reads the clinic from context,
// never from request input.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := m.resolve(c)
		if !ok {
			return
		}
		if sess.UserID == nil {
			m.abort(c, apperrors.Unauthorized("staff session required"))
			return
		}

		mem, err := m.memberships.Resolve(c.Request.Context(), *sess.UserID)
		if err != nil {
			m.abort(c, err)
			return
		}

		c.Set(ContextUserID, *sess.UserID)
		c.Set(ContextMembership, mem)
		c.Set(ContextClinicID, mem.ClinicID)
		c.Next()
	}
}

// AuthenticatePortal resolves a patient session. Soft-deleted patients read
// as unauthorized: their portal access goes away with the record.
func (m *AuthMiddleware) AuthenticatePortal() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := m.resolve(c)
		if !ok {
			return
		}
		if sess.PatientID == nil {
			m.abort(c, apperrors.Unauthorized("patient session required"))
			return
		}

		patient, err := m.patients.GetAny(c.Request.Context(), *sess.PatientID)
		if err != nil || patient.DeletedAt != nil {
			m.abort(c, apperrors.Unauthorized("session no longer valid"))
			return
		}

		c.Set(ContextPatient, patient)
		c.Next()
	}
}

func (m *AuthMiddleware) resolve(c *gin.Context) (*model.Session, bool) {
	token, err := bearerToken(c)
	if err != nil {
		m.abort(c, err)
		return nil, false
	}

	sess, err := m.sessions.Resolve(c.Request.Context(), token)
	if err != nil {
		m.abort(c, err)
		return nil, false
	}
	return sess, true
}

func (m *AuthMiddleware) abort(c *gin.Context, err error) {
	status := http.StatusUnauthorized
	message := "unauthorized"
	if appErr, ok := apperrors.As(err); ok {
		status = appErr.StatusCode()
		message = appErr.Message
	}
	c.AbortWithStatusJSON(status, ErrorResponse{
		Code:    status,
		Message: message,
		TraceID: c.GetString(ContextRequestID),
	})
}

func bearerToken(c *gin.Context) (string, error) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", apperrors.Unauthorized("missing authorization header")
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", apperrors.Unauthorized("invalid authorization format")
	}
	return parts[1], nil
}

// UserIDFrom reads the authenticated staff user id set by Authenticate.
func UserIDFrom(c *gin.Context) uuid.UUID {
	return c.MustGet(ContextUserID).(uuid.UUID)
}

// MembershipFrom reads the resolved membership set by Authenticate.
func MembershipFrom(c *gin.Context) *model.Membership {
	return c.MustGet(ContextMembership).(*model.Membership)
}

// PatientFrom reads the authenticated patient set by AuthenticatePortal.
func PatientFrom(c *gin.Context) *model.Patient {
	return c.MustGet(ContextPatient).(*model.Patient)
}
