package portal

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/clinovia/portal-api/internal/handler"
	"github.com/clinovia/portal-api/internal/middleware"
	"github.com/clinovia/portal-api/internal/model"
	"github.com/clinovia/portal-api/internal/service/portal"
)

// Handler is the patient-facing surface. Every endpoint runs behind the
// portal session middleware; the patient identity always comes from the
// session, never from the request body.
type Handler struct {
	service *portal.Service
}

func NewHandler(service *portal.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/me", h.GetProfile)
	r.GET("/doctors", h.ListDoctors)

	appointments := r.Group("/appointments")
	{
		appointments.POST("/request", h.SubmitRequest)
		appointments.GET("/requests", h.ListRequests)
		appointments.GET("", h.ListAppointments)
	}

	r.GET("/results", h.ListResults)
	r.POST("/contact", h.SubmitContact)
}

func (h *Handler) GetProfile(c *gin.Context) {
	c.JSON(http.StatusOK, handler.NewSuccessResponse(middleware.PatientFrom(c)))
}

func (h *Handler) ListDoctors(c *gin.Context) {
	patient := middleware.PatientFrom(c)
	doctors, err := h.service.ListDoctors(c.Request.Context(), patient.ClinicID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(doctors))
}

func (h *Handler) SubmitRequest(c *gin.Context) {
	var req model.SubmitAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	request, err := h.service.SubmitRequest(c.Request.Context(), middleware.PatientFrom(c), &req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(request))
}

func (h *Handler) ListRequests(c *gin.Context) {
	patient := middleware.PatientFrom(c)
	requests, err := h.service.ListRequests(c.Request.Context(), patient.ID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(requests))
}

func (h *Handler) ListAppointments(c *gin.Context) {
	patient := middleware.PatientFrom(c)
	appointments, err := h.service.ListAppointments(c.Request.Context(), patient.ID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(appointments))
}

func (h *Handler) ListResults(c *gin.Context) {
	patient := middleware.PatientFrom(c)
	results, err := h.service.ListResults(c.Request.Context(), patient.ID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(results))
}

func (h *Handler) SubmitContact(c *gin.Context) {
	var msg model.ContactMessage
	if err := c.ShouldBindJSON(&msg); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	if err := h.service.SubmitContact(c.Request.Context(), middleware.PatientFrom(c), &msg); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusAccepted, handler.NewSuccessResponse(nil))
}
