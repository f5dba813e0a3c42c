package request

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/clinovia/portal-api/internal/handler"
	"github.com/clinovia/portal-api/internal/middleware"
	"github.com/clinovia/portal-api/internal/model"
	"github.com/clinovia/portal-api/internal/service/request"
)

// Handler is the staff side of appointment requests: review the queue,
// approve or reject.
type Handler struct {
	service *request.Service
}

func NewHandler(service *request.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	requests := r.Group("/appointment-requests")
	{
		requests.GET("", h.ListRequests)
		requests.GET("/:id", h.GetRequest)
		requests.POST("/:id/approve", h.ApproveRequest)
		requests.POST("/:id/reject", h.RejectRequest)
	}
}

func (h *Handler) ListRequests(c *gin.Context) {
	var filter model.AppointmentRequestFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	mem := middleware.MembershipFrom(c)
	requests, err := h.service.List(c.Request.Context(), mem.ClinicID, &filter)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(requests))
}

func (h *Handler) GetRequest(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid request ID"))
		return
	}

	mem := middleware.MembershipFrom(c)
	req, err := h.service.Get(c.Request.Context(), mem.ClinicID, id)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(req))
}

func (h *Handler) ApproveRequest(c *gin.Context) {
	h.decide(c, h.service.Approve)
}

func (h *Handler) RejectRequest(c *gin.Context) {
	h.decide(c, h.service.Reject)
}

type decideFunc func(ctx context.Context, clinicID, id, decidedBy uuid.UUID) (*model.AppointmentRequest, error)

func (h *Handler) decide(c *gin.Context, fn decideFunc) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid request ID"))
		return
	}

	mem := middleware.MembershipFrom(c)
	req, err := fn(c.Request.Context(), mem.ClinicID, id, middleware.UserIDFrom(c))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(req))
}
