package invitation

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/clinovia/portal-api/internal/handler"
	"github.com/clinovia/portal-api/internal/middleware"
	"github.com/clinovia/portal-api/internal/model"
	"github.com/clinovia/portal-api/internal/service/invitation"
)

type Handler struct {
	service *invitation.Service
}

func NewHandler(service *invitation.Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the staff-side invitation endpoints.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	invitations := r.Group("/invitations")
	{
		invitations.POST("", h.CreateInvitation)
		invitations.GET("", h.ListInvitations)
	}
}

// RegisterPublicRoutes mounts the token check and accept endpoints. They
// are unauthenticated: the token itself is the credential.
func (h *Handler) RegisterPublicRoutes(r *gin.RouterGroup) {
	invitations := r.Group("/invitations")
	{
		invitations.GET("/:token/check", h.CheckInvitation)
		invitations.POST("/:token/accept", h.AcceptInvitation)
	}
}

func (h *Handler) CreateInvitation(c *gin.Context) {
	var req model.CreateInvitationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	mem := middleware.MembershipFrom(c)
	inv, err := h.service.Create(c.Request.Context(), mem.ClinicID, middleware.UserIDFrom(c), &req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(inv))
}

func (h *Handler) ListInvitations(c *gin.Context) {
	mem := middleware.MembershipFrom(c)
	invitations, err := h.service.List(c.Request.Context(), mem.ClinicID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(invitations))
}

func (h *Handler) CheckInvitation(c *gin.Context) {
	resp, err := h.service.Check(c.Request.Context(), c.Param("token"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(resp))
}

func (h *Handler) AcceptInvitation(c *gin.Context) {
	var req model.AcceptInvitationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	user, err := h.service.Accept(c.Request.Context(), c.Param("token"), &req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(user))
}
