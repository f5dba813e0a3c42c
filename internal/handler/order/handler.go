package order

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/clinovia/portal-api/internal/handler"
	"github.com/clinovia/portal-api/internal/middleware"
	"github.com/clinovia/portal-api/internal/model"
	"github.com/clinovia/portal-api/internal/service/order"
	"github.com/clinovia/portal-api/internal/service/release"
)

type Handler struct {
	orders   *order.Service
	releases *release.Service
}

func NewHandler(orders *order.Service, releases *release.Service) *Handler {
	return &Handler{
		orders:   orders,
		releases: releases,
	}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	labs := r.Group("/lab-orders")
	{
		labs.POST("", h.CreateLabOrder)
		labs.GET("", h.ListLabOrders)
	}

	imaging := r.Group("/imaging-orders")
	{
		imaging.POST("", h.CreateImagingOrder)
		imaging.GET("", h.ListImagingOrders)
	}

	// Releasing is per order id, disambiguated by ?type=lab|imaging.
	r.POST("/results/:id/release", h.ReleaseResult)
}

func (h *Handler) CreateLabOrder(c *gin.Context) {
	var req model.CreateLabOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	mem := middleware.MembershipFrom(c)
	o, err := h.orders.CreateLab(c.Request.Context(), mem.ClinicID, middleware.UserIDFrom(c), &req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(o))
}

func (h *Handler) CreateImagingOrder(c *gin.Context) {
	var req model.CreateImagingOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	mem := middleware.MembershipFrom(c)
	o, err := h.orders.CreateImaging(c.Request.Context(), mem.ClinicID, middleware.UserIDFrom(c), &req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(o))
}

func (h *Handler) ListLabOrders(c *gin.Context) {
	patientID, ok := h.patientFilter(c)
	if !ok {
		return
	}

	mem := middleware.MembershipFrom(c)
	orders, err := h.orders.ListLab(c.Request.Context(), mem.ClinicID, patientID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(orders))
}

func (h *Handler) ListImagingOrders(c *gin.Context) {
	patientID, ok := h.patientFilter(c)
	if !ok {
		return
	}

	mem := middleware.MembershipFrom(c)
	orders, err := h.orders.ListImaging(c.Request.Context(), mem.ClinicID, patientID)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(orders))
}

func (h *Handler) ReleaseResult(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid order ID"))
		return
	}

	kind := model.ReleaseKind(c.Query("type"))
	mem := middleware.MembershipFrom(c)

	rel, err := h.releases.Release(c.Request.Context(), mem.ClinicID, id, middleware.UserIDFrom(c), kind)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(rel))
}

func (h *Handler) patientFilter(c *gin.Context) (*uuid.UUID, bool) {
	raw := c.Query("patient_id")
	if raw == "" {
		return nil, true
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid patient ID"))
		return nil, false
	}
	return &id, true
}
