package webhook

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/clinovia/portal-api/internal/handler"
	"github.com/clinovia/portal-api/internal/model"
	"github.com/clinovia/portal-api/internal/service/session"
)

// Handler receives sync events from the external auth provider.
type Handler struct {
	sessions *session.Service
}

func NewHandler(sessions *session.Service) *Handler {
	return &Handler{sessions: sessions}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/webhooks/auth", h.HandleAuthEvent)
}

func (h *Handler) HandleAuthEvent(c *gin.Context) {
	var event model.AuthSyncEvent
	if err := c.ShouldBindJSON(&event); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	if err := h.sessions.HandleSyncEvent(c.Request.Context(), &event); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}
