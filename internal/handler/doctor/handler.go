package doctor

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SiddhuQuant/dietec-api/internal/handler"
	"github.com/SiddhuQuant/dietec-api/internal/middleware"
	"github.com/SiddhuQuant/dietec-api/internal/service/doctordash"
)

type Handler struct {
	svc *doctordash.Service
}

func NewHandler(svc *doctordash.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	doctor := r.Group("/doctor")
	{
		doctor.GET("/stats", h.Stats)
		doctor.GET("/patients", h.Patients)
		doctor.GET("/pending", h.PendingActions)
	}
}

func (h *Handler) Stats(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("unauthorized"))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(h.svc.Stats(c.Request.Context(), user.ID)))
}

func (h *Handler) Patients(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("unauthorized"))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(h.svc.Patients(c.Request.Context(), user.ID)))
}

func (h *Handler) PendingActions(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("unauthorized"))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(h.svc.PendingActions(c.Request.Context(), user.ID)))
}
