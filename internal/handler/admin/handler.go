package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/SiddhuQuant/dietec-api/internal/handler"
	"github.com/SiddhuQuant/dietec-api/internal/service/admindash"
)

type Handler struct {
	svc *admindash.Service
}

func NewHandler(svc *admindash.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	admin := r.Group("/admin")
	{
		admin.GET("/metrics", h.Metrics)
		admin.GET("/revenue", h.Revenue)
		admin.GET("/users", h.ListUsers)
		admin.DELETE("/users/:role/:id", h.DeleteUser)
	}
}

func (h *Handler) Metrics(c *gin.Context) {
	c.JSON(http.StatusOK, handler.NewSuccessResponse(h.svc.Metrics(c.Request.Context())))
}

func (h *Handler) Revenue(c *gin.Context) {
	c.JSON(http.StatusOK, handler.NewSuccessResponse(h.svc.Revenue(c.Request.Context())))
}

func (h *Handler) ListUsers(c *gin.Context) {
	c.JSON(http.StatusOK, handler.NewSuccessResponse(h.svc.ListUsers(c.Request.Context())))
}

func (h *Handler) DeleteUser(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid user id"))
		return
	}

	if err := h.svc.DeleteUser(c.Request.Context(), c.Param("role"), id); err != nil {
		handler.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse("user deleted successfully"))
}
