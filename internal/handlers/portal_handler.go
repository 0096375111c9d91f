package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taxpractice/internal/services"
)

type PortalHandler struct {
	service services.PortalService
}

func NewPortalHandler(service services.PortalService) *PortalHandler {
	return &PortalHandler{service: service}
}

// View returns the client-facing projection of one client's account.
func (h *PortalHandler) View(c *gin.Context) {
	view, err := h.service.View(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}
