package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taxpractice/internal/services"
)

type ReportHandler struct {
	service services.ReportService
}

func NewReportHandler(service services.ReportService) *ReportHandler {
	return &ReportHandler{service: service}
}

// Dashboard godoc
// @Summary Practice dashboard counters
// @Tags reports
// @Produce json
// @Success 200 {object} services.DashboardStats
// @Router /reports/dashboard [get]
func (h *ReportHandler) Dashboard(c *gin.Context) {
	stats, err := h.service.Dashboard(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
