package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"taxpractice/internal/models"
	"taxpractice/internal/services"
)

type ComplianceHandler struct {
	service services.ComplianceService
}

func NewComplianceHandler(service services.ComplianceService) *ComplianceHandler {
	return &ComplianceHandler{service: service}
}

func activityFilter(c *gin.Context) models.ActivityLogFilter {
	var filter models.ActivityLogFilter
	if v, ok := c.GetQuery("user_id"); ok {
		filter.UserID = &v
	}
	if v, ok := c.GetQuery("resource_type"); ok {
		filter.ResourceType = &v
	}
	if v, ok := c.GetQuery("resource_id"); ok {
		filter.ResourceID = &v
	}
	if v, ok := c.GetQuery("start_date"); ok {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			filter.StartDate = &t
		}
	}
	if v, ok := c.GetQuery("end_date"); ok {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			end := t.Add(24*time.Hour - time.Second)
			filter.EndDate = &end
		}
	}
	return filter
}

// List godoc
// @Summary Read the activity log
// @Tags compliance
// @Produce json
// @Success 200 {array} models.ActivityLog
// @Router /compliance [get]
func (h *ComplianceHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	res, err := h.service.List(c.Request.Context(), activityFilter(c), limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// ExportCSV streams the activity log as a CSV attachment.
func (h *ComplianceHandler) ExportCSV(c *gin.Context) {
	csv, err := h.service.ExportCSV(c.Request.Context(), getActor(c), activityFilter(c))
	if err != nil {
		writeError(c, err)
		return
	}
	filename := "activity-log-" + time.Now().Format("2006-01-02") + ".csv"
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "text/csv", []byte(csv))
}
