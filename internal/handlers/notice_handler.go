package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taxpractice/internal/models"
	"taxpractice/internal/services"
)

type NoticeHandler struct {
	service services.NoticeService
}

func NewNoticeHandler(service services.NoticeService) *NoticeHandler {
	return &NoticeHandler{service: service}
}

func (h *NoticeHandler) Create(c *gin.Context) {
	var n models.IRSNotice
	if err := c.ShouldBindJSON(&n); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	created, err := h.service.Create(c.Request.Context(), getActor(c), &n)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *NoticeHandler) ChangeStatus(c *gin.Context) {
	var body struct {
		To models.NoticeStatus `json:"to" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	updated, err := h.service.UpdateStatus(c.Request.Context(), getActor(c), c.Param("id"), body.To)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// Analyze godoc
// @Summary Analyze an IRS notice
// @Description Fills the notice summary and action items and spawns a response task per item.
// @Tags notices
// @Produce json
// @Param id path string true "Notice ID"
// @Success 200 {object} services.NoticeAnalysisResult
// @Failure 404 {object} map[string]string
// @Router /notices/{id}/analyze [post]
func (h *NoticeHandler) Analyze(c *gin.Context) {
	res, err := h.service.Analyze(c.Request.Context(), getActor(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *NoticeHandler) GetByID(c *gin.Context) {
	n, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, n)
}

func (h *NoticeHandler) List(c *gin.Context) {
	var filter models.NoticeFilter
	if v, ok := c.GetQuery("client_id"); ok {
		filter.ClientID = &v
	}
	if v, ok := c.GetQuery("status"); ok {
		st := models.NoticeStatus(v)
		filter.Status = &st
	}
	if v, ok := c.GetQuery("assigned_to_id"); ok {
		filter.AssignedToID = &v
	}

	res, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
