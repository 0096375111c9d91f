package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taxpractice/internal/models"
	"taxpractice/internal/services"
)

type CommunicationHandler struct {
	service services.CommunicationService
}

func NewCommunicationHandler(service services.CommunicationService) *CommunicationHandler {
	return &CommunicationHandler{service: service}
}

// Send godoc
// @Summary Send an email to a client
// @Tags communications
// @Accept json
// @Produce json
// @Param request body services.SendRequest true "Message or template reference"
// @Success 201 {object} models.Communication
// @Failure 400 {object} map[string]string
// @Router /communications/send [post]
func (h *CommunicationHandler) Send(c *gin.Context) {
	var req services.SendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	comm, err := h.service.Send(c.Request.Context(), getActor(c), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, comm)
}

func (h *CommunicationHandler) LogInbound(c *gin.Context) {
	var comm models.Communication
	if err := c.ShouldBindJSON(&comm); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	created, err := h.service.LogInbound(c.Request.Context(), getActor(c), &comm)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *CommunicationHandler) ChangeStatus(c *gin.Context) {
	var body struct {
		To models.CommStatus `json:"to" binding:"required"`
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

func (h *CommunicationHandler) GetByID(c *gin.Context) {
	comm, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, comm)
}

func (h *CommunicationHandler) List(c *gin.Context) {
	var filter models.CommunicationFilter
	if v, ok := c.GetQuery("client_id"); ok {
		filter.ClientID = &v
	}
	if v, ok := c.GetQuery("type"); ok {
		filter.Type = &v
	}
	if v, ok := c.GetQuery("status"); ok {
		st := models.CommStatus(v)
		filter.Status = &st
	}
	if v, ok := c.GetQuery("direction"); ok {
		d := models.CommDirection(v)
		filter.Direction = &d
	}

	res, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
