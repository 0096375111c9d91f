package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"taxpractice/internal/models"
	"taxpractice/internal/pdf"
	"taxpractice/internal/services"
)

type EngagementHandler struct {
	service services.EngagementService
	clients services.ClientService
	letters pdf.Generator
}

func NewEngagementHandler(service services.EngagementService, clients services.ClientService, letters pdf.Generator) *EngagementHandler {
	return &EngagementHandler{service: service, clients: clients, letters: letters}
}

func (h *EngagementHandler) Create(c *gin.Context) {
	var e models.Engagement
	if err := c.ShouldBindJSON(&e); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	created, err := h.service.Create(c.Request.Context(), getActor(c), &e)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *EngagementHandler) Update(c *gin.Context) {
	var e models.Engagement
	if err := c.ShouldBindJSON(&e); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	updated, err := h.service.Update(c.Request.Context(), getActor(c), c.Param("id"), &e)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// ChangeStatus godoc
// @Summary Move an engagement through its workflow
// @Tags engagements
// @Accept json
// @Produce json
// @Param id path string true "Engagement ID"
// @Param body body object{to=string} true "Target status"
// @Success 200 {object} models.Engagement
// @Failure 409 {object} map[string]string
// @Router /engagements/{id}/status [post]
func (h *EngagementHandler) ChangeStatus(c *gin.Context) {
	var body struct {
		To models.EngagementStatus `json:"to" binding:"required"`
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

func (h *EngagementHandler) GetByID(c *gin.Context) {
	e, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, e)
}

func (h *EngagementHandler) List(c *gin.Context) {
	var filter models.EngagementFilter
	if v, ok := c.GetQuery("client_id"); ok {
		filter.ClientID = &v
	}
	if v, ok := c.GetQuery("tax_year"); ok {
		if year, err := strconv.Atoi(v); err == nil {
			filter.TaxYear = &year
		}
	}
	if v, ok := c.GetQuery("status"); ok {
		st := models.EngagementStatus(v)
		filter.Status = &st
	}

	res, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// Letter renders the engagement letter PDF and returns its file path.
func (h *EngagementHandler) Letter(c *gin.Context) {
	e, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	client, err := h.clients.GetByID(c.Request.Context(), e.ClientID)
	if err != nil {
		writeError(c, err)
		return
	}

	path, err := h.letters.EngagementLetter(pdf.LetterData{
		ClientName: client.DisplayName(),
		ClientID:   client.ClientID,
		TaxYear:    e.TaxYear,
		Type:       e.Type,
		FeeAmount:  e.FeeAmount,
		DueDate:    e.DueDate,
		CreatedAt:  e.CreatedAt,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate letter"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"file": path})
}
