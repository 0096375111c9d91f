package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"taxpractice/internal/models"
	"taxpractice/internal/services"
)

type ReturnHandler struct {
	service services.ReturnService
}

func NewReturnHandler(service services.ReturnService) *ReturnHandler {
	return &ReturnHandler{service: service}
}

// Create godoc
// @Summary Create a tax return
// @Description A return created in NEW automatically gets a document-request task.
// @Tags returns
// @Accept json
// @Produce json
// @Param return body models.TaxReturn true "Tax return"
// @Success 201 {object} models.TaxReturn
// @Failure 400 {object} map[string]string
// @Router /returns [post]
func (h *ReturnHandler) Create(c *gin.Context) {
	var t models.TaxReturn
	if err := c.ShouldBindJSON(&t); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	created, err := h.service.Create(c.Request.Context(), getActor(c), &t)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *ReturnHandler) Update(c *gin.Context) {
	var t models.TaxReturn
	if err := c.ShouldBindJSON(&t); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	updated, err := h.service.Update(c.Request.Context(), getActor(c), c.Param("id"), &t)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *ReturnHandler) ChangeStatus(c *gin.Context) {
	var body struct {
		To models.ReturnStatus `json:"to" binding:"required"`
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

func (h *ReturnHandler) GetByID(c *gin.Context) {
	t, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (h *ReturnHandler) List(c *gin.Context) {
	var filter models.ReturnFilter
	if v, ok := c.GetQuery("client_id"); ok {
		filter.ClientID = &v
	}
	if v, ok := c.GetQuery("status"); ok {
		st := models.ReturnStatus(v)
		filter.Status = &st
	}
	if v, ok := c.GetQuery("assigned_to_id"); ok {
		filter.AssignedToID = &v
	}
	if v, ok := c.GetQuery("tax_year"); ok {
		if year, err := strconv.Atoi(v); err == nil {
			filter.TaxYear = &year
		}
	}

	res, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
