package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"taxpractice/internal/models"
	"taxpractice/internal/services"
)

type DocumentHandler struct {
	service services.DocumentService
}

func NewDocumentHandler(service services.DocumentService) *DocumentHandler {
	return &DocumentHandler{service: service}
}

// Upload godoc
// @Summary Upload a document
// @Tags documents
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "File"
// @Param type formData string false "Document type"
// @Param client_id formData string false "Client ID"
// @Success 201 {object} models.Document
// @Failure 400 {object} map[string]string
// @Router /documents [post]
func (h *DocumentHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read file"})
		return
	}
	defer f.Close()

	up := services.DocumentUpload{
		OriginalName: fileHeader.Filename,
		Type:         models.DocumentType(c.PostForm("type")),
		MimeType:     fileHeader.Header.Get("Content-Type"),
		Size:         fileHeader.Size,
		Content:      f,
	}
	if v := c.PostForm("client_id"); v != "" {
		up.ClientID = &v
	}
	if v := c.PostForm("engagement_id"); v != "" {
		up.EngagementID = &v
	}
	if v := c.PostForm("tax_year"); v != "" {
		if year, err := strconv.Atoi(v); err == nil {
			up.TaxYear = &year
		}
	}

	doc, err := h.service.Upload(c.Request.Context(), getActor(c), up)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, doc)
}

func (h *DocumentHandler) GetByID(c *gin.Context) {
	doc, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

// Download streams the stored file.
func (h *DocumentHandler) Download(c *gin.Context) {
	doc, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.FileAttachment(doc.FileURL, doc.OriginalName)
}

func (h *DocumentHandler) Verify(c *gin.Context) {
	doc, err := h.service.Verify(c.Request.Context(), getActor(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

func (h *DocumentHandler) List(c *gin.Context) {
	var filter models.DocumentFilter
	if v, ok := c.GetQuery("client_id"); ok {
		filter.ClientID = &v
	}
	if v, ok := c.GetQuery("engagement_id"); ok {
		filter.EngagementID = &v
	}
	if v, ok := c.GetQuery("type"); ok {
		t := models.DocumentType(v)
		filter.Type = &t
	}
	if v, ok := c.GetQuery("category"); ok {
		cat := models.DocumentCategory(v)
		filter.Category = &cat
	}
	if v, ok := c.GetQuery("tax_year"); ok {
		if year, err := strconv.Atoi(v); err == nil {
			filter.TaxYear = &year
		}
	}
	filter.Search = c.Query("search")

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	res, err := h.service.List(c.Request.Context(), filter, page, limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
