package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"taxpractice/internal/models"
)

// getActor pulls audit attribution from the request context. The auth
// middleware sets user_id; IP and user agent come from the request itself.
func getActor(c *gin.Context) models.Actor {
	return models.Actor{
		UserID:    c.GetString("user_id"),
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}
}

// writeError maps service errors to HTTP responses. Unrecognized errors
// become a bare 500 so internals never leak to clients.
func writeError(c *gin.Context, err error) {
	var notFound *models.NotFoundError
	var validation *models.ValidationError
	var conflict *models.ConflictError
	var transition *models.TransitionError

	switch {
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, gin.H{"error": notFound.Error()})
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, gin.H{"error": validation.Error()})
	case errors.As(err, &conflict):
		c.JSON(http.StatusConflict, gin.H{"error": conflict.Error()})
	case errors.As(err, &transition):
		status := http.StatusConflict
		if transition.Kind == models.InvalidTarget {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{
			"error": transition.Error(),
			"kind":  transition.Kind,
			"from":  transition.From,
			"to":    transition.To,
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
