package controllers

import (
	"errors"
	"log"
	"net/http"

	"portfolio/media"
	"portfolio/services"

	"github.com/gin-gonic/gin"
)

// respondError maps service errors onto HTTP statuses. Anything unexpected is
// logged and reported as a bare 500.
func respondError(c *gin.Context, logger *log.Logger, err error) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error()})
	case errors.Is(err, services.ErrDuplicateUsername),
		errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrNotAuthor),
		errors.Is(err, media.ErrInvalidFile):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidToken):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		logger.Printf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
	}
}
