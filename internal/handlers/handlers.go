package handlers

import (
	"log/slog"
	"net/http"

	"studiohub/internal/errors"
	"studiohub/internal/service"

	"github.com/gin-gonic/gin"
)

type Handlers struct {
	services *service.Services
}

func NewHandlers(services *service.Services) *Handlers {
	return &Handlers{services: services}
}

// respondError maps the service error taxonomy onto HTTP status codes.
// Conflict responses carry the blocking bookings and calendar events so
// the caller can show them.
func respondError(c *gin.Context, err error) {
	if errors.IsValidation(err) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if errors.IsNotFound(err) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if conflict, ok := errors.AsConflict(err); ok {
		c.JSON(http.StatusConflict, gin.H{
			"error":             conflict.Message,
			"conflicts":         conflict.Bookings,
			"calendarConflicts": conflict.CalendarConflicts,
		})
		return
	}

	slog.Error("Unhandled error", "path", c.Request.URL.Path, "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}
