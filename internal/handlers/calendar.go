package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// GetCalendarEvents - GET /api/calendar/events
// Lists provider events for a window. start defaults to now, end to
// start plus 31 days. An unconfigured provider yields an empty list.
func (h *Handlers) GetCalendarEvents(c *gin.Context) {
	start, ok := parseTimeQuery(c, "start")
	if !ok {
		return
	}
	end, ok := parseTimeQuery(c, "end")
	if !ok {
		return
	}

	timeMin := time.Now().UTC()
	if start != nil {
		timeMin = *start
	}
	timeMax := timeMin.AddDate(0, 0, 31)
	if end != nil {
		timeMax = *end
	}
	if !timeMax.After(timeMin) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "end must be after start"})
		return
	}

	events, err := h.services.Calendar.ListEvents(c.Request.Context(), timeMin, timeMax)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, events)
}
