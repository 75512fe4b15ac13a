package handlers

import (
	"net/http"

	"studiohub/internal/models"

	"github.com/gin-gonic/gin"
)

// CreateAttendance - POST /api/attendance
// Creating a row that already exists for the (booking, client) pair
// returns the existing row.
func (h *Handlers) CreateAttendance(c *gin.Context) {
	var req models.CreateAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	att, err := h.services.Attendance.Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, att)
}

// ListAttendance - GET /api/attendance
func (h *Handlers) ListAttendance(c *gin.Context) {
	sessionDate, ok := parseTimeQuery(c, "sessionDate")
	if !ok {
		return
	}

	rows, err := h.services.Attendance.List(c.Request.Context(),
		c.Query("bookingId"), c.Query("clientId"), c.Query("classId"), sessionDate)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

// GetAttendance - GET /api/attendance/:id
func (h *Handlers) GetAttendance(c *gin.Context) {
	att, err := h.services.Attendance.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, att)
}

// UpdateAttendance - PUT /api/attendance/:id
func (h *Handlers) UpdateAttendance(c *gin.Context) {
	var req struct {
		Status *string `json:"status"`
		Notes  *string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	att, err := h.services.Attendance.Update(c.Request.Context(), c.Param("id"), req.Status, req.Notes)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, att)
}

// DeleteAttendance - DELETE /api/attendance/:id
func (h *Handlers) DeleteAttendance(c *gin.Context) {
	if err := h.services.Attendance.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// BulkMarkPresent - POST /api/attendance/bulk-present
func (h *Handlers) BulkMarkPresent(c *gin.Context) {
	var req models.BulkPresentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	affected, err := h.services.Attendance.BulkMarkPresent(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": affected})
}
