package handlers

import (
	"net/http"

	"studiohub/internal/models"

	"github.com/gin-gonic/gin"
)

// CreateClass - POST /api/classes
// The response carries the class and the session sync tally.
func (h *Handlers) CreateClass(c *gin.Context) {
	var req models.CreateClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	class, sync, err := h.services.Classes.Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"class": class, "sync": sync})
}

// ListClasses - GET /api/classes
func (h *Handlers) ListClasses(c *gin.Context) {
	classes, err := h.services.Classes.List(c.Request.Context(),
		c.Query("name"), c.Query("instructor"), c.Query("query"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, classes)
}

// GetClass - GET /api/classes/:id
func (h *Handlers) GetClass(c *gin.Context) {
	class, err := h.services.Classes.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, class)
}

// UpdateClass - PUT /api/classes/:id
func (h *Handlers) UpdateClass(c *gin.Context) {
	var req models.CreateClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	class, sync, err := h.services.Classes.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"class": class, "sync": sync})
}

// DeleteClass - DELETE /api/classes/:id
func (h *Handlers) DeleteClass(c *gin.Context) {
	if err := h.services.Classes.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// SyncClass - POST /api/classes/:id/sync
// Manual re-run of the session synchronizer.
func (h *Handlers) SyncClass(c *gin.Context) {
	class, err := h.services.Classes.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	sync, err := h.services.Classes.SyncRoomBookings(c.Request.Context(), class)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sync)
}
