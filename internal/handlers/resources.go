package handlers

import (
	"net/http"

	"studiohub/internal/catalog"
	"studiohub/internal/models"

	"github.com/gin-gonic/gin"
)

// Rooms

func (h *Handlers) CreateRoom(c *gin.Context) {
	var room models.Room
	if err := c.ShouldBindJSON(&room); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	created, err := h.services.Rooms.Create(c.Request.Context(), &room)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *Handlers) ListRooms(c *gin.Context) {
	rooms, err := h.services.Rooms.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rooms)
}

func (h *Handlers) GetRoom(c *gin.Context) {
	room, err := h.services.Rooms.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, room)
}

func (h *Handlers) UpdateRoom(c *gin.Context) {
	var room models.Room
	if err := c.ShouldBindJSON(&room); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	updated, err := h.services.Rooms.Update(c.Request.Context(), c.Param("id"), &room)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *Handlers) DeleteRoom(c *gin.Context) {
	if err := h.services.Rooms.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Equipment

func (h *Handlers) CreateEquipment(c *gin.Context) {
	var eq models.Equipment
	if err := c.ShouldBindJSON(&eq); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	created, err := h.services.Equipment.Create(c.Request.Context(), &eq)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *Handlers) ListEquipment(c *gin.Context) {
	equipment, err := h.services.Equipment.List(c.Request.Context(), c.Query("status"), c.Query("type"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, equipment)
}

func (h *Handlers) GetEquipment(c *gin.Context) {
	eq, err := h.services.Equipment.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, eq)
}

func (h *Handlers) UpdateEquipment(c *gin.Context) {
	var eq models.Equipment
	if err := c.ShouldBindJSON(&eq); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	updated, err := h.services.Equipment.Update(c.Request.Context(), c.Param("id"), &eq)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *Handlers) DeleteEquipment(c *gin.Context) {
	if err := h.services.Equipment.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Clients

func (h *Handlers) CreateClient(c *gin.Context) {
	var client models.Client
	if err := c.ShouldBindJSON(&client); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	created, err := h.services.Clients.Create(c.Request.Context(), &client)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *Handlers) ListClients(c *gin.Context) {
	clients, err := h.services.Clients.List(c.Request.Context(), c.Query("name"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, clients)
}

func (h *Handlers) GetClient(c *gin.Context) {
	client, err := h.services.Clients.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, client)
}

func (h *Handlers) UpdateClient(c *gin.Context) {
	var client models.Client
	if err := c.ShouldBindJSON(&client); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	updated, err := h.services.Clients.Update(c.Request.Context(), c.Param("id"), &client)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *Handlers) DeleteClient(c *gin.Context) {
	if err := h.services.Clients.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Enrollments

func (h *Handlers) CreateEnrollment(c *gin.Context) {
	var enrollment models.Enrollment
	if err := c.ShouldBindJSON(&enrollment); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	created, err := h.services.Enrollments.Create(c.Request.Context(), &enrollment)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *Handlers) ListEnrollments(c *gin.Context) {
	enrollments, err := h.services.Enrollments.List(c.Request.Context(), c.Query("classId"), c.Query("studentId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, enrollments)
}

func (h *Handlers) GetEnrollment(c *gin.Context) {
	enrollment, err := h.services.Enrollments.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, enrollment)
}

func (h *Handlers) UpdateEnrollment(c *gin.Context) {
	var req struct {
		Feedback *string `json:"feedback"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	updated, err := h.services.Enrollments.Update(c.Request.Context(), c.Param("id"), req.Feedback)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *Handlers) DeleteEnrollment(c *gin.Context) {
	if err := h.services.Enrollments.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Catalog and dashboard

// ListServices - GET /api/services
func (h *Handlers) ListServices(c *gin.Context) {
	c.JSON(http.StatusOK, catalog.All())
}

// DashboardSummary - GET /api/dashboard/summary
func (h *Handlers) DashboardSummary(c *gin.Context) {
	summary, err := h.services.Dashboard.Summary(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
