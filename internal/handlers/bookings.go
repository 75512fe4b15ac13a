package handlers

import (
	"net/http"
	"time"

	"studiohub/internal/models"

	"github.com/gin-gonic/gin"
)

// CreateBooking - POST /api/bookings
func (h *Handlers) CreateBooking(c *gin.Context) {
	var req models.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	booking, err := h.services.Bookings.Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, booking)
}

// ListBookings - GET /api/bookings
func (h *Handlers) ListBookings(c *gin.Context) {
	filter := models.BookingFilter{
		ClientID:    c.Query("clientId"),
		ServiceKind: c.Query("serviceKind"),
		ServiceCode: c.Query("serviceCode"),
		ClassID:     c.Query("classId"),
		Status:      c.Query("status"),
	}
	if t, ok := parseTimeQuery(c, "startDate"); ok {
		filter.StartDate = t
	} else {
		return
	}
	if t, ok := parseTimeQuery(c, "endDate"); ok {
		filter.EndDate = t
	} else {
		return
	}

	bookings, err := h.services.Bookings.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

// GetBooking - GET /api/bookings/:id
func (h *Handlers) GetBooking(c *gin.Context) {
	booking, err := h.services.Bookings.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}

// UpdateBooking - PUT /api/bookings/:id
func (h *Handlers) UpdateBooking(c *gin.Context) {
	var req models.UpdateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	booking, err := h.services.Bookings.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}

// DeleteBooking - DELETE /api/bookings/:id
func (h *Handlers) DeleteBooking(c *gin.Context) {
	if err := h.services.Bookings.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ReturnBooking - POST /api/bookings/:id/return
func (h *Handlers) ReturnBooking(c *gin.Context) {
	booking, err := h.services.Bookings.ReturnEquipment(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}

// CheckAvailability - GET /api/bookings/availability
func (h *Handlers) CheckAvailability(c *gin.Context) {
	kind := models.ServiceKind(c.Query("serviceKind"))
	resourceID := c.Query("resourceId")
	if resourceID == "" {
		resourceID = c.Query("roomId")
	}
	if resourceID == "" {
		resourceID = c.Query("equipmentId")
	}

	start, err := time.Parse(time.RFC3339, c.Query("startDate"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "startDate must be RFC3339"})
		return
	}
	end, err := time.Parse(time.RFC3339, c.Query("endDate"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "endDate must be RFC3339"})
		return
	}

	availability, err := h.services.Bookings.CheckAvailability(c.Request.Context(), kind, resourceID, start, end)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, availability)
}

// parseTimeQuery reads an optional RFC3339 query parameter. It writes
// the 400 response itself and reports ok=false on a malformed value.
func parseTimeQuery(c *gin.Context, name string) (*time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": name + " must be RFC3339"})
		return nil, false
	}
	return &t, true
}
