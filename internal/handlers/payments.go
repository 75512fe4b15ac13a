package handlers

import (
	"net/http"

	"studiohub/internal/models"

	"github.com/gin-gonic/gin"
)

// CreatePayment - POST /api/payments
func (h *Handlers) CreatePayment(c *gin.Context) {
	var req models.CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	payment, err := h.services.Payments.Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, payment)
}

// ListPayments - GET /api/payments
func (h *Handlers) ListPayments(c *gin.Context) {
	filter := models.PaymentFilter{
		ClientID:     c.Query("clientId"),
		BookingID:    c.Query("bookingId"),
		ClassID:      c.Query("classId"),
		EnrollmentID: c.Query("enrollmentId"),
		Type:         c.Query("type"),
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

	payments, err := h.services.Payments.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, payments)
}

// GetPayment - GET /api/payments/:id
func (h *Handlers) GetPayment(c *gin.Context) {
	payment, err := h.services.Payments.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, payment)
}

// UpdatePayment - PUT /api/payments/:id
func (h *Handlers) UpdatePayment(c *gin.Context) {
	var req models.CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	payment, err := h.services.Payments.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, payment)
}

// DeletePayment - DELETE /api/payments/:id
func (h *Handlers) DeletePayment(c *gin.Context) {
	if err := h.services.Payments.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
