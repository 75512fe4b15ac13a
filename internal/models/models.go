package models

import "time"

// CreateBookingRequest - payload for POST /api/bookings
type CreateBookingRequest struct {
	ServiceKind     string     `json:"serviceKind"`
	ServiceCode     *string    `json:"serviceCode"`
	ClientID        *string    `json:"clientId"`
	StaffID         *string    `json:"staffId"`
	EquipmentID     *string    `json:"equipmentId"`
	RoomID          *string    `json:"roomId"`
	ClassID         *string    `json:"classId"`
	StartDate       *time.Time `json:"startDate"`
	EndDate         *time.Time `json:"endDate"`
	FullPrice       *float64   `json:"fullPrice"`
	DiscountedPrice *float64   `json:"discountedPrice"`
	PriceCurrency   *string    `json:"priceCurrency"`
	PriceNotes      *string    `json:"priceNotes"`
	AddOns          []AddOn    `json:"addOns"`
	PaymentStatus   *string    `json:"paymentStatus"`
}

// UpdateBookingRequest - payload for PUT /api/bookings/:id.
// Pointer fields distinguish "absent" from "set to zero value".
type UpdateBookingRequest struct {
	ServiceKind     *string    `json:"serviceKind"`
	ServiceCode     *string    `json:"serviceCode"`
	ClientID        *string    `json:"clientId"`
	StaffID         *string    `json:"staffId"`
	EquipmentID     *string    `json:"equipmentId"`
	RoomID          *string    `json:"roomId"`
	ClassID         *string    `json:"classId"`
	StartDate       *time.Time `json:"startDate"`
	EndDate         *time.Time `json:"endDate"`
	Status          *string    `json:"status"`
	FullPrice       *float64   `json:"fullPrice"`
	DiscountedPrice *float64   `json:"discountedPrice"`
	PriceCurrency   *string    `json:"priceCurrency"`
	PriceNotes      *string    `json:"priceNotes"`
	AddOns          *[]AddOn   `json:"addOns"`
	PaymentStatus   *string    `json:"paymentStatus"`
}

// BookingFilter - query filters for GET /api/bookings
type BookingFilter struct {
	ClientID    string
	ServiceKind string
	ServiceCode string
	ClassID     string
	Status      string
	StartDate   *time.Time
	EndDate     *time.Time
}

// AvailabilityResponse - result of GET /api/bookings/availability
type AvailabilityResponse struct {
	Available         bool            `json:"available"`
	Conflicts         []Booking       `json:"conflicts"`
	CalendarConflicts []CalendarEvent `json:"calendarConflicts"`
}

// CalendarEvent is a normalized event from the external calendar
// provider. Start/End are always timed half-open instants; all-day
// source events are widened to full days before they get here.
type CalendarEvent struct {
	ID      string    `json:"id"`
	Summary string    `json:"summary"`
	Start   time.Time `json:"start"`
	End     time.Time `json:"end"`
	AllDay  bool      `json:"allDay"`
}

// SyncResult is the tally reported by the class session synchronizer.
type SyncResult struct {
	Created int `json:"created"`
	Removed int `json:"removed"`
	Skipped int `json:"skipped"`
}

// CreateClassRequest - payload for POST /api/classes and PUT /api/classes/:id
type CreateClassRequest struct {
	Name           string      `json:"name" binding:"required"`
	Description    *string     `json:"description"`
	Instructor     *string     `json:"instructor"`
	Schedule       []time.Time `json:"schedule"`
	SessionMinutes int         `json:"sessionMinutes"`
	Capacity       int         `json:"capacity"`
	Fee            float64     `json:"fee"`
	RoomID         *string     `json:"roomId"`
}

// CreatePaymentRequest - payload for POST /api/payments
type CreatePaymentRequest struct {
	ClientID     *string    `json:"clientId"`
	Date         *time.Time `json:"date"`
	Amount       float64    `json:"amount"`
	Type         string     `json:"type" binding:"required"`
	Method       *string    `json:"method"`
	BookingID    *string    `json:"bookingId"`
	ClassID      *string    `json:"classId"`
	EnrollmentID *string    `json:"enrollmentId"`
	Description  *string    `json:"description"`
}

// PaymentFilter - query filters for GET /api/payments
type PaymentFilter struct {
	ClientID     string
	BookingID    string
	ClassID      string
	EnrollmentID string
	Type         string
	StartDate    *time.Time
	EndDate      *time.Time
}

// CreateAttendanceRequest - payload for POST /api/attendance
type CreateAttendanceRequest struct {
	BookingID   string    `json:"bookingId" binding:"required"`
	ClientID    string    `json:"clientId" binding:"required"`
	ClassID     *string   `json:"classId"`
	SessionDate time.Time `json:"sessionDate" binding:"required"`
	Status      *string   `json:"status"`
	Notes       *string   `json:"notes"`
}

// BulkPresentRequest - payload for POST /api/attendance/bulk-present
type BulkPresentRequest struct {
	ClassID     string    `json:"classId" binding:"required"`
	SessionDate time.Time `json:"sessionDate" binding:"required"`
}

// DashboardSummary - aggregate counters for GET /api/dashboard/summary
type DashboardSummary struct {
	TotalClients     int     `json:"totalClients"`
	TotalBookings    int     `json:"totalBookings"`
	TotalClasses     int     `json:"totalClasses"`
	TotalIncome      float64 `json:"totalIncome"`
	TotalOutstanding float64 `json:"totalOutstanding"`
}
