package models

import "time"

// NATS Event Types
const (
	EventBookingCreated   = "booking.created"
	EventBookingUpdated   = "booking.updated"
	EventBookingCancelled = "booking.cancelled"
	EventBookingDeleted   = "booking.deleted"
	EventClassSynced      = "class.synced"
	EventPaymentRecorded  = "payment.recorded"
)

// BookingEvent represents a booking lifecycle event
type BookingEvent struct {
	BookingID   string      `json:"booking_id"`
	ServiceKind ServiceKind `json:"service_kind"`
	RoomID      *string     `json:"room_id,omitempty"`
	EquipmentID *string     `json:"equipment_id,omitempty"`
	StartDate   *time.Time  `json:"start_date,omitempty"`
	EndDate     *time.Time  `json:"end_date,omitempty"`
	Timestamp   time.Time   `json:"timestamp"`
}

// ClassSyncedEvent reports the outcome of one class schedule sync run
type ClassSyncedEvent struct {
	ClassID   string    `json:"class_id"`
	Created   int       `json:"created"`
	Removed   int       `json:"removed"`
	Skipped   int       `json:"skipped"`
	Timestamp time.Time `json:"timestamp"`
}

// PaymentRecordedEvent represents a recorded ledger entry
type PaymentRecordedEvent struct {
	PaymentID    string    `json:"payment_id"`
	Amount       float64   `json:"amount"`
	Type         string    `json:"type"`
	BookingID    *string   `json:"booking_id,omitempty"`
	EnrollmentID *string   `json:"enrollment_id,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}
