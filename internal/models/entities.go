package models

import (
	"time"
)

// ServiceKind is the category of bookable thing. It decides which
// exclusivity rule and which foreign key a booking must carry.
type ServiceKind string

const (
	KindRoom      ServiceKind = "room"
	KindEquipment ServiceKind = "equipment"
	KindClass     ServiceKind = "class"
	KindService   ServiceKind = "service"
)

// Valid reports whether k is one of the known service kinds.
func (k ServiceKind) Valid() bool {
	switch k {
	case KindRoom, KindEquipment, KindClass, KindService:
		return true
	}
	return false
}

// Exclusive reports whether bookings of this kind reserve a physical
// resource exclusively. Class and generic service bookings do not.
func (k ServiceKind) Exclusive() bool {
	return k == KindRoom || k == KindEquipment
}

// Booking status values
const (
	BookingScheduled = "scheduled"
	BookingCompleted = "completed"
	BookingCanceled  = "canceled"
)

// Payment status values (derived, see PaymentService.ReconcileBooking)
const (
	PaymentUnpaid  = "unpaid"
	PaymentPartial = "partial"
	PaymentPaid    = "paid"
)

// Payment ledger entry types
const (
	PaymentIncome  = "income"
	PaymentExpense = "expense"
)

// Equipment status values
const (
	EquipmentAvailable   = "available"
	EquipmentOut         = "out"
	EquipmentMaintenance = "maintenance"
)

// Attendance status values
const (
	AttendanceScheduled = "scheduled"
	AttendancePresent   = "present"
	AttendanceAbsent    = "absent"
	AttendanceCancelled = "cancelled"
)

// AddOn is a free-form named extra on a booking, optionally priced.
type AddOn struct {
	Name   string   `json:"name"`
	Amount *float64 `json:"amount,omitempty"`
}

// Booking reserves exactly one resource for a time interval.
// The interval is half-open: [StartDate, EndDate).
type Booking struct {
	ID              string      `json:"id" db:"id"`
	ServiceKind     ServiceKind `json:"serviceKind" db:"service_kind"`
	ServiceCode     *string     `json:"serviceCode,omitempty" db:"service_code"`
	ClientID        *string     `json:"clientId,omitempty" db:"client_id"`
	StaffID         *string     `json:"staffId,omitempty" db:"staff_id"`
	EquipmentID     *string     `json:"equipmentId,omitempty" db:"equipment_id"`
	RoomID          *string     `json:"roomId,omitempty" db:"room_id"`
	ClassID         *string     `json:"classId,omitempty" db:"class_id"`
	StartDate       *time.Time  `json:"startDate,omitempty" db:"start_date"`
	EndDate         *time.Time  `json:"endDate,omitempty" db:"end_date"`
	Returned        bool        `json:"returned" db:"returned"`
	Status          string      `json:"status" db:"status"`
	PaymentStatus   string      `json:"paymentStatus" db:"payment_status"`
	FullPrice       float64     `json:"fullPrice" db:"full_price"`
	DiscountedPrice *float64    `json:"discountedPrice,omitempty" db:"discounted_price"`
	PriceCurrency   *string     `json:"priceCurrency,omitempty" db:"price_currency"`
	PriceNotes      *string     `json:"priceNotes,omitempty" db:"price_notes"`
	AddOns          []AddOn     `json:"addOns,omitempty" db:"add_ons"`
	CalendarEventID *string     `json:"calendarEventId,omitempty" db:"calendar_event_id"`
	CalendarID      *string     `json:"calendarId,omitempty" db:"calendar_id"`
	CreatedAt       time.Time   `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time   `json:"updatedAt" db:"updated_at"`
}

// TotalFee is the effective fee: the discounted price when present,
// otherwise the full price.
func (b *Booking) TotalFee() float64 {
	if b.DiscountedPrice != nil {
		return *b.DiscountedPrice
	}
	return b.FullPrice
}

// ResourceID returns the id of the exclusively reserved resource, or
// empty for kinds without one.
func (b *Booking) ResourceID() string {
	switch b.ServiceKind {
	case KindRoom:
		if b.RoomID != nil {
			return *b.RoomID
		}
	case KindEquipment:
		if b.EquipmentID != nil {
			return *b.EquipmentID
		}
	}
	return ""
}

// Class is a recurring course definition. It is not itself schedulable:
// when RoomID and Schedule are both set, it generates one room booking
// per schedule entry (see ClassService.SyncRoomBookings).
type Class struct {
	ID             string      `json:"id" db:"id"`
	Name           string      `json:"name" db:"name"`
	Description    *string     `json:"description,omitempty" db:"description"`
	Instructor     *string     `json:"instructor,omitempty" db:"instructor"`
	Schedule       []time.Time `json:"schedule" db:"schedule"`
	SessionMinutes int         `json:"sessionMinutes" db:"session_minutes"`
	Capacity       int         `json:"capacity" db:"capacity"`
	Fee            float64     `json:"fee" db:"fee"`
	RoomID         *string     `json:"roomId,omitempty" db:"room_id"`
	CreatedAt      time.Time   `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time   `json:"updatedAt" db:"updated_at"`
}

// Room is a bookable studio space.
type Room struct {
	ID         string    `json:"id" db:"id"`
	Name       string    `json:"name" db:"name"`
	Type       *string   `json:"type,omitempty" db:"type"`
	HourlyRate float64   `json:"hourlyRate" db:"hourly_rate"`
	Capacity   int       `json:"capacity" db:"capacity"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
}

// Equipment is a bookable piece of studio gear.
type Equipment struct {
	ID           string     `json:"id" db:"id"`
	Name         string     `json:"name" db:"name"`
	Type         *string    `json:"type,omitempty" db:"type"`
	Status       string     `json:"status" db:"status"`
	Specs        *string    `json:"specs,omitempty" db:"specs"`
	PurchaseDate *time.Time `json:"purchaseDate,omitempty" db:"purchase_date"`
	CreatedAt    time.Time  `json:"createdAt" db:"created_at"`
}

// Client is a studio customer.
type Client struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Email     *string   `json:"email,omitempty" db:"email"`
	Phone     *string   `json:"phone,omitempty" db:"phone"`
	Notes     *string   `json:"notes,omitempty" db:"notes"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// Attendance tracks presence for one (booking, client) pair. Unique on
// that pair: a second insert for the same pair is a no-op.
type Attendance struct {
	ID          string    `json:"id" db:"id"`
	BookingID   string    `json:"bookingId" db:"booking_id"`
	ClientID    string    `json:"clientId" db:"client_id"`
	ClassID     *string   `json:"classId,omitempty" db:"class_id"`
	SessionDate time.Time `json:"sessionDate" db:"session_date"`
	Status      string    `json:"status" db:"status"`
	Notes       *string   `json:"notes,omitempty" db:"notes"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

// Payment is an income or expense ledger entry, optionally tied to a
// booking, class or enrollment.
type Payment struct {
	ID           string    `json:"id" db:"id"`
	ClientID     *string   `json:"clientId,omitempty" db:"client_id"`
	Date         time.Time `json:"date" db:"date"`
	Amount       float64   `json:"amount" db:"amount"`
	Type         string    `json:"type" db:"type"`
	Method       *string   `json:"method,omitempty" db:"method"`
	BookingID    *string   `json:"bookingId,omitempty" db:"booking_id"`
	ClassID      *string   `json:"classId,omitempty" db:"class_id"`
	EnrollmentID *string   `json:"enrollmentId,omitempty" db:"enrollment_id"`
	Description  *string   `json:"description,omitempty" db:"description"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}

// Enrollment links a student to a class; its payment status is derived
// from the payments referencing it against the class fee.
type Enrollment struct {
	ID            string     `json:"id" db:"id"`
	ClassID       string     `json:"classId" db:"class_id"`
	StudentID     string     `json:"studentId" db:"student_id"`
	EnrolledOn    *time.Time `json:"enrolledOn,omitempty" db:"enrolled_on"`
	PaymentStatus string     `json:"paymentStatus" db:"payment_status"`
	Feedback      *string    `json:"feedback,omitempty" db:"feedback"`
	CreatedAt     time.Time  `json:"createdAt" db:"created_at"`
}
