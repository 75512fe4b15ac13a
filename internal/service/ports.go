package service

import (
	"context"
	"time"

	"studiohub/internal/external"
	"studiohub/internal/models"
)

// Narrow store contracts the services depend on. The repository package
// satisfies them against Postgres; tests substitute in-memory fakes.

type BookingStore interface {
	Create(ctx context.Context, booking *models.Booking) error
	GetByID(ctx context.Context, id string) (*models.Booking, error)
	List(ctx context.Context, filter models.BookingFilter) ([]models.Booking, error)
	Update(ctx context.Context, booking *models.Booking) error
	UpdatePaymentStatus(ctx context.Context, id, status string) error
	Delete(ctx context.Context, id string) (bool, error)
	DeleteMany(ctx context.Context, ids []string) error
	FindConflict(ctx context.Context, kind models.ServiceKind, resourceID string, bufStart, bufEnd time.Time, excludeID, excludeClassID string) (*models.Booking, error)
	ListConflicts(ctx context.Context, kind models.ServiceKind, resourceID string, bufStart, bufEnd time.Time, excludeID string) ([]models.Booking, error)
	ListByClass(ctx context.Context, classID string) ([]models.Booking, error)
	Count(ctx context.Context) (int, error)
}

type ClassStore interface {
	Create(ctx context.Context, class *models.Class) error
	GetByID(ctx context.Context, id string) (*models.Class, error)
	List(ctx context.Context, name, instructor string) ([]models.Class, error)
	Update(ctx context.Context, class *models.Class) error
	Delete(ctx context.Context, id string) (bool, error)
	Count(ctx context.Context) (int, error)
}

type RoomStore interface {
	Create(ctx context.Context, room *models.Room) error
	GetByID(ctx context.Context, id string) (*models.Room, error)
	List(ctx context.Context) ([]models.Room, error)
	Update(ctx context.Context, room *models.Room) error
	Delete(ctx context.Context, id string) (bool, error)
}

type EquipmentStore interface {
	Create(ctx context.Context, eq *models.Equipment) error
	GetByID(ctx context.Context, id string) (*models.Equipment, error)
	List(ctx context.Context, status, eqType string) ([]models.Equipment, error)
	Update(ctx context.Context, eq *models.Equipment) error
	UpdateStatus(ctx context.Context, id, status string) error
	Delete(ctx context.Context, id string) (bool, error)
}

type ClientStore interface {
	Create(ctx context.Context, client *models.Client) error
	GetByID(ctx context.Context, id string) (*models.Client, error)
	List(ctx context.Context, name string) ([]models.Client, error)
	Update(ctx context.Context, client *models.Client) error
	Delete(ctx context.Context, id string) (bool, error)
	Count(ctx context.Context) (int, error)
}

type AttendanceStore interface {
	Create(ctx context.Context, att *models.Attendance) error
	Upsert(ctx context.Context, bookingID, clientID string, classID *string, sessionDate time.Time) error
	GetByID(ctx context.Context, id string) (*models.Attendance, error)
	List(ctx context.Context, bookingID, clientID, classID string, sessionDate *time.Time) ([]models.Attendance, error)
	Update(ctx context.Context, att *models.Attendance) error
	Delete(ctx context.Context, id string) (bool, error)
	BulkMarkPresent(ctx context.Context, classID string, sessionDate time.Time) (int, error)
}

type PaymentStore interface {
	Create(ctx context.Context, payment *models.Payment) error
	GetByID(ctx context.Context, id string) (*models.Payment, error)
	List(ctx context.Context, filter models.PaymentFilter) ([]models.Payment, error)
	Update(ctx context.Context, payment *models.Payment) error
	Delete(ctx context.Context, id string) (bool, error)
	SumForBooking(ctx context.Context, bookingID string) (float64, error)
	SumForEnrollment(ctx context.Context, enrollmentID string) (float64, error)
	TotalIncome(ctx context.Context, descriptionLike string) (float64, error)
}

type EnrollmentStore interface {
	Create(ctx context.Context, enrollment *models.Enrollment) error
	GetByID(ctx context.Context, id string) (*models.Enrollment, error)
	List(ctx context.Context, classID, studentID string) ([]models.Enrollment, error)
	Update(ctx context.Context, enrollment *models.Enrollment) error
	UpdatePaymentStatus(ctx context.Context, id, status string) error
	Delete(ctx context.Context, id string) (bool, error)
}

// Calendar is the external calendar provider. Implementations must be
// safe to call when unconfigured (no-op semantics).
type Calendar interface {
	Enabled() bool
	Timezone() string
	ListEvents(ctx context.Context, timeMin, timeMax time.Time) ([]models.CalendarEvent, error)
	CreateEvent(ctx context.Context, payload external.EventPayload) (string, error)
	UpdateEvent(ctx context.Context, eventID string, payload external.EventPayload) error
	DeleteEvent(ctx context.Context, eventID string) error
}

// Publisher emits domain events to the message broker, best-effort.
type Publisher interface {
	Publish(subject string, data interface{}) error
}

// Locker serializes the conflict-check-then-insert sequence per
// resource id.
type Locker interface {
	AcquireLock(ctx context.Context, resourceID string) (token string, ok bool, err error)
	ReleaseLock(ctx context.Context, resourceID, token string) error
}

// ClassIndexer maintains the class search index.
type ClassIndexer interface {
	IndexClass(ctx context.Context, class *models.Class) error
	DeleteClass(ctx context.Context, id string) error
	SearchClasses(ctx context.Context, query string, size int) ([]string, error)
}
