package service

import (
	"time"

	"studiohub/internal/repository"
)

// Services aggregates all business logic services.
type Services struct {
	Bookings    *BookingService
	Classes     *ClassService
	Payments    *PaymentService
	Attendance  *AttendanceService
	Rooms       *RoomService
	Equipment   *EquipmentService
	Clients     *ClientService
	Enrollments *EnrollmentService
	Dashboard   *DashboardService
	Calendar    *CalendarService
}

// Options carries the optional collaborators and scheduling defaults.
// Calendar must be non-nil (the client is a no-op when unconfigured);
// Publisher, Locker and Indexer may be nil.
type Options struct {
	Calendar  Calendar
	Publisher Publisher
	Locker    Locker
	Indexer   ClassIndexer

	Buffer                time.Duration
	DefaultSessionMinutes int
	DefaultCurrency       string
}

func NewServices(repos *repository.Repositories, opts Options) *Services {
	if opts.DefaultSessionMinutes <= 0 {
		opts.DefaultSessionMinutes = 90
	}
	if opts.DefaultCurrency == "" {
		opts.DefaultCurrency = "USD"
	}

	bookings := NewBookingService(
		repos.Bookings, repos.Classes, repos.Rooms, repos.Equipment, repos.Attendance,
		opts.Calendar, opts.Publisher, opts.Locker,
		opts.Buffer, opts.DefaultCurrency,
	)
	classes := NewClassService(
		repos.Classes, repos.Bookings, repos.Rooms,
		opts.Publisher, opts.Indexer,
		opts.Buffer, opts.DefaultSessionMinutes,
	)
	payments := NewPaymentService(
		repos.Payments, repos.Bookings, repos.Classes, repos.Enrollments,
		opts.Publisher,
	)

	return &Services{
		Bookings:    bookings,
		Classes:     classes,
		Payments:    payments,
		Attendance:  NewAttendanceService(repos.Attendance, repos.Bookings),
		Rooms:       NewRoomService(repos.Rooms),
		Equipment:   NewEquipmentService(repos.Equipment),
		Clients:     NewClientService(repos.Clients),
		Enrollments: NewEnrollmentService(repos.Enrollments, repos.Classes, repos.Clients),
		Dashboard:   NewDashboardService(repos.Clients, repos.Bookings, repos.Classes, repos.Payments),
		Calendar:    NewCalendarService(opts.Calendar),
	}
}
