package repository

import (
	"studiohub/internal/database"
)

type Repositories struct {
	Bookings    *BookingRepository
	Classes     *ClassRepository
	Rooms       *RoomRepository
	Equipment   *EquipmentRepository
	Clients     *ClientRepository
	Attendance  *AttendanceRepository
	Payments    *PaymentRepository
	Enrollments *EnrollmentRepository
}

func NewRepositories(db *database.DB) *Repositories {
	return &Repositories{
		Bookings:    NewBookingRepository(db),
		Classes:     NewClassRepository(db),
		Rooms:       NewRoomRepository(db),
		Equipment:   NewEquipmentRepository(db),
		Clients:     NewClientRepository(db),
		Attendance:  NewAttendanceRepository(db),
		Payments:    NewPaymentRepository(db),
		Enrollments: NewEnrollmentRepository(db),
	}
}
