package service

import (
	"context"
	"fmt"
	"time"

	"studiohub/internal/errors"
	"studiohub/internal/models"
)

// Thin CRUD services over the resource stores. Their job is existence
// checks and field validation; the interesting logic lives in the
// booking, class and payment services.

type RoomService struct {
	rooms RoomStore
}

func NewRoomService(rooms RoomStore) *RoomService {
	return &RoomService{rooms: rooms}
}

func (s *RoomService) Create(ctx context.Context, room *models.Room) (*models.Room, error) {
	if room.Name == "" {
		return nil, errors.Validation("room name is required")
	}
	if room.HourlyRate < 0 {
		return nil, errors.Validation("hourly rate cannot be negative")
	}
	if err := s.rooms.Create(ctx, room); err != nil {
		return nil, fmt.Errorf("failed to create room: %w", err)
	}
	return room, nil
}

func (s *RoomService) GetByID(ctx context.Context, id string) (*models.Room, error) {
	room, err := s.rooms.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get room: %w", err)
	}
	if room == nil {
		return nil, errors.NotFound("room", id)
	}
	return room, nil
}

func (s *RoomService) List(ctx context.Context) ([]models.Room, error) {
	return s.rooms.List(ctx)
}

func (s *RoomService) Update(ctx context.Context, id string, room *models.Room) (*models.Room, error) {
	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if room.Name != "" {
		existing.Name = room.Name
	}
	if room.Type != nil {
		existing.Type = room.Type
	}
	if room.HourlyRate < 0 {
		return nil, errors.Validation("hourly rate cannot be negative")
	}
	existing.HourlyRate = room.HourlyRate
	existing.Capacity = room.Capacity
	if err := s.rooms.Update(ctx, existing); err != nil {
		return nil, fmt.Errorf("failed to update room: %w", err)
	}
	return existing, nil
}

func (s *RoomService) Delete(ctx context.Context, id string) error {
	deleted, err := s.rooms.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete room: %w", err)
	}
	if !deleted {
		return errors.NotFound("room", id)
	}
	return nil
}

type EquipmentService struct {
	equipment EquipmentStore
}

func NewEquipmentService(equipment EquipmentStore) *EquipmentService {
	return &EquipmentService{equipment: equipment}
}

func (s *EquipmentService) Create(ctx context.Context, eq *models.Equipment) (*models.Equipment, error) {
	if eq.Name == "" {
		return nil, errors.Validation("equipment name is required")
	}
	if eq.Status == "" {
		eq.Status = models.EquipmentAvailable
	}
	if !validEquipmentStatus(eq.Status) {
		return nil, errors.Validation("invalid equipment status: %s", eq.Status)
	}
	if err := s.equipment.Create(ctx, eq); err != nil {
		return nil, fmt.Errorf("failed to create equipment: %w", err)
	}
	return eq, nil
}

func (s *EquipmentService) GetByID(ctx context.Context, id string) (*models.Equipment, error) {
	eq, err := s.equipment.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get equipment: %w", err)
	}
	if eq == nil {
		return nil, errors.NotFound("equipment", id)
	}
	return eq, nil
}

func (s *EquipmentService) List(ctx context.Context, status, eqType string) ([]models.Equipment, error) {
	return s.equipment.List(ctx, status, eqType)
}

func (s *EquipmentService) Update(ctx context.Context, id string, eq *models.Equipment) (*models.Equipment, error) {
	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if eq.Name != "" {
		existing.Name = eq.Name
	}
	if eq.Type != nil {
		existing.Type = eq.Type
	}
	if eq.Status != "" {
		if !validEquipmentStatus(eq.Status) {
			return nil, errors.Validation("invalid equipment status: %s", eq.Status)
		}
		existing.Status = eq.Status
	}
	if eq.Specs != nil {
		existing.Specs = eq.Specs
	}
	if eq.PurchaseDate != nil {
		existing.PurchaseDate = eq.PurchaseDate
	}
	if err := s.equipment.Update(ctx, existing); err != nil {
		return nil, fmt.Errorf("failed to update equipment: %w", err)
	}
	return existing, nil
}

func (s *EquipmentService) Delete(ctx context.Context, id string) error {
	deleted, err := s.equipment.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete equipment: %w", err)
	}
	if !deleted {
		return errors.NotFound("equipment", id)
	}
	return nil
}

func validEquipmentStatus(status string) bool {
	switch status {
	case models.EquipmentAvailable, models.EquipmentOut, models.EquipmentMaintenance:
		return true
	}
	return false
}

type ClientService struct {
	clients ClientStore
}

func NewClientService(clients ClientStore) *ClientService {
	return &ClientService{clients: clients}
}

func (s *ClientService) Create(ctx context.Context, client *models.Client) (*models.Client, error) {
	if client.Name == "" {
		return nil, errors.Validation("client name is required")
	}
	if err := s.clients.Create(ctx, client); err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	return client, nil
}

func (s *ClientService) GetByID(ctx context.Context, id string) (*models.Client, error) {
	client, err := s.clients.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get client: %w", err)
	}
	if client == nil {
		return nil, errors.NotFound("client", id)
	}
	return client, nil
}

func (s *ClientService) List(ctx context.Context, name string) ([]models.Client, error) {
	return s.clients.List(ctx, name)
}

func (s *ClientService) Update(ctx context.Context, id string, client *models.Client) (*models.Client, error) {
	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if client.Name != "" {
		existing.Name = client.Name
	}
	if client.Email != nil {
		existing.Email = client.Email
	}
	if client.Phone != nil {
		existing.Phone = client.Phone
	}
	if client.Notes != nil {
		existing.Notes = client.Notes
	}
	if err := s.clients.Update(ctx, existing); err != nil {
		return nil, fmt.Errorf("failed to update client: %w", err)
	}
	return existing, nil
}

func (s *ClientService) Delete(ctx context.Context, id string) error {
	deleted, err := s.clients.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete client: %w", err)
	}
	if !deleted {
		return errors.NotFound("client", id)
	}
	return nil
}

type EnrollmentService struct {
	enrollments EnrollmentStore
	classes     ClassStore
	clients     ClientStore
}

func NewEnrollmentService(enrollments EnrollmentStore, classes ClassStore, clients ClientStore) *EnrollmentService {
	return &EnrollmentService{enrollments: enrollments, classes: classes, clients: clients}
}

func (s *EnrollmentService) Create(ctx context.Context, enrollment *models.Enrollment) (*models.Enrollment, error) {
	class, err := s.classes.GetByID(ctx, enrollment.ClassID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up class: %w", err)
	}
	if class == nil {
		return nil, errors.NotFound("class", enrollment.ClassID)
	}
	student, err := s.clients.GetByID(ctx, enrollment.StudentID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up client: %w", err)
	}
	if student == nil {
		return nil, errors.NotFound("client", enrollment.StudentID)
	}

	if enrollment.PaymentStatus == "" {
		enrollment.PaymentStatus = models.PaymentUnpaid
	}
	if enrollment.EnrolledOn == nil {
		now := time.Now().UTC()
		enrollment.EnrolledOn = &now
	}
	if err := s.enrollments.Create(ctx, enrollment); err != nil {
		return nil, fmt.Errorf("failed to create enrollment: %w", err)
	}
	return enrollment, nil
}

func (s *EnrollmentService) GetByID(ctx context.Context, id string) (*models.Enrollment, error) {
	enrollment, err := s.enrollments.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get enrollment: %w", err)
	}
	if enrollment == nil {
		return nil, errors.NotFound("enrollment", id)
	}
	return enrollment, nil
}

func (s *EnrollmentService) List(ctx context.Context, classID, studentID string) ([]models.Enrollment, error) {
	return s.enrollments.List(ctx, classID, studentID)
}

func (s *EnrollmentService) Update(ctx context.Context, id string, feedback *string) (*models.Enrollment, error) {
	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if feedback != nil {
		existing.Feedback = feedback
	}
	if err := s.enrollments.Update(ctx, existing); err != nil {
		return nil, fmt.Errorf("failed to update enrollment: %w", err)
	}
	return existing, nil
}

func (s *EnrollmentService) Delete(ctx context.Context, id string) error {
	deleted, err := s.enrollments.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete enrollment: %w", err)
	}
	if !deleted {
		return errors.NotFound("enrollment", id)
	}
	return nil
}

// DashboardService aggregates the landing page counters.
type DashboardService struct {
	clients  ClientStore
	bookings BookingStore
	classes  ClassStore
	payments PaymentStore
}

func NewDashboardService(clients ClientStore, bookings BookingStore, classes ClassStore, payments PaymentStore) *DashboardService {
	return &DashboardService{clients: clients, bookings: bookings, classes: classes, payments: payments}
}

func (s *DashboardService) Summary(ctx context.Context) (*models.DashboardSummary, error) {
	summary := &models.DashboardSummary{}

	var err error
	if summary.TotalClients, err = s.clients.Count(ctx); err != nil {
		return nil, fmt.Errorf("failed to count clients: %w", err)
	}
	if summary.TotalBookings, err = s.bookings.Count(ctx); err != nil {
		return nil, fmt.Errorf("failed to count bookings: %w", err)
	}
	if summary.TotalClasses, err = s.classes.Count(ctx); err != nil {
		return nil, fmt.Errorf("failed to count classes: %w", err)
	}
	if summary.TotalIncome, err = s.payments.TotalIncome(ctx, ""); err != nil {
		return nil, fmt.Errorf("failed to sum income: %w", err)
	}

	// Outstanding balance: fees of unpaid and partially paid active
	// bookings minus what has been received so far.
	unpaid, err := s.bookings.List(ctx, models.BookingFilter{Status: models.BookingScheduled})
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	for i := range unpaid {
		b := &unpaid[i]
		if b.PaymentStatus == models.PaymentPaid {
			continue
		}
		paid, err := s.payments.SumForBooking(ctx, b.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to sum payments: %w", err)
		}
		if due := b.TotalFee() - paid; due > 0 {
			summary.TotalOutstanding += due
		}
	}
	return summary, nil
}
