package service

import (
	"context"
	"fmt"
	"time"

	"studiohub/internal/errors"
	"studiohub/internal/models"
)

// AttendanceService tracks who showed up for which booking. Records are
// unique per (booking, client); a duplicate create returns the existing
// row instead of failing.
type AttendanceService struct {
	attendance AttendanceStore
	bookings   BookingStore
}

func NewAttendanceService(attendance AttendanceStore, bookings BookingStore) *AttendanceService {
	return &AttendanceService{attendance: attendance, bookings: bookings}
}

func (s *AttendanceService) Create(ctx context.Context, req *models.CreateAttendanceRequest) (*models.Attendance, error) {
	booking, err := s.bookings.GetByID(ctx, req.BookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up booking: %w", err)
	}
	if booking == nil {
		return nil, errors.NotFound("booking", req.BookingID)
	}

	att := &models.Attendance{
		BookingID:   req.BookingID,
		ClientID:    req.ClientID,
		ClassID:     req.ClassID,
		SessionDate: req.SessionDate,
		Status:      models.AttendanceScheduled,
		Notes:       req.Notes,
	}
	if req.Status != nil {
		if !validAttendanceStatus(*req.Status) {
			return nil, errors.Validation("invalid attendance status: %s", *req.Status)
		}
		att.Status = *req.Status
	}

	if err := s.attendance.Create(ctx, att); err != nil {
		return nil, fmt.Errorf("failed to create attendance: %w", err)
	}
	return att, nil
}

func (s *AttendanceService) GetByID(ctx context.Context, id string) (*models.Attendance, error) {
	att, err := s.attendance.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get attendance: %w", err)
	}
	if att == nil {
		return nil, errors.NotFound("attendance", id)
	}
	return att, nil
}

func (s *AttendanceService) List(ctx context.Context, bookingID, clientID, classID string, sessionDate *time.Time) ([]models.Attendance, error) {
	return s.attendance.List(ctx, bookingID, clientID, classID, sessionDate)
}

func (s *AttendanceService) Update(ctx context.Context, id string, status *string, notes *string) (*models.Attendance, error) {
	att, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if status != nil {
		if !validAttendanceStatus(*status) {
			return nil, errors.Validation("invalid attendance status: %s", *status)
		}
		att.Status = *status
	}
	if notes != nil {
		att.Notes = notes
	}

	if err := s.attendance.Update(ctx, att); err != nil {
		return nil, fmt.Errorf("failed to update attendance: %w", err)
	}
	return att, nil
}

func (s *AttendanceService) Delete(ctx context.Context, id string) error {
	deleted, err := s.attendance.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete attendance: %w", err)
	}
	if !deleted {
		return errors.NotFound("attendance", id)
	}
	return nil
}

func validAttendanceStatus(status string) bool {
	switch status {
	case models.AttendanceScheduled, models.AttendancePresent, models.AttendanceAbsent, models.AttendanceCancelled:
		return true
	}
	return false
}

// BulkMarkPresent flips every attendance row of one class session to
// present and returns how many rows changed.
func (s *AttendanceService) BulkMarkPresent(ctx context.Context, req *models.BulkPresentRequest) (int, error) {
	affected, err := s.attendance.BulkMarkPresent(ctx, req.ClassID, req.SessionDate)
	if err != nil {
		return 0, fmt.Errorf("failed to mark attendance: %w", err)
	}
	return affected, nil
}
