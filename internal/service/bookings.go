package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"studiohub/internal/catalog"
	"studiohub/internal/errors"
	"studiohub/internal/external"
	"studiohub/internal/metrics"
	"studiohub/internal/models"
	"studiohub/internal/schedule"
)

// BookingService owns the booking lifecycle: validation, pricing
// defaults, conflict detection against local reservations and the
// external calendar, persistence, and the post-persist side effects.
// Side effects never roll back a persisted booking.
type BookingService struct {
	bookings   BookingStore
	classes    ClassStore
	rooms      RoomStore
	equipment  EquipmentStore
	attendance AttendanceStore

	calendar  Calendar
	publisher Publisher
	locker    Locker

	buffer          time.Duration
	defaultCurrency string
}

func NewBookingService(
	bookings BookingStore,
	classes ClassStore,
	rooms RoomStore,
	equipment EquipmentStore,
	attendance AttendanceStore,
	calendar Calendar,
	publisher Publisher,
	locker Locker,
	buffer time.Duration,
	defaultCurrency string,
) *BookingService {
	return &BookingService{
		bookings:        bookings,
		classes:         classes,
		rooms:           rooms,
		equipment:       equipment,
		attendance:      attendance,
		calendar:        calendar,
		publisher:       publisher,
		locker:          locker,
		buffer:          buffer,
		defaultCurrency: defaultCurrency,
	}
}

// Create runs the full lifecycle pipeline: defaults, validation,
// conflict checks, persist, side effects.
func (s *BookingService) Create(ctx context.Context, req *models.CreateBookingRequest) (*models.Booking, error) {
	booking := &models.Booking{
		ServiceKind:     models.ServiceKind(req.ServiceKind),
		ServiceCode:     req.ServiceCode,
		ClientID:        req.ClientID,
		StaffID:         req.StaffID,
		EquipmentID:     req.EquipmentID,
		RoomID:          req.RoomID,
		ClassID:         req.ClassID,
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
		Status:          models.BookingScheduled,
		PaymentStatus:   models.PaymentUnpaid,
		DiscountedPrice: req.DiscountedPrice,
		PriceCurrency:   req.PriceCurrency,
		PriceNotes:      req.PriceNotes,
		AddOns:          req.AddOns,
	}
	if req.FullPrice != nil {
		booking.FullPrice = *req.FullPrice
	}
	if req.PaymentStatus != nil {
		booking.PaymentStatus = *req.PaymentStatus
	}

	if err := s.applyDefaults(booking, req.FullPrice == nil, req.EndDate == nil); err != nil {
		return nil, err
	}
	if err := s.validate(ctx, booking); err != nil {
		return nil, err
	}

	release, err := s.acquireResourceLock(ctx, booking.ResourceID())
	if err != nil {
		return nil, err
	}
	defer release()

	if err := s.checkConflicts(ctx, booking, ""); err != nil {
		return nil, err
	}

	if err := s.bookings.Create(ctx, booking); err != nil {
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	s.afterCreate(ctx, booking)
	return booking, nil
}

// GetByID returns a booking or a not-found error.
func (s *BookingService) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	if booking == nil {
		return nil, errors.NotFound("booking", id)
	}
	return booking, nil
}

func (s *BookingService) List(ctx context.Context, filter models.BookingFilter) ([]models.Booking, error) {
	return s.bookings.List(ctx, filter)
}

// Update applies the supplied fields, re-running the conflict pipeline
// when the resource or interval changed. Setting status to canceled
// releases the mirrored calendar event and, for equipment, the gear.
func (s *BookingService) Update(ctx context.Context, id string, req *models.UpdateBookingRequest) (*models.Booking, error) {
	booking, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	wasCanceled := booking.Status == models.BookingCanceled
	prevResource := booking.ResourceID()
	prevStart, prevEnd := booking.StartDate, booking.EndDate

	applyUpdate(booking, req)

	if err := s.validate(ctx, booking); err != nil {
		return nil, err
	}

	rescheduled := booking.ResourceID() != prevResource ||
		!equalTimePtr(booking.StartDate, prevStart) ||
		!equalTimePtr(booking.EndDate, prevEnd) ||
		(wasCanceled && booking.Status != models.BookingCanceled)

	if rescheduled && booking.Status != models.BookingCanceled {
		release, err := s.acquireResourceLock(ctx, booking.ResourceID())
		if err != nil {
			return nil, err
		}
		defer release()

		if err := s.checkConflicts(ctx, booking, booking.ID); err != nil {
			return nil, err
		}
	}

	if err := s.bookings.Update(ctx, booking); err != nil {
		return nil, fmt.Errorf("failed to update booking: %w", err)
	}

	if booking.Status == models.BookingCanceled {
		s.afterCancel(ctx, booking)
	} else {
		s.mirrorToCalendar(ctx, booking)
		s.publish(models.EventBookingUpdated, booking)
	}
	return booking, nil
}

// Delete removes a booking after a best-effort cleanup of its mirrors.
func (s *BookingService) Delete(ctx context.Context, id string) error {
	booking, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	s.dropCalendarEvent(ctx, booking)
	s.releaseEquipment(ctx, booking)

	deleted, err := s.bookings.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete booking: %w", err)
	}
	if !deleted {
		return errors.NotFound("booking", id)
	}

	s.publish(models.EventBookingDeleted, booking)
	return nil
}

// ReturnEquipment marks an equipment booking returned and completed,
// putting the gear back in circulation.
func (s *BookingService) ReturnEquipment(ctx context.Context, id string) (*models.Booking, error) {
	booking, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if booking.ServiceKind != models.KindEquipment {
		return nil, errors.Validation("booking %s is not an equipment rental", id)
	}
	if booking.Returned {
		return booking, nil
	}

	booking.Returned = true
	booking.Status = models.BookingCompleted
	if err := s.bookings.Update(ctx, booking); err != nil {
		return nil, fmt.Errorf("failed to update booking: %w", err)
	}

	s.releaseEquipment(ctx, booking)
	s.publish(models.EventBookingUpdated, booking)
	return booking, nil
}

// CheckAvailability is the read-only projection of the conflict checks.
func (s *BookingService) CheckAvailability(ctx context.Context, kind models.ServiceKind, resourceID string, start, end time.Time) (*models.AvailabilityResponse, error) {
	if !kind.Exclusive() {
		return nil, errors.Validation("availability checks apply to room and equipment bookings only")
	}
	if resourceID == "" {
		return nil, errors.Validation("resource id is required")
	}
	if !end.After(start) {
		return nil, errors.Validation("end date must be after start date")
	}

	bufStart, bufEnd := schedule.Buffered(start, end, s.buffer)
	conflicts, err := s.bookings.ListConflicts(ctx, kind, resourceID, bufStart, bufEnd, "")
	if err != nil {
		return nil, fmt.Errorf("failed to scan for conflicts: %w", err)
	}

	calendarConflicts := s.calendarConflicts(ctx, start, end, "")

	return &models.AvailabilityResponse{
		Available:         len(conflicts) == 0 && len(calendarConflicts) == 0,
		Conflicts:         conflicts,
		CalendarConflicts: calendarConflicts,
	}, nil
}

// applyDefaults resolves catalog pricing for bookings that reference a
// service code and leave pricing fields blank.
func (s *BookingService) applyDefaults(booking *models.Booking, priceOmitted, endOmitted bool) error {
	if booking.ServiceCode != nil && *booking.ServiceCode != "" {
		svc := catalog.FindByCode(*booking.ServiceCode)
		if svc == nil {
			return errors.Validation("unknown service code: %s", *booking.ServiceCode)
		}
		if booking.ServiceKind == "" {
			booking.ServiceKind = svc.Category
		}
		if priceOmitted && svc.Defaults.FullPrice != nil {
			booking.FullPrice = *svc.Defaults.FullPrice
		}
		if endOmitted && booking.StartDate != nil && svc.Defaults.DurationMinutes > 0 {
			end := booking.StartDate.Add(time.Duration(svc.Defaults.DurationMinutes) * time.Minute)
			booking.EndDate = &end
		}
	}

	if booking.PriceCurrency == nil {
		currency := s.defaultCurrency
		booking.PriceCurrency = &currency
	}
	return nil
}

// validate enforces the kind-specific required fields plus the shared
// interval and pricing rules. Dispatch is an exhaustive switch over the
// service kind.
func (s *BookingService) validate(ctx context.Context, booking *models.Booking) error {
	if !booking.ServiceKind.Valid() {
		return errors.Validation("invalid service kind: %s", booking.ServiceKind)
	}

	switch booking.Status {
	case models.BookingScheduled, models.BookingCompleted, models.BookingCanceled:
	default:
		return errors.Validation("invalid status: %s", booking.Status)
	}
	switch booking.PaymentStatus {
	case models.PaymentUnpaid, models.PaymentPartial, models.PaymentPaid:
	default:
		return errors.Validation("invalid payment status: %s", booking.PaymentStatus)
	}

	switch booking.ServiceKind {
	case models.KindRoom:
		if booking.RoomID == nil || *booking.RoomID == "" {
			return errors.Validation("room bookings require a room id")
		}
		if booking.StartDate == nil || booking.EndDate == nil {
			return errors.Validation("room bookings require a full interval")
		}
		room, err := s.rooms.GetByID(ctx, *booking.RoomID)
		if err != nil {
			return fmt.Errorf("failed to look up room: %w", err)
		}
		if room == nil {
			return errors.NotFound("room", *booking.RoomID)
		}
	case models.KindEquipment:
		if booking.EquipmentID == nil || *booking.EquipmentID == "" {
			return errors.Validation("equipment bookings require an equipment id")
		}
		if booking.StartDate == nil || booking.EndDate == nil {
			return errors.Validation("equipment bookings require a full interval")
		}
		eq, err := s.equipment.GetByID(ctx, *booking.EquipmentID)
		if err != nil {
			return fmt.Errorf("failed to look up equipment: %w", err)
		}
		if eq == nil {
			return errors.NotFound("equipment", *booking.EquipmentID)
		}
		if eq.Status == models.EquipmentMaintenance {
			return errors.Validation("equipment %s is under maintenance", eq.Name)
		}
	case models.KindClass:
		if booking.StartDate == nil {
			return errors.Validation("class bookings require a start date")
		}
		if booking.ClassID != nil && *booking.ClassID != "" {
			class, err := s.classes.GetByID(ctx, *booking.ClassID)
			if err != nil {
				return fmt.Errorf("failed to look up class: %w", err)
			}
			if class == nil {
				return errors.NotFound("class", *booking.ClassID)
			}
		}
	case models.KindService:
		if booking.StartDate == nil {
			return errors.Validation("service bookings require a start date")
		}
	}

	if booking.StartDate != nil && booking.EndDate != nil && !booking.EndDate.After(*booking.StartDate) {
		return errors.Validation("end date must be after start date")
	}

	if booking.FullPrice < 0 {
		return errors.Validation("full price cannot be negative")
	}
	if booking.DiscountedPrice != nil {
		if *booking.DiscountedPrice < 0 {
			return errors.Validation("discounted price cannot be negative")
		}
		if *booking.DiscountedPrice > booking.FullPrice {
			return errors.Validation("discounted price cannot exceed full price")
		}
	}
	return nil
}

// checkConflicts rejects the booking when its buffered interval hits an
// active reservation of the same resource or an external calendar
// event. Non-exclusive kinds pass through.
func (s *BookingService) checkConflicts(ctx context.Context, booking *models.Booking, excludeID string) error {
	if !booking.ServiceKind.Exclusive() {
		return nil
	}
	resourceID := booking.ResourceID()
	if resourceID == "" || booking.StartDate == nil || booking.EndDate == nil {
		return nil
	}

	bufStart, bufEnd := schedule.Buffered(*booking.StartDate, *booking.EndDate, s.buffer)
	conflict, err := s.bookings.FindConflict(ctx, booking.ServiceKind, resourceID, bufStart, bufEnd, excludeID, "")
	if err != nil {
		return fmt.Errorf("failed to scan for conflicts: %w", err)
	}
	if conflict != nil {
		metrics.ConflictsDetected.WithLabelValues(string(booking.ServiceKind)).Inc()
		return errors.Conflict(
			fmt.Sprintf("%s is already booked for an overlapping interval", booking.ServiceKind),
			[]models.Booking{*conflict}, nil)
	}

	ownEvent := ""
	if booking.CalendarEventID != nil {
		ownEvent = *booking.CalendarEventID
	}
	if events := s.calendarConflicts(ctx, *booking.StartDate, *booking.EndDate, ownEvent); len(events) > 0 {
		metrics.ConflictsDetected.WithLabelValues(string(booking.ServiceKind)).Inc()
		return errors.Conflict("interval conflicts with external calendar events", nil, events)
	}
	return nil
}

// calendarConflicts returns the remote events overlapping the buffered
// candidate interval. Provider failures are logged and swallowed: local
// conflicts stay authoritative, the calendar is best-effort.
func (s *BookingService) calendarConflicts(ctx context.Context, start, end time.Time, ownEventID string) []models.CalendarEvent {
	if s.calendar == nil || !s.calendar.Enabled() {
		return nil
	}

	bufStart, bufEnd := schedule.Buffered(start, end, s.buffer)
	events, err := s.calendar.ListEvents(ctx, bufStart, bufEnd)
	if err != nil {
		slog.Warn("calendar conflict check failed, continuing without it", "error", err)
		metrics.CalendarSyncFailures.Inc()
		return nil
	}

	var conflicts []models.CalendarEvent
	for _, event := range events {
		if ownEventID != "" && event.ID == ownEventID {
			continue
		}
		if schedule.Overlaps(start, end, event.Start, event.End, s.buffer) {
			conflicts = append(conflicts, event)
		}
	}
	return conflicts
}

// acquireResourceLock serializes check-then-insert per resource. The
// returned release func is always safe to call. A held lock elsewhere
// surfaces as a conflict; a broken lock backend degrades to the plain
// database scan.
func (s *BookingService) acquireResourceLock(ctx context.Context, resourceID string) (func(), error) {
	if s.locker == nil || resourceID == "" {
		return func() {}, nil
	}

	token, ok, err := s.locker.AcquireLock(ctx, resourceID)
	if err != nil {
		slog.Warn("resource lock unavailable, falling back to conflict scan only", "resource_id", resourceID, "error", err)
		return func() {}, nil
	}
	if !ok {
		return func() {}, errors.Conflict("resource is being booked by another request, retry shortly", nil, nil)
	}

	return func() {
		if err := s.locker.ReleaseLock(ctx, resourceID, token); err != nil {
			slog.Warn("failed to release resource lock", "resource_id", resourceID, "error", err)
		}
	}, nil
}

// afterCreate runs the post-persist side effects. Each is independently
// non-fatal.
func (s *BookingService) afterCreate(ctx context.Context, booking *models.Booking) {
	metrics.BookingsCreated.WithLabelValues(string(booking.ServiceKind)).Inc()

	if booking.ClientID != nil && booking.StartDate != nil {
		if err := s.attendance.Upsert(ctx, booking.ID, *booking.ClientID, booking.ClassID, *booking.StartDate); err != nil {
			slog.Error("failed to upsert attendance for booking", "booking_id", booking.ID, "error", err)
		}
	}

	s.mirrorToCalendar(ctx, booking)

	if booking.ServiceKind == models.KindEquipment && booking.EquipmentID != nil {
		if err := s.equipment.UpdateStatus(ctx, *booking.EquipmentID, models.EquipmentOut); err != nil {
			slog.Error("failed to mark equipment out", "equipment_id", *booking.EquipmentID, "error", err)
		}
	}

	s.publish(models.EventBookingCreated, booking)
}

func (s *BookingService) afterCancel(ctx context.Context, booking *models.Booking) {
	s.dropCalendarEvent(ctx, booking)
	s.releaseEquipment(ctx, booking)
	s.publish(models.EventBookingCancelled, booking)
}

// mirrorToCalendar creates or updates the remote event for a booking.
func (s *BookingService) mirrorToCalendar(ctx context.Context, booking *models.Booking) {
	if s.calendar == nil || !s.calendar.Enabled() {
		return
	}
	if booking.StartDate == nil || booking.EndDate == nil {
		return
	}

	payload := external.EventPayload{
		Summary:     calendarSummary(booking),
		Description: fmt.Sprintf("studiohub booking %s", booking.ID),
		Start:       external.EventTime{DateTime: booking.StartDate, TimeZone: s.calendar.Timezone()},
		End:         external.EventTime{DateTime: booking.EndDate, TimeZone: s.calendar.Timezone()},
	}

	if booking.CalendarEventID != nil && *booking.CalendarEventID != "" {
		if err := s.calendar.UpdateEvent(ctx, *booking.CalendarEventID, payload); err != nil {
			slog.Error("failed to update calendar event", "booking_id", booking.ID, "error", err)
			metrics.CalendarSyncFailures.Inc()
		}
		return
	}

	eventID, err := s.calendar.CreateEvent(ctx, payload)
	if err != nil {
		slog.Error("failed to create calendar event", "booking_id", booking.ID, "error", err)
		metrics.CalendarSyncFailures.Inc()
		return
	}
	if eventID == "" {
		return
	}

	booking.CalendarEventID = &eventID
	if err := s.bookings.Update(ctx, booking); err != nil {
		slog.Error("failed to store calendar event id", "booking_id", booking.ID, "error", err)
	}
}

func (s *BookingService) dropCalendarEvent(ctx context.Context, booking *models.Booking) {
	if s.calendar == nil || booking.CalendarEventID == nil || *booking.CalendarEventID == "" {
		return
	}
	if err := s.calendar.DeleteEvent(ctx, *booking.CalendarEventID); err != nil {
		slog.Error("failed to delete calendar event", "booking_id", booking.ID, "error", err)
		metrics.CalendarSyncFailures.Inc()
	}
}

func (s *BookingService) releaseEquipment(ctx context.Context, booking *models.Booking) {
	if booking.ServiceKind != models.KindEquipment || booking.EquipmentID == nil {
		return
	}
	if err := s.equipment.UpdateStatus(ctx, *booking.EquipmentID, models.EquipmentAvailable); err != nil {
		slog.Error("failed to release equipment", "equipment_id", *booking.EquipmentID, "error", err)
	}
}

func (s *BookingService) publish(subject string, booking *models.Booking) {
	if s.publisher == nil {
		return
	}
	event := models.BookingEvent{
		BookingID:   booking.ID,
		ServiceKind: booking.ServiceKind,
		RoomID:      booking.RoomID,
		EquipmentID: booking.EquipmentID,
		StartDate:   booking.StartDate,
		EndDate:     booking.EndDate,
		Timestamp:   time.Now().UTC(),
	}
	if err := s.publisher.Publish(subject, event); err != nil {
		slog.Error("failed to publish booking event", "subject", subject, "booking_id", booking.ID, "error", err)
	}
}

func calendarSummary(booking *models.Booking) string {
	if booking.ServiceCode != nil {
		if svc := catalog.FindByCode(*booking.ServiceCode); svc != nil {
			return svc.Name
		}
	}
	switch booking.ServiceKind {
	case models.KindRoom:
		return "Room booking"
	case models.KindEquipment:
		return "Equipment rental"
	case models.KindClass:
		return "Class session"
	default:
		return "Studio booking"
	}
}

// applyUpdate copies the supplied fields onto the booking. Pointer
// request fields distinguish absent from zero.
func applyUpdate(booking *models.Booking, req *models.UpdateBookingRequest) {
	if req.ServiceKind != nil {
		booking.ServiceKind = models.ServiceKind(*req.ServiceKind)
	}
	if req.ServiceCode != nil {
		booking.ServiceCode = req.ServiceCode
	}
	if req.ClientID != nil {
		booking.ClientID = req.ClientID
	}
	if req.StaffID != nil {
		booking.StaffID = req.StaffID
	}
	if req.EquipmentID != nil {
		booking.EquipmentID = req.EquipmentID
	}
	if req.RoomID != nil {
		booking.RoomID = req.RoomID
	}
	if req.ClassID != nil {
		booking.ClassID = req.ClassID
	}
	if req.StartDate != nil {
		booking.StartDate = req.StartDate
	}
	if req.EndDate != nil {
		booking.EndDate = req.EndDate
	}
	if req.Status != nil {
		booking.Status = *req.Status
	}
	if req.FullPrice != nil {
		booking.FullPrice = *req.FullPrice
	}
	if req.DiscountedPrice != nil {
		booking.DiscountedPrice = req.DiscountedPrice
	}
	if req.PriceCurrency != nil {
		booking.PriceCurrency = req.PriceCurrency
	}
	if req.PriceNotes != nil {
		booking.PriceNotes = req.PriceNotes
	}
	if req.AddOns != nil {
		booking.AddOns = *req.AddOns
	}
	if req.PaymentStatus != nil {
		booking.PaymentStatus = *req.PaymentStatus
	}
}

func equalTimePtr(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}
