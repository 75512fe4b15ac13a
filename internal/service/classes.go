package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"studiohub/internal/errors"
	"studiohub/internal/metrics"
	"studiohub/internal/models"
	"studiohub/internal/schedule"
)

// ClassService manages class definitions and keeps each class's room
// bookings synchronized with its schedule. A class is not itself
// schedulable; the generated room bookings are what occupy the room.
type ClassService struct {
	classes  ClassStore
	bookings BookingStore
	rooms    RoomStore

	publisher Publisher
	indexer   ClassIndexer

	buffer                time.Duration
	defaultSessionMinutes int
}

func NewClassService(
	classes ClassStore,
	bookings BookingStore,
	rooms RoomStore,
	publisher Publisher,
	indexer ClassIndexer,
	buffer time.Duration,
	defaultSessionMinutes int,
) *ClassService {
	return &ClassService{
		classes:               classes,
		bookings:              bookings,
		rooms:                 rooms,
		publisher:             publisher,
		indexer:               indexer,
		buffer:                buffer,
		defaultSessionMinutes: defaultSessionMinutes,
	}
}

// Create persists a class and generates its room bookings.
func (s *ClassService) Create(ctx context.Context, req *models.CreateClassRequest) (*models.Class, *models.SyncResult, error) {
	class := &models.Class{
		Name:           req.Name,
		Description:    req.Description,
		Instructor:     req.Instructor,
		Schedule:       req.Schedule,
		SessionMinutes: req.SessionMinutes,
		Capacity:       req.Capacity,
		Fee:            req.Fee,
		RoomID:         req.RoomID,
	}

	if err := s.validate(ctx, class); err != nil {
		return nil, nil, err
	}

	if err := s.classes.Create(ctx, class); err != nil {
		return nil, nil, fmt.Errorf("failed to create class: %w", err)
	}

	s.index(ctx, class)

	result, err := s.SyncRoomBookings(ctx, class)
	if err != nil {
		return nil, nil, err
	}
	return class, result, nil
}

// GetByID returns a class or a not-found error.
func (s *ClassService) GetByID(ctx context.Context, id string) (*models.Class, error) {
	class, err := s.classes.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get class: %w", err)
	}
	if class == nil {
		return nil, errors.NotFound("class", id)
	}
	return class, nil
}

// List filters classes by name and instructor. A free-text query uses
// the search index when available, SQL name matching otherwise.
func (s *ClassService) List(ctx context.Context, name, instructor, query string) ([]models.Class, error) {
	if query != "" {
		if s.indexer != nil {
			ids, err := s.indexer.SearchClasses(ctx, query, 50)
			if err == nil {
				return s.classesByIDs(ctx, ids)
			}
			slog.Warn("class search index unavailable, falling back to SQL", "error", err)
		}
		return s.classes.List(ctx, query, "")
	}
	return s.classes.List(ctx, name, instructor)
}

// Update applies the new definition and re-syncs the room bookings.
func (s *ClassService) Update(ctx context.Context, id string, req *models.CreateClassRequest) (*models.Class, *models.SyncResult, error) {
	class, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	class.Name = req.Name
	class.Description = req.Description
	class.Instructor = req.Instructor
	class.Schedule = req.Schedule
	class.SessionMinutes = req.SessionMinutes
	class.Capacity = req.Capacity
	class.Fee = req.Fee
	class.RoomID = req.RoomID

	if err := s.validate(ctx, class); err != nil {
		return nil, nil, err
	}

	if err := s.classes.Update(ctx, class); err != nil {
		return nil, nil, fmt.Errorf("failed to update class: %w", err)
	}

	s.index(ctx, class)

	result, err := s.SyncRoomBookings(ctx, class)
	if err != nil {
		return nil, nil, err
	}
	return class, result, nil
}

// Delete removes the class together with its generated room bookings.
func (s *ClassService) Delete(ctx context.Context, id string) error {
	class, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	generated, err := s.bookings.ListByClass(ctx, class.ID)
	if err != nil {
		return fmt.Errorf("failed to list class bookings: %w", err)
	}
	if len(generated) > 0 {
		ids := make([]string, len(generated))
		for i, b := range generated {
			ids[i] = b.ID
		}
		if err := s.bookings.DeleteMany(ctx, ids); err != nil {
			return fmt.Errorf("failed to delete class bookings: %w", err)
		}
	}

	deleted, err := s.classes.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete class: %w", err)
	}
	if !deleted {
		return errors.NotFound("class", id)
	}

	if s.indexer != nil {
		if err := s.indexer.DeleteClass(ctx, id); err != nil {
			slog.Error("failed to remove class from search index", "class_id", id, "error", err)
		}
	}
	return nil
}

// SyncRoomBookings reconciles the generated room bookings with the
// class schedule. Stale bookings are removed, missing sessions are
// created, and sessions colliding with a foreign reservation are
// skipped without touching the foreign booking. Running it twice with
// unchanged class data is a no-op on the second run.
func (s *ClassService) SyncRoomBookings(ctx context.Context, class *models.Class) (*models.SyncResult, error) {
	result := &models.SyncResult{}

	existing, err := s.bookings.ListByClass(ctx, class.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list class bookings: %w", err)
	}

	// No room or no schedule: the class holds no sessions, drop them all.
	if class.RoomID == nil || *class.RoomID == "" || len(class.Schedule) == 0 {
		if len(existing) > 0 {
			ids := make([]string, len(existing))
			for i, b := range existing {
				ids[i] = b.ID
			}
			if err := s.bookings.DeleteMany(ctx, ids); err != nil {
				return nil, fmt.Errorf("failed to delete stale class bookings: %w", err)
			}
			result.Removed = len(existing)
		}
		s.publishSync(class.ID, result)
		return result, nil
	}

	sessionMinutes := class.SessionMinutes
	if sessionMinutes <= 0 {
		sessionMinutes = s.defaultSessionMinutes
	}
	sessionLength := time.Duration(sessionMinutes) * time.Minute

	desired := make(map[int64]time.Time, len(class.Schedule))
	for _, start := range class.Schedule {
		desired[start.Unix()] = start
	}

	// Pass 1: remove bookings whose start left the schedule or whose
	// room no longer matches the class room.
	covered := make(map[int64]bool)
	var stale []string
	for _, b := range existing {
		matches := b.StartDate != nil && b.RoomID != nil &&
			*b.RoomID == *class.RoomID && hasKey(desired, b.StartDate.Unix())
		if !matches {
			stale = append(stale, b.ID)
			continue
		}
		covered[b.StartDate.Unix()] = true
	}
	if len(stale) > 0 {
		if err := s.bookings.DeleteMany(ctx, stale); err != nil {
			return nil, fmt.Errorf("failed to delete stale class bookings: %w", err)
		}
		result.Removed = len(stale)
	}

	// Pass 2: create the missing sessions, skipping any that collide
	// with a reservation not generated by this class.
	for key, start := range desired {
		if covered[key] {
			continue
		}
		end := start.Add(sessionLength)

		bufStart, bufEnd := schedule.Buffered(start, end, s.buffer)
		conflict, err := s.bookings.FindConflict(ctx, models.KindRoom, *class.RoomID, bufStart, bufEnd, "", class.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to scan for conflicts: %w", err)
		}
		if conflict != nil {
			result.Skipped++
			continue
		}

		sessionStart := start
		sessionEnd := end
		booking := &models.Booking{
			ServiceKind:   models.KindRoom,
			RoomID:        class.RoomID,
			ClassID:       &class.ID,
			StartDate:     &sessionStart,
			EndDate:       &sessionEnd,
			Status:        models.BookingScheduled,
			PaymentStatus: models.PaymentUnpaid,
		}
		if err := s.bookings.Create(ctx, booking); err != nil {
			return nil, fmt.Errorf("failed to create session booking: %w", err)
		}
		result.Created++
	}

	s.publishSync(class.ID, result)
	return result, nil
}

func (s *ClassService) validate(ctx context.Context, class *models.Class) error {
	if class.Name == "" {
		return errors.Validation("class name is required")
	}
	if class.Fee < 0 {
		return errors.Validation("class fee cannot be negative")
	}
	if class.Capacity < 0 {
		return errors.Validation("class capacity cannot be negative")
	}
	if class.RoomID != nil && *class.RoomID != "" {
		room, err := s.rooms.GetByID(ctx, *class.RoomID)
		if err != nil {
			return fmt.Errorf("failed to look up room: %w", err)
		}
		if room == nil {
			return errors.NotFound("room", *class.RoomID)
		}
	}
	return nil
}

func (s *ClassService) classesByIDs(ctx context.Context, ids []string) ([]models.Class, error) {
	classes := make([]models.Class, 0, len(ids))
	for _, id := range ids {
		class, err := s.classes.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if class != nil {
			classes = append(classes, *class)
		}
	}
	return classes, nil
}

func (s *ClassService) index(ctx context.Context, class *models.Class) {
	if s.indexer == nil {
		return
	}
	if err := s.indexer.IndexClass(ctx, class); err != nil {
		slog.Error("failed to index class", "class_id", class.ID, "error", err)
	}
}

func (s *ClassService) publishSync(classID string, result *models.SyncResult) {
	for outcome, n := range map[string]int{
		"created": result.Created,
		"removed": result.Removed,
		"skipped": result.Skipped,
	} {
		if n > 0 {
			metrics.ClassSessionsSynced.WithLabelValues(outcome).Add(float64(n))
		}
	}

	if s.publisher == nil {
		return
	}
	event := models.ClassSyncedEvent{
		ClassID:   classID,
		Created:   result.Created,
		Removed:   result.Removed,
		Skipped:   result.Skipped,
		Timestamp: time.Now().UTC(),
	}
	if err := s.publisher.Publish(models.EventClassSynced, event); err != nil {
		slog.Error("failed to publish class sync event", "class_id", classID, "error", err)
	}
}

func hasKey(m map[int64]time.Time, key int64) bool {
	_, ok := m[key]
	return ok
}
