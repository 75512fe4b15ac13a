package service

import (
	"context"
	"fmt"
	"time"

	"studiohub/internal/models"
)

// CalendarService exposes the provider's event listing as a read-only
// proxy. With no provider configured it returns an empty list so
// clients render a stable empty calendar.
type CalendarService struct {
	calendar Calendar
}

func NewCalendarService(calendar Calendar) *CalendarService {
	return &CalendarService{calendar: calendar}
}

func (s *CalendarService) Enabled() bool {
	return s.calendar.Enabled()
}

// ListEvents returns provider events intersecting [timeMin, timeMax).
func (s *CalendarService) ListEvents(ctx context.Context, timeMin, timeMax time.Time) ([]models.CalendarEvent, error) {
	if !s.calendar.Enabled() {
		return []models.CalendarEvent{}, nil
	}

	events, err := s.calendar.ListEvents(ctx, timeMin, timeMax)
	if err != nil {
		return nil, fmt.Errorf("failed to list calendar events: %w", err)
	}
	if events == nil {
		events = []models.CalendarEvent{}
	}
	return events, nil
}
