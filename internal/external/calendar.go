package external

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"studiohub/internal/models"
)

// CalendarClient talks to the external calendar provider. When the
// provider is not configured (empty base URL or calendar id) every call
// is a no-op: listing returns nothing, mutations succeed silently. The
// booking path must never fail because the calendar is absent.
type CalendarClient struct {
	baseURL    string
	calendarID string
	token      string
	timezone   string
	httpClient *http.Client
}

type CalendarConfig struct {
	BaseURL    string
	CalendarID string
	Token      string
	Timezone   string
	Timeout    time.Duration
}

// EventTime is a provider-side event boundary: either a timed instant
// or a date-only value for all-day events.
type EventTime struct {
	DateTime *time.Time `json:"dateTime,omitempty"`
	Date     string     `json:"date,omitempty"`
	TimeZone string     `json:"timeZone,omitempty"`
}

// EventPayload is the body for event create/update calls.
type EventPayload struct {
	Summary     string    `json:"summary"`
	Description string    `json:"description,omitempty"`
	Location    string    `json:"location,omitempty"`
	Start       EventTime `json:"start"`
	End         EventTime `json:"end"`
}

type rawEvent struct {
	ID      string    `json:"id"`
	Summary string    `json:"summary"`
	Start   EventTime `json:"start"`
	End     EventTime `json:"end"`
}

type listEventsResponse struct {
	Items []rawEvent `json:"items"`
}

type createEventResponse struct {
	ID string `json:"id"`
}

func NewCalendarClient(cfg CalendarConfig) *CalendarClient {
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.Timezone == "" {
		cfg.Timezone = "UTC"
	}

	return &CalendarClient{
		baseURL:    cfg.BaseURL,
		calendarID: cfg.CalendarID,
		token:      cfg.Token,
		timezone:   cfg.Timezone,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// Enabled reports whether the provider is configured.
func (cc *CalendarClient) Enabled() bool {
	return cc.baseURL != "" && cc.calendarID != ""
}

// Timezone returns the configured provider timezone label.
func (cc *CalendarClient) Timezone() string {
	return cc.timezone
}

// ListEvents returns the provider events whose declared window
// intersects [timeMin, timeMax), normalized to timed half-open
// intervals. All-day events are widened to full days.
func (cc *CalendarClient) ListEvents(ctx context.Context, timeMin, timeMax time.Time) ([]models.CalendarEvent, error) {
	if !cc.Enabled() {
		return nil, nil
	}

	params := url.Values{}
	params.Set("timeMin", timeMin.Format(time.RFC3339))
	params.Set("timeMax", timeMax.Format(time.RFC3339))
	params.Set("singleEvents", "true")
	params.Set("orderBy", "startTime")

	endpoint := fmt.Sprintf("%s/calendars/%s/events?%s", cc.baseURL, url.PathEscape(cc.calendarID), params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	cc.authorize(req)

	resp, err := cc.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to list calendar events: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var result listEventsResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	var events []models.CalendarEvent
	for _, raw := range result.Items {
		if raw.ID == "" {
			continue
		}
		event, ok := normalizeEvent(raw)
		if !ok {
			continue
		}
		events = append(events, event)
	}
	return events, nil
}

// CreateEvent mirrors a booking to the provider and returns the new
// remote event id.
func (cc *CalendarClient) CreateEvent(ctx context.Context, payload EventPayload) (string, error) {
	if !cc.Enabled() {
		return "", nil
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal event: %w", err)
	}

	endpoint := fmt.Sprintf("%s/calendars/%s/events", cc.baseURL, url.PathEscape(cc.calendarID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBuffer(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	cc.authorize(req)

	resp, err := cc.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to create calendar event: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var result createEventResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	return result.ID, nil
}

// UpdateEvent patches an existing remote event.
func (cc *CalendarClient) UpdateEvent(ctx context.Context, eventID string, payload EventPayload) error {
	if !cc.Enabled() || eventID == "" {
		return nil
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	endpoint := fmt.Sprintf("%s/calendars/%s/events/%s", cc.baseURL, url.PathEscape(cc.calendarID), url.PathEscape(eventID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, endpoint, bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	cc.authorize(req)

	resp, err := cc.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to update calendar event: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
	return nil
}

// DeleteEvent removes a remote event.
func (cc *CalendarClient) DeleteEvent(ctx context.Context, eventID string) error {
	if !cc.Enabled() || eventID == "" {
		return nil
	}

	endpoint := fmt.Sprintf("%s/calendars/%s/events/%s", cc.baseURL, url.PathEscape(cc.calendarID), url.PathEscape(eventID))
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	cc.authorize(req)

	resp, err := cc.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to delete calendar event: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusNotFound {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
	return nil
}

func (cc *CalendarClient) authorize(req *http.Request) {
	if cc.token != "" {
		req.Header.Set("Authorization", "Bearer "+cc.token)
	}
}

// normalizeEvent turns a provider event into a timed half-open
// interval. All-day events carry date-only boundaries where the end
// date is already exclusive, so parsing both at midnight keeps the
// half-open convention intact.
func normalizeEvent(raw rawEvent) (models.CalendarEvent, bool) {
	event := models.CalendarEvent{ID: raw.ID, Summary: raw.Summary}

	start, startAllDay, ok := eventBoundary(raw.Start)
	if !ok {
		return event, false
	}
	end, _, ok := eventBoundary(raw.End)
	if !ok {
		return event, false
	}

	event.Start = start
	event.End = end
	event.AllDay = startAllDay
	return event, !end.Before(start)
}

func eventBoundary(et EventTime) (time.Time, bool, bool) {
	if et.DateTime != nil {
		return *et.DateTime, false, true
	}
	if et.Date != "" {
		day, err := time.Parse("2006-01-02", et.Date)
		if err != nil {
			return time.Time{}, false, false
		}
		return day, true, true
	}
	return time.Time{}, false, false
}
