package external

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalendarClientDisabled(t *testing.T) {
	client := NewCalendarClient(CalendarConfig{})

	assert.False(t, client.Enabled())

	events, err := client.ListEvents(context.Background(), time.Now(), time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Empty(t, events)

	id, err := client.CreateEvent(context.Background(), EventPayload{Summary: "test"})
	require.NoError(t, err)
	assert.Empty(t, id)

	require.NoError(t, client.UpdateEvent(context.Background(), "evt-1", EventPayload{}))
	require.NoError(t, client.DeleteEvent(context.Background(), "evt-1"))
}

func TestListEventsNormalizesAllDay(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/calendars/studio/events", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.NotEmpty(t, r.URL.Query().Get("timeMin"))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"items": []map[string]interface{}{
				{
					"id":      "evt-timed",
					"summary": "Studio maintenance",
					"start":   map[string]string{"dateTime": "2026-03-10T10:00:00Z"},
					"end":     map[string]string{"dateTime": "2026-03-10T12:00:00Z"},
				},
				{
					"id":      "evt-allday",
					"summary": "Holiday",
					"start":   map[string]string{"date": "2026-03-11"},
					"end":     map[string]string{"date": "2026-03-12"},
				},
				{
					"id":    "evt-broken",
					"start": map[string]string{},
					"end":   map[string]string{},
				},
			},
		})
	}))
	defer server.Close()

	client := NewCalendarClient(CalendarConfig{
		BaseURL:    server.URL,
		CalendarID: "studio",
		Token:      "secret",
	})

	events, err := client.ListEvents(context.Background(), time.Now(), time.Now().Add(24*time.Hour))
	require.NoError(t, err)
	require.Len(t, events, 2)

	assert.Equal(t, "evt-timed", events[0].ID)
	assert.False(t, events[0].AllDay)
	assert.Equal(t, time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC), events[0].Start)

	assert.Equal(t, "evt-allday", events[1].ID)
	assert.True(t, events[1].AllDay)
	assert.Equal(t, time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC), events[1].Start)
	assert.Equal(t, time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC), events[1].End)
}

func TestCreateEvent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/calendars/studio/events", r.URL.Path)

		var payload EventPayload
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "Room A: Jane Doe", payload.Summary)

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]string{"id": "evt-new"})
	}))
	defer server.Close()

	client := NewCalendarClient(CalendarConfig{BaseURL: server.URL, CalendarID: "studio"})

	start := time.Date(2026, 4, 1, 14, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)
	id, err := client.CreateEvent(context.Background(), EventPayload{
		Summary: "Room A: Jane Doe",
		Start:   EventTime{DateTime: &start, TimeZone: "UTC"},
		End:     EventTime{DateTime: &end, TimeZone: "UTC"},
	})
	require.NoError(t, err)
	assert.Equal(t, "evt-new", id)
}

func TestDeleteEventToleratesNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewCalendarClient(CalendarConfig{BaseURL: server.URL, CalendarID: "studio"})
	require.NoError(t, client.DeleteEvent(context.Background(), "evt-gone"))
}
