package handlers

import (
	"encoding/json"
	std "errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studiohub/internal/errors"
	"studiohub/internal/models"
)

func performError(t *testing.T, err error) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/boom", func(c *gin.Context) {
		respondError(c, err)
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/boom", nil)
	r.ServeHTTP(w, req)
	return w
}

func TestRespondErrorStatusMapping(t *testing.T) {
	w := performError(t, errors.Validation("end date must be after start date"))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = performError(t, errors.NotFound("booking", "b-1"))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = performError(t, std.New("connection reset"))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "connection reset")
}

func TestRespondErrorConflictPayload(t *testing.T) {
	blocking := models.Booking{ID: "b-1", ServiceKind: models.KindRoom}
	w := performError(t, errors.Conflict("room is already booked", []models.Booking{blocking}, nil))
	require.Equal(t, http.StatusConflict, w.Code)

	var body struct {
		Error     string           `json:"error"`
		Conflicts []models.Booking `json:"conflicts"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "room is already booked", body.Error)
	require.Len(t, body.Conflicts, 1)
	assert.Equal(t, "b-1", body.Conflicts[0].ID)
}

func TestCreateBookingRejectsMalformedBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewHandlers(nil)
	r := gin.New()
	r.POST("/api/bookings", h.CreateBooking)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/bookings", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetCalendarEventsRejectsInvertedWindow(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewHandlers(nil)
	r := gin.New()
	r.GET("/api/calendar/events", h.GetCalendarEvents)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet,
		"/api/calendar/events?start=2026-05-11T12:00:00Z&end=2026-05-11T10:00:00Z", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCheckAvailabilityRequiresDates(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewHandlers(nil)
	r := gin.New()
	r.GET("/api/bookings/availability", h.CheckAvailability)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/bookings/availability?serviceKind=room&roomId=r-1&startDate=yesterday", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
