package metrics

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	BookingsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "studiohub_bookings_created_total",
		Help: "Number of bookings created, by service kind.",
	}, []string{"kind"})

	ConflictsDetected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "studiohub_booking_conflicts_total",
		Help: "Number of booking attempts rejected for a schedule conflict, by service kind.",
	}, []string{"kind"})

	CalendarSyncFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "studiohub_calendar_sync_failures_total",
		Help: "Number of failed calendar mirror operations.",
	})

	ClassSessionsSynced = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "studiohub_class_sessions_synced_total",
		Help: "Class schedule sync outcomes.",
	}, []string{"outcome"})

	PaymentsRecorded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "studiohub_payments_recorded_total",
		Help: "Number of payments recorded, by type.",
	}, []string{"type"})
)

// Handler exposes the Prometheus scrape endpoint as a gin handler.
func Handler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
