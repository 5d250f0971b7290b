package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_Middleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c := NewCollector()

	r := gin.New()
	r.Use(c.Middleware())
	r.GET("/api/dentists/:id", func(ctx *gin.Context) { ctx.Status(http.StatusOK) })

	for _, path := range []string{"/api/dentists/1", "/api/dentists/2"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		require.Equal(t, http.StatusOK, w.Code)
	}

	got := testutil.ToFloat64(c.httpRequestsTotal.WithLabelValues(http.MethodGet, "/api/dentists/:id", "200"))
	assert.Equal(t, float64(2), got)
}

func TestCollector_LedgerCounters(t *testing.T) {
	c := NewCollector()
	c.RecordBooking()
	c.RecordTransition("PENDING", "CANCELLED", "patient")

	assert.Equal(t, float64(1), testutil.ToFloat64(c.appointmentsBooked))
	assert.Equal(t, float64(1), testutil.ToFloat64(c.appointmentTransitions.WithLabelValues("PENDING", "CANCELLED", "patient")))

	w := httptest.NewRecorder()
	c.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, w.Body.String(), "appointments_booked_total 1")
}

func TestCollector_NilIsNoop(t *testing.T) {
	var c *Collector
	assert.NotPanics(t, func() {
		c.RecordBooking()
		c.RecordTransition("PENDING", "CONFIRMED", "dentist")
		c.RecordAuthAttempt(true)
	})
}
