package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveTip(t *testing.T) {
	m := New()

	m.ObserveTip("INR", 25000, true)
	m.ObserveTip("INR", 5000, false)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.TipsSubmitted.WithLabelValues("INR", "true")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.TipsSubmitted.WithLabelValues("INR", "false")))
	assert.Equal(t, 30000.0, testutil.ToFloat64(m.TipAmountCents.WithLabelValues("INR")))
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveTip("INR", 1, false)
		m.ObserveReview("direct")
		m.ObserveModeration("approve")
		m.ObserveProvisioned()
		m.ObserveRateLimited("/api/v1/tips")
	})
}

func TestHandlerExposesCollectors(t *testing.T) {
	m := New()
	m.ObserveModeration("approve")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `tipsy_reviews_moderated_total{action="approve"} 1`))
}
