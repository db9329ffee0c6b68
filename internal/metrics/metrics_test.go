package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveChat(t *testing.T) {
	m := New()
	m.ObserveChat(OutcomeOK, time.Now(), 2)
	m.ObserveChat(OutcomeRateLimited, time.Now(), 0)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.chatRequests.WithLabelValues(OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.chatRequests.WithLabelValues(OutcomeRateLimited)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.offersReturned))
}

func TestNilMetricsAreNoops(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveChat(OutcomeOK, time.Now(), 1)
		m.ManifestServed()
	})
}

func TestHandlerExposesCollectors(t *testing.T) {
	m := New()
	m.ManifestServed()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "iachat_manifest_requests_total 1")
}
