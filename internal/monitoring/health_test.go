package monitoring

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func serveHealth(h *HealthChecker) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	return rec
}

func TestHealthChecker_HealthyAfterCheck(t *testing.T) {
	h := NewHealthChecker()
	h.SetConnected(true)
	h.RecordCheck(45000)

	rec := serveHealth(h)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"healthy"`)
	assert.Contains(t, rec.Body.String(), "45000")
}

func TestHealthChecker_DegradedWhenDisconnected(t *testing.T) {
	h := NewHealthChecker()
	h.RecordCheck(45000)
	h.SetConnected(false)

	rec := serveHealth(h)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), `"degraded"`)
}

func TestHealthChecker_FailuresSurviveRecordCheck(t *testing.T) {
	h := NewHealthChecker()
	h.SetConnected(true)
	h.RecordFailure("price fetch failed for BTCUSDT: venue unreachable")
	h.RecordCheck(45000)

	rec := serveHealth(h)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), `"unhealthy"`)
	assert.Contains(t, rec.Body.String(), "venue unreachable")
}

func TestHealthChecker_ResetFailuresClears(t *testing.T) {
	h := NewHealthChecker()
	h.SetConnected(true)
	h.RecordFailure("price fetch failed for BTCUSDT: venue unreachable")
	h.ResetFailures()
	h.RecordCheck(45000)

	rec := serveHealth(h)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "venue unreachable")
}

func TestHealthChecker_FailureListCapped(t *testing.T) {
	h := NewHealthChecker()
	for i := 0; i < 25; i++ {
		h.RecordFailure("fetch failed")
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	assert.Len(t, h.errors, 10)
}
