package monitoring

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetricsTwice(t *testing.T) {
	assert.NotPanics(t, func() {
		NewMetrics()
		NewMetrics()
	})
}

func TestWindowMetrics(t *testing.T) {
	m := NewMetrics()

	m.AddWindowsOpen(3)
	m.AddWindowsOpen(-1)
	m.RecordWindowOp("open", "created")
	m.RecordWindowOp("open", "created")
	m.RecordWindowOp("close", "not_found")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.WindowsOpen))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.WindowOps.WithLabelValues("open", "created")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.WindowOps.WithLabelValues("close", "not_found")))
	assert.Equal(t, int64(2), m.Snapshot().WindowsOpen)
}

func TestMiddlewareAndHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := NewMetrics()

	router := gin.New()
	router.Use(Middleware(m))
	router.GET("/windows/:id", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/metrics", gin.WrapH(m.Handler()))

	for _, path := range []string{"/windows/a", "/windows/b", "/nope"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "/windows/:id", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "unmatched", "404")))

	snap := m.Snapshot()
	assert.Equal(t, int64(3), snap.TotalRequests)
	assert.Equal(t, int64(1), snap.TotalErrors)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "nexus_http_requests_total")
	assert.Contains(t, w.Body.String(), "nexus_uptime_seconds")
}

func TestTimer(t *testing.T) {
	m := NewMetrics()

	timer := NewTimer(m, "storage", "storage.list")
	time.Sleep(time.Millisecond)
	timer.Stop("success")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.ServiceCalls.WithLabelValues("storage", "storage.list", "success")))

	var nilTimer = NewTimer(nil, "x", "y")
	assert.NotPanics(t, func() { nilTimer.Stop("success") })
}
