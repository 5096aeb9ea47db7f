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

func TestSubscriptionTransition(t *testing.T) {
	m := New()
	m.SubscriptionTransition("ACTIVE", "EXPIRED", 2)
	m.SubscriptionTransition("ACTIVE", "EXPIRED", 0)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.subscriptionTransfers.WithLabelValues("ACTIVE", "EXPIRED")))

	var nilMetrics *Metrics
	assert.NotPanics(t, func() { nilMetrics.SubscriptionTransition("a", "b", 1) })
}

func TestMiddlewareAndHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := New()
	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	r.GET("/metrics", m.Handler())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("/ping", "GET", "200")))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "budget_http_requests_total")
	assert.Contains(t, w.Body.String(), "go_goroutines")
}
