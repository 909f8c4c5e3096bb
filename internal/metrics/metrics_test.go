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

func TestMetrics_Counters(t *testing.T) {
	m := New()

	m.ObserveGate("authenticated")
	m.ObserveGate("authenticated")
	m.ObserveGate("unauthenticated")
	m.ObserveAuth("login", "success")
	m.ObservePresign("upload")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.gateResolutions.WithLabelValues("authenticated")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.gateResolutions.WithLabelValues("unauthenticated")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.authEvents.WithLabelValues("login", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.uploadURLs.WithLabelValues("upload")))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveGate("authenticated")
		m.ObserveAuth("logout", "success")
		m.ObservePresign("download")
	})
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.ObserveGate("unauthenticated")

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), `adhi_gate_resolutions_total{status="unauthenticated"} 1`))
}
