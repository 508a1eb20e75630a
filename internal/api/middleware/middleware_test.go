package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AvailabilityService/pkg/metrics"
)

func okHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func TestAuth(t *testing.T) {
	var seen int64
	h := Auth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = GetUserID(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := map[string]struct {
		header string
		status int
	}{
		"valid":    {header: "42", status: http.StatusNoContent},
		"missing":  {header: "", status: http.StatusUnauthorized},
		"garbage":  {header: "abc", status: http.StatusUnauthorized},
		"negative": {header: "-1", status: http.StatusUnauthorized},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set(UserIDHeader, tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
	assert.Equal(t, int64(42), seen)
}

func TestGetUserID_Missing(t *testing.T) {
	_, ok := GetUserID(httptest.NewRequest(http.MethodGet, "/", nil).Context())
	assert.False(t, ok)
}

func TestRateLimiter(t *testing.T) {
	limiter := NewRateLimiter(1, 2)
	current := time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return current }

	h := limiter.Middleware()(http.HandlerFunc(okHandler))
	call := func(addr string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusNoContent, call("10.0.0.1:1000"))
	assert.Equal(t, http.StatusNoContent, call("10.0.0.1:1001"))
	assert.Equal(t, http.StatusTooManyRequests, call("10.0.0.1:1002"))

	// другой клиент не делит бакет
	assert.Equal(t, http.StatusNoContent, call("10.0.0.2:1000"))

	current = current.Add(time.Second)
	assert.Equal(t, http.StatusNoContent, call("10.0.0.1:1003"))
}

func TestRateLimiter_EvictsIdleClients(t *testing.T) {
	limiter := NewRateLimiter(1, 1)
	current := time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return current }

	require.True(t, limiter.allow("a"))
	current = current.Add(idleTTL + time.Minute)
	require.True(t, limiter.allow("b"))

	assert.NotContains(t, limiter.clients, "a")
	assert.Contains(t, limiter.clients, "b")
}

func TestMetricsMiddleware(t *testing.T) {
	m := metrics.NewWithRegisterer("test", prometheus.NewRegistry())

	r := mux.NewRouter()
	r.Use(MetricsMiddleware(m))
	r.HandleFunc("/offerings/{offeringId}", okHandler)

	for _, path := range []string{"/offerings/1", "/offerings/2"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	count := testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/offerings/{offeringId}", "204"))
	assert.Equal(t, float64(2), count)
}
