package obs

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestStatusRecorderCapturesStatusAndBytes(t *testing.T) {
	rr := httptest.NewRecorder()
	recorder := NewStatusRecorder(rr)

	recorder.WriteHeader(http.StatusTeapot)
	n, err := recorder.Write([]byte("short and stout"))
	require.NoError(t, err)
	require.Equal(t, 15, n)
	require.Equal(t, http.StatusTeapot, recorder.Status())
	require.Equal(t, int64(15), recorder.BytesWritten())
}

func TestHTTPObsMiddlewareCountsRequests(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewHTTPMetrics("bartest", nil, reg)

	wrapped := HTTPObs{Metrics: metrics}.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sales", nil)
	req = req.WithContext(WithRoutePattern(req.Context(), "/api/v1/sales"))
	wrapped.ServeHTTP(httptest.NewRecorder(), req)

	count := testutil.ToFloat64(metrics.ReqTotal.WithLabelValues(http.MethodPost, "/api/v1/sales", "201"))
	require.Equal(t, float64(1), count)
}

func TestHTTPObsMiddlewareNilMetricsPassthrough(t *testing.T) {
	var called bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true })
	wrapped := HTTPObs{}.Middleware(next)

	wrapped.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.True(t, called)
}

func TestRoutePatternRoundTrip(t *testing.T) {
	ctx := WithRoutePattern(httptest.NewRequest(http.MethodGet, "/", nil).Context(), "/api/v1/drinks/{id}")
	require.Equal(t, "/api/v1/drinks/{id}", RoutePatternFromContext(ctx))
}
