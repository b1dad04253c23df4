package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveCountsRequests(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)

	m.Observe("GET", "/api/v1/products", "200", 25*time.Millisecond)
	m.Observe("GET", "/api/v1/products", "200", 30*time.Millisecond)

	count := testutil.ToFloat64(m.requests.WithLabelValues("GET", "/api/v1/products", "200"))
	if count != 2 {
		t.Fatalf("expected 2 requests, got %v", count)
	}
}

func TestObserveNilReceiverIsSafe(t *testing.T) {
	var m *HTTPMetrics
	m.Observe("GET", "/healthz", "200", time.Millisecond)

	empty := NewHTTPMetrics(nil)
	empty.Observe("", "", "", time.Millisecond)
}
