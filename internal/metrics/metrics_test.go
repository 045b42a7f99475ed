package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCollectorRecords(t *testing.T) {
	c := NewCollector(prometheus.NewRegistry())

	c.RecordRequest("api/chat", 200)
	c.RecordRequest("api/chat", 200)
	c.RecordRequest("api/generate", 502)
	c.RecordRejection("path_rejected")
	c.ObserveUpstream("api/chat", 2*time.Second, 1024)

	if got := testutil.ToFloat64(c.requestsTotal.WithLabelValues("api/chat", "200")); got != 2 {
		t.Errorf("expected 2 chat requests, got %v", got)
	}
	if got := testutil.ToFloat64(c.requestsTotal.WithLabelValues("api/generate", "502")); got != 1 {
		t.Errorf("expected 1 failed generate request, got %v", got)
	}
	if got := testutil.ToFloat64(c.rejectionsTotal.WithLabelValues("path_rejected")); got != 1 {
		t.Errorf("expected 1 rejection, got %v", got)
	}
	if got := testutil.ToFloat64(c.relayedBytes); got != 1024 {
		t.Errorf("expected 1024 relayed bytes, got %v", got)
	}

	done := c.TrackInFlight()
	if got := testutil.ToFloat64(c.inFlight); got != 1 {
		t.Errorf("expected 1 in flight, got %v", got)
	}
	done()
	if got := testutil.ToFloat64(c.inFlight); got != 0 {
		t.Errorf("expected 0 in flight, got %v", got)
	}
}

func TestNilCollector(t *testing.T) {
	var c *Collector
	c.RecordRequest("api/chat", 200)
	c.RecordRejection("unauthorized")
	c.ObserveUpstream("api/chat", time.Second, 1)
	c.TrackInFlight()()
}

func TestHandler(t *testing.T) {
	c := NewCollector(nil)
	c.RecordRequest("api/chat", 200)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "llamarelay_gateway_requests_total") {
		t.Error("expected gateway counter in exposition output")
	}
}
