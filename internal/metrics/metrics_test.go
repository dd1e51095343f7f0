package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/samvad-hq/samvad-news-gateway/pkg/providers"
)

func TestObserveUpstreamCounts(t *testing.T) {
	m := New()
	m.ObserveUpstream("gnews", providers.EndpointSearch, "ok", 20*time.Millisecond)
	m.ObserveUpstream("gnews", providers.EndpointSearch, "ok", 30*time.Millisecond)
	m.ObserveUpstream("gnews", providers.EndpointHeadlines, "rejected", time.Millisecond)

	if got := testutil.ToFloat64(m.UpstreamRequestsTotal.WithLabelValues("gnews", "search", "ok")); got != 2 {
		t.Fatalf("search ok = %v want 2", got)
	}
	if got := testutil.ToFloat64(m.UpstreamRequestsTotal.WithLabelValues("gnews", "headlines", "rejected")); got != 1 {
		t.Fatalf("headlines rejected = %v want 1", got)
	}
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := New()
	m.ObserveHTTP("GET", "/api/news", "200")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "news_gateway_http_requests_total") {
		t.Fatalf("metric missing from exposition")
	}
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.ObserveUpstream("p", providers.EndpointSearch, "ok", time.Second)
	m.ObserveHTTP("GET", "/", "200")
}
