package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestNewMetricsIndependentRegistries(t *testing.T) {
	// Two instances must not panic on duplicate registration.
	m1 := NewMetrics()
	m2 := NewMetrics()

	m1.TermsLookupsTotal.Inc()
	m2.AgreementsRecordedTotal.Inc()
}

func TestRecordHTTPRequest(t *testing.T) {
	m := NewMetrics()
	m.RecordHTTPRequest("GET", "/v1/terms/{name}", "200", 25*time.Millisecond)
	m.RecordHTTPRequest("GET", "/v1/terms/{name}", "200", 40*time.Millisecond)
	m.RecordHTTPRequest("POST", "/v1/agreement", "201", 10*time.Millisecond)

	req := httptest.NewRequest("GET", "/metrics", nil)
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, req)

	body := rec.Body.String()
	if !strings.Contains(body, `terms_http_requests_total{method="GET",path="/v1/terms/{name}",status="200"} 2`) {
		t.Errorf("expected GET counter at 2, got body:\n%s", body)
	}
	if !strings.Contains(body, `terms_http_requests_total{method="POST",path="/v1/agreement",status="201"} 1`) {
		t.Errorf("expected POST counter at 1")
	}
	if !strings.Contains(body, "terms_http_request_duration_seconds") {
		t.Errorf("expected duration histogram in scrape output")
	}
}

func TestUptimeSeconds(t *testing.T) {
	m := NewMetrics()
	m.ServerStartTime = time.Now().Add(-3 * time.Second)
	if got := m.UptimeSeconds(); got < 3 {
		t.Errorf("expected uptime >= 3s, got %f", got)
	}
}
