package observability

import (
	"strings"
	"testing"
	"time"
)

func TestCounter_WritePrometheus(t *testing.T) {
	c := NewCounter("cf_test_total", "test counter")
	c.Inc()
	c.Add(2)

	if c.Value() != 3 {
		t.Fatalf("expected value 3, got %v", c.Value())
	}

	var b strings.Builder
	if err := c.WritePrometheus(&b); err != nil {
		t.Fatalf("write: %v", err)
	}
	out := b.String()
	if !strings.Contains(out, "# TYPE cf_test_total counter") {
		t.Fatalf("missing TYPE line in %q", out)
	}
	if !strings.Contains(out, "cf_test_total 3.000000") {
		t.Fatalf("missing sample in %q", out)
	}
}

func TestCounterVec_LabelsAndEscaping(t *testing.T) {
	c := NewCounterVec("cf_requests_total", "requests", []string{"route", "status"})
	c.Inc("/api/formations", "200")
	c.Inc("/api/formations", "200")
	c.Inc(`/api/"odd"`, "500")

	var b strings.Builder
	if err := c.WritePrometheus(&b); err != nil {
		t.Fatalf("write: %v", err)
	}
	out := b.String()
	if !strings.Contains(out, `cf_requests_total{route="/api/formations",status="200"} 2.000000`) {
		t.Fatalf("missing aggregated sample in %q", out)
	}
	if !strings.Contains(out, `route="/api/\"odd\""`) {
		t.Fatalf("quotes not escaped in %q", out)
	}
}

func TestCounterVec_MissingLabelValuesFallBackToUnknown(t *testing.T) {
	c := NewCounterVec("cf_partial_total", "partial", []string{"a", "b"})
	c.Inc("only-a")

	var b strings.Builder
	if err := c.WritePrometheus(&b); err != nil {
		t.Fatalf("write: %v", err)
	}
	if !strings.Contains(b.String(), `{a="only-a",b="unknown"}`) {
		t.Fatalf("expected unknown fallback in %q", b.String())
	}
}

func TestHistogramVec_WritePrometheus(t *testing.T) {
	h := NewHistogramVec("cf_latency_seconds", "latency", []string{"route"}, []float64{0.1, 1})
	h.Observe(0.05, "/api/formations")
	h.Observe(0.5, "/api/formations")
	h.Observe(5, "/api/formations")

	var b strings.Builder
	if err := h.WritePrometheus(&b); err != nil {
		t.Fatalf("write: %v", err)
	}
	out := b.String()
	if !strings.Contains(out, `cf_latency_seconds_bucket{route="/api/formations",le="0.1"} 1`) {
		t.Fatalf("first bucket wrong in %q", out)
	}
	if !strings.Contains(out, `cf_latency_seconds_bucket{route="/api/formations",le="1"} 2`) {
		t.Fatalf("second bucket wrong in %q", out)
	}
	if !strings.Contains(out, `cf_latency_seconds_bucket{route="/api/formations",le="+Inf"} 3`) {
		t.Fatalf("inf bucket wrong in %q", out)
	}
	if !strings.Contains(out, `cf_latency_seconds_count{route="/api/formations"} 3`) {
		t.Fatalf("count wrong in %q", out)
	}
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *Metrics
	m.IncEnrollment()
	m.IncLessonCompleted()
	m.IncCertificateIssued()
	m.IncReview("create")
	m.IncContactMessage()
	m.ObserveAPI("GET", "/api/formations", "200", 10*time.Millisecond)
	m.ApiInflightInc()
	m.ApiInflightDec()
}
