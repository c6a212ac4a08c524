package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/goliatone/go-formsubmit/pkg/form"
	"github.com/goliatone/go-formsubmit/pkg/metrics"
)

func TestObserver_RecordsOutcomes(t *testing.T) {
	reg := prometheus.NewRegistry()
	o := metrics.NewWithRegistry(reg)

	o.SubmitStarted("theme")
	o.SubmitFinished("theme", form.StatusInvalid, 150*time.Millisecond)
	o.SubmitStarted("theme")
	o.SubmitFinished("theme", form.StatusSucceeded, 50*time.Millisecond)
	o.SubmitStarted("")
	o.SubmitFinished("", form.StatusFailed, time.Second)

	if got := counterValue(t, o.SubmissionsTotal.WithLabelValues("theme", "invalid")); got != 1 {
		t.Errorf("expected 1 invalid theme submission, got %v", got)
	}
	if got := counterValue(t, o.SubmissionsTotal.WithLabelValues("unknown", "failed")); got != 1 {
		t.Errorf("expected 1 failed unknown submission, got %v", got)
	}
	if got := gaugeValue(t, o.InFlight.WithLabelValues("theme")); got != 0 {
		t.Errorf("expected no submissions in flight, got %v", got)
	}

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	found := false
	for _, f := range families {
		if f.GetName() == "formsubmit_submission_duration_seconds" {
			found = true
			if len(f.GetMetric()) != 2 {
				t.Errorf("expected 2 duration series, got %d", len(f.GetMetric()))
			}
		}
	}
	if !found {
		t.Error("formsubmit_submission_duration_seconds metric not found")
	}
}

func TestObserver_Handler(t *testing.T) {
	reg := prometheus.NewRegistry()
	o := metrics.NewWithRegistry(reg)
	o.SubmitStarted("comment")
	o.SubmitFinished("comment", form.StatusSucceeded, time.Millisecond)

	rec := httptest.NewRecorder()
	o.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `formsubmit_submissions_total{form="comment",status="succeeded"} 1`) {
		t.Fatalf("expected submissions counter in output, got:\n%s", rec.Body.String())
	}
}

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("write counter: %v", err)
	}
	return m.GetCounter().GetValue()
}

func gaugeValue(t *testing.T, g prometheus.Gauge) float64 {
	t.Helper()
	var m dto.Metric
	if err := g.Write(&m); err != nil {
		t.Fatalf("write gauge: %v", err)
	}
	return m.GetGauge().GetValue()
}
