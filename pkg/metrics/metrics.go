// Package metrics exports form submission outcomes to Prometheus.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/goliatone/go-formsubmit/pkg/form"
)

const namespace = "formsubmit"

// Observer records submission lifecycle events. It implements form.Observer.
type Observer struct {
	SubmissionsTotal   *prometheus.CounterVec
	SubmissionDuration *prometheus.HistogramVec
	InFlight           *prometheus.GaugeVec

	gatherer prometheus.Gatherer
}

var _ form.Observer = (*Observer)(nil)

// New registers the collectors with the default registry.
func New() *Observer {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry registers the collectors with reg. Tests use a fresh
// registry to avoid global state.
func NewWithRegistry(reg prometheus.Registerer) *Observer {
	factory := promauto.With(reg)

	o := &Observer{
		SubmissionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "submissions_total",
				Help:      "Total number of form submission attempts by outcome",
			},
			[]string{"form", "status"},
		),
		SubmissionDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "submission_duration_seconds",
				Help:      "Form submission duration in seconds",
				Buckets:   []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			},
			[]string{"form"},
		),
		InFlight: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "submissions_in_flight",
				Help:      "Number of form submissions currently in flight",
			},
			[]string{"form"},
		),
	}

	if gatherer, ok := reg.(prometheus.Gatherer); ok {
		o.gatherer = gatherer
	}
	return o
}

// SubmitStarted implements form.Observer.
func (o *Observer) SubmitStarted(formID string) {
	o.InFlight.WithLabelValues(label(formID)).Inc()
}

// SubmitFinished implements form.Observer.
func (o *Observer) SubmitFinished(formID string, status form.Status, elapsed time.Duration) {
	id := label(formID)
	o.InFlight.WithLabelValues(id).Dec()
	o.SubmissionsTotal.WithLabelValues(id, status.String()).Inc()
	o.SubmissionDuration.WithLabelValues(id).Observe(elapsed.Seconds())
}

// Handler serves the registry the observer was registered with, falling back
// to the default gatherer.
func (o *Observer) Handler() http.Handler {
	if o.gatherer == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(o.gatherer, promhttp.HandlerOpts{})
}

func label(formID string) string {
	if formID == "" {
		return "unknown"
	}
	return formID
}
