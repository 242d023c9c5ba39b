// Package metrics records chart computations with Prometheus.
package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/litescript/ls-natal/internal/chart"
	"github.com/litescript/ls-natal/internal/ephem"
)

const namespace = "lsnatal"

// Outcome labels.
const (
	OutcomeOK          = "ok"
	OutcomeInvalid     = "invalid_input"
	OutcomeUnavailable = "ephemeris_unavailable"
	OutcomeDegenerate  = "house_degenerate"
	OutcomeError       = "error"
)

// Recorder implements chart.Recorder using Prometheus. Each Recorder owns
// its registry, so several can coexist in one process.
type Recorder struct {
	reg *prometheus.Registry

	charts    *prometheus.CounterVec
	stages    *prometheus.HistogramVec
	ephemeris *prometheus.CounterVec
	requests  *prometheus.CounterVec
	latency   *prometheus.HistogramVec
}

var _ chart.Recorder = (*Recorder)(nil)

// New creates a Prometheus recorder. A nil registry gets a fresh one with
// the Go runtime and process collectors attached.
func New(reg *prometheus.Registry) *Recorder {
	if reg == nil {
		reg = prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	factory := promauto.With(reg)

	return &Recorder{
		reg: reg,
		charts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "charts_total",
				Help:      "Total number of chart computations",
			},
			[]string{"kind", "outcome"},
		),
		stages: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "stage_duration_seconds",
				Help:      "Duration of chart pipeline stages in seconds",
				Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10},
			},
			[]string{"stage"},
		),
		ephemeris: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "ephemeris_queries_total",
				Help:      "Total number of ephemeris position queries",
			},
			[]string{"provider", "body", "outcome"},
		),
		requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"route", "method", "status"},
		),
		latency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"route", "method"},
		),
	}
}

// Registry returns the registry the recorder's collectors live in.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.reg
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{Registry: r.reg})
}

// ObserveStage records the duration of one pipeline stage.
func (r *Recorder) ObserveStage(stage chart.Stage, d time.Duration) {
	r.stages.WithLabelValues(string(stage)).Observe(d.Seconds())
}

// CountChart counts a finished computation of the given kind.
func (r *Recorder) CountChart(kind string, err error) {
	r.charts.WithLabelValues(kind, Outcome(err)).Inc()
}

// CountEphemeris counts one position query.
func (r *Recorder) CountEphemeris(provider string, body ephem.Body, err error) {
	r.ephemeris.WithLabelValues(provider, body.Slug(), Outcome(err)).Inc()
}

// ObserveRequest records one served HTTP request. route should be the
// templated path, not the raw URL.
func (r *Recorder) ObserveRequest(route, method string, status int, d time.Duration) {
	r.requests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	r.latency.WithLabelValues(route, method).Observe(d.Seconds())
}

// Outcome classifies err into a low-cardinality label value.
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, chart.ErrInvalidInput):
		return OutcomeInvalid
	case errors.Is(err, chart.ErrEphemerisUnavailable):
		return OutcomeUnavailable
	case errors.Is(err, chart.ErrHouseDegenerate):
		return OutcomeDegenerate
	default:
		return OutcomeError
	}
}
