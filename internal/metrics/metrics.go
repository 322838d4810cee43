package metrics

import (
	"database/sql"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "eventapi"

// Metrics owns a registry and the collectors registered on it. A nil
// *Metrics is valid and records nothing.
type Metrics struct {
	Registry *prometheus.Registry

	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	EventsCreatedTotal  prometheus.Counter
	EventsDeletedTotal  prometheus.Counter
	RegistrationsTotal  *prometheus.CounterVec
	AuthRejectionsTotal *prometheus.CounterVec
}

// New builds a Metrics with Go and process collectors registered.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	f := promauto.With(reg)
	return &Metrics{
		Registry: reg,
		HTTPRequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPRequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency in seconds",
				Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "route"},
		),
		HTTPRequestsInFlight: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_requests_in_flight",
			Help:      "Current number of HTTP requests being processed",
		}),
		EventsCreatedTotal: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_created_total",
			Help:      "Total number of events created",
		}),
		EventsDeletedTotal: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_deleted_total",
			Help:      "Total number of events deleted",
		}),
		RegistrationsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "event_registrations_total",
				Help:      "Event registration attempts by outcome",
			},
			[]string{"outcome"}, // outcome: registered|duplicate|not_found|error
		),
		AuthRejectionsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "auth_rejections_total",
				Help:      "Requests rejected by the access guard",
			},
			[]string{"code"}, // code: unauthorized|forbidden
		),
	}
}

// RegisterDB exposes connection pool statistics for db.
func (m *Metrics) RegisterDB(db *sql.DB, name string) error {
	if m == nil {
		return nil
	}
	return m.Registry.Register(collectors.NewDBStatsCollector(db, name))
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}

// ObserveRequest records one finished HTTP request.
func (m *Metrics) ObserveRequest(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func (m *Metrics) EventCreated() {
	if m == nil {
		return
	}
	m.EventsCreatedTotal.Inc()
}

func (m *Metrics) EventDeleted() {
	if m == nil {
		return
	}
	m.EventsDeletedTotal.Inc()
}

// Registration counts a registration attempt with the given outcome.
func (m *Metrics) Registration(outcome string) {
	if m == nil {
		return
	}
	m.RegistrationsTotal.WithLabelValues(outcome).Inc()
}

// AuthRejected counts a guard rejection by response error code.
func (m *Metrics) AuthRejected(code string) {
	if m == nil {
		return
	}
	m.AuthRejectionsTotal.WithLabelValues(code).Inc()
}
