package server

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the collectors the API reports.
type Metrics struct {
	SchedulesBuilt   *prometheus.CounterVec
	BuildSeconds     prometheus.Histogram
	MissingInstants  *prometheus.CounterVec
	RequestsTotal    *prometheus.CounterVec
	RequestDurations *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with registerer.
func NewMetrics(registerer prometheus.Registerer) *Metrics {
	m := &Metrics{
		SchedulesBuilt: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "salat",
			Name:      "schedules_built_total",
			Help:      "Prayer schedules computed, by calculation method.",
		}, []string{"method"}),
		BuildSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "salat",
			Name:      "schedule_build_seconds",
			Help:      "Time to compute one prayer schedule.",
			Buckets:   []float64{.00005, .0001, .00025, .0005, .001, .0025, .005, .01},
		}),
		MissingInstants: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "salat",
			Name:      "missing_instants_total",
			Help:      "Schedule instants the sun did not define, by prayer.",
		}, []string{"prayer"}),
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "salat",
			Name:      "http_requests_total",
			Help:      "HTTP requests served, by route and status code.",
		}, []string{"route", "code"}),
		RequestDurations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "salat",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency, by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
	}

	registerer.MustRegister(
		m.SchedulesBuilt,
		m.BuildSeconds,
		m.MissingInstants,
		m.RequestsTotal,
		m.RequestDurations,
	)
	return m
}
