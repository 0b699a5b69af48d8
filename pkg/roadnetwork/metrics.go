package roadnetwork

import (
	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	requests prometheus.Counter
	failures prometheus.Counter
	elements prometheus.Histogram
	duration prometheus.Histogram
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "roadnetwork_fetch_requests_total",
			Help: "Total number of road network fetches sent to the map data provider",
		}),
		failures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "roadnetwork_fetch_failures_total",
			Help: "Total number of failed road network fetches",
		}),
		elements: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "roadnetwork_fetch_elements",
			Help:    "Number of elements returned per road network fetch",
			Buckets: prometheus.ExponentialBuckets(10, 4, 8),
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "roadnetwork_fetch_duration_ms",
			Help:    "Road network fetch duration in milliseconds",
			Buckets: []float64{50, 100, 250, 500, 1000, 2500, 5000, 10000},
		}),
	}
	reg.MustRegister(m.requests, m.failures, m.elements, m.duration)
	return m
}

func (m *Metrics) observeRequest() {
	if m == nil {
		return
	}
	m.requests.Inc()
}

func (m *Metrics) observeFailure() {
	if m == nil {
		return
	}
	m.failures.Inc()
}

func (m *Metrics) observeSuccess(elements int, durationMs float64) {
	if m == nil {
		return
	}
	m.elements.Observe(float64(elements))
	m.duration.Observe(durationMs)
}
