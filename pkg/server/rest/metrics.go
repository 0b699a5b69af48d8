package rest

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	requests      *prometheus.CounterVec
	duration      *prometheus.HistogramVec
	routeTerminal *prometheus.CounterVec
	graphNodes    prometheus.Histogram
	routeError    prometheus.Histogram
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of http requests",
		}, []string{"method", "route", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Http request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		routeTerminal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "loop_route_terminal_total",
			Help: "Generated loop routes by search terminal state",
		}, []string{"terminal"}),
		graphNodes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "loop_route_graph_nodes",
			Help:    "Number of road graph nodes built per route request",
			Buckets: prometheus.ExponentialBuckets(16, 4, 8),
		}),
		routeError: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "loop_route_distance_error_ratio",
			Help:    "Relative deviation of the generated route from the requested distance",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.2, 0.5, 1},
		}),
	}
	reg.MustRegister(m.requests, m.duration, m.routeTerminal, m.graphNodes, m.routeError)
	return m
}

func (m *Metrics) observeRoute(terminal string, graphNodes int, requestedMiles, miles float64) {
	if m == nil {
		return
	}
	m.routeTerminal.WithLabelValues(terminal).Inc()
	m.graphNodes.Observe(float64(graphNodes))
	if requestedMiles > 0 {
		deviation := (miles - requestedMiles) / requestedMiles
		if deviation < 0 {
			deviation = -deviation
		}
		m.routeError.Observe(deviation)
	}
}

// PromeHttpMiddleware records request count and latency per chi route pattern.
func PromeHttpMiddleware(m *Metrics) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			route := r.URL.Path
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				route = rctx.RoutePattern()
			}
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			m.requests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
			m.duration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
		})
	}
}
