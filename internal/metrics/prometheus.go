package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Namespace for all Gatherly metrics
const namespace = "gatherly"

// PrometheusRecorder implements Recorder on a dedicated Prometheus registry.
type PrometheusRecorder struct {
	registry *prometheus.Registry

	usersRegistered    prometheus.Counter
	logins             *prometheus.CounterVec
	sessionsRejected   *prometheus.CounterVec
	eventMutations     *prometheus.CounterVec
	eventJoins         *prometheus.CounterVec
	eventQueryDuration prometheus.Histogram

	httpRequests         *prometheus.CounterVec
	httpDuration         *prometheus.HistogramVec
	httpRequestsInFlight prometheus.Gauge
}

// NewPrometheus creates a recorder with its own registry.
// Go runtime and process collectors are registered alongside the application metrics.
func NewPrometheus() *PrometheusRecorder {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	factory := promauto.With(reg)

	return &PrometheusRecorder{
		registry: reg,
		usersRegistered: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "users_registered_total",
			Help:      "Total number of registered users",
		}),
		logins: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "logins_total",
			Help:      "Total number of login attempts by outcome",
		}, []string{"outcome"}),
		sessionsRejected: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_rejected_total",
			Help:      "Total number of requests rejected by the session gate",
		}, []string{"reason"}),
		eventMutations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "event_mutations_total",
			Help:      "Total number of event mutations by operation",
		}, []string{"operation"}), // operation: create|update|delete
		eventJoins: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "event_joins_total",
			Help:      "Total number of join requests by outcome",
		}, []string{"outcome"}),
		eventQueryDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "event_query_duration_seconds",
			Help:      "Event listing latency in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}),
		httpRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "route", "status"}),
		httpDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}, []string{"method", "route"}),
		httpRequestsInFlight: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_requests_in_flight",
			Help:      "Current number of HTTP requests being processed",
		}),
	}
}

// Registry returns the registry backing this recorder.
func (p *PrometheusRecorder) Registry() *prometheus.Registry {
	return p.registry
}

// Handler serves the registry in Prometheus exposition format.
func (p *PrometheusRecorder) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}

// IncUserRegistered increments the registration counter.
func (p *PrometheusRecorder) IncUserRegistered() { p.usersRegistered.Inc() }

// IncLogin increments the login counter for outcome.
func (p *PrometheusRecorder) IncLogin(outcome string) { p.logins.WithLabelValues(outcome).Inc() }

// IncSessionRejected increments the rejection counter for reason.
func (p *PrometheusRecorder) IncSessionRejected(reason string) {
	p.sessionsRejected.WithLabelValues(reason).Inc()
}

// IncEventCreated increments event created counter.
func (p *PrometheusRecorder) IncEventCreated() { p.eventMutations.WithLabelValues("create").Inc() }

// IncEventUpdated increments event updated counter.
func (p *PrometheusRecorder) IncEventUpdated() { p.eventMutations.WithLabelValues("update").Inc() }

// IncEventDeleted increments event deleted counter.
func (p *PrometheusRecorder) IncEventDeleted() { p.eventMutations.WithLabelValues("delete").Inc() }

// IncEventJoin increments the join counter for outcome.
func (p *PrometheusRecorder) IncEventJoin(outcome string) {
	p.eventJoins.WithLabelValues(outcome).Inc()
}

// ObserveEventQueryDuration records event listing duration.
func (p *PrometheusRecorder) ObserveEventQueryDuration(duration time.Duration) {
	p.eventQueryDuration.Observe(duration.Seconds())
}

// statusRecorder captures the response status code.
type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (rw *statusRecorder) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// HTTPMiddleware returns a middleware that records HTTP metrics.
// Requests are labelled with the chi route pattern to keep cardinality bounded.
func (p *PrometheusRecorder) HTTPMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p.httpRequestsInFlight.Inc()
		defer p.httpRequestsInFlight.Dec()

		start := time.Now()
		wrapped := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		route := routePattern(r)
		p.httpRequests.WithLabelValues(r.Method, route, strconv.Itoa(wrapped.statusCode)).Inc()
		p.httpDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unmatched"
}
