package obs

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "http_in_flight_requests",
		Help: "In-flight HTTP requests.",
	})

	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	gatewayCacheHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_cache_hits_total",
			Help: "Gateway requests served from the instance cache.",
		},
		[]string{"tier"},
	)

	gatewayCacheMisses = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_cache_misses_total",
			Help: "Gateway requests that required construction.",
		},
		[]string{"tier"},
	)

	gatewayConstructFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_construct_failures_total",
			Help: "Tier constructor failures.",
		},
		[]string{"tier"},
	)
)

// Init registers all metrics in the default registry.
func Init() {
	prometheus.MustRegister(
		httpInFlight,
		httpRequestsTotal,
		httpRequestDuration,
		gatewayCacheHits,
		gatewayCacheMisses,
		gatewayConstructFailures,
	)
}

// Handler serves the Prometheus scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

func GatewayCacheHit(tier string)         { gatewayCacheHits.WithLabelValues(tier).Inc() }
func GatewayCacheMiss(tier string)        { gatewayCacheMisses.WithLabelValues(tier).Inc() }
func GatewayConstructFailure(tier string) { gatewayConstructFailures.WithLabelValues(tier).Inc() }

// GatewayObserver adapts the cache counters to the gateway factory's
// observer port.
type GatewayObserver struct{}

func (GatewayObserver) CacheHit(tier string)         { GatewayCacheHit(tier) }
func (GatewayObserver) CacheMiss(tier string)        { GatewayCacheMiss(tier) }
func (GatewayObserver) ConstructFailure(tier string) { GatewayConstructFailure(tier) }

// Instrument wraps a handler with request counting and latency measurement.
func Instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		httpInFlight.Inc()
		start := time.Now()

		sw := &statusWriter{ResponseWriter: w, code: http.StatusOK}
		next.ServeHTTP(sw, r)

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(sw.code)
		httpRequestsTotal.WithLabelValues(r.Method, r.URL.Path, status).Inc()
		httpRequestDuration.WithLabelValues(r.Method, r.URL.Path, status).Observe(duration)
		httpInFlight.Dec()
	})
}

type statusWriter struct {
	http.ResponseWriter
	code int
}

func (w *statusWriter) WriteHeader(code int) {
	w.code = code
	w.ResponseWriter.WriteHeader(code)
}
