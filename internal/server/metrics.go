package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/palassaha/SC2-Backend/internal/eligibility"
)

// Metrics owns the server's prometheus registry. Each server instance
// gets its own registry so tests can build servers freely.
type Metrics struct {
	registry *prometheus.Registry

	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	oracleCalls     *prometheus.CounterVec
	oracleFallbacks *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		requestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sc2",
			Name:      "http_requests_total",
			Help:      "HTTP requests served.",
		}, []string{"method", "path", "status"}),
		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "sc2",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request processing time.",
		}, []string{"method", "path"}),
		oracleCalls: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sc2",
			Name:      "oracle_calls_total",
			Help:      "Oracle evaluations attempted, by operation.",
		}, []string{"operation"}),
		oracleFallbacks: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sc2",
			Name:      "oracle_fallbacks_total",
			Help:      "Oracle failures answered by local rules, by operation.",
		}, []string{"operation"}),
	}
}

// EngineHooks feeds the oracle counters from the eligibility engine.
func (m *Metrics) EngineHooks() *eligibility.Hooks {
	return &eligibility.Hooks{
		OnOracleCall: func(operation string) {
			m.oracleCalls.WithLabelValues(operation).Inc()
		},
		OnFallback: func(operation string) {
			m.oracleFallbacks.WithLabelValues(operation).Inc()
		},
	}
}

func (m *Metrics) observeRequest(method, path string, status int, duration time.Duration) {
	m.requestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

func (m *Metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
