package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Результаты поиска пользователя по API-ключу
const (
	APIKeyOK      = "ok"
	APIKeyUnknown = "unknown"
	APIKeyError   = "error"
)

// Metrics — Prometheus-метрики хуков запроса.
// Методы безопасны для nil-получателя (метрики отключены).
type Metrics struct {
	requestQueries prometheus.Histogram
	apiKeyLookups  *prometheus.CounterVec

	registry *prometheus.Registry
}

// New создаёт собственный реестр с метриками приложения и runtime
func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		requestQueries: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "scoreboard_request_queries",
			Help:    "Number of SQL queries issued per HTTP request",
			Buckets: prometheus.ExponentialBuckets(1, 2, 8),
		}),
		apiKeyLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "scoreboard_apikey_lookups_total",
			Help: "API key lookups by result",
		}, []string{"result"}),
		registry: registry,
	}

	registry.MustRegister(
		m.requestQueries,
		m.apiKeyLookups,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveQueries — число запросов к БД за один HTTP-запрос
func (m *Metrics) ObserveQueries(n int64) {
	if m == nil {
		return
	}
	m.requestQueries.Observe(float64(n))
}

// APIKeyLookup — результат поиска по API-ключу
func (m *Metrics) APIKeyLookup(result string) {
	if m == nil {
		return
	}
	m.apiKeyLookups.WithLabelValues(result).Inc()
}

// Registry — реестр для тестов и дополнительных коллекторов
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler — /metrics
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
