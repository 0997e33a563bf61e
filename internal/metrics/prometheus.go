// Package metrics exposes ledger counters in Prometheus format. A nil
// *Collector is valid and records nothing.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	OutcomeOK       = "ok"
	OutcomeInvalid  = "invalid"
	OutcomeNotFound = "not_found"
	OutcomeConflict = "conflict"
	OutcomeError    = "error"
)

type Collector struct {
	registry        *prometheus.Registry
	operations      *prometheus.CounterVec
	accountsCreated *prometheus.CounterVec
	suspicious      *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

func NewCollector() *Collector {
	registry := prometheus.NewRegistry()

	return &Collector{
		registry: registry,
		operations: promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
			Name: "bankguard_operations_total",
			Help: "Ledger operations by name and outcome",
		}, []string{"operation", "outcome"}),
		accountsCreated: promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
			Name: "bankguard_accounts_created_total",
			Help: "Accounts opened by kind",
		}, []string{"kind"}),
		suspicious: promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
			Name: "bankguard_suspicious_transactions_total",
			Help: "Transactions flagged by each heuristic",
		}, []string{"heuristic"}),
		requestDuration: promauto.With(registry).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "bankguard_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "status"}),
	}
}

func (c *Collector) RecordOperation(operation, outcome string) {
	if c == nil {
		return
	}
	c.operations.WithLabelValues(operation, outcome).Inc()
}

func (c *Collector) RecordAccountCreated(kind string) {
	if c == nil {
		return
	}
	c.accountsCreated.WithLabelValues(kind).Inc()
}

func (c *Collector) RecordSuspicious(heuristic string, count int) {
	if c == nil || count <= 0 {
		return
	}
	c.suspicious.WithLabelValues(heuristic).Add(float64(count))
}

func (c *Collector) ObserveRequest(method string, status int, duration time.Duration) {
	if c == nil {
		return
	}
	c.requestDuration.WithLabelValues(method, strconv.Itoa(status)).Observe(duration.Seconds())
}

func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
