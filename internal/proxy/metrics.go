package proxy

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Причины отказа прокси для метрики failures.
const (
	failureConfig  = "config"
	failureForward = "forward"
)

// Metrics агрегирует показатели пересылки запросов.
type Metrics struct {
	forwarded *prometheus.CounterVec
	failures  *prometheus.CounterVec
	duration  *prometheus.HistogramVec
}

// NewMetrics создаёт и регистрирует метрики прокси в указанном реестре.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		forwarded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "edgeproxy_forwarded_total",
			Help: "Forwarded responses by method and backend status.",
		}, []string{"method", "status"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "edgeproxy_failures_total",
			Help: "Proxy-originated failures by kind.",
		}, []string{"kind"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "edgeproxy_request_duration_seconds",
			Help:    "Forwarding duration by method.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method"}),
	}

	if reg != nil {
		reg.MustRegister(m.forwarded, m.failures, m.duration)
	}

	return m
}

func (m *Metrics) observeForwarded(method string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.forwarded.WithLabelValues(method, strconv.Itoa(status)).Inc()
	m.duration.WithLabelValues(method).Observe(elapsed.Seconds())
}

func (m *Metrics) observeFailure(kind string) {
	if m == nil {
		return
	}
	m.failures.WithLabelValues(kind).Inc()
}
