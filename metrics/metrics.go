package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const metricsPrefix = "recserve_"

var defaultLatencyBuckets = []float64{1, 2, 5, 10, 20, 50, 100, 200, 500, 1000}

// Metrics 汇总服务侧的可观测指标。
type Metrics struct {
	requestsTotal   *prometheus.CounterVec
	fallbacksTotal  *prometheus.CounterVec
	oracleErrors    prometheus.Counter
	trackedEvents   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// New 创建并注册指标。registerer 为 nil 时使用默认注册表。
func New(registerer prometheus.Registerer) *Metrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	m := &Metrics{}

	m.requestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: metricsPrefix + "requests_total",
		Help: "Total number of recommendation requests by outcome and status.",
	}, []string{"endpoint", "status"})

	m.fallbacksTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: metricsPrefix + "fallbacks_total",
		Help: "Total number of popularity fallbacks by reason.",
	}, []string{"reason"})

	m.oracleErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Name: metricsPrefix + "oracle_errors_total",
		Help: "Total number of factor scoring failures.",
	})

	m.trackedEvents = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: metricsPrefix + "tracked_events_total",
		Help: "Total number of interaction events accepted by the click sink.",
	}, []string{"interaction_type"})

	m.requestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    metricsPrefix + "request_duration_milliseconds",
		Help:    "Histogram of recommendation request latency in milliseconds.",
		Buckets: defaultLatencyBuckets,
	}, []string{"endpoint"})

	registerer.MustRegister(
		m.requestsTotal,
		m.fallbacksTotal,
		m.oracleErrors,
		m.trackedEvents,
		m.requestDuration,
	)
	return m
}

// ObserveRequest 记录一次请求的状态与耗时。
func (m *Metrics) ObserveRequest(endpoint, status string, elapsed time.Duration) {
	m.requestsTotal.WithLabelValues(endpoint, status).Inc()
	m.requestDuration.WithLabelValues(endpoint).Observe(float64(elapsed.Milliseconds()))
}

// ObserveFallback 记录一次热门 fallback 及其原因。
func (m *Metrics) ObserveFallback(reason string) {
	m.fallbacksTotal.WithLabelValues(reason).Inc()
	if reason == "fallback_oracle_error" {
		m.oracleErrors.Inc()
	}
}

// ObserveTrackedEvent 记录一次被接受的交互事件。
func (m *Metrics) ObserveTrackedEvent(interactionType string) {
	m.trackedEvents.WithLabelValues(interactionType).Inc()
}
