package providers

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"livenotify/internal/structures"
)

type MetricsProviderInterface interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	IncCacheHits(platform string)
	IncCacheMisses(platform string)
	ObservePersistenceDuration(duration time.Duration)
	IncPersistenceFailures()
	IncPollCycles()
	IncPollCyclesSkipped()
	ObservePollCycleDuration(duration time.Duration)
	IncAdapterFailures(platform, reason string)
	IncTransitions(platform string)
	IncDeliveries(platform string, delivered bool)
	SetWatchedChannels(platform string, count int)
}

type MetricsProvider struct {
	requestsTotal       *prometheus.CounterVec
	requestDuration     *prometheus.HistogramVec
	cacheHits           *prometheus.CounterVec
	cacheMisses         *prometheus.CounterVec
	persistenceDuration prometheus.Histogram
	persistenceFailures prometheus.Counter
	pollCycles          prometheus.Counter
	pollCyclesSkipped   prometheus.Counter
	pollCycleDuration   prometheus.Histogram
	adapterFailures     *prometheus.CounterVec
	transitions         *prometheus.CounterVec
	deliveries          *prometheus.CounterVec
	watchedChannels     *prometheus.GaugeVec
}

func (m *MetricsProvider) IncRequestsTotal(endpoint string, status int) {
	m.requestsTotal.WithLabelValues(endpoint, httpStatusBucket(status)).Inc()
}

func (m *MetricsProvider) ObserveRequestDuration(endpoint string, duration time.Duration) {
	m.requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (m *MetricsProvider) IncCacheHits(platform string) {
	m.cacheHits.WithLabelValues(platform).Inc()
}

func (m *MetricsProvider) IncCacheMisses(platform string) {
	m.cacheMisses.WithLabelValues(platform).Inc()
}

func (m *MetricsProvider) ObservePersistenceDuration(duration time.Duration) {
	m.persistenceDuration.Observe(duration.Seconds())
}

func (m *MetricsProvider) IncPersistenceFailures() {
	m.persistenceFailures.Inc()
}

func (m *MetricsProvider) IncPollCycles() {
	m.pollCycles.Inc()
}

func (m *MetricsProvider) IncPollCyclesSkipped() {
	m.pollCyclesSkipped.Inc()
}

func (m *MetricsProvider) ObservePollCycleDuration(duration time.Duration) {
	m.pollCycleDuration.Observe(duration.Seconds())
}

func (m *MetricsProvider) IncAdapterFailures(platform, reason string) {
	m.adapterFailures.WithLabelValues(platform, reason).Inc()
}

func (m *MetricsProvider) IncTransitions(platform string) {
	m.transitions.WithLabelValues(platform).Inc()
}

func (m *MetricsProvider) IncDeliveries(platform string, delivered bool) {
	status := "failed"
	if delivered {
		status = "delivered"
	}
	m.deliveries.WithLabelValues(platform, status).Inc()
}

func (m *MetricsProvider) SetWatchedChannels(platform string, count int) {
	m.watchedChannels.WithLabelValues(platform).Set(float64(count))
}

func httpStatusBucket(code int) string {
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

func NewMetricsProvider(conf *structures.Config) MetricsProviderInterface {
	if !conf.Metrics.Enabled {
		return &noopMetrics{}
	}

	return &MetricsProvider{
		requestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "livenotify_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"endpoint", "status"}),

		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "livenotify_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		cacheHits: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "livenotify_cache_hits_total",
			Help: "Room lookups served from cache",
		}, []string{"platform"}),

		cacheMisses: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "livenotify_cache_misses_total",
			Help: "Room lookups that went to the platform",
		}, []string{"platform"}),

		persistenceDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "livenotify_persistence_duration_seconds",
			Help:    "Duration of document writes in seconds",
			Buckets: prometheus.DefBuckets,
		}),

		persistenceFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "livenotify_persistence_failures_total",
			Help: "Total number of failed document writes",
		}),

		pollCycles: promauto.NewCounter(prometheus.CounterOpts{
			Name: "livenotify_poll_cycles_total",
			Help: "Total number of completed poll cycles",
		}),

		pollCyclesSkipped: promauto.NewCounter(prometheus.CounterOpts{
			Name: "livenotify_poll_cycles_skipped_total",
			Help: "Ticks skipped because a cycle was still running",
		}),

		pollCycleDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "livenotify_poll_cycle_duration_seconds",
			Help:    "Duration of a full poll cycle in seconds",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}),

		adapterFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "livenotify_adapter_failures_total",
			Help: "Room lookups that returned no room, by reason",
		}, []string{"platform", "reason"}),

		transitions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "livenotify_transitions_total",
			Help: "Offline to live transitions detected",
		}, []string{"platform"}),

		deliveries: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "livenotify_deliveries_total",
			Help: "Notification delivery attempts by outcome",
		}, []string{"platform", "status"}),

		watchedChannels: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name: "livenotify_watched_channels",
			Help: "Distinct channels polled per platform in the last cycle",
		}, []string{"platform"}),
	}
}

// noopMetrics is used when metrics are disabled.
type noopMetrics struct{}

func (n *noopMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (n *noopMetrics) IncCacheHits(_ string)                            {}
func (n *noopMetrics) IncCacheMisses(_ string)                          {}
func (n *noopMetrics) ObservePersistenceDuration(_ time.Duration)       {}
func (n *noopMetrics) IncPersistenceFailures()                          {}
func (n *noopMetrics) IncPollCycles()                                   {}
func (n *noopMetrics) IncPollCyclesSkipped()                            {}
func (n *noopMetrics) ObservePollCycleDuration(_ time.Duration)         {}
func (n *noopMetrics) IncAdapterFailures(_, _ string)                   {}
func (n *noopMetrics) IncTransitions(_ string)                          {}
func (n *noopMetrics) IncDeliveries(_ string, _ bool)                   {}
func (n *noopMetrics) SetWatchedChannels(_ string, _ int)               {}
