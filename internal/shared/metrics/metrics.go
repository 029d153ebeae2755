package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "transfer_pulse"

// Collector holds the service's Prometheus metrics on a private registry
type Collector struct {
	registry *prometheus.Registry

	refreshCycles   *prometheus.CounterVec
	refreshDuration prometheus.Histogram
	displayedItems  prometheus.Gauge
	sourceItems     *prometheus.GaugeVec
	upstreamCalls   *prometheus.CounterVec
	upstreamLatency *prometheus.HistogramVec
}

// New creates and registers all collectors
func New() *Collector {
	c := &Collector{registry: prometheus.NewRegistry()}

	c.refreshCycles = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "refresh_cycles_total",
			Help:      "Refresh cycles by result (success, failure, skipped)",
		},
		[]string{"result"},
	)

	c.refreshDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "refresh_duration_seconds",
			Help:      "Wall time of a refresh cycle",
			Buckets:   prometheus.DefBuckets,
		},
	)

	c.displayedItems = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "displayed_items",
			Help:      "Number of items currently displayed",
		},
	)

	c.sourceItems = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "source_items",
			Help:      "Items returned by each source in the last successful cycle",
		},
		[]string{"source"},
	)

	c.upstreamCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_requests_total",
			Help:      "Upstream HTTP attempts by upstream and status code (0 on transport error)",
		},
		[]string{"upstream", "status"},
	)

	c.upstreamLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upstream_request_duration_seconds",
			Help:      "Upstream HTTP attempt latency",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"upstream"},
	)

	c.registry.MustRegister(
		c.refreshCycles,
		c.refreshDuration,
		c.displayedItems,
		c.sourceItems,
		c.upstreamCalls,
		c.upstreamLatency,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return c
}

// Handler serves the metrics in the Prometheus exposition format
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// ObserveRefresh records the outcome of one refresh cycle
func (c *Collector) ObserveRefresh(result string, elapsed time.Duration) {
	c.refreshCycles.WithLabelValues(result).Inc()
	if result != "skipped" {
		c.refreshDuration.Observe(elapsed.Seconds())
	}
}

// SetDisplayed records the size of the displayed list
func (c *Collector) SetDisplayed(n int) {
	c.displayedItems.Set(float64(n))
}

// SetSourceItems records how many items a source produced
func (c *Collector) SetSourceItems(sourceID string, n int) {
	c.sourceItems.WithLabelValues(sourceID).Set(float64(n))
}

// ObserveUpstream matches upstream.Observer
func (c *Collector) ObserveUpstream(upstream string, status int, _ error, elapsed time.Duration) {
	c.upstreamCalls.WithLabelValues(upstream, strconv.Itoa(status)).Inc()
	c.upstreamLatency.WithLabelValues(upstream).Observe(elapsed.Seconds())
}
