package docstore

import (
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PrometheusMetrics implements the Metrics interface using Prometheus.
// Collectors are created on first use, keyed by the docstore metric name
// with dots mapped to underscores (docstore.find.duration becomes
// docstore_find_duration_seconds).
type PrometheusMetrics struct {
	mu         sync.Mutex
	registry   prometheus.Registerer
	counters   map[string]prometheus.Counter
	gauges     map[string]prometheus.Gauge
	histograms map[string]prometheus.Histogram
}

// NewPrometheusMetrics creates a new Prometheus metrics instance.
// If registry is nil, the default Prometheus registerer is used.
func NewPrometheusMetrics(registry prometheus.Registerer) *PrometheusMetrics {
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}
	return &PrometheusMetrics{
		registry:   registry,
		counters:   make(map[string]prometheus.Counter),
		gauges:     make(map[string]prometheus.Gauge),
		histograms: make(map[string]prometheus.Histogram),
	}
}

func promName(name, suffix string) string {
	return strings.ReplaceAll(name, ".", "_") + suffix
}

func (p *PrometheusMetrics) counter(name string) prometheus.Counter {
	p.mu.Lock()
	defer p.mu.Unlock()
	c, ok := p.counters[name]
	if !ok {
		c = promauto.With(p.registry).NewCounter(prometheus.CounterOpts{
			Name: promName(name, "_total"),
			Help: "Total occurrences of " + name,
		})
		p.counters[name] = c
	}
	return c
}

func (p *PrometheusMetrics) gauge(name string) prometheus.Gauge {
	p.mu.Lock()
	defer p.mu.Unlock()
	g, ok := p.gauges[name]
	if !ok {
		g = promauto.With(p.registry).NewGauge(prometheus.GaugeOpts{
			Name: promName(name, ""),
			Help: "Current value of " + name,
		})
		p.gauges[name] = g
	}
	return g
}

func (p *PrometheusMetrics) histogram(name, suffix string, buckets []float64) prometheus.Histogram {
	p.mu.Lock()
	defer p.mu.Unlock()
	h, ok := p.histograms[name]
	if !ok {
		h = promauto.With(p.registry).NewHistogram(prometheus.HistogramOpts{
			Name:    promName(name, suffix),
			Help:    "Distribution of " + name,
			Buckets: buckets,
		})
		p.histograms[name] = h
	}
	return h
}

func (p *PrometheusMetrics) Increment(name string, tags ...string) {
	p.counter(name).Inc()
}

func (p *PrometheusMetrics) Gauge(name string, value float64, tags ...string) {
	p.gauge(name).Set(value)
}

func (p *PrometheusMetrics) Histogram(name string, value float64, tags ...string) {
	p.histogram(name, "", prometheus.ExponentialBuckets(1, 4, 8)).Observe(value)
}

func (p *PrometheusMetrics) Timing(name string, duration time.Duration, tags ...string) {
	p.histogram(name, "_seconds", prometheus.DefBuckets).Observe(duration.Seconds())
}
