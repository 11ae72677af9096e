package docstore

import (
	"sync"
	"time"
)

// Metrics provides observability for store operations.
type Metrics interface {
	// Increment increases a counter by 1
	Increment(name string, tags ...string)

	// Gauge sets an absolute value
	Gauge(name string, value float64, tags ...string)

	// Histogram records a value distribution (result counts, sizes)
	Histogram(name string, value float64, tags ...string)

	// Timing records a duration
	Timing(name string, duration time.Duration, tags ...string)
}

// NoOpMetrics is a metrics collector that does nothing.
type NoOpMetrics struct{}

func (m *NoOpMetrics) Increment(name string, tags ...string)                      {}
func (m *NoOpMetrics) Gauge(name string, value float64, tags ...string)           {}
func (m *NoOpMetrics) Histogram(name string, value float64, tags ...string)       {}
func (m *NoOpMetrics) Timing(name string, duration time.Duration, tags ...string) {}

// InMemoryMetrics stores metrics in memory for testing.
type InMemoryMetrics struct {
	mu         sync.Mutex
	Counters   map[string]int
	Gauges     map[string]float64
	Histograms map[string][]float64
	Timings    map[string][]time.Duration
}

func NewInMemoryMetrics() *InMemoryMetrics {
	return &InMemoryMetrics{
		Counters:   make(map[string]int),
		Gauges:     make(map[string]float64),
		Histograms: make(map[string][]float64),
		Timings:    make(map[string][]time.Duration),
	}
}

func (m *InMemoryMetrics) Increment(name string, tags ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Counters[name]++
}

func (m *InMemoryMetrics) Gauge(name string, value float64, tags ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Gauges[name] = value
}

func (m *InMemoryMetrics) Histogram(name string, value float64, tags ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Histograms[name] = append(m.Histograms[name], value)
}

func (m *InMemoryMetrics) Timing(name string, duration time.Duration, tags ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Timings[name] = append(m.Timings[name], duration)
}

// Count returns the current value of a counter.
func (m *InMemoryMetrics) Count(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Counters[name]
}

// Common metric names
const (
	MetricUpsertDuration = "docstore.upsert.duration"
	MetricUpsertError    = "docstore.upsert.error"
	MetricFindDuration   = "docstore.find.duration"
	MetricFindError      = "docstore.find.error"
	MetricCountDuration  = "docstore.count.duration"
	MetricCountError     = "docstore.count.error"
	MetricUpdateDuration = "docstore.update.duration"
	MetricUpdateError    = "docstore.update.error"
	MetricDeleteDuration = "docstore.delete.duration"
	MetricDeleteError    = "docstore.delete.error"

	MetricDistinctDuration = "docstore.distinct.duration"
	MetricDistinctError    = "docstore.distinct.error"

	// Query planning outcomes: simple plans run entirely in SQL, complex
	// plans fall back to superset-fetch plus in-memory filtering.
	MetricPlanSimple  = "docstore.plan.simple"
	MetricPlanComplex = "docstore.plan.complex"

	MetricQueryResults   = "docstore.query.results"
	MetricCorruptSkipped = "docstore.corrupt.skipped"
)
