package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsConfig configures the Prometheus collectors.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "rmx").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for flush duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures Metrics.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "rmx",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics holds the reconciler and hydration collectors. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	flushes       prometheus.Counter
	flushDuration prometheus.Histogram
	renders       prometheus.Counter
	dedupSkips    prometheus.Counter
	errors        *prometheus.CounterVec
	tasks         prometheus.Counter
	mutations     *prometheus.CounterVec
	regions       *prometheus.CounterVec
	moduleLoads   *prometheus.CounterVec
	mismatches    prometheus.Counter
	frameReloads  *prometheus.CounterVec
}

// NewMetrics creates and registers the collectors.
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	counter := func(name, help string) prometheus.Counter {
		return factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        name,
			Help:        help,
			ConstLabels: config.ConstLabels,
		})
	}
	counterVec := func(name, help string, labels ...string) *prometheus.CounterVec {
		return factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        name,
			Help:        help,
			ConstLabels: config.ConstLabels,
		}, labels)
	}

	return &Metrics{
		flushes: counter("flushes_total", "Total number of scheduler flushes"),
		flushDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "flush_duration_seconds",
			Help:        "Scheduler flush duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),
		renders:      counter("component_renders_total", "Total number of component render invocations"),
		dedupSkips:   counter("dedup_skips_total", "Scheduled re-renders skipped because an ancestor was scheduled"),
		errors:       counterVec("errors_total", "Errors routed to a boundary or the root error channel", "kind", "handled"),
		tasks:        counter("tasks_total", "Total number of tasks run after commit"),
		mutations:    counterVec("dom_mutations_total", "DOM mutations applied by flushes", "type"),
		regions:      counterVec("hydration_regions_total", "Hydration regions by outcome", "status"),
		moduleLoads:  counterVec("module_loads_total", "Component module loads by outcome", "status"),
		mismatches:   counter("hydration_mismatches_total", "Server/client hydration mismatches"),
		frameReloads: counterVec("frame_reloads_total", "Frame reloads by outcome", "status"),
	}
}

// ObserveFlush records one flush.
func (m *Metrics) ObserveFlush(d time.Duration) {
	if m == nil {
		return
	}
	m.flushes.Inc()
	m.flushDuration.Observe(d.Seconds())
}

// RecordRender records a component render invocation.
func (m *Metrics) RecordRender() {
	if m == nil {
		return
	}
	m.renders.Inc()
}

// RecordDedupSkip records a re-render skipped by ancestor dedup.
func (m *Metrics) RecordDedupSkip() {
	if m == nil {
		return
	}
	m.dedupSkips.Inc()
}

// RecordError records an error. kind is "render", "task" or "invariant";
// handled is true when an error boundary caught it.
func (m *Metrics) RecordError(kind string, handled bool) {
	if m == nil {
		return
	}
	h := "false"
	if handled {
		h = "true"
	}
	m.errors.WithLabelValues(kind, h).Inc()
}

// RecordTask records a task run.
func (m *Metrics) RecordTask() {
	if m == nil {
		return
	}
	m.tasks.Inc()
}

// RecordMutations adds n mutations of the given type ("insert", "move",
// "remove", "attr", "prop", "text").
func (m *Metrics) RecordMutations(typ string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.mutations.WithLabelValues(typ).Add(float64(n))
}

// RecordRegion records a hydration region outcome ("mounted", "failed",
// "stale").
func (m *Metrics) RecordRegion(status string) {
	if m == nil {
		return
	}
	m.regions.WithLabelValues(status).Inc()
}

// RecordModuleLoad records a module load outcome ("loaded", "cached",
// "shared", "failed").
func (m *Metrics) RecordModuleLoad(status string) {
	if m == nil {
		return
	}
	m.moduleLoads.WithLabelValues(status).Inc()
}

// RecordMismatch records a hydration mismatch.
func (m *Metrics) RecordMismatch() {
	if m == nil {
		return
	}
	m.mismatches.Inc()
}

// RecordFrameReload records a frame reload outcome ("ok", "failed",
// "cancelled").
func (m *Metrics) RecordFrameReload(status string) {
	if m == nil {
		return
	}
	m.frameReloads.WithLabelValues(status).Inc()
}
