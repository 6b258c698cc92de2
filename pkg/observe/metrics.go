package observe

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vango-dev/retree/pkg/tree"
)

// MetricsConfig configures the Prometheus observer.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "retree").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for cycle duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus observer.
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
		Namespace: "retree",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics is a tree.Observer exporting Prometheus metrics:
//
//   - retree_events_total: tree events by op and node kind
//   - retree_live_nodes: constructed nodes by kind
//   - retree_cycle_duration_seconds: reconcile cycle duration by cycle
//   - retree_cycle_errors_total: failed cycles by cycle and error code
//
// Metrics registers its collectors on creation, so create one per registry.
type Metrics struct {
	eventsTotal   *prometheus.CounterVec
	liveNodes     *prometheus.GaugeVec
	cycleDuration *prometheus.HistogramVec
	cycleErrors   *prometheus.CounterVec
}

// NewMetrics creates and registers the collectors.
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Metrics{
		eventsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "events_total",
			Help:        "Total number of tree events by operation and node kind",
			ConstLabels: config.ConstLabels,
		}, []string{"op", "kind"}),

		liveNodes: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "live_nodes",
			Help:        "Number of constructed nodes by kind",
			ConstLabels: config.ConstLabels,
		}, []string{"kind"}),

		cycleDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "cycle_duration_seconds",
			Help:        "Reconcile cycle duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"cycle"}),

		cycleErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "cycle_errors_total",
			Help:        "Total number of failed reconcile cycles",
			ConstLabels: config.ConstLabels,
		}, []string{"cycle", "code"}),
	}
}

// Observe implements tree.Observer.
func (m *Metrics) Observe(e tree.Event) {
	kind := e.Node.Kind().String()
	m.eventsTotal.WithLabelValues(e.Op.String(), kind).Inc()

	switch e.Op {
	case tree.OpConstruct:
		m.liveNodes.WithLabelValues(kind).Inc()
	case tree.OpDestruct:
		m.liveNodes.WithLabelValues(kind).Dec()
	}
}

// ObserveCycle records a finished cycle (mount, update, recycle, unmount).
func (m *Metrics) ObserveCycle(cycle string, d time.Duration, err error) {
	m.cycleDuration.WithLabelValues(cycle).Observe(d.Seconds())
	if err != nil {
		m.cycleErrors.WithLabelValues(cycle, Code(err)).Inc()
	}
}
