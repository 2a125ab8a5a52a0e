package telemetry

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	abserrors "github.com/vango-dev/abs/internal/errors"
	"github.com/vango-dev/abs/pkg/component"
)

// MetricsConfig configures the Prometheus observer.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "abs").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for pass duration.
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
		Namespace: "abs",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics is a component.Observer that records Prometheus metrics.
type Metrics struct {
	initialized  *prometheus.CounterVec
	destroyed    *prometheus.CounterVec
	failures     *prometheus.CounterVec
	live         prometheus.Gauge
	passes       *prometheus.CounterVec
	passDuration *prometheus.HistogramVec
}

var _ component.Observer = (*Metrics)(nil)

// NewMetrics registers the metrics and returns the observer.
// Registering twice against the same registry panics, as with promauto.
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Metrics{
		initialized: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "instances_initialized_total",
			Help:        "Total number of component instances constructed",
			ConstLabels: config.ConstLabels,
		}, []string{"tag"}),

		destroyed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "instances_destroyed_total",
			Help:        "Total number of component instances destroyed",
			ConstLabels: config.ConstLabels,
		}, []string{"tag"}),

		failures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "init_failures_total",
			Help:        "Total number of nodes that failed to initialize",
			ConstLabels: config.ConstLabels,
		}, []string{"code"}),

		live: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "live_instances",
			Help:        "Number of component instances currently live",
			ConstLabels: config.ConstLabels,
		}),

		passes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "passes_total",
			Help:        "Total number of discovery passes",
			ConstLabels: config.ConstLabels,
		}, []string{"kind", "status"}),

		passDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "pass_duration_seconds",
			Help:        "Discovery pass duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"kind"}),
	}
}

// ComponentInitialized implements component.Observer.
func (m *Metrics) ComponentInitialized(tag string) {
	m.initialized.WithLabelValues(tag).Inc()
	m.live.Inc()
}

// ComponentDestroyed implements component.Observer.
func (m *Metrics) ComponentDestroyed(tag string) {
	m.destroyed.WithLabelValues(tag).Inc()
	m.live.Dec()
}

// Released drops n components from the live gauge without counting them
// as destroyed. Call it when a manager is discarded with components still
// bound, as the inspection service does after each request.
func (m *Metrics) Released(n int) {
	if n > 0 {
		m.live.Sub(float64(n))
	}
}

// InitFailed implements component.Observer.
func (m *Metrics) InitFailed(err error) {
	m.failures.WithLabelValues(errorCode(err)).Inc()
}

// PassCompleted implements component.Observer.
func (m *Metrics) PassCompleted(r component.Report, elapsed time.Duration) {
	status := "ok"
	switch {
	case r.Aborted:
		status = "aborted"
	case !r.OK():
		status = "partial"
	}
	m.passes.WithLabelValues(string(r.Kind), status).Inc()
	m.passDuration.WithLabelValues(string(r.Kind)).Observe(elapsed.Seconds())
}

// errorCode extracts the coded error identifier, or "other".
func errorCode(err error) string {
	var ae *abserrors.AbsError
	if errors.As(err, &ae) && ae.Code != "" {
		return ae.Code
	}
	return "other"
}
