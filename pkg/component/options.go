package component

import (
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// DefaultAttributeSelector is the attribute consulted when none is configured.
const DefaultAttributeSelector = "data-abs-component"

// tracerName is the instrumentation scope of manager spans.
const tracerName = "github.com/vango-dev/abs/pkg/component"

// Option configures a Manager.
type Option func(*options)

type options struct {
	selector        string
	logger          *slog.Logger
	tracer          trace.Tracer
	observers       observers
	liveness        LivenessMode
	continueOnError bool
}

func defaultOptions() options {
	return options{
		selector: DefaultAttributeSelector,
		liveness: LivenessByTag,
	}
}

// WithAttributeSelector overrides the attribute naming a node's component tag.
// An empty selector keeps the default.
func WithAttributeSelector(selector string) Option {
	return func(o *options) {
		if selector != "" {
			o.selector = selector
		}
	}
}

// WithLogger sets the logger used for diagnostics.
// If nil, slog.Default() is used.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithTracer sets the tracer used for lifecycle spans.
// Default: the global OpenTelemetry tracer provider.
func WithTracer(tracer trace.Tracer) Option {
	return func(o *options) {
		o.tracer = tracer
	}
}

// WithObserver adds a lifecycle observer. May be given more than once.
func WithObserver(ob Observer) Option {
	return func(o *options) {
		if ob != nil {
			o.observers = append(o.observers, ob)
		}
	}
}

// WithLiveness sets how PurgeComponentsList decides liveness.
func WithLiveness(mode LivenessMode) Option {
	return func(o *options) {
		o.liveness = mode
	}
}

// WithContinueOnError makes a discovery pass skip failing nodes instead of
// stopping at the first one.
func WithContinueOnError(enabled bool) Option {
	return func(o *options) {
		o.continueOnError = enabled
	}
}

func (o *options) resolve() {
	if o.logger == nil {
		o.logger = slog.Default()
	}
	if o.tracer == nil {
		o.tracer = otel.Tracer(tracerName)
	}
}
