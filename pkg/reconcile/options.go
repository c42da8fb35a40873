package reconcile

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/rmx/internal/telemetry"
)

// Option configures a Root.
type Option func(*Root)

// WithLogger sets the logger. It overrides the Env logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Root) { r.logger = l }
}

// WithMetrics sets the metrics recorder. It overrides the Env metrics.
func WithMetrics(m *telemetry.Metrics) Option {
	return func(r *Root) { r.metrics = m }
}

// WithTracer sets the tracer used for flush spans.
func WithTracer(t trace.Tracer) Option {
	return func(r *Root) { r.tracer = t }
}

// WithEnv shares env with other roots.
func WithEnv(env *Env) Option {
	return func(r *Root) { r.env = env }
}

// WithHydration makes the first Render adopt the DOM already present in the
// root's container or range instead of creating it.
func WithHydration() Option {
	return func(r *Root) { r.hydrate = true }
}

// WithContext sets the parent context of every component, connect callback
// and frame in the root.
func WithContext(ctx context.Context) Option {
	return func(r *Root) { r.parentCtx = ctx }
}
