package sync

import (
	"go.opentelemetry.io/otel/trace"

	"github.com/threadsync/threadsync/internal/telemetry"
	"github.com/threadsync/threadsync/internal/threads"
)

// Repository identifies the mirrored repository
type Repository struct {
	Owner string
	Name  string
}

// String returns owner/name
func (r Repository) String() string {
	return r.Owner + "/" + r.Name
}

const (
	// DefaultPageSize is the number of issues requested per page
	DefaultPageSize = 30

	// MaxPages bounds a single reconciliation drain
	MaxPages = 1000
)

// Option configures the sync operations
type Option func(*options)

type options struct {
	pageSize int
	truncate threads.TruncatePolicy
	metrics  *telemetry.SyncMetrics
	tracer   trace.Tracer
}

func newOptions(opts []Option) *options {
	o := &options{
		pageSize: DefaultPageSize,
		truncate: threads.TruncatePolicy{Limit: threads.DefaultMessageLimit},
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithPageSize sets the number of issues requested per page
func WithPageSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.pageSize = n
		}
	}
}

// WithMessageLimit sets the maximum length of a thread message
func WithMessageLimit(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.truncate = threads.TruncatePolicy{Limit: n}
		}
	}
}

// WithMetrics records counters on m
func WithMetrics(m *telemetry.SyncMetrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// WithTracer starts spans on tracer
func WithTracer(tracer trace.Tracer) Option {
	return func(o *options) {
		o.tracer = tracer
	}
}
