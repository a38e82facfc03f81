package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// SyncMetricsMeterName is the name used for the sync metrics meter
const SyncMetricsMeterName = "github.com/threadsync/threadsync/sync"

// SyncMetrics holds the instruments recorded by the scheduled tasks and the create flow
type SyncMetrics struct {
	taskDuration   metric.Float64Histogram
	threadsCreated metric.Int64Counter
	issuesClosed   metric.Int64Counter
	remindersSent  metric.Int64Counter
	trackedIssues  metric.Int64Gauge
}

// NewSyncMetrics creates a new SyncMetrics instance with the given meter provider.
// If provider is nil, it returns nil (no-op metrics).
func NewSyncMetrics(provider metric.MeterProvider) (*SyncMetrics, error) {
	if provider == nil {
		return nil, nil
	}

	meter := provider.Meter(SyncMetricsMeterName)

	taskDuration, err := meter.Float64Histogram(
		"threadsync_task_duration_seconds",
		metric.WithDescription("Duration of scheduled task runs in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300),
	)
	if err != nil {
		return nil, err
	}

	threadsCreated, err := meter.Int64Counter(
		"threadsync_threads_created_total",
		metric.WithDescription("Number of forum threads created for issues"),
		metric.WithUnit("{thread}"),
	)
	if err != nil {
		return nil, err
	}

	issuesClosed, err := meter.Int64Counter(
		"threadsync_issues_untracked_total",
		metric.WithDescription("Number of issues that stopped being tracked"),
		metric.WithUnit("{issue}"),
	)
	if err != nil {
		return nil, err
	}

	remindersSent, err := meter.Int64Counter(
		"threadsync_reminders_sent_total",
		metric.WithDescription("Number of reminder messages sent"),
		metric.WithUnit("{message}"),
	)
	if err != nil {
		return nil, err
	}

	trackedIssues, err := meter.Int64Gauge(
		"threadsync_tracked_issues",
		metric.WithDescription("Number of issues currently tracked per repository"),
		metric.WithUnit("{issue}"),
	)
	if err != nil {
		return nil, err
	}

	return &SyncMetrics{
		taskDuration:   taskDuration,
		threadsCreated: threadsCreated,
		issuesClosed:   issuesClosed,
		remindersSent:  remindersSent,
		trackedIssues:  trackedIssues,
	}, nil
}

// RecordTaskDuration records the duration of one run of a scheduled task
func (m *SyncMetrics) RecordTaskDuration(ctx context.Context, task string, duration time.Duration, success bool) {
	if m == nil || m.taskDuration == nil {
		return
	}

	m.taskDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("task", task),
		attribute.Bool("success", success),
	))
}

// AddThreadsCreated counts threads created for a repository by the given source
// ("reconcile" or "create")
func (m *SyncMetrics) AddThreadsCreated(ctx context.Context, repo, source string, n int) {
	if m == nil || m.threadsCreated == nil || n == 0 {
		return
	}

	m.threadsCreated.Add(ctx, int64(n), metric.WithAttributes(
		attribute.String("repo", repo),
		attribute.String("source", source),
	))
}

// AddIssuesUntracked counts mappings removed for the given reason ("archived" or "closed")
func (m *SyncMetrics) AddIssuesUntracked(ctx context.Context, repo, reason string, n int) {
	if m == nil || m.issuesClosed == nil || n == 0 {
		return
	}

	m.issuesClosed.Add(ctx, int64(n), metric.WithAttributes(
		attribute.String("repo", repo),
		attribute.String("reason", reason),
	))
}

// AddRemindersSent counts reminder messages
func (m *SyncMetrics) AddRemindersSent(ctx context.Context, repo string, n int) {
	if m == nil || m.remindersSent == nil || n == 0 {
		return
	}

	m.remindersSent.Add(ctx, int64(n), metric.WithAttributes(attribute.String("repo", repo)))
}

// RecordTrackedIssues records the current number of tracked issues of a repository
func (m *SyncMetrics) RecordTrackedIssues(ctx context.Context, repo string, count int) {
	if m == nil || m.trackedIssues == nil {
		return
	}

	m.trackedIssues.Record(ctx, int64(count), metric.WithAttributes(attribute.String("repo", repo)))
}
