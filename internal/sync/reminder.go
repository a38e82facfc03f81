package sync

import (
	"context"
	"log/slog"

	"github.com/threadsync/threadsync/internal/issues"
	otelutil "github.com/threadsync/threadsync/internal/otel"
	"github.com/threadsync/threadsync/internal/threads"
	"github.com/threadsync/threadsync/internal/tracking"
)

// Reminder posts a reminder to the thread of every tracked open issue
type Reminder struct {
	source issues.Source
	sink   threads.Sink
	store  tracking.Store
	repo   Repository
	opts   *options
}

// NewReminder creates a Reminder for repo
func NewReminder(source issues.Source, sink threads.Sink, store tracking.Store, repo Repository, opts ...Option) *Reminder {
	return &Reminder{
		source: source,
		sink:   sink,
		store:  store,
		repo:   repo,
		opts:   newOptions(opts),
	}
}

// Sweep sends one reminder per tracked issue. It stops at the first issue that
// cannot be fetched or messaged and returns false; the remaining issues wait for
// the next sweep. Issues already closed on the tracker are skipped.
func (r *Reminder) Sweep(ctx context.Context) bool {
	ctx, span := otelutil.StartSpan(ctx, r.opts.tracer, "sync.Remind")
	defer span.End()

	tracked, err := r.store.ListTracked(ctx, r.repo.Owner, r.repo.Name)
	if err != nil {
		otelutil.RecordError(span, err)
		slog.Error("Failed to list tracked issues", "repo", r.repo.String(), "error", err)
		return false
	}
	r.opts.metrics.RecordTrackedIssues(ctx, r.repo.String(), len(tracked))

	sent := 0
	defer func() {
		r.opts.metrics.AddRemindersSent(ctx, r.repo.String(), sent)
	}()

	for _, mapping := range tracked {
		issue, err := r.source.GetIssue(ctx, mapping.Owner, mapping.Repo, mapping.IssueNumber)
		if err != nil || issue == nil {
			otelutil.RecordError(span, err)
			slog.Error("Stopping reminders, failed to fetch issue",
				"issue", mapping.Key().String(), "sent", sent, "error", err)
			return false
		}
		if issue.IsClosed() {
			slog.Debug("Skipping reminder of closed issue", "issue", mapping.Key().String())
			continue
		}

		msg := ReminderMessage(r.repo, mapping.IssueNumber, issue.HTMLURL)
		if err := r.sink.SendMessage(ctx, mapping.ThreadID, msg); err != nil {
			otelutil.RecordError(span, err)
			slog.Error("Stopping reminders, failed to send message",
				"issue", mapping.Key().String(), "thread_id", mapping.ThreadID, "sent", sent, "error", err)
			return false
		}
		sent++
	}

	slog.Info("Reminders sent", "repo", r.repo.String(), "sent", sent)
	return true
}
