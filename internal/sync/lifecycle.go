package sync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/trace"

	"github.com/threadsync/threadsync/internal/issues"
	otelutil "github.com/threadsync/threadsync/internal/otel"
	"github.com/threadsync/threadsync/internal/threads"
	"github.com/threadsync/threadsync/internal/tracking"
)

// LifecycleHandler closes the issue behind a thread that was archived or closed
// from chat. Once untracked, an issue is never tracked again by this handler.
type LifecycleHandler struct {
	source issues.Source
	sink   threads.Sink
	store  tracking.Store
	locker *tracking.Locker
	repo   Repository
	opts   *options
}

// NewLifecycleHandler creates a LifecycleHandler for repo
func NewLifecycleHandler(
	source issues.Source, sink threads.Sink, store tracking.Store, locker *tracking.Locker,
	repo Repository, opts ...Option,
) *LifecycleHandler {
	return &LifecycleHandler{
		source: source,
		sink:   sink,
		store:  store,
		locker: locker,
		repo:   repo,
		opts:   newOptions(opts),
	}
}

// HandleArchived reacts to the archive signal of a thread. Threads that are not
// archived, or live outside the managed forum, are ignored.
func (h *LifecycleHandler) HandleArchived(ctx context.Context, threadID string) (bool, error) {
	managed, err := h.sink.IsManagedArchived(ctx, threadID)
	if err != nil {
		slog.Warn("Ignoring archive signal of unknown thread", "thread_id", threadID, "error", err)
		return false, nil
	}
	if !managed {
		return false, nil
	}
	return h.Close(ctx, threadID)
}

// Close closes the issue mapped to threadID and stops tracking it. It reports
// whether a mapping existed. Tracker and chat calls are best-effort; only the
// removal of the mapping must succeed.
func (h *LifecycleHandler) Close(ctx context.Context, threadID string) (bool, error) {
	ctx, span := otelutil.StartSpan(ctx, h.opts.tracer, "sync.CloseThread",
		trace.WithAttributes(otelutil.AttrThreadID.String(threadID)),
	)
	defer span.End()

	unlock := h.locker.Lock(h.repo.Owner, h.repo.Name)
	defer unlock()

	mapping, err := h.store.LookupByThread(ctx, threadID)
	if errors.Is(err, tracking.ErrNotFound) {
		slog.Debug("Thread is not tracked", "thread_id", threadID)
		return false, nil
	}
	if err != nil {
		otelutil.RecordError(span, err)
		return false, fmt.Errorf("failed to look up thread %s: %w", threadID, err)
	}

	key := mapping.Key()
	span.SetAttributes(otelutil.IssueAttributes(key.Owner, key.Repo, key.Number)...)

	if err := h.source.PostComment(ctx, key.Owner, key.Repo, key.Number, CloseComment(threadID)); err != nil {
		slog.Warn("Failed to comment on issue", "issue", key.String(), "error", err)
	}
	if err := h.source.CloseIssue(ctx, key.Owner, key.Repo, key.Number); err != nil {
		slog.Warn("Failed to close issue", "issue", key.String(), "error", err)
	}

	if err := h.store.UntrackByThread(ctx, threadID); err != nil {
		otelutil.RecordError(span, err)
		return false, fmt.Errorf("failed to untrack thread %s: %w", threadID, err)
	}
	h.opts.metrics.AddIssuesUntracked(ctx, key.RepoKey(), "archived", 1)

	if err := h.sink.SendMessage(ctx, threadID, ClosedConfirmation(key.Number)); err != nil {
		slog.Warn("Failed to confirm closure in thread", "thread_id", threadID, "error", err)
	}
	if err := h.sink.LockAndArchive(ctx, threadID); err != nil {
		slog.Warn("Failed to lock thread", "thread_id", threadID, "error", err)
	}

	slog.Info("Closed issue of archived thread", "issue", key.String(), "thread_id", threadID)
	return true, nil
}

// SweepArchived runs Close for every archived thread of the forum, catching up on
// archive signals missed while the process was not running. It returns the number
// of issues closed.
func (h *LifecycleHandler) SweepArchived(ctx context.Context) (int, error) {
	archived, err := h.sink.ArchivedThreads(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list archived threads: %w", err)
	}

	closed := 0
	var errs []error
	for _, thread := range archived {
		ok, err := h.Close(ctx, thread.ID)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if ok {
			closed++
		}
	}

	if closed > 0 {
		slog.Info("Closed issues of archived threads", "repo", h.repo.String(), "closed", closed)
	}
	return closed, errors.Join(errs...)
}
