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

// Result counts the outcome of one reconciliation
type Result struct {
	// Listed is the number of entries returned by the tracker, pull requests included
	Listed       int `json:"listed"`
	PullRequests int `json:"pullRequests"`
	Skipped      int `json:"skipped"`
	Created      int `json:"created"`
	Failed       int `json:"failed"`
}

// Reconciler creates a thread for every open issue that is not tracked yet
type Reconciler struct {
	source issues.Source
	sink   threads.Sink
	store  tracking.Store
	locker *tracking.Locker
	repo   Repository
	opts   *options
}

// NewReconciler creates a Reconciler for repo
func NewReconciler(
	source issues.Source, sink threads.Sink, store tracking.Store, locker *tracking.Locker,
	repo Repository, opts ...Option,
) *Reconciler {
	return &Reconciler{
		source: source,
		sink:   sink,
		store:  store,
		locker: locker,
		repo:   repo,
		opts:   newOptions(opts),
	}
}

// Reconcile drains the open issues page by page and mirrors the untracked ones.
// A page that cannot be listed aborts the run; a failure on one issue does not.
func (r *Reconciler) Reconcile(ctx context.Context) (Result, error) {
	ctx, span := otelutil.StartSpan(ctx, r.opts.tracer, "sync.Reconcile",
		trace.WithAttributes(otelutil.AttrOwner.String(r.repo.Owner), otelutil.AttrRepo.String(r.repo.Name)),
	)
	defer span.End()

	var (
		result Result
		tags   []threads.Tag
		loaded bool
	)
	availableTags := func() []threads.Tag {
		if !loaded {
			loaded = true
			var err error
			if tags, err = r.sink.AvailableTags(ctx); err != nil {
				slog.Warn("Failed to load forum tags, creating threads without tags", "error", err)
			}
		}
		return tags
	}

	perPage := r.opts.pageSize
	page := 1
	for ; page <= MaxPages; page++ {
		list, err := r.source.ListOpenIssues(ctx, r.repo.Owner, r.repo.Name, page, perPage)
		if err != nil {
			err = fmt.Errorf("failed to list open issues of %s (page %d): %w", r.repo, page, err)
			otelutil.RecordError(span, err)
			return result, err
		}

		for _, issue := range list {
			if err := ctx.Err(); err != nil {
				return result, err
			}

			result.Listed++
			if issue.PullRequest {
				result.PullRequests++
				continue
			}

			created, err := r.reconcileIssue(ctx, issue, availableTags)
			switch {
			case err != nil:
				result.Failed++
				slog.Error("Failed to mirror issue", "repo", r.repo.String(), "issue", issue.Number, "error", err)
			case created:
				result.Created++
			default:
				result.Skipped++
			}
		}

		if len(list) < perPage {
			break
		}
	}
	if page > MaxPages {
		slog.Warn("Stopped listing issues at the page limit", "repo", r.repo.String(), "pages", MaxPages)
	}

	r.opts.metrics.AddThreadsCreated(ctx, r.repo.String(), "reconcile", result.Created)
	span.SetAttributes(otelutil.AttrResultCount.Int(result.Created))

	slog.Info("Reconciliation completed",
		"repo", r.repo.String(),
		"listed", result.Listed,
		"pull_requests", result.PullRequests,
		"skipped", result.Skipped,
		"created", result.Created,
		"failed", result.Failed)

	return result, nil
}

// reconcileIssue creates and tracks the thread of issue unless it is already tracked.
// It reports whether a thread was created.
func (r *Reconciler) reconcileIssue(ctx context.Context, issue issues.Issue, availableTags func() []threads.Tag) (bool, error) {
	unlock := r.locker.Lock(r.repo.Owner, r.repo.Name)
	defer unlock()

	key := tracking.IssueKey{Owner: r.repo.Owner, Repo: r.repo.Name, Number: issue.Number}

	_, err := r.store.LookupThread(ctx, key)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, tracking.ErrNotFound) {
		return false, fmt.Errorf("failed to look up mapping: %w", err)
	}

	ctx, span := otelutil.StartSpan(ctx, r.opts.tracer, "sync.MirrorIssue",
		trace.WithAttributes(otelutil.IssueAttributes(key.Owner, key.Repo, key.Number)...),
	)
	defer span.End()

	thread, err := r.sink.CreateThread(ctx, ThreadSpecFor(issue, availableTags(), r.opts.truncate))
	if err != nil {
		otelutil.RecordError(span, err)
		return false, fmt.Errorf("failed to create thread: %w", err)
	}
	span.SetAttributes(otelutil.AttrThreadID.String(thread.ID))

	err = r.store.Track(ctx, tracking.TrackedIssue{
		Owner:       key.Owner,
		Repo:        key.Repo,
		IssueNumber: key.Number,
		ThreadID:    thread.ID,
	})
	if err != nil {
		// the thread exists but nothing maps to it; this is not repaired automatically
		otelutil.RecordError(span, err)
		return false, fmt.Errorf("thread %s created but not tracked: %w", thread.ID, err)
	}

	slog.Info("Mirrored issue", "repo", r.repo.String(), "issue", issue.Number, "thread_id", thread.ID)
	return true, nil
}
