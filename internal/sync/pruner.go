package sync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/threadsync/threadsync/internal/issues"
	"github.com/threadsync/threadsync/internal/threads"
	"github.com/threadsync/threadsync/internal/tracking"
)

// PruneResult counts the outcome of one prune
type PruneResult struct {
	Checked   int `json:"checked"`
	Untracked int `json:"untracked"`
	Failed    int `json:"failed"`
}

// Pruner stops tracking issues that were closed on the tracker
type Pruner struct {
	source issues.Source
	sink   threads.Sink
	store  tracking.Store
	locker *tracking.Locker
	repo   Repository
	opts   *options
}

// NewPruner creates a Pruner for repo
func NewPruner(
	source issues.Source, sink threads.Sink, store tracking.Store, locker *tracking.Locker,
	repo Repository, opts ...Option,
) *Pruner {
	return &Pruner{
		source: source,
		sink:   sink,
		store:  store,
		locker: locker,
		repo:   repo,
		opts:   newOptions(opts),
	}
}

// Prune checks every tracked issue and untracks the closed ones, then notifies
// and archives their threads. Issues deleted on the tracker are untracked too.
// An issue the tracker cannot find counts as a failed check, since the same
// answer comes back when access to the repository is lost. Failures on one
// issue do not stop the others.
func (p *Pruner) Prune(ctx context.Context) (PruneResult, error) {
	var result PruneResult

	tracked, err := p.store.ListTracked(ctx, p.repo.Owner, p.repo.Name)
	if err != nil {
		return result, fmt.Errorf("failed to list tracked issues: %w", err)
	}

	for _, mapping := range tracked {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		result.Checked++

		untracked, err := p.pruneOne(ctx, mapping)
		if err != nil {
			result.Failed++
			slog.Error("Failed to check tracked issue", "issue", mapping.Key().String(), "error", err)
			continue
		}
		if untracked {
			result.Untracked++
		}
	}

	p.opts.metrics.AddIssuesUntracked(ctx, p.repo.String(), "closed", result.Untracked)
	if result.Untracked > 0 {
		slog.Info("Untracked closed issues", "repo", p.repo.String(), "untracked", result.Untracked)
	}
	return result, nil
}

func (p *Pruner) pruneOne(ctx context.Context, mapping tracking.TrackedIssue) (bool, error) {
	key := mapping.Key()

	issue, err := p.source.GetIssue(ctx, key.Owner, key.Repo, key.Number)
	var url string
	switch {
	case errors.Is(err, issues.ErrGone):
	case err != nil:
		return false, err
	case issue == nil:
		return false, fmt.Errorf("tracker returned no issue for %s", key)
	case !issue.IsClosed():
		return false, nil
	default:
		url = issue.HTMLURL
	}

	unlock := p.locker.Lock(key.Owner, key.Repo)
	err = p.store.UntrackByIssue(ctx, key)
	unlock()
	if err != nil {
		return false, err
	}

	// untracked before archiving, so the archive signal finds no mapping
	if err := p.sink.SendMessage(ctx, mapping.ThreadID, ClosedOnTrackerNotice(key.Number, url)); err != nil {
		slog.Warn("Failed to notify thread", "thread_id", mapping.ThreadID, "error", err)
	}
	if err := p.sink.LockAndArchive(ctx, mapping.ThreadID); err != nil {
		slog.Warn("Failed to lock thread", "thread_id", mapping.ThreadID, "error", err)
	}

	slog.Info("Untracked closed issue", "issue", key.String(), "thread_id", mapping.ThreadID)
	return true, nil
}
