package coordinator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/threadsync/threadsync/internal/config"
	pkgsync "github.com/threadsync/threadsync/internal/sync"
)

// Task names, as shown by the status API and on metrics
const (
	TaskReconcile    = "reconcile"
	TaskReminder     = "reminder"
	TaskArchiveSweep = "archive-sweep"
)

// errRemindersIncomplete is returned when a reminder sweep stopped early
var errRemindersIncomplete = errors.New("reminder sweep stopped before every tracked issue was reminded")

// ReconcileTask mirrors new issues on every tick
func ReconcileTask(r *pkgsync.Reconciler, cfg config.SyncConfig) Task {
	return Task{
		Name:     TaskReconcile,
		Interval: cfg.ReconcileInterval,
		Run: func(ctx context.Context) error {
			result, err := r.Reconcile(ctx)
			if err != nil {
				return err
			}
			if result.Failed > 0 {
				return fmt.Errorf("%d issue(s) could not be mirrored", result.Failed)
			}
			return nil
		},
	}
}

// ReminderTask prunes closed issues when p is non-nil, then sends reminders
func ReminderTask(rem *pkgsync.Reminder, p *pkgsync.Pruner, cfg config.SyncConfig) Task {
	return Task{
		Name:     TaskReminder,
		Interval: cfg.ReminderInterval,
		Run: func(ctx context.Context) error {
			var pruneErr error
			if p != nil {
				result, err := p.Prune(ctx)
				switch {
				case err != nil:
					pruneErr = err
				case result.Failed > 0:
					pruneErr = fmt.Errorf("%d tracked issue(s) could not be checked", result.Failed)
				}
			}

			if !rem.Sweep(ctx) {
				return errors.Join(pruneErr, errRemindersIncomplete)
			}
			return pruneErr
		},
	}
}

// ArchiveSweepTask catches up on archive signals missed while disconnected
func ArchiveSweepTask(h *pkgsync.LifecycleHandler, cfg config.SyncConfig) Task {
	return Task{
		Name:     TaskArchiveSweep,
		Interval: cfg.ReconcileInterval,
		Run: func(ctx context.Context) error {
			closed, err := h.SweepArchived(ctx)
			if closed > 0 {
				slog.Info("Archive sweep closed issues", "closed", closed)
			}
			return err
		},
	}
}

// StandardTasks returns the tasks run by the serve command. The pruner is only
// scheduled when cfg.PruneClosed is set.
func StandardTasks(
	r *pkgsync.Reconciler,
	rem *pkgsync.Reminder,
	p *pkgsync.Pruner,
	h *pkgsync.LifecycleHandler,
	cfg config.SyncConfig,
) []Task {
	if !cfg.PruneClosed {
		p = nil
	}
	return []Task{
		ReconcileTask(r, cfg),
		ReminderTask(rem, p, cfg),
		ArchiveSweepTask(h, cfg),
	}
}
