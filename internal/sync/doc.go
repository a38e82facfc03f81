// Package sync mirrors tracker issues into forum threads.
//
// It holds the four operations the scheduler runs against one repository:
//
//   - Reconciler: creates a thread for every open issue that has none.
//   - LifecycleHandler: closes the issue of an archived thread and stops tracking it.
//   - Reminder: posts a reminder to the thread of every tracked issue.
//   - Pruner: stops tracking issues that were closed on the tracker.
//
// The compound store sequences (lookup then track, lookup then untrack) run while
// holding the repository's tracking.Locker, so the interactive create flow and the
// periodic tasks never observe each other's intermediate state.
//
// The reconciler continues past per-issue failures while the reminder stops at the
// first one.
//
// The sync/coordinator subpackage schedules these operations.
package sync
