// Package coordinator schedules the periodic sync tasks.
//
// Each Task runs in its own goroutine: once on start, then every Interval with a
// random offset of up to the configured jitter. A run that fails is logged and
// recorded in the status registry; the task keeps its schedule and tries again on
// the next tick. The coordinator never runs two instances of the same task at once,
// but different tasks run concurrently, so the sync operations rely on
// tracking.Locker for their compound store sequences.
//
// Time is read from a k8s.io/utils/clock.Clock so tests can step a fake clock
// instead of sleeping.
//
//	coord := coordinator.New(coordinator.StandardTasks(reconciler, reminder, pruner, lifecycle, cfg.Sync),
//	    coordinator.WithStatusRegistry(statuses),
//	    coordinator.WithSyncMetrics(metrics),
//	)
//	go coord.Start(ctx)
//	defer coord.Stop()
package coordinator
