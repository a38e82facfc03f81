package coordinator

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"k8s.io/utils/clock"

	"github.com/threadsync/threadsync/internal/status"
	"github.com/threadsync/threadsync/internal/telemetry"
)

// Task is a named operation run periodically
type Task struct {
	Name     string
	Interval time.Duration
	Run      func(ctx context.Context) error
}

// Coordinator manages background scheduling and execution of the sync tasks
type Coordinator interface {
	// Start runs every task until the context is cancelled or Stop is called.
	// It blocks until all task loops have returned.
	Start(ctx context.Context) error

	// Stop gracefully stops the coordinator and waits for running tasks
	Stop() error
}

// defaultCoordinator is the default implementation of Coordinator
type defaultCoordinator struct {
	tasks  []Task
	clock  clock.Clock
	jitter time.Duration

	// Lifecycle management
	mu         sync.Mutex
	cancelFunc context.CancelFunc
	done       chan struct{}

	statuses    *status.Registry
	syncMetrics *telemetry.SyncMetrics
}

// Option is a function that configures the coordinator
type Option func(*defaultCoordinator)

// WithClock sets the clock used for scheduling
func WithClock(c clock.Clock) Option {
	return func(d *defaultCoordinator) {
		d.clock = c
	}
}

// WithJitter applies a random offset in [-jitter, +jitter] to every interval
func WithJitter(jitter time.Duration) Option {
	return func(d *defaultCoordinator) {
		d.jitter = jitter
	}
}

// WithStatusRegistry records the state of every run in statuses
func WithStatusRegistry(statuses *status.Registry) Option {
	return func(d *defaultCoordinator) {
		d.statuses = statuses
	}
}

// WithSyncMetrics sets the sync metrics for the coordinator
func WithSyncMetrics(metrics *telemetry.SyncMetrics) Option {
	return func(d *defaultCoordinator) {
		d.syncMetrics = metrics
	}
}

// New creates a new coordinator for tasks
func New(tasks []Task, opts ...Option) Coordinator {
	c := &defaultCoordinator{
		tasks: tasks,
		clock: clock.RealClock{},
		done:  make(chan struct{}),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.statuses == nil {
		c.statuses = status.NewRegistry()
	}
	for _, task := range tasks {
		c.statuses.Register(task.Name, task.Interval)
	}

	return c
}

// nextInterval returns interval with a random jitter applied. The result never
// drops below half of interval.
func (c *defaultCoordinator) nextInterval(interval time.Duration) time.Duration {
	if c.jitter <= 0 {
		return interval
	}
	//nolint:gosec // G404: Non-cryptographic randomness is sufficient for scheduling jitter
	offset := time.Duration(rand.Int64N(int64(2*c.jitter))) - c.jitter
	return max(interval+offset, interval/2)
}

// Start begins background coordination of all tasks
func (c *defaultCoordinator) Start(ctx context.Context) error {
	slog.Info("Starting background sync coordinator", "task_count", len(c.tasks))

	coordCtx, cancel := context.WithCancel(ctx)
	c.mu.Lock()
	c.cancelFunc = cancel
	c.mu.Unlock()
	defer func() {
		cancel()
		close(c.done)
		slog.Info("Background sync coordinator shut down")
	}()

	g, gctx := errgroup.WithContext(coordCtx)
	for _, task := range c.tasks {
		g.Go(func() error {
			c.loop(gctx, task)
			return nil
		})
	}
	return g.Wait()
}

// Stop gracefully stops the coordinator
func (c *defaultCoordinator) Stop() error {
	c.mu.Lock()
	cancel := c.cancelFunc
	c.mu.Unlock()

	if cancel != nil {
		slog.Info("Stopping sync coordinator")
		cancel()
		<-c.done
	}
	return nil
}

func (c *defaultCoordinator) loop(ctx context.Context, task Task) {
	c.runTask(ctx, task)

	timer := c.clock.NewTimer(c.nextInterval(task.Interval))
	defer timer.Stop()

	for {
		select {
		case <-timer.C():
			c.runTask(ctx, task)
			timer.Reset(c.nextInterval(task.Interval))
		case <-ctx.Done():
			slog.Debug("Task loop stopping", "task", task.Name)
			return
		}
	}
}

// runTask executes one run of task and records its outcome
func (c *defaultCoordinator) runTask(ctx context.Context, task Task) {
	if ctx.Err() != nil {
		return
	}

	start := c.clock.Now()
	c.statuses.Begin(ctx, task.Name, start)
	slog.Debug("Running task", "task", task.Name)

	err := task.Run(ctx)
	duration := c.clock.Since(start)

	c.statuses.Finish(ctx, task.Name, start, duration, err)
	c.syncMetrics.RecordTaskDuration(ctx, task.Name, duration, err == nil)

	if err != nil {
		slog.Error("Task failed", "task", task.Name, "duration", duration, "error", err)
		return
	}
	slog.Debug("Task completed", "task", task.Name, "duration", duration)
}
