package status

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"
)

// Registry holds the status of every scheduled task. It is safe for concurrent use.
type Registry struct {
	mu          sync.RWMutex
	tasks       map[string]*TaskStatus
	persistence Persistence
}

// RegistryOption configures a Registry
type RegistryOption func(*Registry)

// WithPersistence saves every status change through p
func WithPersistence(p Persistence) RegistryOption {
	return func(r *Registry) {
		r.persistence = p
	}
}

// NewRegistry creates an empty Registry
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{tasks: make(map[string]*TaskStatus)}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Load restores the statuses saved by a previous process. Tasks that were running
// when that process stopped are reported as failed.
func (r *Registry) Load(ctx context.Context) error {
	if r.persistence == nil {
		return nil
	}

	saved, err := r.persistence.LoadAllStatus(ctx)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for name, s := range saved {
		if s.Phase == TaskPhaseRunning {
			s.Phase = TaskPhaseFailed
			s.Message = "Interrupted by shutdown"
		}
		r.tasks[name] = s
	}
	return nil
}

// Register adds a task in the Idle phase, keeping any loaded history
func (r *Registry) Register(name string, interval time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.tasks[name]
	if !ok {
		s = &TaskStatus{Name: name, Phase: TaskPhaseIdle}
		r.tasks[name] = s
	}
	s.Interval = interval.String()
}

// Begin marks a task as running
func (r *Registry) Begin(ctx context.Context, name string, now time.Time) {
	r.update(ctx, name, func(s *TaskStatus) {
		s.Phase = TaskPhaseRunning
		s.Message = ""
		s.LastAttempt = &now
		s.AttemptCount++
	})
}

// Finish records the outcome of a run that started at start
func (r *Registry) Finish(ctx context.Context, name string, start time.Time, duration time.Duration, runErr error) {
	r.update(ctx, name, func(s *TaskStatus) {
		s.LastDuration = duration.String()
		if runErr != nil {
			s.Phase = TaskPhaseFailed
			s.Message = runErr.Error()
			return
		}
		s.Phase = TaskPhaseComplete
		s.Message = "Completed successfully"
		s.LastSuccess = &start
		s.AttemptCount = 0
	})
}

func (r *Registry) update(ctx context.Context, name string, fn func(*TaskStatus)) {
	r.mu.Lock()
	s, ok := r.tasks[name]
	if !ok {
		s = &TaskStatus{Name: name}
		r.tasks[name] = s
	}
	fn(s)
	snapshot := *s
	r.mu.Unlock()

	if r.persistence != nil {
		if err := r.persistence.SaveStatus(ctx, &snapshot); err != nil {
			slog.Warn("Failed to persist task status", "task", name, "error", err)
		}
	}
}

// Get returns a copy of the status of a task
func (r *Registry) Get(name string) (TaskStatus, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.tasks[name]
	if !ok {
		return TaskStatus{}, false
	}
	return *s, true
}

// All returns a copy of every task status ordered by name
func (r *Registry) All() []TaskStatus {
	r.mu.RLock()
	out := make([]TaskStatus, 0, len(r.tasks))
	for _, s := range r.tasks {
		out = append(out, *s)
	}
	r.mu.RUnlock()

	slices.SortFunc(out, func(a, b TaskStatus) int {
		return strings.Compare(a.Name, b.Name)
	})
	return out
}
