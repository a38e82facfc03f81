package status

import "time"

// TaskPhase represents the current phase of a scheduled task
type TaskPhase string

const (
	// TaskPhaseIdle means the task has not run since the process started
	TaskPhaseIdle TaskPhase = "Idle"

	// TaskPhaseRunning means the task is currently running
	TaskPhaseRunning TaskPhase = "Running"

	// TaskPhaseComplete means the last run succeeded
	TaskPhaseComplete TaskPhase = "Complete"

	// TaskPhaseFailed means the last run failed
	TaskPhaseFailed TaskPhase = "Failed"
)

// TaskStatus represents the state of one scheduled task
type TaskStatus struct {
	// Name of the task, e.g. "reconcile"
	Name string `json:"name"`

	// Phase represents the current phase
	Phase TaskPhase `json:"phase"`

	// Message provides additional information about the last run
	Message string `json:"message,omitempty"`

	// Interval is the configured interval between runs (e.g. "5m0s")
	Interval string `json:"interval,omitempty"`

	// LastAttempt is the timestamp of the last run
	LastAttempt *time.Time `json:"lastAttempt,omitempty"`

	// AttemptCount is the number of runs since the last success
	AttemptCount int `json:"attemptCount,omitempty"`

	// LastSuccess is the timestamp of the last successful run
	LastSuccess *time.Time `json:"lastSuccess,omitempty"`

	// LastDuration is how long the last run took
	LastDuration string `json:"lastDuration,omitempty"`
}
