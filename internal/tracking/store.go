package tracking

import "context"

// Store persists issue <-> thread mappings.
//
//go:generate mockgen -destination=mocks/mock_store.go -package=mocks github.com/threadsync/threadsync/internal/tracking Store
type Store interface {
	// Track inserts a new mapping. It returns ErrDuplicateMapping when the issue is
	// already tracked and ErrDuplicateThread when the thread is already mapped.
	Track(ctx context.Context, issue TrackedIssue) error

	// LookupThread returns the thread mapped to the issue, or ErrNotFound.
	LookupThread(ctx context.Context, key IssueKey) (string, error)

	// LookupByThread returns the mapping of a thread, or ErrNotFound.
	LookupByThread(ctx context.Context, threadID string) (*TrackedIssue, error)

	// ListTracked returns every mapping of a repository in no particular order.
	ListTracked(ctx context.Context, owner, repo string) ([]TrackedIssue, error)

	// UntrackByIssue deletes the mapping of an issue. Deleting a missing mapping is not an error.
	UntrackByIssue(ctx context.Context, key IssueKey) error

	// UntrackByThread deletes the mapping of a thread. Deleting a missing mapping is not an error.
	UntrackByThread(ctx context.Context, threadID string) error

	// Ping checks that the backend is reachable.
	Ping(ctx context.Context) error

	// Close releases the backend's resources.
	Close() error
}
