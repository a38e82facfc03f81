package threads

import "context"

// Sink creates and manages threads in the managed forum.
//
//go:generate mockgen -destination=mocks/mock_sink.go -package=mocks github.com/threadsync/threadsync/internal/threads Sink
type Sink interface {
	// AvailableTags returns the tags defined on the forum.
	AvailableTags(ctx context.Context) ([]Tag, error)

	// CreateThread starts a new thread in the forum.
	CreateThread(ctx context.Context, spec ThreadSpec) (*Thread, error)

	// SendMessage posts a message to a thread.
	SendMessage(ctx context.Context, threadID, content string) error

	// ArchivedThreads lists the archived threads of the forum.
	ArchivedThreads(ctx context.Context) ([]Thread, error)

	// IsManagedArchived reports whether the thread is archived and belongs to the forum.
	IsManagedArchived(ctx context.Context, threadID string) (bool, error)

	// LockAndArchive locks a thread and archives it.
	LockAndArchive(ctx context.Context, threadID string) error
}
