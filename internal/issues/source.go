package issues

import "context"

// Source reads and writes issues on the remote tracker.
//
//go:generate mockgen -destination=mocks/mock_source.go -package=mocks github.com/threadsync/threadsync/internal/issues Source
type Source interface {
	// ListOpenIssues returns one page of open issues, most recently created first.
	// Pull requests are included and flagged. An empty page ends the listing.
	ListOpenIssues(ctx context.Context, owner, repo string, page, perPage int) ([]Issue, error)

	// GetIssue returns one issue, ErrNotFound or ErrGone.
	GetIssue(ctx context.Context, owner, repo string, number int) (*Issue, error)

	// CreateIssue opens a new issue.
	CreateIssue(ctx context.Context, owner, repo string, issue NewIssue) (*Issue, error)

	// CloseIssue sets the state of an issue to closed.
	CloseIssue(ctx context.Context, owner, repo string, number int) error

	// PostComment adds a comment to an issue.
	PostComment(ctx context.Context, owner, repo string, number int, body string) error
}
