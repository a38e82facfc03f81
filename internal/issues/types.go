// Package issues provides the client for the remote issue tracker.
package issues

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when the issue is not visible to the token. The
	// tracker answers this way for missing issues and for revoked access alike.
	ErrNotFound = errors.New("issue not found")

	// ErrGone is returned when the issue was deleted on the tracker
	ErrGone = errors.New("issue deleted")
)

const (
	// StateOpen is the state of an open issue
	StateOpen = "open"

	// StateClosed is the state of a closed issue
	StateClosed = "closed"
)

// Issue is a tracker issue as seen by threadsync
type Issue struct {
	Number   int
	Title    string
	Body     string
	Labels   []string
	Reporter string
	HTMLURL  string
	State    string

	// PullRequest is set for pull requests, which the tracker lists alongside issues
	PullRequest bool
}

// IsClosed reports whether the issue is closed
func (i *Issue) IsClosed() bool {
	return i.State == StateClosed
}

// NewIssue is the payload of CreateIssue
type NewIssue struct {
	Title  string
	Body   string
	Labels []string
}

// APIError is a non-2xx response from the tracker
type APIError struct {
	Op         string
	StatusCode int
	Message    string
}

// Error returns the error message
func (e *APIError) Error() string {
	return fmt.Sprintf("%s: HTTP %d: %s", e.Op, e.StatusCode, e.Message)
}
