package tracking

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNotFound is returned when no mapping exists for a lookup
	ErrNotFound = errors.New("mapping not found")

	// ErrDuplicateMapping is returned by Track when the issue is already tracked
	ErrDuplicateMapping = errors.New("issue is already tracked")

	// ErrDuplicateThread is returned by Track when the thread already maps to an issue
	ErrDuplicateThread = errors.New("thread is already mapped to an issue")
)

// IssueKey identifies an issue on the tracker
type IssueKey struct {
	Owner  string
	Repo   string
	Number int
}

// String renders the key the way GitHub does (owner/repo#number)
func (k IssueKey) String() string {
	return fmt.Sprintf("%s/%s#%d", k.Owner, k.Repo, k.Number)
}

// RepoKey returns the owner/repo part of the key
func (k IssueKey) RepoKey() string {
	return k.Owner + "/" + k.Repo
}

// Validate checks that the key can be stored
func (k IssueKey) Validate() error {
	if k.Owner == "" || k.Repo == "" {
		return fmt.Errorf("owner and repo are required")
	}
	if k.Number <= 0 {
		return fmt.Errorf("issue number must be positive, got %d", k.Number)
	}
	return nil
}

// TrackedIssue is one mapping record
type TrackedIssue struct {
	Owner       string    `json:"owner"`
	Repo        string    `json:"repo"`
	IssueNumber int       `json:"issue_number"`
	ThreadID    string    `json:"thread_id"`
	TrackedAt   time.Time `json:"tracked_at"`
}

// Key returns the issue key of the record
func (t TrackedIssue) Key() IssueKey {
	return IssueKey{Owner: t.Owner, Repo: t.Repo, Number: t.IssueNumber}
}

func (t TrackedIssue) validate() error {
	if err := t.Key().Validate(); err != nil {
		return err
	}
	if t.ThreadID == "" {
		return fmt.Errorf("thread id is required")
	}
	return nil
}
