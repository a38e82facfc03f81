// Package threads defines the chat-side destination of mirrored issues: forum
// threads, their tags and the policies used to fit issue content into them.
package threads

import "errors"

// ErrNotFound is returned when a thread does not exist or is not visible
var ErrNotFound = errors.New("thread not found")

const (
	// DefaultMessageLimit is the maximum number of characters of a Discord message
	DefaultMessageLimit = 2000

	// NameLimit is the maximum number of characters of a thread name
	NameLimit = 100
)

// Tag is a tag available on the forum
type Tag struct {
	ID   string
	Name string
}

// Thread is a forum thread
type Thread struct {
	ID       string
	Name     string
	ParentID string
	Archived bool
}

// ThreadSpec describes a thread to create
type ThreadSpec struct {
	Name    string
	Content string
	Tags    []Tag
}
