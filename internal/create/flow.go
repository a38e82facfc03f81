package create

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"k8s.io/utils/clock"
)

// DefaultSelectionTimeout is how long a submission waits for its issue type
const DefaultSelectionTimeout = 10 * time.Second

var (
	// ErrSelectionTimeout is returned by Await when no issue type was picked in time
	ErrSelectionTimeout = errors.New("issue type selection timed out")

	// ErrUnknownFlow is returned when selecting for a flow that expired or never existed
	ErrUnknownFlow = errors.New("unknown or expired create flow")

	// ErrUnknownIssueType is returned for a selection outside IssueTypes
	ErrUnknownIssueType = errors.New("unknown issue type")
)

// IssueType is the kind of issue picked by the user
type IssueType string

const (
	// IssueTypeBug is a bug report
	IssueTypeBug IssueType = "Bug"

	// IssueTypeEnhancement is a feature request
	IssueTypeEnhancement IssueType = "Enhancement"
)

// IssueTypes lists the choices offered to the user, in display order
var IssueTypes = []IssueType{IssueTypeBug, IssueTypeEnhancement}

// Label returns the tracker label of the issue type
func (t IssueType) Label() string {
	return strings.ToLower(string(t))
}

// Description is shown next to the choice
func (t IssueType) Description() string {
	switch t {
	case IssueTypeBug:
		return "A bug report!"
	case IssueTypeEnhancement:
		return "A request for a new feature!"
	default:
		return ""
	}
}

// ParseIssueType returns the IssueType named s
func ParseIssueType(s string) (IssueType, error) {
	for _, t := range IssueTypes {
		if strings.EqualFold(string(t), s) {
			return t, nil
		}
	}
	return "", ErrUnknownIssueType
}

// Draft is an issue submitted by a user, before its type is chosen
type Draft struct {
	Title string
	Body  string

	// User is the chat user name credited in the issue body
	User string
}

type pending struct {
	draft    Draft
	selected chan IssueType
}

// Flow tracks the submissions waiting for an issue type. It is safe for concurrent use.
type Flow struct {
	mu      sync.Mutex
	pending map[string]*pending
	clock   clock.Clock
	timeout time.Duration
}

// FlowOption configures a Flow
type FlowOption func(*Flow)

// WithClock sets the clock used for the selection timeout
func WithClock(c clock.Clock) FlowOption {
	return func(f *Flow) {
		f.clock = c
	}
}

// WithSelectionTimeout sets how long Await waits for a selection
func WithSelectionTimeout(d time.Duration) FlowOption {
	return func(f *Flow) {
		if d > 0 {
			f.timeout = d
		}
	}
}

// NewFlow creates an empty Flow
func NewFlow(opts ...FlowOption) *Flow {
	f := &Flow{
		pending: make(map[string]*pending),
		clock:   clock.RealClock{},
		timeout: DefaultSelectionTimeout,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Begin registers draft and returns the id the selection must refer to
func (f *Flow) Begin(draft Draft) string {
	id := uuid.NewString()

	f.mu.Lock()
	defer f.mu.Unlock()
	f.pending[id] = &pending{draft: draft, selected: make(chan IssueType, 1)}
	return id
}

// Await blocks until the issue type of flow id is selected, the timeout expires or
// ctx is done. The flow is forgotten when Await returns.
func (f *Flow) Await(ctx context.Context, id string) (Draft, IssueType, error) {
	f.mu.Lock()
	p, ok := f.pending[id]
	f.mu.Unlock()
	if !ok {
		return Draft{}, "", ErrUnknownFlow
	}
	defer f.forget(id)

	timer := f.clock.NewTimer(f.timeout)
	defer timer.Stop()

	select {
	case t := <-p.selected:
		return p.draft, t, nil
	case <-timer.C():
		if t, ok := f.expire(id, p); ok {
			return p.draft, t, nil
		}
		return p.draft, "", ErrSelectionTimeout
	case <-ctx.Done():
		if t, ok := f.expire(id, p); ok {
			return p.draft, t, nil
		}
		return p.draft, "", ctx.Err()
	}
}

// expire forgets flow id and returns a selection that was accepted before the
// flow was removed, so an acknowledged selection is never reported as expired.
func (f *Flow) expire(id string, p *pending) (IssueType, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.pending, id)

	select {
	case t := <-p.selected:
		return t, true
	default:
		return "", false
	}
}

// Select delivers the issue type of flow id. Only the first selection counts.
func (f *Flow) Select(id string, t IssueType) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	p, ok := f.pending[id]
	if !ok {
		return ErrUnknownFlow
	}
	select {
	case p.selected <- t:
	default:
	}
	return nil
}

// Pending returns the number of submissions waiting for a selection
func (f *Flow) Pending() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.pending)
}

func (f *Flow) forget(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.pending, id)
}
