package tracking

import (
	"context"
	"sync"
	"time"
)

type memoryStore struct {
	mu       sync.RWMutex
	byIssue  map[IssueKey]TrackedIssue
	byThread map[string]IssueKey
	now      func() time.Time
}

// NewMemoryStore creates a Store that keeps mappings in process memory.
// Mappings are lost when the process exits.
func NewMemoryStore() Store {
	return &memoryStore{
		byIssue:  make(map[IssueKey]TrackedIssue),
		byThread: make(map[string]IssueKey),
		now:      time.Now,
	}
}

func (m *memoryStore) Track(_ context.Context, issue TrackedIssue) error {
	if err := issue.validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	key := issue.Key()
	if _, ok := m.byIssue[key]; ok {
		return ErrDuplicateMapping
	}
	if _, ok := m.byThread[issue.ThreadID]; ok {
		return ErrDuplicateThread
	}

	if issue.TrackedAt.IsZero() {
		issue.TrackedAt = m.now().UTC()
	}
	m.byIssue[key] = issue
	m.byThread[issue.ThreadID] = key
	return nil
}

func (m *memoryStore) LookupThread(_ context.Context, key IssueKey) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	issue, ok := m.byIssue[key]
	if !ok {
		return "", ErrNotFound
	}
	return issue.ThreadID, nil
}

func (m *memoryStore) LookupByThread(_ context.Context, threadID string) (*TrackedIssue, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	key, ok := m.byThread[threadID]
	if !ok {
		return nil, ErrNotFound
	}
	issue := m.byIssue[key]
	return &issue, nil
}

func (m *memoryStore) ListTracked(_ context.Context, owner, repo string) ([]TrackedIssue, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []TrackedIssue
	for key, issue := range m.byIssue {
		if key.Owner == owner && key.Repo == repo {
			out = append(out, issue)
		}
	}
	return out, nil
}

func (m *memoryStore) UntrackByIssue(_ context.Context, key IssueKey) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if issue, ok := m.byIssue[key]; ok {
		delete(m.byThread, issue.ThreadID)
		delete(m.byIssue, key)
	}
	return nil
}

func (m *memoryStore) UntrackByThread(_ context.Context, threadID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if key, ok := m.byThread[threadID]; ok {
		delete(m.byIssue, key)
		delete(m.byThread, threadID)
	}
	return nil
}

func (*memoryStore) Ping(context.Context) error { return nil }

func (*memoryStore) Close() error { return nil }
