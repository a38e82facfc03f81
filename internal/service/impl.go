package service

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/threadsync/threadsync/internal/status"
	pkgsync "github.com/threadsync/threadsync/internal/sync"
	"github.com/threadsync/threadsync/internal/tracking"
)

type defaultService struct {
	store    tracking.Store
	statuses *status.Registry
	repo     pkgsync.Repository
}

// New creates a Service over the mapping store and the task status registry
func New(store tracking.Store, statuses *status.Registry, repo pkgsync.Repository) Service {
	if statuses == nil {
		statuses = status.NewRegistry()
	}
	return &defaultService{
		store:    store,
		statuses: statuses,
		repo:     repo,
	}
}

func (s *defaultService) CheckReadiness(ctx context.Context) error {
	if s.store == nil {
		return fmt.Errorf("mapping store not initialized")
	}
	if err := s.store.Ping(ctx); err != nil {
		return fmt.Errorf("mapping store unreachable: %w", err)
	}
	return nil
}

func (s *defaultService) Repository() string {
	return s.repo.String()
}

func (s *defaultService) TaskStatuses(_ context.Context) []status.TaskStatus {
	return s.statuses.All()
}

func (s *defaultService) ListTracked(ctx context.Context) ([]tracking.TrackedIssue, error) {
	list, err := s.store.ListTracked(ctx, s.repo.Owner, s.repo.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to list tracked issues: %w", err)
	}
	slices.SortFunc(list, func(a, b tracking.TrackedIssue) int {
		return a.IssueNumber - b.IssueNumber
	})
	return list, nil
}

func (s *defaultService) GetTracked(ctx context.Context, number int) (*tracking.TrackedIssue, error) {
	key := tracking.IssueKey{Owner: s.repo.Owner, Repo: s.repo.Name, Number: number}
	if err := key.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotTracked, err)
	}

	threadID, err := s.store.LookupThread(ctx, key)
	if errors.Is(err, tracking.ErrNotFound) {
		return nil, ErrNotTracked
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up issue %d: %w", number, err)
	}

	mapping, err := s.store.LookupByThread(ctx, threadID)
	if errors.Is(err, tracking.ErrNotFound) {
		// untracked between the two lookups
		return nil, ErrNotTracked
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up thread %s: %w", threadID, err)
	}
	return mapping, nil
}
