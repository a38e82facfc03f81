// Package service provides the read-only view of threadsync served by the status API
package service

import (
	"context"
	"errors"

	"github.com/threadsync/threadsync/internal/status"
	"github.com/threadsync/threadsync/internal/tracking"
)

var (
	// ErrNotTracked is returned when an issue has no thread
	ErrNotTracked = errors.New("issue is not tracked")
)

//go:generate mockgen -destination=mocks/mock_service.go -package=mocks github.com/threadsync/threadsync/internal/service Service

// Service defines the operations behind the status API
type Service interface {
	// CheckReadiness checks that the mapping store is reachable
	CheckReadiness(ctx context.Context) error

	// Repository returns the mirrored repository as owner/name
	Repository() string

	// TaskStatuses returns the state of the scheduled tasks
	TaskStatuses(ctx context.Context) []status.TaskStatus

	// ListTracked returns the mappings of the mirrored repository ordered by issue number
	ListTracked(ctx context.Context) ([]tracking.TrackedIssue, error)

	// GetTracked returns the mapping of one issue, or ErrNotTracked
	GetTracked(ctx context.Context, number int) (*tracking.TrackedIssue, error)
}
