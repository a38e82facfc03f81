// Package api provides the status HTTP API of threadsync.
package api

import (
	"github.com/threadsync/threadsync/internal/status"
	"github.com/threadsync/threadsync/internal/tracking"
)

// HealthResponse represents the health check response
type HealthResponse struct {
	Status string `json:"status" example:"healthy"`
}

// ReadinessResponse represents the readiness check response
type ReadinessResponse struct {
	Status string `json:"status" example:"ready"`
}

// VersionResponse represents the version information response
type VersionResponse struct {
	Version   string `json:"version" example:"v0.1.0"`
	Commit    string `json:"commit" example:"abc123def"`
	BuildDate string `json:"build_date" example:"2025-01-15T10:30:00Z"`
	GoVersion string `json:"go_version" example:"go1.21.5"`
	Platform  string `json:"platform" example:"linux/amd64"`
}

// StatusResponse lists the scheduled tasks of the mirrored repository
type StatusResponse struct {
	Repository string              `json:"repository" example:"acme/widgets"`
	Tasks      []status.TaskStatus `json:"tasks"`
}

// TrackedResponse lists the tracked issues of the mirrored repository
type TrackedResponse struct {
	Repository string                  `json:"repository" example:"acme/widgets"`
	Count      int                     `json:"count"`
	Issues     []tracking.TrackedIssue `json:"issues"`
}
