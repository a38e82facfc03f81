// Package status tracks the state of the scheduled tasks and optionally persists it.
package status

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const (
	// StatusFileName is the name of the status file
	StatusFileName = "status.json"
)

// Persistence stores task statuses across restarts
type Persistence interface {
	// SaveStatus saves the status of one task
	SaveStatus(ctx context.Context, status *TaskStatus) error

	// LoadAllStatus loads the statuses of every task saved so far
	LoadAllStatus(ctx context.Context) (map[string]*TaskStatus, error)
}

// fileStatusPersistence implements Persistence using local filesystem
type fileStatusPersistence struct {
	basePath string
}

// NewFileStatusPersistence creates a new file-based status persistence.
// basePath is the directory where per-task status files will be stored.
func NewFileStatusPersistence(basePath string) Persistence {
	return &fileStatusPersistence{
		basePath: basePath,
	}
}

// SaveStatus saves the status to a JSON file in a task-specific directory
func (f *fileStatusPersistence) SaveStatus(_ context.Context, status *TaskStatus) error {
	if status == nil || status.Name == "" {
		return fmt.Errorf("status must have a task name")
	}

	taskDir := filepath.Join(f.basePath, status.Name)
	if err := os.MkdirAll(taskDir, 0750); err != nil {
		return fmt.Errorf("failed to create status directory for task '%s': %w", status.Name, err)
	}

	filePath := filepath.Join(taskDir, StatusFileName)

	data, err := json.MarshalIndent(status, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal status of task '%s': %w", status.Name, err)
	}

	// Write to temporary file first for atomic operation
	tempPath := filePath + ".tmp"
	if err := os.WriteFile(tempPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write temporary status file for task '%s': %w", status.Name, err)
	}

	if err := os.Rename(tempPath, filePath); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("failed to rename status file for task '%s': %w", status.Name, err)
	}

	return nil
}

// LoadAllStatus loads the status of every task directory under the base path.
// Unreadable files are skipped.
func (f *fileStatusPersistence) LoadAllStatus(_ context.Context) (map[string]*TaskStatus, error) {
	result := make(map[string]*TaskStatus)

	entries, err := os.ReadDir(f.basePath)
	if err != nil {
		if os.IsNotExist(err) {
			return result, nil
		}
		return nil, fmt.Errorf("failed to read status directory: %w", err)
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		// #nosec G304 -- path is built from the configured base path and a directory entry
		data, err := os.ReadFile(filepath.Join(f.basePath, entry.Name(), StatusFileName))
		if err != nil {
			continue
		}

		var status TaskStatus
		if err := json.Unmarshal(data, &status); err != nil {
			continue
		}
		status.Name = entry.Name()
		result[entry.Name()] = &status
	}

	return result, nil
}
