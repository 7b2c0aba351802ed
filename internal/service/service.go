// Package service defines the backend-agnostic interface for task operations.
package service

import (
	"context"
	"errors"
)

// Sentinel errors returned by Service implementations.
var (
	// ErrNotFound is returned when the remote store has no task with the given ID.
	ErrNotFound = errors.New("not found")

	// ErrTimeout is returned when a request does not complete in time.
	ErrTimeout = errors.New("request timed out")
)

// Service defines the interface for task backend operations.
// All calls to the remote todos store go through this interface.
// The controller and commands never speak HTTP directly.
type Service interface {
	// ListTasks returns every task in the order the store returns them.
	ListTasks(ctx context.Context) ([]Task, error)

	// CreateTask creates a task. The returned Task carries whatever the
	// store echoed back; its ID is empty if the store did not send one.
	CreateTask(ctx context.Context, in TaskInput) (Task, error)

	// UpdateTask replaces title and completed of the task with the given ID.
	UpdateTask(ctx context.Context, id string, in TaskInput) error

	// DeleteTask deletes a task.
	DeleteTask(ctx context.Context, id string) error
}
