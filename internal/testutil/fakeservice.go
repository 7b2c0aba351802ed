// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"todos/internal/service"
)

// Call records one invocation of a FakeService method.
type Call struct {
	Method string // "ListTasks", "CreateTask", "UpdateTask" or "DeleteTask"
	ID     string
	Input  service.TaskInput
}

// FakeService is an in-memory implementation of service.Service for testing.
type FakeService struct {
	mu    sync.RWMutex
	tasks []service.Task
	calls []Call

	// OmitCreatedID makes CreateTask return a Task without an ID, like a
	// store whose create response carries no identifier.
	OmitCreatedID bool

	// Error injection for testing
	ListTasksErr  error
	CreateTaskErr error
	UpdateTaskErr error
	DeleteTaskErr error
}

// NewFakeService creates an empty FakeService.
func NewFakeService() *FakeService {
	return &FakeService{}
}

// AddTask seeds a task and returns it.
func (f *FakeService) AddTask(id, title string, completed bool) service.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := service.Task{ID: id, Title: title, Completed: completed}
	f.tasks = append(f.tasks, t)
	return t
}

// Stored returns a copy of the tasks the fake currently holds.
func (f *FakeService) Stored() []service.Task {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]service.Task, len(f.tasks))
	copy(out, f.tasks)
	return out
}

// Calls returns every recorded call in invocation order.
func (f *FakeService) Calls() []Call {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]Call, len(f.calls))
	copy(out, f.calls)
	return out
}

// ResetCalls forgets recorded calls.
func (f *FakeService) ResetCalls() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = nil
}

func (f *FakeService) record(c Call) {
	f.calls = append(f.calls, c)
}

// ListTasks implements service.Service.
func (f *FakeService) ListTasks(ctx context.Context) ([]service.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(Call{Method: "ListTasks"})
	if f.ListTasksErr != nil {
		return nil, f.ListTasksErr
	}
	out := make([]service.Task, len(f.tasks))
	copy(out, f.tasks)
	return out, nil
}

// CreateTask implements service.Service.
func (f *FakeService) CreateTask(ctx context.Context, in service.TaskInput) (service.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(Call{Method: "CreateTask", Input: in})
	if f.CreateTaskErr != nil {
		return service.Task{}, f.CreateTaskErr
	}

	t := service.Task{ID: uuid.NewString(), Title: in.Title, Completed: in.Completed}
	f.tasks = append(f.tasks, t)
	if f.OmitCreatedID {
		t.ID = ""
	}
	return t, nil
}

// UpdateTask implements service.Service.
func (f *FakeService) UpdateTask(ctx context.Context, id string, in service.TaskInput) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(Call{Method: "UpdateTask", ID: id, Input: in})
	if f.UpdateTaskErr != nil {
		return f.UpdateTaskErr
	}

	for i, t := range f.tasks {
		if t.ID == id {
			f.tasks[i].Title = in.Title
			f.tasks[i].Completed = in.Completed
			return nil
		}
	}
	return service.ErrNotFound
}

// DeleteTask implements service.Service.
func (f *FakeService) DeleteTask(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(Call{Method: "DeleteTask", ID: id})
	if f.DeleteTaskErr != nil {
		return f.DeleteTaskErr
	}

	for i, t := range f.tasks {
		if t.ID == id {
			f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
			return nil
		}
	}
	return service.ErrNotFound
}
