// Package tasklist keeps a local copy of the remote task list in step with
// the remote store.
//
// A Controller owns the task sequence and the form state (draft text and
// edit mode). Every mutating operation performs exactly one remote request
// and applies its local change only after that request succeeds. The
// controller's lock is never held across a request, so operations started
// from different goroutines resolve in arrival order.
package tasklist

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"todos/internal/logger"
	"todos/internal/service"
)

const (
	// LabelAdd is the submit label outside edit mode.
	LabelAdd = "Add Task"

	// LabelUpdate is the submit label in edit mode.
	LabelUpdate = "Update Task"
)

var (
	// ErrTaskNotFound is returned when an operation names an ID that is not
	// in the local list.
	ErrTaskNotFound = errors.New("task not found")

	// ErrMissingID is returned for operations against a record that never
	// received a server-assigned ID.
	ErrMissingID = errors.New("task has no id (reload to fetch it)")
)

// Controller mirrors the remote task list and holds the form state.
// The zero value is not usable; use New.
type Controller struct {
	svc service.Service

	mu        sync.Mutex
	tasks     []service.Task
	draft     string
	editing   bool
	editingID string
}

// New creates a Controller backed by svc with an empty list.
func New(svc service.Service) *Controller {
	return &Controller{svc: svc}
}

// Load fetches the full list and replaces the local one.
func (c *Controller) Load(ctx context.Context) error {
	tasks, err := c.svc.ListTasks(ctx)
	if err != nil {
		return fmt.Errorf("load tasks: %w", err)
	}

	c.mu.Lock()
	c.tasks = tasks
	c.mu.Unlock()

	logger.Debug("tasks loaded", zap.Int("count", len(tasks)))
	return nil
}

// Tasks returns a copy of the local list in display order.
func (c *Controller) Tasks() []service.Task {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]service.Task, len(c.tasks))
	copy(out, c.tasks)
	return out
}

// Lookup returns the local task with the given ID.
func (c *Controller) Lookup(id string) (service.Task, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := c.indexOf(id)
	if i < 0 {
		return service.Task{}, false
	}
	return c.tasks[i], true
}

// SetDraft replaces the draft text.
func (c *Controller) SetDraft(text string) {
	c.mu.Lock()
	c.draft = text
	c.mu.Unlock()
}

// Draft returns the draft text.
func (c *Controller) Draft() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft
}

// Editing reports whether the draft is a pending edit, and of which task.
func (c *Controller) Editing() (id string, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.editingID, c.editing
}

// SubmitLabel returns the label of the form's submit action.
func (c *Controller) SubmitLabel() string {
	if _, ok := c.Editing(); ok {
		return LabelUpdate
	}
	return LabelAdd
}

// BeginEdit loads the task's title into the draft and enters edit mode.
// It reports false and changes nothing if id is not in the local list.
func (c *Controller) BeginEdit(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexOf(id)
	if i < 0 {
		return false
	}
	c.draft = c.tasks[i].Title
	c.editing = true
	c.editingID = id
	return true
}

// CancelEdit leaves edit mode and clears the draft.
func (c *Controller) CancelEdit() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft = ""
	c.editing = false
	c.editingID = ""
}

// SubmitDraft creates a task from the draft, or in edit mode retitles the
// task being edited. A draft that is empty after trimming is a no-op.
// The draft is cleared only once the request has succeeded; on failure
// local state is left as it was.
func (c *Controller) SubmitDraft(ctx context.Context) error {
	c.mu.Lock()
	draft, editing, id := c.draft, c.editing, c.editingID
	c.mu.Unlock()

	if strings.TrimSpace(draft) == "" {
		return nil
	}
	if editing {
		return c.submitEdit(ctx, id, draft)
	}
	return c.submitCreate(ctx, draft)
}

func (c *Controller) submitCreate(ctx context.Context, title string) error {
	created, err := c.svc.CreateTask(ctx, service.TaskInput{Title: title})
	if err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	if created.ID == "" {
		logger.Warn("created task has no id", zap.String("title", title))
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.tasks = append(c.tasks, service.Task{ID: created.ID, Title: title})
	c.draft = ""
	return nil
}

func (c *Controller) submitEdit(ctx context.Context, id, title string) error {
	if id == "" {
		return ErrMissingID
	}
	current, ok := c.Lookup(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}

	in := service.TaskInput{Title: title, Completed: current.Completed}
	if err := c.svc.UpdateTask(ctx, id, in); err != nil {
		return fmt.Errorf("update task %s: %w", id, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if i := c.indexOf(id); i >= 0 {
		c.tasks[i].Title = title
	}
	c.editing = false
	c.editingID = ""
	c.draft = ""
	return nil
}

// ToggleComplete inverts the task's completed flag remotely, then locally.
func (c *Controller) ToggleComplete(ctx context.Context, id string) error {
	if id == "" {
		return ErrMissingID
	}
	current, ok := c.Lookup(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}

	in := service.TaskInput{Title: current.Title, Completed: !current.Completed}
	if err := c.svc.UpdateTask(ctx, id, in); err != nil {
		return fmt.Errorf("update task %s: %w", id, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if i := c.indexOf(id); i >= 0 {
		c.tasks[i].Completed = in.Completed
	}
	return nil
}

// DeleteTask deletes the task remotely, then drops it from the local list.
// The request is sent even if id is not in the local list.
func (c *Controller) DeleteTask(ctx context.Context, id string) error {
	if id == "" {
		return ErrMissingID
	}
	if err := c.svc.DeleteTask(ctx, id); err != nil {
		return fmt.Errorf("delete task %s: %w", id, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if i := c.indexOf(id); i >= 0 {
		c.tasks = append(c.tasks[:i], c.tasks[i+1:]...)
	}
	return nil
}

// indexOf returns the position of id in the local list, or -1.
// Callers hold c.mu.
func (c *Controller) indexOf(id string) int {
	for i, t := range c.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}
