package commands

import (
	"context"
	"errors"
	"fmt"
	"io"

	"todos/internal/exitcode"
	"todos/internal/service"
	"todos/internal/tasklist"
)

// loadTarget loads the list and resolves the task a command acts on: the
// task with the given ID when id is set, otherwise the row number at the
// head of args. It returns the remaining args. On failure it has already
// reported the error and returns a non-success exit code.
func loadTarget(ctx context.Context, svc service.Service, id string, args []string, errOut io.Writer) (*tasklist.Controller, service.Task, []string, int) {
	ctl := tasklist.New(svc)
	if err := ctl.Load(ctx); err != nil {
		return nil, service.Task{}, nil, reportError(errOut, err)
	}

	if id != "" {
		task, ok := ctl.Lookup(id)
		if !ok {
			fmt.Fprintf(errOut, "error: task not found: %s\n", id)
			return nil, service.Task{}, nil, exitcode.UserError
		}
		return ctl, task, args, exitcode.Success
	}

	num, rest, err := ParseTaskRef(args)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return nil, service.Task{}, nil, exitcode.UserError
	}

	tasks := ctl.Tasks()
	if num < 1 || num > len(tasks) {
		fmt.Fprintf(errOut, "error: task number out of range: %d\n", num)
		return nil, service.Task{}, nil, exitcode.UserError
	}
	return ctl, tasks[num-1], rest, exitcode.Success
}

// reportError prints err and maps it to an exit code.
func reportError(errOut io.Writer, err error) int {
	switch {
	case errors.Is(err, tasklist.ErrTaskNotFound),
		errors.Is(err, tasklist.ErrMissingID),
		errors.Is(err, service.ErrNotFound):
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	default:
		fmt.Fprintf(errOut, "error: backend error: %v\n", err)
		return exitcode.BackendError
	}
}

func printOK(quiet bool, out io.Writer) {
	if !quiet {
		fmt.Fprintln(out, "ok")
	}
}
