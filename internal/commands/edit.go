package commands

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/pflag"

	"todos/internal/config"
	"todos/internal/exitcode"
	"todos/internal/service"
)

func init() {
	Register(&EditCmd{})
}

// EditCmd implements the edit command.
type EditCmd struct {
	id string
}

func (c *EditCmd) Name() string       { return "edit" }
func (c *EditCmd) Aliases() []string  { return nil }
func (c *EditCmd) Synopsis() string   { return "Rename a task" }
func (c *EditCmd) Usage() string      { return "todos edit [--id <id>] <n> <title...>" }
func (c *EditCmd) NeedsService() bool { return true }

func (c *EditCmd) RegisterFlags(fs *pflag.FlagSet) {
	fs.StringVar(&c.id, "id", "", "target the task with this server id instead of a row number")
}

func (c *EditCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	ctl, task, rest, code := loadTarget(ctx, svc, c.id, args, errOut)
	if code != exitcode.Success {
		return code
	}

	title := strings.Join(rest, " ")
	if strings.TrimSpace(title) == "" {
		fmt.Fprintln(errOut, "error: title required")
		return exitcode.UserError
	}

	ctl.BeginEdit(task.ID)
	ctl.SetDraft(title)
	if err := ctl.SubmitDraft(ctx); err != nil {
		return reportError(errOut, err)
	}

	printOK(cfg.Quiet, out)
	return exitcode.Success
}
