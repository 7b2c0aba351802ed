package commands

import (
	"context"
	"io"

	"github.com/spf13/pflag"

	"todos/internal/config"
	"todos/internal/exitcode"
	"todos/internal/service"
)

func init() {
	Register(&RmCmd{})
}

// RmCmd implements the rm command.
type RmCmd struct {
	id string
}

func (c *RmCmd) Name() string       { return "rm" }
func (c *RmCmd) Aliases() []string  { return []string{"delete"} }
func (c *RmCmd) Synopsis() string   { return "Delete a task" }
func (c *RmCmd) Usage() string      { return "todos rm [--id <id>] <n>" }
func (c *RmCmd) NeedsService() bool { return true }

func (c *RmCmd) RegisterFlags(fs *pflag.FlagSet) {
	fs.StringVar(&c.id, "id", "", "target the task with this server id instead of a row number")
}

func (c *RmCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	ctl, task, _, code := loadTarget(ctx, svc, c.id, args, errOut)
	if code != exitcode.Success {
		return code
	}

	if err := ctl.DeleteTask(ctx, task.ID); err != nil {
		return reportError(errOut, err)
	}

	printOK(cfg.Quiet, out)
	return exitcode.Success
}
