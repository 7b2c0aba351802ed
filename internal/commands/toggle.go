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
	Register(&ToggleCmd{})
}

// ToggleCmd implements the toggle command.
type ToggleCmd struct {
	id string
}

func (c *ToggleCmd) Name() string       { return "toggle" }
func (c *ToggleCmd) Aliases() []string  { return []string{"done"} }
func (c *ToggleCmd) Synopsis() string   { return "Mark a task completed, or open again" }
func (c *ToggleCmd) Usage() string      { return "todos toggle [--id <id>] <n>" }
func (c *ToggleCmd) NeedsService() bool { return true }

func (c *ToggleCmd) RegisterFlags(fs *pflag.FlagSet) {
	fs.StringVar(&c.id, "id", "", "target the task with this server id instead of a row number")
}

func (c *ToggleCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	ctl, task, _, code := loadTarget(ctx, svc, c.id, args, errOut)
	if code != exitcode.Success {
		return code
	}

	if err := ctl.ToggleComplete(ctx, task.ID); err != nil {
		return reportError(errOut, err)
	}

	printOK(cfg.Quiet, out)
	return exitcode.Success
}
