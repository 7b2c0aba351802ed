package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"

	"todos/internal/config"
	"todos/internal/exitcode"
	"todos/internal/service"
	"todos/internal/tasklist"
	"todos/internal/tui"
)

func init() {
	Register(&ShellCmd{})
}

// ShellCmd implements the interactive shell command.
type ShellCmd struct {
	in io.Reader
}

// SetInput implements InputCommand.
func (c *ShellCmd) SetInput(in io.Reader) {
	c.in = in
}

func (c *ShellCmd) Name() string       { return "shell" }
func (c *ShellCmd) Aliases() []string  { return []string{"ui"} }
func (c *ShellCmd) Synopsis() string   { return "Open the interactive task list" }
func (c *ShellCmd) Usage() string      { return "todos shell" }
func (c *ShellCmd) NeedsService() bool { return true }

func (c *ShellCmd) RegisterFlags(fs *pflag.FlagSet) {}

func (c *ShellCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	in := c.in
	if in == nil {
		in = os.Stdin
	}

	if err := tui.Run(ctx, tasklist.New(svc), in, out); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.BackendError
	}
	return exitcode.Success
}
