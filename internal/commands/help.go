package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/pflag"

	"todos/internal/config"
	"todos/internal/exitcode"
	"todos/internal/service"
)

func init() {
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string       { return "help" }
func (c *HelpCmd) Aliases() []string  { return nil }
func (c *HelpCmd) Synopsis() string   { return "Print usage" }
func (c *HelpCmd) Usage() string      { return "todos help" }
func (c *HelpCmd) NeedsService() bool { return false }

func (c *HelpCmd) RegisterFlags(fs *pflag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	fmt.Fprint(out, helpText)
	return exitcode.Success
}

const helpText = `Usage:
  todos                                      List all tasks
  todos list [common flags] [--format <f>]   List all tasks as text, json or yaml
  todos add [common flags] <title...>
  todos edit [common flags] [--id <id>] <n> <title...>
  todos toggle [common flags] [--id <id>] <n>
  todos rm [common flags] [--id <id>] <n>
  todos shell [common flags]                 Interactive form and list
  todos config [common flags] [--init [--force]]
  todos help
  todos version

<n> is the row number printed by list.

Common flags:
  --config <dir>       Override config directory
  --base-url <url>     Todos service base URL
  --timeout <dur>      Per-request timeout, 0 to disable
  --quiet              Suppress informational output
  --debug              Print debug logs to stderr
`
