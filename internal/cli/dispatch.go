// Package cli turns the command registry into a cobra command tree and runs it.
package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"todos/internal/commands"
	"todos/internal/config"
	"todos/internal/exitcode"
	"todos/internal/logger"
	"todos/internal/service"
)

// ServiceFactory creates a Service from config.
// Used to inject the backend during dispatch.
type ServiceFactory func(ctx context.Context, cfg *config.Config) (service.Service, error)

// Dispatcher handles command-line parsing and dispatch.
type Dispatcher struct {
	registry *commands.Registry
	factory  ServiceFactory
}

// NewDispatcher creates a new dispatcher with the given registry and service factory.
func NewDispatcher(registry *commands.Registry, factory ServiceFactory) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		factory:  factory,
	}
}

// globalFlags are shared by every command.
type globalFlags struct {
	configDir string
}

// Run parses arguments and dispatches to the appropriate command.
// Returns the exit code.
func (d *Dispatcher) Run(ctx context.Context, args []string, in io.Reader, out, errOut io.Writer) int {
	code := exitcode.Success
	root := d.buildRoot(in, out, errOut, &code)
	root.SetArgs(args)

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(errOut, "error: %s\n", flagError(err))
		return exitcode.UserError
	}
	return code
}

func (d *Dispatcher) buildRoot(in io.Reader, out, errOut io.Writer, code *int) *cobra.Command {
	var gf globalFlags

	root := &cobra.Command{
		Use:           "todos",
		Short:         "Manage a remote todo list",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
	}
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)
	root.CompletionOptions.DisableDefaultCmd = true

	pf := root.PersistentFlags()
	pf.StringVar(&gf.configDir, "config", "", "config directory")
	pf.String("base-url", "", "todos service base URL")
	pf.Duration("timeout", 0, "per-request timeout, 0 to disable")
	pf.Bool("quiet", false, "suppress informational output")
	pf.Bool("debug", false, "print debug logs to stderr")

	for _, cmd := range d.registry.All() {
		cc := d.wrap(cmd, &gf, in, out, errOut, code)
		if cmd.Name() == "help" {
			root.SetHelpCommand(cc)
			continue
		}
		root.AddCommand(cc)
	}

	// No subcommand behaves like "list" with no args.
	if list, ok := d.registry.Find("list"); ok {
		root.RunE = func(cc *cobra.Command, args []string) error {
			*code = d.runCommand(cc.Context(), list, gf, cc, nil, in, out, errOut)
			return nil
		}
		list.RegisterFlags(root.Flags())
	}

	return root
}

// wrap adapts a registry command to cobra.
func (d *Dispatcher) wrap(cmd commands.Command, gf *globalFlags, in io.Reader, out, errOut io.Writer, code *int) *cobra.Command {
	cc := &cobra.Command{
		// cobra takes the command name from the first word of Use.
		Use:                   cmd.Name() + strings.TrimPrefix(cmd.Usage(), "todos "+cmd.Name()),
		Aliases:               cmd.Aliases(),
		Short:                 cmd.Synopsis(),
		Args:                  cobra.ArbitraryArgs,
		SilenceUsage:          true,
		SilenceErrors:         true,
		DisableFlagsInUseLine: true,
		RunE: func(cc *cobra.Command, args []string) error {
			*code = d.runCommand(cc.Context(), cmd, *gf, cc, args, in, out, errOut)
			return nil
		},
	}
	cmd.RegisterFlags(cc.Flags())
	return cc
}

func (d *Dispatcher) runCommand(ctx context.Context, cmd commands.Command, gf globalFlags, cc *cobra.Command, args []string, in io.Reader, out, errOut io.Writer) int {
	cfg, err := config.Load(gf.configDir, cc.Flags())
	if err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.ConfigError
	}

	logger.Init(cfg.Debug, errOut)
	defer logger.Sync()

	if ic, ok := cmd.(commands.InputCommand); ok {
		ic.SetInput(in)
	}

	var svc service.Service
	if cmd.NeedsService() {
		if d.factory == nil {
			fmt.Fprintln(errOut, "error: no backend configured")
			return exitcode.ConfigError
		}
		svc, err = d.factory(ctx, cfg)
		if err != nil {
			fmt.Fprintf(errOut, "error: %s\n", err)
			return exitcode.ConfigError
		}
	}

	return cmd.Run(ctx, cfg, svc, args, out, errOut)
}

// flagError rewrites cobra's parse errors into the CLI's message style.
func flagError(err error) string {
	msg := err.Error()
	if !strings.HasPrefix(msg, "unknown command ") {
		return msg
	}
	// unknown command "x" for "todos"
	name := strings.TrimPrefix(msg, "unknown command ")
	if i := strings.Index(name, " for "); i >= 0 {
		name = name[:i]
	}
	return "unknown command: " + strings.Trim(name, `"`)
}
