package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"todos/internal/config"
	"todos/internal/exitcode"
	"todos/internal/service"
)

func init() {
	Register(&ConfigCmd{})
}

// ConfigCmd prints the effective configuration or writes it to config.yaml.
type ConfigCmd struct {
	initFile bool
	force    bool
}

func (c *ConfigCmd) Name() string       { return "config" }
func (c *ConfigCmd) Aliases() []string  { return nil }
func (c *ConfigCmd) Synopsis() string   { return "Show or initialise configuration" }
func (c *ConfigCmd) Usage() string      { return "todos config [--init [--force]]" }
func (c *ConfigCmd) NeedsService() bool { return false }

func (c *ConfigCmd) RegisterFlags(fs *pflag.FlagSet) {
	fs.BoolVar(&c.initFile, "init", false, "write the effective settings to config.yaml")
	fs.BoolVar(&c.force, "force", false, "overwrite an existing config.yaml")
}

func (c *ConfigCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if !c.initFile {
		data, err := yaml.Marshal(cfg.File())
		if err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.ConfigError
		}
		fmt.Fprintf(out, "# %s\n", cfg.Path())
		out.Write(data)
		return exitcode.Success
	}

	if cfg.HasFile() && !c.force {
		fmt.Fprintf(errOut, "error: config file already exists: %s\n", cfg.Path())
		return exitcode.UserError
	}
	if err := cfg.WriteFile(cfg.File()); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.ConfigError
	}

	if !cfg.Quiet {
		fmt.Fprintf(out, "wrote %s\n", cfg.Path())
	}
	return exitcode.Success
}
