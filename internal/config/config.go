// Package config resolves the config directory and the effective settings
// from config.yaml, TODOS_* environment variables and command-line flags.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	// AppName is the application directory name.
	AppName = "todos"

	// ConfigFile is the settings filename inside the config directory.
	ConfigFile = "config.yaml"

	// EnvPrefix prefixes environment overrides, e.g. TODOS_BASE_URL.
	EnvPrefix = "TODOS"

	// DefaultBaseURL is the todos service the client talks to out of the box.
	DefaultBaseURL = "https://todos-backend-vw3s.onrender.com"

	// DefaultTimeout bounds every remote request.
	DefaultTimeout = 10 * time.Second
)

// Keys shared by the config file, the environment and flag bindings.
const (
	KeyBaseURL = "base_url"
	KeyTimeout = "timeout"
	KeyDebug   = "debug"
	KeyQuiet   = "quiet"
)

// flagNames maps config keys to the global flag that overrides them.
var flagNames = map[string]string{
	KeyBaseURL: "base-url",
	KeyTimeout: "timeout",
	KeyDebug:   "debug",
	KeyQuiet:   "quiet",
}

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// BaseURL is the root of the todos service, without the /todos suffix.
	BaseURL string

	// Timeout is the per-request timeout. Zero disables it.
	Timeout time.Duration

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool
}

// File is the on-disk shape of config.yaml.
type File struct {
	BaseURL string `yaml:"base_url"`
	Timeout string `yaml:"timeout"`
	Debug   bool   `yaml:"debug"`
}

// New creates a Config for configDir using file and environment values only.
// If configDir is empty, uses XDG_CONFIG_HOME/todos or $HOME/.config/todos.
func New(configDir string) (*Config, error) {
	return Load(configDir, nil)
}

// Load resolves settings with precedence flags > environment > config file >
// defaults. Only flags that were set on the command line take effect.
func Load(configDir string, flags *pflag.FlagSet) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}

	v := viper.New()
	v.SetDefault(KeyBaseURL, DefaultBaseURL)
	v.SetDefault(KeyTimeout, DefaultTimeout)
	v.SetDefault(KeyDebug, false)
	v.SetDefault(KeyQuiet, false)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetConfigFile(filepath.Join(dir, ConfigFile))
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("invalid %s: %w", ConfigFile, err)
	}

	if flags != nil {
		for key, name := range flagNames {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, err
				}
			}
		}
	}

	cfg := &Config{
		Dir:     dir,
		BaseURL: strings.TrimRight(strings.TrimSpace(v.GetString(KeyBaseURL)), "/"),
		Timeout: v.GetDuration(KeyTimeout),
		Debug:   v.GetBool(KeyDebug),
		Quiet:   v.GetBool(KeyQuiet),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings that would otherwise fail on first request.
func (c *Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid base url: %q", c.BaseURL)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("invalid timeout: %s", c.Timeout)
	}
	return nil
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// Path returns the path to config.yaml.
func (c *Config) Path() string {
	return filepath.Join(c.Dir, ConfigFile)
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}

// HasFile checks if config.yaml exists.
func (c *Config) HasFile() bool {
	_, err := os.Stat(c.Path())
	return err == nil
}

// File returns the effective settings in config.yaml form.
func (c *Config) File() File {
	return File{
		BaseURL: c.BaseURL,
		Timeout: c.Timeout.String(),
		Debug:   c.Debug,
	}
}

// WriteFile writes f to config.yaml, creating the directory first.
func (c *Config) WriteFile(f File) error {
	if err := c.EnsureDir(); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}
	data, err := yaml.Marshal(f)
	if err != nil {
		return err
	}
	return os.WriteFile(c.Path(), data, 0600)
}
