package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/noahmayr/vjj/internal/errors"
	"github.com/noahmayr/vjj/internal/keymap"
	"github.com/noahmayr/vjj/internal/runner"
)

// EnvConfig overrides the config file location.
const EnvConfig = "VJJ_CONFIG"

// Delimiter separates the fields of every log line.
const Delimiter = "\u200b"

//go:embed keymap.yaml
var defaultKeymap []byte

//go:embed jj-config-overrides.toml
var logOverrides string

// Config represents the application configuration structure.
type Config struct {
	Keymap  string   `yaml:"keymap"`   // Path of a keymap replacing the built-in one
	JJ      string   `yaml:"jj"`       // jj binary
	Fzf     string   `yaml:"fzf"`      // fzf binary
	Shell   string   `yaml:"shell"`    // Interpreter for {shell: ...} commands
	Pager   []string `yaml:"pager"`    // Pager command line; empty writes to stdout
	LogFile string   `yaml:"log_file"` // Debug log destination; empty disables logging
	Debug   bool     `yaml:"debug"`    // Log debug messages
}

// LoadConfig loads configuration from $VJJ_CONFIG or the default location
// (~/.config/vjj/config.yaml).
func LoadConfig() (*Config, error) {
	if path := os.Getenv(EnvConfig); path != "" {
		return LoadConfigFile(path)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	configPath := filepath.Join(home, ".config", "vjj", "config.yaml")
	return LoadConfigFile(configPath)
}

// LoadConfigFile loads configuration from a specific file path.
// If the file doesn't exist, returns default configuration.
func LoadConfigFile(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, errors.NewFileError("error reading config file", path, errors.FileAccessDenied, err)
	}

	// Unmarshal over the defaults so unset fields keep them
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.NewConfigError("error parsing config file", path, errors.InvalidConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.NewConfigError("invalid configuration", path, errors.InvalidConfig, err)
	}

	return cfg, nil
}

// defaultConfig returns the default configuration.
func defaultConfig() *Config {
	return &Config{
		JJ:    "jj",
		Fzf:   "fzf",
		Shell: "/bin/sh",
		Pager: append([]string(nil), runner.DefaultPager...),
	}
}

// New creates a new configuration instance with default values.
func New() *Config {
	return defaultConfig()
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("nil config")
	}
	if c.JJ == "" {
		return fmt.Errorf("jj binary cannot be empty")
	}
	if c.Fzf == "" {
		return fmt.Errorf("fzf binary cannot be empty")
	}
	if c.Shell == "" {
		return fmt.Errorf("shell cannot be empty")
	}
	for i, arg := range c.Pager {
		if strings.TrimSpace(arg) == "" {
			return fmt.Errorf("pager argument %d is empty", i)
		}
	}
	return nil
}

// KeymapPath returns the expanded user keymap path, or "" for the built-in
// keymap.
func (c *Config) KeymapPath() string {
	return expandHome(c.Keymap)
}

// KeymapStore loads the keymap. Errors are kept in the store and reported
// when a mode is looked up.
func (c *Config) KeymapStore() *keymap.Store {
	path := c.KeymapPath()
	if path == "" {
		return keymap.LoadStore("built-in keymap", defaultKeymap)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		kind := errors.FileAccessDenied
		if os.IsNotExist(err) {
			kind = errors.FileNotFound
		}
		return keymap.FailedStore(path, errors.NewFileError("cannot read keymap", path, kind, err))
	}
	return keymap.LoadStore(path, data)
}

// Runner builds the process runner described by the configuration.
func (c *Config) Runner() *runner.Exec {
	r := runner.NewExec()
	r.JJ = c.JJ
	r.Shell = c.Shell
	r.Pager = c.Pager
	return r
}

// DefaultKeymap returns the built-in keymap document.
func DefaultKeymap() []byte {
	return append([]byte(nil), defaultKeymap...)
}

// LogOverrides returns the jj configuration passed to every log invocation.
func LogOverrides() string {
	return logOverrides
}

// ValidateLogOverrides checks that the log overrides are valid TOML and
// define the delimited log template.
func ValidateLogOverrides(overrides string) error {
	var doc struct {
		Templates map[string]string `toml:"templates"`
	}
	if _, err := toml.Decode(overrides, &doc); err != nil {
		return errors.NewConfigError("invalid jj overrides", "templates.log", errors.InvalidConfig, err)
	}
	tmpl, ok := doc.Templates["log"]
	if !ok {
		return errors.NewConfigError("jj overrides do not define a log template", "templates.log", errors.InvalidConfig, nil)
	}
	if strings.Count(tmpl, Delimiter) < 3 {
		return errors.NewConfigError("log template must emit three field delimiters", "templates.log", errors.InvalidConfig, nil)
	}
	return nil
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}
