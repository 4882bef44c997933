package main

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/noahmayr/vjj/internal/clipboard"
	"github.com/noahmayr/vjj/internal/config"
	"github.com/noahmayr/vjj/internal/engine"
	"github.com/noahmayr/vjj/internal/log"
	"github.com/noahmayr/vjj/internal/protocol"
	"github.com/noahmayr/vjj/internal/runner"
	"github.com/noahmayr/vjj/internal/shell"
)

// Environment variables read at startup.
const (
	EnvLog   = "VJJ_LOG"
	EnvDebug = "VJJ_DEBUG"
)

// app is the state shared by the root command and its subcommands.
type app struct {
	cfgFile    string
	cfg        *config.Config
	invocation string
}

// newEngine builds the key dispatcher for this invocation.
func (a *app) newEngine(r runner.Runner) *engine.Engine {
	return engine.New(a.cfg.KeymapStore(), r, clipboard.System{})
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	a := &app{}
	var expr string

	rootCmd := &cobra.Command{
		Use:   "vjj",
		Short: "Browse and drive jj from an fzf picker",
		Long: `vjj shows the jj log in fzf and turns key presses into jj commands.

Keys are bound per mode in a YAML keymap. Typing a key prefix shows which
keys can follow it.`,
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			log.Default().Close()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("command") {
				return a.runExpression(cmd, expr)
			}
			return a.launch(cmd.Context())
		},
	}

	// fzf runs every binding as `$SHELL -c <expression>` with SHELL set to vjj
	rootCmd.Flags().StringVarP(&expr, "command", "c", "", "run an expression produced by a key binding")
	rootCmd.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default is $HOME/.config/vjj/config.yaml)")

	rootCmd.AddCommand(newKeysCmd(a))
	rootCmd.AddCommand(newCheckCmd(a))

	return rootCmd
}

// setup loads the configuration and points the logger at the log file.
func (a *app) setup() error {
	var err error
	if a.cfgFile != "" {
		a.cfg, err = config.LoadConfigFile(a.cfgFile)
		if err == nil {
			// Children started by fzf must read the same file
			if abs, absErr := filepath.Abs(a.cfgFile); absErr == nil {
				os.Setenv(config.EnvConfig, abs)
			}
		}
	} else {
		a.cfg, err = config.LoadConfig()
	}
	if err != nil {
		return err
	}

	if path := os.Getenv(EnvLog); path != "" {
		a.cfg.LogFile = path
	}
	if debug, parseErr := strconv.ParseBool(os.Getenv(EnvDebug)); parseErr == nil {
		a.cfg.Debug = debug
	}

	a.invocation = uuid.NewString()
	opts := []log.Option{log.WithFields(log.F("invocation", a.invocation))}
	if a.cfg.LogFile != "" {
		opts = append(opts, log.WithFile(a.cfg.LogFile))
	}
	log.Configure(opts...)
	log.SetDebug(a.cfg.Debug)
	return nil
}

// runExpression answers one self-invocation from fzf.
func (a *app) runExpression(cmd *cobra.Command, expr string) error {
	e, err := protocol.Decode(expr)
	if err != nil {
		log.LogWithError(err).Error("cannot decode expression")
		return err
	}
	log.Debugf("running %s expression", e.Kind)

	r := a.cfg.Runner()
	sh := shell.New(a.newEngine(r), r, config.LogOverrides(), shell.ContextFromEnv(os.Getenv),
		shell.WithOutput(cmd.OutOrStdout(), cmd.ErrOrStderr()))
	return sh.Run(e)
}
