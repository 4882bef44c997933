// Package shell executes the expressions fzf hands back to vjj.
package shell

import (
	"fmt"
	"io"
	"os"

	"github.com/noahmayr/vjj/internal/engine"
	"github.com/noahmayr/vjj/internal/fzf"
	"github.com/noahmayr/vjj/internal/log"
	"github.com/noahmayr/vjj/internal/protocol"
	"github.com/noahmayr/vjj/internal/runner"
	"github.com/noahmayr/vjj/pkg/types"
)

// Environment variables fzf exports to the commands it runs.
const (
	EnvPrompt      = "FZF_PROMPT"
	EnvQuery       = "FZF_QUERY"
	EnvBorderLabel = "FZF_BORDER_LABEL"
)

// ContextFromEnv rebuilds the picker state from the fzf environment. An
// unreadable prompt falls back to normal mode.
func ContextFromEnv(getenv func(string) string) engine.Context {
	mode, err := types.ParseMode(getenv(EnvPrompt))
	if err != nil {
		log.Debugf("falling back to normal mode: %v", err)
		mode = types.NormalMode()
	}
	return engine.Context{
		Mode:   mode,
		Query:  getenv(EnvQuery),
		Revset: getenv(EnvBorderLabel),
	}
}

// Shell runs expressions for one invocation.
type Shell struct {
	engine    *engine.Engine
	runner    runner.Runner
	overrides string
	ctx       engine.Context
	stdout    io.Writer
	stderr    io.Writer
}

// Option configures a Shell.
type Option func(*Shell)

// WithOutput redirects stdout and stderr.
func WithOutput(stdout, stderr io.Writer) Option {
	return func(s *Shell) {
		s.stdout = stdout
		s.stderr = stderr
	}
}

// New creates a Shell. overrides is the jj configuration passed to log.
func New(e *engine.Engine, r runner.Runner, overrides string, ctx engine.Context, opts ...Option) *Shell {
	s := &Shell{
		engine:    e,
		runner:    r,
		overrides: overrides,
		ctx:       ctx,
		stdout:    os.Stdout,
		stderr:    os.Stderr,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run executes expr. Handler results are printed as an fzf action list;
// command failures are reported on stderr and are not returned.
func (s *Shell) Run(expr protocol.Expression) error {
	logger := log.LogWithFields(log.F("expression", expr.Kind.String()), log.F("mode", s.ctx.Mode.String()))

	switch expr.Kind {
	case protocol.ExpressionHandler:
		actions := s.handle(*expr.Handler)
		logger.Debugf("handler produced %d actions", len(actions))
		if len(actions) > 0 {
			_, err := fmt.Fprintln(s.stdout, fzf.Join(actions))
			return err
		}
		return nil

	case protocol.ExpressionCommand, protocol.ExpressionPaged:
		paged := expr.Kind == protocol.ExpressionPaged
		opts := runner.Options{Pager: paged, Interactive: expr.Interactive}
		if err := s.Execute(*expr.Command, opts); err != nil {
			logger.Errorf("command %s failed: %v", expr.Command.Kind, err)
			fmt.Fprintln(s.stderr, err)
		}
		return nil
	}
	return fmt.Errorf("unknown expression kind %s", expr.Kind)
}

func (s *Shell) handle(h protocol.Handler) []fzf.Action {
	if h.Kind == protocol.HandlerFocus {
		return s.engine.Focus(h.Change, h.Commit, h.Action)
	}
	ctx := s.ctx
	if h.Selection != nil {
		ctx.Selection = *h.Selection
	}
	return s.engine.Input(h.Input, ctx)
}

// Execute runs a command with output on stdout or through the pager.
func (s *Shell) Execute(c protocol.Command, opts runner.Options) error {
	switch c.Kind {
	case protocol.CommandLog:
		return s.runner.Jujutsu(s.logArgs(), opts)

	case protocol.CommandHelp:
		text, err := s.engine.HelpText(s.ctx.Mode)
		if err != nil {
			return s.Execute(protocol.Error(err.Error()), opts)
		}
		return s.Execute(protocol.Output(text), opts)

	case protocol.CommandShow:
		rev := types.TrimQuotes(c.Rev)
		if rev == "" {
			return nil
		}
		return s.runner.Jujutsu([]string{"--ignore-working-copy", "show", rev}, opts)

	case protocol.CommandJujutsu:
		return s.runner.Jujutsu(c.Args, opts)

	case protocol.CommandOutput:
		if opts.Pager {
			return s.runner.Page(c.Text + "\n")
		}
		_, err := fmt.Fprintln(s.stdout, c.Text)
		return err

	case protocol.CommandError:
		if opts.Pager {
			return s.runner.Page(c.Text + "\n")
		}
		_, err := fmt.Fprintln(s.stderr, c.Text)
		return err
	}
	return fmt.Errorf("unknown command %s", c.Kind)
}

func (s *Shell) logArgs() []string {
	args := []string{"--ignore-working-copy", "--config-toml", s.overrides}
	switch {
	case s.ctx.Mode.Kind == types.Obslog:
		return append(args, "obslog", "-r", s.ctx.Mode.Revision)
	case s.ctx.Revset != "":
		return append(args, "log", "-r", s.ctx.Revset)
	}
	return append(args, "log")
}
