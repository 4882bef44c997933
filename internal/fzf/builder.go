package fzf

import (
	"context"
	"fmt"
	"os"
	"os/exec"

	"github.com/noahmayr/vjj/internal/errors"
	"github.com/noahmayr/vjj/internal/log"
)

// Builder collects fzf command line flags.
type Builder struct {
	program string
	args    []string
}

// NewBuilder starts a Builder for the fzf binary at program ("fzf" when empty).
func NewBuilder(program string) *Builder {
	if program == "" {
		program = "fzf"
	}
	return &Builder{program: program}
}

// Flag adds `--name`.
func (b *Builder) Flag(name string) *Builder {
	b.args = append(b.args, "--"+name)
	return b
}

// FlagValue adds `--name=value`.
func (b *Builder) FlagValue(name string, value interface{}) *Builder {
	return b.Flag(fmt.Sprintf("%s=%v", name, value))
}

// Bind adds a --bind flag.
func (b *Builder) Bind(bind Bind) *Builder {
	return b.FlagValue("bind", bind)
}

// Args returns the collected arguments.
func (b *Builder) Args() []string {
	return append([]string(nil), b.args...)
}

// Command prepares the fzf process with SHELL pointing at self, so that
// every transform, preview and reload binding re-invokes vjj.
func (b *Builder) Command(ctx context.Context, self string) *exec.Cmd {
	cmd := exec.CommandContext(ctx, b.program, b.args...)
	cmd.Env = append(os.Environ(), "SHELL="+self)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd
}

// Run starts fzf and waits for it to exit. fzf exits 130 when aborted,
// which is how the quit action ends a session, so that is not an error.
func (b *Builder) Run(ctx context.Context, self string) error {
	cmd := b.Command(ctx, self)
	log.Debugf("launching %s with %d arguments", b.program, len(b.args))
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() == 130 {
			return nil
		}
		return errors.NewProcessError("fzf failed", b.program, errors.ProcessFailed, err)
	}
	return nil
}
