// Package runner starts the external programs vjj drives: jj, the shell used
// to evaluate user commands, and the pager.
package runner

import (
	"bytes"
	"io"
	"os"
	"os/exec"
	"strings"
	"unicode"

	"golang.org/x/term"

	"github.com/noahmayr/vjj/internal/errors"
	"github.com/noahmayr/vjj/internal/log"
)

// DefaultPager is the pager command line. -K lets ctrl+c quit, -R keeps
// colours and -+FX disables quitting on short output so the user sees it.
var DefaultPager = []string{"less", "-KR", "--tabs=4", "-+FX"}

// Options controls how jj is run.
type Options struct {
	// Pager routes output through the pager
	Pager bool
	// Interactive connects jj's stdin to the terminal
	Interactive bool
}

// Runner runs external programs.
type Runner interface {
	// Capture runs jj and returns stdout followed by stderr. A failing jj
	// is not an error; its output is the result.
	Capture(args []string) (string, error)
	// Jujutsu runs jj attached to the terminal or the pager.
	Jujutsu(args []string, opts Options) error
	// Eval runs script with the shell and returns its trimmed stdout.
	Eval(script string) (string, error)
	// Page shows text in the pager.
	Page(text string) error
}

// Exec runs programs as subprocesses.
type Exec struct {
	JJ     string
	Shell  string
	Pager  []string
	TTY    string
	Stdout io.Writer
	Stderr io.Writer
}

// NewExec creates an Exec with the default programs.
func NewExec() *Exec {
	return &Exec{
		JJ:     "jj",
		Shell:  "/bin/sh",
		Pager:  DefaultPager,
		TTY:    "/dev/tty",
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

func (e *Exec) jj(args []string) *exec.Cmd {
	full := append([]string{"--color=always", "--no-pager"}, args...)
	log.Debugf("running %s %s", e.JJ, strings.Join(full, " "))
	return exec.Command(e.JJ, full...)
}

// Capture implements Runner.
func (e *Exec) Capture(args []string) (string, error) {
	var stdout, stderr bytes.Buffer
	cmd := e.jj(args)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := run(cmd); err != nil {
		return "", errors.NewProcessError("cannot run jj", e.JJ, errors.ProcessFailed, err)
	}
	// Output is relayed through the protocol as text, so binary diffs are
	// normalised here the way a lossy UTF-8 decode would.
	return strings.ToValidUTF8(stdout.String()+stderr.String(), "\uFFFD"), nil
}

// Jujutsu implements Runner.
func (e *Exec) Jujutsu(args []string, opts Options) error {
	cmd := e.jj(args)

	if opts.Interactive {
		tty, err := e.openTTY()
		if err != nil {
			return err
		}
		defer tty.Close()
		cmd.Stdin = tty
	}

	switch {
	case opts.Pager && opts.Interactive:
		// stdout belongs to the interactive session; only stderr is paged
		var stderr bytes.Buffer
		cmd.Stdout = e.Stdout
		cmd.Stderr = &stderr
		if err := run(cmd); err != nil {
			return errors.NewProcessError("cannot run jj", e.JJ, errors.ProcessFailed, err)
		}
		return e.Page(stderr.String())
	case opts.Pager:
		var out bytes.Buffer
		cmd.Stdout = &out
		cmd.Stderr = &out
		if err := run(cmd); err != nil {
			return errors.NewProcessError("cannot run jj", e.JJ, errors.ProcessFailed, err)
		}
		return e.Page(out.String())
	}

	cmd.Stdout = e.Stdout
	cmd.Stderr = e.Stderr
	if err := run(cmd); err != nil {
		return errors.NewProcessError("cannot run jj", e.JJ, errors.ProcessFailed, err)
	}
	return nil
}

// Eval implements Runner.
func (e *Exec) Eval(script string) (string, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.Command(e.Shell, "-c", script)
	cmd.Stdout = &stdout
	// fzf owns the terminal while handlers run
	cmd.Stderr = &stderr
	log.Debugf("evaluating %q", script)
	err := run(cmd)
	if stderr.Len() > 0 {
		log.LogWithFields(log.F("script", script)).Debugf("shell stderr: %s", strings.TrimSpace(stderr.String()))
	}
	if err != nil {
		return "", errors.NewProcessError("cannot evaluate command", e.Shell, errors.ProcessFailed, err)
	}
	out := strings.ToValidUTF8(stdout.String(), "\uFFFD")
	return strings.TrimRightFunc(out, unicode.IsSpace), nil
}

// Page implements Runner.
func (e *Exec) Page(text string) error {
	if len(e.Pager) == 0 {
		_, err := io.WriteString(e.Stdout, text)
		return err
	}

	tty, err := e.openTTY()
	if err != nil {
		return err
	}
	defer tty.Close()

	cmd := exec.Command(e.Pager[0], e.Pager[1:]...)
	cmd.Stdout = tty
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return errors.NewProcessError("cannot open pager input", e.Pager[0], errors.ProcessFailed, err)
	}
	defer stdin.Close()

	if err := cmd.Start(); err != nil {
		return errors.NewProcessError("cannot start pager", e.Pager[0], errors.ProcessFailed, err)
	}
	_, writeErr := io.WriteString(stdin, text)
	// the pager only exits once its input is closed
	stdin.Close()
	var exitErr *exec.ExitError
	if err := cmd.Wait(); err != nil && !errors.As(err, &exitErr) {
		return errors.NewProcessError("pager failed", e.Pager[0], errors.ProcessFailed, err)
	}
	if writeErr != nil {
		log.Debugf("pager closed its input early: %v", writeErr)
	}
	return nil
}

func (e *Exec) openTTY() (*os.File, error) {
	tty, err := os.OpenFile(e.TTY, os.O_RDWR, 0)
	if err != nil {
		return nil, errors.NewFileError("cannot open terminal", e.TTY, errors.FileAccessDenied, err)
	}
	if !term.IsTerminal(int(tty.Fd())) {
		tty.Close()
		return nil, errors.NewFileError("not a terminal", e.TTY, errors.FileAccessDenied, nil)
	}
	return tty, nil
}

// run runs cmd, treating a nonzero exit status as success.
func run(cmd *exec.Cmd) error {
	err := cmd.Run()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		log.Debugf("%s exited with status %d", cmd.Path, exitErr.ExitCode())
		return nil
	}
	return err
}
