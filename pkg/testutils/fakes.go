package testutils

import (
	"strings"

	"github.com/noahmayr/vjj/internal/runner"
)

// JJCall records one jj invocation made through a FakeRunner
type JJCall struct {
	Args    []string
	Options runner.Options
}

// FakeRunner records calls instead of starting processes
type FakeRunner struct {
	// CaptureOutput is returned by Capture
	CaptureOutput string
	// EvalOutputs maps a script to its output; unknown scripts echo themselves
	EvalOutputs map[string]string
	// Err is returned by every call when set
	Err error

	Captured  []JJCall
	Ran       []JJCall
	Evaluated []string
	Paged     []string
}

var _ runner.Runner = (*FakeRunner)(nil)

// Capture records args and returns CaptureOutput
func (f *FakeRunner) Capture(args []string) (string, error) {
	f.Captured = append(f.Captured, JJCall{Args: args})
	if f.Err != nil {
		return "", f.Err
	}
	return f.CaptureOutput, nil
}

// Jujutsu records args and options
func (f *FakeRunner) Jujutsu(args []string, opts runner.Options) error {
	f.Ran = append(f.Ran, JJCall{Args: args, Options: opts})
	return f.Err
}

// Eval records script and returns its configured output
func (f *FakeRunner) Eval(script string) (string, error) {
	f.Evaluated = append(f.Evaluated, script)
	if f.Err != nil {
		return "", f.Err
	}
	if out, ok := f.EvalOutputs[script]; ok {
		return out, nil
	}
	return strings.TrimSpace(script), nil
}

// Page records text
func (f *FakeRunner) Page(text string) error {
	f.Paged = append(f.Paged, text)
	return f.Err
}
