package runner

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/noahmayr/vjj/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fakeJJ = `#!/bin/sh
echo "$@"
echo "warning" >&2
exit 1
`

func newTestExec(t *testing.T) (*Exec, *bytes.Buffer) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "jj")
	require.NoError(t, os.WriteFile(path, []byte(fakeJJ), 0755))

	var out bytes.Buffer
	e := NewExec()
	e.JJ = path
	e.Stdout = &out
	e.Stderr = &out
	e.TTY = filepath.Join(t.TempDir(), "not-a-tty")
	require.NoError(t, os.WriteFile(e.TTY, nil, 0644))
	return e, &out
}

func TestCapture(t *testing.T) {
	e, _ := newTestExec(t)

	got, err := e.Capture([]string{"describe", "-m", "msg"})
	require.NoError(t, err)
	assert.Equal(t, "--color=always --no-pager describe -m msg\nwarning\n", got)
}

func TestCaptureInvalidUTF8(t *testing.T) {
	e, _ := newTestExec(t)
	e.JJ = filepath.Join(t.TempDir(), "jj")
	require.NoError(t, os.WriteFile(e.JJ, []byte("#!/bin/sh\nprintf 'a\\377\\376b'\n"), 0755))

	got, err := e.Capture([]string{"diff"})
	require.NoError(t, err)
	assert.Equal(t, "a\uFFFDb", got)
}

func TestCaptureMissingBinary(t *testing.T) {
	e, _ := newTestExec(t)
	e.JJ = filepath.Join(t.TempDir(), "missing")

	_, err := e.Capture([]string{"log"})
	require.Error(t, err)
	assert.Equal(t, errors.ProcessFailed, errors.KindOf(err))
}

func TestJujutsuDirect(t *testing.T) {
	e, out := newTestExec(t)

	require.NoError(t, e.Jujutsu([]string{"status"}, Options{}))
	assert.Contains(t, out.String(), "--no-pager status")
}

func TestJujutsuInteractiveNeedsTerminal(t *testing.T) {
	e, _ := newTestExec(t)

	err := e.Jujutsu([]string{"split"}, Options{Interactive: true})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a terminal")
}

func TestPageWithoutPager(t *testing.T) {
	e, out := newTestExec(t)
	e.Pager = nil

	require.NoError(t, e.Page("hello\n"))
	assert.Equal(t, "hello\n", out.String())
}

func TestPagedJujutsuWithoutPager(t *testing.T) {
	e, out := newTestExec(t)
	e.Pager = nil

	require.NoError(t, e.Jujutsu([]string{"diff"}, Options{Pager: true}))
	assert.Equal(t, "--color=always --no-pager diff\nwarning\n", out.String())
}

func TestEval(t *testing.T) {
	e, _ := newTestExec(t)

	got, err := e.Eval("printf 'abc\\n\\n  '")
	require.NoError(t, err)
	assert.Equal(t, "abc", got)

	got, err = e.Eval("echo partial; exit 3")
	require.NoError(t, err)
	assert.Equal(t, "partial", got)
}

func TestEvalKeepsStderrOffTheTerminal(t *testing.T) {
	e, out := newTestExec(t)

	got, err := e.Eval("echo value; echo noise >&2")
	require.NoError(t, err)
	assert.Equal(t, "value", got)
	assert.Empty(t, out.String())
}
