package shell

import (
	"bytes"
	"strings"
	"testing"

	"github.com/noahmayr/vjj/internal/clipboard"
	"github.com/noahmayr/vjj/internal/engine"
	"github.com/noahmayr/vjj/internal/errors"
	"github.com/noahmayr/vjj/internal/fzf"
	"github.com/noahmayr/vjj/internal/keymap"
	"github.com/noahmayr/vjj/internal/protocol"
	"github.com/noahmayr/vjj/internal/runner"
	"github.com/noahmayr/vjj/pkg/testutils"
	"github.com/noahmayr/vjj/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKeymap = `
normal:
  q:
    help: quit
    actions: [quit]
  g:
    help: goto
  gm:
    help: mine
    actions:
      - change_revset: "mine()"
`

type fixture struct {
	shell  *Shell
	runner *testutils.FakeRunner
	stdout *bytes.Buffer
	stderr *bytes.Buffer
}

func newFixture(t *testing.T, ctx engine.Context) fixture {
	t.Helper()
	f := fixture{
		runner: &testutils.FakeRunner{},
		stdout: &bytes.Buffer{},
		stderr: &bytes.Buffer{},
	}
	store := keymap.LoadStore("test.yaml", []byte(testKeymap))
	e := engine.New(store, f.runner, &clipboard.Memory{}, engine.WithStyles(keymap.PlainStyles()))
	f.shell = New(e, f.runner, "[ui]", ctx, WithOutput(f.stdout, f.stderr))
	return f
}

func TestContextFromEnv(t *testing.T) {
	env := map[string]string{
		EnvPrompt:      "OBSLOG(kx): ",
		EnvQuery:       "gm",
		EnvBorderLabel: "mine()",
	}
	ctx := ContextFromEnv(func(k string) string { return env[k] })
	assert.Equal(t, types.ObslogMode("kx"), ctx.Mode)
	assert.Equal(t, "gm", ctx.Query)
	assert.Equal(t, "mine()", ctx.Revset)

	ctx = ContextFromEnv(func(string) string { return "" })
	assert.Equal(t, types.NormalMode(), ctx.Mode)
	assert.Empty(t, ctx.Revset)
}

func TestRunInputHandler(t *testing.T) {
	f := newFixture(t, engine.Context{Mode: types.NormalMode(), Query: "q"})
	sel := types.SelectionTemplate(2, 3)

	require.NoError(t, f.shell.Run(protocol.HandlerExpression(protocol.Input(protocol.InputChange, sel))))
	line := strings.TrimSuffix(f.stdout.String(), "\n")
	parts := strings.Split(line, "+")
	require.Len(t, parts, 3)
	assert.True(t, strings.HasPrefix(parts[0], "change-header("))
	assert.Equal(t, "abort", parts[1])
	assert.Equal(t, "clear-query", parts[2])
}

func TestRunInputHandlerPrefix(t *testing.T) {
	f := newFixture(t, engine.Context{Mode: types.NormalMode(), Query: "g"})

	require.NoError(t, f.shell.Run(protocol.HandlerExpression(protocol.Input(protocol.InputChange, types.Selection{}))))
	assert.Equal(t, "change-header(gm  mine │)\n", f.stdout.String())
}

func TestRunFocusHandler(t *testing.T) {
	f := newFixture(t, engine.Context{Mode: types.NormalMode()})

	require.NoError(t, f.shell.Run(protocol.HandlerExpression(protocol.Focus("''", "''", "up"))))
	assert.Equal(t, "up\n", f.stdout.String())

	f.stdout.Reset()
	require.NoError(t, f.shell.Run(protocol.HandlerExpression(protocol.Focus("'kx'", "'1a'", "down"))))
	want := fzf.Join([]fzf.Action{
		fzf.ChangePreview(protocol.Show("'1a'")),
		fzf.ChangePreviewLabel("Preview (jj show)"),
	})
	assert.Equal(t, want+"\n", f.stdout.String())
}

func TestLogCommand(t *testing.T) {
	tests := []struct {
		name string
		ctx  engine.Context
		want []string
	}{
		{"default", engine.Context{Mode: types.NormalMode()}, []string{"log"}},
		{"revset", engine.Context{Mode: types.RevsetMode(), Revset: "mine()"}, []string{"log", "-r", "mine()"}},
		{"obslog", engine.Context{Mode: types.ObslogMode("kx"), Revset: "mine()"}, []string{"obslog", "-r", "kx"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.ctx)
			require.NoError(t, f.shell.Run(protocol.CommandExpression(protocol.Log())))
			require.Len(t, f.runner.Ran, 1)
			call := f.runner.Ran[0]
			assert.Equal(t, append([]string{"--ignore-working-copy", "--config-toml", "[ui]"}, tt.want...), call.Args)
			assert.Equal(t, runner.Options{}, call.Options)
		})
	}
}

func TestShowCommand(t *testing.T) {
	f := newFixture(t, engine.Context{Mode: types.NormalMode()})

	require.NoError(t, f.shell.Run(protocol.CommandExpression(protocol.Show("''"))))
	assert.Empty(t, f.runner.Ran)

	require.NoError(t, f.shell.Run(protocol.CommandExpression(protocol.Show("'1a'"))))
	require.Len(t, f.runner.Ran, 1)
	assert.Equal(t, []string{"--ignore-working-copy", "show", "1a"}, f.runner.Ran[0].Args)
}

func TestPagedJujutsu(t *testing.T) {
	f := newFixture(t, engine.Context{Mode: types.NormalMode()})

	require.NoError(t, f.shell.Run(protocol.PagedExpression(protocol.Jujutsu("split"), true)))
	require.Len(t, f.runner.Ran, 1)
	assert.Equal(t, []string{"split"}, f.runner.Ran[0].Args)
	assert.Equal(t, runner.Options{Pager: true, Interactive: true}, f.runner.Ran[0].Options)
}

func TestHelpCommand(t *testing.T) {
	f := newFixture(t, engine.Context{Mode: types.NormalMode()})
	require.NoError(t, f.shell.Run(protocol.PagedExpression(protocol.Help(), false)))
	require.Len(t, f.runner.Paged, 1)
	assert.Equal(t, "### NORMAL MODE HELP ###\ng   goto\ngm  mine\nq   quit\n", f.runner.Paged[0])

	f = newFixture(t, engine.Context{Mode: types.RevsetMode()})
	require.NoError(t, f.shell.Run(protocol.CommandExpression(protocol.Help())))
	assert.Equal(t, keymap.NoCommands+"\n", f.stdout.String())
}

func TestOutputAndError(t *testing.T) {
	f := newFixture(t, engine.Context{Mode: types.NormalMode()})

	require.NoError(t, f.shell.Run(protocol.CommandExpression(protocol.Output("kx"))))
	assert.Equal(t, "kx\n", f.stdout.String())

	require.NoError(t, f.shell.Run(protocol.CommandExpression(protocol.Error("bad"))))
	assert.Equal(t, "bad\n", f.stderr.String())

	require.NoError(t, f.shell.Run(protocol.PagedExpression(protocol.Error("paged"), false)))
	assert.Equal(t, []string{"paged\n"}, f.runner.Paged)
}

func TestCommandFailureGoesToStderr(t *testing.T) {
	f := newFixture(t, engine.Context{Mode: types.NormalMode()})
	f.runner.Err = errors.New("jj exploded")

	require.NoError(t, f.shell.Run(protocol.CommandExpression(protocol.Jujutsu("status"))))
	assert.Equal(t, "jj exploded\n", f.stderr.String())
	assert.Empty(t, f.stdout.String())
}
