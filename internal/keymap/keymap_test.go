package keymap

import (
	"testing"

	"github.com/noahmayr/vjj/internal/errors"
	"github.com/noahmayr/vjj/internal/template"
	"github.com/noahmayr/vjj/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const testKeymap = `
normal:
  q:
    help: quit
    actions: [quit]
  "<enter>":
    help: accept
    actions:
      - accept: "{change:focused}"
  "<esc>":
    help: clear
    actions: [reload_log]
  g:
    help: goto
  gg:
    help: top
    actions:
      - change_revset: "root()..@"
  gr:
    help: revset mode
    actions:
      - mode: revset
  o:
    help: obslog
    actions:
      - mode:
          obslog: "{change:focused}"
  n:
    help: new
    actions:
      - jj: [new, "{change:focused}"]
  " ":
    help: leader
  " y":
    help: yank id
    actions:
      - yank:
          shell: "printf %s {commit:focused}"
revset:
  "<esc>":
    help: back
    actions:
      - mode: normal
`

func loadTestBindings(t *testing.T, mode string) Bindings {
	t.Helper()
	store := LoadStore("test.yaml", []byte(testKeymap))
	require.NoError(t, store.Err())
	b, err := store.Lookup(mode)
	require.NoError(t, err)
	return b
}

func TestBindableOrder(t *testing.T) {
	b := loadTestBindings(t, "normal")
	var keys []string
	for _, e := range b.Entries() {
		keys = append(keys, e.Key.String())
	}
	assert.Equal(t, []string{
		"<enter>", "<esc>",
		"<space>", "<space>y",
		"g", "gg", "gr", "n", "o", "q",
	}, keys)
}

func TestParseBindable(t *testing.T) {
	k, err := ParseBindable("<enter>")
	require.NoError(t, err)
	assert.Equal(t, SpecialKey(Enter), k)

	k, err = ParseBindable("<space>y")
	require.NoError(t, err)
	assert.Equal(t, Sequence(" y"), k)
	assert.Equal(t, "<space>y", k.String())

	_, err = ParseBindable("")
	assert.Error(t, err)
}

func TestDecodedActions(t *testing.T) {
	b := loadTestBindings(t, "normal")

	kb, ok := b.Get(Sequence("o"))
	require.True(t, ok)
	require.Len(t, kb.Actions, 1)
	assert.Equal(t, SwitchMode, kb.Actions[0].Kind)
	assert.Equal(t, types.Obslog, kb.Actions[0].Mode.Kind)
	assert.Equal(t, Plain("{change:focused}"), kb.Actions[0].Mode.Revision)

	kb, ok = b.Get(Sequence(" y"))
	require.True(t, ok)
	assert.Equal(t, Shell("printf %s {commit:focused}"), kb.Actions[0].Command)

	kb, ok = b.Get(Sequence("g"))
	require.True(t, ok)
	assert.True(t, kb.IsNoOp())

	kb, ok = b.Get(SpecialKey(Enter))
	require.True(t, ok)
	assert.Equal(t, Accept, kb.Actions[0].Kind)

	_, ok = b.Get(Sequence("zz"))
	assert.False(t, ok)
}

func TestUserActionYAMLRoundTrip(t *testing.T) {
	actions := []UserAction{
		{Kind: Quit},
		{Kind: ReloadLog},
		{Kind: SwitchMode, Mode: UserMode{Kind: types.Revset}},
		{Kind: SwitchMode, Mode: UserMode{Kind: types.Obslog, Revision: Shell("echo {query}")}},
		{Kind: Jujutsu, Args: []string{"abandon", "{change:selected_revset}"}},
		{Kind: JujutsuPaged, Args: []string{"diff"}},
		{Kind: JujutsuInteractive, Args: []string{"split"}},
		{Kind: Yank, Command: Plain("{commit:focused}")},
		{Kind: ChangeRevset, Command: Shell("cat ~/.revset")},
		{Kind: Accept, Command: Plain("{change:selected}")},
	}
	for _, a := range actions {
		t.Run(a.Kind.String(), func(t *testing.T) {
			data, err := yaml.Marshal(a)
			require.NoError(t, err)
			var decoded UserAction
			require.NoError(t, yaml.Unmarshal(data, &decoded))
			assert.Equal(t, a, decoded)
		})
	}
}

func TestUserActionYAMLErrors(t *testing.T) {
	for _, doc := range []string{
		"launch",
		"quit: now",
		"jj",
		"{jj: [a], jjp: [b]}",
		"{jj: notalist}",
		"{mode: visual}",
		"{yank: {shell: a, extra: b}}",
		"[quit]",
	} {
		t.Run(doc, func(t *testing.T) {
			var a UserAction
			assert.Error(t, yaml.Unmarshal([]byte(doc), &a))
		})
	}
}

func TestBindingsYAMLRoundTrip(t *testing.T) {
	b := loadTestBindings(t, "normal")
	data, err := yaml.Marshal(b)
	require.NoError(t, err)

	var decoded Bindings
	require.NoError(t, yaml.Unmarshal(data, &decoded))
	assert.Equal(t, b.Len(), decoded.Len())
	for _, e := range b.Entries() {
		got, ok := decoded.Get(e.Key)
		require.True(t, ok, e.Key.String())
		assert.Equal(t, e.Bind.Help, got.Help)
		assert.Equal(t, len(e.Bind.Actions), len(got.Actions))
	}
}

func TestDuplicateKeys(t *testing.T) {
	_, err := NewBindings(
		Entry{Key: Sequence("a")},
		Entry{Key: Sequence("a")},
	)
	assert.Error(t, err)
}

func TestStoreDefersErrors(t *testing.T) {
	store := LoadStore("broken.yaml", []byte("normal: [not, a, mapping]"))
	require.Error(t, store.Err())
	assert.Empty(t, store.Modes())

	_, err := store.Lookup("normal")
	require.Error(t, err)
	assert.True(t, errors.IsInvalidConfig(err))
	assert.Contains(t, err.Error(), "broken.yaml")
}

func TestStoreMissingMode(t *testing.T) {
	store := LoadStore("test.yaml", []byte(testKeymap))
	assert.Equal(t, []string{"normal", "revset"}, store.Modes())

	_, err := store.Lookup("obslog")
	require.Error(t, err)
	assert.True(t, errors.IsMissingKeymap(err))
}

func TestStoreValidate(t *testing.T) {
	vars := []string{"query", "change:focused", "commit:focused"}
	store := LoadStore("test.yaml", []byte(testKeymap))
	assert.NoError(t, store.Validate(vars))

	err := store.Validate([]string{"query"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "change:focused")

	bad := LoadStore("bad.yaml", []byte("normal:\n  x:\n    help: x\n    actions:\n      - jj: [\"{oops\"]\n"))
	err = bad.Validate(vars)
	require.Error(t, err)
	assert.Equal(t, errors.TemplateParse, errors.KindOf(err))
}

func TestUserCommandResolve(t *testing.T) {
	values := template.Map{"query": "abc"}
	ev := evalFunc(func(script string) (string, error) { return "ran:" + script, nil })

	got, err := Plain("x-{query}").Resolve(values, ev)
	require.NoError(t, err)
	assert.Equal(t, "x-abc", got)

	got, err = Shell("echo {query}").Resolve(values, ev)
	require.NoError(t, err)
	assert.Equal(t, "ran:echo abc", got)

	mode, err := UserMode{Kind: types.Obslog, Revision: Plain("{query}")}.Resolve(values, ev)
	require.NoError(t, err)
	assert.Equal(t, types.ObslogMode("abc"), mode)
}

type evalFunc func(string) (string, error)

func (f evalFunc) Eval(script string) (string, error) { return f(script) }
