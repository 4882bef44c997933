// Package engine turns key presses into fzf actions: it resolves keys against
// the keymap of the current mode and compiles the bound user actions.
package engine

import (
	"strings"

	"github.com/noahmayr/vjj/internal/clipboard"
	"github.com/noahmayr/vjj/internal/errors"
	"github.com/noahmayr/vjj/internal/fzf"
	"github.com/noahmayr/vjj/internal/keymap"
	"github.com/noahmayr/vjj/internal/log"
	"github.com/noahmayr/vjj/internal/protocol"
	"github.com/noahmayr/vjj/internal/runner"
	"github.com/noahmayr/vjj/pkg/types"
)

// HelpKey opens the help listing in every mode, whatever the keymap says.
var HelpKey = keymap.Sequence("?")

// Engine dispatches keys for one invocation.
type Engine struct {
	store     *keymap.Store
	runner    runner.Runner
	clipboard clipboard.Writer
	styles    keymap.Styles
}

// Option configures an Engine.
type Option func(*Engine)

// WithStyles overrides the which-key colours.
func WithStyles(s keymap.Styles) Option {
	return func(e *Engine) { e.styles = s }
}

// New creates an Engine.
func New(store *keymap.Store, r runner.Runner, clip clipboard.Writer, opts ...Option) *Engine {
	e := &Engine{
		store:     store,
		runner:    r,
		clipboard: clip,
		styles:    keymap.DefaultStyles(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// WhichKey returns the hint for partial in mode, or false when there is none
// or the keymap is unavailable.
func (e *Engine) WhichKey(mode types.Mode, partial string) (string, bool) {
	b, err := e.store.Lookup(mode.Keymap())
	if err != nil {
		return "", false
	}
	return keymap.WhichKey(b, partial, e.styles)
}

// Header is the which-key hint for partial, falling back to the mode header.
func (e *Engine) Header(mode types.Mode, partial string) string {
	if hint, ok := e.WhichKey(mode, partial); ok {
		return hint
	}
	return mode.Header()
}

// HelpText renders the help listing for mode.
func (e *Engine) HelpText(mode types.Mode) (string, error) {
	b, err := e.store.Lookup(mode.Keymap())
	if errors.IsMissingKeymap(err) {
		return keymap.NoCommands, nil
	}
	if err != nil {
		return "", err
	}
	return keymap.Help(mode.Keymap(), b), nil
}

// Dispatch resolves key in the current mode. When the key does nothing the
// second result is false and the actions only refresh the header hint.
func (e *Engine) Dispatch(key keymap.Bindable, ctx Context) ([]fzf.Action, bool) {
	if key == HelpKey {
		return []fzf.Action{fzf.Execute(protocol.Help(), false)}, true
	}

	b, err := e.store.Lookup(ctx.Mode.Keymap())
	if err != nil {
		log.LogWithError(err).Warn("keymap unavailable")
		return []fzf.Action{errorAction(err)}, true
	}

	kb, ok := b.Get(key)
	if !ok || kb.IsNoOp() {
		return []fzf.Action{fzf.ChangeHeader(e.Header(ctx.Mode, ctx.Query))}, false
	}

	log.LogWithFields(log.F("key", key.String()), log.F("mode", ctx.Mode.Keymap())).Debugf("dispatching %d actions", len(kb.Actions))
	actions := []fzf.Action{fzf.ChangeHeader(e.Header(ctx.Mode, ""))}
	return append(actions, e.CompileAll(kb.Actions, ctx)...), true
}

// Input answers an input handler: the query is the typed sequence, enter
// and esc are special keys. Handled keys clear the query.
func (e *Engine) Input(kind protocol.InputKind, ctx Context) []fzf.Action {
	var key keymap.Bindable
	switch kind {
	case protocol.InputEnter:
		key = keymap.SpecialKey(keymap.Enter)
	case protocol.InputEsc:
		key = keymap.SpecialKey(keymap.Esc)
	default:
		key = keymap.Sequence(ctx.Query)
	}

	actions, ok := e.Dispatch(key, ctx)
	if ok {
		actions = append(actions, fzf.ClearQuery())
	}
	return actions
}

// Focus answers a focus handler. Rows without ids (graph lines) are skipped
// in the direction the cursor was moving.
func (e *Engine) Focus(change, commit, action string) []fzf.Action {
	if types.TrimQuotes(change) == "" || types.TrimQuotes(commit) == "" {
		if action == "up" {
			return []fzf.Action{fzf.Up()}
		}
		return []fzf.Action{fzf.Down()}
	}
	return []fzf.Action{
		fzf.ChangePreview(protocol.Show(commit)),
		fzf.ChangePreviewLabel("Preview (jj show)"),
	}
}

// CompileAll compiles actions in order. A failing action is replaced by an
// action showing its error and the rest still compile.
func (e *Engine) CompileAll(actions []keymap.UserAction, ctx Context) []fzf.Action {
	var out []fzf.Action
	for _, a := range actions {
		compiled, err := e.Compile(a, ctx)
		if err != nil {
			log.LogWithError(err).Warnf("action %s failed", a.Kind)
			out = append(out, errorAction(err))
			continue
		}
		out = append(out, compiled...)
	}
	return out
}

// Compile turns one user action into fzf actions.
func (e *Engine) Compile(a keymap.UserAction, ctx Context) ([]fzf.Action, error) {
	switch a.Kind {
	case keymap.Quit:
		return []fzf.Action{fzf.Abort()}, nil

	case keymap.ReloadLog:
		return []fzf.Action{
			fzf.Reload(protocol.Log()),
			fzf.ChangeHeader(e.Header(ctx.Mode, ctx.Query)),
		}, nil

	case keymap.SwitchMode:
		mode, err := a.Mode.Resolve(ctx, e.runner)
		if err != nil {
			return nil, err
		}
		return []fzf.Action{
			fzf.ChangePrompt(mode),
			fzf.ChangeHeader(e.Header(mode, ctx.Query)),
			fzf.Reload(protocol.Log()),
		}, nil

	case keymap.Jujutsu:
		args, err := renderArgs(a.Args, ctx)
		if err != nil {
			return nil, err
		}
		output, err := e.runner.Capture(args)
		if err != nil {
			return nil, err
		}
		return []fzf.Action{
			fzf.Reload(protocol.Log()),
			fzf.ChangePreview(protocol.Output(output)),
			fzf.ChangePreviewLabel("Output (jj " + strings.Join(args, " ") + ")"),
		}, nil

	case keymap.JujutsuPaged, keymap.JujutsuInteractive:
		args, err := renderArgs(a.Args, ctx)
		if err != nil {
			return nil, err
		}
		return []fzf.Action{
			fzf.Execute(protocol.Jujutsu(args...), a.Kind == keymap.JujutsuInteractive),
			fzf.Reload(protocol.Log()),
		}, nil

	case keymap.Yank:
		value, err := a.Command.Resolve(ctx, e.runner)
		if err != nil {
			return nil, err
		}
		if err := e.clipboard.Write(value); err != nil {
			return nil, err
		}
		return nil, nil

	case keymap.ChangeRevset:
		value, err := a.Command.Resolve(ctx, e.runner)
		if err != nil {
			return nil, err
		}
		return []fzf.Action{
			fzf.ChangeBorderLabel(value),
			fzf.Reload(protocol.Log()),
		}, nil

	case keymap.Accept:
		value, err := a.Command.Resolve(ctx, e.runner)
		if err != nil {
			return nil, err
		}
		return []fzf.Action{fzf.Become(protocol.Output(value))}, nil
	}
	return nil, errors.Newf("unknown action %s", a.Kind)
}

func renderArgs(args []string, ctx Context) ([]string, error) {
	rendered := make([]string, len(args))
	for i, arg := range args {
		r, err := keymap.Plain(arg).Render(ctx)
		if err != nil {
			return nil, err
		}
		rendered[i] = r.Text
	}
	return rendered, nil
}

func errorAction(err error) fzf.Action {
	return fzf.Execute(protocol.Error(err.Error()), false)
}
