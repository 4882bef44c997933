package main

import (
	"context"
	"fmt"
	"os"

	"github.com/noahmayr/vjj/internal/config"
	"github.com/noahmayr/vjj/internal/engine"
	"github.com/noahmayr/vjj/internal/errors"
	"github.com/noahmayr/vjj/internal/fzf"
	"github.com/noahmayr/vjj/internal/log"
	"github.com/noahmayr/vjj/internal/protocol"
	"github.com/noahmayr/vjj/pkg/types"
)

// Fields of a log line, counted from 1 as fzf does: graph, change id,
// commit id, then the description.
const (
	changeField = 2
	commitField = 3
)

// launch starts the picker in normal mode.
func (a *app) launch(ctx context.Context) error {
	self, err := os.Executable()
	if err != nil {
		return errors.Wrap(err, "cannot locate the vjj executable")
	}
	log.LogWithFields(log.F("fzf", a.cfg.Fzf), log.F("self", self)).Info("launching picker")

	b := pickerArgs(a.cfg.Fzf, a.newEngine(a.cfg.Runner()))
	return b.Run(ctx, self)
}

// pickerArgs builds the fzf command line. Every binding that needs vjj is an
// expression fzf hands back through $SHELL.
func pickerArgs(program string, e *engine.Engine) *fzf.Builder {
	mode := types.NormalMode()
	selection := types.SelectionTemplate(changeField, commitField)
	field := func(i int) string { return fmt.Sprintf("{%d}", i) }

	return fzf.NewBuilder(program).
		Flag("ansi").
		Flag("no-cycle").
		Flag("no-sort").
		Flag("no-info").
		Flag("multi").
		Flag("phony").
		FlagValue("color", "header:-1").
		FlagValue("with-nth", "1,4..").
		FlagValue("layout", "reverse-list").
		FlagValue("height", "100%").
		FlagValue("preview-window", "right").
		FlagValue("delimiter", config.Delimiter).
		FlagValue("prompt", mode).
		FlagValue("header", e.Header(mode, "")).
		FlagValue("preview", protocol.CommandExpression(protocol.Show(field(commitField)))).
		Bind(fzf.BindActions(fzf.Start, fzf.Reload(protocol.Log()))).
		Bind(fzf.BindTransform(fzf.Change, protocol.Input(protocol.InputChange, selection))).
		Bind(fzf.BindTransform(fzf.Enter, protocol.Input(protocol.InputEnter, selection))).
		Bind(fzf.BindTransform(fzf.Esc, protocol.Input(protocol.InputEsc, selection))).
		Bind(fzf.BindTransform(fzf.Focus, protocol.Focus(field(changeField), field(commitField), "{fzf:action}")))
}
