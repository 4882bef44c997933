// Package fzf holds the fzf action vocabulary and the launcher that starts
// fzf with vjj wired in as its callback shell.
package fzf

import (
	"fmt"
	"strings"

	"github.com/noahmayr/vjj/internal/errors"
	"github.com/noahmayr/vjj/internal/protocol"
	"github.com/noahmayr/vjj/pkg/types"
)

// ActionKind is one fzf action name.
type ActionKind int

const (
	KindClearQuery ActionKind = iota
	KindAbort
	KindUp
	KindDown
	KindChangePrompt
	KindChangeHeader
	KindChangeBorderLabel
	KindChangePreview
	KindChangePreviewLabel
	KindPreview
	KindBecome
	KindExecute
	KindExecuteSilent
	KindReload
)

var actionNames = map[ActionKind]string{
	KindClearQuery:         "clear-query",
	KindAbort:              "abort",
	KindUp:                 "up",
	KindDown:               "down",
	KindChangePrompt:       "change-prompt",
	KindChangeHeader:       "change-header",
	KindChangeBorderLabel:  "change-border-label",
	KindChangePreview:      "change-preview",
	KindChangePreviewLabel: "change-preview-label",
	KindPreview:            "preview",
	KindBecome:             "become",
	KindExecute:            "execute",
	KindExecuteSilent:      "execute-silent",
	KindReload:             "reload",
}

func (k ActionKind) String() string {
	if name, ok := actionNames[k]; ok {
		return name
	}
	return fmt.Sprintf("action(%d)", int(k))
}

type paramKind int

const (
	noParams paramKind = iota
	textParam
	modeParam
	commandParam
	pagedParam
)

func (k ActionKind) params() paramKind {
	switch k {
	case KindClearQuery, KindAbort, KindUp, KindDown:
		return noParams
	case KindChangePrompt:
		return modeParam
	case KindChangeHeader, KindChangeBorderLabel, KindChangePreviewLabel:
		return textParam
	case KindExecute:
		return pagedParam
	}
	return commandParam
}

// Action is a single fzf action. Only the fields relevant to Kind are set:
// Text for header and label changes, Mode for change-prompt, Command for
// the command carrying actions and Interactive for execute.
type Action struct {
	Kind        ActionKind
	Text        string
	Mode        types.Mode
	Command     protocol.Command
	Interactive bool
}

func Abort() Action { return Action{Kind: KindAbort} }
func ClearQuery() Action { return Action{Kind: KindClearQuery} }
func Up() Action { return Action{Kind: KindUp} }
func Down() Action { return Action{Kind: KindDown} }

// ChangePrompt switches the prompt, which is where the current mode lives.
func ChangePrompt(m types.Mode) Action { return Action{Kind: KindChangePrompt, Mode: m} }

func ChangeHeader(text string) Action { return Action{Kind: KindChangeHeader, Text: text} }

// ChangeBorderLabel sets the border label, which holds the active revset.
func ChangeBorderLabel(text string) Action {
	return Action{Kind: KindChangeBorderLabel, Text: text}
}

func ChangePreviewLabel(text string) Action {
	return Action{Kind: KindChangePreviewLabel, Text: text}
}

func ChangePreview(c protocol.Command) Action {
	return Action{Kind: KindChangePreview, Command: c}
}

func Preview(c protocol.Command) Action { return Action{Kind: KindPreview, Command: c} }
func Become(c protocol.Command) Action { return Action{Kind: KindBecome, Command: c} }
func Reload(c protocol.Command) Action { return Action{Kind: KindReload, Command: c} }

func ExecuteSilent(c protocol.Command) Action {
	return Action{Kind: KindExecuteSilent, Command: c}
}

// Execute runs c through the pager while fzf is suspended.
func Execute(c protocol.Command, interactive bool) Action {
	return Action{Kind: KindExecute, Command: c, Interactive: interactive}
}

// Params returns the text between the parentheses, or false for actions
// that take none.
func (a Action) Params() (string, bool) {
	switch a.Kind.params() {
	case textParam:
		return a.Text, true
	case modeParam:
		return a.Mode.String(), true
	case commandParam:
		return protocol.CommandExpression(a.Command).String(), true
	case pagedParam:
		return protocol.PagedExpression(a.Command, a.Interactive).String(), true
	}
	return "", false
}

// String renders the action the way fzf expects it in a bind or a
// transform result.
func (a Action) String() string {
	if params, ok := a.Params(); ok {
		return fmt.Sprintf("%s(%s)", a.Kind, params)
	}
	return a.Kind.String()
}

// Join renders an action list, e.g. "reload(...)+clear-query".
func Join(actions []Action) string {
	parts := make([]string, len(actions))
	for i, a := range actions {
		parts[i] = a.String()
	}
	return strings.Join(parts, "+")
}

// ParseAction decodes a single action produced by Action.String.
func ParseAction(s string) (Action, error) {
	name, params, hasParams := s, "", false
	if i := strings.IndexByte(s, '('); i >= 0 {
		if !strings.HasSuffix(s, ")") {
			return Action{}, errors.Newf("unterminated action %q", s)
		}
		name, params, hasParams = s[:i], s[i+1:len(s)-1], true
	}

	kind, ok := lookupAction(name)
	if !ok {
		return Action{}, errors.Newf("unknown action %q", name)
	}
	if (kind.params() != noParams) != hasParams {
		return Action{}, errors.Newf("wrong parameters for action %q", name)
	}

	a := Action{Kind: kind}
	switch kind.params() {
	case textParam:
		a.Text = params
	case modeParam:
		m, err := types.ParseMode(params)
		if err != nil {
			return Action{}, errors.Wrap(err, "change-prompt")
		}
		a.Mode = m
	case commandParam, pagedParam:
		expr, err := protocol.Decode(params)
		if err != nil {
			return Action{}, err
		}
		want := protocol.ExpressionCommand
		if kind == KindExecute {
			want = protocol.ExpressionPaged
		}
		if expr.Kind != want {
			return Action{}, errors.Newf("%s expects a %s expression, got %s", kind, want, expr.Kind)
		}
		a.Command = *expr.Command
		a.Interactive = expr.Interactive
	}
	return a, nil
}

func lookupAction(name string) (ActionKind, bool) {
	for kind, n := range actionNames {
		if n == name {
			return kind, true
		}
	}
	return 0, false
}
