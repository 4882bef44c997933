// Package protocol defines the payloads vjj passes to itself through fzf.
//
// fzf runs `$SHELL -c <expr>` for transform and preview bindings, and vjj
// sets SHELL to its own executable. An Expression is therefore always encoded
// as a single string argument which fzf may substitute placeholders into.
package protocol

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/noahmayr/vjj/internal/errors"
)

// ExpressionKind identifies the payload an Expression carries.
type ExpressionKind int

const (
	// ExpressionHandler answers an fzf event
	ExpressionHandler ExpressionKind = iota
	// ExpressionCommand runs a command writing straight to stdout
	ExpressionCommand
	// ExpressionPaged runs a command with its output routed through the pager
	ExpressionPaged
)

var expressionKinds = kindTable[ExpressionKind]{
	ExpressionHandler: "handler",
	ExpressionCommand: "command",
	ExpressionPaged:   "paged",
}

func (k ExpressionKind) String() string { return expressionKinds.name(k) }

// MarshalText implements encoding.TextMarshaler.
func (k ExpressionKind) MarshalText() ([]byte, error) { return expressionKinds.marshal(k) }

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *ExpressionKind) UnmarshalText(b []byte) error { return expressionKinds.unmarshal(k, b) }

// Expression is the top level self-invocation payload.
type Expression struct {
	Kind        ExpressionKind `json:"kind"`
	Handler     *Handler       `json:"handler,omitempty"`
	Command     *Command       `json:"command,omitempty"`
	Interactive bool           `json:"interactive,omitempty"`
}

// HandlerExpression wraps an event handler.
func HandlerExpression(h Handler) Expression {
	return Expression{Kind: ExpressionHandler, Handler: &h}
}

// CommandExpression wraps a command executed without the pager.
func CommandExpression(c Command) Expression {
	return Expression{Kind: ExpressionCommand, Command: &c}
}

// PagedExpression wraps a command executed through the pager. Interactive
// commands get the terminal as stdin.
func PagedExpression(c Command, interactive bool) Expression {
	return Expression{Kind: ExpressionPaged, Command: &c, Interactive: interactive}
}

// Encode renders e as a single-line JSON document. Objects are never empty
// and braces in literal command text are \u escaped, so the only fzf
// placeholders in the output are the ones placed in revisions and handlers.
func Encode(e Expression) (string, error) {
	if err := e.validate(); err != nil {
		return "", errors.NewExpressionError("cannot encode expression", err)
	}
	b, err := marshal(e)
	if err != nil {
		return "", errors.NewExpressionError("cannot encode expression", err)
	}
	return string(b), nil
}

// Decode parses an encoded Expression.
func Decode(s string) (Expression, error) {
	var e Expression
	dec := json.NewDecoder(strings.NewReader(s))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&e); err != nil {
		return Expression{}, errors.NewExpressionError(fmt.Sprintf("cannot decode %q", s), err)
	}
	if dec.More() {
		return Expression{}, errors.NewExpressionError(fmt.Sprintf("trailing data in %q", s), nil)
	}
	if err := e.validate(); err != nil {
		return Expression{}, errors.NewExpressionError(fmt.Sprintf("invalid expression %q", s), err)
	}
	return e, nil
}

// String returns the encoded form, or an empty string if e is invalid.
func (e Expression) String() string {
	s, err := Encode(e)
	if err != nil {
		return ""
	}
	return s
}

func (e Expression) validate() error {
	switch e.Kind {
	case ExpressionHandler:
		if e.Handler == nil || e.Command != nil {
			return fmt.Errorf("handler expression must carry only a handler")
		}
		return e.Handler.validate()
	case ExpressionCommand, ExpressionPaged:
		if e.Command == nil || e.Handler != nil {
			return fmt.Errorf("%s expression must carry only a command", e.Kind)
		}
		if e.Kind == ExpressionCommand && e.Interactive {
			return fmt.Errorf("command expression cannot be interactive")
		}
		return e.Command.validate()
	}
	return fmt.Errorf("unknown expression kind %d", int(e.Kind))
}
