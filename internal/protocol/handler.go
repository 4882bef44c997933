package protocol

import (
	"fmt"

	"github.com/noahmayr/vjj/pkg/types"
)

// HandlerKind identifies the fzf event a handler answers.
type HandlerKind int

const (
	// HandlerFocus answers focus changes
	HandlerFocus HandlerKind = iota
	// HandlerInput answers query changes and the enter/esc keys
	HandlerInput
)

var handlerKinds = kindTable[HandlerKind]{
	HandlerFocus: "focus",
	HandlerInput: "input",
}

func (k HandlerKind) String() string { return handlerKinds.name(k) }

// MarshalText implements encoding.TextMarshaler.
func (k HandlerKind) MarshalText() ([]byte, error) { return handlerKinds.marshal(k) }

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *HandlerKind) UnmarshalText(b []byte) error { return handlerKinds.unmarshal(k, b) }

// InputKind identifies what kind of input triggered an input handler.
type InputKind int

const (
	// InputChange is a query change; the query is the typed key sequence
	InputChange InputKind = iota
	// InputEnter is the enter key
	InputEnter
	// InputEsc is the escape key
	InputEsc
)

var inputKinds = kindTable[InputKind]{
	InputChange: "change",
	InputEnter:  "enter",
	InputEsc:    "esc",
}

func (k InputKind) String() string { return inputKinds.name(k) }

// MarshalText implements encoding.TextMarshaler.
func (k InputKind) MarshalText() ([]byte, error) { return inputKinds.marshal(k) }

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *InputKind) UnmarshalText(b []byte) error { return inputKinds.unmarshal(k, b) }

// Handler is an fzf event callback. Focus handlers carry the focused change
// and commit fields plus the name of the action that moved the cursor; input
// handlers carry the input kind and a selection snapshot.
type Handler struct {
	Kind      HandlerKind      `json:"kind"`
	Change    string           `json:"change,omitempty"`
	Commit    string           `json:"commit,omitempty"`
	Action    string           `json:"action,omitempty"`
	Input     InputKind        `json:"input,omitempty"`
	Selection *types.Selection `json:"selection,omitempty"`
}

// Focus builds a focus handler.
func Focus(change, commit, action string) Handler {
	return Handler{Kind: HandlerFocus, Change: change, Commit: commit, Action: action}
}

// Input builds an input handler.
func Input(kind InputKind, selection types.Selection) Handler {
	return Handler{Kind: HandlerInput, Input: kind, Selection: &selection}
}

func (h Handler) validate() error {
	switch h.Kind {
	case HandlerFocus:
		return nil
	case HandlerInput:
		if h.Selection == nil {
			return fmt.Errorf("input handler without selection")
		}
		return nil
	}
	return fmt.Errorf("unknown handler kind %d", int(h.Kind))
}
