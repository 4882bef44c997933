package protocol

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// CommandKind identifies a self-invocation command.
type CommandKind int

const (
	// CommandLog prints the jj log for the current mode
	CommandLog CommandKind = iota
	// CommandHelp prints the help listing for the current mode
	CommandHelp
	// CommandShow runs jj show for a revision
	CommandShow
	// CommandJujutsu runs jj with arbitrary arguments
	CommandJujutsu
	// CommandOutput prints fixed text
	CommandOutput
	// CommandError prints fixed text as an error
	CommandError
)

var commandKinds = kindTable[CommandKind]{
	CommandLog:     "log",
	CommandHelp:    "help",
	CommandShow:    "show",
	CommandJujutsu: "jj",
	CommandOutput:  "output",
	CommandError:   "error",
}

func (k CommandKind) String() string { return commandKinds.name(k) }

// MarshalText implements encoding.TextMarshaler.
func (k CommandKind) MarshalText() ([]byte, error) { return commandKinds.marshal(k) }

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *CommandKind) UnmarshalText(b []byte) error { return commandKinds.unmarshal(k, b) }

// Command is something vjj can execute when re-invoked. Rev may be an fzf
// placeholder; Args and Text are literal and never substituted by fzf.
type Command struct {
	Kind CommandKind `json:"kind"`
	Rev  string      `json:"rev,omitempty"`
	Args []string    `json:"args,omitempty"`
	Text string      `json:"text,omitempty"`
}

// Log prints the log for the current mode and revset.
func Log() Command { return Command{Kind: CommandLog} }

// Help prints the key bindings of the current mode.
func Help() Command { return Command{Kind: CommandHelp} }

// Show runs `jj show rev`. rev may still be an fzf placeholder.
func Show(rev string) Command { return Command{Kind: CommandShow, Rev: rev} }

// Jujutsu runs jj with args.
func Jujutsu(args ...string) Command {
	if len(args) == 0 {
		args = nil
	}
	return Command{Kind: CommandJujutsu, Args: args}
}

// Output prints text.
func Output(text string) Command { return Command{Kind: CommandOutput, Text: text} }

// Error prints text as an error.
func Error(text string) Command { return Command{Kind: CommandError, Text: text} }

// MarshalJSON implements json.Marshaler, escaping braces in the literal
// fields so fzf finds no placeholders in them.
func (c Command) MarshalJSON() ([]byte, error) {
	var args []literal
	for _, a := range c.Args {
		args = append(args, literal(a))
	}
	return marshal(struct {
		Kind CommandKind `json:"kind"`
		Rev  string      `json:"rev,omitempty"`
		Args []literal   `json:"args,omitempty"`
		Text literal     `json:"text,omitempty"`
	}{c.Kind, c.Rev, args, literal(c.Text)})
}

// literal is a string whose braces are encoded as \u escapes.
type literal string

var braceEscaper = strings.NewReplacer("{", `\u007b`, "}", `\u007d`)

func (l literal) MarshalJSON() ([]byte, error) {
	b, err := marshal(string(l))
	if err != nil {
		return nil, err
	}
	// inside a JSON string every brace is content
	return []byte(braceEscaper.Replace(string(b))), nil
}

// marshal encodes v on a single line without HTML escaping.
func marshal(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

func (c Command) validate() error {
	if _, ok := commandKinds[c.Kind]; !ok {
		return fmt.Errorf("unknown command kind %d", int(c.Kind))
	}
	return nil
}
