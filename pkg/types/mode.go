package types

import (
	"fmt"
	"strings"
)

// ModeKind identifies the interaction mode of the picker
type ModeKind int

const (
	// Normal is the default mode for browsing the log
	Normal ModeKind = iota
	// Revset is the mode for typing a revision-set expression
	Revset
	// Obslog shows the evolution of a single revision
	Obslog
)

var modeNames = map[ModeKind]string{
	Normal: "normal",
	Revset: "revset",
	Obslog: "obslog",
}

// String returns the keymap name of the mode kind.
func (k ModeKind) String() string {
	if name, ok := modeNames[k]; ok {
		return name
	}
	return fmt.Sprintf("mode(%d)", int(k))
}

// Mode is the current interaction mode. Revision is only meaningful for
// Obslog, where it names the revision the log is scoped to.
type Mode struct {
	Kind     ModeKind
	Revision string
}

// NormalMode returns the default mode.
func NormalMode() Mode { return Mode{Kind: Normal} }

// RevsetMode returns the revset input mode.
func RevsetMode() Mode { return Mode{Kind: Revset} }

// ObslogMode returns an obslog mode scoped to rev.
func ObslogMode(rev string) Mode { return Mode{Kind: Obslog, Revision: rev} }

// Header is the static header shown when no which-key hint applies.
func (m Mode) Header() string {
	if m.Kind == Revset {
		return "Press ? for help, ctrl+c to quit"
	}
	return "Press ? for help, q to quit"
}

// Keymap returns the name of the keymap section used by the mode.
func (m Mode) Keymap() string {
	return m.Kind.String()
}

// String renders the mode as the fzf prompt, e.g. "NORMAL: " or "OBSLOG(xyz): ".
// ParseMode reverses it.
func (m Mode) String() string {
	name := strings.ToUpper(m.Kind.String())
	if m.Kind == Obslog {
		return fmt.Sprintf("%s(%s): ", name, m.Revision)
	}
	return name + ": "
}

// ParseMode decodes a prompt produced by Mode.String.
func ParseMode(prompt string) (Mode, error) {
	s := strings.TrimSuffix(strings.TrimRight(prompt, " "), ":")
	switch {
	case s == "NORMAL":
		return NormalMode(), nil
	case s == "REVSET":
		return RevsetMode(), nil
	case strings.HasPrefix(s, "OBSLOG(") && strings.HasSuffix(s, ")"):
		return ObslogMode(s[len("OBSLOG(") : len(s)-1]), nil
	}
	return Mode{}, fmt.Errorf("unrecognised mode prompt %q", prompt)
}
