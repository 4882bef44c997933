package keymap

import (
	"fmt"
	"strings"
)

// Key is a named special key.
type Key int

const (
	// NoKey marks a Bindable that is a sequence
	NoKey Key = iota
	Enter
	Esc
)

var keyNames = map[Key]string{
	Enter: "<enter>",
	Esc:   "<esc>",
}

const spaceName = "<space>"

// Bindable is something a keybind can be attached to: a special key or a
// sequence of typed characters.
type Bindable struct {
	Key      Key
	Sequence string
}

// SpecialKey returns the Bindable for a named key.
func SpecialKey(k Key) Bindable { return Bindable{Key: k} }

// Sequence returns the Bindable for typed characters.
func Sequence(keys string) Bindable { return Bindable{Sequence: keys} }

// IsSequence reports whether b is a typed sequence.
func (b Bindable) IsSequence() bool { return b.Key == NoKey }

// String renders b for help and which-key output. Spaces in sequences are
// spelled <space>.
func (b Bindable) String() string {
	if b.IsSequence() {
		return strings.ReplaceAll(b.Sequence, " ", spaceName)
	}
	return keyNames[b.Key]
}

// Compare orders special keys before sequences and otherwise compares the
// rendered form.
func (b Bindable) Compare(other Bindable) int {
	switch {
	case !b.IsSequence() && other.IsSequence():
		return -1
	case b.IsSequence() && !other.IsSequence():
		return 1
	case b.IsSequence():
		return strings.Compare(b.Sequence, other.Sequence)
	}
	return strings.Compare(b.String(), other.String())
}

// ParseBindable reads the form produced by String.
func ParseBindable(s string) (Bindable, error) {
	for k, name := range keyNames {
		if s == name {
			return SpecialKey(k), nil
		}
	}
	seq := strings.ReplaceAll(s, spaceName, " ")
	if seq == "" {
		return Bindable{}, fmt.Errorf("empty key")
	}
	return Sequence(seq), nil
}
