// Package keymap loads the per-mode key bindings and renders the which-key
// hints and help listings derived from them.
package keymap

import (
	"fmt"
	"slices"

	"gopkg.in/yaml.v3"
)

// Keybind is one keymap entry. An empty action list makes the key a prefix
// that is shown in hints but does nothing on its own.
type Keybind struct {
	Help    string       `yaml:"help"`
	Actions []UserAction `yaml:"actions,omitempty"`
}

// IsNoOp reports whether the keybind has no actions.
func (k Keybind) IsNoOp() bool { return len(k.Actions) == 0 }

// Entry pairs a key with its keybind.
type Entry struct {
	Key  Bindable
	Bind Keybind
}

// Bindings is the keymap of one mode, ordered by key.
type Bindings struct {
	entries []Entry
}

// NewBindings sorts entries into Bindings. Later duplicates are rejected.
func NewBindings(entries ...Entry) (Bindings, error) {
	sorted := slices.Clone(entries)
	slices.SortStableFunc(sorted, func(a, b Entry) int { return a.Key.Compare(b.Key) })
	for i := 1; i < len(sorted); i++ {
		if sorted[i-1].Key.Compare(sorted[i].Key) == 0 {
			return Bindings{}, fmt.Errorf("duplicate key %q", sorted[i].Key)
		}
	}
	return Bindings{entries: sorted}, nil
}

// Get looks up the keybind for key.
func (b Bindings) Get(key Bindable) (Keybind, bool) {
	i, found := slices.BinarySearchFunc(b.entries, key, func(e Entry, k Bindable) int {
		return e.Key.Compare(k)
	})
	if !found {
		return Keybind{}, false
	}
	return b.entries[i].Bind, true
}

// Entries returns the bindings in key order.
func (b Bindings) Entries() []Entry {
	return slices.Clone(b.entries)
}

// Len returns the number of bindings.
func (b Bindings) Len() int { return len(b.entries) }

// UnmarshalYAML implements yaml.Unmarshaler for a mapping of key to keybind.
func (b *Bindings) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: bindings must be a mapping", node.Line)
	}
	entries := make([]Entry, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode, valueNode := node.Content[i], node.Content[i+1]
		key, err := ParseBindable(keyNode.Value)
		if err != nil {
			return fmt.Errorf("line %d: %w", keyNode.Line, err)
		}
		var bind Keybind
		if err := valueNode.Decode(&bind); err != nil {
			return fmt.Errorf("key %q: %w", keyNode.Value, err)
		}
		entries = append(entries, Entry{Key: key, Bind: bind})
	}
	bindings, err := NewBindings(entries...)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*b = bindings
	return nil
}

// MarshalYAML implements yaml.Marshaler, keeping key order.
func (b Bindings) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, e := range b.entries {
		value := &yaml.Node{}
		if err := value.Encode(e.Bind); err != nil {
			return nil, err
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: e.Key.String()}, value)
	}
	return node, nil
}

// KeyMap maps a mode name to its bindings.
type KeyMap map[string]Bindings

// ParseKeyMap decodes a keymap document.
func ParseKeyMap(data []byte) (KeyMap, error) {
	km := KeyMap{}
	if err := yaml.Unmarshal(data, &km); err != nil {
		return nil, err
	}
	return km, nil
}

// Modes returns the mode names in sorted order.
func (km KeyMap) Modes() []string {
	modes := make([]string, 0, len(km))
	for mode := range km {
		modes = append(modes, mode)
	}
	slices.Sort(modes)
	return modes
}
