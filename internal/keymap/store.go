package keymap

import (
	"fmt"
	"slices"

	"github.com/noahmayr/vjj/internal/errors"
	"github.com/noahmayr/vjj/internal/template"
)

// Store is the loaded keymap document. A document that fails to parse still
// yields a Store; the error surfaces on the first Lookup so that the picker
// keeps running and can show it.
type Store struct {
	source string
	keymap KeyMap
	err    error
}

// LoadStore parses data, recording source for error messages.
func LoadStore(source string, data []byte) *Store {
	s := &Store{source: source}
	km, err := ParseKeyMap(data)
	if err != nil {
		s.err = errors.NewConfigError("cannot parse keymap", source, errors.InvalidConfig, err)
		return s
	}
	s.keymap = km
	return s
}

// FailedStore is a Store whose document could not be read.
func FailedStore(source string, err error) *Store {
	return &Store{source: source, err: err}
}

// NewStore wraps an already built keymap.
func NewStore(source string, km KeyMap) *Store {
	return &Store{source: source, keymap: km}
}

// Source names where the keymap was loaded from.
func (s *Store) Source() string { return s.source }

// Err returns the load error, if any.
func (s *Store) Err() error { return s.err }

// Lookup returns the bindings of mode.
func (s *Store) Lookup(mode string) (Bindings, error) {
	if s.err != nil {
		return Bindings{}, s.err
	}
	b, ok := s.keymap[mode]
	if !ok {
		return Bindings{}, errors.NewMissingKeymapError(mode)
	}
	return b, nil
}

// Modes lists the modes that have bindings.
func (s *Store) Modes() []string {
	if s.err != nil {
		return nil
	}
	return s.keymap.Modes()
}

// Validate checks that the document parsed, that every template in it
// parses, and that every placeholder is one of vars.
func (s *Store) Validate(vars []string) error {
	if s.err != nil {
		return s.err
	}
	for _, mode := range s.keymap.Modes() {
		for _, entry := range s.keymap[mode].Entries() {
			for _, action := range entry.Bind.Actions {
				for _, source := range action.Templates() {
					if err := validateTemplate(source, vars); err != nil {
						return errors.Wrapf(err, "%s: mode %s: key %q: %s", s.source, mode, entry.Key, action.Kind)
					}
				}
			}
		}
	}
	return nil
}

func validateTemplate(source string, vars []string) error {
	t, err := template.Parse(source)
	if err != nil {
		return err
	}
	for _, name := range t.Names() {
		if !slices.Contains(vars, name) {
			return errors.NewTemplateError(fmt.Sprintf("unknown variable %q", name), source, errors.TemplateParse, nil)
		}
	}
	return nil
}
