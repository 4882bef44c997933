package protocol

import (
	"fmt"
)

// kindTable maps the integer tags of the protocol to their wire names.
type kindTable[K ~int] map[K]string

func (t kindTable[K]) name(k K) string {
	if name, ok := t[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

func (t kindTable[K]) marshal(k K) ([]byte, error) {
	name, ok := t[k]
	if !ok {
		return nil, fmt.Errorf("unknown kind %d", int(k))
	}
	return []byte(name), nil
}

func (t kindTable[K]) unmarshal(k *K, b []byte) error {
	for kind, name := range t {
		if name == string(b) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unknown kind %q", string(b))
}
