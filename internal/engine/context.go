package engine

import (
	"strings"

	"github.com/noahmayr/vjj/pkg/types"
)

// Variables are the placeholder names available to keymap templates.
var Variables = []string{
	"query",
	"change:focused",
	"change:selected",
	"change:selected_revset",
	"commit:focused",
	"commit:selected",
	"commit:selected_revset",
}

// Context is everything an invocation knows about the picker state.
type Context struct {
	Mode  types.Mode
	Query string
	// Revset is the active revset, empty when the default log is shown
	Revset    string
	Selection types.Selection
}

// Value implements template.Values.
func (c Context) Value(name string) (string, bool) {
	entity, field, ok := strings.Cut(name, ":")
	if !ok {
		if name == "query" {
			return c.Query, true
		}
		return "", false
	}

	var ids types.IDSelection
	switch entity {
	case "change":
		ids = c.Selection.Changes()
	case "commit":
		ids = c.Selection.Commits()
	default:
		return "", false
	}

	switch field {
	case "focused":
		return ids.Focused, ids.HasFocus()
	case "selected":
		return strings.Join(ids.Selected, "\n"), true
	case "selected_revset":
		return ids.SelectedRevset(), true
	}
	return "", false
}
