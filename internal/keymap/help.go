package keymap

import (
	"fmt"
	"strings"

	"github.com/gobwas/glob"
	"github.com/rivo/uniseg"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/noahmayr/vjj/internal/errors"
)

// NoCommands is the help text for a mode without a keymap.
const NoCommands = "No Commands Available"

var upper = cases.Upper(language.Und)

// Help renders the full listing of a mode's bindings.
func Help(mode string, b Bindings) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "### %s MODE HELP ###", upper.String(mode))

	width := 0
	for _, e := range b.entries {
		width = max(width, uniseg.StringWidth(e.Key.String()))
	}
	for _, e := range b.entries {
		key := e.Key.String()
		sb.WriteString("\n")
		sb.WriteString(key)
		sb.WriteString(strings.Repeat(" ", width-uniseg.StringWidth(key)))
		sb.WriteString("  ")
		sb.WriteString(e.Bind.Help)
	}
	return sb.String()
}

// Filter keeps the bindings whose rendered key matches the glob pattern.
// An empty pattern keeps everything.
func Filter(b Bindings, pattern string) (Bindings, error) {
	if pattern == "" {
		return b, nil
	}
	g, err := glob.Compile(pattern)
	if err != nil {
		return Bindings{}, errors.NewConfigError("invalid key filter", pattern, errors.InvalidConfig, err)
	}
	var kept []Entry
	for _, e := range b.entries {
		if g.Match(e.Key.String()) {
			kept = append(kept, e)
		}
	}
	return Bindings{entries: kept}, nil
}
