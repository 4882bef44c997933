package keymap

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/rivo/uniseg"
)

// Styles colours keys in hints: no-op prefixes and real bindings differ.
type Styles struct {
	NoOp    lipgloss.Style
	Binding lipgloss.Style
}

// NewStyles builds Styles for a fixed colour profile. vjj output is read by
// fzf rather than a terminal, so the profile cannot be detected.
func NewStyles(profile termenv.Profile) Styles {
	r := lipgloss.NewRenderer(io.Discard)
	r.SetColorProfile(profile)
	return Styles{
		NoOp:    r.NewStyle().Foreground(lipgloss.Color("4")),
		Binding: r.NewStyle().Foreground(lipgloss.Color("1")),
	}
}

// DefaultStyles uses basic ANSI colours, which fzf --ansi understands.
func DefaultStyles() Styles { return NewStyles(termenv.ANSI) }

// PlainStyles renders without any escape codes.
func PlainStyles() Styles { return NewStyles(termenv.Ascii) }

func (s Styles) key(e Entry) lipgloss.Style {
	if e.Bind.IsNoOp() {
		return s.NoOp
	}
	return s.Binding
}

// WhichKey renders the continuations of partial: every sequence exactly one
// character longer that starts with it. It returns false when there are none.
// The hint is laid out in two columns separated by " │ ".
func WhichKey(b Bindings, partial string, styles Styles) (string, bool) {
	want := uniseg.GraphemeClusterCount(partial) + 1
	var options []Entry
	for _, e := range b.entries {
		if !e.Key.IsSequence() || !strings.HasPrefix(e.Key.Sequence, partial) {
			continue
		}
		if uniseg.GraphemeClusterCount(e.Key.Sequence) == want {
			options = append(options, e)
		}
	}
	if len(options) == 0 {
		return "", false
	}

	split := (len(options) + 1) / 2
	left := alignColumn(options[:split], styles)
	right := alignColumn(options[split:], styles)

	width := 0
	for _, line := range left {
		width = max(width, lipgloss.Width(line))
	}

	rows := make([]string, len(left))
	for i, line := range left {
		var r string
		if i < len(right) {
			r = right[i]
		}
		row := line + strings.Repeat(" ", width-lipgloss.Width(line)) + " │ " + r
		rows[i] = strings.TrimRight(row, " ")
	}
	return strings.Join(rows, "\n"), true
}

func alignColumn(entries []Entry, styles Styles) []string {
	width := 0
	for _, e := range entries {
		width = max(width, uniseg.StringWidth(e.Key.String()))
	}
	lines := make([]string, len(entries))
	for i, e := range entries {
		key := e.Key.String()
		padded := key + strings.Repeat(" ", width-uniseg.StringWidth(key))
		lines[i] = styles.key(e).Render(padded) + "  " + e.Bind.Help
	}
	return lines
}
