package types

import (
	"fmt"
	"strings"
)

// IDPair is the raw (focused, selected) payload fzf substitutes for one
// entity. Each id arrives single-quoted; selected ids are space separated.
type IDPair struct {
	Focused  string `json:"focused"`
	Selected string `json:"selected"`
}

// Selection is the raw selection snapshot for changes and commits.
type Selection struct {
	Change IDPair `json:"change"`
	Commit IDPair `json:"commit"`
}

// SelectionTemplate returns a selection made of fzf field placeholders, to be
// substituted by fzf before vjj is invoked.
func SelectionTemplate(changeIndex, commitIndex int) Selection {
	return Selection{
		Change: IDPair{
			Focused:  fmt.Sprintf("{%d}", changeIndex),
			Selected: fmt.Sprintf("{+%d}", changeIndex),
		},
		Commit: IDPair{
			Focused:  fmt.Sprintf("{%d}", commitIndex),
			Selected: fmt.Sprintf("{+%d}", commitIndex),
		},
	}
}

// Changes returns the parsed change id selection.
func (s Selection) Changes() IDSelection {
	return parseIDs(s.Change)
}

// Commits returns the parsed commit id selection.
func (s Selection) Commits() IDSelection {
	return parseIDs(s.Commit)
}

// IDSelection is a parsed IDPair. Focused is empty when no row has focus.
type IDSelection struct {
	Focused  string
	Selected []string
}

// HasFocus reports whether a row is focused.
func (s IDSelection) HasFocus() bool {
	return s.Focused != ""
}

// SelectedRevset joins the selected ids into a revset union.
func (s IDSelection) SelectedRevset() string {
	return strings.Join(s.Selected, "|")
}

// TrimQuotes strips the single quotes fzf wraps substituted fields in.
func TrimQuotes(id string) string {
	return strings.Trim(id, "'")
}

func parseIDs(pair IDPair) IDSelection {
	var selected []string
	for _, id := range strings.Fields(pair.Selected) {
		selected = append(selected, TrimQuotes(id))
	}
	return IDSelection{
		Focused:  TrimQuotes(pair.Focused),
		Selected: selected,
	}
}
