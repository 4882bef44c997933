// Package clipboard writes yanked values to the system clipboard.
package clipboard

import (
	"github.com/atotto/clipboard"

	"github.com/noahmayr/vjj/internal/errors"
)

// Writer stores text in a clipboard.
type Writer interface {
	Write(text string) error
}

// System is the desktop clipboard. It shells out to pbcopy, xclip, xsel or
// wl-copy depending on the platform.
type System struct{}

// Write implements Writer.
func (System) Write(text string) error {
	if clipboard.Unsupported {
		return errors.NewProcessError("no clipboard utility found", "clipboard", errors.ClipboardFailed, nil)
	}
	if err := clipboard.WriteAll(text); err != nil {
		return errors.NewProcessError("cannot write clipboard", "clipboard", errors.ClipboardFailed, err)
	}
	return nil
}

// Memory keeps the last written value. It is used when no system clipboard
// is wanted, e.g. in tests.
type Memory struct {
	Text   string
	Writes int
}

// Write implements Writer.
func (m *Memory) Write(text string) error {
	m.Text = text
	m.Writes++
	return nil
}
