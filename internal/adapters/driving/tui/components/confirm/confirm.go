// Package confirm provides a yes/no confirmation dialog for the TUI.
package confirm

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/ragdesk/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/ragdesk/internal/adapters/driving/tui/styles"
)

// Dialog asks a question and runs a command if the user agrees.
// While open it captures every key press.
type Dialog struct {
	styles *styles.Styles
	keymap *keymap.KeyMap
	prompt string
	onYes  tea.Cmd
	open   bool
}

// New creates a closed dialog.
func New(s *styles.Styles) *Dialog {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &Dialog{styles: s, keymap: keymap.DefaultKeyMap()}
}

// Ask opens the dialog with prompt. onYes runs if the user confirms.
func (d *Dialog) Ask(prompt string, onYes tea.Cmd) {
	d.prompt = prompt
	d.onYes = onYes
	d.open = true
}

// Open reports whether the dialog is showing.
func (d *Dialog) Open() bool {
	return d.open
}

// Prompt returns the current question.
func (d *Dialog) Prompt() string {
	return d.prompt
}

// Update answers the dialog. Keys other than confirm or deny are ignored.
func (d *Dialog) Update(msg tea.Msg) (*Dialog, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || !d.open {
		return d, nil
	}

	switch {
	case keymap.Matches(keyMsg.String(), d.keymap.Confirm):
		cmd := d.onYes
		d.close()
		return d, cmd
	case keymap.Matches(keyMsg.String(), d.keymap.Deny):
		d.close()
	}
	return d, nil
}

func (d *Dialog) close() {
	d.open = false
	d.onYes = nil
	d.prompt = ""
}

// View renders the dialog, or nothing when closed.
func (d *Dialog) View() string {
	if !d.open {
		return ""
	}
	var b strings.Builder
	b.WriteString(d.styles.Warning.Render(d.prompt))
	b.WriteString("\n\n")
	b.WriteString(d.styles.Help.Render("[y] Yes  [n/esc] No"))
	return d.styles.Modal.Render(b.String())
}
