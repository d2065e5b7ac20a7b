// Package selector provides the collection scope selector for the TUI.
//
// The selector offers an "All collections" option followed by every known
// collection. Either the all option is selected, or a non-empty ordered set
// of concrete collections is; never both and never neither.
package selector

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/ragdesk/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/ragdesk/internal/core/domain"
)

// Selector is a multi-select list with an "all collections" sentinel.
// Row 0 is the sentinel; row i>0 is Options()[i-1].
type Selector struct {
	styles  *styles.Styles
	options []string
	// picked holds concrete names in selection order; empty means the
	// sentinel is selected.
	picked  []string
	cursor  int
	focused bool
}

// New creates a selector with only the sentinel option.
func New(s *styles.Styles) *Selector {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &Selector{styles: s}
}

// SetOptions replaces the available collections. Selections that still
// exist are kept in order; if none survive the sentinel is reselected.
func (s *Selector) SetOptions(names []string) {
	seen := make(map[string]bool, len(names))
	options := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" || n == domain.AllCollectionsMarker || seen[n] {
			continue
		}
		seen[n] = true
		options = append(options, n)
	}
	s.options = options

	kept := s.picked[:0:0]
	for _, p := range s.picked {
		if seen[p] {
			kept = append(kept, p)
		}
	}
	s.picked = kept

	if s.cursor > len(s.options) {
		s.cursor = len(s.options)
	}
}

// Options returns the concrete collection names.
func (s *Selector) Options() []string {
	return s.options
}

// Toggle flips the row at index. Row 0 selects the sentinel and clears
// every concrete name. A concrete row clears the sentinel; deselecting the
// last concrete name reselects the sentinel.
func (s *Selector) Toggle(index int) {
	if index < 0 || index > len(s.options) {
		return
	}
	if index == 0 {
		s.ToggleAll()
		return
	}

	name := s.options[index-1]
	for i, p := range s.picked {
		if p == name {
			s.picked = append(s.picked[:i:i], s.picked[i+1:]...)
			return
		}
	}
	s.picked = append(s.picked, name)
}

// ToggleAll selects the sentinel.
func (s *Selector) ToggleAll() {
	s.picked = nil
}

// AllSelected reports whether the sentinel is selected.
func (s *Selector) AllSelected() bool {
	return len(s.picked) == 0
}

// IsSelected reports whether the named option is selected. The marker
// "-" refers to the sentinel.
func (s *Selector) IsSelected(name string) bool {
	if name == domain.AllCollectionsMarker {
		return s.AllSelected()
	}
	for _, p := range s.picked {
		if p == name {
			return true
		}
	}
	return false
}

// Scope returns the selected scope.
func (s *Selector) Scope() domain.Scope {
	return domain.ScopeOf(s.picked...)
}

// Label returns the selection as shown to the user.
func (s *Selector) Label() string {
	return s.Scope().Label()
}

// Cursor returns the row under the cursor.
func (s *Selector) Cursor() int {
	return s.cursor
}

// Focus gives the selector keyboard focus.
func (s *Selector) Focus() {
	s.focused = true
}

// Blur removes keyboard focus.
func (s *Selector) Blur() {
	s.focused = false
}

// Focused reports whether the selector has focus.
func (s *Selector) Focused() bool {
	return s.focused
}

// Update handles cursor movement and toggling.
func (s *Selector) Update(msg tea.Msg) (*Selector, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			if s.cursor > 0 {
				s.cursor--
			}
		case "down", "j":
			if s.cursor < len(s.options) {
				s.cursor++
			}
		case " ", "space", "enter":
			s.Toggle(s.cursor)
		case "a":
			s.ToggleAll()
		}
	}
	return s, nil
}

// View renders the option list from the selection state.
func (s *Selector) View() string {
	var b strings.Builder

	b.WriteString(s.renderRow(0, domain.AllCollectionsLabel, s.AllSelected()))
	for i, name := range s.options {
		b.WriteString("\n")
		b.WriteString(s.renderRow(i+1, name, s.IsSelected(name)))
	}
	return b.String()
}

func (s *Selector) renderRow(index int, label string, checked bool) string {
	cursor := "  "
	if s.focused && index == s.cursor {
		cursor = "> "
	}
	box := "[ ] "
	if checked {
		box = s.styles.Checked.Render("[x]") + " "
	}
	text := s.styles.Normal.Render(label)
	if s.focused && index == s.cursor {
		text = s.styles.Selected.Render(label)
	}
	return cursor + box + text
}
