// Package status provides the status bar component for the TUI.
package status

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/ragdesk/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/ragdesk/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/ragdesk/internal/adapters/driving/tui/styles"
)

// Bar shows the latest notification and keybinding hints.
// Messages expire after the configured TTL; each message gets an id so an
// expiry scheduled for an older message never clears a newer one.
type Bar struct {
	styles  *styles.Styles
	keymap  *keymap.KeyMap
	ttl     time.Duration
	message string
	isError bool
	id      uint64
	section string
	width   int
}

// NewBar creates a new status bar. A non-positive ttl keeps messages until
// they are replaced or cleared.
func NewBar(s *styles.Styles, km *keymap.KeyMap, ttl time.Duration) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &Bar{
		styles: s,
		keymap: km,
		ttl:    ttl,
		width:  80,
	}
}

// SetStatus shows message and returns the command that expires it.
func (s *Bar) SetStatus(message string, isError bool) tea.Cmd {
	s.id++
	s.message = message
	s.isError = isError

	if s.ttl <= 0 {
		return nil
	}
	id := s.id
	return tea.Tick(s.ttl, func(time.Time) tea.Msg {
		return messages.StatusExpired{ID: id}
	})
}

// Status returns the current message and whether it is an error.
func (s *Bar) Status() (string, bool) {
	return s.message, s.isError
}

// ClearStatus removes the current message.
func (s *Bar) ClearStatus() {
	s.message = ""
	s.isError = false
}

// Update handles expiry ticks.
func (s *Bar) Update(msg tea.Msg) (*Bar, tea.Cmd) {
	if msg, ok := msg.(messages.StatusExpired); ok && msg.ID == s.id {
		s.ClearStatus()
	}
	return s, nil
}

// View renders the status bar.
func (s *Bar) View() string {
	left := s.renderLeft()
	right := s.renderRight()

	// Width includes the style's padding, so the content gets what is left.
	inner := s.width - s.styles.StatusBar.GetHorizontalFrameSize()
	padding := inner - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 1 {
		right = ""
		padding = inner - lipgloss.Width(left)
		if padding < 0 {
			padding = 0
		}
	}

	return s.styles.StatusBar.Width(s.width).MaxHeight(1).Render(
		left + strings.Repeat(" ", padding) + right,
	)
}

func (s *Bar) renderLeft() string {
	if s.message == "" {
		if s.section != "" {
			return s.styles.Muted.Render(s.section)
		}
		return s.styles.Muted.Render("Ready")
	}
	if s.isError {
		return s.styles.Error.Render("Error: " + s.message)
	}
	return s.styles.Success.Render(s.message)
}

func (s *Bar) renderRight() string {
	bindings := s.keymap.ShortHelp()
	hints := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		hints = append(hints, fmt.Sprintf("%s: %s", h.Key, h.Desc))
	}
	return s.styles.Muted.Render(strings.Join(hints, " | "))
}

// SetSection sets the label shown when there is no message.
func (s *Bar) SetSection(label string) {
	s.section = label
}

// SetWidth sets the status bar width.
func (s *Bar) SetWidth(width int) {
	s.width = width
}

// Width returns the current width.
func (s *Bar) Width() int {
	return s.width
}
