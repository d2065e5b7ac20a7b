// Package query provides the scoped query view for the TUI.
package query

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/ragdesk/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/ragdesk/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/ragdesk/internal/adapters/driving/tui/components/selector"
	"github.com/custodia-labs/ragdesk/internal/adapters/driving/tui/epoch"
	"github.com/custodia-labs/ragdesk/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/ragdesk/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/ragdesk/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/ragdesk/internal/core/domain"
	"github.com/custodia-labs/ragdesk/internal/core/ports/driving"
)

// Focus identifies which widget receives key presses.
type Focus int

const (
	FocusInput Focus = iota
	FocusScope
	FocusResults
)

// View is the query view: scope selector, query input and result list.
type View struct {
	styles   *styles.Styles
	keymap   *keymap.KeyMap
	input    *input.Field
	scope    *selector.Selector
	results  *list.ResultList
	queries  driving.QueryService
	names    driving.CollectionService
	ctx      context.Context
	queryEp  epoch.Counter
	scopeEp  epoch.Counter
	focus    Focus
	querying bool
	width    int
	height   int
}

// NewView creates a new query view.
func NewView(
	s *styles.Styles,
	km *keymap.KeyMap,
	queries driving.QueryService,
	names driving.CollectionService,
) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	v := &View{
		styles:  s,
		keymap:  km,
		input:   input.NewField(s, "Query", "Ask your documents..."),
		scope:   selector.New(s),
		results: list.NewResultList(s),
		queries: queries,
		names:   names,
		ctx:     context.Background(),
		width:   80,
		height:  24,
	}
	v.input.Focus()
	return v
}

// WithContext sets the context used for requests.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Enter is called when the section becomes active. It discards answers to
// requests made during a previous visit and reloads the scope options.
func (v *View) Enter() tea.Cmd {
	v.queryEp.Next()
	v.querying = false
	v.setFocus(FocusInput)
	return v.RefreshScope()
}

// RefreshScope reloads the collection names offered by the selector.
func (v *View) RefreshScope() tea.Cmd {
	seq := v.scopeEp.Next()
	names := v.names
	ctx := v.ctx
	return func() tea.Msg {
		got, err := names.Names(ctx)
		return messages.ScopeOptionsLoaded{Seq: seq, Names: got, Err: err}
	}
}

// Submit sends the current query text with the current scope.
func (v *View) Submit() tea.Cmd {
	seq := v.queryEp.Next()
	text := v.input.Value()
	scope := v.scope.Scope()
	queries := v.queries
	ctx := v.ctx
	v.querying = true

	return func() tea.Msg {
		results, err := queries.Query(ctx, text, scope)
		return messages.QueryCompleted{Seq: seq, Query: text, Results: results, Err: err}
	}
}

// Update handles messages for the query view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.ScopeOptionsLoaded:
		if !v.scopeEp.IsCurrent(msg.Seq) {
			return v, nil
		}
		if msg.Err != nil {
			return v, messages.Notify(domain.UserMessage(msg.Err, "Failed to load collections"), true)
		}
		v.scope.SetOptions(msg.Names)
		return v, nil

	case messages.QueryCompleted:
		return v.handleQueryCompleted(msg)
	}

	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	var cmd tea.Cmd

	switch key := msg.String(); {
	case keymap.Matches(key, v.keymap.Focus):
		v.setFocus((v.focus + 1) % 3)
		return v, nil
	case key == "shift+tab":
		v.setFocus((v.focus + 2) % 3)
		return v, nil
	case keymap.Matches(key, v.keymap.Back):
		return v, messages.Navigate(messages.ViewMenu, 0)
	}

	switch v.focus {
	case FocusInput:
		if msg.Type == tea.KeyEnter {
			return v, v.Submit()
		}
		v.input, cmd = v.input.Update(msg)
	case FocusScope:
		v.scope, cmd = v.scope.Update(msg)
	case FocusResults:
		v.results, cmd = v.results.Update(msg)
	}
	return v, cmd
}

// handleQueryCompleted renders results. On failure the previous results
// stay on screen and the error goes to the status bar.
func (v *View) handleQueryCompleted(msg messages.QueryCompleted) (*View, tea.Cmd) {
	if !v.queryEp.IsCurrent(msg.Seq) {
		return v, nil
	}
	v.querying = false

	if msg.Err != nil {
		return v, messages.Notify(domain.UserMessage(msg.Err, "Query failed"), true)
	}

	v.results.SetResults(msg.Results)
	if len(msg.Results) > 0 {
		v.setFocus(FocusResults)
	}
	return v, messages.Notify(fmt.Sprintf("%d results", len(msg.Results)), false)
}

func (v *View) setFocus(f Focus) {
	v.focus = f
	v.input.Blur()
	v.scope.Blur()
	switch f {
	case FocusInput:
		v.input.Focus()
	case FocusScope:
		v.scope.Focus()
	case FocusResults:
	}
}

// View renders the query view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Query"))
	b.WriteString("\n\n")
	b.WriteString(v.input.View())
	b.WriteString("\n")
	b.WriteString(v.styles.Muted.Render("Scope: "))
	b.WriteString(v.styles.Subtitle.Render(v.scope.Label()))
	b.WriteString("\n\n")

	scopeBox := v.styles.Border.Render(v.scope.View())
	resultBox := v.results.View()
	if v.querying {
		resultBox = v.styles.Muted.Render("Searching...") + "\n" + resultBox
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, scopeBox, "  ", resultBox))
	b.WriteString("\n\n")
	b.WriteString(v.styles.Help.Render(
		"[tab] Switch focus  [enter] Search/expand  [space] Toggle  [a] All  [esc] Menu"))

	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.input.SetWidth(width)
	listWidth := width - 30
	if listWidth < 40 {
		listWidth = 40
	}
	v.results.SetDimensions(listWidth, height-10)
}

// Focus returns the focused widget.
func (v *View) Focus() Focus {
	return v.focus
}

// Querying reports whether a query is in flight.
func (v *View) Querying() bool {
	return v.querying
}

// Results returns the result list component.
func (v *View) Results() *list.ResultList {
	return v.results
}

// Scope returns the scope selector component.
func (v *View) Scope() *selector.Selector {
	return v.scope
}

// SetQuery sets the query text.
func (v *View) SetQuery(text string) {
	v.input.SetValue(text)
}
