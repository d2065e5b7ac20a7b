// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/ragdesk/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/ragdesk/internal/core/domain"
)

// noneExpanded marks that no row shows its full content.
const noneExpanded = -1

// ResultList displays query results. Each row shows a truncated preview;
// at most one row at a time is expanded to its full chunk content.
type ResultList struct {
	results  []domain.QueryResult
	selected int
	expanded int
	styles   *styles.Styles
	width    int
	height   int
}

// NewResultList creates a new result list component.
func NewResultList(s *styles.Styles) *ResultList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &ResultList{
		expanded: noneExpanded,
		styles:   s,
		width:    80,
		height:   20,
	}
}

// Update handles list navigation and expansion keys.
func (r *ResultList) Update(msg tea.Msg) (*ResultList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			r.MoveUp()
		case "down", "j":
			r.MoveDown()
		case "enter", " ", "space":
			r.ToggleExpand(r.selected)
		}
	}
	return r, nil
}

// View renders the result list. It depends only on the list state.
func (r *ResultList) View() string {
	if len(r.results) == 0 {
		return r.styles.Muted.Render("No results")
	}

	lines := make([]string, 0, len(r.results)+2)
	lines = append(lines, r.styles.Subtitle.Render(fmt.Sprintf("Results (%d)", len(r.results))), "")

	start, end := r.visibleRange()
	for i := start; i < end; i++ {
		lines = append(lines, r.renderResult(i, r.results[i]))
	}

	return strings.Join(lines, "\n")
}

// visibleRange keeps the cursor row on screen. Rows take about three lines.
func (r *ResultList) visibleRange() (int, int) {
	visible := (r.height - 2) / 3
	if visible < 1 {
		visible = 1
	}
	start := 0
	if r.selected >= visible {
		start = r.selected - visible + 1
	}
	end := start + visible
	if end > len(r.results) {
		end = len(r.results)
	}
	return start, end
}

func (r *ResultList) renderResult(index int, result domain.QueryResult) string {
	indicator := "  "
	if index == r.selected {
		indicator = "> "
	}

	marker := "▸"
	if index == r.expanded {
		marker = "▾"
	}

	source := result.DocumentFilename
	if source == "" {
		source = "(unknown document)"
	}
	if result.CollectionName != "" {
		source += " · " + result.CollectionName
	}
	heading := fmt.Sprintf("%s%s Chunk %d  %s", indicator, marker, result.ChunkNumber, source)

	var head string
	if index == r.selected {
		head = r.styles.Selected.Render(heading) + "  " + r.styles.Distance.Render(result.FormattedDistance())
	} else {
		head = r.styles.Normal.Render(heading) + "  " + r.styles.Distance.Render(result.FormattedDistance())
	}

	body := result.Preview()
	if index == r.expanded {
		wrap := r.width - 6
		if wrap < 20 {
			wrap = 20
		}
		body = lipgloss.NewStyle().Width(wrap).Render(result.Content)
	}
	body = indent(body, "    ")

	return head + "\n" + r.styles.Muted.Render(body)
}

func indent(s, prefix string) string {
	parts := strings.Split(s, "\n")
	for i, p := range parts {
		parts[i] = prefix + p
	}
	return strings.Join(parts, "\n")
}

// SetResults replaces the list and clears expanded state.
func (r *ResultList) SetResults(results []domain.QueryResult) {
	r.results = results
	r.selected = 0
	r.expanded = noneExpanded
}

// Results returns the current results.
func (r *ResultList) Results() []domain.QueryResult {
	return r.results
}

// ToggleExpand closes the expanded row, if any, and opens row unless it was
// the row just closed.
func (r *ResultList) ToggleExpand(row int) {
	if row < 0 || row >= len(r.results) {
		return
	}
	wasOpen := r.expanded == row
	r.expanded = noneExpanded
	if !wasOpen {
		r.expanded = row
	}
}

// Expanded returns the index of the expanded row, or -1 if none.
func (r *ResultList) Expanded() int {
	return r.expanded
}

// Selected returns the index of the cursor row.
func (r *ResultList) Selected() int {
	return r.selected
}

// SetSelected sets the cursor row.
func (r *ResultList) SetSelected(index int) {
	if index >= 0 && index < len(r.results) {
		r.selected = index
	}
}

// MoveUp moves the cursor up.
func (r *ResultList) MoveUp() {
	if r.selected > 0 {
		r.selected--
	}
}

// MoveDown moves the cursor down.
func (r *ResultList) MoveDown() {
	if r.selected < len(r.results)-1 {
		r.selected++
	}
}

// SetDimensions sets the list dimensions.
func (r *ResultList) SetDimensions(width, height int) {
	r.width = width
	r.height = height
}

// Count returns the number of results.
func (r *ResultList) Count() int {
	return len(r.results)
}
