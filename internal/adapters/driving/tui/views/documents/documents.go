// Package documents provides the documents list view for the TUI.
package documents

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/ragdesk/internal/adapters/driving/tui/components/confirm"
	"github.com/custodia-labs/ragdesk/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/ragdesk/internal/adapters/driving/tui/epoch"
	"github.com/custodia-labs/ragdesk/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/ragdesk/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/ragdesk/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/ragdesk/internal/core/domain"
	"github.com/custodia-labs/ragdesk/internal/core/ports/driving"
)

// View is the documents list view. The filter narrows rows that are
// already loaded; it never issues a request.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	documents driving.DocumentService
	ctx       context.Context

	all          []domain.Document
	visible      []domain.Document
	selected     int
	scrollOffset int
	loads        epoch.Counter
	loading      bool
	filtering    bool
	filter       *input.Field
	confirm      *confirm.Dialog
	width        int
	height       int
}

// NewView creates a new documents view.
func NewView(s *styles.Styles, km *keymap.KeyMap, documents driving.DocumentService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &View{
		styles:    s,
		keymap:    km,
		documents: documents,
		ctx:       context.Background(),
		filter:    input.NewField(s, "Filter", "filename or collection"),
		confirm:   confirm.New(s),
		width:     80,
		height:    24,
	}
}

// WithContext sets the context used for requests.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Enter is called when the section becomes active.
func (v *View) Enter() tea.Cmd {
	v.filtering = false
	v.filter.Blur()
	return v.Load()
}

// Load fetches the document list.
func (v *View) Load() tea.Cmd {
	seq := v.loads.Next()
	v.loading = true
	svc := v.documents
	ctx := v.ctx
	return func() tea.Msg {
		docs, err := svc.List(ctx)
		return messages.DocumentsLoaded{Seq: seq, Documents: docs, Err: err}
	}
}

// Update handles messages for the documents view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.DocumentsLoaded:
		if !v.loads.IsCurrent(msg.Seq) {
			return v, nil
		}
		v.loading = false
		if msg.Err != nil {
			return v, messages.Notify(domain.UserMessage(msg.Err, "Failed to load documents"), true)
		}
		v.all = msg.Documents
		v.applyFilter()
		return v, nil

	case messages.DocumentDeleted:
		status := messages.Notify(fmt.Sprintf("Document %d deleted", msg.ID), false)
		if msg.Err != nil {
			status = messages.Notify(domain.UserMessage(msg.Err, "Failed to delete document"), true)
		}
		// One list refresh and one scope refresh regardless of outcome.
		return v, tea.Batch(status, v.Load(), func() tea.Msg { return messages.ScopeRefreshRequested{} })
	}

	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	if v.confirm.Open() {
		var cmd tea.Cmd
		v.confirm, cmd = v.confirm.Update(msg)
		return v, cmd
	}
	if v.filtering {
		return v.handleFilterKey(msg)
	}

	switch key := msg.String(); {
	case keymap.Matches(key, v.keymap.Up):
		if v.selected > 0 {
			v.selected--
			v.adjustScroll()
		}
	case keymap.Matches(key, v.keymap.Down):
		if v.selected < len(v.visible)-1 {
			v.selected++
			v.adjustScroll()
		}
	case keymap.Matches(key, v.keymap.Filter):
		v.filtering = true
		return v, v.filter.Focus()
	case keymap.Matches(key, v.keymap.Select):
		if doc := v.Selected(); doc != nil {
			return v, messages.Navigate(messages.ViewChunks, doc.ID)
		}
	case keymap.Matches(key, v.keymap.Delete):
		if doc := v.Selected(); doc != nil {
			v.confirm.Ask(fmt.Sprintf("Delete document %q?", doc.Filename), v.deleteCmd(doc.ID))
		}
	case keymap.Matches(key, v.keymap.Refresh):
		return v, v.Load()
	case keymap.Matches(key, v.keymap.Back):
		if v.filter.Value() != "" {
			v.filter.Reset()
			v.applyFilter()
			return v, nil
		}
		return v, messages.Navigate(messages.ViewMenu, 0)
	}
	return v, nil
}

// handleFilterKey edits the filter. Enter keeps the term, esc clears it.
func (v *View) handleFilterKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		v.filtering = false
		v.filter.Blur()
		return v, nil
	case tea.KeyEsc:
		v.filtering = false
		v.filter.Blur()
		v.filter.Reset()
		v.applyFilter()
		return v, nil
	}

	var cmd tea.Cmd
	v.filter, cmd = v.filter.Update(msg)
	v.applyFilter()
	return v, cmd
}

func (v *View) applyFilter() {
	v.visible = domain.FilterDocuments(v.all, v.filter.Value())
	if v.selected >= len(v.visible) {
		v.selected = max(len(v.visible)-1, 0)
	}
	v.adjustScroll()
}

func (v *View) deleteCmd(id int64) tea.Cmd {
	svc := v.documents
	ctx := v.ctx
	return func() tea.Msg {
		return messages.DocumentDeleted{ID: id, Err: svc.Delete(ctx, id)}
	}
}

func (v *View) visibleRows() int {
	rows := v.height - 10
	if rows < 3 {
		rows = 3
	}
	return rows
}

func (v *View) adjustScroll() {
	rows := v.visibleRows()
	if v.selected < v.scrollOffset {
		v.scrollOffset = v.selected
	}
	if v.selected >= v.scrollOffset+rows {
		v.scrollOffset = v.selected - rows + 1
	}
	if v.scrollOffset > v.selected {
		v.scrollOffset = v.selected
	}
}

// View renders the documents table.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Documents"))
	b.WriteString("\n\n")

	if v.confirm.Open() {
		b.WriteString(v.confirm.View())
		return b.String()
	}

	if v.filtering || v.filter.Value() != "" {
		b.WriteString(v.filter.View())
		b.WriteString("\n\n")
	}

	switch {
	case v.loading && len(v.all) == 0:
		b.WriteString(v.styles.Muted.Render("Loading documents..."))
	case len(v.all) == 0:
		b.WriteString(v.styles.Muted.Render("No documents. Upload one from the Upload section."))
	case len(v.visible) == 0:
		b.WriteString(v.styles.Muted.Render("No documents match the filter"))
	default:
		b.WriteString(v.renderTable())
	}

	b.WriteString("\n\n")
	if v.filtering {
		b.WriteString(v.styles.Help.Render("[enter] Apply  [esc] Clear"))
	} else {
		b.WriteString(v.styles.Help.Render(
			"[j/k] Navigate  [enter] Chunks  [/] Filter  [d] Delete  [r] Refresh  [esc] Menu"))
	}
	return b.String()
}

func (v *View) renderTable() string {
	nameWidth := 20
	for _, d := range v.visible {
		nameWidth = max(nameWidth, len(d.Filename))
	}
	nameWidth = min(nameWidth, max(v.width-40, 20))

	lines := []string{v.styles.Subtitle.Render(
		fmt.Sprintf("  %5s  %-*s  %-16s  %6s", "ID", nameWidth, "Filename", "Collection", "Chunks"))}

	end := min(v.scrollOffset+v.visibleRows(), len(v.visible))
	for i := v.scrollOffset; i < end; i++ {
		d := v.visible[i]
		name := d.Filename
		if len(name) > nameWidth {
			name = name[:nameWidth-3] + "..."
		}
		row := fmt.Sprintf("%5d  %-*s  %-16s  %6d", d.ID, nameWidth, name, d.CollectionName, d.ChunkCount)
		if i == v.selected {
			lines = append(lines, "> "+v.styles.Selected.Render(row))
		} else {
			lines = append(lines, "  "+v.styles.Normal.Render(row))
		}
	}

	lines = append(lines, v.styles.Muted.Render(
		fmt.Sprintf("  %d of %d documents", len(v.visible), len(v.all))))
	return strings.Join(lines, "\n")
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.filter.SetWidth(width)
	v.adjustScroll()
}

// Documents returns the rows currently shown.
func (v *View) Documents() []domain.Document {
	return v.visible
}

// Selected returns the document under the cursor, or nil.
func (v *View) Selected() *domain.Document {
	if v.selected < 0 || v.selected >= len(v.visible) {
		return nil
	}
	return &v.visible[v.selected]
}

// Filtering reports whether the filter input has focus.
func (v *View) Filtering() bool {
	return v.filtering
}

// Confirming reports whether the delete confirmation is open.
func (v *View) Confirming() bool {
	return v.confirm.Open()
}
