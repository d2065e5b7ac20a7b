// Package collections provides the collections management view for the TUI.
package collections

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

// View lists collections with their document and chunk counts and lets the
// user create and delete collections.
type View struct {
	styles      *styles.Styles
	keymap      *keymap.KeyMap
	collections driving.CollectionService
	ctx         context.Context

	stats    []domain.CollectionStats
	selected int
	loads    epoch.Counter
	loading  bool
	creating bool
	name     *input.Field
	confirm  *confirm.Dialog
	width    int
	height   int
}

// NewView creates a new collections view.
func NewView(s *styles.Styles, km *keymap.KeyMap, collections driving.CollectionService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &View{
		styles:      s,
		keymap:      km,
		collections: collections,
		ctx:         context.Background(),
		name:        input.NewField(s, "New collection", "collection name"),
		confirm:     confirm.New(s),
		width:       80,
		height:      24,
	}
}

// WithContext sets the context used for requests.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Enter is called when the section becomes active.
func (v *View) Enter() tea.Cmd {
	v.creating = false
	v.name.Blur()
	return v.Load()
}

// Load fetches collections and recomputes their counts.
func (v *View) Load() tea.Cmd {
	seq := v.loads.Next()
	v.loading = true
	svc := v.collections
	ctx := v.ctx
	return func() tea.Msg {
		stats, err := svc.List(ctx)
		return messages.CollectionsLoaded{Seq: seq, Stats: stats, Err: err}
	}
}

// Update handles messages for the collections view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.CollectionsLoaded:
		if !v.loads.IsCurrent(msg.Seq) {
			return v, nil
		}
		v.loading = false
		if msg.Err != nil {
			return v, messages.Notify(domain.UserMessage(msg.Err, "Failed to load collections"), true)
		}
		v.stats = msg.Stats
		if v.selected >= len(v.stats) {
			v.selected = max(len(v.stats)-1, 0)
		}
		return v, nil

	case messages.CollectionCreated:
		status := messages.Notify(fmt.Sprintf("Collection %q created", msg.Name), false)
		if msg.Err != nil {
			status = messages.Notify(domain.UserMessage(msg.Err, "Failed to create collection"), true)
		}
		return v, tea.Batch(status, v.afterMutation())

	case messages.CollectionDeleted:
		status := messages.Notify(fmt.Sprintf("Collection %q deleted", msg.Name), false)
		if msg.Err != nil {
			status = messages.Notify(domain.UserMessage(msg.Err, "Failed to delete collection"), true)
		}
		return v, tea.Batch(status, v.afterMutation())
	}

	return v, nil
}

// afterMutation refreshes the list and the query scope selector once each,
// whether or not the mutation succeeded.
func (v *View) afterMutation() tea.Cmd {
	return tea.Batch(v.Load(), func() tea.Msg { return messages.ScopeRefreshRequested{} })
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	if v.confirm.Open() {
		var cmd tea.Cmd
		v.confirm, cmd = v.confirm.Update(msg)
		return v, cmd
	}
	if v.creating {
		return v.handleCreateKey(msg)
	}

	switch key := msg.String(); {
	case keymap.Matches(key, v.keymap.Up):
		if v.selected > 0 {
			v.selected--
		}
	case keymap.Matches(key, v.keymap.Down):
		if v.selected < len(v.stats)-1 {
			v.selected++
		}
	case keymap.Matches(key, v.keymap.New):
		v.creating = true
		v.name.Reset()
		return v, v.name.Focus()
	case keymap.Matches(key, v.keymap.Delete):
		if c := v.Selected(); c != nil {
			v.confirm.Ask(
				fmt.Sprintf("Delete collection %q and all its documents?", c.Name),
				v.deleteCmd(c.Name),
			)
		}
	case keymap.Matches(key, v.keymap.Refresh):
		return v, v.Load()
	case keymap.Matches(key, v.keymap.Back):
		return v, messages.Navigate(messages.ViewMenu, 0)
	}
	return v, nil
}

func (v *View) handleCreateKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		v.creating = false
		v.name.Blur()
		return v, nil
	case tea.KeyEnter:
		return v, v.submitCreate()
	}

	var cmd tea.Cmd
	v.name, cmd = v.name.Update(msg)
	return v, cmd
}

// submitCreate validates the typed name. A blank name is rejected here and
// no request is made.
func (v *View) submitCreate() tea.Cmd {
	name, err := domain.ValidateCollectionName(v.name.Value())
	if err != nil {
		return messages.Notify(domain.UserMessage(err, "Invalid collection name"), true)
	}

	v.creating = false
	v.name.Blur()
	v.name.Reset()

	svc := v.collections
	ctx := v.ctx
	return func() tea.Msg {
		return messages.CollectionCreated{Name: name, Err: svc.Create(ctx, name)}
	}
}

func (v *View) deleteCmd(name string) tea.Cmd {
	svc := v.collections
	ctx := v.ctx
	return func() tea.Msg {
		return messages.CollectionDeleted{Name: name, Err: svc.Delete(ctx, name)}
	}
}

// View renders the collections table.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Collections"))
	b.WriteString("\n\n")

	if v.confirm.Open() {
		b.WriteString(v.confirm.View())
		return b.String()
	}

	switch {
	case v.loading && len(v.stats) == 0:
		b.WriteString(v.styles.Muted.Render("Loading collections..."))
	case len(v.stats) == 0:
		b.WriteString(v.styles.Muted.Render("No collections"))
	default:
		b.WriteString(v.renderTable())
	}
	b.WriteString("\n\n")

	if v.creating {
		b.WriteString(v.name.View())
		b.WriteString("\n")
		b.WriteString(v.styles.Help.Render("[enter] Create  [esc] Cancel"))
		return b.String()
	}

	b.WriteString(v.styles.Help.Render("[j/k] Navigate  [n] New  [d] Delete  [r] Refresh  [esc] Menu"))
	return b.String()
}

func (v *View) renderTable() string {
	nameWidth := 10
	for _, s := range v.stats {
		nameWidth = max(nameWidth, len(s.Name))
	}

	lines := make([]string, 0, len(v.stats)+2)
	lines = append(lines, v.styles.Subtitle.Render(
		fmt.Sprintf("  %-*s  %9s  %6s", nameWidth, "Name", "Documents", "Chunks")))

	docs, chunks := 0, 0
	for i, s := range v.stats {
		row := fmt.Sprintf("%-*s  %9d  %6d", nameWidth, s.Name, s.DocumentCount, s.ChunkCount)
		if i == v.selected {
			lines = append(lines, "> "+v.styles.Selected.Render(row))
		} else {
			lines = append(lines, "  "+v.styles.Normal.Render(row))
		}
		docs += s.DocumentCount
		chunks += s.ChunkCount
	}
	lines = append(lines, v.styles.Muted.Render(
		fmt.Sprintf("  %d collections, %d documents, %d chunks", len(v.stats), docs, chunks)))

	return strings.Join(lines, "\n")
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.name.SetWidth(width)
}

// Stats returns the loaded collection statistics.
func (v *View) Stats() []domain.CollectionStats {
	return v.stats
}

// Selected returns the collection under the cursor, or nil.
func (v *View) Selected() *domain.CollectionStats {
	if v.selected < 0 || v.selected >= len(v.stats) {
		return nil
	}
	return &v.stats[v.selected]
}

// Creating reports whether the name input is open.
func (v *View) Creating() bool {
	return v.creating
}

// Confirming reports whether the delete confirmation is open.
func (v *View) Confirming() bool {
	return v.confirm.Open()
}
