// Package menu provides the main navigation menu view for the TUI.
package menu

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/ragdesk/internal/adapters/driving/tui/epoch"
	"github.com/custodia-labs/ragdesk/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/ragdesk/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/ragdesk/internal/core/domain"
	"github.com/custodia-labs/ragdesk/internal/core/ports/driving"
)

// Item represents a single menu option.
type Item struct {
	Label string
	View  messages.ViewType
	Quit  bool // If true, selecting this item quits the app
}

// Items returns the menu entries in display order.
func Items() []Item {
	return []Item{
		{Label: "Query", View: messages.ViewQuery},
		{Label: "Collections", View: messages.ViewCollections},
		{Label: "Documents", View: messages.ViewDocuments},
		{Label: "Upload", View: messages.ViewUpload},
		{Label: "Help", View: messages.ViewHelp},
		{Label: "Quit", Quit: true},
	}
}

// View represents the main menu view.
type View struct {
	styles      *styles.Styles
	collections driving.CollectionService
	documents   driving.DocumentService
	health      driving.HealthService
	ctx         context.Context

	items    []Item
	selected int
	overview *messages.OverviewLoaded
	loads    epoch.Counter
	backend  string
	width    int
	height   int
	ready    bool
}

// NewView creates a new menu view. backendURL is shown in the header.
func NewView(
	s *styles.Styles,
	collections driving.CollectionService,
	documents driving.DocumentService,
	health driving.HealthService,
	backendURL string,
) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &View{
		styles:      s,
		collections: collections,
		documents:   documents,
		health:      health,
		ctx:         context.Background(),
		items:       Items(),
		backend:     backendURL,
		width:       80,
		height:      24,
	}
}

// WithContext sets the context used for requests.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Enter is called when the menu becomes active; it refreshes the counts.
func (v *View) Enter() tea.Cmd {
	return v.Load()
}

// Load fetches aggregate counts and backend health.
func (v *View) Load() tea.Cmd {
	seq := v.loads.Next()
	collections, documents, health := v.collections, v.documents, v.health
	ctx := v.ctx

	return func() tea.Msg {
		msg := messages.OverviewLoaded{Seq: seq}

		if health != nil {
			status, err := health.Check(ctx)
			if err != nil {
				status = "unreachable"
			}
			msg.Health = status
		}

		names, err := collections.Names(ctx)
		if err != nil {
			msg.Err = err
			return msg
		}
		docs, err := documents.List(ctx)
		if err != nil {
			msg.Err = err
			return msg
		}
		msg.Collections = len(names)
		msg.Documents = len(docs)
		return msg
	}
}

// Update handles messages for the menu view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.OverviewLoaded:
		if !v.loads.IsCurrent(msg.Seq) {
			return v, nil
		}
		v.overview = &msg
		if msg.Err != nil {
			return v, messages.Notify(domain.UserMessage(msg.Err, "Failed to load counts"), true)
		}
		return v, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if v.selected > 0 {
				v.selected--
			}
			return v, nil

		case "down", "j":
			if v.selected < len(v.items)-1 {
				v.selected++
			}
			return v, nil

		case "enter":
			item := v.items[v.selected]
			if item.Quit {
				return v, tea.Quit
			}
			return v, messages.Navigate(item.View, 0)

		case "q":
			return v, tea.Quit
		}
	}

	return v, nil
}

// View renders the menu.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	var b strings.Builder

	b.WriteString(v.styles.Title.Render("ragdesk"))
	b.WriteString("\n\n")
	b.WriteString(v.styles.Muted.Render("Document collections and retrieval"))
	b.WriteString("\n")
	b.WriteString(v.renderOverview())
	b.WriteString("\n\n")

	for i, item := range v.items {
		if i == v.selected {
			b.WriteString("> " + v.styles.Title.Render(item.Label))
		} else {
			b.WriteString("  " + v.styles.Normal.Render(item.Label))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(v.styles.Help.Render("[j/k] Navigate  [Enter] Select  [q] Quit"))

	return b.String()
}

func (v *View) renderOverview() string {
	backend := v.styles.Muted.Render(v.backend)
	if v.overview == nil {
		return backend + v.styles.Muted.Render("  (loading...)")
	}

	health := v.styles.Success.Render(v.overview.Health)
	if v.overview.Health != "healthy" {
		health = v.styles.Error.Render(v.overview.Health)
	}
	if v.overview.Health == "" {
		health = ""
	}

	if v.overview.Err != nil {
		return backend + "  " + health
	}
	counts := v.styles.Subtitle.Render(fmt.Sprintf(
		"%d collections · %d documents", v.overview.Collections, v.overview.Documents))
	return backend + "  " + health + "\n" + counts
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Selected returns the currently selected index.
func (v *View) Selected() int {
	return v.selected
}

// Overview returns the last loaded counts, or nil.
func (v *View) Overview() *messages.OverviewLoaded {
	return v.overview
}
