package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/ragdesk/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/ragdesk/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/ragdesk/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/ragdesk/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/ragdesk/internal/adapters/driving/tui/views/chunks"
	"github.com/custodia-labs/ragdesk/internal/adapters/driving/tui/views/collections"
	"github.com/custodia-labs/ragdesk/internal/adapters/driving/tui/views/documents"
	"github.com/custodia-labs/ragdesk/internal/adapters/driving/tui/views/menu"
	"github.com/custodia-labs/ragdesk/internal/adapters/driving/tui/views/query"
	"github.com/custodia-labs/ragdesk/internal/adapters/driving/tui/views/upload"
)

// chromeHeight is the number of lines taken by the tab strip and status bar.
const chromeHeight = 3

// tab is one entry of the navigation strip.
type tab struct {
	label string
	view  messages.ViewType
}

var tabs = []tab{
	{"Menu", messages.ViewMenu},
	{"Query", messages.ViewQuery},
	{"Collections", messages.ViewCollections},
	{"Documents", messages.ViewDocuments},
	{"Upload", messages.ViewUpload},
	{"Help", messages.ViewHelp},
}

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea and routes between sections:
// exactly one section is visible at a time.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	styles *styles.Styles
	keymap *keymap.KeyMap

	// statusBar is the single owner of the status message.
	statusBar *status.Bar

	menuView        *menu.View
	queryView       *query.View
	collectionsView *collections.View
	documentsView   *documents.View
	chunksView      *chunks.View
	uploadView      *upload.View

	// currentView tracks which section is active.
	currentView messages.ViewType

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has initialised.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()
	settings := ports.Settings

	return &App{
		ports:           ports,
		ctx:             context.Background(),
		styles:          s,
		keymap:          km,
		statusBar:       status.NewBar(s, km, settings.StatusTTL),
		menuView:        menu.NewView(s, ports.Collection, ports.Document, ports.Health, settings.BackendURL),
		queryView:       query.NewView(s, km, ports.Query, ports.Collection),
		collectionsView: collections.NewView(s, km, ports.Collection),
		documentsView:   documents.NewView(s, km, ports.Document),
		chunksView:      chunks.NewView(s, km, ports.Document),
		uploadView:      upload.NewView(s, km, ports.Upload, ports.Collection, settings.UploadResetDelay),
		currentView:     messages.ViewMenu, // Start with menu
	}, nil
}

// WithContext sets the context for the app and every section.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.menuView.WithContext(ctx)
	a.queryView.WithContext(ctx)
	a.collectionsView.WithContext(ctx)
	a.documentsView.WithContext(ctx)
	a.chunksView.WithContext(ctx)
	a.uploadView.WithContext(ctx)
	return a
}

// Init implements tea.Model.
// It runs initial commands when the program starts.
func (a *App) Init() tea.Cmd {
	a.statusBar.SetSection(sectionLabel(a.currentView))
	return tea.Batch(
		tea.EnterAltScreen,
		tea.SetWindowTitle("ragdesk"),
		a.menuView.Enter(),
	)
}

// ShowSection makes view the only visible section and returns its load
// command. A chunks request without a positive document id is ignored.
func (a *App) ShowSection(view messages.ViewType, documentID int64) tea.Cmd {
	var cmd tea.Cmd

	switch view {
	case messages.ViewMenu:
		cmd = a.menuView.Enter()
	case messages.ViewQuery:
		cmd = a.queryView.Enter()
	case messages.ViewCollections:
		cmd = a.collectionsView.Enter()
	case messages.ViewDocuments:
		cmd = a.documentsView.Enter()
	case messages.ViewChunks:
		if documentID <= 0 {
			return nil
		}
		cmd = a.chunksView.Show(documentID)
	case messages.ViewUpload:
		cmd = a.uploadView.Enter()
	case messages.ViewHelp:
	default:
		return nil
	}

	a.currentView = view
	a.statusBar.SetSection(sectionLabel(view))
	return cmd
}

// Update implements tea.Model.
// It handles messages and updates the model state.
//
//nolint:gocognit,gocyclo,funlen // central message handler requires complexity
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		return a, a.handleKeyMsg(msg)

	case messages.ViewChanged:
		return a, a.ShowSection(msg.View, msg.DocumentID)

	case messages.StatusSet:
		return a, a.statusBar.SetStatus(msg.Message, msg.IsError)

	case messages.StatusExpired:
		a.statusBar, cmd = a.statusBar.Update(msg)
		return a, cmd

	case messages.ScopeRefreshRequested:
		return a, a.queryView.RefreshScope()

	case messages.ScopeOptionsLoaded:
		// The selector is refreshed after every mutation, even from other sections.
		a.queryView, cmd = a.queryView.Update(msg)
		return a, cmd

	case messages.OverviewLoaded:
		if a.currentView == messages.ViewMenu {
			a.menuView, cmd = a.menuView.Update(msg)
		}
		return a, cmd

	case messages.QueryCompleted:
		if a.currentView == messages.ViewQuery {
			a.queryView, cmd = a.queryView.Update(msg)
		}
		return a, cmd

	case messages.CollectionsLoaded:
		if a.currentView == messages.ViewCollections {
			a.collectionsView, cmd = a.collectionsView.Update(msg)
		}
		return a, cmd

	case messages.CollectionCreated, messages.CollectionDeleted:
		// Mutation outcomes always reach their owner so the status and
		// the follow-up refreshes are not lost.
		a.collectionsView, cmd = a.collectionsView.Update(msg)
		return a, cmd

	case messages.DocumentsLoaded:
		if a.currentView == messages.ViewDocuments {
			a.documentsView, cmd = a.documentsView.Update(msg)
		}
		return a, cmd

	case messages.DocumentDeleted:
		a.documentsView, cmd = a.documentsView.Update(msg)
		return a, cmd

	case messages.ChunksLoaded:
		if a.currentView == messages.ViewChunks {
			a.chunksView, cmd = a.chunksView.Update(msg)
		}
		return a, cmd

	case messages.UploadCollectionsLoaded, messages.FileInspected,
		messages.UploadCompleted, messages.UploadReset:
		if a.currentView == messages.ViewUpload {
			a.uploadView, cmd = a.uploadView.Update(msg)
		}
		return a, cmd

	case messages.Quit:
		return a, tea.Quit
	}

	// Forward other messages (spinner ticks, file picker reads) to the active view
	return a, a.forward(msg)
}

func (a *App) handleKeyMsg(msg tea.KeyMsg) tea.Cmd {
	// Global quit with ctrl+c
	if msg.String() == "ctrl+c" {
		return tea.Quit
	}

	switch a.currentView {
	case messages.ViewMenu:
		if keymap.Matches(msg.String(), a.keymap.Help) {
			return a.ShowSection(messages.ViewHelp, 0)
		}
	case messages.ViewHelp:
		switch {
		case keymap.Matches(msg.String(), a.keymap.Back), keymap.Matches(msg.String(), a.keymap.Help):
			return a.ShowSection(messages.ViewMenu, 0)
		case msg.String() == "q":
			return tea.Quit
		}
		return nil
	}

	return a.forward(msg)
}

// forward passes msg to the active section.
func (a *App) forward(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd

	switch a.currentView {
	case messages.ViewMenu:
		a.menuView, cmd = a.menuView.Update(msg)
	case messages.ViewQuery:
		a.queryView, cmd = a.queryView.Update(msg)
	case messages.ViewCollections:
		a.collectionsView, cmd = a.collectionsView.Update(msg)
	case messages.ViewDocuments:
		a.documentsView, cmd = a.documentsView.Update(msg)
	case messages.ViewChunks:
		a.chunksView, cmd = a.chunksView.Update(msg)
	case messages.ViewUpload:
		a.uploadView, cmd = a.uploadView.Update(msg)
	case messages.ViewHelp:
		// Help view doesn't need to handle other messages
	}

	return cmd
}

// View implements tea.Model.
// It renders the navigation strip, the active section and the status bar.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	var body string
	switch a.currentView {
	case messages.ViewQuery:
		body = a.queryView.View()
	case messages.ViewCollections:
		body = a.collectionsView.View()
	case messages.ViewDocuments:
		body = a.documentsView.View()
	case messages.ViewChunks:
		body = a.chunksView.View()
	case messages.ViewUpload:
		body = a.uploadView.View()
	case messages.ViewHelp:
		body = a.viewHelp()
	default:
		body = a.menuView.View()
	}

	bodyHeight := a.height - chromeHeight
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	body = lipgloss.NewStyle().Height(bodyHeight).MaxHeight(bodyHeight).Render(body)

	return lipgloss.JoinVertical(lipgloss.Left,
		a.viewTabs(),
		"",
		body,
		a.statusBar.View(),
	)
}

// viewTabs renders the navigation strip with the active section highlighted.
// The chunks section belongs to Documents.
func (a *App) viewTabs() string {
	active := a.currentView
	if active == messages.ViewChunks {
		active = messages.ViewDocuments
	}

	rendered := make([]string, 0, len(tabs))
	for _, t := range tabs {
		if t.view == active {
			rendered = append(rendered, a.styles.ActiveTab.Render(t.label))
		} else {
			rendered = append(rendered, a.styles.Tab.Render(t.label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

// viewHelp renders the help view from the keymap.
func (a *App) viewHelp() string {
	var b strings.Builder

	b.WriteString(a.styles.Title.Render("Help"))
	b.WriteString("\n\n")

	for _, group := range a.keymap.FullHelp() {
		for _, binding := range group {
			h := binding.Help()
			b.WriteString(fmt.Sprintf("  %-12s %s\n", h.Key, h.Desc))
		}
		b.WriteString("\n")
	}

	b.WriteString(a.styles.Muted.Render("Query: type, then enter. Tab moves between the input, scope and results."))
	b.WriteString("\n\n")
	b.WriteString(a.styles.Help.Render("[esc] back to menu"))

	return b.String()
}

// sectionLabel is the status bar label for a section.
func sectionLabel(view messages.ViewType) string {
	switch view {
	case messages.ViewChunks:
		return "Document chunks"
	default:
		for _, t := range tabs {
			if t.view == view {
				return t.label
			}
		}
		return ""
	}
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Status returns the status bar message and whether it is an error.
func (a *App) Status() (string, bool) {
	return a.statusBar.Status()
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// QueryView returns the query section, for inspection in tests.
func (a *App) QueryView() *query.View {
	return a.queryView
}

// CollectionsView returns the collections section.
func (a *App) CollectionsView() *collections.View {
	return a.collectionsView
}

// DocumentsView returns the documents section.
func (a *App) DocumentsView() *documents.View {
	return a.documentsView
}

// ChunksView returns the chunks section.
func (a *App) ChunksView() *chunks.View {
	return a.chunksView
}

// SetDimensions sets the terminal dimensions and resizes every section.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true

	bodyHeight := height - chromeHeight
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	a.statusBar.SetWidth(width)
	a.menuView.SetDimensions(width, bodyHeight)
	a.queryView.SetDimensions(width, bodyHeight)
	a.collectionsView.SetDimensions(width, bodyHeight)
	a.documentsView.SetDimensions(width, bodyHeight)
	a.chunksView.SetDimensions(width, bodyHeight)
	a.uploadView.SetDimensions(width, bodyHeight)
}
