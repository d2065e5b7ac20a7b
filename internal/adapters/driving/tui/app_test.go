package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ragdesk/internal/adapters/driven/backend"
	"github.com/custodia-labs/ragdesk/internal/adapters/driven/inspect"
	"github.com/custodia-labs/ragdesk/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/ragdesk/internal/core/domain"
	"github.com/custodia-labs/ragdesk/internal/core/services"
	"github.com/custodia-labs/ragdesk/internal/testutil/fakebackend"
	"github.com/custodia-labs/ragdesk/internal/testutil/mocks"
)

type testServices struct {
	query       *mocks.QueryService
	collections *mocks.CollectionService
	documents   *mocks.DocumentService
	uploads     *mocks.UploadService
	health      *mocks.HealthService
}

func newTestPorts() (*Ports, *testServices) {
	svc := &testServices{
		query:       &mocks.QueryService{},
		collections: &mocks.CollectionService{},
		documents:   &mocks.DocumentService{},
		uploads:     &mocks.UploadService{},
		health:      &mocks.HealthService{},
	}
	ports := NewPorts(svc.query, svc.collections, svc.documents, svc.uploads)
	ports.Health = svc.health
	keepStatus(ports)
	return ports, svc
}

// keepStatus disables status expiry so pumped commands never wait on a tick.
func keepStatus(p *Ports) {
	p.Settings.StatusTTL = 0
}

func newTestApp(t *testing.T) (*App, *testServices) {
	t.Helper()
	ports, svc := newTestPorts()
	app, err := NewApp(ports)
	require.NoError(t, err)
	app.SetDimensions(120, 40)
	return app, svc
}

// pump feeds the messages produced by cmd back into the app until no
// commands remain, the way the Bubbletea runtime would.
func pump(app *App, cmd tea.Cmd) {
	queue := mocks.Collect(cmd)
	for i := 0; i < 100 && len(queue) > 0; i++ {
		msg := queue[0]
		queue = queue[1:]
		if _, ok := msg.(tea.QuitMsg); ok {
			continue
		}
		_, next := app.Update(msg)
		queue = append(queue, mocks.Collect(next)...)
	}
}

func send(app *App, msg tea.Msg) {
	_, cmd := app.Update(msg)
	pump(app, cmd)
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNewApp_Success(t *testing.T) {
	ports, _ := newTestPorts()

	app, err := NewApp(ports)

	require.NoError(t, err)
	require.NotNil(t, app)
	assert.Equal(t, messages.ViewMenu, app.CurrentView())
	assert.False(t, app.Ready())
}

func TestNewApp_InvalidPorts(t *testing.T) {
	ports, _ := newTestPorts()
	ports.Upload = nil

	app, err := NewApp(ports)

	assert.ErrorIs(t, err, ErrMissingUploadService)
	assert.Nil(t, app)
}

func TestApp_WithContext(t *testing.T) {
	app, svc := newTestApp(t)

	type contextKey string
	ctx := context.WithValue(context.Background(), contextKey("key"), "value")
	var seen context.Context
	svc.collections.NamesFunc = func(ctx context.Context) ([]string, error) {
		seen = ctx
		return nil, nil
	}

	result := app.WithContext(ctx)
	send(app, messages.ViewChanged{View: messages.ViewQuery})

	assert.Same(t, app, result)
	require.NotNil(t, seen)
	assert.Equal(t, "value", seen.Value(contextKey("key")))
}

func TestApp_Init(t *testing.T) {
	app, _ := newTestApp(t)

	assert.NotNil(t, app.Init())
}

func TestApp_View_NotReady(t *testing.T) {
	ports, _ := newTestPorts()
	app, _ := NewApp(ports)

	assert.Equal(t, "Initialising...", app.View())
}

func TestApp_WindowSize(t *testing.T) {
	ports, _ := newTestPorts()
	app, _ := NewApp(ports)

	model, cmd := app.Update(tea.WindowSizeMsg{Width: 100, Height: 30})

	assert.Nil(t, cmd)
	assert.True(t, model.(*App).Ready())
	assert.Contains(t, app.View(), "Collections")
}

func TestShowSection_LoadsSection(t *testing.T) {
	tests := []struct {
		view  messages.ViewType
		calls func(*testServices) int
	}{
		{messages.ViewQuery, func(s *testServices) int { return s.collections.Calls("Names") }},
		{messages.ViewCollections, func(s *testServices) int { return s.collections.Calls("List") }},
		{messages.ViewDocuments, func(s *testServices) int { return s.documents.Calls("List") }},
		{messages.ViewUpload, func(s *testServices) int { return s.collections.Calls("Names") }},
		{messages.ViewMenu, func(s *testServices) int { return s.health.Calls("Check") }},
	}

	for _, tt := range tests {
		t.Run(tt.view.String(), func(t *testing.T) {
			app, svc := newTestApp(t)

			pump(app, app.ShowSection(tt.view, 0))

			assert.Equal(t, tt.view, app.CurrentView())
			assert.Equal(t, 1, tt.calls(svc))
		})
	}
}

func TestShowSection_Chunks(t *testing.T) {
	app, svc := newTestApp(t)
	svc.documents.ChunksFunc = func(_ context.Context, id int64) (*domain.DocumentChunks, error) {
		return &domain.DocumentChunks{DocumentID: id, Filename: "a.pdf"}, nil
	}

	send(app, messages.ViewChanged{View: messages.ViewChunks, DocumentID: 7})

	assert.Equal(t, messages.ViewChunks, app.CurrentView())
	require.NotNil(t, app.ChunksView().Chunks())
	assert.Equal(t, int64(7), app.ChunksView().Chunks().DocumentID)
	assert.Contains(t, app.View(), "a.pdf")
}

func TestShowSection_ChunksWithoutIDIsNoop(t *testing.T) {
	for _, id := range []int64{0, -1, -42} {
		app, svc := newTestApp(t)
		pump(app, app.ShowSection(messages.ViewDocuments, 0))

		cmd := app.ShowSection(messages.ViewChunks, id)

		assert.Nil(t, cmd, "id %d", id)
		assert.Equal(t, messages.ViewDocuments, app.CurrentView(), "id %d", id)
		assert.Equal(t, 0, svc.documents.Calls("Chunks"), "id %d", id)
	}
}

func TestApp_View_FillsTerminalExactly(t *testing.T) {
	sections := []messages.ViewType{
		messages.ViewMenu,
		messages.ViewQuery,
		messages.ViewCollections,
		messages.ViewDocuments,
		messages.ViewUpload,
		messages.ViewHelp,
	}
	for _, size := range []tea.WindowSizeMsg{{Width: 120, Height: 40}, {Width: 80, Height: 24}} {
		for _, section := range sections {
			app, _ := newTestApp(t)
			send(app, size)
			pump(app, app.ShowSection(section, 0))
			send(app, messages.StatusSet{Message: "Collection \"Research\" created"})

			view := app.View()
			assert.Equal(t, size.Height, lipgloss.Height(view), "%s at %dx%d", section, size.Width, size.Height)
			assert.Contains(t, strings.Split(view, "\n")[0], "Query", "tab strip must stay on the first line")
		}
	}
}

func TestShowSection_OnlyOneSectionVisible(t *testing.T) {
	app, _ := newTestApp(t)

	pump(app, app.ShowSection(messages.ViewUpload, 0))
	view := app.View()

	assert.Contains(t, view, "Accepted: .pdf, .txt, .md")
	assert.NotContains(t, view, "Ask your documents")
}

func TestLoadMessages_DroppedForInactiveSection(t *testing.T) {
	app, _ := newTestApp(t)
	pump(app, app.ShowSection(messages.ViewCollections, 0))
	send(app, messages.ViewChanged{View: messages.ViewMenu})

	_, cmd := app.Update(messages.CollectionsLoaded{
		Seq:   99,
		Stats: []domain.CollectionStats{{Name: "Late"}},
	})

	assert.Nil(t, cmd)
	assert.Empty(t, app.CollectionsView().Stats())
}

func TestScopeOptions_ReachQueryViewFromAnySection(t *testing.T) {
	app, svc := newTestApp(t)
	svc.collections.NamesFunc = func(context.Context) ([]string, error) {
		return []string{"Default", "Research"}, nil
	}
	pump(app, app.ShowSection(messages.ViewDocuments, 0))

	send(app, messages.ScopeRefreshRequested{})

	assert.Equal(t, messages.ViewDocuments, app.CurrentView())
	assert.Equal(t, []string{"Default", "Research"}, app.QueryView().Scope().Options())
}

func TestStatus_SetAndExpire(t *testing.T) {
	ports, _ := newTestPorts()
	ports.Settings.StatusTTL = time.Millisecond
	app, err := NewApp(ports)
	require.NoError(t, err)
	app.SetDimensions(120, 40)

	_, cmd := app.Update(messages.StatusSet{Message: "Saved", IsError: false})
	msg, isErr := app.Status()
	assert.Equal(t, "Saved", msg)
	assert.False(t, isErr)

	pump(app, cmd)

	msg, _ = app.Status()
	assert.Empty(t, msg)
}

func TestStatus_ErrorShownInBar(t *testing.T) {
	app, _ := newTestApp(t)

	app.Update(messages.StatusSet{Message: "Query failed", IsError: true})

	assert.Contains(t, app.View(), "Error: Query failed")
}

func TestKeys_CtrlCQuits(t *testing.T) {
	app, _ := newTestApp(t)
	pump(app, app.ShowSection(messages.ViewQuery, 0))

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyCtrlC})

	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestKeys_Help(t *testing.T) {
	app, _ := newTestApp(t)

	send(app, runes("?"))
	assert.Equal(t, messages.ViewHelp, app.CurrentView())
	assert.Contains(t, app.View(), "all collections")

	send(app, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, messages.ViewMenu, app.CurrentView())
}

func TestKeys_QuestionMarkIsTextInQuery(t *testing.T) {
	app, _ := newTestApp(t)
	pump(app, app.ShowSection(messages.ViewQuery, 0))

	send(app, runes("?"))

	assert.Equal(t, messages.ViewQuery, app.CurrentView())
}

func TestMenu_NavigatesToSection(t *testing.T) {
	app, svc := newTestApp(t)

	send(app, tea.KeyMsg{Type: tea.KeyDown})
	send(app, tea.KeyMsg{Type: tea.KeyDown})
	send(app, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, messages.ViewDocuments, app.CurrentView())
	assert.Equal(t, 1, svc.documents.Calls("List"))
}

func TestSectionLabel(t *testing.T) {
	assert.Equal(t, "Query", sectionLabel(messages.ViewQuery))
	assert.Equal(t, "Document chunks", sectionLabel(messages.ViewChunks))
	assert.Equal(t, "", sectionLabel(messages.ViewType(99)))
}

func TestApp_CreateCollectionRefreshesScope(t *testing.T) {
	fake := fakebackend.New(t)
	fake.SetCollections("Default")
	client := backend.NewClient(backend.Config{BaseURL: fake.URL})
	ports := NewPorts(
		services.NewQueryService(client, domain.AllCollectionsMarker),
		services.NewCollectionService(client),
		services.NewDocumentService(client),
		services.NewUploadService(client, inspect.New()),
	)
	ports.Health = services.NewHealthService(client)
	keepStatus(ports)
	app, err := NewApp(ports)
	require.NoError(t, err)
	app.SetDimensions(120, 40)

	send(app, messages.ViewChanged{View: messages.ViewCollections})
	send(app, runes("n"))
	send(app, runes("Research"))
	send(app, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, []string{"Default", "Research"}, fake.Collections())
	require.Len(t, app.CollectionsView().Stats(), 2)
	assert.Equal(t, []string{"Default", "Research"}, app.QueryView().Scope().Options())
	msg, isErr := app.Status()
	assert.Contains(t, msg, "Research")
	assert.False(t, isErr)
}

func TestApp_DocumentsToChunks(t *testing.T) {
	fake := fakebackend.New(t)
	fake.SetCollections("Default")
	id := fake.AddDocument(
		domain.Document{Filename: "notes.md", CollectionName: "Default"},
		domain.Chunk{Number: 1, Start: "hello", End: "world", EmbeddingPreview: []float64{0.5}},
	)
	client := backend.NewClient(backend.Config{BaseURL: fake.URL})
	ports := NewPorts(
		services.NewQueryService(client, domain.AllCollectionsMarker),
		services.NewCollectionService(client),
		services.NewDocumentService(client),
		services.NewUploadService(client, inspect.New()),
	)
	keepStatus(ports)
	app, err := NewApp(ports)
	require.NoError(t, err)
	app.SetDimensions(120, 40)

	send(app, messages.ViewChanged{View: messages.ViewDocuments})
	send(app, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, messages.ViewChunks, app.CurrentView())
	assert.Equal(t, id, app.ChunksView().DocumentID())
	assert.Contains(t, app.View(), "Chunks (1)")

	send(app, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, messages.ViewDocuments, app.CurrentView())
}
