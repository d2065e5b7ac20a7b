// Package upload provides the document upload view for the TUI.
//
// The view walks a small state machine:
//
//	idle -> file selected -> submitting -> succeeded -> idle
//	                              \-> file selected (on failure)
//
// A file is chosen by browsing (bubbles filepicker) or by typing or pasting
// a path; dropping a file onto most terminals pastes its path.
package upload

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/ragdesk/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/ragdesk/internal/adapters/driving/tui/epoch"
	"github.com/custodia-labs/ragdesk/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/ragdesk/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/ragdesk/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/ragdesk/internal/core/domain"
	"github.com/custodia-labs/ragdesk/internal/core/ports/driving"
)

// Focus identifies which form field receives key presses.
type Focus int

const (
	FocusPath Focus = iota
	FocusCollection
)

// View is the upload form.
type View struct {
	styles      *styles.Styles
	keymap      *keymap.KeyMap
	uploads     driving.UploadService
	collections driving.CollectionService
	ctx         context.Context
	resetDelay  time.Duration

	state      domain.UploadState
	path       *input.Field
	picker     filepicker.Model
	browsing   bool
	spinner    spinner.Model
	preview    *domain.FilePreview
	names      []string
	collection int
	focus      Focus
	namesEp    epoch.Counter
	inspectEp  epoch.Counter
	uploadEp   epoch.Counter
	width      int
	height     int
}

// NewView creates a new upload view. resetDelay is the pause between a
// successful upload and returning to the documents list.
func NewView(
	s *styles.Styles,
	km *keymap.KeyMap,
	uploads driving.UploadService,
	collections driving.CollectionService,
	resetDelay time.Duration,
) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	if resetDelay <= 0 {
		resetDelay = domain.DefaultUploadResetDelay
	}

	picker := filepicker.New()
	picker.AllowedTypes = domain.AllowedExtensions()
	picker.Height = 10
	if wd, err := os.Getwd(); err == nil {
		picker.CurrentDirectory = wd
	}

	v := &View{
		styles:      s,
		keymap:      km,
		uploads:     uploads,
		collections: collections,
		ctx:         context.Background(),
		resetDelay:  resetDelay,
		path:        input.NewField(s, "File", "path to a .pdf, .txt or .md file"),
		picker:      picker,
		spinner:     spinner.New(spinner.WithSpinner(spinner.Dot)),
		width:       80,
		height:      24,
	}
	v.path.Focus()
	return v
}

// WithContext sets the context used for requests.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Enter is called when the section becomes active. An upload answered
// while the section was hidden is forgotten; the chosen file is kept.
func (v *View) Enter() tea.Cmd {
	v.uploadEp.Next()
	v.inspectEp.Next()
	switch v.state {
	case domain.UploadSubmitting:
		v.state = domain.UploadFileSelected
	case domain.UploadSucceeded:
		v.reset()
	case domain.UploadIdle, domain.UploadFileSelected:
	}
	v.browsing = false
	return v.LoadCollections()
}

// LoadCollections refreshes the target collection picker.
func (v *View) LoadCollections() tea.Cmd {
	seq := v.namesEp.Next()
	svc := v.collections
	ctx := v.ctx
	return func() tea.Msg {
		names, err := svc.Names(ctx)
		return messages.UploadCollectionsLoaded{Seq: seq, Names: names, Err: err}
	}
}

// Update handles messages for the upload view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		if v.browsing {
			return v.handleBrowseKey(msg)
		}
		return v.handleKeyMsg(msg)

	case messages.UploadCollectionsLoaded:
		if !v.namesEp.IsCurrent(msg.Seq) {
			return v, nil
		}
		if msg.Err != nil {
			return v, messages.Notify(domain.UserMessage(msg.Err, "Failed to load collections"), true)
		}
		v.setCollections(msg.Names)
		return v, nil

	case messages.FileInspected:
		return v.handleInspected(msg)

	case messages.UploadCompleted:
		return v.handleCompleted(msg)

	case messages.UploadReset:
		if !v.uploadEp.IsCurrent(msg.Seq) || v.state != domain.UploadSucceeded {
			return v, nil
		}
		v.reset()
		return v, messages.Navigate(messages.ViewDocuments, 0)

	case spinner.TickMsg:
		if v.state != domain.UploadSubmitting {
			return v, nil
		}
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		return v, cmd
	}

	if v.browsing {
		var cmd tea.Cmd
		v.picker, cmd = v.picker.Update(msg)
		return v, cmd
	}
	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	if v.state == domain.UploadSubmitting {
		return v, nil
	}

	switch key := msg.String(); {
	case keymap.Matches(key, v.keymap.Back):
		return v, messages.Navigate(messages.ViewMenu, 0)
	case keymap.Matches(key, v.keymap.Focus):
		v.toggleFocus()
		return v, nil
	case keymap.Matches(key, v.keymap.Browse):
		v.browsing = true
		return v, v.picker.Init()
	case keymap.Matches(key, v.keymap.Submit):
		return v, v.Submit()
	}

	if v.focus == FocusCollection {
		switch key := msg.String(); {
		case keymap.Matches(key, v.keymap.Up):
			if v.collection > 0 {
				v.collection--
			}
		case keymap.Matches(key, v.keymap.Down):
			if v.collection < len(v.names)-1 {
				v.collection++
			}
		case keymap.Matches(key, v.keymap.Select):
			return v, v.Submit()
		}
		return v, nil
	}

	if msg.Type == tea.KeyEnter {
		return v, v.Choose(v.path.Value())
	}
	var cmd tea.Cmd
	v.path, cmd = v.path.Update(msg)
	return v, cmd
}

func (v *View) handleBrowseKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	if msg.Type == tea.KeyEsc {
		v.browsing = false
		return v, nil
	}

	var cmd tea.Cmd
	v.picker, cmd = v.picker.Update(msg)

	if ok, path := v.picker.DidSelectFile(msg); ok {
		v.browsing = false
		v.path.SetValue(path)
		return v, tea.Batch(cmd, v.Choose(path))
	}
	if ok, path := v.picker.DidSelectDisabledFile(msg); ok {
		v.browsing = false
		v.path.SetValue(path)
		return v, tea.Batch(cmd, v.Choose(path))
	}
	return v, cmd
}

// Choose takes a typed, pasted or browsed path. A disallowed type is
// rejected here without touching the file or the backend.
func (v *View) Choose(raw string) tea.Cmd {
	path := cleanPath(raw)
	if _, err := domain.ValidateUploadFile(path); err != nil {
		v.inspectEp.Next()
		v.preview = nil
		v.state = domain.UploadIdle
		return messages.Notify(domain.UserMessage(err, "Unsupported file"), true)
	}

	seq := v.inspectEp.Next()
	svc := v.uploads
	return func() tea.Msg {
		preview, err := svc.Inspect(path)
		return messages.FileInspected{Seq: seq, Path: path, Preview: preview, Err: err}
	}
}

// cleanPath strips the quoting terminals add to pasted or dropped paths.
func cleanPath(raw string) string {
	p := strings.TrimSpace(raw)
	if len(p) >= 2 && (p[0] == '\'' || p[0] == '"') && p[len(p)-1] == p[0] {
		p = p[1 : len(p)-1]
	}
	p = strings.ReplaceAll(p, `\ `, " ")
	return strings.TrimPrefix(p, "file://")
}

func (v *View) handleInspected(msg messages.FileInspected) (*View, tea.Cmd) {
	if !v.inspectEp.IsCurrent(msg.Seq) || v.state == domain.UploadSubmitting {
		return v, nil
	}
	if msg.Err != nil {
		v.preview = nil
		v.state = domain.UploadIdle
		return v, messages.Notify(domain.UserMessage(msg.Err, "Cannot read file"), true)
	}

	v.preview = msg.Preview
	v.path.SetValue(msg.Path)
	v.state = domain.UploadFileSelected
	v.focus = FocusCollection
	v.path.Blur()
	return v, nil
}

// CanSubmit reports whether a valid file and a collection are chosen.
func (v *View) CanSubmit() bool {
	return v.state == domain.UploadFileSelected && v.preview != nil && v.Collection() != ""
}

// Submit uploads the chosen file. It does nothing but report why when the
// form is incomplete.
func (v *View) Submit() tea.Cmd {
	if v.state == domain.UploadSubmitting {
		return nil
	}
	if !v.CanSubmit() {
		if v.preview == nil {
			return messages.Notify("please select a PDF, TXT, or MD file", true)
		}
		return messages.Notify("please select a collection", true)
	}

	v.state = domain.UploadSubmitting
	seq := v.uploadEp.Next()
	path := v.preview.Path
	name := v.preview.Name
	collection := v.Collection()
	svc := v.uploads
	ctx := v.ctx

	upload := func() tea.Msg {
		err := svc.UploadFile(ctx, path, collection)
		return messages.UploadCompleted{Seq: seq, Filename: name, Err: err}
	}
	return tea.Batch(upload, v.spinner.Tick)
}

func (v *View) handleCompleted(msg messages.UploadCompleted) (*View, tea.Cmd) {
	if !v.uploadEp.IsCurrent(msg.Seq) || v.state != domain.UploadSubmitting {
		return v, nil
	}

	if msg.Err != nil {
		v.state = domain.UploadFileSelected
		return v, messages.Notify(domain.UserMessage(msg.Err, "Upload failed"), true)
	}

	v.state = domain.UploadSucceeded
	seq := msg.Seq
	return v, tea.Batch(
		messages.Notify(fmt.Sprintf("Uploaded %s to %s", msg.Filename, v.Collection()), false),
		tea.Tick(v.resetDelay, func(time.Time) tea.Msg { return messages.UploadReset{Seq: seq} }),
	)
}

func (v *View) reset() {
	v.state = domain.UploadIdle
	v.preview = nil
	v.path.Reset()
	v.focus = FocusPath
	v.path.Focus()
}

func (v *View) toggleFocus() {
	if v.focus == FocusPath {
		v.focus = FocusCollection
		v.path.Blur()
		return
	}
	v.focus = FocusPath
	v.path.Focus()
}

// setCollections replaces the picker options, keeping the current choice
// when it still exists and preferring the default collection otherwise.
func (v *View) setCollections(names []string) {
	current := v.Collection()
	v.names = nil
	for _, n := range names {
		if strings.TrimSpace(n) != "" {
			v.names = append(v.names, n)
		}
	}

	v.collection = 0
	for i, n := range v.names {
		if n == current {
			v.collection = i
			return
		}
		if n == domain.DefaultCollectionName {
			v.collection = i
		}
	}
}

// View renders the upload form.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Upload"))
	b.WriteString("\n\n")

	if v.browsing {
		b.WriteString(v.styles.Subtitle.Render(v.picker.CurrentDirectory))
		b.WriteString("\n")
		b.WriteString(v.picker.View())
		b.WriteString("\n")
		b.WriteString(v.styles.Help.Render("[enter] Choose  [esc] Cancel"))
		return b.String()
	}

	b.WriteString(v.path.View())
	b.WriteString("\n")
	if v.preview != nil {
		b.WriteString(v.styles.Muted.Render("  " + v.preview.Describe()))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(v.styles.Subtitle.Render("Collection"))
	b.WriteString("\n")
	b.WriteString(v.renderCollections())
	b.WriteString("\n\n")

	switch v.state {
	case domain.UploadSubmitting:
		b.WriteString(v.spinner.View() + " " + v.styles.Muted.Render("Uploading..."))
	case domain.UploadSucceeded:
		b.WriteString(v.styles.Success.Render("Upload complete"))
	case domain.UploadFileSelected:
		if v.CanSubmit() {
			b.WriteString(v.styles.Normal.Render("Ready to upload"))
		}
	case domain.UploadIdle:
		b.WriteString(v.styles.Muted.Render("Accepted: " + strings.Join(domain.AllowedExtensions(), ", ")))
	}

	b.WriteString("\n\n")
	b.WriteString(v.styles.Help.Render(
		"[enter] Choose file  [ctrl+o] Browse  [tab] Switch field  [ctrl+s] Upload  [esc] Menu"))
	return b.String()
}

func (v *View) renderCollections() string {
	if len(v.names) == 0 {
		return v.styles.Muted.Render("  No collections")
	}
	lines := make([]string, 0, len(v.names))
	for i, n := range v.names {
		switch {
		case i == v.collection && v.focus == FocusCollection:
			lines = append(lines, "> "+v.styles.Selected.Render(n))
		case i == v.collection:
			lines = append(lines, "* "+v.styles.Normal.Render(n))
		default:
			lines = append(lines, "  "+v.styles.Muted.Render(n))
		}
	}
	return strings.Join(lines, "\n")
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.path.SetWidth(width)
	v.picker.Height = max(height-8, 5)
}

// State returns the upload state.
func (v *View) State() domain.UploadState {
	return v.state
}

// Preview returns the chosen file, or nil.
func (v *View) Preview() *domain.FilePreview {
	return v.preview
}

// Collection returns the target collection, or "" when none is available.
func (v *View) Collection() string {
	if v.collection < 0 || v.collection >= len(v.names) {
		return ""
	}
	return v.names[v.collection]
}

// Browsing reports whether the file picker is open.
func (v *View) Browsing() bool {
	return v.browsing
}
