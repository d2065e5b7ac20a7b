// Package chunks provides the document chunks view for the TUI.
package chunks

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/ragdesk/internal/adapters/driving/tui/epoch"
	"github.com/custodia-labs/ragdesk/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/ragdesk/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/ragdesk/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/ragdesk/internal/core/domain"
	"github.com/custodia-labs/ragdesk/internal/core/ports/driving"
)

// linesPerChunk is the rendered height of one chunk entry.
const linesPerChunk = 4

// View shows the chunk summaries of a single document.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	documents driving.DocumentService
	ctx       context.Context

	documentID   int64
	chunks       *domain.DocumentChunks
	loads        epoch.Counter
	loading      bool
	scrollOffset int
	width        int
	height       int
}

// NewView creates a new chunks view.
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
		width:     80,
		height:    24,
	}
}

// WithContext sets the context used for requests.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Show switches the view to document id and fetches its chunks.
func (v *View) Show(id int64) tea.Cmd {
	v.documentID = id
	v.chunks = nil
	v.scrollOffset = 0
	return v.Load()
}

// Load fetches chunks for the current document.
func (v *View) Load() tea.Cmd {
	seq := v.loads.Next()
	v.loading = true
	id := v.documentID
	svc := v.documents
	ctx := v.ctx
	return func() tea.Msg {
		chunks, err := svc.Chunks(ctx, id)
		return messages.ChunksLoaded{Seq: seq, Chunks: chunks, Err: err}
	}
}

// Update handles messages for the chunks view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		switch key := msg.String(); {
		case keymap.Matches(key, v.keymap.Up):
			if v.scrollOffset > 0 {
				v.scrollOffset--
			}
		case keymap.Matches(key, v.keymap.Down):
			if v.chunks != nil && v.scrollOffset < len(v.chunks.Chunks)-1 {
				v.scrollOffset++
			}
		case keymap.Matches(key, v.keymap.Refresh):
			return v, v.Load()
		case keymap.Matches(key, v.keymap.Back):
			return v, messages.Navigate(messages.ViewDocuments, 0)
		}
		return v, nil

	case messages.ChunksLoaded:
		if !v.loads.IsCurrent(msg.Seq) {
			return v, nil
		}
		v.loading = false
		if msg.Err != nil {
			return v, messages.Notify(domain.UserMessage(msg.Err, "Failed to load chunks"), true)
		}
		v.chunks = msg.Chunks
		return v, nil
	}

	return v, nil
}

// View renders the chunk list.
func (v *View) View() string {
	var b strings.Builder

	title := fmt.Sprintf("Document %d", v.documentID)
	if v.chunks != nil && v.chunks.Filename != "" {
		title = v.chunks.Filename
	}
	b.WriteString(v.styles.Title.Render(title))
	b.WriteString("\n\n")

	switch {
	case v.loading && v.chunks == nil:
		b.WriteString(v.styles.Muted.Render("Loading chunks..."))
	case v.chunks == nil || len(v.chunks.Chunks) == 0:
		b.WriteString(v.styles.Muted.Render("No chunks"))
	default:
		b.WriteString(v.styles.Subtitle.Render(fmt.Sprintf("Chunks (%d)", len(v.chunks.Chunks))))
		b.WriteString("\n\n")
		visible := max((v.height-8)/linesPerChunk, 1)
		end := min(v.scrollOffset+visible, len(v.chunks.Chunks))
		for _, c := range v.chunks.Chunks[v.scrollOffset:end] {
			b.WriteString(v.renderChunk(c))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(v.styles.Help.Render("[j/k] Scroll  [r] Refresh  [esc] Documents"))
	return b.String()
}

func (v *View) renderChunk(c domain.Chunk) string {
	var b strings.Builder
	b.WriteString(v.styles.Normal.Bold(true).Render(fmt.Sprintf("Chunk %d", c.Number)))
	b.WriteString("\n")
	b.WriteString(v.styles.Muted.Render("  start: " + oneLine(c.Start)))
	b.WriteString("\n")
	b.WriteString(v.styles.Muted.Render("  end:   " + oneLine(c.End)))
	b.WriteString("\n")
	b.WriteString(v.styles.Distance.Render("  embedding: " + FormatEmbedding(c.EmbeddingPreview)))
	return b.String()
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// FormatEmbedding renders embedding components with four decimals.
func FormatEmbedding(values []float64) string {
	if len(values) == 0 {
		return "[]"
	}
	parts := make([]string, len(values))
	for i, f := range values {
		parts[i] = strconv.FormatFloat(f, 'f', 4, 64)
	}
	return "[" + strings.Join(parts, ", ") + ", …]"
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
}

// DocumentID returns the document being shown.
func (v *View) DocumentID() int64 {
	return v.documentID
}

// Chunks returns the loaded chunks, or nil.
func (v *View) Chunks() *domain.DocumentChunks {
	return v.chunks
}
