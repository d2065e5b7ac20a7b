// Package messages defines Bubbletea message types for the TUI.
// Every asynchronous request answers with a message carrying the
// sequence number it was issued under, so views can drop stale answers.
package messages

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/ragdesk/internal/core/domain"
)

// ViewType identifies which section is currently active.
type ViewType int

const (
	// ViewMenu is the main navigation menu.
	ViewMenu ViewType = iota
	// ViewQuery is the scoped query view.
	ViewQuery
	// ViewCollections lists collections with their counts.
	ViewCollections
	// ViewDocuments lists every document.
	ViewDocuments
	// ViewChunks shows the chunks of one document.
	ViewChunks
	// ViewUpload is the file upload form.
	ViewUpload
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewMenu:
		return "menu"
	case ViewQuery:
		return "query"
	case ViewCollections:
		return "collections"
	case ViewDocuments:
		return "documents"
	case ViewChunks:
		return "document_chunks"
	case ViewUpload:
		return "upload"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ViewChanged is sent when navigating between sections.
// DocumentID is only meaningful for ViewChunks.
type ViewChanged struct {
	View       ViewType
	DocumentID int64
}

// OverviewLoaded carries the aggregate counts shown on the menu.
type OverviewLoaded struct {
	Seq         uint64
	Collections int
	Documents   int
	Health      string
	Err         error
}

// ScopeOptionsLoaded carries collection names for the query scope selector.
type ScopeOptionsLoaded struct {
	Seq   uint64
	Names []string
	Err   error
}

// ScopeRefreshRequested asks the query view to reload its scope options.
type ScopeRefreshRequested struct{}

// QueryCompleted carries query results back to the query view.
type QueryCompleted struct {
	Seq     uint64
	Query   string
	Results []domain.QueryResult
	Err     error
}

// CollectionsLoaded carries collection statistics.
type CollectionsLoaded struct {
	Seq   uint64
	Stats []domain.CollectionStats
	Err   error
}

// CollectionCreated is sent when a create request finishes.
type CollectionCreated struct {
	Name string
	Err  error
}

// CollectionDeleted is sent when a delete request finishes.
type CollectionDeleted struct {
	Name string
	Err  error
}

// DocumentsLoaded carries the document list.
type DocumentsLoaded struct {
	Seq       uint64
	Documents []domain.Document
	Err       error
}

// DocumentDeleted is sent when a document delete request finishes.
type DocumentDeleted struct {
	ID  int64
	Err error
}

// ChunksLoaded carries the chunks of a single document.
type ChunksLoaded struct {
	Seq    uint64
	Chunks *domain.DocumentChunks
	Err    error
}

// UploadCollectionsLoaded carries collection names for the upload picker.
type UploadCollectionsLoaded struct {
	Seq   uint64
	Names []string
	Err   error
}

// FileInspected carries the client-side preview of a chosen file.
type FileInspected struct {
	Seq     uint64
	Path    string
	Preview *domain.FilePreview
	Err     error
}

// UploadCompleted is sent when an upload request finishes.
type UploadCompleted struct {
	Seq      uint64
	Filename string
	Err      error
}

// UploadReset fires after the post-upload delay has elapsed.
type UploadReset struct {
	Seq uint64
}

// StatusSet asks the status bar to show a message.
type StatusSet struct {
	Message string
	IsError bool
}

// StatusExpired clears the status message with the given id, if still shown.
type StatusExpired struct {
	ID uint64
}

// Quit signals the application should exit.
type Quit struct{}

// Notify returns a command that shows message in the status bar.
func Notify(message string, isError bool) tea.Cmd {
	return func() tea.Msg {
		return StatusSet{Message: message, IsError: isError}
	}
}

// Navigate returns a command that switches to view.
func Navigate(view ViewType, documentID int64) tea.Cmd {
	return func() tea.Msg {
		return ViewChanged{View: view, DocumentID: documentID}
	}
}
