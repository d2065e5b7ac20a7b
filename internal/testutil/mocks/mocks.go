// Package mocks provides hand-written driving port mocks for adapter tests.
//
// Each mock delegates to an optional ...Func field and counts calls, so tests
// can assert how many requests a view issued.
package mocks

import (
	"context"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/ragdesk/internal/core/domain"
	"github.com/custodia-labs/ragdesk/internal/core/ports/driving"
)

var (
	_ driving.CollectionService = (*CollectionService)(nil)
	_ driving.DocumentService   = (*DocumentService)(nil)
	_ driving.QueryService      = (*QueryService)(nil)
	_ driving.UploadService     = (*UploadService)(nil)
	_ driving.HealthService     = (*HealthService)(nil)
)

// counter records calls by method name.
type counter struct {
	mu    sync.Mutex
	calls map[string]int
}

func (c *counter) record(method string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.calls == nil {
		c.calls = make(map[string]int)
	}
	c.calls[method]++
}

// Calls returns how many times method was called.
func (c *counter) Calls(method string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls[method]
}

// CollectionService mocks driving.CollectionService.
type CollectionService struct {
	counter
	ListFunc   func(ctx context.Context) ([]domain.CollectionStats, error)
	NamesFunc  func(ctx context.Context) ([]string, error)
	CreateFunc func(ctx context.Context, name string) error
	DeleteFunc func(ctx context.Context, name string) error
}

func (m *CollectionService) List(ctx context.Context) ([]domain.CollectionStats, error) {
	m.record("List")
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return []domain.CollectionStats{}, nil
}

func (m *CollectionService) Names(ctx context.Context) ([]string, error) {
	m.record("Names")
	if m.NamesFunc != nil {
		return m.NamesFunc(ctx)
	}
	return []string{domain.DefaultCollectionName}, nil
}

func (m *CollectionService) Create(ctx context.Context, name string) error {
	m.record("Create")
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, name)
	}
	return nil
}

func (m *CollectionService) Delete(ctx context.Context, name string) error {
	m.record("Delete")
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, name)
	}
	return nil
}

// DocumentService mocks driving.DocumentService.
type DocumentService struct {
	counter
	ListFunc   func(ctx context.Context) ([]domain.Document, error)
	SearchFunc func(ctx context.Context, term string) ([]domain.Document, error)
	DeleteFunc func(ctx context.Context, id int64) error
	ChunksFunc func(ctx context.Context, id int64) (*domain.DocumentChunks, error)
}

func (m *DocumentService) List(ctx context.Context) ([]domain.Document, error) {
	m.record("List")
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return []domain.Document{}, nil
}

func (m *DocumentService) Search(ctx context.Context, term string) ([]domain.Document, error) {
	m.record("Search")
	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, term)
	}
	return []domain.Document{}, nil
}

func (m *DocumentService) Delete(ctx context.Context, id int64) error {
	m.record("Delete")
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *DocumentService) Chunks(ctx context.Context, id int64) (*domain.DocumentChunks, error) {
	m.record("Chunks")
	if m.ChunksFunc != nil {
		return m.ChunksFunc(ctx, id)
	}
	return &domain.DocumentChunks{DocumentID: id}, nil
}

// QueryService mocks driving.QueryService.
type QueryService struct {
	counter
	QueryFunc func(ctx context.Context, text string, scope domain.Scope) ([]domain.QueryResult, error)
}

func (m *QueryService) Query(ctx context.Context, text string, scope domain.Scope) ([]domain.QueryResult, error) {
	m.record("Query")
	if m.QueryFunc != nil {
		return m.QueryFunc(ctx, text, scope)
	}
	return []domain.QueryResult{}, nil
}

// UploadService mocks driving.UploadService.
type UploadService struct {
	counter
	InspectFunc    func(path string) (*domain.FilePreview, error)
	UploadFileFunc func(ctx context.Context, path, collection string) error
	UploadTextFunc func(ctx context.Context, name, content, collection string) error
}

func (m *UploadService) Inspect(path string) (*domain.FilePreview, error) {
	m.record("Inspect")
	if m.InspectFunc != nil {
		return m.InspectFunc(path)
	}
	kind, err := domain.ValidateUploadFile(path)
	if err != nil {
		return nil, err
	}
	return &domain.FilePreview{Path: path, Name: path, Kind: kind}, nil
}

func (m *UploadService) UploadFile(ctx context.Context, path, collection string) error {
	m.record("UploadFile")
	if m.UploadFileFunc != nil {
		return m.UploadFileFunc(ctx, path, collection)
	}
	return nil
}

func (m *UploadService) UploadText(ctx context.Context, name, content, collection string) error {
	m.record("UploadText")
	if m.UploadTextFunc != nil {
		return m.UploadTextFunc(ctx, name, content, collection)
	}
	return nil
}

// HealthService mocks driving.HealthService.
type HealthService struct {
	counter
	CheckFunc func(ctx context.Context) (string, error)
}

func (m *HealthService) Check(ctx context.Context) (string, error) {
	m.record("Check")
	if m.CheckFunc != nil {
		return m.CheckFunc(ctx)
	}
	return "healthy", nil
}

// Collect runs cmd and every command it batches, returning the produced
// messages in order. Nil commands and nil messages are skipped.
func Collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, Collect(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}
