package services

import (
	"context"
	"io"

	"github.com/custodia-labs/ragdesk/internal/core/domain"
	"github.com/custodia-labs/ragdesk/internal/core/ports/driven"
)

// mockBackend records calls and returns canned responses.
type mockBackend struct {
	collections    []string
	documents      []domain.Document
	chunks         *domain.DocumentChunks
	results        []domain.QueryResult
	err            error
	listDocsErr    error
	uploadedBody   string
	uploadedName   string
	uploadedTarget string
	queryText      string
	queryWire      string
	deletedName    string
	calls          map[string]int
}

func newMockBackend() *mockBackend {
	return &mockBackend{calls: make(map[string]int)}
}

func (m *mockBackend) ListCollections(_ context.Context) ([]string, error) {
	m.calls["ListCollections"]++
	return m.collections, m.err
}

func (m *mockBackend) CreateCollection(_ context.Context, name string) error {
	m.calls["CreateCollection"]++
	if m.err != nil {
		return m.err
	}
	m.collections = append(m.collections, name)
	return nil
}

func (m *mockBackend) DeleteCollection(_ context.Context, name string) error {
	m.calls["DeleteCollection"]++
	m.deletedName = name
	return m.err
}

func (m *mockBackend) ListDocuments(_ context.Context) ([]domain.Document, error) {
	m.calls["ListDocuments"]++
	if m.listDocsErr != nil {
		return nil, m.listDocsErr
	}
	return m.documents, m.err
}

func (m *mockBackend) DeleteDocument(_ context.Context, _ int64) error {
	m.calls["DeleteDocument"]++
	return m.err
}

func (m *mockBackend) DocumentChunks(_ context.Context, _ int64) (*domain.DocumentChunks, error) {
	m.calls["DocumentChunks"]++
	if m.err != nil {
		return nil, m.err
	}
	return m.chunks, nil
}

func (m *mockBackend) UploadDocument(_ context.Context, upload driven.FileUpload) error {
	m.calls["UploadDocument"]++
	if m.err != nil {
		return m.err
	}
	body, err := io.ReadAll(upload.Body)
	if err != nil {
		return err
	}
	m.uploadedBody = string(body)
	m.uploadedName = upload.Filename
	m.uploadedTarget = upload.Collection
	return nil
}

func (m *mockBackend) UploadText(_ context.Context, name, content, collection string) error {
	m.calls["UploadText"]++
	if m.err != nil {
		return m.err
	}
	m.uploadedName = name
	m.uploadedBody = content
	m.uploadedTarget = collection
	return nil
}

func (m *mockBackend) Query(_ context.Context, text, collections string) ([]domain.QueryResult, error) {
	m.calls["Query"]++
	m.queryText = text
	m.queryWire = collections
	return m.results, m.err
}

func (m *mockBackend) Health(_ context.Context) (string, error) {
	m.calls["Health"]++
	if m.err != nil {
		return "", m.err
	}
	return "healthy", nil
}

// mockInspector returns a fixed preview or error.
type mockInspector struct {
	preview *domain.FilePreview
	err     error
	calls   int
}

func (m *mockInspector) Inspect(path string) (*domain.FilePreview, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	if m.preview != nil {
		return m.preview, nil
	}
	kind, _ := domain.KindOf(path)
	return &domain.FilePreview{Path: path, Name: path, Kind: kind}, nil
}
