package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/ragdesk/internal/core/domain"
	"github.com/custodia-labs/ragdesk/internal/core/ports/driven"
	"github.com/custodia-labs/ragdesk/internal/core/ports/driving"
	"github.com/custodia-labs/ragdesk/internal/logger"
)

// Ensure UploadService implements the interface.
var _ driving.UploadService = (*UploadService)(nil)

// UploadService validates local files and sends them to the backend.
type UploadService struct {
	backend   driven.Backend
	inspector driven.FileInspector
}

// NewUploadService creates a new upload service.
// The inspector is optional; without it files are checked by extension only.
func NewUploadService(backend driven.Backend, inspector driven.FileInspector) *UploadService {
	return &UploadService{backend: backend, inspector: inspector}
}

// Inspect validates path and returns its preview. Disallowed types fail
// with domain.ErrUnsupportedFileType before the file is opened.
func (s *UploadService) Inspect(path string) (*domain.FilePreview, error) {
	kind, err := domain.ValidateUploadFile(path)
	if err != nil {
		return nil, err
	}

	if s.inspector != nil {
		preview, err := s.inspector.Inspect(path)
		if err != nil {
			return nil, fmt.Errorf("inspecting %s: %w", filepath.Base(path), err)
		}
		return preview, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("inspecting %s: %w", filepath.Base(path), err)
	}
	if info.IsDir() {
		return nil, &domain.ValidationError{Field: "file", Message: "please select a file, not a directory"}
	}
	return &domain.FilePreview{
		Path: path,
		Name: filepath.Base(path),
		Kind: kind,
		Size: info.Size(),
	}, nil
}

// UploadFile uploads a local file. Validation failures never reach the backend.
func (s *UploadService) UploadFile(ctx context.Context, path, collection string) error {
	collection, err := validateTargetCollection(collection)
	if err != nil {
		return err
	}

	preview, err := s.Inspect(path)
	if err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", preview.Name, err)
	}
	defer f.Close()

	logger.Debug("Uploading %s (%d bytes) to %q", preview.Name, preview.Size, collection)
	err = s.backend.UploadDocument(ctx, driven.FileUpload{
		Filename:   preview.Name,
		Collection: collection,
		Body:       f,
	})
	if err != nil {
		return fmt.Errorf("uploading %s: %w", preview.Name, err)
	}
	return nil
}

// UploadText uploads raw text. A name without an accepted extension gets ".txt".
func (s *UploadService) UploadText(ctx context.Context, name, content, collection string) error {
	collection, err := validateTargetCollection(collection)
	if err != nil {
		return err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return &domain.ValidationError{Field: "name", Message: "please enter a document name"}
	}
	if _, ok := domain.KindOf(name); !ok {
		name += ".txt"
	}
	if strings.TrimSpace(content) == "" {
		return &domain.ValidationError{Field: "content", Message: "document text is empty"}
	}

	logger.Debug("Uploading text %s (%d bytes) to %q", name, len(content), collection)
	if err := s.backend.UploadText(ctx, name, content, collection); err != nil {
		return fmt.Errorf("uploading %s: %w", name, err)
	}
	return nil
}

func validateTargetCollection(collection string) (string, error) {
	collection = strings.TrimSpace(collection)
	if collection == "" {
		return "", &domain.ValidationError{Field: "collection", Message: "please select a collection"}
	}
	return collection, nil
}
