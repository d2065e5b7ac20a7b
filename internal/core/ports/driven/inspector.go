package driven

import "github.com/custodia-labs/ragdesk/internal/core/domain"

// FileInspector previews a local file before upload.
type FileInspector interface {
	// Inspect reads path and returns its preview.
	// Files whose content does not match their extension fail with
	// domain.ErrUnsupportedFileType.
	Inspect(path string) (*domain.FilePreview, error)
}
