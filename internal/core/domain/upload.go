package domain

import (
	"fmt"
	"path/filepath"
	"strings"
)

// UploadState is a step of the upload workflow.
type UploadState int

const (
	// UploadIdle means no file has been chosen.
	UploadIdle UploadState = iota
	// UploadFileSelected means a valid file is held and may be submitted.
	UploadFileSelected
	// UploadSubmitting means a request is in flight; submits are disabled.
	UploadSubmitting
	// UploadSucceeded means the backend accepted the file.
	UploadSucceeded
)

// String returns the string representation of the state.
func (s UploadState) String() string {
	switch s {
	case UploadIdle:
		return "idle"
	case UploadFileSelected:
		return "file_selected"
	case UploadSubmitting:
		return "submitting"
	case UploadSucceeded:
		return "succeeded"
	default:
		return "unknown"
	}
}

// FileKind identifies an accepted upload type.
type FileKind string

// Accepted upload kinds.
const (
	FileKindPDF      FileKind = "pdf"
	FileKindText     FileKind = "text"
	FileKindMarkdown FileKind = "markdown"
)

// allowedExtensions maps lower-case extensions to their kind.
var allowedExtensions = map[string]FileKind{
	".pdf": FileKindPDF,
	".txt": FileKindText,
	".md":  FileKindMarkdown,
}

// AllowedExtensions returns the accepted file extensions.
func AllowedExtensions() []string {
	return []string{".pdf", ".txt", ".md"}
}

// KindOf returns the upload kind for a file name, matching the extension
// case-insensitively.
func KindOf(filename string) (FileKind, bool) {
	kind, ok := allowedExtensions[strings.ToLower(filepath.Ext(filename))]
	return kind, ok
}

// ValidateUploadFile rejects file names whose type is not accepted.
func ValidateUploadFile(filename string) (FileKind, error) {
	if strings.TrimSpace(filename) == "" {
		return "", &ValidationError{Field: "file", Message: "please select a PDF, TXT, or MD file"}
	}
	kind, ok := KindOf(filename)
	if !ok {
		return "", &ValidationError{
			Field:   "file",
			Message: "please select a PDF, TXT, or MD file",
			Err:     ErrUnsupportedFileType,
		}
	}
	return kind, nil
}

// FilePreview describes a locally chosen file before it is uploaded.
type FilePreview struct {
	// Path is the local file path.
	Path string

	// Name is the base file name sent to the backend.
	Name string

	// Kind is the accepted upload kind.
	Kind FileKind

	// Size is the file size in bytes.
	Size int64

	// Pages is the page count for PDFs, zero otherwise.
	Pages int

	// Title is the first heading for Markdown files, empty otherwise.
	Title string
}

// Describe formats the preview for display, for example
// `report.pdf (pdf, 2.0 KiB) · 3 pages`.
func (p *FilePreview) Describe() string {
	parts := []string{fmt.Sprintf("%s (%s, %s)", p.Name, p.Kind, humanSize(p.Size))}
	if p.Pages > 0 {
		parts = append(parts, fmt.Sprintf("%d pages", p.Pages))
	}
	if p.Title != "" {
		parts = append(parts, fmt.Sprintf("%q", p.Title))
	}
	return strings.Join(parts, " · ")
}

func humanSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
