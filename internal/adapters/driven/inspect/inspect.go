// Package inspect previews local files before they are uploaded.
//
// PDFs are checked for the %PDF signature the backend requires and their
// page count is read. Markdown files are parsed for their first heading.
package inspect

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"

	"github.com/custodia-labs/ragdesk/internal/core/domain"
	"github.com/custodia-labs/ragdesk/internal/core/ports/driven"
	"github.com/custodia-labs/ragdesk/internal/logger"
)

// Ensure Inspector implements the interface.
var _ driven.FileInspector = (*Inspector)(nil)

// pdfSignature is the prefix every PDF starts with.
var pdfSignature = []byte("%PDF")

// maxMarkdownScan bounds how much of a Markdown file is parsed for a title.
const maxMarkdownScan = 256 << 10

// Inspector implements driven.FileInspector.
type Inspector struct {
	markdown goldmark.Markdown
}

// New creates an Inspector.
func New() *Inspector {
	return &Inspector{
		markdown: goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}
}

// Inspect implements driven.FileInspector.
func (i *Inspector) Inspect(path string) (*domain.FilePreview, error) {
	kind, err := domain.ValidateUploadFile(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, &domain.ValidationError{Field: "file", Message: "please select a file, not a directory"}
	}
	if info.Size() == 0 {
		return nil, &domain.ValidationError{Field: "file", Message: "file is empty"}
	}

	preview := &domain.FilePreview{
		Path: path,
		Name: filepath.Base(path),
		Kind: kind,
		Size: info.Size(),
	}

	switch kind {
	case domain.FileKindPDF:
		pages, err := inspectPDF(f, info.Size())
		if err != nil {
			return nil, err
		}
		preview.Pages = pages
	case domain.FileKindMarkdown:
		src, err := io.ReadAll(io.LimitReader(f, maxMarkdownScan))
		if err != nil {
			return nil, err
		}
		preview.Title = i.markdownTitle(src)
	}

	return preview, nil
}

// inspectPDF checks the signature and returns the page count. A file
// with a valid signature that the reader cannot parse reports zero pages.
func inspectPDF(f *os.File, size int64) (pages int, err error) {
	head := make([]byte, len(pdfSignature))
	if _, err := f.ReadAt(head, 0); err != nil || !bytes.Equal(head, pdfSignature) {
		return 0, &domain.ValidationError{
			Field:   "file",
			Message: "invalid PDF file",
			Err:     domain.ErrUnsupportedFileType,
		}
	}

	defer func() {
		if r := recover(); r != nil {
			logger.Warn("Could not read PDF structure of %s: %v", f.Name(), r)
			pages, err = 0, nil
		}
	}()

	reader, rerr := pdf.NewReader(f, size)
	if rerr != nil {
		logger.Warn("Could not read PDF structure of %s: %v", f.Name(), rerr)
		return 0, nil
	}
	return reader.NumPage(), nil
}

// markdownTitle returns the text of the first heading, or "".
func (i *Inspector) markdownTitle(src []byte) string {
	doc := i.markdown.Parser().Parse(text.NewReader(src))

	var title string
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		heading, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}
		title = headingText(heading, src)
		return ast.WalkStop, nil
	})
	return title
}

func headingText(heading *ast.Heading, src []byte) string {
	var buf strings.Builder
	_ = ast.Walk(heading, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if t, ok := n.(*ast.Text); ok {
			buf.Write(t.Segment.Value(src))
			if t.SoftLineBreak() {
				buf.WriteByte(' ')
			}
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(buf.String())
}
