package pdftext

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/open-lectern/lectern/internal/core/domain"
	"github.com/open-lectern/lectern/internal/core/ports"
)

// Extractor reads stored lecture PDFs and returns their plain text.
type Extractor struct {
	storage ports.ObjectStorage
}

func NewExtractor(storage ports.ObjectStorage) *Extractor {
	return &Extractor{storage: storage}
}

// Extract returns the text of one zero-based page, or of the whole document
// with page texts joined by a newline. The pdf library panics on some
// malformed files, so parsing is fenced with a recover.
func (e *Extractor) Extract(ctx context.Context, storageKey string, scope domain.PageScope) (text string, err error) {
	reader, err := e.storage.Open(ctx, storageKey)
	if err != nil {
		return "", fmt.Errorf("open stored document: %w", err)
	}
	defer reader.Close()

	raw, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("read stored document: %w", err)
	}

	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = domain.WrapError(domain.ErrExtraction, "parse pdf", fmt.Errorf("reader panic: %v", r))
		}
	}()

	doc, err := pdf.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return "", domain.WrapError(domain.ErrExtraction, "parse pdf", err)
	}

	if scope.All {
		parts := make([]string, 0, doc.NumPage())
		for i := 1; i <= doc.NumPage(); i++ {
			parts = append(parts, pageText(doc, i))
		}
		return strings.Join(parts, "\n"), nil
	}

	if scope.Index < 0 || scope.Index >= doc.NumPage() {
		return "", domain.WrapError(domain.ErrPageOutOfRange, "select page",
			fmt.Errorf("page %d of %d", scope.Index+1, doc.NumPage()))
	}
	return pageText(doc, scope.Index+1), nil
}

// pageText reads one 1-based page. A page that cannot be decoded contributes
// the empty string instead of failing the whole document.
func pageText(doc *pdf.Reader, num int) (text string) {
	defer func() {
		if recover() != nil {
			text = ""
		}
	}()

	page := doc.Page(num)
	if page.V.IsNull() {
		return ""
	}
	out, err := page.GetPlainText(nil)
	if err != nil {
		return ""
	}
	return out
}
