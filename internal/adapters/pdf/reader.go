// Package pdf extracts plain text from PDF documents.
package pdf

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/SscSPs/procurement_agent/internal/apperrors"
	"github.com/ledongthuc/pdf"
)

// Reader implements gateways.DocumentReader for PDF files on disk.
type Reader struct{}

func NewReader() *Reader {
	return &Reader{}
}

// ReadText returns the text of every page, one page per line block. The parser panics on
// some malformed files, so panics are reported as ErrUnsupportedFormat.
func (r *Reader) ReadText(ctx context.Context, path string) (text string, err error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open document: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return "", fmt.Errorf("stat document: %w", err)
	}

	defer func() {
		if rec := recover(); rec != nil {
			text = ""
			err = fmt.Errorf("%w: %v", apperrors.ErrUnsupportedFormat, rec)
		}
	}()

	reader, err := pdf.NewReader(file, info.Size())
	if err != nil {
		return "", fmt.Errorf("%w: %v", apperrors.ErrUnsupportedFormat, err)
	}

	var sb strings.Builder
	for pageIndex := 1; pageIndex <= reader.NumPage(); pageIndex++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		page := reader.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		sb.WriteString(pageText)
		sb.WriteString("\n")
	}
	return sb.String(), nil
}
