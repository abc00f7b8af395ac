// Package pdf turns PDF bytes into per-page text and word boxes for the quote
// extractor. Structural validation goes through pdfcpu; glyph positions come
// from ledongthuc/pdf.
package pdf

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/a3tai/quote-extractor/internal/layout"
	"github.com/a3tai/quote-extractor/internal/quote"
)

const (
	defaultPageHeight = 792.0 // US Letter
	rowTolerance      = 2.0
	columnGap         = 12.0
)

// Reader handles PDF acquisition: validation, text and word extraction.
type Reader struct {
	maxFileSize int64
	validator   *Validator
	logger      *slog.Logger
}

// NewReader creates a new PDF reader with the specified size limit.
func NewReader(maxFileSize int64, logger *slog.Logger) *Reader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reader{
		maxFileSize: maxFileSize,
		validator:   NewValidator(maxFileSize),
		logger:      logger,
	}
}

// ReadFile loads a PDF from disk and extracts its pages.
func (r *Reader) ReadFile(path string) (*quote.Document, error) {
	name := filepath.Base(path)

	info, err := os.Stat(path)
	if err != nil {
		return nil, &DocumentError{Name: name, Op: "stat", Err: err}
	}
	if err := r.validator.ValidateFileInfo(path, info); err != nil {
		return nil, &DocumentError{Name: name, Op: "validate", Err: err}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &DocumentError{Name: name, Op: "read", Err: err}
	}
	return r.Read(name, data)
}

// Read extracts the pages of an in-memory PDF. The buffer is not retained.
func (r *Reader) Read(name string, data []byte) (*quote.Document, error) {
	if err := r.validator.ValidateBytes(data); err != nil {
		return nil, &DocumentError{Name: name, Op: "validate", Err: err}
	}

	pages, err := r.extractPages(data)
	if err != nil {
		return nil, &DocumentError{Name: name, Op: "extract", Err: err}
	}

	doc := &quote.Document{Name: name, Pages: pages}
	r.logger.Debug("document read", "document", name, "pages", len(pages), "bytes", len(data))
	return doc, nil
}

// extractPages converts every page to word boxes and text. A panic inside
// the content stream decoder is reported as a malformed document.
func (r *Reader) extractPages(data []byte) (pages []quote.Page, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			pages = nil
			err = malformed(fmt.Errorf("content decoder panic: %v", rec))
		}
	}()

	pdfReader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, malformed(err)
	}

	for pageNum := 1; pageNum <= pdfReader.NumPage(); pageNum++ {
		page := pdfReader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}

		words := pageWords(page.Content().Text, pageHeight(page))
		text := wordText(words)
		if text == "" {
			// Fall back to the library's own text ordering when no glyph
			// positions were reported.
			if plain, perr := page.GetPlainText(nil); perr == nil {
				text = strings.TrimSpace(plain)
			}
		}

		pages = append(pages, quote.Page{Number: pageNum, Text: text, Words: words})
	}

	if len(pages) == 0 {
		return nil, ErrEmptyDocument
	}
	return pages, nil
}

// wordText flattens words into lines, keeping wide gaps as double spaces so
// side-by-side blocks stay separable.
func wordText(words []layout.Word) string {
	rows := layout.GroupRows(words, rowTolerance)
	lines := make([]string, len(rows))
	for i, row := range rows {
		lines[i] = row.SpacedText(columnGap)
	}
	return strings.Join(lines, "\n")
}

// pageHeight reads the page's MediaBox, inherited from the page tree when
// the page itself does not carry one.
func pageHeight(page pdf.Page) float64 {
	for v := page.V; !v.IsNull(); v = v.Key("Parent") {
		box := v.Key("MediaBox")
		if box.Kind() == pdf.Array && box.Len() == 4 {
			if h := box.Index(3).Float64() - box.Index(1).Float64(); h > 0 {
				return h
			}
		}
	}
	return defaultPageHeight
}
