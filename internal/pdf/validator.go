package pdf

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

var pdfMagic = []byte("%PDF-")

// Validator handles PDF file validation operations
type Validator struct {
	maxFileSize int64
}

// NewValidator creates a new PDF validator with the specified constraints
func NewValidator(maxFileSize int64) *Validator {
	return &Validator{
		maxFileSize: maxFileSize,
	}
}

// ValidateFileInfo performs basic validation on file info without opening the PDF
func (v *Validator) ValidateFileInfo(filePath string, fileInfo os.FileInfo) error {
	if fileInfo.IsDir() {
		return fmt.Errorf("path is a directory, not a file: %s", filePath)
	}

	if !IsPDFName(filePath) {
		return fmt.Errorf("%w: %s", ErrNotPDF, filePath)
	}

	if fileInfo.Size() == 0 {
		return fmt.Errorf("%w: %s", ErrEmptyDocument, filePath)
	}

	if v.maxFileSize > 0 && fileInfo.Size() > v.maxFileSize {
		return fmt.Errorf("%w: %d bytes (max: %d bytes)", ErrFileTooLarge, fileInfo.Size(), v.maxFileSize)
	}

	return nil
}

// ValidateBytes checks the size limit and header of an in-memory PDF and
// runs it through pdfcpu's relaxed structural validation.
func (v *Validator) ValidateBytes(data []byte) error {
	if len(data) == 0 {
		return ErrEmptyDocument
	}
	if v.maxFileSize > 0 && int64(len(data)) > v.maxFileSize {
		return fmt.Errorf("%w: %d bytes (max: %d bytes)", ErrFileTooLarge, len(data), v.maxFileSize)
	}
	if !bytes.HasPrefix(bytes.TrimLeft(data, "\x00\t\n\r "), pdfMagic) {
		return ErrNotPDF
	}

	if _, err := PageCount(data); err != nil {
		return err
	}
	return nil
}

// PageCount returns the number of pages pdfcpu finds in the document.
func PageCount(data []byte) (n int, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			n, err = 0, malformed(fmt.Errorf("validator panic: %v", rec))
		}
	}()

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	ctx, err := api.ReadContext(bytes.NewReader(data), conf)
	if err != nil {
		return 0, malformed(err)
	}
	if err := ctx.EnsurePageCount(); err != nil {
		return 0, malformed(err)
	}
	if ctx.PageCount == 0 {
		return 0, ErrEmptyDocument
	}
	return ctx.PageCount, nil
}

// IsPDFName reports whether a file name carries the .pdf extension.
func IsPDFName(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), ".pdf")
}
