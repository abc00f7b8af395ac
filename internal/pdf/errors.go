package pdf

import (
	"errors"
	"fmt"
)

// Sentinel errors for documents that cannot be turned into text.
var (
	ErrMalformedDocument = errors.New("malformed PDF document")
	ErrFileTooLarge      = errors.New("file too large")
	ErrEmptyDocument     = errors.New("document is empty")
	ErrNotPDF            = errors.New("not a PDF file")
)

// DocumentError describes a failure to acquire one document. The underlying
// parser error is kept for logging but never shown to the user: Error only
// names the document and the operation.
type DocumentError struct {
	Name string
	Op   string
	Err  error
}

func (e *DocumentError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Name, publicReason(e.Err))
}

func (e *DocumentError) Unwrap() error {
	return e.Err
}

// Detail returns the full underlying error text, for debug logging only.
func (e *DocumentError) Detail() string {
	if e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

func publicReason(err error) error {
	for _, sentinel := range []error{ErrFileTooLarge, ErrEmptyDocument, ErrNotPDF, ErrMalformedDocument} {
		if errors.Is(err, sentinel) {
			return sentinel
		}
	}
	return ErrMalformedDocument
}

// malformed wraps a parser error so that it matches ErrMalformedDocument.
func malformed(err error) error {
	return fmt.Errorf("%w: %w", ErrMalformedDocument, err)
}
