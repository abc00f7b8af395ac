package export

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"
)

// SheetName is the name of the single worksheet written.
const SheetName = "Extracted"

// Writer renders rows into an XLSX workbook.
type Writer struct {
	logger *slog.Logger
}

// NewWriter creates a workbook writer.
func NewWriter(logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Writer{logger: logger}
}

// Write emits a workbook with a header row (the schema) followed by one
// worksheet row per Row.
func (w *Writer) Write(out io.Writer, schema Schema, rows []Row) error {
	start := time.Now()

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return fmt.Errorf("name sheet: %w", err)
	}

	header := make([]any, len(schema))
	for i, c := range schema {
		header[i] = c
	}
	if err := setRow(f, 1, header); err != nil {
		return err
	}
	for i, r := range rows {
		if err := setRow(f, i+2, r.Values(schema)); err != nil {
			return err
		}
	}

	if err := f.Write(out); err != nil {
		return fmt.Errorf("xlsx write: %w", err)
	}

	w.logger.Info("export.xlsx.ok",
		"rows", len(rows),
		"columns", len(schema),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

func setRow(f *excelize.File, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
		return fmt.Errorf("write row %d: %w", row, err)
	}
	return nil
}
