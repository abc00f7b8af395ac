package batch

import (
	"fmt"
	"os"

	"github.com/a3tai/quote-extractor/internal/export"
	"github.com/a3tai/quote-extractor/internal/pdf"
)

// DirectorySources lists every PDF under dir, sorted by path. Size and
// emptiness checks are left to the reader so such files show up as failures
// rather than vanishing from the run.
func DirectorySources(dir string) ([]Source, error) {
	files, err := pdf.NewSearch(0).ListPDFs(dir)
	if err != nil {
		return nil, err
	}
	sources := make([]Source, len(files))
	for i, f := range files {
		sources[i] = Source{Name: f.Name, Path: f.Path}
	}
	return sources, nil
}

// WriteWorkbook writes the report's rows to an XLSX file at path.
func (p *Processor) WriteWorkbook(path string, report *Report) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create workbook: %w", err)
	}
	if err := export.NewWriter(p.logger).Write(out, p.schema, report.Rows()); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
