package batch

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/a3tai/quote-extractor/internal/export"
	"github.com/a3tai/quote-extractor/internal/pdf"
	"github.com/a3tai/quote-extractor/internal/pdf/pdftest"
)

func headerOnly(number string) []byte {
	return pdftest.Build(pdftest.Page(pdftest.Line(740, 50, "Order Number "+number)))
}

func TestProcessor_Process(t *testing.T) {
	sources := []Source{
		{Name: "a.pdf", Data: pdftest.Build(pdftest.SampleQuote())},
		{Name: "broken.pdf", Data: []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog")},
		{Name: "c.pdf", Data: headerOnly("QT000172")},
		{Name: "notes.pdf", Data: []byte("plain text")},
	}

	for _, workers := range []int{1, 4} {
		p := NewProcessor(Config{Workers: workers, Export: export.Options{FileNamePrefix: "Alcorn_"}})
		report, err := p.Process(context.Background(), sources)
		require.NoError(t, err)

		assert.NotEmpty(t, report.RunID)
		assert.Equal(t, 4, report.Documents)
		assert.Zero(t, report.Skipped)

		require.Len(t, report.Results, 2)
		assert.Equal(t, "a.pdf", report.Results[0].Name)
		assert.Equal(t, "Alcorn_QT000171.pdf", report.Results[0].FileName)
		assert.Equal(t, "c.pdf", report.Results[1].Name)
		assert.Equal(t, "Alcorn_QT000172.pdf", report.Results[1].FileName)

		assert.Equal(t, []Failure{
			{Name: "broken.pdf", Reason: FailureReason},
			{Name: "notes.pdf", Reason: FailureReason},
		}, report.Failures)

		rows := report.Rows()
		require.Len(t, rows, 3)
		assert.Equal(t, "PARTS & MISC", rows[0][export.ColItemID])
		assert.Equal(t, "AB-100", rows[1][export.ColItemID])
		assert.Equal(t, "QT000172", rows[2][export.ColQuoteNumber])
		assert.Equal(t, "Alcorn_QT000171.pdf", rows[0][export.ColPDF])
	}
}

func TestProcessor_ProcessCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := NewProcessor(Config{Workers: 2})
	report, err := p.Process(ctx, []Source{
		{Name: "a.pdf", Data: pdftest.Build(pdftest.SampleQuote())},
		{Name: "b.pdf", Data: headerOnly("QT000172")},
	})
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 2, report.Skipped)
	assert.Empty(t, report.Results)
	assert.Empty(t, report.Failures)
}

func TestProcessor_ExtractFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scan.pdf")
	require.NoError(t, os.WriteFile(path, pdftest.Build(pdftest.SampleQuote()), 0o644))

	p := NewProcessor(Config{})
	res, err := p.ExtractFile(path)
	require.NoError(t, err)
	assert.Equal(t, "scan.pdf", res.Name)
	assert.Equal(t, "QT000171.pdf", res.FileName)
	assert.Equal(t, "QT000171", res.Quote.Header.QuoteNumber)
	assert.Len(t, res.Rows, 2)

	_, err = p.ExtractFile(filepath.Join(dir, "missing.pdf"))
	var docErr *pdf.DocumentError
	assert.ErrorAs(t, err, &docErr)
}

func TestProcessor_SizeLimit(t *testing.T) {
	p := NewProcessor(Config{Reader: pdf.NewReader(100, nil)})
	report, err := p.Process(context.Background(), []Source{
		{Name: "big.pdf", Data: pdftest.Build(pdftest.SampleQuote())},
	})
	require.NoError(t, err)
	assert.Equal(t, []Failure{{Name: "big.pdf", Reason: FailureReason}}, report.Failures)
}

func TestDirectorySourcesAndWorkbook(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.pdf"), headerOnly("QT000172"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.pdf"), pdftest.Build(pdftest.SampleQuote()), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "readme.txt"), []byte("x"), 0o644))

	sources, err := DirectorySources(dir)
	require.NoError(t, err)
	require.Len(t, sources, 2)
	assert.Equal(t, "a.pdf", sources[0].Name)
	assert.Equal(t, "b.pdf", sources[1].Name)

	p := NewProcessor(Config{Schema: export.Schema{export.ColQuoteNumber, export.ColItemID}})
	report, err := p.Process(context.Background(), sources)
	require.NoError(t, err)

	out := filepath.Join(t.TempDir(), "quotes.xlsx")
	require.NoError(t, p.WriteWorkbook(out, report))

	f, err := excelize.OpenFile(out)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(export.SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"QuoteNumber", "item_id"}, rows[0])
	assert.Equal(t, []string{"QT000171", "PARTS & MISC"}, rows[1])
	assert.Equal(t, []string{"QT000171", "AB-100"}, rows[2])
	assert.Equal(t, "QT000172", rows[3][0])

	_, err = DirectorySources(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}

func TestDirectorySources_EmptyFileIsReportedAsFailure(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.pdf"), pdftest.Build(pdftest.SampleQuote()), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "empty.pdf"), nil, 0o644))

	sources, err := DirectorySources(dir)
	require.NoError(t, err)
	require.Len(t, sources, 2)
	assert.Equal(t, "empty.pdf", sources[1].Name)

	report, err := NewProcessor(Config{}).Process(context.Background(), sources)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Documents)
	require.Len(t, report.Results, 1)
	assert.Equal(t, []Failure{{Name: "empty.pdf", Reason: FailureReason}}, report.Failures)
}
