// Package batch runs the quote extractor over many documents with a bounded
// worker pool and collects spreadsheet rows in input order.
package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/a3tai/quote-extractor/internal/export"
	"github.com/a3tai/quote-extractor/internal/pdf"
	"github.com/a3tai/quote-extractor/internal/quote"
)

// FailureReason is the only failure text ever reported for a document.
// Parser details go to the debug log.
const FailureReason = "document could not be processed"

// Source is one document to process. When Data is nil the file at Path is
// read from disk.
type Source struct {
	Name string
	Path string
	Data []byte
}

func (s Source) name() string {
	if s.Name != "" {
		return s.Name
	}
	return filepath.Base(s.Path)
}

// Result is the outcome for one successfully read document.
type Result struct {
	Name     string       `json:"name"`
	FileName string       `json:"file_name"`
	Quote    *quote.Quote `json:"quote"`
	Rows     []export.Row `json:"-"`
}

// Failure records a document that could not be read.
type Failure struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// Report summarises one batch run.
type Report struct {
	RunID     string        `json:"run_id"`
	Documents int           `json:"documents"`
	Results   []Result      `json:"results"`
	Failures  []Failure     `json:"failures,omitempty"`
	Skipped   int           `json:"skipped,omitempty"`
	Elapsed   time.Duration `json:"elapsed"`
}

// Rows flattens every result's rows in input order.
func (r *Report) Rows() []export.Row {
	var rows []export.Row
	for _, res := range r.Results {
		rows = append(rows, res.Rows...)
	}
	return rows
}

// Config wires a Processor.
type Config struct {
	Reader    *pdf.Reader
	Extractor *quote.Extractor
	Schema    export.Schema
	Export    export.Options
	Workers   int
	Logger    *slog.Logger
}

// Processor extracts quotes from documents concurrently.
type Processor struct {
	reader    *pdf.Reader
	extractor *quote.Extractor
	schema    export.Schema
	export    export.Options
	workers   int
	logger    *slog.Logger
}

// NewProcessor creates a processor. Missing collaborators get defaults.
func NewProcessor(cfg Config) *Processor {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Reader == nil {
		cfg.Reader = pdf.NewReader(0, cfg.Logger)
	}
	if cfg.Extractor == nil {
		opts := quote.DefaultOptions()
		opts.Logger = cfg.Logger
		cfg.Extractor = quote.NewExtractor(opts)
	}
	if len(cfg.Schema) == 0 {
		cfg.Schema = export.DefaultSchema()
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	return &Processor{
		reader:    cfg.Reader,
		extractor: cfg.Extractor,
		schema:    cfg.Schema,
		export:    cfg.Export,
		workers:   cfg.Workers,
		logger:    cfg.Logger,
	}
}

// Schema returns the column schema rows are built against.
func (p *Processor) Schema() export.Schema {
	return p.schema
}

// WithSchema returns a copy of the processor that builds rows against schema.
func (p *Processor) WithSchema(schema export.Schema) *Processor {
	c := *p
	if len(schema) > 0 {
		c.schema = schema
	}
	return &c
}

// ExtractFile reads and extracts a single document.
func (p *Processor) ExtractFile(path string) (*Result, error) {
	return p.process(Source{Path: path})
}

// Process runs every source through the extractor. One bad document never
// stops the run: it becomes a Failure and the rest continue. Results and
// failures keep input order. When ctx is cancelled no further documents are
// started; the ones already running complete, and ctx.Err() is returned
// alongside the partial report.
func (p *Processor) Process(ctx context.Context, sources []Source) (*Report, error) {
	start := time.Now()
	runID := uuid.NewString()
	logger := p.logger.With("run_id", runID)

	type outcome struct {
		done   bool
		result *Result
		err    error
	}
	outcomes := make([]outcome, len(sources))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)

dispatch:
	for i, src := range sources {
		select {
		case <-gctx.Done():
			break dispatch
		default:
		}
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			res, err := p.process(src)
			outcomes[i] = outcome{done: true, result: res, err: err}
			return nil
		})
	}
	_ = g.Wait()

	report := &Report{RunID: runID, Documents: len(sources)}
	for i, o := range outcomes {
		switch {
		case !o.done:
			report.Skipped++
		case o.err != nil:
			name := sources[i].name()
			logger.Warn("batch.document.failed", "document", name)
			logger.Debug("batch.document.failed.detail", "document", name, "error", errorDetail(o.err))
			report.Failures = append(report.Failures, Failure{Name: name, Reason: FailureReason})
		default:
			report.Results = append(report.Results, *o.result)
		}
	}
	report.Elapsed = time.Since(start)

	logger.Info("batch.ok",
		"documents", report.Documents,
		"rows", len(report.Rows()),
		"failures", len(report.Failures),
		"skipped", report.Skipped,
		"elapsed_ms", report.Elapsed.Milliseconds(),
	)
	return report, ctx.Err()
}

func (p *Processor) process(src Source) (*Result, error) {
	name := src.name()

	var (
		doc *quote.Document
		err error
	)
	switch {
	case src.Data != nil:
		doc, err = p.reader.Read(name, src.Data)
	case src.Path != "":
		doc, err = p.reader.ReadFile(src.Path)
	default:
		err = fmt.Errorf("source %q has neither data nor path", name)
	}
	if err != nil {
		return nil, err
	}
	doc.Name = name

	q := p.extractor.Extract(doc)
	fileName := export.OutputFileName(q.Header.QuoteNumber, name, p.export.FileNamePrefix)

	p.logger.Debug("batch.document.ok",
		"document", name,
		"quote_number", q.Header.QuoteNumber,
		"items", len(q.Items),
		"mode", q.Mode,
	)
	return &Result{
		Name:     name,
		FileName: fileName,
		Quote:    q,
		Rows:     export.BuildRows(p.schema, q, fileName, p.export),
	}, nil
}

func errorDetail(err error) string {
	var docErr *pdf.DocumentError
	if errors.As(err, &docErr) {
		return docErr.Detail()
	}
	return err.Error()
}
