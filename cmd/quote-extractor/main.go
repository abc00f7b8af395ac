package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/a3tai/quote-extractor/internal/batch"
	"github.com/a3tai/quote-extractor/internal/config"
	"github.com/a3tai/quote-extractor/internal/export"
	"github.com/a3tai/quote-extractor/internal/mcp"
	"github.com/a3tai/quote-extractor/internal/pdf"
	"github.com/a3tai/quote-extractor/internal/quote"
)

var (
	version   = "dev"     // This will be set by build flags
	buildTime = "unknown" // This will be set by build flags
	gitCommit = "unknown" // This will be set by build flags
)

// setupLogging builds the process logger. In stdio mode stdout carries the
// MCP protocol, so logs go to w (stderr) and only when debug is enabled.
func setupLogging(cfg *config.Config, w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}

	if cfg.IsStdioMode() && !cfg.IsDebug() {
		w = io.Discard
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// newProcessor wires the reader, extractor and row builder from configuration.
func newProcessor(cfg *config.Config, logger *slog.Logger) (*batch.Processor, error) {
	schema, err := export.LoadSchema(cfg.SchemaPath)
	if err != nil {
		return nil, fmt.Errorf("load schema: %w", err)
	}

	opts := quote.DefaultOptions()
	opts.HeaderLines = cfg.HeaderLines
	opts.Logger = logger

	return batch.NewProcessor(batch.Config{
		Reader:    pdf.NewReader(cfg.MaxFileSize, logger),
		Extractor: quote.NewExtractor(opts),
		Schema:    schema,
		Export: export.Options{
			Brand:           cfg.Brand,
			CountryFallback: cfg.CountryFallback,
			FileNamePrefix:  cfg.FileNamePrefix,
			UOM:             cfg.UOM,
			Strict:          cfg.Strict,
		},
		Workers: cfg.Workers,
		Logger:  logger,
	}), nil
}

// runBatch extracts every quote in the configured directory into one workbook.
func runBatch(ctx context.Context, cfg *config.Config, processor *batch.Processor, out io.Writer) error {
	sources, err := batch.DirectorySources(cfg.PDFDirectory)
	if err != nil {
		return err
	}

	report, err := processor.Process(ctx, sources)
	if err != nil {
		return fmt.Errorf("batch interrupted after %d of %d documents: %w",
			len(report.Results)+len(report.Failures), report.Documents, err)
	}
	if err := processor.WriteWorkbook(cfg.OutputPath, report); err != nil {
		return err
	}

	fmt.Fprintf(out, "Processed %d document(s): %d row(s), %d failure(s) -> %s\n",
		report.Documents, len(report.Rows()), len(report.Failures), cfg.OutputPath)
	for _, f := range report.Failures {
		fmt.Fprintf(out, "  %s: %s\n", f.Name, f.Reason)
	}
	return nil
}

// runStdioMode handles stdio mode execution
func runStdioMode(ctx context.Context, cfg *config.Config, processor *batch.Processor, logger *slog.Logger) error {
	server, err := mcp.NewServer(cfg, processor, logger)
	if err != nil {
		return fmt.Errorf("create MCP server: %w", err)
	}
	return server.Run(ctx)
}

func main() {
	// Check for version flag before parsing other flags
	for _, arg := range os.Args[1:] {
		if arg == "-version" || arg == "--version" || arg == "-v" {
			printVersion(os.Stdout)
			return
		}
	}

	cfg, err := config.LoadFromFlags()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(2)
	}

	if version != "dev" {
		cfg.Version = version
	}

	logger := setupLogging(cfg, os.Stderr)
	slog.SetDefault(logger)
	logger.Debug("config.loaded", "config", cfg.String())

	processor, err := newProcessor(cfg, logger)
	if err != nil {
		logger.Error("startup.failed", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.IsStdioMode() {
		err = runStdioMode(ctx, cfg, processor, logger)
	} else {
		err = runBatch(ctx, cfg, processor, os.Stdout)
	}
	if err != nil {
		logger.Error("run.failed", "mode", cfg.Mode, "error", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

// printVersion prints version information
func printVersion(w io.Writer) {
	fmt.Fprintf(w, "Quote Extractor\n")
	fmt.Fprintf(w, "Version: %s\n", version)
	fmt.Fprintf(w, "Build Time: %s\n", buildTime)
	fmt.Fprintf(w, "Git Commit: %s\n", gitCommit)
	fmt.Fprintf(w, "Built with: %s\n", runtime.Version())
}
