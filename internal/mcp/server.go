package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/a3tai/quote-extractor/internal/batch"
	"github.com/a3tai/quote-extractor/internal/config"
	"github.com/a3tai/quote-extractor/internal/descriptions"
	"github.com/a3tai/quote-extractor/internal/export"
	"github.com/a3tai/quote-extractor/internal/pdf"
)

// Server represents the MCP server instance
type Server struct {
	config    *config.Config
	processor *batch.Processor
	mcpServer *server.MCPServer
	logger    *slog.Logger
}

// NewServer creates a new MCP server instance
func NewServer(cfg *config.Config, processor *batch.Processor, logger *slog.Logger) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if processor == nil {
		return nil, fmt.Errorf("processor cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	mcpServer := server.NewMCPServer(
		cfg.ServerName,
		cfg.Version,
		server.WithToolCapabilities(false),
	)

	s := &Server{
		config:    cfg,
		processor: processor,
		mcpServer: mcpServer,
		logger:    logger,
	}
	s.registerTools()

	return s, nil
}

// registerTools registers all available MCP tools
func (s *Server) registerTools() {
	extractFileTool := mcp.NewTool(
		"quote_extract_file",
		mcp.WithDescription(descriptions.GetToolDescription("quote_extract_file")),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path to the quote PDF, absolute or relative to the quote directory"),
		),
	)
	s.mcpServer.AddTool(extractFileTool, s.handleExtractFile)

	exportDirectoryTool := mcp.NewTool(
		"quote_export_directory",
		mcp.WithDescription(descriptions.GetToolDescription("quote_export_directory")),
		mcp.WithString("directory",
			mcp.Description("Directory of quote PDFs (uses the configured directory if empty)"),
		),
		mcp.WithString("output",
			mcp.Description("Workbook to write (defaults to the configured output name inside the directory)"),
		),
		mcp.WithString("schema",
			mcp.Description("Column template: .xlsx header row or .yaml columns list"),
		),
	)
	s.mcpServer.AddTool(exportDirectoryTool, s.handleExportDirectory)

	serverInfoTool := mcp.NewTool(
		"quote_server_info",
		mcp.WithDescription(descriptions.GetToolDescription("quote_server_info")),
	)
	s.mcpServer.AddTool(serverInfoTool, s.handleServerInfo)
}

func (s *Server) handleExtractFile(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	resolved, err := pdf.ResolveInDirectory(path, s.config.PDFDirectory)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.processor.ExtractFile(resolved)
	if err != nil {
		s.logger.Debug("mcp.extract.failed", "path", resolved, "error", err)
		return mcp.NewToolResultError(err.Error()), nil
	}

	body, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(body)), nil
}

func (s *Server) handleExportDirectory(ctx context.Context, request mcp.CallToolRequest) (
	*mcp.CallToolResult, error,
) {
	args := request.GetArguments()

	directory := s.config.PDFDirectory
	if dir, ok := args["directory"].(string); ok && dir != "" {
		resolved, err := pdf.ResolveInDirectory(dir, s.config.PDFDirectory)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		directory = resolved
	}

	output := filepath.Join(directory, filepath.Base(s.config.OutputPath))
	if out, ok := args["output"].(string); ok && out != "" {
		resolved, err := resolveOutput(out, directory, s.config.PDFDirectory)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		output = resolved
	}

	processor := s.processor
	if schemaPath, ok := args["schema"].(string); ok && schemaPath != "" {
		resolved, err := pdf.ResolveInDirectory(schemaPath, s.config.PDFDirectory)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		schema, err := export.LoadSchema(resolved)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		processor = processor.WithSchema(schema)
	}

	sources, err := batch.DirectorySources(directory)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	report, err := processor.Process(ctx, sources)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("export interrupted: %v", err)), nil
	}
	if err := processor.WriteWorkbook(output, report); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatReport(report, directory, output)), nil
}

// resolveOutput places a relative output path in directory and confines the
// result to root. The file itself need not exist yet.
func resolveOutput(output, directory, root string) (string, error) {
	if !filepath.IsAbs(output) {
		output = filepath.Join(directory, output)
	}
	parent, err := pdf.ResolveInDirectory(filepath.Dir(output), root)
	if err != nil {
		return "", err
	}
	if !strings.HasSuffix(strings.ToLower(output), ".xlsx") {
		return "", fmt.Errorf("output must be an .xlsx file: %s", filepath.Base(output))
	}
	return filepath.Join(parent, filepath.Base(output)), nil
}

func (s *Server) handleServerInfo(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(s.formatServerInfo()), nil
}

func formatReport(report *batch.Report, directory, output string) string {
	text := "Quote export complete\n"
	text += fmt.Sprintf("Run ID: %s\n", report.RunID)
	text += fmt.Sprintf("Directory: %s\n", directory)
	text += fmt.Sprintf("Workbook: %s\n", output)
	text += fmt.Sprintf("Documents: %d\n", report.Documents)
	text += fmt.Sprintf("Rows: %d\n", len(report.Rows()))
	text += fmt.Sprintf("Elapsed: %d ms\n", report.Elapsed.Milliseconds())

	if len(report.Results) > 0 {
		text += "\nQuotes:\n"
		for i, res := range report.Results {
			number := res.Quote.Header.QuoteNumber
			if number == "" {
				number = "(no quote number)"
			}
			text += fmt.Sprintf("%d. %s: %s, %d item(s)\n", i+1, res.Name, number, len(res.Quote.Items))
		}
	}

	if len(report.Failures) > 0 {
		text += fmt.Sprintf("\nFailures (%d):\n", len(report.Failures))
		for _, f := range report.Failures {
			text += fmt.Sprintf("• %s: %s\n", f.Name, f.Reason)
		}
	}
	return text
}

func (s *Server) formatServerInfo() string {
	text := fmt.Sprintf("%s v%s - Server Information\n", s.config.ServerName, s.config.Version)
	text += fmt.Sprintf("Quote Directory: %s\n", s.config.PDFDirectory)
	text += fmt.Sprintf("Max File Size: %d MB\n", s.config.MaxFileSize/(1024*1024))
	text += fmt.Sprintf("Workers: %d\n", s.config.Workers)

	schema := s.config.SchemaPath
	if schema == "" {
		schema = "built-in"
	}
	text += fmt.Sprintf("Schema: %s (%d columns)\n", schema, len(s.processor.Schema()))
	text += fmt.Sprintf("Columns: %s\n", strings.Join(s.processor.Schema(), ", "))

	if files, err := pdf.NewSearch(s.config.MaxFileSize).FindPDFs(s.config.PDFDirectory, ""); err == nil {
		text += fmt.Sprintf("Quote PDFs found: %d\n", len(files))
	}

	text += "\nAvailable Tools:\n"
	for _, name := range descriptions.GetAllToolNames() {
		text += fmt.Sprintf("• %s: %s\n", name, descriptions.Summary(name))
	}
	return text
}

// Run serves MCP over standard I/O until the client disconnects
func (s *Server) Run(_ context.Context) error {
	s.logger.Debug("mcp.stdio.start", "directory", s.config.PDFDirectory)

	if err := server.ServeStdio(s.mcpServer); err != nil {
		return fmt.Errorf("failed to serve stdio: %w", err)
	}
	return nil
}
