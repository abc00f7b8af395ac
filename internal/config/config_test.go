package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Mode != "batch" {
		t.Errorf("Expected default mode to be 'batch', got '%s'", cfg.Mode)
	}

	if cfg.OutputPath != "quotes.xlsx" {
		t.Errorf("Expected default output to be 'quotes.xlsx', got '%s'", cfg.OutputPath)
	}

	if cfg.Brand != "Alcorn Industrial Inc" {
		t.Errorf("Expected default brand to be 'Alcorn Industrial Inc', got '%s'", cfg.Brand)
	}

	if cfg.Workers != 4 {
		t.Errorf("Expected default workers to be 4, got %d", cfg.Workers)
	}

	if cfg.HeaderLines != 20 {
		t.Errorf("Expected default header lines to be 20, got %d", cfg.HeaderLines)
	}

	if cfg.ServerName != "quote-extractor" {
		t.Errorf("Expected default server name to be 'quote-extractor', got '%s'", cfg.ServerName)
	}

	if cfg.LogLevel != "info" {
		t.Errorf("Expected default log level to be 'info', got '%s'", cfg.LogLevel)
	}

	if cfg.MaxFileSize != 50*1024*1024 {
		t.Errorf("Expected default max file size to be 50MB, got %d", cfg.MaxFileSize)
	}

	if cfg.SchemaPath != "" || cfg.CountryFallback != "" || cfg.FileNamePrefix != "" || cfg.UOM != "" {
		t.Errorf("Expected optional settings to be empty, got %s", cfg)
	}

	if !cfg.Strict {
		t.Error("Expected strict cleanup to be on by default")
	}

	currentDir, _ := os.Getwd()
	if cfg.PDFDirectory != currentDir {
		t.Errorf("Expected default PDF directory to be '%s', got '%s'", currentDir, cfg.PDFDirectory)
	}
}

func TestConfigValidate(t *testing.T) {
	tempDir := t.TempDir()

	schema := filepath.Join(tempDir, "schema.yaml")
	if err := os.WriteFile(schema, []byte("columns: [Brand]\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	file := filepath.Join(tempDir, "file.pdf")
	if err := os.WriteFile(file, []byte("%PDF-"), 0o644); err != nil {
		t.Fatal(err)
	}

	valid := func() *Config {
		cfg := DefaultConfig()
		cfg.PDFDirectory = tempDir
		return cfg
	}

	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr string
	}{
		{name: "valid batch config", modify: func(*Config) {}},
		{name: "valid stdio config", modify: func(c *Config) { c.Mode = ModeStdio; c.OutputPath = "" }},
		{name: "valid with schema", modify: func(c *Config) { c.SchemaPath = schema }},
		{name: "invalid mode", modify: func(c *Config) { c.Mode = "server" }, wantErr: "mode must be either"},
		{name: "empty directory", modify: func(c *Config) { c.PDFDirectory = "" }, wantErr: "PDF directory cannot be empty"},
		{
			name:    "missing directory",
			modify:  func(c *Config) { c.PDFDirectory = filepath.Join(tempDir, "missing") },
			wantErr: "cannot access PDF directory",
		},
		{name: "directory is a file", modify: func(c *Config) { c.PDFDirectory = file }, wantErr: "is not a directory"},
		{name: "batch without output", modify: func(c *Config) { c.OutputPath = "" }, wantErr: "output path cannot be empty"},
		{
			name:    "missing schema",
			modify:  func(c *Config) { c.SchemaPath = filepath.Join(tempDir, "nope.xlsx") },
			wantErr: "cannot access schema",
		},
		{name: "zero workers", modify: func(c *Config) { c.Workers = 0 }, wantErr: "workers must be at least 1"},
		{name: "zero header lines", modify: func(c *Config) { c.HeaderLines = 0 }, wantErr: "header lines must be at least 1"},
		{name: "zero max file size", modify: func(c *Config) { c.MaxFileSize = 0 }, wantErr: "maximum file size must be positive"},
		{name: "invalid log level", modify: func(c *Config) { c.LogLevel = "verbose" }, wantErr: "invalid log level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.modify(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() expected error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestConfigHelpers(t *testing.T) {
	cfg := DefaultConfig()

	if !cfg.IsBatchMode() || cfg.IsStdioMode() {
		t.Errorf("Expected batch mode helpers for mode %q", cfg.Mode)
	}

	cfg.Mode = ModeStdio
	if cfg.IsBatchMode() || !cfg.IsStdioMode() {
		t.Errorf("Expected stdio mode helpers for mode %q", cfg.Mode)
	}

	if cfg.IsDebug() {
		t.Error("Expected IsDebug to be false for info level")
	}
	cfg.LogLevel = "debug"
	if !cfg.IsDebug() {
		t.Error("Expected IsDebug to be true for debug level")
	}

	s := cfg.String()
	for _, want := range []string{"Mode: stdio", "Workers: 4", "LogLevel: debug"} {
		if !strings.Contains(s, want) {
			t.Errorf("String() = %q, missing %q", s, want)
		}
	}
}
