package config

import (
	"os"
	"strings"
	"testing"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var envVars = []string{
	"QUOTE_EXTRACTOR_MODE",
	"QUOTE_EXTRACTOR_DIR",
	"QUOTE_EXTRACTOR_SCHEMA",
	"QUOTE_EXTRACTOR_OUT",
	"QUOTE_EXTRACTOR_BRAND",
	"QUOTE_EXTRACTOR_COUNTRY_FALLBACK",
	"QUOTE_EXTRACTOR_FILENAME_PREFIX",
	"QUOTE_EXTRACTOR_UOM",
	"QUOTE_EXTRACTOR_STRICT",
	"QUOTE_EXTRACTOR_WORKERS",
	"QUOTE_EXTRACTOR_HEADER_LINES",
	"QUOTE_EXTRACTOR_LOGLEVEL",
	"QUOTE_EXTRACTOR_MAXFILESIZE",
}

// Helper function to reset pflag.CommandLine for testing
func resetFlags() {
	pflag.CommandLine = pflag.NewFlagSet(os.Args[0], pflag.ExitOnError)
	viper.Reset()
}

// withArgs runs LoadFromFlags with the given command line and a clean
// environment, restoring global state afterwards.
func withArgs(t *testing.T, env map[string]string, args ...string) (*Config, error) {
	t.Helper()

	originalArgs := os.Args
	t.Cleanup(func() {
		os.Args = originalArgs
		resetFlags()
	})

	for _, key := range envVars {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	for key, value := range env {
		t.Setenv(key, value)
	}

	os.Args = append([]string{"quote-extractor"}, args...)
	resetFlags()
	return LoadFromFlags()
}

func TestLoadFromFlags_DefaultConfig(t *testing.T) {
	tempDir := t.TempDir()

	cfg, err := withArgs(t, nil, "--dir="+tempDir)
	if err != nil {
		t.Fatalf("LoadFromFlags() unexpected error: %v", err)
	}

	if cfg.Mode != "batch" {
		t.Errorf("LoadFromFlags() Mode = %v, want %v", cfg.Mode, "batch")
	}
	if cfg.OutputPath != "quotes.xlsx" {
		t.Errorf("LoadFromFlags() OutputPath = %v, want %v", cfg.OutputPath, "quotes.xlsx")
	}
	if cfg.Workers != 4 {
		t.Errorf("LoadFromFlags() Workers = %v, want %v", cfg.Workers, 4)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LoadFromFlags() LogLevel = %v, want %v", cfg.LogLevel, "info")
	}
	if cfg.MaxFileSize != 50*1024*1024 {
		t.Errorf("LoadFromFlags() MaxFileSize = %v, want %v", cfg.MaxFileSize, 50*1024*1024)
	}
	if cfg.PDFDirectory == "" {
		t.Error("LoadFromFlags() PDFDirectory should not be empty")
	}
	if !cfg.Strict {
		t.Error("LoadFromFlags() Strict should default to true")
	}
	if cfg.UOM != "" {
		t.Errorf("LoadFromFlags() UOM = %v, want empty", cfg.UOM)
	}
}

func TestLoadFromFlags_ValidFlags(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		check func(*Config) string
	}{
		{
			name: "stdio mode",
			args: []string{"--mode=stdio"},
			check: func(c *Config) string {
				if c.Mode != "stdio" {
					return "Mode = " + c.Mode
				}
				return ""
			},
		},
		{
			name: "row building options",
			args: []string{"--brand=Acme", "--country-fallback=Canada", "--filename-prefix=Alcorn_", "--uom=EA"},
			check: func(c *Config) string {
				if c.Brand != "Acme" || c.CountryFallback != "Canada" || c.FileNamePrefix != "Alcorn_" || c.UOM != "EA" {
					return c.String()
				}
				return ""
			},
		},
		{
			name: "strict cleanup disabled",
			args: []string{"--strict=false"},
			check: func(c *Config) string {
				if c.Strict {
					return "Strict = true"
				}
				return ""
			},
		},
		{
			name: "extraction tuning",
			args: []string{"--workers=8", "--header-lines=30", "--maxfilesize=1000", "--loglevel=debug"},
			check: func(c *Config) string {
				if c.Workers != 8 || c.HeaderLines != 30 || c.MaxFileSize != 1000 || c.LogLevel != "debug" {
					return c.String()
				}
				return ""
			},
		},
		{
			name: "output path",
			args: []string{"--out=/tmp/out.xlsx"},
			check: func(c *Config) string {
				if c.OutputPath != "/tmp/out.xlsx" {
					return "OutputPath = " + c.OutputPath
				}
				return ""
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"--dir=" + t.TempDir()}, tt.args...)
			cfg, err := withArgs(t, nil, args...)
			if err != nil {
				t.Fatalf("LoadFromFlags() unexpected error: %v", err)
			}
			if msg := tt.check(cfg); msg != "" {
				t.Errorf("LoadFromFlags() unexpected config: %s", msg)
			}
		})
	}
}

func TestLoadFromFlags_EnvironmentVariables(t *testing.T) {
	tempDir := t.TempDir()

	cfg, err := withArgs(t, map[string]string{
		"QUOTE_EXTRACTOR_MODE":             "stdio",
		"QUOTE_EXTRACTOR_DIR":              tempDir,
		"QUOTE_EXTRACTOR_COUNTRY_FALLBACK": "USA",
		"QUOTE_EXTRACTOR_HEADER_LINES":     "12",
		"QUOTE_EXTRACTOR_LOGLEVEL":         "warn",
		"QUOTE_EXTRACTOR_MAXFILESIZE":      "200000000",
		"QUOTE_EXTRACTOR_UOM":              "PCS",
		"QUOTE_EXTRACTOR_STRICT":           "false",
	})
	if err != nil {
		t.Fatalf("LoadFromFlags() unexpected error: %v", err)
	}

	if cfg.Mode != "stdio" {
		t.Errorf("LoadFromFlags() Mode = %v, want %v", cfg.Mode, "stdio")
	}
	if cfg.CountryFallback != "USA" {
		t.Errorf("LoadFromFlags() CountryFallback = %v, want %v", cfg.CountryFallback, "USA")
	}
	if cfg.HeaderLines != 12 {
		t.Errorf("LoadFromFlags() HeaderLines = %v, want %v", cfg.HeaderLines, 12)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("LoadFromFlags() LogLevel = %v, want %v", cfg.LogLevel, "warn")
	}
	if cfg.MaxFileSize != 200000000 {
		t.Errorf("LoadFromFlags() MaxFileSize = %v, want %v", cfg.MaxFileSize, 200000000)
	}
	if cfg.UOM != "PCS" {
		t.Errorf("LoadFromFlags() UOM = %v, want %v", cfg.UOM, "PCS")
	}
	if cfg.Strict {
		t.Error("LoadFromFlags() Strict = true, want false from environment")
	}
}

func TestLoadFromFlags_FlagOverridesEnvironment(t *testing.T) {
	tempDir := t.TempDir()

	cfg, err := withArgs(t,
		map[string]string{"QUOTE_EXTRACTOR_MODE": "stdio", "QUOTE_EXTRACTOR_WORKERS": "2"},
		"--mode=batch", "--workers=6", "--dir="+tempDir,
	)
	if err != nil {
		t.Fatalf("LoadFromFlags() unexpected error: %v", err)
	}

	if cfg.Mode != "batch" {
		t.Errorf("LoadFromFlags() Mode = %v, want %v (should override env)", cfg.Mode, "batch")
	}
	if cfg.Workers != 6 {
		t.Errorf("LoadFromFlags() Workers = %v, want %v (should override env)", cfg.Workers, 6)
	}
}

func TestLoadFromFlags_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{name: "mode", args: []string{"--mode=server"}, wantErr: "mode must be either 'batch' or 'stdio'"},
		{name: "workers", args: []string{"--workers=0"}, wantErr: "workers must be at least 1"},
		{name: "log level", args: []string{"--loglevel=invalid"}, wantErr: "invalid log level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"--dir=" + t.TempDir()}, tt.args...)
			_, err := withArgs(t, nil, args...)
			if err == nil {
				t.Fatalf("LoadFromFlags() expected error for %s", tt.name)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("LoadFromFlags() error = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadFromFlags_VersionFlag(t *testing.T) {
	_, err := withArgs(t, nil, "--version")
	if err == nil {
		t.Fatal("LoadFromFlags() expected version error")
	}
	if err.Error() != "version requested" {
		t.Errorf("LoadFromFlags() error = %v, want 'version requested'", err)
	}
}
