package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/a3tai/quote-extractor/internal/export"
	"github.com/a3tai/quote-extractor/internal/quote"
)

const (
	// Mode constants
	ModeBatch = "batch"
	ModeStdio = "stdio"

	// Default values
	DefaultLogLevel    = "info"
	DefaultMaxFileSize = 50 * 1024 * 1024 // 50MB
	DefaultOutput      = "quotes.xlsx"
	DefaultWorkers     = 4

	// EnvPrefix is prepended to every environment variable.
	EnvPrefix = "QUOTE_EXTRACTOR"
)

// Config holds all configuration for the quote extractor
type Config struct {
	Mode string // "batch" or "stdio"

	// Input and output
	PDFDirectory string
	SchemaPath   string // .xlsx template or .yaml column list; empty means built-in
	OutputPath   string

	// Row building
	Brand           string
	CountryFallback string
	FileNamePrefix  string
	UOM             string // constant unit of measure for every row
	Strict          bool   // clean every text cell except the PDF name

	// Extraction
	Workers     int
	HeaderLines int
	MaxFileSize int64 // Maximum PDF file size in bytes

	// Application configuration
	Version    string
	ServerName string
	LogLevel   string
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	currentDir, err := os.Getwd()
	if err != nil {
		currentDir = "."
	}

	return &Config{
		Mode:         ModeBatch,
		PDFDirectory: currentDir,
		OutputPath:   DefaultOutput,
		Brand:        export.DefaultBrand,
		Strict:       true,
		Workers:      DefaultWorkers,
		HeaderLines:  quote.DefaultHeaderLines,
		MaxFileSize:  DefaultMaxFileSize,
		Version:      "1.0.0",
		ServerName:   "quote-extractor",
		LogLevel:     DefaultLogLevel,
	}
}

// LoadFromFlags parses command line flags and returns a configuration
func LoadFromFlags() (*Config, error) {
	cfg := DefaultConfig()

	setupViperEnvironment(cfg)
	defineCommandLineFlags(cfg)
	bindFlagsToViper()
	setupUsageMessage()

	if err := checkVersionFlag(); err != nil {
		return nil, err
	}

	pflag.Parse()

	populateConfigFromViper(cfg)

	if cfg.PDFDirectory != "" {
		if expandedPath, err := filepath.Abs(cfg.PDFDirectory); err == nil {
			cfg.PDFDirectory = expandedPath
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// flagKeys lists every setting, shared by flags, env and viper.
var flagKeys = []string{
	"mode", "dir", "schema", "out", "brand", "country-fallback", "filename-prefix",
	"uom", "strict", "workers", "header-lines", "loglevel", "maxfilesize",
}

// setupViperEnvironment configures viper with environment variables and defaults.
// QUOTE_EXTRACTOR_COUNTRY_FALLBACK maps to the country-fallback key.
func setupViperEnvironment(cfg *Config) {
	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("mode", cfg.Mode)
	viper.SetDefault("dir", cfg.PDFDirectory)
	viper.SetDefault("schema", cfg.SchemaPath)
	viper.SetDefault("out", cfg.OutputPath)
	viper.SetDefault("brand", cfg.Brand)
	viper.SetDefault("country-fallback", cfg.CountryFallback)
	viper.SetDefault("filename-prefix", cfg.FileNamePrefix)
	viper.SetDefault("uom", cfg.UOM)
	viper.SetDefault("strict", cfg.Strict)
	viper.SetDefault("workers", cfg.Workers)
	viper.SetDefault("header-lines", cfg.HeaderLines)
	viper.SetDefault("loglevel", cfg.LogLevel)
	viper.SetDefault("maxfilesize", cfg.MaxFileSize)
}

// defineCommandLineFlags sets up all command line flags
func defineCommandLineFlags(cfg *Config) {
	pflag.String("mode", cfg.Mode, "Run mode: 'batch' to write a workbook, 'stdio' for the MCP tool server")
	pflag.String("dir", cfg.PDFDirectory, "Directory containing quote PDFs")
	pflag.String("schema", cfg.SchemaPath, "Column template (.xlsx header row or .yaml columns list)")
	pflag.String("out", cfg.OutputPath, "Output workbook path (batch mode)")
	pflag.String("brand", cfg.Brand, "Value written to the Brand column")
	pflag.String("country-fallback", cfg.CountryFallback, "Country used when none is found in the ship-to block")
	pflag.String("filename-prefix", cfg.FileNamePrefix, "Prefix for derived PDF file names")
	pflag.String("uom", cfg.UOM, "Unit of measure written to every line item row")
	pflag.Bool("strict", cfg.Strict, "Strip unusual characters from text cells (--strict=false to keep them)")
	pflag.Int("workers", cfg.Workers, "Documents processed in parallel")
	pflag.Int("header-lines", cfg.HeaderLines, "Lines scanned for an unlabeled quote date")
	pflag.String("loglevel", cfg.LogLevel, "Log level (debug, info, warn, error)")
	pflag.Int64("maxfilesize", cfg.MaxFileSize, "Maximum PDF file size in bytes")
}

// bindFlagsToViper binds command line flags to viper configuration
func bindFlagsToViper() {
	for _, key := range flagKeys {
		_ = viper.BindPFlag(key, pflag.Lookup(key))
	}
}

// setupUsageMessage configures the custom usage message
func setupUsageMessage() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage of %s:\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nQuote Extractor - pulls header, ship-to and line items out of vendor quote PDFs\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		pflag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s --dir=/path/to/quotes --out=quotes.xlsx        # batch export\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --dir=/path/to/quotes --schema=template.xlsx  # custom columns\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --mode=stdio --dir=/path/to/quotes             # MCP tool server\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		for _, key := range flagKeys {
			fmt.Fprintf(os.Stderr, "  %s_%s\n", EnvPrefix, strings.ToUpper(strings.ReplaceAll(key, "-", "_")))
		}
	}
}

// checkVersionFlag checks if version flag was requested
func checkVersionFlag() error {
	for _, arg := range os.Args[1:] {
		if arg == "-version" || arg == "--version" || arg == "-v" {
			return fmt.Errorf("version requested")
		}
	}
	return nil
}

// populateConfigFromViper fills the config struct with values from viper
func populateConfigFromViper(cfg *Config) {
	cfg.Mode = viper.GetString("mode")
	cfg.PDFDirectory = viper.GetString("dir")
	cfg.SchemaPath = viper.GetString("schema")
	cfg.OutputPath = viper.GetString("out")
	cfg.Brand = viper.GetString("brand")
	cfg.CountryFallback = viper.GetString("country-fallback")
	cfg.FileNamePrefix = viper.GetString("filename-prefix")
	cfg.UOM = viper.GetString("uom")
	cfg.Strict = viper.GetBool("strict")
	cfg.Workers = viper.GetInt("workers")
	cfg.HeaderLines = viper.GetInt("header-lines")
	cfg.LogLevel = viper.GetString("loglevel")
	cfg.MaxFileSize = viper.GetInt64("maxfilesize")
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Mode != ModeBatch && c.Mode != ModeStdio {
		return errors.New("mode must be either 'batch' or 'stdio'")
	}

	if c.PDFDirectory == "" {
		return errors.New("PDF directory cannot be empty")
	}
	info, err := os.Stat(c.PDFDirectory)
	if err != nil {
		return fmt.Errorf("cannot access PDF directory %s: %w", c.PDFDirectory, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("PDF directory %s is not a directory", c.PDFDirectory)
	}

	if c.Mode == ModeBatch && c.OutputPath == "" {
		return errors.New("output path cannot be empty in batch mode")
	}

	if c.SchemaPath != "" {
		if _, err := os.Stat(c.SchemaPath); err != nil {
			return fmt.Errorf("cannot access schema %s: %w", c.SchemaPath, err)
		}
	}

	if c.Workers < 1 {
		return errors.New("workers must be at least 1")
	}

	if c.HeaderLines < 1 {
		return errors.New("header lines must be at least 1")
	}

	if c.MaxFileSize <= 0 {
		return errors.New("maximum file size must be positive")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}

	return nil
}

// IsDebug returns true if debug logging is enabled
func (c *Config) IsDebug() bool {
	return c.LogLevel == "debug"
}

// String returns a string representation of the configuration
func (c *Config) String() string {
	return fmt.Sprintf("Config{Mode: %s, PDFDirectory: %s, Schema: %s, Output: %s, Workers: %d, LogLevel: %s, MaxFileSize: %d}",
		c.Mode, c.PDFDirectory, c.SchemaPath, c.OutputPath, c.Workers, c.LogLevel, c.MaxFileSize)
}

// IsBatchMode returns true if the run writes a workbook and exits
func (c *Config) IsBatchMode() bool {
	return c.Mode == ModeBatch
}

// IsStdioMode returns true if the MCP tool server runs on standard I/O
func (c *Config) IsStdioMode() bool {
	return c.Mode == ModeStdio
}
