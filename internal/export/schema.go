// Package export maps extracted quotes onto the output column schema and
// writes the result as an XLSX workbook.
package export

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"
)

// Recognised column names. Any other schema column is emitted empty.
const (
	ColBrand       = "Brand"
	ColQuoteNumber = "QuoteNumber"
	ColQuoteDate   = "QuoteDate"
	ColCustomer    = "Customer Number/ID"
	ColWriter      = "Writer Name"
	ColReferral    = "ReferralManagerCode"
	ColCompany     = "Company"
	ColAddress     = "Address"
	ColCity        = "City"
	ColState       = "State"
	ColZipCode     = "ZipCode"
	ColCountry     = "Country"
	ColItemID      = "item_id"
	ColItemDesc    = "item_desc"
	ColUOM         = "UOM"
	ColQuantity    = "Quantity"
	ColUnitPrice   = "Unit Price"
	ColTotalSales  = "TotalSales"
	ColPDF         = "PDF"
)

// ErrEmptySchema is returned when a schema source defines no columns.
var ErrEmptySchema = errors.New("schema has no columns")

// Schema is the ordered list of output column names.
type Schema []string

// DefaultSchema is used when no template is supplied.
func DefaultSchema() Schema {
	return Schema{
		ColBrand, ColQuoteNumber, ColQuoteDate, ColCustomer, ColWriter, ColReferral,
		ColCompany, ColAddress, ColCity, ColState, ColZipCode, ColCountry,
		ColItemID, ColItemDesc, ColUOM, ColQuantity, ColUnitPrice, ColTotalSales, ColPDF,
	}
}

// Has reports whether the schema contains the column.
func (s Schema) Has(col string) bool {
	for _, c := range s {
		if c == col {
			return true
		}
	}
	return false
}

// LoadSchema reads the column list from a template file. An .xlsx template
// contributes the header row of its first sheet; a .yaml or .yml file holds
// a "columns" list. An empty path yields the default schema.
func LoadSchema(path string) (Schema, error) {
	if path == "" {
		return DefaultSchema(), nil
	}

	var (
		cols Schema
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		cols, err = loadWorkbookSchema(path)
	case ".yaml", ".yml":
		cols, err = loadYAMLSchema(path)
	default:
		return nil, fmt.Errorf("unsupported schema file %q: want .xlsx, .yaml or .yml", filepath.Base(path))
	}
	if err != nil {
		return nil, err
	}
	if len(cols) == 0 {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), ErrEmptySchema)
	}
	return cols, nil
}

func loadWorkbookSchema(path string) (Schema, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open template: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptySchema
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read template header: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return cleanColumns(rows[0]), nil
}

// schemaFile is the YAML schema document:
//
//	columns:
//	  - Brand
//	  - QuoteNumber
type schemaFile struct {
	Columns []string `yaml:"columns"`
}

func loadYAMLSchema(path string) (Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schema: %w", err)
	}

	var doc schemaFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse schema: %w", err)
	}
	return cleanColumns(doc.Columns), nil
}

func cleanColumns(raw []string) Schema {
	cols := make(Schema, 0, len(raw))
	for _, c := range raw {
		if c = strings.TrimSpace(c); c != "" {
			cols = append(cols, c)
		}
	}
	return cols
}
