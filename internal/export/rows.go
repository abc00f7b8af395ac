package export

import (
	"path/filepath"

	"github.com/a3tai/quote-extractor/internal/quote"
	"github.com/a3tai/quote-extractor/internal/textnorm"
)

// DefaultBrand is the brand written when none is configured.
const DefaultBrand = "Alcorn Industrial Inc"

// Options controls how quotes are projected onto rows.
type Options struct {
	Brand           string
	CountryFallback string // used when no country was found
	FileNamePrefix  string // prepended to the quote number in the PDF column
	UOM             string // constant unit of measure, blank by default
	Strict          bool   // pass string cells except the PDF name through CleanValue
}

// Row is one output line keyed by schema column. Values are string, int or
// float64.
type Row map[string]any

// Values returns the row's cells in schema order.
func (r Row) Values(schema Schema) []any {
	out := make([]any, len(schema))
	for i, c := range schema {
		if v, ok := r[c]; ok {
			out[i] = v
		} else {
			out[i] = ""
		}
	}
	return out
}

// OutputFileName derives the archival file name for a processed document:
// <prefix><quote number>.pdf, or the original name when no quote number was
// found. Characters outside [A-Za-z0-9._-] become underscores.
func OutputFileName(quoteNumber, original, prefix string) string {
	if quoteNumber != "" {
		return textnorm.SafeFilename(prefix + quoteNumber + ".pdf")
	}
	if original == "" {
		return textnorm.SafeFilename("")
	}
	return textnorm.SafeFilename(filepath.Base(original))
}

// BuildRows produces one row per line item. A quote without items still
// yields a single row carrying its header fields.
func BuildRows(schema Schema, q *quote.Quote, pdfName string, opts Options) []Row {
	if q == nil {
		q = &quote.Quote{}
	}
	brand := opts.Brand
	if brand == "" {
		brand = DefaultBrand
	}

	country := q.ShipTo.Country
	if country == "" {
		country = opts.CountryFallback
	}

	newRow := func() Row {
		r := make(Row, len(schema))
		for _, c := range schema {
			r[c] = ""
		}
		return r
	}
	set := func(r Row, col string, v any) {
		if _, ok := r[col]; !ok {
			return
		}
		if s, isString := v.(string); isString && opts.Strict && col != ColPDF {
			v = textnorm.CleanValue(s)
		}
		r[col] = v
	}

	if len(q.Items) == 0 {
		r := newRow()
		set(r, ColBrand, brand)
		set(r, ColQuoteNumber, q.Header.QuoteNumber)
		set(r, ColQuoteDate, q.Header.QuoteDate)
		set(r, ColCustomer, q.Header.CustomerID)
		set(r, ColCompany, q.ShipTo.Company)
		set(r, ColPDF, pdfName)
		return []Row{r}
	}

	rows := make([]Row, 0, len(q.Items))
	for _, item := range q.Items {
		r := newRow()
		set(r, ColBrand, brand)
		set(r, ColQuoteNumber, q.Header.QuoteNumber)
		set(r, ColQuoteDate, q.Header.QuoteDate)
		set(r, ColCustomer, q.Header.CustomerID)
		set(r, ColWriter, q.Header.SalespersonCode)
		set(r, ColReferral, q.Header.SalespersonCode)

		set(r, ColCompany, q.ShipTo.Company)
		set(r, ColAddress, q.ShipTo.Street)
		set(r, ColCity, q.ShipTo.City)
		set(r, ColState, q.ShipTo.Region)
		set(r, ColZipCode, q.ShipTo.PostalCode)
		set(r, ColCountry, country)

		set(r, ColItemID, item.ItemID)
		set(r, ColItemDesc, item.Description)
		set(r, ColUOM, opts.UOM)
		set(r, ColQuantity, item.Quantity)
		set(r, ColUnitPrice, item.UnitPrice.InexactFloat64())
		set(r, ColTotalSales, item.ExtendedPrice.InexactFloat64())
		set(r, ColPDF, pdfName)
		rows = append(rows, r)
	}
	return rows
}
