// Package quote implements the layout-tolerant field extraction engine for
// vendor purchase-quote PDFs: header fields, the ship-to block and the
// line-item table.
//
// Extraction never fails. A field that cannot be located is returned as an
// empty string and an unreadable item row is skipped.
package quote

import (
	"github.com/shopspring/decimal"

	"github.com/a3tai/quote-extractor/internal/layout"
)

// Document is one input PDF after text acquisition.
type Document struct {
	Name  string `json:"name"`
	Pages []Page `json:"pages"`
}

// Page holds the extracted text and word boxes of a single page.
type Page struct {
	Number int           `json:"number"`
	Text   string        `json:"text"`
	Words  []layout.Word `json:"words,omitempty"`
}

// Text returns the text of all pages joined by newlines.
func (d *Document) Text() string {
	if d == nil {
		return ""
	}
	var size int
	for _, p := range d.Pages {
		size += len(p.Text) + 1
	}
	buf := make([]byte, 0, size)
	for i, p := range d.Pages {
		if i > 0 {
			buf = append(buf, '\n')
		}
		buf = append(buf, p.Text...)
	}
	return string(buf)
}

// HeaderFields are the quote-level identifiers printed near the top of page one.
type HeaderFields struct {
	QuoteNumber     string `json:"quote_number"`
	QuoteDate       string `json:"quote_date"` // MM/DD/YYYY or empty
	CustomerID      string `json:"customer_id"`
	SalespersonCode string `json:"salesperson_code"`
}

// ShipToAddress is the decomposed delivery address.
type ShipToAddress struct {
	Company    string `json:"company"`
	Street     string `json:"street"`
	City       string `json:"city"`
	Region     string `json:"region"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

// IsZero reports whether no address field was found.
func (a ShipToAddress) IsZero() bool {
	return a == ShipToAddress{}
}

// LineItem is one priced row of the quote table.
type LineItem struct {
	Quantity      int             `json:"quantity"`
	ItemID        string          `json:"item_id"`
	Description   string          `json:"description"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	ExtendedPrice decimal.Decimal `json:"extended_price"`
}

// Consistent reports whether the printed extended price is within the given
// relative tolerance (0.01 = 1%) of quantity times unit price. The vendor's
// figures are trusted either way; this only flags extraction drift.
func (li LineItem) Consistent(tolerance float64) bool {
	expected := li.UnitPrice.Mul(decimal.NewFromInt(int64(li.Quantity)))
	if expected.Equal(li.ExtendedPrice) {
		return true
	}
	scale := decimal.Max(expected.Abs(), li.ExtendedPrice.Abs())
	if scale.IsZero() {
		return true
	}
	diff := expected.Sub(li.ExtendedPrice).Abs()
	return diff.Div(scale).LessThanOrEqual(decimal.NewFromFloat(tolerance))
}

// ExtractionMode records which table strategy produced the line items.
type ExtractionMode string

const (
	ModeNone       ExtractionMode = "none"
	ModeCoordinate ExtractionMode = "coordinate"
	ModeText       ExtractionMode = "text"
)

// Quote is everything extracted from one document.
type Quote struct {
	Header HeaderFields   `json:"header"`
	ShipTo ShipToAddress  `json:"ship_to"`
	Items  []LineItem     `json:"items"`
	Mode   ExtractionMode `json:"mode"`
}
