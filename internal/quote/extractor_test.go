package quote

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleQuote = `Alcorn Industrial Inc
Quotation
Order Number QT000171
Date Nov 21, 2025
Sold To:                          Ship To:
Beta Holdings                     Acme Corp
500 Elm St                        10 Rue Sicard
Toronto, ON M5V 2T6               Sainte Therese, QC J7E 4K9
                                  Canada
Writer Customer No. Code Date Ship Via Terms
Brock Beehler 2026-1 MR Nov 21, 2025 BRAUN NET30
Please send your order to:
Qty. Item Number Description Unit Price Extended Price
2 PARTS & MISC ALCJA-13ST Bolt Tool 315rpm 21,775.00 43,550.00
1 AB-100 Torque wrench 950.00 950.00
with calibration certificate
Tax Summary
Subtotal 44,500.00`

func TestExtractor_ExtractText(t *testing.T) {
	q := NewExtractor(DefaultOptions()).ExtractText(sampleQuote)

	assert.Equal(t, HeaderFields{
		QuoteNumber:     "QT000171",
		QuoteDate:       "11/21/2025",
		CustomerID:      "2026-1",
		SalespersonCode: "Brock Beehler",
	}, q.Header)

	assert.Equal(t, ShipToAddress{
		Company:    "Acme Corp",
		Street:     "10 Rue Sicard",
		City:       "Sainte Therese",
		Region:     "QC",
		PostalCode: "J7E4K9",
		Country:    "Canada",
	}, q.ShipTo)

	assert.Equal(t, ModeText, q.Mode)
	require.Len(t, q.Items, 2)
	assert.Equal(t, "PARTS & MISC", q.Items[0].ItemID)
	assert.Contains(t, q.Items[0].Description, "ALCJA-13ST Bolt Tool 315rpm")
	assert.Equal(t, "AB-100", q.Items[1].ItemID)
	assert.Equal(t, "Torque wrench with calibration certificate", q.Items[1].Description)

	for _, item := range q.Items {
		assert.True(t, item.Consistent(0.01), "%+v", item)
	}
}

func TestExtractor_Deterministic(t *testing.T) {
	ex := NewExtractor(Options{})
	assert.Equal(t, ex.ExtractText(sampleQuote), ex.ExtractText(sampleQuote))
}

func TestExtractor_EmptyDocument(t *testing.T) {
	ex := NewExtractor(DefaultOptions())

	for _, doc := range []*Document{nil, {}, {Name: "blank.pdf", Pages: []Page{{Number: 1}}}} {
		q := ex.Extract(doc)
		assert.Equal(t, HeaderFields{}, q.Header)
		assert.True(t, q.ShipTo.IsZero())
		assert.Empty(t, q.Items)
		assert.Equal(t, ModeNone, q.Mode)
	}
}
