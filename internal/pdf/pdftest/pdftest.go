// Package pdftest builds small, valid PDF documents for tests. Every glyph
// of the built-in Helvetica font is given a fixed advance of 500 units, so a
// string drawn at size 10 advances 5 points per character.
package pdftest

import (
	"bytes"
	"fmt"
	"strings"
)

// FontSize is the size every cell is drawn at.
const FontSize = 10.0

// CharWidth is the advance of one character at FontSize.
const CharWidth = 5.0

// Cell is a string drawn with its baseline origin at (X, Y), in PDF points
// with a bottom-left origin.
type Cell struct {
	X, Y float64
	Text string
}

// Line places several cells on one baseline.
func Line(y float64, xs ...any) []Cell {
	cells := make([]Cell, 0, len(xs)/2)
	for i := 0; i+1 < len(xs); i += 2 {
		cells = append(cells, Cell{X: toFloat(xs[i]), Y: y, Text: xs[i+1].(string)})
	}
	return cells
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case int:
		return float64(n)
	case float64:
		return n
	default:
		panic(fmt.Sprintf("pdftest: unsupported coordinate %T", v))
	}
}

// Page is the list of cells drawn on one US Letter page.
type Page []Cell

// Build renders the pages into a complete PDF file with a correct
// cross-reference table.
func Build(pages ...Page) []byte {
	if len(pages) == 0 {
		pages = []Page{{}}
	}

	// Object numbering: 1 catalog, 2 page tree, 3 font, then a page and a
	// content stream object per page.
	objects := make([]string, 0, 3+2*len(pages))
	kids := make([]string, len(pages))
	for i := range pages {
		kids[i] = fmt.Sprintf("%d 0 R", 4+2*i)
	}

	objects = append(objects,
		"<< /Type /Catalog /Pages 2 0 R >>",
		fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d /MediaBox [0 0 612 792] >>", strings.Join(kids, " "), len(pages)),
		fontObject(),
	)
	for i, p := range pages {
		content := contentStream(p)
		objects = append(objects,
			fmt.Sprintf("<< /Type /Page /Parent 2 0 R /Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>", 5+2*i),
			fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content),
		)
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return buf.Bytes()
}

func fontObject() string {
	widths := strings.TrimSpace(strings.Repeat("500 ", 126-32+1))
	return "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding " +
		"/FirstChar 32 /LastChar 126 /Widths [" + widths + "] >>"
}

func contentStream(p Page) string {
	var b strings.Builder
	for _, c := range p {
		fmt.Fprintf(&b, "BT /F1 %g Tf 1 0 0 1 %g %g Tm (%s) Tj ET\n", FontSize, c.X, c.Y, escape(c.Text))
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func escape(s string) string {
	return strings.NewReplacer(`\`, `\\`, "(", `\(`, ")", `\)`).Replace(s)
}

// SampleQuote is a one-page vendor quote laid out the way the real template
// prints it: side-by-side sold-to and ship-to blocks and a column-aligned
// item table with one wrapped description.
func SampleQuote() Page {
	var p Page
	add := func(cells []Cell) { p = append(p, cells...) }

	add(Line(740, 50, "Alcorn Industrial Inc"))
	add(Line(726, 50, "Order Number QT000171"))
	add(Line(712, 50, "Date Nov 21, 2025"))
	add(Line(690, 50, "Sold To:", 300, "Ship To:"))
	add(Line(676, 50, "Beta Holdings", 300, "Acme Corp"))
	add(Line(662, 50, "500 Elm St", 300, "10 Rue Sicard"))
	add(Line(648, 50, "Toronto, ON M5V 2T6", 300, "Sainte Therese, QC J7E 4K9"))
	add(Line(634, 300, "Canada"))
	add(Line(612, 50, "Brock Beehler 2026-1 MR Nov 21, 2025 BRAUN NET30"))
	add(Line(590, 50, "Please send your order to:"))
	add(Line(570, 40, "Qty.", 80, "Item Number", 200, "Description", 400, "Unit Price", 480, "Extended Price"))
	add(Line(550, 42, "2", 80, "PARTS & MISC", 200, "ALCJA-13ST Bolt Tool", 400, "21,775.00", 480, "43,550.00"))
	add(Line(536, 200, "315rpm"))
	add(Line(516, 42, "1", 80, "AB-100", 200, "Torque wrench", 400, "950.00", 480, "950.00"))
	add(Line(490, 50, "Tax Summary"))
	add(Line(476, 50, "Subtotal 44,500.00"))
	return p
}
