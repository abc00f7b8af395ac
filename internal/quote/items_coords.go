package quote

import (
	"regexp"
	"strings"

	"github.com/a3tai/quote-extractor/internal/layout"
)

// Column names of the item table.
const (
	colQty         = "qty"
	colItem        = "item"
	colDescription = "description"
	colUnit        = "unit"
	colExtended    = "extended"
)

var digitsRe = regexp.MustCompile(`^\d+$`)

// cellRecord is one item assembled from column-bucketed rows.
type cellRecord struct {
	cells         map[string]string
	continuations []string
}

// headerLabels locates the column captions in a header row. ok is false
// when the row lacks the quantity, unit price or extended price caption.
func headerLabels(row layout.Row) ([]layout.Label, bool) {
	left := func(phrases ...string) (float64, bool) {
		for _, p := range phrases {
			if hits := layout.FindPhrase(row, p); len(hits) > 0 {
				return row.Words[hits[0]].X0, true
			}
		}
		return 0, false
	}

	var labels []layout.Label
	found := make(map[string]bool)
	add := func(name string, x float64, ok bool) {
		if ok && !found[name] {
			labels = append(labels, layout.Label{Name: name, Left: x})
			found[name] = true
		}
	}

	x, ok := left("Qty", "Quantity", "Ord")
	add(colQty, x, ok)

	for _, i := range layout.FindPhrase(row, "Item Number") {
		if i > 0 && strings.EqualFold(strings.TrimSpace(row.Words[i-1].Text), "customer") {
			continue
		}
		add(colItem, row.Words[i].X0, true)
		break
	}

	x, ok = left("Customer Item Number", "Description")
	add(colDescription, x, ok)
	x, ok = left("Unit Price")
	add(colUnit, x, ok)
	x, ok = left("Extended Price", "Extended")
	add(colExtended, x, ok)

	return labels, found[colQty] && found[colUnit] && found[colExtended]
}

func isHeaderRow(row layout.Row) bool {
	if len(layout.FindPhrase(row, "Qty")) == 0 && len(layout.FindPhrase(row, "Quantity")) == 0 {
		return false
	}
	return len(layout.FindPhrase(row, "Item Number")) > 0 || len(layout.FindPhrase(row, "Extended")) > 0
}

// coordinateItems rebuilds the table from word boxes. Each page contributes
// the rows under its own header row; a record left open at the bottom of a
// page keeps collecting continuation rows on the next.
func coordinateItems(in *Input) []LineItem {
	var seg segmenter[cellRecord]
	var cols []layout.Column
	descCol := colItem
	done := false

	for _, page := range in.Pages {
		if done || len(page.Words) == 0 {
			continue
		}
		rows := layout.GroupRows(page.Words, in.opts.RowTolerance)

		header := -1
		for i, row := range rows {
			if !isHeaderRow(row) {
				continue
			}
			if labels, ok := headerLabels(row); ok {
				cols = layout.InferColumns(labels, in.opts.ColumnMargin)
				header = i
				descCol = colItem
				for _, l := range labels {
					if l.Name == colDescription {
						descCol = colDescription
					}
				}
				break
			}
		}
		if header < 0 {
			continue
		}

		for _, row := range rows[header+1:] {
			text := row.Text()
			if isTableEnd(text) {
				done = true
				break
			}
			if isReheader(text) || isHeaderRow(row) {
				continue
			}
			cells := layout.Assign(row, cols)
			if digitsRe.MatchString(strings.TrimSpace(cells[colQty])) {
				seg.Start(cellRecord{cells: cells})
				continue
			}
			if extra := strings.TrimSpace(cells[descCol]); extra != "" {
				seg.Continue(func(r *cellRecord) {
					r.continuations = append(r.continuations, extra)
				})
			}
		}
	}

	var items []LineItem
	for _, rec := range seg.Flush() {
		item, ok := parseCellRecord(rec, descCol == colDescription)
		if !ok {
			in.opts.Logger.Debug("dropped item record", "mode", ModeCoordinate, "reason", "missing price")
			continue
		}
		items = append(items, item)
	}
	return items
}

// parseCellRecord turns bucketed cells into a line item. Both price cells
// must hold an amount.
func parseCellRecord(rec cellRecord, hasDescription bool) (LineItem, bool) {
	unit, ok := singleMoney(rec.cells[colUnit])
	if !ok {
		return LineItem{}, false
	}
	ext, ok := singleMoney(rec.cells[colExtended])
	if !ok {
		return LineItem{}, false
	}

	var id, desc string
	if hasDescription {
		id = rec.cells[colItem]
		desc = rec.cells[colDescription]
	} else {
		var rest []string
		id, rest = splitIdentifier(strings.Fields(rec.cells[colItem]))
		desc = strings.Join(rest, " ")
	}

	return LineItem{
		Quantity:      parseQuantity(rec.cells[colQty]),
		ItemID:        joinDescription(id),
		Description:   joinDescription(append([]string{desc}, rec.continuations...)...),
		UnitPrice:     unit,
		ExtendedPrice: ext,
	}, true
}
