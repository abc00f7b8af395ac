// Package layout holds the word-geometry helpers used by the quote
// extractor: row clustering, header-label lookup and column inference.
//
// Coordinates use a top-left origin: Top grows downwards, X grows to the right,
// both in PDF points.
package layout

import (
	"math"
	"sort"
	"strings"
)

// Word is a single word with its bounding box on a page.
type Word struct {
	Text   string  `json:"text"`
	X0     float64 `json:"x0"`
	X1     float64 `json:"x1"`
	Top    float64 `json:"top"`
	Bottom float64 `json:"bottom"`
	Size   float64 `json:"size,omitempty"` // font size, 0 when unknown
}

// CenterX returns the horizontal centre of the word.
func (w Word) CenterX() float64 { return (w.X0 + w.X1) / 2 }

// CenterY returns the vertical centre of the word.
func (w Word) CenterY() float64 { return (w.Top + w.Bottom) / 2 }

// Width returns the horizontal extent of the word.
func (w Word) Width() float64 { return w.X1 - w.X0 }

// Row is a visual line of words, sorted left to right.
type Row struct {
	Words   []Word
	CenterY float64
}

// Text joins the row's words with single spaces.
func (r Row) Text() string {
	parts := make([]string, len(r.Words))
	for i, w := range r.Words {
		parts[i] = w.Text
	}
	return strings.Join(parts, " ")
}

// SpacedText joins the row's words like Text but uses two spaces wherever the
// horizontal gap between neighbours exceeds columnGap, so that side-by-side
// blocks stay separable after the row is flattened to a line.
func (r Row) SpacedText(columnGap float64) string {
	var b strings.Builder
	for i, w := range r.Words {
		if i > 0 {
			b.WriteByte(' ')
			if w.X0-r.Words[i-1].X1 > columnGap {
				b.WriteByte(' ')
			}
		}
		b.WriteString(w.Text)
	}
	return b.String()
}

// GroupRows clusters words into visual rows. A word joins the current row
// when its vertical centre is within tolerance of the centre of the word that
// opened the row. Rows come back top to bottom, words left to right.
func GroupRows(words []Word, tolerance float64) []Row {
	if len(words) == 0 {
		return nil
	}

	sorted := make([]Word, len(words))
	copy(sorted, words)
	sort.SliceStable(sorted, func(i, j int) bool {
		ci, cj := sorted[i].CenterY(), sorted[j].CenterY()
		if ci != cj {
			return ci < cj
		}
		return sorted[i].X0 < sorted[j].X0
	})

	var rows []Row
	current := Row{Words: []Word{sorted[0]}, CenterY: sorted[0].CenterY()}
	for _, w := range sorted[1:] {
		if math.Abs(w.CenterY()-current.CenterY) <= tolerance {
			current.Words = append(current.Words, w)
			continue
		}
		rows = append(rows, finishRow(current))
		current = Row{Words: []Word{w}, CenterY: w.CenterY()}
	}
	rows = append(rows, finishRow(current))

	return rows
}

func finishRow(r Row) Row {
	sort.SliceStable(r.Words, func(i, j int) bool {
		return r.Words[i].X0 < r.Words[j].X0
	})
	return r
}

// Below returns the first word (nearest vertically, then nearest
// horizontally) whose top lies between minDy and maxDy points below the
// label's top and whose left edge is within maxDx of the label's left edge.
func Below(words []Word, label Word, minDy, maxDy, maxDx float64, accept func(string) bool) (Word, bool) {
	var best Word
	var matched bool
	bestDy, bestDx := math.Inf(1), math.Inf(1)
	for _, w := range words {
		dy := w.Top - label.Top
		if dy < minDy || dy > maxDy {
			continue
		}
		dx := math.Abs(w.X0 - label.X0)
		if dx > maxDx {
			continue
		}
		if accept != nil && !accept(w.Text) {
			continue
		}
		if dy < bestDy || (dy == bestDy && dx < bestDx) {
			best, bestDy, bestDx, matched = w, dy, dx, true
		}
	}
	return best, matched
}
