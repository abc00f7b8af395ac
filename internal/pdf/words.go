package pdf

import (
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"

	"github.com/a3tai/quote-extractor/internal/layout"
)

// pageWords merges positioned glyphs into words. ledongthuc reports one
// Text per glyph with a bottom-left origin; the result uses top-left
// coordinates. Glyphs on the same baseline are joined while the gap between
// them stays under a fifth of the font size.
func pageWords(glyphs []pdf.Text, height float64) []layout.Word {
	if len(glyphs) == 0 {
		return nil
	}

	boxes := make([]layout.Word, 0, len(glyphs))
	for _, g := range glyphs {
		if g.S == "" {
			continue
		}
		boxes = append(boxes, layout.Word{
			Text:   g.S,
			X0:     g.X,
			X1:     g.X + g.W,
			Top:    height - (g.Y + g.FontSize),
			Bottom: height - g.Y,
			Size:   g.FontSize,
		})
	}

	var words []layout.Word
	for _, row := range layout.GroupRows(boxes, rowTolerance) {
		words = append(words, mergeRow(row.Words)...)
	}
	return words
}

func mergeRow(glyphs []layout.Word) []layout.Word {
	var words []layout.Word
	var cur layout.Word
	var b strings.Builder
	open := false

	flush := func() {
		if open && b.Len() > 0 {
			cur.Text = b.String()
			words = append(words, cur)
		}
		b.Reset()
		open = false
	}

	for _, g := range glyphs {
		text := strings.TrimSpace(g.Text)
		if text == "" {
			flush()
			continue
		}
		if startsWithSpace(g.Text) {
			flush()
		}
		if open && g.X0-cur.X1 > wordGap(g.Size) {
			flush()
		}

		if !open {
			cur = g
			open = true
		} else {
			cur.X1 = math.Max(cur.X1, g.X1)
			cur.Top = math.Min(cur.Top, g.Top)
			cur.Bottom = math.Max(cur.Bottom, g.Bottom)
			cur.Size = math.Max(cur.Size, g.Size)
		}
		b.WriteString(text)

		if endsWithSpace(g.Text) {
			flush()
		}
	}
	flush()
	return words
}

func wordGap(size float64) float64 {
	return math.Max(1, size*0.2)
}

func startsWithSpace(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsSpace(r)
}

func endsWithSpace(s string) bool {
	r, _ := utf8.DecodeLastRuneInString(s)
	return unicode.IsSpace(r)
}
