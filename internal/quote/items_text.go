package quote

import (
	"regexp"
	"strings"

	"github.com/a3tai/quote-extractor/internal/textnorm"
)

var recordStartRe = regexp.MustCompile(`^\d+\s+`)

// TextRecord is one item as printed: the digit-leading line plus any wrapped
// continuation lines.
type TextRecord struct {
	Lead          string
	Continuations []string
}

// tableBody returns the lines strictly between the table start anchor and
// the end anchor.
func tableBody(lines []string) []string {
	start := -1
	for i, l := range lines {
		if startRe.MatchString(l) || isTableHeader(l) {
			start = i
			break
		}
	}
	if start < 0 {
		return nil
	}

	body := lines[start+1:]
	for i, l := range body {
		if isTableEnd(l) {
			return body[:i]
		}
	}
	return body
}

// SegmentLines groups table lines into records. Re-printed table headers are
// dropped; lines before the first record are ignored.
func SegmentLines(lines []string) []TextRecord {
	var seg segmenter[TextRecord]
	for _, l := range lines {
		switch {
		case l == "":
		case recordStartRe.MatchString(l):
			seg.Start(TextRecord{Lead: l})
		case isReheader(l):
		default:
			seg.Continue(func(r *TextRecord) {
				r.Continuations = append(r.Continuations, l)
			})
		}
	}
	return seg.Flush()
}

// ParseTextRecord decomposes one record. Records with fewer than two money
// amounts are rejected.
func ParseTextRecord(rec TextRecord) (LineItem, bool) {
	unit, ext, core, ok := lastTwoMoney(rec.Lead)
	cont := rec.Continuations
	if !ok {
		joined := strings.Join(append([]string{rec.Lead}, rec.Continuations...), " ")
		if unit, ext, core, ok = lastTwoMoney(joined); !ok {
			return LineItem{}, false
		}
		cont = nil
	}

	tokens := strings.Fields(core)
	if len(tokens) == 0 {
		return LineItem{}, false
	}
	id, desc := splitIdentifier(tokens[1:])

	return LineItem{
		Quantity:      parseQuantity(tokens[0]),
		ItemID:        textnorm.CleanValue(id),
		Description:   joinDescription(append([]string{strings.Join(desc, " ")}, cont...)...),
		UnitPrice:     unit,
		ExtendedPrice: ext,
	}, true
}

func textItems(in *Input) []LineItem {
	var items []LineItem
	for _, rec := range SegmentLines(tableBody(in.Lines)) {
		if item, ok := ParseTextRecord(rec); ok {
			items = append(items, item)
		} else {
			in.opts.Logger.Debug("dropped item record", "mode", ModeText, "reason", "fewer than two amounts")
		}
	}
	return items
}
