package quote

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/a3tai/quote-extractor/internal/textnorm"
)

var (
	reheaderRe = regexp.MustCompile(`^(?:Qty\.|Ord\.|Item Number|Customer\b|Reference\b)`)
	totalRe    = regexp.MustCompile(`(?i)^(?:sub\s*)?total\b`)
	startRe    = regexp.MustCompile(`(?i)please send your order to:`)
)

const partsAndMisc = "PARTS & MISC"

// recordState is the state of the record segmenter.
type recordState int

const (
	noOpenRecord recordState = iota
	openRecord
)

// segmenter assembles table rows into logical records. A record-start row
// emits the open record (if any) and opens a new one; a continuation row is
// folded into the open record and ignored while none is open; Flush emits
// the last open record.
type segmenter[R any] struct {
	state   recordState
	current R
	records []R
}

func (s *segmenter[R]) Start(r R) {
	if s.state == openRecord {
		s.records = append(s.records, s.current)
	}
	s.current = r
	s.state = openRecord
}

func (s *segmenter[R]) Continue(fold func(*R)) bool {
	if s.state != openRecord {
		return false
	}
	fold(&s.current)
	return true
}

func (s *segmenter[R]) Flush() []R {
	if s.state == openRecord {
		s.records = append(s.records, s.current)
		var zero R
		s.current = zero
		s.state = noOpenRecord
	}
	return s.records
}

// isTableHeader reports whether a line is the item table's column header.
func isTableHeader(line string) bool {
	lower := strings.ToLower(line)
	hasQty := strings.Contains(lower, "qty.") || strings.Contains(lower, "quantity")
	return hasQty && (strings.Contains(lower, "item number") || strings.Contains(lower, "extended"))
}

// isTableEnd reports whether a line closes the item table.
func isTableEnd(line string) bool {
	if strings.Contains(line, "Tax Summary") || strings.Contains(line, "Comments:") {
		return true
	}
	return totalRe.MatchString(line) && moneyRe.MatchString(line)
}

func isReheader(line string) bool {
	return reheaderRe.MatchString(line)
}

// looksLikeCode reports whether a token is shaped like an item identifier.
func looksLikeCode(tok string) bool {
	if !hasDigit(tok) {
		return false
	}
	if strings.Contains(tok, "-") || strings.ContainsFunc(tok, unicode.IsLetter) {
		return true
	}
	return len(tok) >= 4 && strings.IndexFunc(tok, func(r rune) bool { return !unicode.IsDigit(r) }) < 0
}

// splitIdentifier separates the item identifier from the description words
// that follow it. Tokens before the identifier are discarded; without an
// identifier all tokens are description.
func splitIdentifier(tokens []string) (id string, desc []string) {
	if len(tokens) >= 3 && strings.EqualFold(tokens[0], "PARTS") && tokens[1] == "&" && strings.EqualFold(tokens[2], "MISC") {
		return partsAndMisc, tokens[3:]
	}
	for i, t := range tokens {
		if looksLikeCode(t) {
			return t, tokens[i+1:]
		}
	}
	return "", tokens
}

// parseQuantity reads a non-negative integer quantity, zero when unreadable.
func parseQuantity(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func joinDescription(parts ...string) string {
	return textnorm.CleanValue(strings.Join(parts, " "))
}

// ExtractItems reconstructs the line-item table, preferring the coordinate
// representation and falling back to text lines when it yields nothing.
func ExtractItems(in *Input) ([]LineItem, ExtractionMode) {
	log := in.opts.Logger
	if items := coordinateItems(in); len(items) > 0 {
		log.Debug("line items", "mode", ModeCoordinate, "count", len(items))
		return items, ModeCoordinate
	}
	if items := textItems(in); len(items) > 0 {
		log.Debug("line items", "mode", ModeText, "count", len(items))
		return items, ModeText
	}
	log.Debug("line items", "mode", ModeNone, "count", 0)
	return nil, ModeNone
}
