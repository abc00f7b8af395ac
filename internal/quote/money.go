package quote

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// moneyRe matches printed amounts such as 950.00 or 1,221,775.00. Both ends
// must sit on a word boundary so an ungrouped 1234.56 is never read as 234.56.
var moneyRe = regexp.MustCompile(`\b\d{1,3}(?:,\d{3})*\.\d{2}\b`)

// ParseMoney converts a printed amount to a decimal. Thousands separators and
// a leading currency sign are ignored; anything unparsable yields zero.
func ParseMoney(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// moneySpan is one amount located in a string.
type moneySpan struct {
	start, end int
	value      decimal.Decimal
}

func findMoney(s string) []moneySpan {
	idx := moneyRe.FindAllStringIndex(s, -1)
	spans := make([]moneySpan, 0, len(idx))
	for _, m := range idx {
		spans = append(spans, moneySpan{start: m[0], end: m[1], value: ParseMoney(s[m[0]:m[1]])})
	}
	return spans
}

// lastTwoMoney returns the last two amounts in s (unit price, extended price)
// and s with both removed. ok is false when fewer than two amounts exist.
func lastTwoMoney(s string) (unit, ext decimal.Decimal, core string, ok bool) {
	spans := findMoney(s)
	if len(spans) < 2 {
		return decimal.Zero, decimal.Zero, s, false
	}
	u, e := spans[len(spans)-2], spans[len(spans)-1]
	core = s[:u.start] + " " + s[u.end:e.start] + " " + s[e.end:]
	return u.value, e.value, strings.Join(strings.Fields(core), " "), true
}

// singleMoney returns the last amount in a table cell.
func singleMoney(cell string) (decimal.Decimal, bool) {
	spans := findMoney(cell)
	if len(spans) == 0 {
		return decimal.Zero, false
	}
	return spans[len(spans)-1].value, true
}
