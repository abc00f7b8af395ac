package quote

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/a3tai/quote-extractor/internal/layout"
	"github.com/a3tai/quote-extractor/internal/textnorm"
)

const (
	CountryCanada = "Canada"
	CountryUSA    = "USA"
)

var (
	canadaLocalityRe = regexp.MustCompile(`^(.+?),\s*([A-Za-z]{2})\s*,?\s*([A-Za-z]\d[A-Za-z])\s?(\d[A-Za-z]\d)$`)
	usLocalityRe     = regexp.MustCompile(`^(.+?),\s*([A-Z]{2})\s*,?\s*(\d{5}(?:-\d{4})?)$`)

	canadaPostalRe = regexp.MustCompile(`(?i)\b[A-Z]\d[A-Z]\s?\d[A-Z]\d\b`)
	regionCodeRe   = regexp.MustCompile(`\b[A-Z]{2}\b`)
	attnRe         = regexp.MustCompile(`(?i)^attn\b`)
	shipToRe       = regexp.MustCompile(`(?i)ship\s*to\s*:`)
	soldToRe       = regexp.MustCompile(`(?i)sold\s*to\s*:`)
	blockEndRe     = regexp.MustCompile(`(?i)^(?:please send your order to:|qty\.)`)
)

var usStates = map[string]bool{
	"AL": true, "AK": true, "AZ": true, "AR": true, "CA": true, "CO": true, "CT": true,
	"DE": true, "DC": true, "FL": true, "GA": true, "HI": true, "ID": true, "IL": true,
	"IN": true, "IA": true, "KS": true, "KY": true, "LA": true, "ME": true, "MD": true,
	"MA": true, "MI": true, "MN": true, "MS": true, "MO": true, "MT": true, "NE": true,
	"NV": true, "NH": true, "NJ": true, "NM": true, "NY": true, "NC": true, "ND": true,
	"OH": true, "OK": true, "OR": true, "PA": true, "RI": true, "SC": true, "SD": true,
	"TN": true, "TX": true, "UT": true, "VT": true, "VA": true, "WA": true, "WV": true,
	"WI": true, "WY": true,
}

var explicitCountries = map[string]string{
	"canada":                   CountryCanada,
	"usa":                      CountryUSA,
	"united states":            CountryUSA,
	"united states of america": CountryUSA,
}

// ExtractShipTo finds the "Ship To:" block and decomposes it. Without an
// anchor every field is empty.
func ExtractShipTo(in *Input) ShipToAddress {
	block, source := shipToWords(in.Words, in.opts), "geometry"
	if block == nil {
		block, source = shipToBlock(textnorm.IndentedLines(in.Text)), "text"
	}
	addr := ParseShipToBlock(block)
	in.opts.Logger.Debug("ship-to block", "source", source, "lines", len(block),
		"company", addr.Company, "country", addr.Country)
	return addr
}

// blockCollector accumulates address lines until an end marker or the line
// cap is reached.
type blockCollector struct {
	lines []string
}

// add appends line and reports whether collection should continue.
func (c *blockCollector) add(line string) bool {
	line = textnorm.CleanSpaces(line)
	if line == "" {
		return true
	}
	if blockEndRe.MatchString(line) {
		return false
	}
	c.lines = append(c.lines, line)
	return len(c.lines) < DefaultShipToLines
}

// shipToWords builds the block from word geometry when "Ship To:" shares its
// row with "Sold To:". Rows below the anchor keep only words starting at or
// right of the anchor's left edge, less the column margin. It returns nil
// when the page has no side-by-side anchor row.
func shipToWords(words []layout.Word, opts Options) []string {
	rows := layout.GroupRows(words, opts.RowTolerance)
	for i, row := range rows {
		ship := layout.FindPhrase(row, "ship to")
		if len(ship) == 0 || len(layout.FindPhrase(row, "sold to")) == 0 {
			continue
		}

		anchor := ship[0]
		minX := row.Words[anchor].X0 - opts.ColumnMargin
		var c blockCollector
		rest := layout.Row{Words: row.Words[anchor+2:]}.Text()
		if soldToRe.MatchString(rest) {
			rest = ""
		}
		if !c.add(rest) {
			return dropAttn(c.lines)
		}
		for _, below := range rows[i+1:] {
			if blockEndRe.MatchString(textnorm.CleanSpaces(below.Text())) {
				break
			}
			if !c.add(layout.Row{Words: wordsFrom(below.Words, minX)}.Text()) {
				break
			}
		}
		return dropAttn(c.lines)
	}
	return nil
}

func wordsFrom(words []layout.Word, minX float64) []layout.Word {
	out := make([]layout.Word, 0, len(words))
	for _, w := range words {
		if w.X0 >= minX {
			out = append(out, w)
		}
	}
	return out
}

// shipToBlock returns the candidate address lines following the anchor in
// lines that keep their leading indentation. For side-by-side Sold To / Ship
// To layouts only the right-hand column is kept.
func shipToBlock(lines []string) []string {
	anchor := -1
	for i, line := range lines {
		if shipToRe.MatchString(line) {
			anchor = i
			break
		}
	}
	if anchor < 0 {
		return nil
	}

	twoColumn := soldToRe.MatchString(lines[anchor])
	loc := shipToRe.FindStringIndex(lines[anchor])
	column := utf8.RuneCountInString(lines[anchor][:loc[0]])

	var c blockCollector
	rest := lines[anchor][loc[1]:]
	if twoColumn && soldToRe.MatchString(rest) {
		rest = ""
	}
	if !c.add(rest) {
		return dropAttn(c.lines)
	}
	for _, line := range lines[anchor+1:] {
		if twoColumn {
			if blockEndRe.MatchString(textnorm.CleanSpaces(line)) {
				break
			}
			line = rightColumn(line, column)
		}
		if !c.add(line) {
			break
		}
	}
	return dropAttn(c.lines)
}

// rightColumn returns the part of line printed under the Ship To column that
// starts at rune offset column. A single-part line belongs to that column
// only when it is indented at least halfway towards it.
func rightColumn(line string, column int) string {
	parts := textnorm.SplitColumns(line)
	if len(parts) >= 2 {
		return parts[len(parts)-1]
	}
	indent := utf8.RuneCountInString(line) - utf8.RuneCountInString(strings.TrimLeft(line, " "))
	if indent == 0 || 2*indent < column {
		return ""
	}
	return line
}

func dropAttn(lines []string) []string {
	out := lines[:0]
	for _, l := range lines {
		if !attnRe.MatchString(l) {
			out = append(out, l)
		}
	}
	return out
}

// ParseShipToBlock decomposes address lines (company first) into fields.
func ParseShipToBlock(lines []string) ShipToAddress {
	block := make([]string, 0, len(lines))
	for _, l := range lines {
		if l = textnorm.CleanSpaces(l); l != "" && !attnRe.MatchString(l) {
			block = append(block, l)
		}
	}
	if len(block) == 0 {
		return ShipToAddress{}
	}

	addr := ShipToAddress{Company: textnorm.CleanValue(block[0])}

	locIdx := -1
	for i := 1; i < len(block); i++ {
		if isLocalityLine(block[i]) {
			locIdx = i
			break
		}
	}

	streetLimit := len(block)
	if locIdx >= 0 {
		streetLimit = locIdx
	}
	for i := 1; i < streetLimit; i++ {
		if hasDigit(block[i]) {
			addr.Street = textnorm.CleanValue(block[i])
			break
		}
	}

	inferred := ""
	if locIdx >= 0 {
		inferred = parseLocality(block[locIdx], &addr)
	}

	addr.Country = inferred
	for i := len(block) - 1; i >= 1; i-- {
		if c, ok := explicitCountries[strings.ToLower(block[i])]; ok {
			addr.Country = c
			break
		}
	}
	return addr
}

func isLocalityLine(line string) bool {
	comma := strings.IndexByte(line, ',')
	if comma < 0 {
		return false
	}
	return regionCodeRe.MatchString(line[comma:]) || canadaPostalRe.MatchString(line)
}

// parseLocality fills city, region and postal code and returns the country
// implied by the postal code.
func parseLocality(line string, addr *ShipToAddress) string {
	if m := canadaLocalityRe.FindStringSubmatch(line); m != nil {
		addr.City = textnorm.CleanValue(m[1])
		addr.Region = strings.ToUpper(m[2])
		addr.PostalCode = strings.ToUpper(m[3] + m[4])
		return CountryCanada
	}
	if m := usLocalityRe.FindStringSubmatch(line); m != nil && usStates[m[2]] {
		addr.City = textnorm.CleanValue(m[1])
		addr.Region = m[2]
		addr.PostalCode = m[3]
		return CountryUSA
	}

	parts := strings.Split(line, ",")
	addr.City = textnorm.CleanValue(parts[0])
	tokens := strings.Fields(strings.Join(parts[1:], " "))
	switch {
	case len(tokens) >= 2:
		addr.Region = textnorm.CleanValue(tokens[len(tokens)-2])
		addr.PostalCode = textnorm.CleanValue(tokens[len(tokens)-1])
	case len(tokens) == 1:
		addr.Region = textnorm.CleanValue(tokens[0])
	}

	if canadaPostalRe.MatchString(addr.PostalCode) {
		return CountryCanada
	}
	return CountryUSA
}
