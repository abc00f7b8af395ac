package quote

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/a3tai/quote-extractor/internal/layout"
	"github.com/a3tai/quote-extractor/internal/textnorm"
)

var (
	labeledQuoteRe = regexp.MustCompile(`(?i)\b(?:order|quote)\s*(?:number|no\.?|#)\s*[:#]?\s*["'“”‘’]?(QT[0-9A-Z]+)\b`)
	bareQuoteRe    = regexp.MustCompile(`(?i)\bQT[0-9A-Z]*\d[0-9A-Z]*\b`)

	// compositeRe matches the single-line header used by one layout, e.g.
	// "Brock Beehler 2026-1 MR Nov 21, 2025 BRAUN NET30" or
	// "11007-4 JZ Nov 21, 2025 UPSPPA NET30".
	compositeRe = regexp.MustCompile(`^(?:(?P<prefix>.+?)\s+)?(?P<cust>\d{2,}-\d+)\s+(?P<code>[A-Z]{1,3})\s+(?P<date>[A-Za-z]{3}\s+\d{1,2},\s+\d{4})\s+.+\s+NET\d+$`)

	labeledCustomerRe    = regexp.MustCompile(`(?i)\bcustomer\s*(?:no\.?|number|#|id)\s*[:#]?\s*([A-Za-z0-9][A-Za-z0-9-]*)`)
	labeledSalespersonRe = regexp.MustCompile(`(?i)\bsales\s*person\s*[:#]?\s*([A-Za-z0-9]{1,6})\b`)

	customerLabelRe    = regexp.MustCompile(`(?i)^customer`)
	salespersonLabelRe = regexp.MustCompile(`(?i)^sales\s*person`)
	codeTokenRe        = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9-]*$`)
	shortTokenRe       = regexp.MustCompile(`^[A-Za-z0-9]{1,6}$`)

	quoteChars = strings.NewReplacer(`"`, "", "'", "", "“", "", "”", "", "‘", "", "’", "")
)

// labelWords are header captions that a short-token match must not return
// as a salesperson code.
var labelWords = map[string]bool{
	"no": true, "num": true, "id": true, "code": true, "date": true, "terms": true,
	"ship": true, "via": true, "order": true, "quote": true, "page": true, "ref": true,
}

func normalizeQuoteNumber(s string) string {
	return textnorm.CleanValue(strings.ToUpper(quoteChars.Replace(s)))
}

func labeledQuoteNumber(in *Input) string {
	if m := labeledQuoteRe.FindStringSubmatch(textnorm.CleanSpaces(in.Text)); m != nil {
		return normalizeQuoteNumber(m[1])
	}
	return ""
}

func bareQuoteNumber(in *Input) string {
	return normalizeQuoteNumber(bareQuoteRe.FindString(in.Text))
}

// quoteNumberChain prefers a label-anchored token because bare QT strings
// also turn up inside item descriptions.
var quoteNumberChain = Chain{
	{Name: "labeled-quote-number", Find: nonEmpty(labeledQuoteNumber)},
	{Name: "bare-quote-number", Find: nonEmpty(bareQuoteNumber)},
}

type compositeHeader struct {
	customer string
	writer   string
}

func findComposite(in *Input) (compositeHeader, bool) {
	limit := min(DefaultCompositeLines, len(in.Lines))
	for _, line := range in.Lines[:limit] {
		m := compositeRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		prefix := textnorm.CleanSpaces(m[compositeRe.SubexpIndex("prefix")])
		h := compositeHeader{customer: textnorm.CleanValue(m[compositeRe.SubexpIndex("cust")])}
		if prefix != "" && !unicode.IsDigit([]rune(prefix)[0]) {
			h.writer = textnorm.CleanValue(prefix)
		}
		return h, true
	}
	return compositeHeader{}, false
}

func compositeCustomer(in *Input) string {
	h, _ := findComposite(in)
	return h.customer
}

// compositeWriter settles the field whenever the composite line exists, even
// when its prefix is numeric and the writer is therefore absent.
func compositeWriter(in *Input) (string, bool) {
	h, ok := findComposite(in)
	return h.writer, ok
}

func labeledCustomer(in *Input) string {
	for _, line := range in.Lines {
		for _, m := range labeledCustomerRe.FindAllStringSubmatch(line, -1) {
			if hasDigit(m[1]) {
				return textnorm.CleanValue(m[1])
			}
		}
	}
	return ""
}

func labeledSalesperson(in *Input) string {
	for _, line := range in.Lines {
		for _, m := range labeledSalespersonRe.FindAllStringSubmatch(line, -1) {
			if isSalespersonCode(m[1]) {
				return textnorm.CleanValue(m[1])
			}
		}
	}
	return ""
}

func isCustomerToken(s string) bool {
	return codeTokenRe.MatchString(s) && hasDigit(s)
}

func isSalespersonCode(s string) bool {
	return shortTokenRe.MatchString(s) && !labelWords[strings.ToLower(s)]
}

// belowLabel scans label words top to bottom and returns the first accepted
// value printed under one of them.
func belowLabel(words []layout.Word, label *regexp.Regexp, accept func(string) bool) string {
	labels := make([]layout.Word, 0, 4)
	for _, w := range words {
		if label.MatchString(w.Text) {
			labels = append(labels, w)
		}
	}
	for _, row := range layout.GroupRows(labels, 0) {
		for _, l := range row.Words {
			if v, ok := layout.Below(words, l, labelMinDy, labelMaxDy, labelMaxDx, accept); ok {
				return textnorm.CleanValue(v.Text)
			}
		}
	}
	return ""
}

func geometricCustomer(in *Input) string {
	return belowLabel(in.Words, customerLabelRe, isCustomerToken)
}

func geometricSalesperson(in *Input) string {
	return belowLabel(in.Words, salespersonLabelRe, isSalespersonCode)
}

var customerChain = Chain{
	{Name: "composite-line", Find: nonEmpty(compositeCustomer)},
	{Name: "labeled-customer", Find: nonEmpty(labeledCustomer)},
	{Name: "customer-geometry", Find: nonEmpty(geometricCustomer)},
}

var salespersonChain = Chain{
	{Name: "composite-line", Find: compositeWriter},
	{Name: "labeled-salesperson", Find: nonEmpty(labeledSalesperson)},
	{Name: "salesperson-geometry", Find: nonEmpty(geometricSalesperson)},
}

// ExtractHeader locates the quote number, date, customer id and salesperson.
func ExtractHeader(in *Input) HeaderFields {
	var h HeaderFields
	var by string
	log := in.opts.Logger

	h.QuoteNumber, by = quoteNumberChain.Run(in)
	log.Debug("header field", "field", "quote_number", "strategy", by, "value", h.QuoteNumber)

	h.QuoteDate, by = dateChain.Run(in)
	log.Debug("header field", "field", "quote_date", "strategy", by, "value", h.QuoteDate)

	h.CustomerID, by = customerChain.Run(in)
	log.Debug("header field", "field", "customer_id", "strategy", by, "value", h.CustomerID)

	h.SalespersonCode, by = salespersonChain.Run(in)
	log.Debug("header field", "field", "salesperson_code", "strategy", by, "value", h.SalespersonCode)

	return h
}

func hasDigit(s string) bool {
	return strings.ContainsFunc(s, unicode.IsDigit)
}
