package quote

import (
	"regexp"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// OutputDateLayout is the only date format ever written to output.
const OutputDateLayout = "01/02/2006"

var (
	dateRe = regexp.MustCompile(`(?i)\b(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Sept|Oct|Nov|Dec)[a-z]*\.?\s+\d{1,2}\s*,\s*\d{4}\b`)

	labeledDateRe = regexp.MustCompile(`(?i)\b(?:(?:order|quote)\s+)?date\s*:?\s*((?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Sept|Oct|Nov|Dec)[a-z]*\.?\s+\d{1,2}\s*,\s*\d{4})\b`)

	dateCommaRe = regexp.MustCompile(`\s*,\s*`)
)

// NormalizeDate parses a loosely formatted date such as "Nov 21, 2025" or
// "SEPT 3 ,2024" and returns it as MM/DD/YYYY. Unparsable input yields "".
func NormalizeDate(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	raw = dateCommaRe.ReplaceAllString(raw, ", ")
	fields := strings.Fields(raw)
	if len(fields) > 0 {
		month := strings.TrimSuffix(strings.ToLower(fields[0]), ".")
		if month == "sept" {
			month = "sep"
		}
		if month != "" {
			fields[0] = strings.ToUpper(month[:1]) + month[1:]
		}
	}

	t, err := dateparse.ParseIn(strings.Join(fields, " "), time.UTC)
	if err != nil {
		return ""
	}
	return t.Format(OutputDateLayout)
}

// labeledDate finds a date that directly follows a Date, Order Date or Quote
// Date label anywhere in the text.
func labeledDate(in *Input) string {
	for _, line := range in.Lines {
		if m := labeledDateRe.FindStringSubmatch(line); m != nil {
			if d := NormalizeDate(m[1]); d != "" {
				return d
			}
		}
	}
	return ""
}

// firstDate takes the first date-shaped substring in the header lines.
func firstDate(in *Input) string {
	limit := min(in.opts.HeaderLines, len(in.Lines))
	for _, line := range in.Lines[:limit] {
		for _, m := range dateRe.FindAllString(line, -1) {
			if d := NormalizeDate(m); d != "" {
				return d
			}
		}
	}
	return ""
}

var dateChain = Chain{
	{Name: "labeled-date", Find: nonEmpty(labeledDate)},
	{Name: "first-date", Find: nonEmpty(firstDate)},
}
