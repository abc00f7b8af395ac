// Package textnorm normalizes text pulled out of quote PDFs before any
// heuristic looks at it, and sanitizes values before they reach a spreadsheet.
package textnorm

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

const valuePunctuation = ".,-/()#:&"

var (
	columnGapRe   = regexp.MustCompile(`\s{2,}`)
	badFilenameRe = regexp.MustCompile(`[^A-Za-z0-9._-]+`)
	lineBreakRe   = regexp.MustCompile(`\r\n?|\n`)
)

// CleanSpaces folds compatibility characters (non-breaking spaces, ligatures,
// full-width forms) with NFKC, collapses every whitespace run to a single
// ASCII space and trims the result.
func CleanSpaces(s string) string {
	if s == "" {
		return ""
	}
	return strings.Join(strings.Fields(norm.NFKC.String(s)), " ")
}

// CleanValue is CleanSpaces plus an allow-list filter: only letters, digits,
// spaces and the characters . , - / ( ) # : & survive.
func CleanValue(s string) string {
	s = CleanSpaces(s)
	if s == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if allowedValueRune(r) {
			b.WriteRune(r)
		}
	}
	return CleanSpaces(b.String())
}

func allowedValueRune(r rune) bool {
	switch {
	case r == ' ':
		return true
	case unicode.IsLetter(r), unicode.IsDigit(r):
		return true
	default:
		return strings.ContainsRune(valuePunctuation, r)
	}
}

// Lines splits text into normalized, non-blank lines.
func Lines(text string) []string {
	raw := lineBreakRe.Split(text, -1)
	out := make([]string, 0, len(raw))
	for _, l := range raw {
		if c := CleanSpaces(l); c != "" {
			out = append(out, c)
		}
	}
	return out
}

// RawLines splits text into non-blank lines but keeps inner spacing so that
// side-by-side columns (separated by two or more spaces) can still be told
// apart. Compatibility characters are folded and surrounding space is
// trimmed. The result is index-aligned with Lines.
func RawLines(text string) []string {
	return splitRaw(text, strings.TrimSpace)
}

// IndentedLines is RawLines without trimming leading space, so a line printed
// only in a right-hand column keeps its indentation.
func IndentedLines(text string) []string {
	return splitRaw(text, func(l string) string { return strings.TrimRight(l, " ") })
}

func splitRaw(text string, trim func(string) string) []string {
	raw := lineBreakRe.Split(text, -1)
	out := make([]string, 0, len(raw))
	for _, l := range raw {
		if CleanSpaces(l) == "" {
			continue
		}
		l = strings.Map(func(r rune) rune {
			if unicode.IsSpace(r) {
				return ' '
			}
			return r
		}, norm.NFKC.String(l))
		out = append(out, trim(l))
	}
	return out
}

// SplitColumns splits a raw line on runs of two or more whitespace characters.
func SplitColumns(line string) []string {
	parts := columnGapRe.Split(strings.TrimSpace(line), -1)
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// SafeFilename replaces every run of characters outside [A-Za-z0-9._-] with
// an underscore and trims leading/trailing dots, dashes and underscores.
func SafeFilename(name string) string {
	name = CleanSpaces(name)
	name = badFilenameRe.ReplaceAllString(name, "_")
	name = strings.Trim(name, "._-")
	if name == "" {
		return "file"
	}
	return name
}
