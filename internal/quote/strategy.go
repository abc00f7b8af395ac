package quote

import (
	"github.com/a3tai/quote-extractor/internal/layout"
	"github.com/a3tai/quote-extractor/internal/textnorm"
)

// Input is the read-only view of a document that strategies work on.
type Input struct {
	Text  string        // full raw text, pages joined
	Lines []string      // normalized non-blank lines
	Raw   []string      // same lines with inner spacing kept, index-aligned with Lines
	Words []layout.Word // words of the first page
	Pages []Page

	opts Options
}

// NewInput prepares a document for extraction.
func NewInput(doc *Document, opts Options) *Input {
	text := doc.Text()
	in := &Input{
		Text:  text,
		Lines: textnorm.Lines(text),
		Raw:   textnorm.RawLines(text),
		opts:  opts.withDefaults(),
	}
	if doc != nil {
		in.Pages = doc.Pages
		if len(doc.Pages) > 0 {
			in.Words = doc.Pages[0].Words
		}
	}
	return in
}

// NewTextInput builds an Input from plain text only, without word geometry.
func NewTextInput(text string, opts Options) *Input {
	return NewInput(&Document{Pages: []Page{{Number: 1, Text: text}}}, opts)
}

// Strategy is one way of locating a field. Find returns the value and true
// when the strategy settled the field; an empty value with true means the
// strategy recognised its layout and determined the field is absent.
type Strategy struct {
	Name string
	Find func(in *Input) (string, bool)
}

// Chain is an ordered list of strategies; the first that settles wins.
type Chain []Strategy

// Run executes the chain and returns the value together with the name of the
// strategy that produced it ("" when nothing matched).
func (c Chain) Run(in *Input) (string, string) {
	for _, s := range c {
		if v, ok := s.Find(in); ok {
			return v, s.Name
		}
	}
	return "", ""
}

// nonEmpty adapts a finder so that an empty result does not settle the field.
func nonEmpty(find func(in *Input) string) func(in *Input) (string, bool) {
	return func(in *Input) (string, bool) {
		v := find(in)
		return v, v != ""
	}
}
