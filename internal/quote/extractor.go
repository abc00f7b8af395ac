package quote

// Extractor runs the header, ship-to and item extractors over documents.
// It holds no per-document state and is safe for concurrent use.
type Extractor struct {
	opts Options
}

// NewExtractor creates an extractor with the given tuning.
func NewExtractor(opts Options) *Extractor {
	return &Extractor{opts: opts.withDefaults()}
}

// Extract processes one document. It never fails: missing fields are empty
// and unreadable item rows are skipped.
func (e *Extractor) Extract(doc *Document) *Quote {
	in := NewInput(doc, e.opts)
	if doc != nil {
		in.opts.Logger = in.opts.Logger.With("document", doc.Name)
	}

	items, mode := ExtractItems(in)
	return &Quote{
		Header: ExtractHeader(in),
		ShipTo: ExtractShipTo(in),
		Items:  items,
		Mode:   mode,
	}
}

// ExtractText processes plain text without word geometry.
func (e *Extractor) ExtractText(text string) *Quote {
	return e.Extract(&Document{Pages: []Page{{Number: 1, Text: text}}})
}
