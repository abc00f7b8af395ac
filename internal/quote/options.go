package quote

import (
	"log/slog"
)

// Default tuning values for the extraction heuristics.
const (
	DefaultHeaderLines    = 20
	DefaultRowTolerance   = 3.0
	DefaultColumnMargin   = 4.0
	DefaultCompositeLines = 120
	DefaultShipToLines    = 9

	labelMinDy = 5.0
	labelMaxDy = 25.0
	labelMaxDx = 60.0
)

// Options tunes the extractor. The zero value is usable.
type Options struct {
	// HeaderLines bounds how far down the first page the bare date search looks.
	HeaderLines int
	// RowTolerance is the vertical centre distance, in points, within which two
	// words share a visual row.
	RowTolerance float64
	// ColumnMargin widens each inferred column to the left of its header label.
	ColumnMargin float64
	// Logger receives per-field strategy decisions at debug level.
	Logger *slog.Logger
}

// DefaultOptions returns the tuning used for the vendor's quote template.
func DefaultOptions() Options {
	return Options{
		HeaderLines:  DefaultHeaderLines,
		RowTolerance: DefaultRowTolerance,
		ColumnMargin: DefaultColumnMargin,
	}
}

func (o Options) withDefaults() Options {
	if o.HeaderLines <= 0 {
		o.HeaderLines = DefaultHeaderLines
	}
	if o.RowTolerance <= 0 {
		o.RowTolerance = DefaultRowTolerance
	}
	if o.ColumnMargin <= 0 {
		o.ColumnMargin = DefaultColumnMargin
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}
