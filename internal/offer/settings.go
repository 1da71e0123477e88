// Package offer extracts the fields of a CBS1 purchase offer from a loaded
// document and assembles them into a record keyed by spreadsheet row.
package offer

import (
	"github.com/a3tai/cbs-offer-importer/internal/pdf/layout"
	"github.com/a3tai/cbs-offer-importer/internal/pdf/raster"
)

// Settings holds the geometric and photometric constants of extraction.
type Settings struct {
	// Resolution is the render resolution used for brightness sampling.
	Resolution float64
	// BrightnessThreshold is the mean gray level above which the darkest
	// candidate still counts as unchecked.
	BrightnessThreshold float64
	Checkbox            layout.CheckboxGeometry
	// HeaderMargin is the rightmost x0 a section header digit may have.
	HeaderMargin float64
	// HeaderWindow is the number of glyphs read when matching a header.
	HeaderWindow int
	// HeaderPrefix is the number of normalized section characters matched.
	HeaderPrefix int
	// CrossRefLookback is the number of glyphs before a header checked for
	// a section sign.
	CrossRefLookback int
	// LabelGlyphs caps the length of a resolved label.
	LabelGlyphs int
	// LabelBand is the vertical distance within which a glyph's midline
	// belongs to a checkbox label.
	LabelBand float64
	// Debug logs how every checkbox section was resolved.
	Debug bool
}

// DefaultSettings returns the constants tuned for the CBS1 form.
func DefaultSettings() Settings {
	return Settings{
		Resolution:          raster.DefaultResolution,
		BrightnessThreshold: 150,
		Checkbox:            layout.DefaultCheckboxGeometry,
		HeaderMargin:        150,
		HeaderWindow:        10,
		HeaderPrefix:        4,
		CrossRefLookback:    4,
		LabelGlyphs:         15,
		LabelBand:           4,
	}
}
