// Package layout holds the positioned glyphs and images of a PDF page and the
// geometric queries the offer extractor runs over them.
package layout

import "math"

// BBox is an axis-aligned box in PDF user units with a bottom-left origin.
type BBox struct {
	X0 float64 `json:"x0"`
	Y0 float64 `json:"y0"`
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
}

// Width returns the horizontal extent of the box.
func (b BBox) Width() float64 {
	return b.X1 - b.X0
}

// Height returns the vertical extent of the box.
func (b BBox) Height() float64 {
	return b.Y1 - b.Y0
}

// MidY returns the vertical center of the box.
func (b BBox) MidY() float64 {
	return (b.Y0 + b.Y1) / 2
}

// Glyph is a single rendered character.
type Glyph struct {
	Text string `json:"text"`
	BBox
}

// ImageRef is an image drawn on a page. Key identifies the image data within
// the owning document so a renderer can fetch it.
type ImageRef struct {
	Key string `json:"key"`
	BBox
}

// Page is one page of a document. Glyphs keep content-stream order.
type Page struct {
	Number int        `json:"number"`
	Width  float64    `json:"width"`
	Height float64    `json:"height"`
	Glyphs []Glyph    `json:"glyphs"`
	Images []ImageRef `json:"images"`

	text string
}

// CheckboxGeometry describes the square image a form uses for a checkbox.
type CheckboxGeometry struct {
	Size      float64
	Tolerance float64
}

// DefaultCheckboxGeometry matches the 10.5 unit boxes of the CBS1 form.
var DefaultCheckboxGeometry = CheckboxGeometry{Size: 10.5, Tolerance: 1.5}

// Matches reports whether b is square within the geometry's tolerance.
func (g CheckboxGeometry) Matches(b BBox) bool {
	return math.Abs(b.Width()-g.Size) < g.Tolerance &&
		math.Abs(b.Height()-g.Size) < g.Tolerance
}

// Checkboxes returns the page images that look like checkboxes, in draw order.
func (p *Page) Checkboxes(g CheckboxGeometry) []ImageRef {
	var boxes []ImageRef
	for _, img := range p.Images {
		if g.Matches(img.BBox) {
			boxes = append(boxes, img)
		}
	}
	return boxes
}
