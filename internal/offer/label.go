package offer

import (
	"math"
	"sort"
	"strings"

	"github.com/a3tai/cbs-offer-importer/internal/pdf/layout"
)

// Unbounded places no right-hand limit on a label.
var Unbounded = math.Inf(1)

// ResolveLabel reads the text printed to the right of box, on the box's
// midline, stopping before bound.
func (s Settings) ResolveLabel(page *layout.Page, box layout.BBox, bound float64) string {
	mid := box.MidY()

	var glyphs []layout.Glyph
	for _, g := range page.Glyphs {
		if g.X0 >= box.X1-1 && g.X0 < bound && math.Abs(g.MidY()-mid) < s.LabelBand {
			glyphs = append(glyphs, g)
		}
	}
	sort.SliceStable(glyphs, func(i, j int) bool { return glyphs[i].X0 < glyphs[j].X0 })

	if len(glyphs) > s.LabelGlyphs {
		glyphs = glyphs[:s.LabelGlyphs]
	}
	var sb strings.Builder
	for _, g := range glyphs {
		sb.WriteString(g.Text)
	}
	return strings.TrimSpace(sb.String())
}

// rowBound returns the x0 of the nearest box on the same row as box that
// starts to its right, or Unbounded.
func rowBound(box layout.BBox, boxes []layout.ImageRef, tolerance float64) float64 {
	bound := Unbounded
	for _, b := range boxes {
		if math.Abs(b.Y0-box.Y0) < tolerance && b.X0 > box.X1 {
			bound = math.Min(bound, b.X0)
		}
	}
	return bound
}
