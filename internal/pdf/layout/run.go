package layout

import "unicode/utf8"

// SplitRun spreads a string drawn at (x, y) over width units, one glyph per
// rune, each size units tall.
func SplitRun(text string, x, y, width, size float64) []Glyph {
	n := utf8.RuneCountInString(text)
	if n == 0 {
		return nil
	}
	advance := width / float64(n)
	glyphs := make([]Glyph, 0, n)
	for _, r := range text {
		glyphs = append(glyphs, Glyph{
			Text: string(r),
			BBox: BBox{X0: x, Y0: y, X1: x + advance, Y1: y + size},
		})
		x += advance
	}
	return glyphs
}
