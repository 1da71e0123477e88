package layout

import (
	"math"
	"sort"
	"strings"
)

const (
	// DefaultLineTolerance is the baseline distance under which two glyphs
	// belong to the same text line.
	DefaultLineTolerance = 3.0

	// wordGap is the horizontal gap that becomes a space in extracted text.
	wordGap = 3.0
)

// Line is a run of glyphs sharing a baseline, ordered left to right.
type Line struct {
	Y      float64
	Glyphs []Glyph
}

// Text concatenates the glyphs of the line without inserting spaces.
func (l Line) Text() string {
	var sb strings.Builder
	for _, g := range l.Glyphs {
		sb.WriteString(g.Text)
	}
	return sb.String()
}

// Rows groups glyphs by their rounded bottom edge, top of page first.
func (p *Page) Rows() []Line {
	byY := make(map[int][]Glyph)
	for _, g := range p.Glyphs {
		y := int(math.Round(g.Y0))
		byY[y] = append(byY[y], g)
	}

	rows := make([]Line, 0, len(byY))
	for y, glyphs := range byY {
		sortByX(glyphs)
		rows = append(rows, Line{Y: float64(y), Glyphs: glyphs})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Y > rows[j].Y })
	return rows
}

// Lines clusters glyphs into text lines, top of page first.
func (p *Page) Lines(tolerance float64) []Line {
	glyphs := make([]Glyph, len(p.Glyphs))
	copy(glyphs, p.Glyphs)
	sort.SliceStable(glyphs, func(i, j int) bool { return glyphs[i].Y0 > glyphs[j].Y0 })

	var lines []Line
	for _, g := range glyphs {
		n := len(lines)
		if n > 0 && math.Abs(lines[n-1].Y-g.Y0) <= tolerance {
			lines[n-1].Glyphs = append(lines[n-1].Glyphs, g)
			continue
		}
		lines = append(lines, Line{Y: g.Y0, Glyphs: []Glyph{g}})
	}
	for i := range lines {
		sortByX(lines[i].Glyphs)
	}
	return lines
}

// Text returns the page text, one line per output line, with spaces inserted
// at visible word gaps. The result is computed once and reused.
func (p *Page) Text() string {
	if p.text != "" || len(p.Glyphs) == 0 {
		return p.text
	}

	lines := p.Lines(DefaultLineTolerance)
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		var sb strings.Builder
		for i, g := range line.Glyphs {
			if i > 0 {
				prev := line.Glyphs[i-1]
				if g.X0-prev.X1 > wordGap && prev.Text != " " && g.Text != " " {
					sb.WriteByte(' ')
				}
			}
			sb.WriteString(g.Text)
		}
		out = append(out, sb.String())
	}
	p.text = strings.Join(out, "\n")
	return p.text
}

// Contains reports whether the page text contains every needle.
func (p *Page) Contains(needles ...string) bool {
	text := p.Text()
	for _, n := range needles {
		if !strings.Contains(text, n) {
			return false
		}
	}
	return true
}

func sortByX(glyphs []Glyph) {
	sort.SliceStable(glyphs, func(i, j int) bool { return glyphs[i].X0 < glyphs[j].X0 })
}
