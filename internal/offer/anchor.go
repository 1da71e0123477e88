package offer

import (
	"strings"

	"github.com/a3tai/cbs-offer-importer/internal/pdf/layout"
)

// Anchor is the located header of a numbered section.
type Anchor struct {
	Section string
	Page    *layout.Page
	Y       float64
}

// LocateSection finds the header of section on page. A header starts with a
// digit near the left margin, its following glyphs spell the section number,
// and no section sign precedes it; a "§ 16.2." cross-reference in running
// text is therefore never taken for the 16.2 header.
func (s Settings) LocateSection(page *layout.Page, section string) (Anchor, bool) {
	target := normalizeSection(section)
	target = prefix(target, s.HeaderPrefix)
	if target == "" {
		return Anchor{}, false
	}

	glyphs := page.Glyphs
	for i, g := range glyphs {
		if !isDigit(g.Text) || g.X0 > s.HeaderMargin {
			continue
		}
		if !strings.HasPrefix(fragment(glyphs, i, s.HeaderWindow), target) {
			continue
		}
		if crossReferenced(glyphs, i, s.CrossRefLookback) {
			continue
		}
		return Anchor{Section: section, Page: page, Y: g.Y0}, true
	}
	return Anchor{}, false
}

// fragment joins up to n glyphs starting at i and drops spaces and periods.
func fragment(glyphs []layout.Glyph, i, n int) string {
	end := min(len(glyphs), i+n)
	var sb strings.Builder
	for _, g := range glyphs[i:end] {
		sb.WriteString(g.Text)
	}
	return normalizeSection(sb.String())
}

func crossReferenced(glyphs []layout.Glyph, i, lookback int) bool {
	for _, g := range glyphs[max(0, i-lookback):i] {
		if strings.Contains(g.Text, "§") {
			return true
		}
	}
	return false
}

func normalizeSection(s string) string {
	return strings.NewReplacer(" ", "", ".", "").Replace(s)
}

func isDigit(s string) bool {
	return len(s) == 1 && s[0] >= '0' && s[0] <= '9'
}
