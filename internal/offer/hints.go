package offer

import (
	"math"
	"strings"

	"github.com/a3tai/cbs-offer-importer/internal/pdf/layout"
)

// Strategy selects how a section's candidate checkboxes are found relative to
// its header.
type Strategy int

const (
	// OptionsLine looks below the header for the first text line naming
	// every option keyword that has a checkbox beside it.
	OptionsLine Strategy = iota
	// Window takes the checkboxes within a vertical band around the header.
	Window
	// UntilNextSection takes the checkboxes between the header and the
	// header of the following section.
	UntilNextSection
)

// Hint is the layout description of one checkbox-driven section.
type Hint struct {
	Section string
	// RequireText lists strings the page text must contain before the page
	// is searched.
	RequireText []string
	Strategy    Strategy
	Mapper      Mapper

	// OptionsLine parameters.
	Keywords    []string
	MinDrop     float64
	Alignment   float64
	RowDistance float64
	WrapOffset  float64
	WrapSpread  float64

	// Window parameters.
	Below float64
	Above float64

	// UntilNextSection parameters.
	NextSection  string
	NextMargin   float64
	NextMinDrop  float64
	DefaultDepth float64
	// EmptyIsFinal stops the search at the first page whose band holds no
	// checkbox.
	EmptyIsFinal bool

	// Label bounds. RowLabels stops a label at the next checkbox on the
	// same row; LabelReach, when positive, caps it at that distance past
	// the checkbox instead.
	RowLabels    bool
	RowTolerance float64
	LabelReach   float64
}

// FeeHint describes a closing cost section with a Buyer / Seller option row.
func FeeHint(section string) Hint {
	return Hint{
		Section:      section,
		RequireText:  []string{section},
		Strategy:     OptionsLine,
		Mapper:       MapFeeOptions,
		Keywords:     []string{"Buyer", "Seller"},
		MinDrop:      5,
		Alignment:    6,
		RowDistance:  8,
		WrapOffset:   14,
		WrapSpread:   6,
		RowLabels:    true,
		RowTolerance: 3,
	}
}

// TitleInsuranceHint describes the 8.1.1 / 8.1.2 owner's policy premium.
func TitleInsuranceHint() Hint {
	return Hint{
		Section:     "8.1.1",
		RequireText: []string{"8.1.1"},
		Strategy:    Window,
		Mapper:      MapTitleInsurance,
		Below:       100,
		Above:       5,
	}
}

// ExtendedCoverageHint describes the 8.1.3 owner's extended coverage choice.
func ExtendedCoverageHint() Hint {
	return Hint{
		Section:      "8.1.3",
		RequireText:  []string{"8.1.3"},
		Strategy:     Window,
		Mapper:       MapExtendedCoverage,
		Below:        30,
		Above:        5,
		RowLabels:    true,
		RowTolerance: 3,
	}
}

// AssociationAssessmentsHint describes the 16.2 association assessments
// choice, bounded below by the 17 header.
func AssociationAssessmentsHint() Hint {
	return Hint{
		Section:      "16.2",
		RequireText:  []string{"16.2.", "Association Assessments"},
		Strategy:     UntilNextSection,
		Mapper:       MapBuyerOrSeller,
		NextSection:  "17",
		NextMargin:   100,
		NextMinDrop:  5,
		DefaultDepth: 200,
		EmptyIsFinal: true,
		LabelReach:   80,
	}
}

// candidates returns the checkboxes of hint on page below anchor. found is
// false when the page does not hold the section's choice.
func (h Hint) candidates(s Settings, page *layout.Page, anchor Anchor, boxes []layout.ImageRef) (cands []layout.ImageRef, found bool) {
	switch h.Strategy {
	case OptionsLine:
		y, ok := h.optionsLine(page, anchor.Y, boxes)
		if !ok {
			return nil, false
		}
		for _, b := range boxes {
			if math.Abs(b.Y0-y) < h.RowDistance {
				cands = append(cands, b)
			}
		}
		for _, b := range boxes {
			if math.Abs(b.Y0-(y+h.WrapOffset)) < h.WrapSpread && !containsRef(cands, b) {
				cands = append(cands, b)
			}
		}
		return cands, true

	case Window:
		for _, b := range boxes {
			if b.Y0 >= anchor.Y-h.Below && b.Y0 <= anchor.Y+h.Above {
				cands = append(cands, b)
			}
		}
		return cands, len(cands) > 0

	case UntilNextSection:
		floor := anchor.Y - h.DefaultDepth
		if y, ok := h.nextHeader(s, page, anchor.Y); ok {
			floor = y
		}
		for _, b := range boxes {
			if b.Y0 >= floor && b.Y0 <= anchor.Y {
				cands = append(cands, b)
			}
		}
		return cands, len(cands) > 0 || h.EmptyIsFinal
	}
	return nil, false
}

// optionsLine returns the rounded y of the first line below the header that
// names every keyword and has a checkbox aligned with it.
func (h Hint) optionsLine(page *layout.Page, anchorY float64, boxes []layout.ImageRef) (float64, bool) {
	boxRows := make(map[int]bool, len(boxes))
	for _, b := range boxes {
		boxRows[int(math.Round(b.Y0))] = true
	}

	for _, row := range page.Rows() {
		if row.Y > anchorY-h.MinDrop {
			continue
		}
		aligned := false
		for y := range boxRows {
			if math.Abs(float64(y)-row.Y) < h.Alignment {
				aligned = true
				break
			}
		}
		if !aligned {
			continue
		}
		text := row.Text()
		if containsAll(text, h.Keywords) {
			return row.Y, true
		}
	}
	return 0, false
}

// nextHeader finds the header of the following section below anchorY.
func (h Hint) nextHeader(s Settings, page *layout.Page, anchorY float64) (float64, bool) {
	target := normalizeSection(h.NextSection)
	first := target[:1]
	for i, g := range page.Glyphs {
		if g.Text != first || g.X0 > h.NextMargin {
			continue
		}
		if !strings.HasPrefix(fragment(page.Glyphs, i, 8), target) {
			continue
		}
		if g.Y0 < anchorY-h.NextMinDrop {
			return g.Y0, true
		}
	}
	return 0, false
}

// labelBound returns the right-hand limit of the label of best.
func (h Hint) labelBound(best layout.ImageRef, cands []layout.ImageRef) float64 {
	switch {
	case h.LabelReach > 0:
		return best.X1 + h.LabelReach
	case h.RowLabels:
		return rowBound(best.BBox, cands, h.RowTolerance)
	default:
		return Unbounded
	}
}

func containsAll(text string, words []string) bool {
	for _, w := range words {
		if !strings.Contains(text, w) {
			return false
		}
	}
	return true
}

func containsRef(refs []layout.ImageRef, r layout.ImageRef) bool {
	for _, x := range refs {
		if x == r {
			return true
		}
	}
	return false
}
