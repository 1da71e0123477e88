package offer

import (
	"log"

	"github.com/a3tai/cbs-offer-importer/internal/pdf/layout"
	"github.com/a3tai/cbs-offer-importer/internal/pdf/raster"
)

// Classifier decides which checkbox of a section is checked by sampling the
// rendered page under each candidate.
type Classifier struct {
	settings Settings
	cache    *raster.Cache
}

// NewClassifier returns a classifier that samples pages through cache.
func NewClassifier(settings Settings, cache *raster.Cache) *Classifier {
	return &Classifier{settings: settings, cache: cache}
}

// Diagnosis records how one section was resolved.
type Diagnosis struct {
	Section    string       `json:"section"`
	Page       int          `json:"page,omitempty"`
	AnchorY    float64      `json:"anchor_y,omitempty"`
	Candidates int          `json:"candidates"`
	Box        *layout.BBox `json:"box,omitempty"`
	Brightness float64      `json:"brightness,omitempty"`
	Label      string       `json:"label,omitempty"`
	Choice     Choice       `json:"choice"`
}

// Resolve searches pages in order for the section described by hint and
// returns the choice of its checked box. A section that is never found, or
// whose darkest candidate is not dark enough, yields NotApplicable.
func (c *Classifier) Resolve(pages []*layout.Page, hint Hint) (Choice, error) {
	d, err := c.Explain(pages, hint)
	if c.settings.Debug && err == nil {
		log.Printf("offer.Resolve: %s page=%d candidates=%d brightness=%.1f label=%q -> %s",
			d.Section, d.Page, d.Candidates, d.Brightness, d.Label, d.Choice)
	}
	return d.Choice, err
}

// Explain is Resolve with the intermediate steps recorded.
func (c *Classifier) Explain(pages []*layout.Page, hint Hint) (Diagnosis, error) {
	d := Diagnosis{Section: hint.Section, Choice: NotApplicable}
	for _, page := range pages {
		if !page.Contains(hint.RequireText...) {
			continue
		}
		boxes := page.Checkboxes(c.settings.Checkbox)
		// A final section with no boxes at all still resolves on this page.
		if len(boxes) == 0 && !hint.EmptyIsFinal {
			continue
		}
		anchor, ok := c.settings.LocateSection(page, hint.Section)
		if !ok {
			continue
		}
		cands, found := hint.candidates(c.settings, page, anchor, boxes)
		if !found {
			continue
		}
		d.Page, d.AnchorY, d.Candidates = page.Number, anchor.Y, len(cands)
		return c.classify(page, hint, cands, d)
	}
	return d, nil
}

func (c *Classifier) classify(page *layout.Page, hint Hint, cands []layout.ImageRef, d Diagnosis) (Diagnosis, error) {
	best, brightness, ok, err := c.darkest(page, cands)
	if err != nil {
		return d, err
	}
	if len(cands) > 0 {
		d.Brightness = brightness
	}
	if !ok {
		return d, nil
	}
	box := best.BBox
	d.Box = &box
	d.Label = c.settings.ResolveLabel(page, best.BBox, hint.labelBound(best, cands))
	d.Choice = hint.Mapper.Map(d.Label)
	return d, nil
}

// Darkest returns the candidate with the lowest mean brightness, provided it
// does not exceed the threshold. Ties go to the earlier candidate.
func (c *Classifier) Darkest(page *layout.Page, cands []layout.ImageRef) (layout.ImageRef, bool, error) {
	best, _, ok, err := c.darkest(page, cands)
	return best, ok, err
}

func (c *Classifier) darkest(page *layout.Page, cands []layout.ImageRef) (layout.ImageRef, float64, bool, error) {
	if len(cands) == 0 {
		return layout.ImageRef{}, 0, false, nil
	}
	r, err := c.cache.Get(page)
	if err != nil {
		return layout.ImageRef{}, 0, false, err
	}

	best := cands[0]
	darkest := r.Brightness(best.BBox)
	for _, cand := range cands[1:] {
		if b := r.Brightness(cand.BBox); b < darkest {
			best, darkest = cand, b
		}
	}
	if darkest > c.settings.BrightnessThreshold {
		return layout.ImageRef{}, darkest, false, nil
	}
	return best, darkest, true, nil
}
