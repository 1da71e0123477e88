package offer

import (
	"strings"

	"github.com/a3tai/cbs-offer-importer/internal/pdf/document"
	pdferrors "github.com/a3tai/cbs-offer-importer/internal/pdf/errors"
	"github.com/a3tai/cbs-offer-importer/internal/pdf/layout"
	"github.com/a3tai/cbs-offer-importer/internal/pdf/raster"
)

// Source is a loaded document the extractor reads from.
type Source interface {
	raster.Renderer
	Pages() []*layout.Page
}

// Opener loads the document at path.
type Opener func(path string) (Source, error)

// OpenDocument opens a PDF with the document package.
func OpenDocument(path string) (Source, error) {
	doc, err := document.Open(path)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// Extractor turns offer documents into records.
type Extractor struct {
	settings Settings
	open     Opener
}

// NewExtractor returns an extractor that opens files with open. A nil open
// selects OpenDocument.
func NewExtractor(settings Settings, open Opener) *Extractor {
	if open == nil {
		open = OpenDocument
	}
	return &Extractor{settings: settings, open: open}
}

// Settings returns the extraction constants in use.
func (e *Extractor) Settings() Settings {
	return e.settings
}

// ExtractFile opens and extracts the document at path. Failures, including
// panics inside the PDF readers, come back as errors tagged with path.
func (e *Extractor) ExtractFile(path string) (Record, error) {
	var rec Record
	err := pdferrors.Guard(path, func() error {
		src, err := e.open(path)
		if err != nil {
			return err
		}
		rec, err = e.Extract(src)
		return err
	})
	if err != nil {
		return Record{}, pdferrors.WrapError(pdferrors.ErrorTypeInvalidFile, err).WithFile(path)
	}
	return rec, nil
}

// Extract reads every field from src. Page rasters are cached for the
// duration of the call, so each page renders at most once.
func (e *Extractor) Extract(src Source) (Record, error) {
	pages := src.Pages()
	text := joinText(pages)

	x := Extraction{
		Buyer:      ParseBuyer(text),
		Concession: ParseConcession(text),
		Inclusions: ParseInclusions(text),
		Exclusions: ParseExclusions(text),
		Provisions: ParseAdditionalProvisions(text),
		Deadlines:  ParseDeadlines(text),
		Fees:       make(map[Field]Choice, len(FeeSections)),
	}
	if len(pages) > 0 {
		x.Agent = ParseAgent(pages[0].Text())
	}
	x.Price, x.HasPrice = ParsePrice(text)
	x.Earnest, x.HasEarnest = ParseEarnest(text)
	x.LoanAmount, x.HasLoan = ParseNewLoan(text)
	x.LoanType = ParseLoanType(text, x.LoanAmount)
	x.Commission, x.HasCommission = ParseCommission(text)

	classifier := NewClassifier(e.settings, raster.NewCache(src, e.settings.Resolution))

	var err error
	if x.TitleInsurance, err = classifier.Resolve(pages, TitleInsuranceHint()); err != nil {
		return Record{}, err
	}
	if x.ExtendedCoverage, err = classifier.Resolve(pages, ExtendedCoverageHint()); err != nil {
		return Record{}, err
	}
	for _, fee := range FeeSections {
		choice, err := classifier.Resolve(pages, FeeHint(fee.Section))
		if err != nil {
			return Record{}, err
		}
		x.Fees[fee.Field] = choice
	}
	if x.AssociationFees, err = classifier.Resolve(pages, AssociationAssessmentsHint()); err != nil {
		return Record{}, err
	}

	return Assemble(x), nil
}

// Hints returns every checkbox section the extractor resolves, in order.
func Hints() []Hint {
	hints := []Hint{TitleInsuranceHint(), ExtendedCoverageHint()}
	for _, fee := range FeeSections {
		hints = append(hints, FeeHint(fee.Section))
	}
	return append(hints, AssociationAssessmentsHint())
}

// Diagnose explains how each checkbox section of src is resolved.
func (e *Extractor) Diagnose(src Source) ([]Diagnosis, error) {
	pages := src.Pages()
	classifier := NewClassifier(e.settings, raster.NewCache(src, e.settings.Resolution))

	var out []Diagnosis
	for _, hint := range Hints() {
		d, err := classifier.Explain(pages, hint)
		if err != nil {
			return out, err
		}
		out = append(out, d)
	}
	return out, nil
}

func joinText(pages []*layout.Page) string {
	texts := make([]string, len(pages))
	for i, p := range pages {
		texts[i] = p.Text()
	}
	return strings.Join(texts, "\n")
}
