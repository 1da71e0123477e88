package importer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	pdferrors "github.com/a3tai/cbs-offer-importer/internal/pdf/errors"
)

func TestFormatSummary(t *testing.T) {
	price := 450000.0
	errs := pdferrors.NewErrorCollection()
	errs.Add(pdferrors.NewPDFError(pdferrors.ErrorTypeInvalidFile, "unreadable contract").WithFile("/offers/b.pdf"))

	out := FormatSummary(&ImportResult{
		RunID:  "run-1",
		Output: "/offers/comparison_filled.xlsx",
		Files:  3,
		Offers: []OfferSummary{
			{File: "a.pdf", Column: 3, Offer: 1, Buyer: "Alice", Price: &price},
			{File: "c.pdf", Column: 4, Offer: 2},
		},
		Errors:   errs,
		Duration: 1500 * time.Millisecond,
	})

	assert.Contains(t, out, "[1] a.pdf ... OK  -  Alice  /  $450,000\n")
	assert.Contains(t, out, "[2] c.pdf ... OK  -  ?  /  ?\n")
	assert.Contains(t, out, "Saved -> /offers/comparison_filled.xlsx")
	assert.Contains(t, out, "1 file(s) had errors:\n  b.pdf: unreadable contract\n")
	assert.Contains(t, out, "2 of 3 offer(s) imported in 1.5s (run run-1)")
}

func TestFormatSummaryNoErrors(t *testing.T) {
	out := FormatSummary(&ImportResult{Output: "out.xlsx", Errors: pdferrors.NewErrorCollection()})
	assert.NotContains(t, out, "had errors")
}
