package offer

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// contractDoc builds a two page offer with a financed FHA loan, Seller paying
// recording charges and Buyer paying association assessments.
func contractDoc() *fakeDoc {
	doc := newFakeDoc()
	doc.page().lines(40, 760,
		"CONTRACT TO BUY AND SELL REAL ESTATE",
		"Jane Agent",
		"2.1. Buyer. John Q. Public (Buyer), will take title",
		"2.5.3. Other Inclusions. The following items are included in the Purchase Price:",
		"Washer, dryer and",
		"garage shelving",
		"If the box is checked, Buyer and Seller have concurrently entered into a separate agreement",
		"2.6. Exclusions. The following items are excluded (Exclusions):",
		"Hot tub",
		"2.7. Water Rights.",
		"Item No. Reference Event Date or Deadline",
		"1 § 3.1. Alternative Earnest Money Deadline n/a",
		"5 § 4.5. Loan Application Deadline March 3, 2025 Monday",
		"16 § 10.4. Inspection Objection Deadline April 1, 2025",
		"44 § 99. Bogus Deadline May 1, 2025",
		"4. PURCHASE PRICE AND TERMS.",
		"4.1. Price and Terms. The Purchase Price set forth below shall be payable in U.S. Dollars",
		"Item No. Reference Item Amount Amount",
		"1 § 4.1. Purchase Price $ 450,000.00",
		"2 § 4.3. Earnest Money $ 5,000.00",
		"3 § 4.5. New Loan $ 360,000.00",
		"Seller will credit to Buyer $2,500.00 (Seller Concession).",
		"The loan is FHA Insured.",
	)

	p := doc.page().feeSection("15.3.2.", "Record Change Fee.", 700, "Seller")
	p.lines(40, 600,
		"29.1. 2.8% of the Purchase Price",
		"30. ADDITIONAL PROVISIONS. Not approved by the Colorado Real Estate Commission:",
		"Seller to leave all window coverings.",
		"31. OTHER DOCUMENTS.",
	)
	p.text("16.2. Association Assessments.", 72, 450).
		box("assoc-buyer", 100, 420, 0).text("Buyer", 112, 420).
		box("assoc-seller", 200, 420, 255).text("Seller", 212, 420).
		text("17. POSSESSION.", 72, 380)
	return doc
}

func value(t *testing.T, r Record, f Field) any {
	t.Helper()
	v, ok := r.Get(f)
	require.True(t, ok, "field %s missing", f)
	return v.Interface()
}

func TestExtractContract(t *testing.T) {
	doc := contractDoc()
	r, err := NewExtractor(DefaultSettings(), nil).Extract(doc)
	require.NoError(t, err)

	assert.Equal(t, "John Q. Public", value(t, r, FieldBuyer))
	assert.Equal(t, "Jane Agent", value(t, r, FieldAgent))
	assert.Equal(t, 450000.0, value(t, r, FieldPrice))
	assert.Equal(t, 2500.0, value(t, r, FieldConcession))
	assert.Equal(t, 5000.0, value(t, r, FieldEarnest))
	assert.Equal(t, 360000.0, value(t, r, FieldLoanAmount))
	assert.Equal(t, "FHA", value(t, r, FieldLoanType))
	assert.Nil(t, value(t, r, FieldLender))
	assert.Nil(t, value(t, r, FieldLenderLetter))

	assert.Equal(t, "Seller Pays", value(t, r, FieldRecordingCharges))
	assert.Equal(t, "n/a", value(t, r, FieldClosingServices))
	assert.Equal(t, "n/a", value(t, r, FieldTitleInsurance))
	assert.Equal(t, "n/a", value(t, r, FieldExtendedCoverage))
	assert.Equal(t, "Buyer Pays", value(t, r, FieldAssociationFees))
	assert.Equal(t, "n/a", value(t, r, FieldNetEscalation))
	assert.InDelta(t, 0.028, value(t, r, FieldCommission), 1e-12)

	assert.Equal(t, "Washer, dryer and garage shelving", value(t, r, FieldInclusions))
	assert.Equal(t, "Hot tub", value(t, r, FieldExclusions))
	assert.Equal(t, "Seller to leave all window coverings.", value(t, r, FieldProvisions))

	assert.Equal(t, "n/a", value(t, r, DeadlineRows[1]))
	assert.Equal(t, "March 3, 2025", value(t, r, DeadlineRows[5]))
	assert.Equal(t, "n/a", value(t, r, DeadlineRows[43]))
	assert.Equal(t, 61, r.Len())

	// Only the page holding checkbox candidates is rendered, once.
	assert.Equal(t, 1, doc.renders)
}

func TestExtractIsDeterministic(t *testing.T) {
	e := NewExtractor(DefaultSettings(), nil)
	first, err := e.Extract(contractDoc())
	require.NoError(t, err)
	second, err := e.Extract(contractDoc())
	require.NoError(t, err)

	assert.Equal(t, first.Rows(), second.Rows())
}

func TestExtractCashOffer(t *testing.T) {
	doc := newFakeDoc()
	doc.page().lines(40, 760,
		"CONTRACT TO BUY AND SELL REAL ESTATE",
		"Sam Agent",
		"4.1. Price and Terms.",
		"1 § 4.1. Purchase Price $ 300,000.00",
		"3 § 4.5. New Loan. (Omitted as inapplicable)",
	)

	r, err := NewExtractor(DefaultSettings(), nil).Extract(doc)
	require.NoError(t, err)

	assert.Equal(t, "Cash", value(t, r, FieldLoanType))
	assert.Equal(t, 0.0, value(t, r, FieldLoanAmount))
	assert.Equal(t, "n/a", value(t, r, FieldLender))
	assert.Equal(t, "n/a", value(t, r, FieldLenderLetter))
	assert.Nil(t, value(t, r, FieldEarnest))
	assert.Equal(t, "", value(t, r, FieldInclusions))
	assert.Equal(t, "n/a", value(t, r, FieldExclusions))
	assert.Equal(t, 0, doc.renders)
}

func TestExtractEmptyDocument(t *testing.T) {
	r, err := NewExtractor(DefaultSettings(), nil).Extract(newFakeDoc())
	require.NoError(t, err)

	assert.Equal(t, "", value(t, r, FieldAgent))
	assert.Nil(t, value(t, r, FieldPrice))
	assert.Nil(t, value(t, r, FieldLoanAmount))
	assert.Equal(t, "Cash", value(t, r, FieldLoanType))
}

func TestDiagnose(t *testing.T) {
	diags, err := NewExtractor(DefaultSettings(), nil).Diagnose(contractDoc())
	require.NoError(t, err)
	require.Len(t, diags, len(Hints()))

	bySection := make(map[string]Diagnosis, len(diags))
	for _, d := range diags {
		bySection[d.Section] = d
	}
	assert.Equal(t, SellerPays, bySection["15.3.2."].Choice)
	assert.Equal(t, 2, bySection["15.3.2."].Page)
	assert.Equal(t, BuyerPays, bySection["16.2"].Choice)
	assert.Equal(t, NotApplicable, bySection["8.1.1"].Choice)
	assert.Zero(t, bySection["8.1.1"].Page)
}

// TestExtractRealContract runs against a signed CBS1 PDF named by
// CBS_OFFER_FIXTURE.
func TestExtractRealContract(t *testing.T) {
	path := os.Getenv("CBS_OFFER_FIXTURE")
	if path == "" {
		t.Skip("CBS_OFFER_FIXTURE not set")
	}
	if _, err := os.Stat(path); err != nil {
		t.Skipf("contract fixture unavailable: %v", err)
	}

	r, err := NewExtractor(DefaultSettings(), nil).ExtractFile(path)
	require.NoError(t, err)
	assert.NotEmpty(t, value(t, r, FieldBuyer))
	assert.NotEmpty(t, value(t, r, FieldAgent))
	for _, f := range []Field{FieldTitleInsurance, FieldRecordingCharges, FieldAssociationFees} {
		assert.Contains(t, []any{string(BuyerPays), string(SellerPays), string(Split), string(NotApplicable)}, value(t, r, f), f.String())
	}
}
