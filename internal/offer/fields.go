package offer

import "fmt"

// Field identifies an output field by its spreadsheet row.
type Field int

const (
	FieldOfferHeader      Field = 2
	FieldBuyer            Field = 3
	FieldAgent            Field = 4
	FieldPrice            Field = 6
	FieldConcession       Field = 7
	FieldEarnest          Field = 11
	FieldLoanAmount       Field = 12
	FieldLoanType         Field = 15
	FieldLender           Field = 16
	FieldLenderLetter     Field = 17
	FieldTitleInsurance   Field = 19
	FieldExtendedCoverage Field = 21
	FieldClosingServices  Field = 23
	FieldRecordingCharges Field = 25
	FieldReserves         Field = 27
	FieldOtherFees        Field = 29
	FieldLocalTax         Field = 31
	FieldSalesTax         Field = 33
	FieldPrivateTransfer  Field = 35
	FieldWaterTransfer    Field = 37
	FieldUtilityTransfer  Field = 39
	FieldAssociationFees  Field = 41
	FieldCommission       Field = 43
	FieldNetEscalation    Field = 47
	FieldInclusions       Field = 85
	FieldExclusions       Field = 86
	FieldProvisions       Field = 88
)

// Row returns the spreadsheet row of f.
func (f Field) Row() int {
	return int(f)
}

var fieldNames = map[Field]string{
	FieldOfferHeader:      "offer_header",
	FieldBuyer:            "buyer",
	FieldAgent:            "agent",
	FieldPrice:            "price",
	FieldConcession:       "seller_concession",
	FieldEarnest:          "earnest_money",
	FieldLoanAmount:       "loan_amount",
	FieldLoanType:         "loan_type",
	FieldLender:           "lender",
	FieldLenderLetter:     "lender_letter",
	FieldTitleInsurance:   "title_insurance",
	FieldExtendedCoverage: "extended_coverage",
	FieldClosingServices:  "closing_services",
	FieldRecordingCharges: "recording_charges",
	FieldReserves:         "reserves",
	FieldOtherFees:        "other_fees",
	FieldLocalTax:         "local_transfer_tax",
	FieldSalesTax:         "sales_tax",
	FieldPrivateTransfer:  "private_transfer_fee",
	FieldWaterTransfer:    "water_transfer_fee",
	FieldUtilityTransfer:  "utility_transfer_fee",
	FieldAssociationFees:  "association_assessments",
	FieldCommission:       "commission",
	FieldNetEscalation:    "net_escalation",
	FieldInclusions:       "inclusions",
	FieldExclusions:       "exclusions",
	FieldProvisions:       "additional_provisions",
}

// String returns the snake_case name of f, or deadline_<item> for rows of
// the deadline table.
func (f Field) String() string {
	if name, ok := fieldNames[f]; ok {
		return name
	}
	for item, row := range DeadlineRows {
		if row == f {
			return fmt.Sprintf("deadline_%d", item)
		}
	}
	return fmt.Sprintf("row_%d", int(f))
}

// DeadlineRows maps deadline table items to their rows. Items 16-21 and
// 28-29 have no row.
var DeadlineRows = buildDeadlineRows()

func buildDeadlineRows() map[int]Field {
	rows := make(map[int]Field)
	spans := []struct{ first, last, row int }{
		{1, 15, 49},
		{22, 27, 64},
		{30, 43, 70},
	}
	for _, s := range spans {
		for item := s.first; item <= s.last; item++ {
			rows[item] = Field(s.row + item - s.first)
		}
	}
	return rows
}

// SkipRows are rows the extractor never writes.
var SkipRows = map[int]bool{
	8: true, 9: true, 10: true, 13: true, 14: true, 20: true, 22: true,
	24: true, 26: true, 28: true, 30: true, 32: true, 34: true, 36: true,
	38: true, 40: true, 42: true, 44: true, 45: true, 46: true, 87: true,
	89: true,
}

// FeeSections lists the Buyer / Seller option sections and their fields.
var FeeSections = []struct {
	Section string
	Field   Field
}{
	{"15.2.", FieldClosingServices},
	{"15.3.2.", FieldRecordingCharges},
	{"15.3.3.", FieldReserves},
	{"15.3.4.", FieldOtherFees},
	{"15.4.", FieldLocalTax},
	{"15.5.", FieldSalesTax},
	{"15.6.", FieldPrivateTransfer},
	{"15.7.", FieldWaterTransfer},
	{"15.8.", FieldUtilityTransfer},
}
