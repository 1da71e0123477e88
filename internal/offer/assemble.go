package offer

// Extraction gathers the raw outputs of every extractor for one document.
type Extraction struct {
	Buyer      string
	Agent      string
	Price      float64
	HasPrice   bool
	Concession float64
	Earnest    float64
	HasEarnest bool
	LoanAmount float64
	HasLoan    bool
	LoanType   LoanType

	TitleInsurance   Choice
	ExtendedCoverage Choice
	Fees             map[Field]Choice
	AssociationFees  Choice

	Commission    float64
	HasCommission bool

	Inclusions string
	Exclusions string
	Provisions string

	Deadlines map[int]string
}

// Assemble merges x into a record. Every field the form defines is present,
// either with a value or marked absent, except the commission when it was not
// found; skip rows and unmapped deadline items never appear.
func Assemble(x Extraction) Record {
	r := NewRecord()

	r.Set(FieldBuyer, Text(x.Buyer))
	r.Set(FieldAgent, Text(x.Agent))
	r.Set(FieldPrice, optionalNumber(x.Price, x.HasPrice))
	r.Set(FieldConcession, Number(x.Concession))
	r.Set(FieldEarnest, optionalNumber(x.Earnest, x.HasEarnest))
	r.Set(FieldLoanAmount, optionalNumber(x.LoanAmount, x.HasLoan))
	r.Set(FieldLoanType, Text(string(x.LoanType)))

	lender := Absent()
	if x.LoanType == LoanCash {
		lender = ChoiceValue(NotApplicable)
	}
	r.Set(FieldLender, lender)
	r.Set(FieldLenderLetter, lender)

	r.Set(FieldTitleInsurance, choiceOrNA(x.TitleInsurance))
	r.Set(FieldExtendedCoverage, choiceOrNA(x.ExtendedCoverage))
	for _, fee := range FeeSections {
		r.Set(fee.Field, choiceOrNA(x.Fees[fee.Field]))
	}
	r.Set(FieldAssociationFees, choiceOrNA(x.AssociationFees))
	r.Set(FieldNetEscalation, ChoiceValue(NotApplicable))

	if x.HasCommission {
		r.Set(FieldCommission, Number(x.Commission))
	}

	r.Set(FieldInclusions, Text(x.Inclusions))
	r.Set(FieldExclusions, Text(x.Exclusions))
	r.Set(FieldProvisions, Text(x.Provisions))

	for item, row := range DeadlineRows {
		v, ok := x.Deadlines[item]
		if !ok {
			v = string(NotApplicable)
		}
		r.Set(row, Text(v))
	}

	for row := range SkipRows {
		r.Delete(Field(row))
	}
	return r
}

func optionalNumber(v float64, ok bool) Value {
	if !ok {
		return Absent()
	}
	return Number(v)
}

func choiceOrNA(c Choice) Value {
	if c == "" {
		c = NotApplicable
	}
	return ChoiceValue(c)
}
