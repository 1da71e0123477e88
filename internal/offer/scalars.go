package offer

import (
	"regexp"
	"strconv"
	"strings"
)

// LoanType is the financing of an offer.
type LoanType string

const (
	LoanCash         LoanType = "Cash"
	LoanFHA          LoanType = "FHA"
	LoanVA           LoanType = "VA"
	LoanConventional LoanType = "Conventional"
)

const (
	termsAnchor      = "4.1."
	termsWindow      = 600
	inclusionsAnchor = "2.5.3."
	inclusionsWindow = 500
	exclusionsAnchor = "2.6."
	exclusionsWindow = 300
	provisionsAnchor = "30."
	provisionsWindow = 2000
)

var (
	purchasePrice = regexp.MustCompile(`§\s*4\.1\.\s+Purchase Price[^\d]+(\d{1,3}(?:,?\d{3})*\.\d{2})`)
	earnestMoney  = regexp.MustCompile(`§\s*4\.3\.\s+Earnest Money[^\d]+(\d{1,3}(?:,?\d{3})*\.\d{2})`)
	newLoan       = regexp.MustCompile(`§\s*4\.5\.\s+New Loan[^\d]+(\d{1,3}(?:,?\d{3})*\.\d{2})`)
	loanOmitted   = regexp.MustCompile(`4\.5\. New Loan\. \(Omitted`)
	fhaInsured    = regexp.MustCompile(`FHA [Ii]nsured`)
	vaGuaranteed  = regexp.MustCompile(`VA [Gg]uaranteed`)
	buyerName     = regexp.MustCompile(`2\.1\.\s+Buyer\.\s+(.+?)\s*\(Buyer\)`)
	concession    = regexp.MustCompile(`credit to Buyer .([^(]+)\(Seller Concession\)`)
	commission    = regexp.MustCompile(`29\.1\.\s+([\d.]+)%\s+of the Purchase Price`)
	inclusions    = regexp.MustCompile(`(?s)included in the Purchase Price:\s*\n(.+?)(?:\n\n|If the box|2\.5\.4)`)
	exclusions    = regexp.MustCompile(`(?s)Exclusions\):\s*\n?(.+?)(?:\n\n|2\.7\.)`)
	provisions    = regexp.MustCompile(`(?s)Colorado Real Estate Commission:\s*\n(.+?)\n31\.`)
)

// ParseBuyer returns the buyer name of section 2.1, or "".
func ParseBuyer(text string) string {
	if m := buyerName.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

// ParseAgent returns the second non-empty line of the first page's text.
func ParseAgent(firstPage string) string {
	n := 0
	for _, line := range strings.Split(firstPage, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if n++; n == 2 {
			return line
		}
	}
	return ""
}

// ParsePrice returns the purchase price of section 4.1.
func ParsePrice(text string) (float64, bool) {
	return termsAmount(text, purchasePrice)
}

// ParseEarnest returns the earnest money of section 4.3.
func ParseEarnest(text string) (float64, bool) {
	return termsAmount(text, earnestMoney)
}

// ParseNewLoan returns the new loan amount of section 4.5. The amount is 0
// when the terms table holds no loan and absent when there is no terms table.
func ParseNewLoan(text string) (float64, bool) {
	window, ok := after(text, termsAnchor, termsWindow)
	if !ok {
		return 0, false
	}
	if v, ok := amount(window, newLoan); ok && v > 0 {
		return v, true
	}
	return 0, true
}

// ParseLoanType classifies the financing. An omitted 4.5 or a zero loan
// amount is a cash offer.
func ParseLoanType(text string, loan float64) LoanType {
	switch {
	case loanOmitted.MatchString(text), loan == 0:
		return LoanCash
	case fhaInsured.MatchString(text):
		return LoanFHA
	case vaGuaranteed.MatchString(text):
		return LoanVA
	default:
		return LoanConventional
	}
}

// ParseConcession returns the seller concession, 0 when missing or N/A.
func ParseConcession(text string) float64 {
	m := concession.FindStringSubmatch(text)
	if m == nil {
		return 0
	}
	raw := strings.NewReplacer(",", "", "$", "").Replace(strings.TrimSpace(m[1]))
	switch strings.ToUpper(raw) {
	case "N/A", "NA", "":
		return 0
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0
	}
	return v
}

// ParseCommission returns the section 29.1 commission as a fraction.
func ParseCommission(text string) (float64, bool) {
	m := commission.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	return v / 100, true
}

// ParseInclusions returns the free-text inclusions of 2.5.3, or "".
func ParseInclusions(text string) string {
	window, ok := after(text, inclusionsAnchor, inclusionsWindow)
	if !ok {
		return ""
	}
	if m := inclusions.FindStringSubmatch(window); m != nil {
		return collapse(m[1])
	}
	return ""
}

// ParseExclusions returns the free-text exclusions of 2.6, or "n/a".
func ParseExclusions(text string) string {
	window, ok := after(text, exclusionsAnchor, exclusionsWindow)
	if !ok {
		return string(NotApplicable)
	}
	m := exclusions.FindStringSubmatch(window)
	if m == nil {
		return string(NotApplicable)
	}
	v := collapse(m[1])
	if v == "" || strings.EqualFold(v, "n/a") {
		return string(NotApplicable)
	}
	return v
}

// ParseAdditionalProvisions returns the section 30 provisions, or "n/a".
func ParseAdditionalProvisions(text string) string {
	window, ok := after(text, provisionsAnchor, provisionsWindow)
	if !ok {
		return string(NotApplicable)
	}
	m := provisions.FindStringSubmatch(window)
	if m == nil {
		return string(NotApplicable)
	}
	raw := strings.TrimSpace(m[1])
	if raw == "" || strings.HasPrefix(raw, "31.") {
		return string(NotApplicable)
	}
	return collapse(raw)
}

func termsAmount(text string, re *regexp.Regexp) (float64, bool) {
	window, ok := after(text, termsAnchor, termsWindow)
	if !ok {
		return 0, false
	}
	return amount(window, re)
}

func amount(window string, re *regexp.Regexp) (float64, bool) {
	m := re.FindStringSubmatch(window)
	if m == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// after returns n runes of text starting at the first occurrence of marker.
func after(text, marker string, n int) (string, bool) {
	idx := strings.Index(text, marker)
	if idx < 0 {
		return "", false
	}
	return runes(text[idx:], n), true
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
