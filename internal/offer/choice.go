package offer

import "strings"

// Choice is the dropdown value of a fee-responsibility field.
type Choice string

const (
	BuyerPays     Choice = "Buyer Pays"
	SellerPays    Choice = "Seller Pays"
	Split         Choice = "Split 50/50"
	NotApplicable Choice = "n/a"
)

// Mapper turns the label printed beside a checked box into a Choice.
type Mapper int

const (
	// MapFeeOptions reads the Buyer / Seller / One-Half / N/A option rows of
	// the closing cost sections.
	MapFeeOptions Mapper = iota
	// MapTitleInsurance reads the 8.1.1 / 8.1.2 premium choice.
	MapTitleInsurance
	// MapExtendedCoverage reads the "Will" / "Will Not" choice of 8.1.3.
	MapExtendedCoverage
	// MapBuyerOrSeller accepts only a leading Buyer or Seller.
	MapBuyerOrSeller
)

// Map resolves label. Unrecognized labels map to NotApplicable.
func (m Mapper) Map(label string) Choice {
	switch m {
	case MapTitleInsurance:
		head := prefix(label, 12)
		switch {
		case strings.Contains(label, "8.1.1") || strings.Contains(head, "Seller"):
			return SellerPays
		case strings.Contains(label, "8.1.2") || strings.Contains(head, "Buyer"):
			return BuyerPays
		}
		return NotApplicable
	case MapExtendedCoverage:
		u := strings.ToUpper(strings.TrimSpace(label))
		switch {
		case strings.HasPrefix(u, "WILL NOT"):
			return NotApplicable
		case strings.HasPrefix(u, "WILL"):
			return BuyerPays
		}
		return NotApplicable
	case MapBuyerOrSeller:
		head := prefix(strings.ToUpper(label), 6)
		switch {
		case strings.Contains(head, "BUYER"):
			return BuyerPays
		case strings.Contains(head, "SELLER"):
			return SellerPays
		}
		return NotApplicable
	default:
		return ParseChoice(label)
	}
}

// ParseChoice maps an option label of a closing cost section.
func ParseChoice(label string) Choice {
	u := strings.TrimLeft(strings.ToUpper(label), " \t\n")
	switch {
	case strings.HasPrefix(u, "BUYER"):
		return BuyerPays
	case strings.HasPrefix(u, "SELLER"):
		return SellerPays
	case strings.Contains(u, "ONE-HALF") || strings.HasPrefix(u, "ONE"):
		return Split
	default:
		return NotApplicable
	}
}

// prefix returns the first n runes of s.
func prefix(s string, n int) string {
	r := []rune(s)
	if len(r) > n {
		r = r[:n]
	}
	return string(r)
}
