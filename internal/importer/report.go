package importer

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.AmericanEnglish)

// FormatSummary renders an import result as the console run report: one OK
// line per written offer, then the failures.
func FormatSummary(res *ImportResult) string {
	var b strings.Builder
	for i, o := range res.Offers {
		fmt.Fprintf(&b, "[%d] %s ... OK  -  %s  /  %s\n", i+1, o.File, orUnknown(o.Buyer), formatPrice(o.Price))
	}
	fmt.Fprintf(&b, "\nSaved -> %s\n", res.Output)

	if res.Errors != nil && len(res.Errors.Errors) > 0 {
		fmt.Fprintf(&b, "\n%d file(s) had errors:\n", len(res.Errors.Errors))
		for _, e := range res.Errors.Errors {
			fmt.Fprintf(&b, "  %s: %s\n", filepath.Base(e.FilePath), e.Message)
		}
	}
	fmt.Fprintf(&b, "\n%d of %d offer(s) imported in %s (run %s)\n",
		len(res.Offers), res.Files, res.Duration.Round(time.Millisecond), res.RunID)
	return b.String()
}

func formatPrice(p *float64) string {
	if p == nil || *p == 0 {
		return "?"
	}
	return printer.Sprintf("$%.0f", *p)
}

func orUnknown(s string) string {
	if s == "" {
		return "?"
	}
	return s
}
