package descriptions

import "sort"

// Tool descriptions with practical examples and use cases

const (
	OfferExtractDescription = `Read every comparison field from one CBS1 offer contract.

**When to use:** Need the buyer, price, loan, fee allocation, deadline and provision fields of a single offer without touching the workbook.

**What it returns:** A JSON object keyed by field name (buyer, price, loan_type, title_insurance, deadline_1, ...) and a second object keyed by workbook row. Fee and insurance fields hold "Buyer Pays", "Seller Pays", "Split 50/50" or "n/a", read from the checked box on the contract page.

**Examples:**
• Preview an offer: "Extract offers/123-main-smith.pdf and show the buyer and price"
• Check a fee: "Who pays the record change fee in offers/jones.pdf?"

**Best practices:** Paths are resolved inside the configured offer directory. Run offer_search_directory first when the file name is not known.`

	OfferImportDescription = `Import every offer PDF in a folder into the comparison workbook.

**When to use:** A folder of signed or draft offers has to be laid side by side in the comparison spreadsheet.

**What it does:** Extracts all PDFs directly inside the folder (sorted by name), copies the template column's formatting, formulas and drop-downs into the next free column for each offer, writes the "OFFER n" header and the extracted values, and saves "<template>_filled.xlsx" unless an output is given. Offers that cannot be read are listed at the end and get no column.

**Examples:**
• "Import offers/ into compare.xlsx"
• "Import offers/ into compare.xlsx and save as compare-final.xlsx"

**Best practices:** Formula rows of the template are never overwritten. Re-running on the filled workbook appends after the existing offers.`

	OfferSearchDirectoryDescription = `List the offer PDFs in a folder.

**When to use:** Find the contracts available for extraction or import, optionally filtered by a name fragment.

**Examples:**
• "Which offers are in the incoming folder?"
• "Find the offer for Smith" (query: smith)

**Best practices:** Set validate to open each file and report the ones that do not parse before running an import.`

	OfferServerInfoDescription = `Show the importer's configuration, available tools and the offers in its directory.

**When to use:** Start of a session, or to check the extraction settings (raster resolution, brightness threshold, worker count) in effect.`
)

// ToolDescriptions maps tool names to their descriptions
var ToolDescriptions = map[string]string{
	"offer_extract":          OfferExtractDescription,
	"offer_import":           OfferImportDescription,
	"offer_search_directory": OfferSearchDirectoryDescription,
	"offer_server_info":      OfferServerInfoDescription,
}

// GetToolDescription returns the description for a tool
func GetToolDescription(toolName string) string {
	if desc, exists := ToolDescriptions[toolName]; exists {
		return desc
	}
	return "Tool description not available"
}

// GetAllToolNames returns the available tool names in alphabetical order
func GetAllToolNames() []string {
	names := make([]string, 0, len(ToolDescriptions))
	for name := range ToolDescriptions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
