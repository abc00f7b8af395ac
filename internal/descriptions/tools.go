package descriptions

import "sort"

// Tool descriptions with practical examples and use cases

const (
	QuoteExtractFileDescription = `Extract the header fields, ship-to address and line items from one vendor quote PDF.

**When to use:** Need the structured contents of a single quote: quote number, date, customer number, salesperson, delivery address and the priced item table.

**Examples:**
• Check a quote before entry: "Extract QT000171.pdf and list its line items"
• Find the delivery address: "What is the ship-to address on Alcorn quote 172.pdf?"

**Output:** JSON with the quote fields, the table extraction mode (coordinate, text or none) and the archival file name derived from the quote number. Fields that cannot be found are empty strings.

**Notes:** Paths are resolved inside the configured quote directory; relative paths are taken from there.`

	QuoteExportDirectoryDescription = `Extract every quote PDF in a directory and write one spreadsheet row per line item.

**When to use:** Bulk entry of quotes into a CRM or ERP import sheet.

**Examples:**
• Monthly import: "Export all quotes in incoming/ to quotes.xlsx"
• Custom columns: "Export incoming/ using template.xlsx as the column layout"

**Common workflows:**
1. Drop quotes in a folder → quote_export_directory → import the workbook
2. Review failures in the summary → fix or re-scan those PDFs → export again

**Notes:** Documents that cannot be read are listed as failures and skipped; the rest of the run continues. Output and schema paths must lie inside the configured directory.`

	QuoteServerInfoDescription = `Show server configuration, the quote directory and the available tools.

**When to use:** First call in a session, or to check which directory and column schema the server uses.`
)

// ToolDescriptions maps tool names to their descriptions
var ToolDescriptions = map[string]string{
	"quote_extract_file":     QuoteExtractFileDescription,
	"quote_export_directory": QuoteExportDirectoryDescription,
	"quote_server_info":      QuoteServerInfoDescription,
}

// GetToolDescription returns the description for a tool
func GetToolDescription(toolName string) string {
	if desc, exists := ToolDescriptions[toolName]; exists {
		return desc
	}
	return "Tool description not available"
}

// GetAllToolNames returns every tool name in sorted order
func GetAllToolNames() []string {
	names := make([]string, 0, len(ToolDescriptions))
	for name := range ToolDescriptions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Summary returns the first line of a tool's description.
func Summary(toolName string) string {
	desc := GetToolDescription(toolName)
	for i, r := range desc {
		if r == '\n' {
			return desc[:i]
		}
	}
	return desc
}
