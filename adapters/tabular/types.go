package tabular

// RawRowData represents a row of raw cell data keyed by column header
type RawRowData map[string]string

// Table represents a decoded upload before column selection
type Table struct {
	Headers []string     // Column headers in file order
	Rows    []RawRowData // Data rows
	Format  Format       // Which decoder produced the table
}

// Format identifies the decoder used for an upload
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)
