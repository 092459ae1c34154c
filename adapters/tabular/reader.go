package tabular

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"hierviz/domain/core"
	"hierviz/domain/hierarchy"

	"github.com/gabriel-vasile/mimetype"
	"github.com/xuri/excelize/v2"
)

const (
	xlsxMIME = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	zipMIME  = "application/zip"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Reader decodes uploaded CSV (or single-sheet XLSX) bytes into hierarchy rows
type Reader struct {
	config ReaderConfig
	nulls  map[string]struct{}
}

// NewReader creates a reader with the given configuration
func NewReader(config ReaderConfig) *Reader {
	nulls := make(map[string]struct{}, len(config.NullValues))
	for _, v := range config.NullValues {
		nulls[v] = struct{}{}
	}
	return &Reader{config: config, nulls: nulls}
}

// Parse decodes raw upload bytes and selects the Segment and parent columns.
// Every failure wraps core.ErrParse.
func (r *Reader) Parse(raw []byte) ([]hierarchy.Row, error) {
	table, err := r.ReadTable(raw)
	if err != nil {
		return nil, err
	}
	return r.selectRows(table)
}

// ReadTable decodes raw bytes into a header plus keyed rows without selecting columns
func (r *Reader) ReadTable(raw []byte) (*Table, error) {
	if r.config.MaxBytes > 0 && int64(len(raw)) > r.config.MaxBytes {
		return nil, core.NewTooLargeError(int64(len(raw)), r.config.MaxBytes)
	}

	if DetectFormat(raw) == FormatXLSX {
		return r.readExcelData(raw)
	}
	return r.readCSVData(raw)
}

// DetectFormat sniffs the upload content; anything that is not a zip
// container (XLSX) is treated as CSV
func DetectFormat(raw []byte) Format {
	mtype := mimetype.Detect(raw)
	if mtype.Is(xlsxMIME) || mtype.Is(zipMIME) {
		return FormatXLSX
	}
	return FormatCSV
}

// readCSVData reads CSV data into structured format
func (r *Reader) readCSVData(raw []byte) (*Table, error) {
	if !utf8.Valid(raw) {
		return nil, core.ErrInvalidEncoding
	}
	raw = bytes.TrimPrefix(raw, utf8BOM)

	rows, err := readCSVRecords(raw, false)
	// A stray quote inside an unquoted cell (5" pipe) is kept as text. Lazy
	// mode is only entered for that case since it also swallows a quoted
	// field left open at end of input.
	if errors.Is(err, csv.ErrBareQuote) {
		rows, err = readCSVRecords(raw, true)
	}
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return nil, csvError(pe)
	}
	if err != nil {
		return nil, err
	}

	return r.processRows(rows, FormatCSV), nil
}

// readCSVRecords returns the header followed by every record. Reader errors
// come back as *csv.ParseError.
func readCSVRecords(raw []byte, lazyQuotes bool) ([][]string, error) {
	reader := csv.NewReader(bytes.NewReader(raw))
	// Short rows are padded; long rows are rejected below with a line number.
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = lazyQuotes

	header, err := reader.Read()
	if err == io.EOF {
		return nil, core.ErrEmptyInput
	}
	if err != nil {
		return nil, err
	}

	rows := [][]string{header}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(record) > len(header) {
			line, _ := reader.FieldPos(0)
			return nil, core.NewMalformedCSVError(line,
				fmt.Errorf("expected %d fields, saw %d", len(header), len(record)))
		}
		rows = append(rows, record)
	}
	return rows, nil
}

// readExcelData reads the first sheet of an XLSX workbook
func (r *Reader) readExcelData(raw []byte) (*Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrUnreadableSheet, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", core.ErrUnreadableSheet)
	}

	sheetRows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read %s: %v", core.ErrUnreadableSheet, sheets[0], err)
	}

	// Blank spreadsheet rows behave like blank CSV lines.
	rows := make([][]string, 0, len(sheetRows))
	for _, row := range sheetRows {
		if len(row) > 0 {
			rows = append(rows, row)
		}
	}
	if len(rows) == 0 {
		return nil, core.ErrEmptyInput
	}

	for i, cell := range rows[0] {
		if !utf8.ValidString(cell) {
			return nil, fmt.Errorf("%w (header column %d)", core.ErrInvalidEncoding, i+1)
		}
	}

	return r.processRows(rows, FormatXLSX), nil
}

// processRows converts raw string rows into Table format. Cells beyond the
// header width are dropped; the first occurrence of a repeated header wins.
func (r *Reader) processRows(rows [][]string, format Format) *Table {
	headers := make([]string, len(rows[0]))
	copy(headers, rows[0])

	first := make(map[string]int, len(headers))
	for i, h := range headers {
		if _, seen := first[h]; !seen {
			first[h] = i
		}
	}

	dataRows := make([]RawRowData, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rowData := make(RawRowData, len(first))
		for header, j := range first {
			if j < len(row) {
				rowData[header] = r.normalize(row[j])
			} else {
				rowData[header] = ""
			}
		}
		dataRows = append(dataRows, rowData)
	}

	return &Table{
		Headers: headers,
		Rows:    dataRows,
		Format:  format,
	}
}

func (r *Reader) normalize(cell string) string {
	if _, isNull := r.nulls[cell]; isNull {
		return ""
	}
	return cell
}

// selectRows keeps only the Segment and parent columns, in row order
func (r *Reader) selectRows(table *Table) ([]hierarchy.Row, error) {
	for _, required := range hierarchy.Columns() {
		if !hasHeader(table.Headers, required) {
			return nil, core.NewMissingColumnError(required)
		}
	}

	out := make([]hierarchy.Row, 0, len(table.Rows))
	for _, row := range table.Rows {
		out = append(out, hierarchy.Row{
			Segment: row[hierarchy.ColumnSegment],
			Parent:  row[hierarchy.ColumnParent],
		})
	}
	return out, nil
}

func hasHeader(headers []string, name string) bool {
	for _, h := range headers {
		if h == name {
			return true
		}
	}
	return false
}

func csvError(pe *csv.ParseError) error {
	return core.NewMalformedCSVError(pe.StartLine, pe.Err)
}
