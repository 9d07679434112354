package source

import (
	"encoding/csv"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"evodash/internal"

	"github.com/xuri/excelize/v2"
)

// Format identifies a delimited or workbook payload.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// RawRow is one source row keyed by trimmed header name.
type RawRow map[string]string

// Table is a parsed source: headers in file order plus data rows.
type Table struct {
	Headers []string
	Rows    []RawRow
}

// FormatFor picks a format from the extension of a path or URL path,
// defaulting to CSV.
func FormatFor(name string) Format {
	if i := strings.IndexAny(name, "?#"); i >= 0 {
		name = name[:i]
	}
	switch strings.ToLower(path.Ext(name)) {
	case ".xlsx", ".xlsm":
		return FormatXLSX
	default:
		return FormatCSV
	}
}

// ReadTable parses r as the given format.
func ReadTable(r io.Reader, format Format) (*Table, error) {
	switch format {
	case FormatCSV:
		return readCSV(r)
	case FormatXLSX:
		return readXLSX(r)
	default:
		return nil, fmt.Errorf("unsupported file type: %s", format)
	}
}

// readXLSX reads the first worksheet, preferring Sheet1 when present.
func readXLSX(r io.Reader) (*Table, error) {
	startTime := time.Now()
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("Excel workbook has no sheets")
	}
	sheet := sheets[0]
	for _, s := range sheets {
		if s == "Sheet1" {
			sheet = s
			break
		}
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", sheet, err)
	}
	internal.DefaultLogger.With("source").Debug("%s read in %.2fms (%d rows)",
		sheet, float64(time.Since(startTime).Nanoseconds())/1e6, len(rows))

	return processRows(rows, FormatXLSX)
}

// readCSV reads comma-delimited data. Ragged rows are tolerated; cells
// beyond the header width are dropped.
func readCSV(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	readStart := time.Now()
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV data: %w", err)
	}
	internal.DefaultLogger.With("source").Debug("CSV read in %.2fms (%d rows)",
		float64(time.Since(readStart).Nanoseconds())/1e6, len(rows))

	return processRows(rows, FormatCSV)
}

// processRows converts raw string rows into a Table
func processRows(rows [][]string, format Format) (*Table, error) {
	if len(rows) < 2 {
		return nil, fmt.Errorf("%s data must have at least a header row and one data row", strings.ToUpper(string(format)))
	}

	headerRow := rows[0]
	headers := make([]string, len(headerRow))
	for i, header := range headerRow {
		if i == 0 {
			header = strings.TrimPrefix(header, "\ufeff")
		}
		headers[i] = strings.TrimSpace(header)
	}

	dataRows := make([]RawRow, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if isBlank(row) {
			continue
		}
		rowData := make(RawRow, len(headers))
		for j, cell := range row {
			if j < len(headers) {
				rowData[headers[j]] = strings.TrimSpace(cell)
			}
		}
		dataRows = append(dataRows, rowData)
	}
	if len(dataRows) == 0 {
		return nil, fmt.Errorf("%s data has no non-empty rows", strings.ToUpper(string(format)))
	}

	return &Table{
		Headers: headers,
		Rows:    dataRows,
	}, nil
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
