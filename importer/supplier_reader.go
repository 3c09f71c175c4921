package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/xuri/excelize/v2"
)

// autoDetectRe matches headers that look like a supplier-name column.
var autoDetectRe = regexp.MustCompile(`(?i)supplier|vendor|name`)

// ColumnSpec selects which column holds the supplier names. Resolution
// order: named header (exact, then case-insensitive), explicit index,
// auto-detection against the header row, column 0.
type ColumnSpec struct {
	// Header names the column. Takes precedence when non-empty; a missing
	// named column is an error.
	Header string
	// Index is a zero-based column index, used when Header is empty and
	// Index >= 0.
	Index int
}

// AutoDetect returns a spec that resolves the column from the header row.
func AutoDetect() ColumnSpec { return ColumnSpec{Index: -1} }

// resolveColumn maps a spec onto the header row. The first row is always
// treated as a header and is not returned as data.
func resolveColumn(headers []string, spec ColumnSpec) (int, error) {
	if spec.Header != "" {
		for i, h := range headers {
			if strings.TrimSpace(h) == spec.Header {
				return i, nil
			}
		}
		for i, h := range headers {
			if strings.EqualFold(strings.TrimSpace(h), spec.Header) {
				return i, nil
			}
		}
		return 0, fmt.Errorf("column %q not found in header %v", spec.Header, headers)
	}

	if spec.Index >= 0 {
		return spec.Index, nil
	}

	for i, h := range headers {
		if autoDetectRe.MatchString(h) {
			slog.Debug("auto-detected supplier column", "component", "importer", "column", i, "header", h)
			return i, nil
		}
	}
	return 0, nil
}

// ReadNames reads supplier names from CSV data. Rows shorter than the
// resolved column yield an empty name so row positions are preserved for
// the pipeline's per-row results.
func ReadNames(r io.Reader, spec ColumnSpec) ([]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("csv file is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}

	col, err := resolveColumn(header, spec)
	if err != nil {
		return nil, err
	}

	var names []string
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv row %d: %w", len(names)+2, err)
		}
		if col < len(row) {
			names = append(names, row[col])
		} else {
			names = append(names, "")
		}
	}
	return names, nil
}

// ReadNamesExcel reads supplier names from the first sheet of an xlsx
// workbook, with the same column resolution as ReadNames.
func ReadNamesExcel(path string, spec ColumnSpec) ([]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("no sheets found in Excel file")
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("excel file is empty")
	}

	col, err := resolveColumn(rows[0], spec)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if col < len(row) {
			names = append(names, row[col])
		} else {
			names = append(names, "")
		}
	}
	return names, nil
}

// ReadNamesFile dispatches on the file extension: .xlsx/.xlsm go through
// excelize, everything else is parsed as CSV.
func ReadNamesFile(path string, spec ColumnSpec) ([]string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return ReadNamesExcel(path, spec)
	default:
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open file: %w", err)
		}
		defer f.Close()
		return ReadNames(f, spec)
	}
}
