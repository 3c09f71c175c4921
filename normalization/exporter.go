package normalization

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ExportView selects which projection of the results to write.
type ExportView string

const (
	ViewFull     ExportView = "full"
	ViewMapping  ExportView = "mapping"
	ViewClusters ExportView = "clusters"
)

// ExportFormat is the serialization format.
type ExportFormat string

const (
	FormatCSV   ExportFormat = "csv"
	FormatExcel ExportFormat = "excel"
)

var (
	fullHeaders = []string{
		"Original Name", "Normalized Name", "Individual",
		"Cluster", "Confidence", "Method", "Row Count",
	}
	mappingHeaders  = []string{"Original Name", "Normalized Name", "Individual"}
	clustersHeaders = []string{
		"Canonical Name", "Individual", "Variant Count", "Variants", "Total Rows",
	}
)

// Exporter writes normalization results in the three result views.
type Exporter struct{}

// NewExporter creates a new exporter.
func NewExporter() *Exporter {
	return &Exporter{}
}

// WriteCSV streams the chosen view as CSV.
func (e *Exporter) WriteCSV(w io.Writer, view ExportView, results []NormalizationResult) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	headers, rows, err := e.tabulate(view, results)
	if err != nil {
		return err
	}

	if err := writer.Write(headers); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}
	for _, row := range rows {
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write record: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteExcel streams the chosen view as a styled XLSX sheet.
func (e *Exporter) WriteExcel(w io.Writer, view ExportView, results []NormalizationResult) error {
	headers, rows, err := e.tabulate(view, results)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Suppliers"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	f.DeleteSheet("Sheet1")

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, header)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	for rowIdx, row := range rows {
		for colIdx, value := range row {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	for i := range headers {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheetName, col, col, 22)
	}

	f.SetActiveSheet(index)

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write Excel file: %w", err)
	}
	return nil
}

// ExportFile writes the chosen view and format to a file path.
func (e *Exporter) ExportFile(path string, format ExportFormat, view ExportView, results []NormalizationResult) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	switch format {
	case FormatExcel:
		return e.WriteExcel(file, view, results)
	case FormatCSV:
		return e.WriteCSV(file, view, results)
	default:
		return fmt.Errorf("unknown export format %q", format)
	}
}

func (e *Exporter) tabulate(view ExportView, results []NormalizationResult) ([]string, [][]string, error) {
	switch view {
	case ViewFull:
		rows := make([][]string, 0, len(results))
		for _, r := range results {
			rows = append(rows, []string{
				r.Original, r.Normalized, yesNo(r.Individual),
				r.Cluster, r.Confidence, r.Method, strconv.Itoa(r.Count),
			})
		}
		return fullHeaders, rows, nil

	case ViewMapping:
		rows := make([][]string, 0, len(results))
		for _, r := range results {
			rows = append(rows, []string{r.Original, r.Normalized, yesNo(r.Individual)})
		}
		return mappingHeaders, rows, nil

	case ViewClusters:
		return clustersHeaders, clusterRows(results), nil

	default:
		return nil, nil, fmt.Errorf("unknown export view %q", view)
	}
}

// clusterRows summarizes clusters with at least two distinct variants,
// first-seen order. Results are per input row, so duplicate rows of the
// same original collapse into one variant and each row counts once toward
// the cluster total.
func clusterRows(results []NormalizationResult) [][]string {
	type clusterAgg struct {
		variants   []string
		seen       map[string]bool
		rows       int
		individual bool
	}

	byCanonical := make(map[string]*clusterAgg)
	var order []string
	for _, r := range results {
		agg, ok := byCanonical[r.Normalized]
		if !ok {
			agg = &clusterAgg{seen: make(map[string]bool)}
			byCanonical[r.Normalized] = agg
			order = append(order, r.Normalized)
		}
		agg.rows++
		agg.individual = agg.individual || r.Individual
		if !agg.seen[r.Original] {
			agg.seen[r.Original] = true
			agg.variants = append(agg.variants, r.Original)
		}
	}

	var rows [][]string
	for _, canonical := range order {
		agg := byCanonical[canonical]
		if len(agg.variants) <= 1 {
			continue
		}

		rows = append(rows, []string{
			canonical,
			yesNo(agg.individual),
			strconv.Itoa(len(agg.variants)),
			strings.Join(agg.variants, " | "),
			strconv.Itoa(agg.rows),
		})
	}
	return rows
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
