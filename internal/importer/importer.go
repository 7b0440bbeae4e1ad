// Package importer reads item lists for the container editor from CSV and
// Excel sheets. Delimiters and column order are detected automatically.
package importer

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/eugenenazirov/container-packer/internal/packing"
)

// ErrUnsupportedFormat is returned by Import for unknown file extensions.
var ErrUnsupportedFormat = errors.New("unsupported import format, expected .csv or .xlsx")

// Result holds the outcome of an import. Rows that fail to parse are
// reported in Errors and skipped.
type Result struct {
	Items    []packing.ItemSpec
	Errors   []string
	Warnings []string
}

// ColumnMapping maps column roles to indices; -1 means absent.
type ColumnMapping struct {
	Name     int
	Length   int
	Width    int
	Height   int
	Quantity int
}

var positionalMapping = ColumnMapping{Name: 0, Length: 1, Width: 2, Height: 3, Quantity: 4}

var headerAliases = map[string][]string{
	"name":     {"name", "label", "item", "description", "desc"},
	"length":   {"length", "len", "l", "length (cm)", "length_cm"},
	"width":    {"width", "w", "width (cm)", "width_cm"},
	"height":   {"height", "h", "height (cm)", "height_cm"},
	"quantity": {"quantity", "qty", "count", "pcs", "units"},
}

// Import dispatches on the extension of name.
func Import(name string, r io.Reader) (Result, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv", ".txt":
		return ImportCSV(r), nil
	case ".xlsx", ".xlsm":
		return ImportExcel(r), nil
	default:
		return Result{}, ErrUnsupportedFormat
	}
}

// DetectCSVDelimiter picks the delimiter among comma, semicolon, tab and
// pipe that yields the most consistent multi-column rows.
func DetectCSVDelimiter(data []byte) rune {
	best, bestScore := ',', 0
	for _, delim := range []rune{',', ';', '\t', '|'} {
		reader := csv.NewReader(bytes.NewReader(data))
		reader.Comma = delim
		reader.LazyQuotes = true
		reader.FieldsPerRecord = -1

		records, err := reader.ReadAll()
		if err != nil || len(records) == 0 || len(records[0]) < 2 {
			continue
		}

		width := len(records[0])
		score := 0
		for _, row := range records {
			if len(row) == width {
				score++
			}
		}
		if weighted := score*10 + width; weighted > bestScore {
			best, bestScore = delim, weighted
		}
	}
	return best
}

// DetectColumns matches a header row against known aliases. It returns
// false when the row does not look like a header.
func DetectColumns(row []string) (ColumnMapping, bool) {
	mapping := ColumnMapping{Name: -1, Length: -1, Width: -1, Height: -1, Quantity: -1}
	found := false
	for i, cell := range row {
		normalized := strings.ToLower(strings.TrimSpace(cell))
		for role, aliases := range headerAliases {
			for _, alias := range aliases {
				if normalized != alias {
					continue
				}
				found = true
				switch role {
				case "name":
					setOnce(&mapping.Name, i)
				case "length":
					setOnce(&mapping.Length, i)
				case "width":
					setOnce(&mapping.Width, i)
				case "height":
					setOnce(&mapping.Height, i)
				case "quantity":
					setOnce(&mapping.Quantity, i)
				}
			}
		}
	}
	return mapping, found
}

func setOnce(dst *int, idx int) {
	if *dst == -1 {
		*dst = idx
	}
}

// ImportCSV reads an item list from CSV data.
func ImportCSV(r io.Reader) Result {
	data, err := io.ReadAll(r)
	if err != nil {
		return Result{Errors: []string{fmt.Sprintf("Cannot read CSV: %v", err)}}
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return Result{Errors: []string{"File is empty"}}
	}

	var warnings []string
	delimiter := DetectCSVDelimiter(data)
	if delimiter != ',' {
		name := map[rune]string{';': "semicolon", '\t': "tab", '|': "pipe"}[delimiter]
		warnings = append(warnings, fmt.Sprintf("Detected %s delimiter", name))
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = delimiter
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return Result{Errors: []string{fmt.Sprintf("Cannot read CSV: %v", err)}}
	}
	return importRows(records, "Line", warnings)
}

// ImportExcel reads an item list from the first sheet of an XLSX workbook.
func ImportExcel(r io.Reader) Result {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return Result{Errors: []string{fmt.Sprintf("Cannot open Excel file: %v", err)}}
	}
	defer func() {
		_ = f.Close()
	}()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return Result{Errors: []string{"Excel file has no sheets"}}
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return Result{Errors: []string{fmt.Sprintf("Cannot read Excel data: %v", err)}}
	}
	return importRows(rows, "Row", nil)
}

func importRows(rows [][]string, rowPrefix string, warnings []string) Result {
	result := Result{Warnings: warnings}
	if len(rows) == 0 {
		result.Errors = append(result.Errors, "No data rows found")
		return result
	}

	mapping, hasHeader := DetectColumns(rows[0])
	start := 0
	if hasHeader {
		start = 1
		var missing []string
		for _, col := range []struct {
			name string
			idx  int
		}{{"Length", mapping.Length}, {"Width", mapping.Width}, {"Height", mapping.Height}} {
			if col.idx == -1 {
				missing = append(missing, col.name)
			}
		}
		if len(missing) > 0 {
			result.Errors = append(result.Errors, fmt.Sprintf("Required columns not found in header: %s", strings.Join(missing, ", ")))
			return result
		}
	} else {
		mapping = positionalMapping
		if len(rows[0]) > 1 {
			if _, err := parseNumber(rows[0][1]); err != nil {
				start = 1
				result.Warnings = append(result.Warnings, "Unrecognised header row, using positional columns")
			}
		}
	}

	for i := start; i < len(rows); i++ {
		row := rows[i]
		if isEmptyRow(row) {
			continue
		}
		label := fmt.Sprintf("%s %d", rowPrefix, i+1)
		item, err := parseRow(row, mapping, len(result.Items))
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", label, err))
			continue
		}
		result.Items = append(result.Items, item)
	}

	if len(result.Items) == 0 && len(result.Errors) == 0 {
		result.Errors = append(result.Errors, "No data rows found")
	}
	return result
}

func parseRow(row []string, mapping ColumnMapping, count int) (packing.ItemSpec, error) {
	item := packing.ItemSpec{
		Name:     strings.TrimSpace(cell(row, mapping.Name)),
		Quantity: 1,
	}
	if item.Name == "" {
		item.Name = fmt.Sprintf("Item %d", count+1)
	}

	dims := []struct {
		name string
		idx  int
		dst  *float64
	}{
		{"length", mapping.Length, &item.Length},
		{"width", mapping.Width, &item.Width},
		{"height", mapping.Height, &item.Height},
	}
	for _, d := range dims {
		v, err := parseNumber(cell(row, d.idx))
		if err != nil {
			return packing.ItemSpec{}, fmt.Errorf("invalid %s: %w", d.name, err)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
			return packing.ItemSpec{}, fmt.Errorf("%s must be a positive number, got %v", d.name, v)
		}
		*d.dst = v
	}

	if raw := strings.TrimSpace(cell(row, mapping.Quantity)); raw != "" {
		qty, err := strconv.Atoi(raw)
		if err != nil {
			return packing.ItemSpec{}, fmt.Errorf("invalid quantity %q", raw)
		}
		if qty <= 0 {
			return packing.ItemSpec{}, fmt.Errorf("quantity must be positive, got %d", qty)
		}
		item.Quantity = qty
	}
	return item, nil
}

// parseNumber accepts a decimal comma as well as a decimal point.
func parseNumber(raw string) (float64, error) {
	raw = strings.ReplaceAll(strings.TrimSpace(raw), ",", ".")
	if raw == "" {
		return 0, errors.New("missing value")
	}
	return strconv.ParseFloat(raw, 64)
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

func isEmptyRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
