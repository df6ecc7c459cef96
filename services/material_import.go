package services

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/pocketbase/pocketbase/core"
	"github.com/xuri/excelize/v2"
)

// ImportField describes one column of the material item import template.
type ImportField struct {
	Key          string // internal name, matches the material_items field name
	Label        string // header shown in the workbook
	Description  string // shown on the Instructions sheet
	FormatRule   string
	ExampleValue string
	Required     bool
}

// MaterialImportFields returns the ordered columns of a material item import.
func MaterialImportFields() []ImportField {
	return []ImportField{
		{Key: "line_item", Label: "Line Item", Description: "What is being bought", ExampleValue: "48-port PoE switch", Required: true},
		{Key: "vendor", Label: "Vendor", Description: "Supplier name", ExampleValue: "Northwind Networks"},
		{Key: "category", Label: "Category", Description: "Free-form grouping", ExampleValue: "Network"},
		{Key: "unit_price", Label: "Unit Price", Description: "Price per unit", FormatRule: "Number >= 0", ExampleValue: "2890.00"},
		{Key: "quantity", Label: "Quantity", Description: "Number of units, defaults to 1", FormatRule: "Whole number >= 0", ExampleValue: "2"},
		{Key: "comment", Label: "Comment", Description: "Notes shown in the export", ExampleValue: "Stacked pair"},
	}
}

// ValidationError represents a single field-level error on one row.
type ValidationError struct {
	Row     int    `json:"row"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationResult is returned after parsing and validating an uploaded file.
type ValidationResult struct {
	TotalRows int               `json:"totalRows"`
	ValidRows int               `json:"validRows"`
	ErrorRows int               `json:"errorRows"`
	Errors    []ValidationError `json:"errors"`
	Items     []MaterialItem    `json:"-"`
	FileName  string            `json:"-"`
}

// parseCSV reads a CSV file and returns headers + data rows.
func parseCSV(file io.Reader) ([]string, [][]string, error) {
	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	allRows, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse CSV: %v: %w", err, ErrInvalidInput)
	}
	if len(allRows) < 2 {
		return nil, nil, fmt.Errorf("file must contain a header row and at least one data row: %w", ErrInvalidInput)
	}

	return allRows[0], allRows[1:], nil
}

// parseExcel reads an xlsx file and returns headers + data rows from the first sheet.
func parseExcel(file io.Reader) ([]string, [][]string, error) {
	f, err := excelize.OpenReader(file)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open Excel file: %v: %w", err, ErrInvalidInput)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read sheet: %v: %w", err, ErrInvalidInput)
	}
	if len(rows) < 2 {
		return nil, nil, fmt.Errorf("file must contain a header row and at least one data row: %w", ErrInvalidInput)
	}

	return rows[0], rows[1:], nil
}

// mapHeadersToFields maps uploaded column headers to field keys. Returns one
// key per column ("" when unrecognized) and the unrecognized headers.
func mapHeadersToFields(headers []string, fields []ImportField) ([]string, []string) {
	labelToKey := make(map[string]string, len(fields)*2)
	for _, f := range fields {
		labelToKey[strings.ToLower(f.Label)] = f.Key
		labelToKey[f.Key] = f.Key
	}

	mapped := make([]string, len(headers))
	var unrecognized []string

	for i, h := range headers {
		norm := strings.ToLower(strings.TrimSpace(h))
		// Strip trailing " *" that the template adds for required fields
		norm = strings.TrimSpace(strings.TrimSuffix(norm, " *"))

		if key, ok := labelToKey[norm]; ok {
			mapped[i] = key
		} else {
			unrecognized = append(unrecognized, h)
		}
	}
	return mapped, unrecognized
}

// ValidateMaterialFile parses an uploaded .csv or .xlsx file of material items
// and validates every row. Rows are returned in file order; rows with errors
// are excluded from Items.
func ValidateMaterialFile(file io.Reader, fileName string) (*ValidationResult, error) {
	var headers []string
	var dataRows [][]string
	var err error

	lowerName := strings.ToLower(fileName)
	switch {
	case strings.HasSuffix(lowerName, ".csv"):
		headers, dataRows, err = parseCSV(file)
	case strings.HasSuffix(lowerName, ".xlsx"):
		headers, dataRows, err = parseExcel(file)
	default:
		return nil, fmt.Errorf("unsupported file format %q, must be .csv or .xlsx: %w", fileName, ErrInvalidInput)
	}
	if err != nil {
		return nil, err
	}

	fields := MaterialImportFields()
	columnKeys, _ := mapHeadersToFields(headers, fields)

	found := make(map[string]bool, len(columnKeys))
	for _, k := range columnKeys {
		found[k] = true
	}
	for _, f := range fields {
		if f.Required && !found[f.Key] {
			return nil, fmt.Errorf("missing required column %q: %w", f.Label, ErrInvalidInput)
		}
	}

	result := &ValidationResult{
		TotalRows: len(dataRows),
		FileName:  fileName,
		Items:     make([]MaterialItem, 0, len(dataRows)),
	}

	for rowIdx, row := range dataRows {
		rowNum := rowIdx + 2 // 1-indexed, +1 for header row
		data := make(map[string]string, len(columnKeys))
		for colIdx, key := range columnKeys {
			if key == "" || colIdx >= len(row) {
				continue
			}
			data[key] = strings.TrimSpace(row[colIdx])
		}

		item, rowErrors := materialFromImportRow(rowNum, data)
		if len(rowErrors) > 0 {
			result.Errors = append(result.Errors, rowErrors...)
			result.ErrorRows++
			continue
		}
		result.Items = append(result.Items, item)
	}
	result.ValidRows = len(result.Items)

	return result, nil
}

func materialFromImportRow(rowNum int, data map[string]string) (MaterialItem, []ValidationError) {
	var errs []ValidationError
	item := MaterialItem{
		LineItem: data["line_item"],
		Vendor:   data["vendor"],
		Category: data["category"],
		Comment:  data["comment"],
		Quantity: 1,
	}

	if item.LineItem == "" {
		errs = append(errs, ValidationError{Row: rowNum, Field: "Line Item", Message: "Line Item is required"})
	}

	if v := data["unit_price"]; v != "" {
		price, err := strconv.ParseFloat(strings.ReplaceAll(v, ",", ""), 64)
		if err != nil || price < 0 || math.IsNaN(price) || math.IsInf(price, 0) {
			errs = append(errs, ValidationError{Row: rowNum, Field: "Unit Price", Message: "Unit Price must be a number >= 0"})
		} else {
			item.UnitPrice = price
		}
	}

	if v := data["quantity"]; v != "" {
		qty, err := strconv.Atoi(v)
		if err != nil || qty < 0 {
			errs = append(errs, ValidationError{Row: rowNum, Field: "Quantity", Message: "Quantity must be a whole number >= 0"})
		} else {
			item.Quantity = float64(qty)
		}
	}

	return item, errs
}

// ImportMaterialItems inserts items into the project in one transaction.
// Either every item is saved or none is.
func ImportMaterialItems(app core.App, projectID string, items []MaterialItem) (int, error) {
	if _, err := GetProject(app, projectID); err != nil {
		return 0, err
	}

	err := app.RunInTransaction(func(txApp core.App) error {
		col, err := txApp.FindCollectionByNameOrId("material_items")
		if err != nil {
			return fmt.Errorf("material_items collection not found: %w", err)
		}
		for i, item := range items {
			r := core.NewRecord(col)
			r.Set("project", projectID)
			r.Set("line_item", item.LineItem)
			r.Set("vendor", item.Vendor)
			r.Set("category", item.Category)
			r.Set("unit_price", item.UnitPrice)
			r.Set("quantity", int(item.Quantity))
			r.Set("comment", item.Comment)
			if err := txApp.Save(r); err != nil {
				return fmt.Errorf("import item %d (%q): %w", i+1, item.LineItem, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(items), nil
}

// GenerateErrorReport creates a downloadable .xlsx file from validation errors.
func GenerateErrorReport(errors []ValidationError) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Errors"
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DC2626"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
		Border:    thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	f.SetCellValue(sheet, "A1", "Row #")
	f.SetCellValue(sheet, "B1", "Field")
	f.SetCellValue(sheet, "C1", "Error")
	f.SetCellStyle(sheet, "A1", "C1", headerStyle)
	f.SetColWidth(sheet, "A", "A", 8)
	f.SetColWidth(sheet, "B", "B", 22)
	f.SetColWidth(sheet, "C", "C", 55)

	for i, e := range errors {
		row := strconv.Itoa(i + 2)
		f.SetCellValue(sheet, "A"+row, e.Row)
		f.SetCellValue(sheet, "B"+row, e.Field)
		f.SetCellValue(sheet, "C"+row, sanitizeExcelCell(e.Message))
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write error report: %w", err)
	}
	return buf.Bytes(), nil
}
