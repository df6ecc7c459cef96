package services

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

const materialTemplateSheet = "Materials"

// GenerateMaterialTemplate creates a downloadable .xlsx template for
// importing material items. Required headers are marked with " *".
func GenerateMaterialTemplate() ([]byte, error) {
	fields := MaterialImportFields()

	f := excelize.NewFile()
	defer f.Close()

	sheetName := materialTemplateSheet
	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}

	requiredHeaderStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#1D4ED8"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
		Border:    thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create required header style: %w", err)
	}
	optionalHeaderStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#6B7280"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
		Border:    thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create optional header style: %w", err)
	}

	columns := columnLetters(len(fields))
	for i, field := range fields {
		cell := columns[i] + "1"

		headerText := field.Label
		style := optionalHeaderStyle
		if field.Required {
			headerText += " *"
			style = requiredHeaderStyle
		}
		f.SetCellValue(sheetName, cell, headerText)
		f.SetCellStyle(sheetName, cell, cell, style)

		width := float64(len(field.Label)) * 1.3
		if width < 15 {
			width = 15
		}
		f.SetColWidth(sheetName, columns[i], columns[i], width)
	}

	// Numeric columns only accept non-negative values.
	for i, field := range fields {
		rangeRef := fmt.Sprintf("%s2:%s1048576", columns[i], columns[i])

		var dv *excelize.DataValidation
		switch field.Key {
		case "unit_price":
			dv = excelize.NewDataValidation(true)
			dv.SetRange(0, 1e12, excelize.DataValidationTypeDecimal, excelize.DataValidationOperatorBetween)
		case "quantity":
			dv = excelize.NewDataValidation(true)
			dv.SetRange(0, 1e9, excelize.DataValidationTypeWhole, excelize.DataValidationOperatorBetween)
		default:
			continue
		}
		dv.Sqref = rangeRef
		dv.SetError(excelize.DataValidationErrorStyleStop, field.Label, field.FormatRule)
		if err := f.AddDataValidation(sheetName, dv); err != nil {
			return nil, fmt.Errorf("add %s validation: %w", field.Key, err)
		}
	}

	f.SetPanes(sheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})

	addInstructionsSheet(f, fields)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write excel template: %w", err)
	}
	return buf.Bytes(), nil
}

// addInstructionsSheet creates a hidden sheet with field descriptions.
func addInstructionsSheet(f *excelize.File, fields []ImportField) {
	instSheet := "Instructions"
	f.NewSheet(instSheet)

	titleStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 14},
	})
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E5E7EB"}, Pattern: 1},
	})

	f.SetCellValue(instSheet, "A1", "Material Item Import - Instructions")
	f.SetCellStyle(instSheet, "A1", "A1", titleStyle)

	cols := columnLetters(5)
	for i, h := range []string{"Field Name", "Required?", "Format Rule", "Description", "Example"} {
		cell := cols[i] + "3"
		f.SetCellValue(instSheet, cell, h)
		f.SetCellStyle(instSheet, cell, cell, headerStyle)
	}

	for i, field := range fields {
		row := fmt.Sprintf("%d", i+4)
		reqLabel := "Optional"
		if field.Required {
			reqLabel = "Required"
		}
		f.SetCellValue(instSheet, cols[0]+row, field.Label)
		f.SetCellValue(instSheet, cols[1]+row, reqLabel)
		f.SetCellValue(instSheet, cols[2]+row, field.FormatRule)
		f.SetCellValue(instSheet, cols[3]+row, field.Description)
		f.SetCellValue(instSheet, cols[4]+row, field.ExampleValue)
	}

	for i, w := range []float64{20, 12, 30, 45, 25} {
		f.SetColWidth(instSheet, cols[i], cols[i], w)
	}

	f.SetSheetVisible(instSheet, false)
}

// columnLetters returns Excel column letters for n columns: A, B, ... Z, AA, AB ...
func columnLetters(n int) []string {
	cols := make([]string, n)
	for i := 0; i < n; i++ {
		name, _ := excelize.ColumnNumberToName(i + 1)
		cols[i] = name
	}
	return cols
}
