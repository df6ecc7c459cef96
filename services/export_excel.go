package services

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// ExcelContentType is the MIME type of generated workbooks.
const ExcelContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// RenderOptions tweaks presentation of rendered exports.
type RenderOptions struct {
	CurrencySymbol string
}

// DefaultRenderOptions returns the options used when none are configured.
func DefaultRenderOptions() RenderOptions {
	return RenderOptions{CurrencySymbol: CurrencySymbol}
}

func (o RenderOptions) symbol() string {
	if o.CurrencySymbol == "" {
		return CurrencySymbol
	}
	return o.CurrencySymbol
}

// RenderExcel writes every report section to its own sheet and returns the
// workbook bytes.
func RenderExcel(report Report, opts RenderOptions) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	styles := newExcelStyles(f, opts.symbol())

	for i, section := range report.Sections {
		sheetName := excelSheetName(section.Name, i)
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
				return nil, fmt.Errorf("set sheet name: %w", err)
			}
		} else if _, err := f.NewSheet(sheetName); err != nil {
			return nil, fmt.Errorf("create sheet %q: %w", sheetName, err)
		}

		if err := writeExcelSection(f, styles, sheetName, section); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write excel: %w", err)
	}

	return buf.Bytes(), nil
}

func writeExcelSection(f *excelize.File, styles *excelStyles, sheetName string, section Section) error {
	for i, c := range section.Columns {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return fmt.Errorf("column name %d: %w", i+1, err)
		}
		if err := f.SetColWidth(sheetName, col, col, c.Width); err != nil {
			return fmt.Errorf("set col width %s: %w", col, err)
		}
	}

	for r, row := range section.Rows {
		rowNum := r + 1
		for c, cell := range row.Cells {
			ref, err := excelize.CoordinatesToCellName(c+1, rowNum)
			if err != nil {
				return fmt.Errorf("cell name: %w", err)
			}

			switch v := cell.Value.(type) {
			case nil:
				continue
			case string:
				if err := f.SetCellValue(sheetName, ref, sanitizeExcelCell(v)); err != nil {
					return fmt.Errorf("set %s!%s: %w", sheetName, ref, err)
				}
			default:
				if err := f.SetCellValue(sheetName, ref, v); err != nil {
					return fmt.Errorf("set %s!%s: %w", sheetName, ref, err)
				}
			}

			styleID, err := styles.get(row.Kind, cell.Format)
			if err != nil {
				return err
			}
			if err := f.SetCellStyle(sheetName, ref, ref, styleID); err != nil {
				return fmt.Errorf("style %s!%s: %w", sheetName, ref, err)
			}
		}
	}
	return nil
}

// excelSheetName caps names at Excel's 31 character limit.
func excelSheetName(name string, index int) string {
	if len(name) > 31 {
		name = name[:31]
	}
	if name == "" {
		name = fmt.Sprintf("Sheet%d", index+1)
	}
	return name
}

type excelStyleKey struct {
	kind   RowKind
	format CellFormat
}

// excelStyles lazily creates one workbook style per (row kind, cell format).
type excelStyles struct {
	f        *excelize.File
	currency string
	ids      map[excelStyleKey]int
}

func newExcelStyles(f *excelize.File, symbol string) *excelStyles {
	return &excelStyles{
		f:        f,
		currency: fmt.Sprintf(`"%s"#,##0.00`, symbol),
		ids:      make(map[excelStyleKey]int),
	}
}

func (s *excelStyles) get(kind RowKind, format CellFormat) (int, error) {
	key := excelStyleKey{kind: kind, format: format}
	if id, ok := s.ids[key]; ok {
		return id, nil
	}

	style := &excelize.Style{
		Font: &excelize.Font{Size: 10},
		Alignment: &excelize.Alignment{
			Vertical: "top",
		},
	}

	switch kind {
	case RowHeader:
		style.Font.Bold = true
		style.Alignment.Horizontal = "center"
		style.Border = thinBorders()
	case RowTotal:
		style.Font.Bold = true
	case RowEmphasis:
		// Grand total: bold white on slate.
		style.Font.Bold = true
		style.Font.Size = 12
		style.Font.Color = "#FFFFFF"
		style.Fill = excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#35495E"},
			Pattern: 1,
		}
	}

	switch format {
	case CellCurrency:
		style.CustomNumFmt = &s.currency
	case CellPercent:
		numFmt := `0.##"%"`
		style.CustomNumFmt = &numFmt
	case CellDays:
		if kind != RowHeader {
			style.Alignment.Horizontal = "center"
		}
	default:
		if style.Alignment.Horizontal == "" {
			style.Alignment.Horizontal = "left"
		}
	}

	id, err := s.f.NewStyle(style)
	if err != nil {
		return 0, fmt.Errorf("create %s/%s style: %w", kind, format, err)
	}
	s.ids[key] = id
	return id, nil
}

// sanitizeExcelCell prevents formula injection by prefixing dangerous leading
// characters with a single quote. Excel interprets cells starting with =, +, -,
// @, \t or \r as formulas, which can be abused for code execution or data theft.
func sanitizeExcelCell(s string) string {
	if len(s) == 0 {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r', '|':
		return "'" + s
	}
	return s
}

// thinBorders returns a slice of excelize.Border for thin borders on all four sides.
func thinBorders() []excelize.Border {
	sides := []string{"left", "top", "bottom", "right"}
	borders := make([]excelize.Border, len(sides))
	for i, side := range sides {
		borders[i] = excelize.Border{
			Type:  side,
			Color: "#000000",
			Style: 1, // thin
		}
	}
	return borders
}
