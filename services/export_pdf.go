package services

import (
	"fmt"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

// PDFContentType is the MIME type of generated PDF exports.
const PDFContentType = "application/pdf"

// pdfGridSize is the number of grid units a PDF row is split into. Section
// column widths are scaled onto it.
const pdfGridSize = 120

var (
	pdfHeaderBg   = &props.Color{Red: 33, Green: 37, Blue: 41}
	pdfTotalBg    = &props.Color{Red: 240, Green: 240, Blue: 240}
	pdfEmphasisBg = &props.Color{Red: 53, Green: 73, Blue: 94}
	pdfWhite      = &props.Color{Red: 255, Green: 255, Blue: 255}
)

// RenderPDF lays out every report section as a table in a landscape A4
// document and returns the PDF bytes.
func RenderPDF(report Report, opts RenderOptions) ([]byte, error) {
	cfg := config.NewBuilder().
		WithOrientation(orientation.Horizontal).
		WithPageSize(pagesize.A4).
		WithMaxGridSize(pdfGridSize).
		WithLeftMargin(10).
		WithTopMargin(10).
		WithRightMargin(10).
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
			Size:    7,
			Color:   &props.Color{Red: 120, Green: 120, Blue: 120},
		}).
		Build()

	m := maroto.New(cfg)

	m.AddRows(
		row.New(12).Add(
			col.New(pdfGridSize).Add(
				text.New(report.Title, props.Text{
					Size:  16,
					Style: fontstyle.Bold,
					Align: align.Center,
				}),
			),
		),
	)

	for _, section := range report.Sections {
		addPDFSection(m, section, opts.symbol())
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	return doc.GetBytes(), nil
}

// addPDFSection adds a section title followed by the section's rows.
func addPDFSection(m core.Maroto, section Section, symbol string) {
	m.AddRows(row.New(6))
	m.AddRows(
		row.New(9).Add(
			col.New(pdfGridSize).Add(
				text.New(section.Name, props.Text{
					Size:  11,
					Style: fontstyle.Bold,
					Align: align.Left,
				}),
			),
		),
	)

	sizes := pdfColumnSizes(section.Columns)
	for _, r := range section.Rows {
		if r.Kind == RowBlank || len(r.Cells) == 0 {
			m.AddRows(row.New(4))
			continue
		}
		m.AddRows(pdfRow(r, sizes, symbol))
	}
}

func pdfRow(r Row, sizes []int, symbol string) core.Row {
	base := props.Text{Size: 7, Style: fontstyle.Normal, Align: align.Left}
	var cellStyle *props.Cell

	switch r.Kind {
	case RowHeader:
		base.Style = fontstyle.Bold
		base.Color = pdfWhite
		cellStyle = &props.Cell{BackgroundColor: pdfHeaderBg}
	case RowTotal:
		base.Style = fontstyle.Bold
		cellStyle = &props.Cell{BackgroundColor: pdfTotalBg}
	case RowEmphasis:
		base.Style = fontstyle.Bold
		base.Size = 9
		base.Color = pdfWhite
		cellStyle = &props.Cell{BackgroundColor: pdfEmphasisBg}
	}

	cols := make([]core.Col, 0, len(sizes))
	for i, size := range sizes {
		var cell Cell
		if i < len(r.Cells) {
			cell = r.Cells[i]
		}

		style := base
		if _, numeric := cell.Value.(float64); numeric && r.Kind != RowHeader {
			style.Align = align.Right
		}

		c := col.New(size).Add(text.New(formatCellText(cell, symbol), style))
		if cellStyle != nil {
			c = c.WithStyle(cellStyle)
		}
		cols = append(cols, c)
	}

	return row.New(7).Add(cols...)
}

// pdfColumnSizes scales width hints onto the PDF grid, giving every column at
// least one unit.
func pdfColumnSizes(columns []Column) []int {
	var total float64
	for _, c := range columns {
		total += c.Width
	}
	sizes := make([]int, len(columns))
	for i, c := range columns {
		size := 1
		if total > 0 {
			size = int(c.Width * pdfGridSize / total)
		}
		if size < 1 {
			size = 1
		}
		sizes[i] = size
	}
	return sizes
}

// formatCellText renders a cell value as display text according to its format.
func formatCellText(cell Cell, symbol string) string {
	switch v := cell.Value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		switch cell.Format {
		case CellCurrency:
			return FormatCurrencyWith(symbol, v)
		case CellPercent:
			return FormatPercent(v)
		case CellDays:
			return FormatDays(v)
		default:
			return formatPlainNumber(v)
		}
	default:
		return fmt.Sprint(v)
	}
}
