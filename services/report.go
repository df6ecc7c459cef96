package services

import (
	"fmt"
	"strings"
)

// CellFormat is a display hint for a report cell.
type CellFormat string

const (
	CellPlain    CellFormat = "plain"
	CellCurrency CellFormat = "currency"
	CellPercent  CellFormat = "percent"
	CellDays     CellFormat = "days"
)

// RowKind tells renderers how to style a row.
type RowKind string

const (
	RowHeader   RowKind = "header"
	RowData     RowKind = "data"
	RowTotal    RowKind = "total"
	RowEmphasis RowKind = "emphasis" // grand total
	RowBlank    RowKind = "blank"
)

// Section names, in report order.
const (
	SectionSummary   = "Summary"
	SectionLabor     = "Labor Details"
	SectionRates     = "Rates"
	SectionMaterials = "Materials"
)

// Cell is one typed value. Value is a string, a float64 or nil (blank).
type Cell struct {
	Value  any        `json:"value"`
	Format CellFormat `json:"format,omitempty"`
}

// Row is an ordered list of cells.
type Row struct {
	Kind  RowKind `json:"kind"`
	Cells []Cell  `json:"cells"`
}

// Column carries layout hints for renderers.
type Column struct {
	Width float64 `json:"width"`
}

// Section is a named table of rows.
type Section struct {
	Name    string   `json:"name"`
	Columns []Column `json:"columns"`
	Rows    []Row    `json:"rows"`
}

// Report is the in-memory export document for one project.
type Report struct {
	Title     string    `json:"title"`
	Aggregate Aggregate `json:"aggregate"`
	Sections  []Section `json:"sections"`
}

// Section returns the section with the given name, or nil.
func (r *Report) Section(name string) *Section {
	for i := range r.Sections {
		if r.Sections[i].Name == name {
			return &r.Sections[i]
		}
	}
	return nil
}

func textCell(s string) Cell    { return Cell{Value: s, Format: CellPlain} }
func moneyCell(v float64) Cell  { return Cell{Value: v, Format: CellCurrency} }
func daysCell(v float64) Cell   { return Cell{Value: v, Format: CellDays} }
func numberCell(v float64) Cell { return Cell{Value: v, Format: CellPlain} }

func newRow(kind RowKind, cells ...Cell) Row {
	return Row{Kind: kind, Cells: cells}
}

func headerRow(labels ...string) Row {
	cells := make([]Cell, len(labels))
	for i, l := range labels {
		cells[i] = textCell(l)
	}
	return Row{Kind: RowHeader, Cells: cells}
}

func widths(w ...float64) []Column {
	cols := make([]Column, len(w))
	for i, v := range w {
		cols[i] = Column{Width: v}
	}
	return cols
}

// BuildReport aggregates the project data and lays it out as the four-section
// export document. Rows follow the caller's ordering of rates, tasks and items.
func BuildReport(project *Project, rates []Rate, tasks []Task, items []MaterialItem) (Report, error) {
	agg, err := CalcAggregate(project, rates, tasks, items)
	if err != nil {
		return Report{}, fmt.Errorf("build report: %w", err)
	}

	return Report{
		Title:     project.Name,
		Aggregate: agg,
		Sections: []Section{
			buildSummarySection(project, agg),
			buildLaborSection(agg, rates, tasks),
			buildRatesSection(rates),
			buildMaterialsSection(agg, items),
		},
	}, nil
}

func buildSummarySection(project *Project, agg Aggregate) Section {
	return Section{
		Name:    SectionSummary,
		Columns: widths(30, 40),
		Rows: []Row{
			newRow(RowTotal, textCell("Project Name:"), textCell(project.Name)),
			newRow(RowData, textCell("Project Description:"), textCell(project.Description)),
			newRow(RowBlank),
			newRow(RowData, textCell("Total Labor Cost:"), moneyCell(agg.LaborCost)),
			newRow(RowData, textCell("Total Task Travel Cost:"), moneyCell(agg.TaskTravelTotal)),
			newRow(RowData, textCell("Total Task Incidental Materials:"), moneyCell(agg.TaskMaterialsTotal)),
			newRow(RowData, textCell("Total Detailed Material Expenses:"), moneyCell(agg.DetailedMaterialsTotal)),
			newRow(RowBlank),
			newRow(RowTotal, textCell("SUBTOTAL (Before Risk):"), moneyCell(agg.Subtotal)),
			newRow(RowData, textCell(fmt.Sprintf("Risk (%s):", FormatPercent(project.RiskPercentage))), moneyCell(agg.RiskAmount)),
			newRow(RowBlank),
			newRow(RowEmphasis, textCell("PROJECT GRAND TOTAL (incl. Risk):"), moneyCell(agg.GrandTotal)),
		},
	}
}

func buildLaborSection(agg Aggregate, rates []Rate, tasks []Task) Section {
	labels := []string{"Task Name", "Description"}
	cols := []float64{30, 40}
	for _, role := range agg.Roles {
		labels = append(labels, role+" (Days)")
		cols = append(cols, 15)
	}
	labels = append(labels, "Travel Cost", "Materials Cost", "Total Task Days", "Total Task Cost")
	cols = append(cols, 15, 15, 15, 18)

	rows := []Row{headerRow(labels...)}

	for _, t := range tasks {
		cells := []Cell{textCell(t.Name), textCell(t.Description)}
		for _, role := range agg.Roles {
			cells = append(cells, daysCell(t.Efforts[role]))
		}
		cells = append(cells,
			moneyCell(t.TravelCost),
			moneyCell(t.MaterialsCost),
			daysCell(TaskDays(t)),
			moneyCell(TaskCost(t, rates)),
		)
		rows = append(rows, Row{Kind: RowData, Cells: cells})
	}

	totals := []Cell{textCell("Project Totals:"), textCell("")}
	for _, role := range agg.Roles {
		totals = append(totals, daysCell(agg.DaysByRole[role]))
	}
	totals = append(totals,
		moneyCell(agg.TaskTravelTotal),
		moneyCell(agg.TaskMaterialsTotal),
		daysCell(agg.TotalDays()),
		moneyCell(agg.TaskLevelCost()),
	)
	rows = append(rows, Row{Kind: RowTotal, Cells: totals})

	perRole := []Cell{textCell("Cost per Role:"), textCell("")}
	for _, role := range agg.Roles {
		perRole = append(perRole, moneyCell(agg.CostByRole[role]))
	}
	rows = append(rows, Row{Kind: RowData, Cells: perRole})

	return Section{Name: SectionLabor, Columns: widths(cols...), Rows: rows}
}

func buildRatesSection(rates []Rate) Section {
	rows := []Row{headerRow("Role", "Rate", "Unit")}
	for _, r := range rates {
		rows = append(rows, newRow(RowData, textCell(r.Role), moneyCell(r.Amount), textCell(r.Unit)))
	}
	return Section{Name: SectionRates, Columns: widths(25, 15, 10), Rows: rows}
}

func buildMaterialsSection(agg Aggregate, items []MaterialItem) Section {
	rows := []Row{headerRow("Line Item", "Vendor", "Category", "Unit Price", "Quantity", "Subtotal", "Comment")}
	for _, item := range items {
		rows = append(rows, newRow(RowData,
			textCell(item.LineItem),
			textCell(item.Vendor),
			textCell(item.Category),
			moneyCell(item.UnitPrice),
			numberCell(item.Quantity),
			moneyCell(item.Subtotal()),
			textCell(item.Comment),
		))
	}
	rows = append(rows,
		newRow(RowBlank),
		newRow(RowTotal, textCell("Total Detailed Material Costs:"), textCell(""), textCell(""), textCell(""), textCell(""), moneyCell(agg.DetailedMaterialsTotal)),
	)
	return Section{Name: SectionMaterials, Columns: widths(30, 20, 15, 15, 10, 15, 40), Rows: rows}
}

// ExportFilename names an export file after the project:
// "Project_Export_<name with spaces as underscores>.<ext>".
func ExportFilename(projectName, ext string) string {
	return fmt.Sprintf("Project_Export_%s.%s", strings.ReplaceAll(projectName, " ", "_"), ext)
}
