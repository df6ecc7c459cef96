package services

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"romplanner/testhelpers"
)

func TestValidateMaterialFile_CSV(t *testing.T) {
	csvData := "Line Item *,Vendor,Category,Unit Price,Quantity,Comment\n" +
		"Cable,Acme,Cabling,\"1,250.50\",3,Cat6\n" +
		"Rack,,Infrastructure,900,,\n"

	result, err := ValidateMaterialFile(strings.NewReader(csvData), "items.csv")
	if err != nil {
		t.Fatalf("ValidateMaterialFile() error = %v", err)
	}
	if result.TotalRows != 2 || result.ValidRows != 2 || result.ErrorRows != 0 {
		t.Fatalf("result = %+v, want 2 valid rows", result)
	}

	cable := result.Items[0]
	if cable.LineItem != "Cable" || cable.UnitPrice != 1250.5 || cable.Quantity != 3 || cable.Comment != "Cat6" {
		t.Errorf("cable = %+v", cable)
	}
	if result.Items[1].Quantity != 1 {
		t.Errorf("blank quantity = %v, want default 1", result.Items[1].Quantity)
	}
}

func TestValidateMaterialFile_RowErrors(t *testing.T) {
	csvData := "line_item,unit_price,quantity\n" +
		",10,1\n" +
		"Bad price,abc,1\n" +
		"Negative qty,5,-2\n" +
		"Fractional qty,5,1.5\n" +
		"NaN price,NaN,1\n" +
		"Infinite price,+Inf,1\n" +
		"Good,5,2\n"

	result, err := ValidateMaterialFile(strings.NewReader(csvData), "ITEMS.CSV")
	if err != nil {
		t.Fatalf("ValidateMaterialFile() error = %v", err)
	}
	if result.TotalRows != 7 {
		t.Errorf("TotalRows = %d, want 7", result.TotalRows)
	}
	if result.ErrorRows != 6 {
		t.Errorf("ErrorRows = %d, want 6", result.ErrorRows)
	}
	if result.ValidRows != 1 || result.Items[0].LineItem != "Good" {
		t.Errorf("valid items = %+v", result.Items)
	}

	wantRows := map[int]string{2: "Line Item", 3: "Unit Price", 4: "Quantity", 5: "Quantity", 6: "Unit Price", 7: "Unit Price"}
	for _, e := range result.Errors {
		if wantRows[e.Row] != e.Field {
			t.Errorf("unexpected error %+v", e)
		}
	}
}

func TestValidateMaterialFile_Excel(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	f.SetSheetRow(sheet, "A1", &[]any{"Line Item", "Unit Price", "Quantity"})
	f.SetSheetRow(sheet, "A2", &[]any{"Switch", 2890, 2})
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	f.Close()

	result, err := ValidateMaterialFile(&buf, "items.xlsx")
	if err != nil {
		t.Fatalf("ValidateMaterialFile() error = %v", err)
	}
	if result.ValidRows != 1 {
		t.Fatalf("ValidRows = %d, want 1 (errors %+v)", result.ValidRows, result.Errors)
	}
	if got := result.Items[0]; got.UnitPrice != 2890 || got.Quantity != 2 {
		t.Errorf("item = %+v", got)
	}
}

func TestValidateMaterialFile_Rejects(t *testing.T) {
	tests := []struct {
		name     string
		data     string
		fileName string
	}{
		{"unsupported extension", "a,b\n1,2\n", "items.txt"},
		{"header only", "Line Item\n", "items.csv"},
		{"missing required column", "Vendor,Quantity\nAcme,1\n", "items.csv"},
		{"corrupt workbook", "this is not a zip file", "items.xlsx"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateMaterialFile(strings.NewReader(tt.data), tt.fileName)
			if !errors.Is(err, ErrInvalidInput) {
				t.Errorf("error = %v, want ErrInvalidInput", err)
			}
		})
	}
}

func TestMapHeadersToFields(t *testing.T) {
	headers := []string{"Line Item *", " vendor ", "Colour", "QUANTITY"}
	keys, unrecognized := mapHeadersToFields(headers, MaterialImportFields())

	want := []string{"line_item", "vendor", "", "quantity"}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("keys[%d] = %q, want %q", i, keys[i], want[i])
		}
	}
	if len(unrecognized) != 1 || unrecognized[0] != "Colour" {
		t.Errorf("unrecognized = %v, want [Colour]", unrecognized)
	}
}

func TestImportMaterialItems(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	proj := testhelpers.CreateTestProject(t, app, "Import")

	items := []MaterialItem{
		{LineItem: "Cable", UnitPrice: 10, Quantity: 3},
		{LineItem: "Rack", UnitPrice: 900, Quantity: 1, Vendor: "Contoso"},
	}
	n, err := ImportMaterialItems(app, proj.Id, items)
	if err != nil {
		t.Fatalf("ImportMaterialItems() error = %v", err)
	}
	if n != 2 {
		t.Errorf("imported = %d, want 2", n)
	}

	stored, err := ListMaterialItems(app, proj.Id)
	if err != nil {
		t.Fatalf("ListMaterialItems() error = %v", err)
	}
	if len(stored) != 2 || stored[1].Vendor != "Contoso" {
		t.Errorf("stored = %+v", stored)
	}
}

func TestImportMaterialItems_AllOrNothing(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	proj := testhelpers.CreateTestProject(t, app, "Atomic")

	items := []MaterialItem{
		{LineItem: "Fine", UnitPrice: 1, Quantity: 1},
		{LineItem: "", UnitPrice: 1, Quantity: 1},
	}
	if _, err := ImportMaterialItems(app, proj.Id, items); err == nil {
		t.Fatal("expected error for item without line item")
	}
	if n := testhelpers.CountRecords(t, app, "material_items"); n != 0 {
		t.Errorf("expected rollback, found %d items", n)
	}
}

func TestImportMaterialItems_UnknownProject(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	_, err := ImportMaterialItems(app, "missingid123456", []MaterialItem{{LineItem: "x"}})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestGenerateErrorReport(t *testing.T) {
	result, err := GenerateErrorReport([]ValidationError{
		{Row: 2, Field: "Line Item", Message: "Line Item is required"},
		{Row: 4, Field: "Quantity", Message: "Quantity must be a whole number >= 0"},
	})
	if err != nil {
		t.Fatalf("GenerateErrorReport() error = %v", err)
	}

	f := openWorkbook(t, result)
	if got, _ := f.GetCellValue("Errors", "C1"); got != "Error" {
		t.Errorf("C1 = %q, want Error", got)
	}
	if got, _ := f.GetCellValue("Errors", "A3"); got != "4" {
		t.Errorf("A3 = %q, want 4", got)
	}
	if got, _ := f.GetCellValue("Errors", "B2"); got != "Line Item" {
		t.Errorf("B2 = %q, want Line Item", got)
	}
}

func TestGenerateMaterialTemplate(t *testing.T) {
	result, err := GenerateMaterialTemplate()
	if err != nil {
		t.Fatalf("GenerateMaterialTemplate() error = %v", err)
	}

	f := openWorkbook(t, result)
	sheets := f.GetSheetList()
	if len(sheets) != 2 || sheets[0] != "Materials" || sheets[1] != "Instructions" {
		t.Errorf("sheets = %v, want [Materials Instructions]", sheets)
	}

	if got, _ := f.GetCellValue("Materials", "A1"); got != "Line Item *" {
		t.Errorf("A1 = %q, want required marker", got)
	}
	if got, _ := f.GetCellValue("Materials", "B1"); got != "Vendor" {
		t.Errorf("B1 = %q, want Vendor", got)
	}

	visible, err := f.GetSheetVisible("Instructions")
	if err != nil {
		t.Fatalf("GetSheetVisible() error = %v", err)
	}
	if visible {
		t.Error("Instructions sheet should be hidden")
	}

	dvs, err := f.GetDataValidations("Materials")
	if err != nil {
		t.Fatalf("GetDataValidations() error = %v", err)
	}
	if len(dvs) != 2 {
		t.Errorf("got %d data validations, want 2", len(dvs))
	}
}

func TestGenerateMaterialTemplate_RoundTrip(t *testing.T) {
	template, err := GenerateMaterialTemplate()
	if err != nil {
		t.Fatalf("GenerateMaterialTemplate() error = %v", err)
	}

	f := openWorkbook(t, template)
	f.SetSheetRow("Materials", "A2", &[]any{"Patch panel", "Acme", "Cabling", 95, 4, ""})
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("write: %v", err)
	}

	result, err := ValidateMaterialFile(&buf, "filled.xlsx")
	if err != nil {
		t.Fatalf("ValidateMaterialFile() error = %v", err)
	}
	if result.ValidRows != 1 || result.Items[0].LineItem != "Patch panel" {
		t.Errorf("result = %+v", result)
	}
}
