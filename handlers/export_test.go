package handlers

import (
	"bytes"
	"mime"
	"net/http"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"romplanner/services"
	"romplanner/testhelpers"
)

func TestHandleProjectExportExcel_Success(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	proj := testhelpers.CreateTestProject(t, app, "Branch Office Refresh")
	testhelpers.CreateTestRate(t, app, "Engineer", 100, services.UnitDay)
	testhelpers.CreateTestTask(t, app, proj.Id, "Survey", 0, map[string]float64{"Engineer": 2})
	testhelpers.CreateTestMaterialItem(t, app, proj.Id, "Switch", 500, 2)

	req := newJSONRequest(http.MethodGet, "/export/project/"+proj.Id+"/excel", "")
	req.SetPathValue("id", proj.Id)
	rec := serve(t, app, HandleProjectExportExcel(app, services.DefaultRenderOptions()), req)
	assertStatus(t, rec, http.StatusOK)

	if ct := rec.Header().Get("Content-Type"); !strings.Contains(ct, "spreadsheetml") {
		t.Errorf("expected Excel content type, got %q", ct)
	}
	cd := rec.Header().Get("Content-Disposition")
	if !strings.Contains(cd, "attachment") || !strings.Contains(cd, "Project_Export_Branch_Office_Refresh.xlsx") {
		t.Errorf("unexpected disposition %q", cd)
	}

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	want := []string{"Summary", "Labor Details", "Rates", "Materials"}
	got := f.GetSheetList()
	if len(got) != len(want) {
		t.Fatalf("sheets = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sheet %d = %q, want %q", i, got[i], want[i])
		}
	}

	name, err := f.GetCellValue("Summary", "B1")
	if err != nil {
		t.Fatalf("read B1: %v", err)
	}
	if name != "Branch Office Refresh" {
		t.Errorf("Summary B1 = %q", name)
	}
}

func TestHandleProjectExportExcel_NotFound(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	req := newJSONRequest(http.MethodGet, "/export/project/nonexistent/excel", "")
	req.SetPathValue("id", "nonexistent")
	rec := serve(t, app, HandleProjectExportExcel(app, services.DefaultRenderOptions()), req)
	assertStatus(t, rec, http.StatusNotFound)
	assertDetail(t, rec, "Project not found")
}

func TestHandleProjectExportPDF_Success(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	proj := testhelpers.CreateTestProject(t, app, "PDF Project")
	testhelpers.CreateTestRate(t, app, "Engineer", 100, services.UnitDay)
	testhelpers.CreateTestTask(t, app, proj.Id, "Build", 0, map[string]float64{"Engineer": 1})

	req := newJSONRequest(http.MethodGet, "/export/project/"+proj.Id+"/pdf", "")
	req.SetPathValue("id", proj.Id)
	rec := serve(t, app, HandleProjectExportPDF(app, services.DefaultRenderOptions()), req)
	assertStatus(t, rec, http.StatusOK)

	if ct := rec.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("expected application/pdf, got %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "Project_Export_PDF_Project.pdf") {
		t.Errorf("unexpected disposition %q", cd)
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")) {
		t.Error("expected a PDF body")
	}
}

func TestHandleProjectExportExcel_QuotedFilename(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	proj := testhelpers.CreateTestProject(t, app, `Plan "B"`)

	req := newJSONRequest(http.MethodGet, "/export/project/"+proj.Id+"/excel", "")
	req.SetPathValue("id", proj.Id)
	rec := serve(t, app, HandleProjectExportExcel(app, services.DefaultRenderOptions()), req)
	assertStatus(t, rec, http.StatusOK)

	disposition, params, err := mime.ParseMediaType(rec.Header().Get("Content-Disposition"))
	if err != nil {
		t.Fatalf("parse Content-Disposition: %v", err)
	}
	if disposition != "attachment" {
		t.Errorf("disposition = %q, want attachment", disposition)
	}
	if want := `Project_Export_Plan_"B".xlsx`; params["filename"] != want {
		t.Errorf("filename = %q, want %q", params["filename"], want)
	}
}

func TestHandleProjectExportJSON(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	proj := testhelpers.CreateTestProject(t, app, "Json Project")
	testhelpers.CreateTestRate(t, app, "Engineer", 100, services.UnitDay)
	testhelpers.CreateTestTask(t, app, proj.Id, "Build", 0, map[string]float64{"Engineer": 3})

	req := newJSONRequest(http.MethodGet, "/export/project/"+proj.Id+"/json", "")
	req.SetPathValue("id", proj.Id)
	rec := serve(t, app, HandleProjectExportJSON(app), req)
	assertStatus(t, rec, http.StatusOK)

	var report services.Report
	decodeBody(t, rec, &report)
	if report.Title != "Json Project" {
		t.Errorf("title = %q", report.Title)
	}
	if len(report.Sections) != 4 || report.Sections[1].Name != services.SectionLabor {
		t.Errorf("unexpected sections: %d", len(report.Sections))
	}
	if report.Aggregate.LaborCost != 300 {
		t.Errorf("laborCost = %v, want 300", report.Aggregate.LaborCost)
	}
}
