package handlers

import (
	"net/http"
	"testing"

	"romplanner/services"
	"romplanner/testhelpers"
)

func TestHandleProjectList_OrderedByName(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	testhelpers.CreateTestProject(t, app, "Zulu")
	testhelpers.CreateTestProject(t, app, "Alpha")

	rec := serve(t, app, HandleProjectList(app), newJSONRequest(http.MethodGet, "/projects", ""))
	assertStatus(t, rec, http.StatusOK)

	var projects []services.Project
	decodeBody(t, rec, &projects)
	if len(projects) != 2 {
		t.Fatalf("got %d projects, want 2", len(projects))
	}
	if projects[0].Name != "Alpha" || projects[1].Name != "Zulu" {
		t.Errorf("order = %q, %q; want Alpha, Zulu", projects[0].Name, projects[1].Name)
	}
}

func TestHandleProjectCreate_Success(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	body := `{"name":"  Office Move  ","description":"Two floors","riskPercentage":15}`
	rec := serve(t, app, HandleProjectCreate(app), newJSONRequest(http.MethodPost, "/projects", body))
	assertStatus(t, rec, http.StatusCreated)

	var p services.Project
	decodeBody(t, rec, &p)
	if p.ID == "" {
		t.Error("expected an id")
	}
	if p.Name != "Office Move" {
		t.Errorf("name = %q, want trimmed name", p.Name)
	}
	if p.RiskPercentage != 15 {
		t.Errorf("riskPercentage = %v, want 15", p.RiskPercentage)
	}
	if got := testhelpers.CountRecords(t, app, "projects"); got != 1 {
		t.Errorf("projects = %d, want 1", got)
	}
}

func TestHandleProjectCreate_DuplicateName(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	testhelpers.CreateTestProject(t, app, "Taken")

	rec := serve(t, app, HandleProjectCreate(app), newJSONRequest(http.MethodPost, "/projects", `{"name":"Taken"}`))
	assertStatus(t, rec, http.StatusConflict)
	assertDetail(t, rec, "Project with name 'Taken' already exists.")
}

func TestHandleProjectCreate_Validation(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"missing name", `{"description":"x"}`, "name"},
		{"blank name", `{"name":"   "}`, "name"},
		{"negative risk", `{"name":"A","riskPercentage":-1}`, "riskPercentage"},
		{"risk over 100", `{"name":"A","riskPercentage":100.5}`, "riskPercentage"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := testhelpers.NewTestApp(t)
			rec := serve(t, app, HandleProjectCreate(app), newJSONRequest(http.MethodPost, "/projects", tt.body))
			assertStatus(t, rec, http.StatusBadRequest)

			var body struct {
				Detail string            `json:"detail"`
				Errors map[string]string `json:"errors"`
			}
			decodeBody(t, rec, &body)
			if _, ok := body.Errors[tt.field]; !ok {
				t.Errorf("expected error on %q, got %v", tt.field, body.Errors)
			}
			if got := testhelpers.CountRecords(t, app, "projects"); got != 0 {
				t.Errorf("projects = %d, want 0", got)
			}
		})
	}
}

func TestHandleProjectCreate_InvalidJSON(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	rec := serve(t, app, HandleProjectCreate(app), newJSONRequest(http.MethodPost, "/projects", `{"name":`))
	assertStatus(t, rec, http.StatusBadRequest)
}

func TestHandleProjectView(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	proj := testhelpers.CreateTestProject(t, app, "Viewable")

	req := newJSONRequest(http.MethodGet, "/projects/"+proj.Id, "")
	req.SetPathValue("id", proj.Id)
	rec := serve(t, app, HandleProjectView(app), req)
	assertStatus(t, rec, http.StatusOK)

	var p services.Project
	decodeBody(t, rec, &p)
	if p.ID != proj.Id || p.Name != "Viewable" {
		t.Errorf("got %+v", p)
	}
}

func TestHandleProjectView_NotFound(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	req := newJSONRequest(http.MethodGet, "/projects/nonexistent", "")
	req.SetPathValue("id", "nonexistent")
	rec := serve(t, app, HandleProjectView(app), req)
	assertStatus(t, rec, http.StatusNotFound)
	assertDetail(t, rec, "Project not found")
}

func TestHandleProjectUpdate_Partial(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	proj := testhelpers.CreateTestProject(t, app, "Before")

	req := newJSONRequest(http.MethodPut, "/projects/"+proj.Id, `{"riskPercentage":20}`)
	req.SetPathValue("id", proj.Id)
	rec := serve(t, app, HandleProjectUpdate(app), req)
	assertStatus(t, rec, http.StatusOK)

	updated, err := app.FindRecordById("projects", proj.Id)
	if err != nil {
		t.Fatalf("find project: %v", err)
	}
	if updated.GetString("name") != "Before" {
		t.Errorf("name changed to %q", updated.GetString("name"))
	}
	if updated.GetString("description") != "Before description" {
		t.Errorf("description changed to %q", updated.GetString("description"))
	}
	if updated.GetFloat("risk_percentage") != 20 {
		t.Errorf("risk_percentage = %v, want 20", updated.GetFloat("risk_percentage"))
	}
}

func TestHandleProjectUpdate_NameConflict(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	testhelpers.CreateTestProject(t, app, "First")
	second := testhelpers.CreateTestProject(t, app, "Second")

	req := newJSONRequest(http.MethodPut, "/projects/"+second.Id, `{"name":"First"}`)
	req.SetPathValue("id", second.Id)
	rec := serve(t, app, HandleProjectUpdate(app), req)
	assertStatus(t, rec, http.StatusConflict)
	assertDetail(t, rec, "Project with name 'First' already exists.")
}

func TestHandleProjectUpdate_SameNameAllowed(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	proj := testhelpers.CreateTestProject(t, app, "Same")

	req := newJSONRequest(http.MethodPut, "/projects/"+proj.Id, `{"name":"Same","description":"new"}`)
	req.SetPathValue("id", proj.Id)
	rec := serve(t, app, HandleProjectUpdate(app), req)
	assertStatus(t, rec, http.StatusOK)
}

func TestHandleProjectUpdate_NotFound(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	req := newJSONRequest(http.MethodPut, "/projects/nonexistent", `{"name":"X"}`)
	req.SetPathValue("id", "nonexistent")
	rec := serve(t, app, HandleProjectUpdate(app), req)
	assertStatus(t, rec, http.StatusNotFound)
}

func TestHandleProjectDelete_RemovesDependents(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	proj := testhelpers.CreateTestProject(t, app, "Delete Me")
	other := testhelpers.CreateTestProject(t, app, "Keep Me")
	testhelpers.CreateTestTask(t, app, proj.Id, "Task", 0, nil)
	testhelpers.CreateTestMaterialItem(t, app, proj.Id, "Cable", 10, 1)
	testhelpers.CreateTestTask(t, app, other.Id, "Other Task", 0, nil)

	req := newJSONRequest(http.MethodDelete, "/projects/"+proj.Id, "")
	req.SetPathValue("id", proj.Id)
	rec := serve(t, app, HandleProjectDelete(app), req)
	assertStatus(t, rec, http.StatusNoContent)

	if _, err := app.FindRecordById("projects", proj.Id); err == nil {
		t.Error("expected project to be deleted")
	}
	if got := testhelpers.CountRecords(t, app, "tasks"); got != 1 {
		t.Errorf("tasks = %d, want 1 (other project's)", got)
	}
	if got := testhelpers.CountRecords(t, app, "material_items"); got != 0 {
		t.Errorf("material_items = %d, want 0", got)
	}
}

func TestHandleProjectDelete_NotFound(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	req := newJSONRequest(http.MethodDelete, "/projects/nonexistent", "")
	req.SetPathValue("id", "nonexistent")
	rec := serve(t, app, HandleProjectDelete(app), req)
	assertStatus(t, rec, http.StatusNotFound)
	assertDetail(t, rec, "Project not found")
}

func TestHandleProjectSummary(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	proj := testhelpers.CreateTestProject(t, app, "Summary")
	proj.Set("risk_percentage", 10)
	if err := app.Save(proj); err != nil {
		t.Fatalf("save project: %v", err)
	}
	testhelpers.CreateTestRate(t, app, "Engineer", 100, services.UnitDay)
	task := testhelpers.CreateTestTask(t, app, proj.Id, "Build", 0, map[string]float64{"Engineer": 2})
	task.Set("travel_cost", 50)
	if err := app.Save(task); err != nil {
		t.Fatalf("save task: %v", err)
	}

	req := newJSONRequest(http.MethodGet, "/projects/"+proj.Id+"/summary", "")
	req.SetPathValue("id", proj.Id)
	rec := serve(t, app, HandleProjectSummary(app), req)
	assertStatus(t, rec, http.StatusOK)

	var agg services.Aggregate
	decodeBody(t, rec, &agg)
	if agg.LaborCost != 200 || agg.Subtotal != 250 || agg.GrandTotal != 275 {
		t.Errorf("labor=%v subtotal=%v grand=%v; want 200, 250, 275", agg.LaborCost, agg.Subtotal, agg.GrandTotal)
	}
	if agg.DaysByRole["Engineer"] != 2 {
		t.Errorf("daysByRole[Engineer] = %v, want 2", agg.DaysByRole["Engineer"])
	}
}

func TestHandleProjectSummary_NotFound(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	req := newJSONRequest(http.MethodGet, "/projects/nonexistent/summary", "")
	req.SetPathValue("id", "nonexistent")
	rec := serve(t, app, HandleProjectSummary(app), req)
	assertStatus(t, rec, http.StatusNotFound)
}
