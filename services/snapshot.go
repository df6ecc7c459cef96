package services

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase/core"
	"github.com/spf13/cast"
)

// Snapshot is a consistent read of everything needed to cost one project.
type Snapshot struct {
	Project       Project
	Rates         []Rate
	Tasks         []Task
	MaterialItems []MaterialItem
}

// Report builds the export document for the snapshot.
func (s Snapshot) Report() (Report, error) {
	return BuildReport(&s.Project, s.Rates, s.Tasks, s.MaterialItems)
}

// Aggregate computes the cost figures for the snapshot.
func (s Snapshot) Aggregate() (Aggregate, error) {
	return CalcAggregate(&s.Project, s.Rates, s.Tasks, s.MaterialItems)
}

// LoadSnapshot reads the project, all rates, and the project's tasks and
// material items inside one transaction.
func LoadSnapshot(app core.App, projectID string) (Snapshot, error) {
	var snap Snapshot

	err := app.RunInTransaction(func(txApp core.App) error {
		project, err := GetProject(txApp, projectID)
		if err != nil {
			return err
		}
		snap.Project = project

		if snap.Rates, err = ListRates(txApp); err != nil {
			return err
		}
		if snap.Tasks, err = ListTasks(txApp, projectID); err != nil {
			return err
		}
		if snap.MaterialItems, err = ListMaterialItems(txApp, projectID); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return Snapshot{}, err
	}

	return snap, nil
}

// GetProject returns the project with the given id or ErrNotFound.
func GetProject(app core.App, projectID string) (Project, error) {
	record, err := app.FindRecordById("projects", projectID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Project{}, fmt.Errorf("project %s: %w", projectID, ErrNotFound)
		}
		return Project{}, fmt.Errorf("find project %s: %w", projectID, err)
	}
	return ProjectFromRecord(record), nil
}

// ListProjects returns all projects ordered by name.
func ListProjects(app core.App) ([]Project, error) {
	var records []*core.Record
	if err := app.RecordQuery("projects").OrderBy("name ASC").All(&records); err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	projects := make([]Project, len(records))
	for i, r := range records {
		projects[i] = ProjectFromRecord(r)
	}
	return projects, nil
}

// ListRates returns all rates ordered by role.
func ListRates(app core.App) ([]Rate, error) {
	var records []*core.Record
	if err := app.RecordQuery("rates").OrderBy("role ASC").All(&records); err != nil {
		return nil, fmt.Errorf("list rates: %w", err)
	}
	rates := make([]Rate, len(records))
	for i, r := range records {
		rates[i] = RateFromRecord(r)
	}
	return rates, nil
}

// ListTasks returns a project's tasks ordered by sequence, then creation time.
func ListTasks(app core.App, projectID string) ([]Task, error) {
	var records []*core.Record
	err := app.RecordQuery("tasks").
		AndWhere(dbx.HashExp{"project": projectID}).
		OrderBy("sequence ASC", "created ASC", "rowid ASC").
		All(&records)
	if err != nil {
		return nil, fmt.Errorf("list tasks for %s: %w", projectID, err)
	}
	tasks := make([]Task, len(records))
	for i, r := range records {
		tasks[i] = TaskFromRecord(r)
	}
	return tasks, nil
}

// ListMaterialItems returns a project's material items ordered by creation time.
func ListMaterialItems(app core.App, projectID string) ([]MaterialItem, error) {
	var records []*core.Record
	err := app.RecordQuery("material_items").
		AndWhere(dbx.HashExp{"project": projectID}).
		OrderBy("created ASC", "rowid ASC").
		All(&records)
	if err != nil {
		return nil, fmt.Errorf("list material items for %s: %w", projectID, err)
	}
	items := make([]MaterialItem, len(records))
	for i, r := range records {
		items[i] = MaterialItemFromRecord(r)
	}
	return items, nil
}

// ListGlobalMaterials returns the material catalogue ordered by name.
func ListGlobalMaterials(app core.App) ([]GlobalMaterial, error) {
	var records []*core.Record
	if err := app.RecordQuery("global_materials").OrderBy("name ASC").All(&records); err != nil {
		return nil, fmt.Errorf("list global materials: %w", err)
	}
	materials := make([]GlobalMaterial, len(records))
	for i, r := range records {
		materials[i] = GlobalMaterialFromRecord(r)
	}
	return materials, nil
}

// NextTaskSequence returns one past the highest task sequence in the
// project, or 0 when the project has no tasks.
func NextTaskSequence(app core.App, projectID string) (int, error) {
	existing, err := app.FindRecordsByFilter(
		"tasks",
		"project = {:projectId}",
		"-sequence",
		1,
		0,
		dbx.Params{"projectId": projectID},
	)
	if err != nil {
		return 0, fmt.Errorf("next task sequence for %s: %w", projectID, err)
	}
	if len(existing) == 0 {
		return 0, nil
	}
	return existing[0].GetInt("sequence") + 1, nil
}

// ProjectFromRecord converts a projects record.
func ProjectFromRecord(r *core.Record) Project {
	return Project{
		ID:             r.Id,
		Name:           r.GetString("name"),
		Description:    r.GetString("description"),
		RiskPercentage: r.GetFloat("risk_percentage"),
		Created:        r.GetDateTime("created").Time(),
	}
}

// RateFromRecord converts a rates record.
func RateFromRecord(r *core.Record) Rate {
	return Rate{
		ID:     r.Id,
		Role:   r.GetString("role"),
		Amount: r.GetFloat("rate"),
		Unit:   r.GetString("unit"),
	}
}

// TaskFromRecord converts a tasks record. Effort values that are not numbers
// count as 0 days.
func TaskFromRecord(r *core.Record) Task {
	return Task{
		ID:            r.Id,
		ProjectID:     r.GetString("project"),
		Name:          r.GetString("name"),
		Description:   r.GetString("description"),
		Efforts:       EffortsFromRecord(r),
		TravelCost:    r.GetFloat("travel_cost"),
		MaterialsCost: r.GetFloat("materials_cost"),
		Sequence:      r.GetInt("sequence"),
		Created:       r.GetDateTime("created").Time(),
	}
}

// MaterialItemFromRecord converts a material_items record.
func MaterialItemFromRecord(r *core.Record) MaterialItem {
	return MaterialItem{
		ID:        r.Id,
		ProjectID: r.GetString("project"),
		LineItem:  r.GetString("line_item"),
		Vendor:    r.GetString("vendor"),
		Category:  r.GetString("category"),
		UnitPrice: r.GetFloat("unit_price"),
		Quantity:  r.GetFloat("quantity"),
		Comment:   r.GetString("comment"),
		Created:   r.GetDateTime("created").Time(),
	}
}

// GlobalMaterialFromRecord converts a global_materials record.
func GlobalMaterialFromRecord(r *core.Record) GlobalMaterial {
	return GlobalMaterial{
		ID:        r.Id,
		Name:      r.GetString("name"),
		Category:  r.GetString("category"),
		UnitPrice: r.GetFloat("unit_price"),
	}
}

// EffortsFromRecord decodes the efforts JSON field. A missing or malformed
// field yields an empty map.
func EffortsFromRecord(r *core.Record) map[string]float64 {
	var raw map[string]any
	if err := r.UnmarshalJSONField("efforts", &raw); err != nil {
		return map[string]float64{}
	}
	return CoerceEfforts(raw)
}

// CoerceEfforts converts loosely typed effort values to days; nulls and
// non-numeric values become 0.
func CoerceEfforts(raw map[string]any) map[string]float64 {
	efforts := make(map[string]float64, len(raw))
	for role, v := range raw {
		efforts[role] = cast.ToFloat64(v)
	}
	return efforts
}
