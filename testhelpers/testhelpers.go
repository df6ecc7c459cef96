// Package testhelpers provides utilities for testing PocketBase-based applications.
package testhelpers

import (
	"strings"
	"testing"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"romplanner/collections"
)

// NewTestApp creates a PocketBase instance backed by a temporary directory.
// It bootstraps the app and runs collections.Setup to create all tables.
// The temporary directory is cleaned up automatically when the test finishes.
func NewTestApp(t *testing.T) *pocketbase.PocketBase {
	t.Helper()

	tmpDir := t.TempDir()
	app := pocketbase.NewWithConfig(pocketbase.Config{
		DefaultDataDir: tmpDir,
	})

	if err := app.Bootstrap(); err != nil {
		t.Fatalf("failed to bootstrap test app: %v", err)
	}

	collections.Setup(app)

	return app
}

func saveRecord(t *testing.T, app core.App, collection string, fields map[string]any) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId(collection)
	if err != nil {
		t.Fatalf("failed to find %s collection: %v", collection, err)
	}

	record := core.NewRecord(col)
	for k, v := range fields {
		record.Set(k, v)
	}

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test %s record: %v", collection, err)
	}

	return record
}

// CreateTestProject creates a project record with the given name and returns it.
func CreateTestProject(t *testing.T, app core.App, name string) *core.Record {
	t.Helper()
	return saveRecord(t, app, "projects", map[string]any{
		"name":            name,
		"description":     name + " description",
		"risk_percentage": 0,
	})
}

// CreateTestRate creates a rate record for role.
func CreateTestRate(t *testing.T, app core.App, role string, rate float64, unit string) *core.Record {
	t.Helper()
	return saveRecord(t, app, "rates", map[string]any{
		"role": role,
		"rate": rate,
		"unit": unit,
	})
}

// CreateTestTask creates a task in the project with the given sequence and
// efforts (role -> days).
func CreateTestTask(t *testing.T, app core.App, projectID, name string, sequence int, efforts map[string]float64) *core.Record {
	t.Helper()
	if efforts == nil {
		efforts = map[string]float64{}
	}
	return saveRecord(t, app, "tasks", map[string]any{
		"project":  projectID,
		"name":     name,
		"efforts":  efforts,
		"sequence": sequence,
	})
}

// CreateTestMaterialItem creates a material item in the project.
func CreateTestMaterialItem(t *testing.T, app core.App, projectID, lineItem string, unitPrice float64, quantity int) *core.Record {
	t.Helper()
	return saveRecord(t, app, "material_items", map[string]any{
		"project":    projectID,
		"line_item":  lineItem,
		"vendor":     "Test Vendor",
		"category":   "General",
		"unit_price": unitPrice,
		"quantity":   quantity,
	})
}

// CreateTestGlobalMaterial creates a catalogue entry.
func CreateTestGlobalMaterial(t *testing.T, app core.App, name string, unitPrice float64) *core.Record {
	t.Helper()
	return saveRecord(t, app, "global_materials", map[string]any{
		"name":       name,
		"category":   "General",
		"unit_price": unitPrice,
	})
}

// AssertBodyContains checks that body contains all specified fragments.
func AssertBodyContains(t *testing.T, body string, fragments ...string) {
	t.Helper()

	for _, frag := range fragments {
		if !strings.Contains(body, frag) {
			t.Errorf("expected body to contain %q, but it was not found\nbody (first 500 chars): %s",
				frag, truncate(body, 500))
		}
	}
}

// AssertBodyNotContains checks that body contains none of the fragments.
func AssertBodyNotContains(t *testing.T, body string, fragments ...string) {
	t.Helper()

	for _, frag := range fragments {
		if strings.Contains(body, frag) {
			t.Errorf("expected body not to contain %q\nbody (first 500 chars): %s",
				frag, truncate(body, 500))
		}
	}
}

// CountRecords returns the number of records in a collection.
func CountRecords(t *testing.T, app core.App, collection string) int {
	t.Helper()

	records, err := app.FindAllRecords(collection)
	if err != nil {
		t.Fatalf("failed to list %s: %v", collection, err)
	}
	return len(records)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
