package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/tools/types"
)

// Setup programmatically creates/ensures the projects, rates, tasks,
// material_items and global_materials collections exist.
func Setup(app core.App) {
	projects := ensureCollection(app, "projects", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "name", Required: true, Max: 200})
		c.Fields.Add(&core.TextField{Name: "description", Required: false})
		c.Fields.Add(&core.NumberField{
			Name: "risk_percentage",
			Min:  types.Pointer(0.0),
			Max:  types.Pointer(100.0),
		})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
		c.AddIndex("idx_projects_name", true, "name", "")
	})

	ensureCollection(app, "rates", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "role", Required: true, Max: 100})
		c.Fields.Add(&core.NumberField{Name: "rate", Min: types.Pointer(0.0)})
		c.Fields.Add(&core.SelectField{
			Name:      "unit",
			Required:  true,
			Values:    []string{"day", "hour"},
			MaxSelect: 1,
		})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.AddIndex("idx_rates_role", true, "role", "")
	})

	ensureCollection(app, "tasks", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "project",
			Required:      true,
			CollectionId:  projects.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.TextField{Name: "name", Required: true, Max: 200})
		c.Fields.Add(&core.TextField{Name: "description", Required: false})
		c.Fields.Add(&core.JSONField{Name: "efforts"})
		c.Fields.Add(&core.NumberField{Name: "travel_cost", Min: types.Pointer(0.0)})
		c.Fields.Add(&core.NumberField{Name: "materials_cost", Min: types.Pointer(0.0)})
		c.Fields.Add(&core.NumberField{Name: "sequence", OnlyInt: true})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.AddIndex("idx_tasks_project_sequence", false, "project, sequence", "")
	})

	ensureCollection(app, "material_items", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "project",
			Required:      true,
			CollectionId:  projects.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.TextField{Name: "line_item", Required: true, Max: 200})
		c.Fields.Add(&core.TextField{Name: "vendor", Required: false})
		c.Fields.Add(&core.TextField{Name: "category", Required: false})
		c.Fields.Add(&core.NumberField{Name: "unit_price", Min: types.Pointer(0.0)})
		c.Fields.Add(&core.NumberField{Name: "quantity", OnlyInt: true, Min: types.Pointer(0.0)})
		c.Fields.Add(&core.TextField{Name: "comment", Required: false})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.AddIndex("idx_material_items_project", false, "project", "")
	})

	ensureCollection(app, "global_materials", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "name", Required: true, Max: 200})
		c.Fields.Add(&core.TextField{Name: "category", Required: false})
		c.Fields.Add(&core.NumberField{Name: "unit_price", Min: types.Pointer(0.0)})
		c.AddIndex("idx_global_materials_name", true, "name", "")
	})
}

// ensureCollection checks if a collection already exists by name. If it does,
// the existing collection is returned. Otherwise a new base collection is
// created, the addFields callback is invoked to populate its fields, and the
// collection is saved.
func ensureCollection(app core.App, name string, addFields func(*core.Collection)) *core.Collection {
	existing, err := app.FindCollectionByNameOrId(name)
	if err == nil && existing != nil {
		log.Printf("Collection %q already exists, skipping creation.\n", name)
		return existing
	}

	collection := core.NewBaseCollection(name)
	addFields(collection)

	if err := app.Save(collection); err != nil {
		log.Fatalf("Failed to create collection %q: %v", name, err)
	}

	fmt.Printf("Created collection %q (id=%s)\n", name, collection.Id)
	return collection
}
