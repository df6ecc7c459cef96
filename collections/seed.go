package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase/core"
)

// ── Definition structs ───────────────────────────────────────────────────

type rateDef struct {
	role string
	rate float64
	unit string
}

type taskDef struct {
	name          string
	description   string
	efforts       map[string]float64
	travelCost    float64
	materialsCost float64
}

type materialDef struct {
	lineItem  string
	vendor    string
	category  string
	unitPrice float64
	quantity  int
	comment   string
}

type globalMaterialDef struct {
	name      string
	category  string
	unitPrice float64
}

var seedRates = []rateDef{
	{"Project Manager", 750, "day"},
	{"Solution Architect", 900, "day"},
	{"Software Engineer", 650, "day"},
	{"QA Engineer", 70, "hour"},
	{"Field Technician", 55, "hour"},
}

var seedTasks = []taskDef{
	{
		name:        "Discovery & Site Survey",
		description: "Stakeholder workshops and on-site survey of both floors",
		efforts: map[string]float64{
			"Project Manager":    2,
			"Solution Architect": 3,
			"Field Technician":   1,
		},
		travelCost: 480,
	},
	{
		name:        "Network Design",
		description: "Logical and physical design, rack elevations",
		efforts: map[string]float64{
			"Solution Architect": 4,
			"Software Engineer":  1,
		},
	},
	{
		name:        "Installation",
		description: "Cabling, rack build and device mounting",
		efforts: map[string]float64{
			"Field Technician": 10,
			"Project Manager":  1.5,
		},
		travelCost:    1250,
		materialsCost: 320,
	},
	{
		name:        "Configuration & Testing",
		description: "Switch and firewall configuration, acceptance tests",
		efforts: map[string]float64{
			"Software Engineer": 3,
			"QA Engineer":       2.5,
		},
	},
	{
		name:        "Handover",
		description: "Documentation and operator training",
		efforts: map[string]float64{
			"Project Manager":   1,
			"Software Engineer": 0.5,
		},
		travelCost: 150,
	},
}

var seedMaterials = []materialDef{
	{"48-port PoE switch", "Northwind Networks", "Network", 2890, 2, "Stacked pair"},
	{"Firewall appliance", "Northwind Networks", "Security", 4150, 1, ""},
	{"Cat6A cable (305m box)", "Contoso Supply", "Cabling", 310, 6, ""},
	{"42U rack cabinet", "Contoso Supply", "Infrastructure", 1180, 1, "Includes PDU"},
	{"Wireless access point", "Fabrikam", "Network", 420, 12, ""},
}

var seedGlobalMaterials = []globalMaterialDef{
	{"24-port patch panel", "Cabling", 95},
	{"Cat6A cable (305m box)", "Cabling", 310},
	{"Rack shelf 1U", "Infrastructure", 45},
	{"Wireless access point", "Network", 420},
}

// Seed populates the collections with a demo rate card, one project with
// tasks and material items, and a small materials catalogue. It is safe to
// call on every startup because it returns early if any project records
// already exist.
func Seed(app core.App) error {
	// ── idempotency: skip if projects already exist ──────────────────
	projectsCol, err := app.FindCollectionByNameOrId("projects")
	if err != nil {
		return fmt.Errorf("seed: could not find projects collection: %w", err)
	}
	existing, err := app.FindAllRecords(projectsCol)
	if err != nil {
		return fmt.Errorf("seed: could not query projects: %w", err)
	}
	if len(existing) > 0 {
		return nil // already seeded
	}

	log.Println("seed: projects collection is empty – inserting seed data …")

	return app.RunInTransaction(func(txApp core.App) error {
		// ── lookup collections ───────────────────────────────────────────
		ratesCol, err := txApp.FindCollectionByNameOrId("rates")
		if err != nil {
			return fmt.Errorf("seed: could not find rates collection: %w", err)
		}
		tasksCol, err := txApp.FindCollectionByNameOrId("tasks")
		if err != nil {
			return fmt.Errorf("seed: could not find tasks collection: %w", err)
		}
		itemsCol, err := txApp.FindCollectionByNameOrId("material_items")
		if err != nil {
			return fmt.Errorf("seed: could not find material_items collection: %w", err)
		}
		globalCol, err := txApp.FindCollectionByNameOrId("global_materials")
		if err != nil {
			return fmt.Errorf("seed: could not find global_materials collection: %w", err)
		}

		// ── rates: only insert roles that are not defined yet ────────────
		for _, d := range seedRates {
			if _, err := txApp.FindFirstRecordByData(ratesCol, "role", d.role); err == nil {
				continue
			}
			r := core.NewRecord(ratesCol)
			r.Set("role", d.role)
			r.Set("rate", d.rate)
			r.Set("unit", d.unit)
			if err := txApp.Save(r); err != nil {
				return fmt.Errorf("seed: rate %q: %w", d.role, err)
			}
		}

		// ── project ──────────────────────────────────────────────────────
		project := core.NewRecord(projectsCol)
		project.Set("name", "Branch Office Network Refresh")
		project.Set("description", "Replace core switching, firewall and Wi-Fi at the regional branch")
		project.Set("risk_percentage", 12.5)
		if err := txApp.Save(project); err != nil {
			return fmt.Errorf("seed: project: %w", err)
		}

		for i, d := range seedTasks {
			r := core.NewRecord(tasksCol)
			r.Set("project", project.Id)
			r.Set("name", d.name)
			r.Set("description", d.description)
			r.Set("efforts", d.efforts)
			r.Set("travel_cost", d.travelCost)
			r.Set("materials_cost", d.materialsCost)
			r.Set("sequence", i)
			if err := txApp.Save(r); err != nil {
				return fmt.Errorf("seed: task %q: %w", d.name, err)
			}
		}

		for _, d := range seedMaterials {
			r := core.NewRecord(itemsCol)
			r.Set("project", project.Id)
			r.Set("line_item", d.lineItem)
			r.Set("vendor", d.vendor)
			r.Set("category", d.category)
			r.Set("unit_price", d.unitPrice)
			r.Set("quantity", d.quantity)
			r.Set("comment", d.comment)
			if err := txApp.Save(r); err != nil {
				return fmt.Errorf("seed: material %q: %w", d.lineItem, err)
			}
		}

		// ── catalogue ────────────────────────────────────────────────────
		for _, d := range seedGlobalMaterials {
			if _, err := txApp.FindFirstRecordByData(globalCol, "name", d.name); err == nil {
				continue
			}
			r := core.NewRecord(globalCol)
			r.Set("name", d.name)
			r.Set("category", d.category)
			r.Set("unit_price", d.unitPrice)
			if err := txApp.Save(r); err != nil {
				return fmt.Errorf("seed: global material %q: %w", d.name, err)
			}
		}

		log.Printf("seed: created project %q with %d tasks and %d material items\n",
			project.GetString("name"), len(seedTasks), len(seedMaterials))
		return nil
	})
}
