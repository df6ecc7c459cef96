package handlers

import (
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"romplanner/services"
)

// HandleGlobalMaterialList returns the material catalogue ordered by name.
// Route: GET /global_materials
func HandleGlobalMaterialList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		materials, err := services.ListGlobalMaterials(app)
		if err != nil {
			return serviceErrorJSON(e, "global_material_list", "", err)
		}
		return e.JSON(http.StatusOK, materials)
	}
}

// HandleGlobalMaterialSave creates a catalogue entry, or updates the category
// and unit price of the entry with the same name.
// Route: POST /global_materials
func HandleGlobalMaterialSave(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var in GlobalMaterialInput
		if handled, err := bindInput(e, &in); handled {
			return err
		}

		record, _ := app.FindFirstRecordByData("global_materials", "name", in.Name)
		if record == nil {
			col, err := app.FindCollectionByNameOrId("global_materials")
			if err != nil {
				return serviceErrorJSON(e, "global_material_save", "", err)
			}
			record = core.NewRecord(col)
		}
		in.Apply(record)

		if err := app.Save(record); err != nil {
			return saveErrorJSON(e, "global_material_save", conflictDetail(services.GlobalMaterialConflict(in.Name)), err)
		}

		return e.JSON(http.StatusCreated, services.GlobalMaterialFromRecord(record))
	}
}

// Route: PUT /global_materials/{id}
func HandleGlobalMaterialUpdate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		materialID := e.Request.PathValue("id")

		record, err := findRecord(app, "global_materials", materialID)
		if err != nil {
			return serviceErrorJSON(e, "global_material_update", "Global material not found", err)
		}

		var patch GlobalMaterialPatch
		if handled, err := bindInput(e, &patch); handled {
			return err
		}

		if patch.Name != nil && *patch.Name != record.GetString("name") {
			if err := services.CheckGlobalMaterialName(app, *patch.Name, materialID); err != nil {
				return serviceErrorJSON(e, "global_material_update", "", err)
			}
		}

		patch.Apply(record)
		if err := app.Save(record); err != nil {
			return saveErrorJSON(e, "global_material_update", conflictDetail(services.GlobalMaterialConflict(record.GetString("name"))), err)
		}

		return e.JSON(http.StatusOK, services.GlobalMaterialFromRecord(record))
	}
}

// Route: DELETE /global_materials/{id}
func HandleGlobalMaterialDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		record, err := findRecord(app, "global_materials", e.Request.PathValue("id"))
		if err != nil {
			return serviceErrorJSON(e, "global_material_delete", "Global material not found", err)
		}
		if err := app.Delete(record); err != nil {
			return serviceErrorJSON(e, "global_material_delete", "Global material not found", err)
		}
		return e.NoContent(http.StatusNoContent)
	}
}
