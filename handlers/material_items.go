package handlers

import (
	"net/http"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"romplanner/services"
)

// HandleMaterialItemList returns a project's material items in creation order.
// Route: GET /material_items?project_id=
func HandleMaterialItemList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		projectID := strings.TrimSpace(e.Request.URL.Query().Get("project_id"))
		if projectID == "" {
			return ErrorJSON(e, http.StatusBadRequest, "project_id is required")
		}
		if _, err := services.GetProject(app, projectID); err != nil {
			return serviceErrorJSON(e, "material_item_list", "Project not found", err)
		}

		items, err := services.ListMaterialItems(app, projectID)
		if err != nil {
			return serviceErrorJSON(e, "material_item_list", "", err)
		}
		return e.JSON(http.StatusOK, items)
	}
}

// Route: POST /material_items
func HandleMaterialItemCreate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var in MaterialItemInput
		if handled, err := bindInput(e, &in); handled {
			return err
		}

		if _, err := services.GetProject(app, in.ProjectID); err != nil {
			return serviceErrorJSON(e, "material_item_create", "Project not found", err)
		}

		col, err := app.FindCollectionByNameOrId("material_items")
		if err != nil {
			return serviceErrorJSON(e, "material_item_create", "", err)
		}
		record := core.NewRecord(col)
		in.Apply(record)

		if err := app.Save(record); err != nil {
			return saveErrorJSON(e, "material_item_create", "Material item already exists.", err)
		}

		return e.JSON(http.StatusCreated, services.MaterialItemFromRecord(record))
	}
}

// Route: PUT /material_items/{id}
func HandleMaterialItemUpdate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		record, err := findRecord(app, "material_items", e.Request.PathValue("id"))
		if err != nil {
			return serviceErrorJSON(e, "material_item_update", "Material item not found", err)
		}

		var patch MaterialItemPatch
		if handled, err := bindInput(e, &patch); handled {
			return err
		}

		patch.Apply(record)
		if err := app.Save(record); err != nil {
			return saveErrorJSON(e, "material_item_update", "Material item already exists.", err)
		}

		return e.JSON(http.StatusOK, services.MaterialItemFromRecord(record))
	}
}

// Route: DELETE /material_items/{id}
func HandleMaterialItemDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		record, err := findRecord(app, "material_items", e.Request.PathValue("id"))
		if err != nil {
			return serviceErrorJSON(e, "material_item_delete", "Material item not found", err)
		}
		if err := app.Delete(record); err != nil {
			return serviceErrorJSON(e, "material_item_delete", "Material item not found", err)
		}
		return e.NoContent(http.StatusNoContent)
	}
}
