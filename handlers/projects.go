package handlers

import (
	"fmt"
	"net/http"

	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"romplanner/services"
)

// HandleProjectList returns all projects ordered by name.
// Route: GET /projects
func HandleProjectList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		projects, err := services.ListProjects(app)
		if err != nil {
			return serviceErrorJSON(e, "project_list", "", err)
		}
		return e.JSON(http.StatusOK, projects)
	}
}

// HandleProjectCreate creates a project. Names are unique.
// Route: POST /projects
func HandleProjectCreate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var in ProjectInput
		if handled, err := bindInput(e, &in); handled {
			return err
		}

		if err := services.CheckProjectName(app, in.Name, ""); err != nil {
			return serviceErrorJSON(e, "project_create", "", err)
		}

		col, err := app.FindCollectionByNameOrId("projects")
		if err != nil {
			return serviceErrorJSON(e, "project_create", "", err)
		}
		record := core.NewRecord(col)
		in.Apply(record)

		if err := app.Save(record); err != nil {
			return saveErrorJSON(e, "project_create", conflictDetail(services.ProjectNameConflict(in.Name)), err)
		}

		app.Logger().Info("project created", "project", record.Id, "name", in.Name)
		return e.JSON(http.StatusCreated, services.ProjectFromRecord(record))
	}
}

// HandleProjectView returns one project.
// Route: GET /projects/{id}
func HandleProjectView(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		project, err := services.GetProject(app, e.Request.PathValue("id"))
		if err != nil {
			return serviceErrorJSON(e, "project_view", "Project not found", err)
		}
		return e.JSON(http.StatusOK, project)
	}
}

// HandleProjectUpdate applies a partial update to a project.
// Route: PUT /projects/{id}
func HandleProjectUpdate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		projectID := e.Request.PathValue("id")

		record, err := findRecord(app, "projects", projectID)
		if err != nil {
			return serviceErrorJSON(e, "project_update", "Project not found", err)
		}

		var patch ProjectPatch
		if handled, err := bindInput(e, &patch); handled {
			return err
		}

		if patch.Name != nil && *patch.Name != record.GetString("name") {
			if err := services.CheckProjectName(app, *patch.Name, projectID); err != nil {
				return serviceErrorJSON(e, "project_update", "", err)
			}
		}

		patch.Apply(record)
		if err := app.Save(record); err != nil {
			return saveErrorJSON(e, "project_update", conflictDetail(services.ProjectNameConflict(record.GetString("name"))), err)
		}

		return e.JSON(http.StatusOK, services.ProjectFromRecord(record))
	}
}

// HandleProjectDelete removes a project together with its tasks and
// material items in one transaction.
// Route: DELETE /projects/{id}
func HandleProjectDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		projectID := e.Request.PathValue("id")

		var removedTasks, removedItems int
		err := app.RunInTransaction(func(txApp core.App) error {
			record, err := findRecord(txApp, "projects", projectID)
			if err != nil {
				return err
			}

			for _, collection := range []string{"tasks", "material_items"} {
				children, err := txApp.FindAllRecords(collection, dbx.HashExp{"project": projectID})
				if err != nil {
					return fmt.Errorf("find %s of project %s: %w", collection, projectID, err)
				}
				for _, child := range children {
					if err := txApp.Delete(child); err != nil {
						return fmt.Errorf("delete %s %s: %w", collection, child.Id, err)
					}
				}
				if collection == "tasks" {
					removedTasks = len(children)
				} else {
					removedItems = len(children)
				}
			}

			return txApp.Delete(record)
		})
		if err != nil {
			return serviceErrorJSON(e, "project_delete", "Project not found", err)
		}

		app.Logger().Info("project deleted",
			"project", projectID,
			"tasks", removedTasks,
			"materialItems", removedItems,
		)
		return e.NoContent(http.StatusNoContent)
	}
}

// HandleProjectSummary returns the cost aggregate of a project.
// Route: GET /projects/{id}/summary
func HandleProjectSummary(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		snap, err := services.LoadSnapshot(app, e.Request.PathValue("id"))
		if err != nil {
			return serviceErrorJSON(e, "project_summary", "Project not found", err)
		}

		agg, err := snap.Aggregate()
		if err != nil {
			return serviceErrorJSON(e, "project_summary", "Project not found", err)
		}
		return e.JSON(http.StatusOK, agg)
	}
}
