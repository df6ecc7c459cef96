package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"romplanner/services"
)

// HandleTaskList returns a project's tasks in sequence order.
// Route: GET /tasks?project_id=
func HandleTaskList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		projectID := strings.TrimSpace(e.Request.URL.Query().Get("project_id"))
		if projectID == "" {
			return ErrorJSON(e, http.StatusBadRequest, "project_id is required")
		}
		if _, err := services.GetProject(app, projectID); err != nil {
			return serviceErrorJSON(e, "task_list", "Project not found", err)
		}

		tasks, err := services.ListTasks(app, projectID)
		if err != nil {
			return serviceErrorJSON(e, "task_list", "", err)
		}
		return e.JSON(http.StatusOK, tasks)
	}
}

// HandleTaskCreate adds a task at the end of its project's sequence.
// Route: POST /tasks
func HandleTaskCreate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var in TaskInput
		if handled, err := bindInput(e, &in); handled {
			return err
		}

		if _, err := services.GetProject(app, in.ProjectID); err != nil {
			return serviceErrorJSON(e, "task_create", "Project not found", err)
		}

		col, err := app.FindCollectionByNameOrId("tasks")
		if err != nil {
			return serviceErrorJSON(e, "task_create", "", err)
		}
		sequence, err := services.NextTaskSequence(app, in.ProjectID)
		if err != nil {
			return serviceErrorJSON(e, "task_create", "", err)
		}

		record := core.NewRecord(col)
		in.Apply(record)
		record.Set("sequence", sequence)

		if err := app.Save(record); err != nil {
			return saveErrorJSON(e, "task_create", "Task already exists.", err)
		}

		return e.JSON(http.StatusCreated, services.TaskFromRecord(record))
	}
}

// HandleTaskSequenceUpdate reorders tasks. Every entry needs an id and a
// sequence; ids that no longer exist are skipped. All updates are written in
// one transaction.
// Route: PUT /tasks/sequence
func HandleTaskSequenceUpdate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var updates []SequenceUpdate
		if err := e.BindBody(&updates); err != nil {
			return ErrorJSON(e, http.StatusBadRequest, "Invalid request body")
		}
		for _, u := range updates {
			if err := u.Validate(); err != nil {
				return ErrorJSON(e, http.StatusBadRequest, "Each item must have an id and sequence")
			}
		}

		var updated int
		err := app.RunInTransaction(func(txApp core.App) error {
			for _, u := range updates {
				record, err := findRecord(txApp, "tasks", *u.ID)
				if errors.Is(err, services.ErrNotFound) {
					continue
				}
				if err != nil {
					return err
				}
				record.Set("sequence", *u.Sequence)
				if err := txApp.Save(record); err != nil {
					return err
				}
				updated++
			}
			return nil
		})
		if err != nil {
			return serviceErrorJSON(e, "task_sequence", "Task not found", err)
		}

		app.Logger().Debug("task sequence updated", "requested", len(updates), "updated", updated)
		return e.JSON(http.StatusOK, map[string]any{"success": true})
	}
}

// HandleTaskUpdate applies a partial update to a task. The owning project
// cannot be changed.
// Route: PUT /tasks/{id}
func HandleTaskUpdate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		record, err := findRecord(app, "tasks", e.Request.PathValue("id"))
		if err != nil {
			return serviceErrorJSON(e, "task_update", "Task not found", err)
		}

		var patch TaskPatch
		if handled, err := bindInput(e, &patch); handled {
			return err
		}

		patch.Apply(record)
		if err := app.Save(record); err != nil {
			return saveErrorJSON(e, "task_update", "Task already exists.", err)
		}

		return e.JSON(http.StatusOK, services.TaskFromRecord(record))
	}
}

// Route: DELETE /tasks/{id}
func HandleTaskDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		record, err := findRecord(app, "tasks", e.Request.PathValue("id"))
		if err != nil {
			return serviceErrorJSON(e, "task_delete", "Task not found", err)
		}
		if err := app.Delete(record); err != nil {
			return serviceErrorJSON(e, "task_delete", "Task not found", err)
		}
		return e.NoContent(http.StatusNoContent)
	}
}
