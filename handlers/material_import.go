package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"romplanner/services"
)

// maxImportSize caps the multipart body of an import upload.
const maxImportSize = 10 << 20

// HandleMaterialTemplateDownload serves the blank material item import
// workbook.
// Route: GET /material_items/template
func HandleMaterialTemplateDownload(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		data, err := services.GenerateMaterialTemplate()
		if err != nil {
			app.Logger().Error("material_template: failed to generate", "error", err)
			return ErrorJSON(e, http.StatusInternalServerError, "Failed to generate template")
		}
		return writeAttachment(e, services.ExcelContentType, "Material_Import_Template.xlsx", data)
	}
}

// HandleMaterialImport validates an uploaded .csv or .xlsx file and, when
// every row is valid, adds the items to the project in one transaction.
// With ?dry_run=true nothing is written. Row errors answer 400 with the full
// validation result so the client can request an error report.
// Route: POST /projects/{id}/material_items/import
func HandleMaterialImport(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		projectID := e.Request.PathValue("id")
		if _, err := services.GetProject(app, projectID); err != nil {
			return serviceErrorJSON(e, "material_import", "Project not found", err)
		}

		if err := e.Request.ParseMultipartForm(maxImportSize); err != nil {
			return ErrorJSON(e, http.StatusBadRequest, "File too large or invalid form data")
		}

		file, header, err := e.Request.FormFile("file")
		if err != nil {
			return ErrorJSON(e, http.StatusBadRequest, "Please select a file to upload")
		}
		defer file.Close()

		result, err := services.ValidateMaterialFile(file, header.Filename)
		if err != nil {
			app.Logger().Warn("material_import: rejected file", "project", projectID, "file", header.Filename, "error", err)
			return serviceErrorJSON(e, "material_import", "Project not found", err)
		}

		if result.ErrorRows > 0 {
			return e.JSON(http.StatusBadRequest, map[string]any{
				"detail": fmt.Sprintf("%d of %d rows have errors", result.ErrorRows, result.TotalRows),
				"result": result,
			})
		}

		if e.Request.URL.Query().Get("dry_run") == "true" {
			return e.JSON(http.StatusOK, map[string]any{"imported": 0, "result": result})
		}

		imported, err := services.ImportMaterialItems(app, projectID, result.Items)
		if err != nil {
			return serviceErrorJSON(e, "material_import", "Project not found", err)
		}

		app.Logger().Info("material items imported", "project", projectID, "file", header.Filename, "count", imported)
		return e.JSON(http.StatusCreated, map[string]any{"imported": imported, "result": result})
	}
}

// HandleMaterialImportErrorReport turns posted validation errors into a
// downloadable workbook.
// Route: POST /material_items/import/errors
func HandleMaterialImportErrorReport(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var rowErrors []services.ValidationError
		if err := e.BindBody(&rowErrors); err != nil {
			return ErrorJSON(e, http.StatusBadRequest, "Invalid error data")
		}

		data, err := services.GenerateErrorReport(rowErrors)
		if err != nil {
			app.Logger().Error("material_import_errors: failed to generate", "error", err)
			return ErrorJSON(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		filename := fmt.Sprintf("Material_Import_Errors_%s.xlsx", time.Now().Format("2006-01-02"))
		return writeAttachment(e, services.ExcelContentType, filename, data)
	}
}
