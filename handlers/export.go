package handlers

import (
	"mime"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"romplanner/services"
)

// loadReport reads a consistent snapshot of the project and builds its
// export document.
func loadReport(app core.App, projectID string) (services.Report, error) {
	snap, err := services.LoadSnapshot(app, projectID)
	if err != nil {
		return services.Report{}, err
	}
	return snap.Report()
}

// writeAttachment sends data as a file download.
func writeAttachment(e *core.RequestEvent, contentType, filename string, data []byte) error {
	disposition := mime.FormatMediaType("attachment", map[string]string{"filename": filename})
	if disposition == "" {
		disposition = "attachment"
	}
	e.Response.Header().Set("Content-Disposition", disposition)
	return e.Blob(http.StatusOK, contentType, data)
}

// HandleProjectExportExcel returns a handler that downloads the project
// report as a workbook with Summary, Labor Details, Rates and Materials sheets.
func HandleProjectExportExcel(app *pocketbase.PocketBase, opts services.RenderOptions) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		projectID := e.Request.PathValue("id")

		report, err := loadReport(app, projectID)
		if err != nil {
			return serviceErrorJSON(e, "export_excel", "Project not found", err)
		}

		xlsxBytes, err := services.RenderExcel(report, opts)
		if err != nil {
			app.Logger().Error("export_excel: failed to generate", "project", projectID, "error", err)
			return ErrorJSON(e, http.StatusInternalServerError, "Failed to generate Excel file")
		}

		return writeAttachment(e, services.ExcelContentType, services.ExportFilename(report.Title, "xlsx"), xlsxBytes)
	}
}

// HandleProjectExportPDF returns a handler that downloads the project report
// as a PDF.
func HandleProjectExportPDF(app *pocketbase.PocketBase, opts services.RenderOptions) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		projectID := e.Request.PathValue("id")

		report, err := loadReport(app, projectID)
		if err != nil {
			return serviceErrorJSON(e, "export_pdf", "Project not found", err)
		}

		pdfBytes, err := services.RenderPDF(report, opts)
		if err != nil {
			app.Logger().Error("export_pdf: failed to generate", "project", projectID, "error", err)
			return ErrorJSON(e, http.StatusInternalServerError, "Failed to generate PDF file")
		}

		return writeAttachment(e, services.PDFContentType, services.ExportFilename(report.Title, "pdf"), pdfBytes)
	}
}

// HandleProjectExportJSON returns the report document itself.
func HandleProjectExportJSON(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		report, err := loadReport(app, e.Request.PathValue("id"))
		if err != nil {
			return serviceErrorJSON(e, "export_json", "Project not found", err)
		}
		return e.JSON(http.StatusOK, report)
	}
}
