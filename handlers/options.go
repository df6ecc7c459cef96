package handlers

import (
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"romplanner/services"
)

// HandleOptions returns the dropdown values for the editing UI: rate units,
// defined roles and material categories in use.
// Route: GET /options
func HandleOptions(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		opts, err := services.LoadOptions(app)
		if err != nil {
			return serviceErrorJSON(e, "options", "", err)
		}
		return e.JSON(http.StatusOK, opts)
	}
}
