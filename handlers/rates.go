package handlers

import (
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"romplanner/services"
)

// HandleRateList returns all rates ordered by role.
// Route: GET /rates
func HandleRateList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		rates, err := services.ListRates(app)
		if err != nil {
			return serviceErrorJSON(e, "rate_list", "", err)
		}
		return e.JSON(http.StatusOK, rates)
	}
}

// HandleRateSave creates a rate, or updates the amount and unit of the rate
// already defined for the role.
// Route: POST /rates
func HandleRateSave(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var in RateInput
		if handled, err := bindInput(e, &in); handled {
			return err
		}

		record, _ := app.FindFirstRecordByData("rates", "role", in.Role)
		if record == nil {
			col, err := app.FindCollectionByNameOrId("rates")
			if err != nil {
				return serviceErrorJSON(e, "rate_save", "", err)
			}
			record = core.NewRecord(col)
		}
		in.Apply(record)

		if err := app.Save(record); err != nil {
			return saveErrorJSON(e, "rate_save", conflictDetail(services.RoleConflict(in.Role)), err)
		}

		app.Logger().Info("rate saved", "rate", record.Id, "role", in.Role, "unit", in.Unit)
		return e.JSON(http.StatusCreated, services.RateFromRecord(record))
	}
}

// HandleRateUpdate applies a partial update to a rate.
// Route: PUT /rates/{id}
func HandleRateUpdate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		rateID := e.Request.PathValue("id")

		record, err := findRecord(app, "rates", rateID)
		if err != nil {
			return serviceErrorJSON(e, "rate_update", "Rate not found", err)
		}

		var patch RatePatch
		if handled, err := bindInput(e, &patch); handled {
			return err
		}

		if patch.Role != nil && *patch.Role != record.GetString("role") {
			if err := services.CheckRateRole(app, *patch.Role, rateID); err != nil {
				return serviceErrorJSON(e, "rate_update", "", err)
			}
		}

		patch.Apply(record)
		if err := app.Save(record); err != nil {
			return saveErrorJSON(e, "rate_update", conflictDetail(services.RoleConflict(record.GetString("role"))), err)
		}

		return e.JSON(http.StatusOK, services.RateFromRecord(record))
	}
}

// HandleRateDelete removes a rate. Task efforts naming the role are kept and
// simply stop costing anything.
// Route: DELETE /rates/{id}
func HandleRateDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		record, err := findRecord(app, "rates", e.Request.PathValue("id"))
		if err != nil {
			return serviceErrorJSON(e, "rate_delete", "Rate not found", err)
		}

		if err := app.Delete(record); err != nil {
			return serviceErrorJSON(e, "rate_delete", "Rate not found", err)
		}
		return e.NoContent(http.StatusNoContent)
	}
}
