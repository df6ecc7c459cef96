package handlers

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/pocketbase/pocketbase/core"

	"romplanner/services"
)

// uniqueViolationCode is the validation code PocketBase reports when a save
// hits a unique index.
const uniqueViolationCode = "validation_not_unique"

// ErrorJSON writes {"detail": message} with the given status.
func ErrorJSON(e *core.RequestEvent, statusCode int, message string) error {
	return e.JSON(statusCode, map[string]any{"detail": message})
}

// ValidationErrorJSON writes a 400 with one message per invalid field when err
// is a validation.Errors, or a plain detail otherwise.
func ValidationErrorJSON(e *core.RequestEvent, err error) error {
	var verrs validation.Errors
	if !errors.As(err, &verrs) {
		return ErrorJSON(e, http.StatusBadRequest, err.Error())
	}

	fields := make(map[string]string, len(verrs))
	for field, ferr := range verrs {
		if ferr != nil {
			fields[field] = ferr.Error()
		}
	}
	return e.JSON(http.StatusBadRequest, map[string]any{
		"detail": "Validation failed",
		"errors": fields,
	})
}

// serviceErrorJSON maps services sentinel errors to HTTP statuses. Anything
// unrecognized is logged and reported as a 500.
func serviceErrorJSON(e *core.RequestEvent, op string, notFound string, err error) error {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return ErrorJSON(e, http.StatusNotFound, notFound)
	case errors.Is(err, services.ErrInvalidInput):
		return ErrorJSON(e, http.StatusBadRequest, detailOf(err, services.ErrInvalidInput))
	case errors.Is(err, services.ErrConflict):
		return ErrorJSON(e, http.StatusConflict, detailOf(err, services.ErrConflict))
	}
	e.App.Logger().Error(op+": failed", "error", err)
	return ErrorJSON(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
}

// detailOf drops the trailing sentinel text from a wrapped error message.
func detailOf(err, sentinel error) string {
	return strings.TrimSuffix(err.Error(), ": "+sentinel.Error())
}

// conflictDetail is the response detail for a services conflict error.
func conflictDetail(err error) string {
	return detailOf(err, services.ErrConflict)
}

// isUniqueViolation reports whether a save error came from a unique index.
func isUniqueViolation(err error) bool {
	var verrs validation.Errors
	if !errors.As(err, &verrs) {
		return false
	}
	for _, ferr := range verrs {
		var verr validation.Error
		if errors.As(ferr, &verr) && verr.Code() == uniqueViolationCode {
			return true
		}
	}
	return false
}

// saveErrorJSON answers a failed Save: unique index hits become a 409 with
// conflict as the detail, field errors a 400, anything else a logged 500.
func saveErrorJSON(e *core.RequestEvent, op string, conflict string, err error) error {
	if isUniqueViolation(err) {
		return ErrorJSON(e, http.StatusConflict, conflict)
	}
	var verrs validation.Errors
	if errors.As(err, &verrs) {
		return ValidationErrorJSON(e, verrs)
	}
	e.App.Logger().Error(op+": save failed", "error", err)
	return ErrorJSON(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
}

// findRecord loads a record by id, turning a missing row into
// services.ErrNotFound.
func findRecord(app core.App, collection, id string) (*core.Record, error) {
	record, err := app.FindRecordById(collection, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s %s: %w", collection, id, services.ErrNotFound)
		}
		return nil, fmt.Errorf("find %s %s: %w", collection, id, err)
	}
	return record, nil
}
