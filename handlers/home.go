package handlers

import (
	"net/http"

	"github.com/pocketbase/pocketbase/core"
)

// HandleHome greets API clients.
// Route: GET /
func HandleHome(appName string) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		return e.JSON(http.StatusOK, map[string]any{
			"message": "Welcome to the " + appName + " API",
		})
	}
}

// HandleHealth reports liveness.
// Route: GET /healthz
func HandleHealth(e *core.RequestEvent) error {
	return e.JSON(http.StatusOK, map[string]any{"status": "ok"})
}
