package handlers

import (
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// RequestLogger logs method, path, status and duration of every request
// through the app's structured logger.
func RequestLogger(app *pocketbase.PocketBase) func(e *core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		start := time.Now()
		err := e.Next()

		attrs := []any{
			"method", e.Request.Method,
			"path", e.Request.URL.Path,
			"status", e.Status(),
			"duration", time.Since(start).String(),
		}
		if err != nil {
			app.Logger().Warn("request failed", append(attrs, "error", err)...)
		} else {
			app.Logger().Debug("request", attrs...)
		}
		return err
	}
}
