package services

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/pocketbase/pocketbase/core"
)

// ProjectNameConflict is the error for a project name that is already taken.
func ProjectNameConflict(name string) error {
	return fmt.Errorf("Project with name '%s' already exists.: %w", name, ErrConflict)
}

// RoleConflict is the error for a rate role that is already taken.
func RoleConflict(role string) error {
	return fmt.Errorf("Role '%s' already exists for another rate.: %w", role, ErrConflict)
}

// GlobalMaterialConflict is the error for a catalogue name that is already taken.
func GlobalMaterialConflict(name string) error {
	return fmt.Errorf("Global material with name '%s' already exists.: %w", name, ErrConflict)
}

// CheckProjectName returns ProjectNameConflict when another project already
// uses name. excludeID is the project being renamed, empty on create.
func CheckProjectName(app core.App, name, excludeID string) error {
	return checkUnique(app, "projects", "name", name, excludeID, ProjectNameConflict(name))
}

// CheckRateRole returns RoleConflict when another rate already uses role.
func CheckRateRole(app core.App, role, excludeID string) error {
	return checkUnique(app, "rates", "role", role, excludeID, RoleConflict(role))
}

// CheckGlobalMaterialName returns GlobalMaterialConflict when another
// catalogue entry already uses name.
func CheckGlobalMaterialName(app core.App, name, excludeID string) error {
	return checkUnique(app, "global_materials", "name", name, excludeID, GlobalMaterialConflict(name))
}

func checkUnique(app core.App, collection, field, value, excludeID string, conflict error) error {
	existing, err := app.FindFirstRecordByData(collection, field, value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		return fmt.Errorf("check %s %s: %w", collection, field, err)
	}
	if existing.Id == excludeID {
		return nil
	}
	return conflict
}
