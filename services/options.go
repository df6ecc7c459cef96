package services

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase/core"
)

// Options are the dropdown values offered by the editing UI.
type Options struct {
	Units      []string `json:"units"`
	Roles      []string `json:"roles"`
	Categories []string `json:"categories"`
}

// LoadOptions returns the rate units, the defined roles and every material
// category in use across project items and the catalogue.
func LoadOptions(app core.App) (Options, error) {
	rates, err := ListRates(app)
	if err != nil {
		return Options{}, err
	}

	categories, err := MaterialCategories(app)
	if err != nil {
		return Options{}, err
	}

	return Options{
		Units:      append([]string(nil), RateUnits...),
		Roles:      RoleColumns(rates),
		Categories: categories,
	}, nil
}

// MaterialCategories returns the distinct non-empty categories of material
// items and global materials, sorted case-insensitively.
func MaterialCategories(app core.App) ([]string, error) {
	seen := make(map[string]bool)
	var categories []string

	for _, collection := range []string{"material_items", "global_materials"} {
		var rows []struct {
			Category string `db:"category"`
		}
		err := app.DB().
			Select("category").
			Distinct(true).
			From(collection).
			Where(dbx.NewExp("category != ''")).
			All(&rows)
		if err != nil {
			return nil, fmt.Errorf("list %s categories: %w", collection, err)
		}
		for _, r := range rows {
			c := strings.TrimSpace(r.Category)
			if c == "" || seen[c] {
				continue
			}
			seen[c] = true
			categories = append(categories, c)
		}
	}

	sort.Slice(categories, func(i, j int) bool {
		return strings.ToLower(categories[i]) < strings.ToLower(categories[j])
	})
	return categories, nil
}
