package collections

import (
	"fmt"
	"log"
	"strings"

	"github.com/pocketbase/pocketbase/core"
)

// legacyUnits maps unit spellings found in older databases onto the two
// canonical values.
var legacyUnits = map[string]string{
	"":      "day",
	"d":     "day",
	"day":   "day",
	"days":  "day",
	"h":     "hour",
	"hr":    "hour",
	"hrs":   "hour",
	"hour":  "hour",
	"hours": "hour",
}

// MigrateRateUnits rewrites rate records whose unit is not exactly "day" or
// "hour". Unknown spellings fall back to "day".
// Safe to call on every startup -- returns early if nothing to migrate.
func MigrateRateUnits(app core.App) error {
	ratesCol, err := app.FindCollectionByNameOrId("rates")
	if err != nil {
		return fmt.Errorf("migrate: could not find rates collection: %w", err)
	}

	stale, err := app.FindRecordsByFilter(
		ratesCol,
		"unit != 'day' && unit != 'hour'",
		"",
		0,
		0,
		nil,
	)
	if err != nil {
		return fmt.Errorf("migrate: could not query rate units: %w", err)
	}

	if len(stale) == 0 {
		return nil
	}

	log.Printf("migrate: found %d rate(s) with a non-canonical unit -- normalizing...\n", len(stale))

	for _, rate := range stale {
		old := rate.GetString("unit")
		unit, ok := legacyUnits[strings.ToLower(strings.TrimSpace(old))]
		if !ok {
			unit = "day"
		}

		rate.Set("unit", unit)
		if err := app.Save(rate); err != nil {
			log.Printf("migrate: failed to normalize rate %q (%s): %v\n", rate.GetString("role"), rate.Id, err)
			continue
		}

		log.Printf("migrate: rate %q unit %q -> %q\n", rate.GetString("role"), old, unit)
	}

	log.Println("migrate: rate unit normalization complete.")
	return nil
}
