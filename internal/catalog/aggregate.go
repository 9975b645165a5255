package catalog

import (
	"fmt"
	"time"

	"github.com/harrison/featurelist/internal/models"
)

// DateFormat is the layout of the catalog's last_updated field
const DateFormat = "2006-01-02"

// Metadata carries the descriptive fields of a catalog document
type Metadata struct {
	Project   string
	Version   string
	Timestamp time.Time
}

// Build derives a catalog document from the current record sequence.
// Totals and category counts are recomputed on every call; calling Build
// twice without adding records yields the same counts.
func (b *Builder) Build(meta Metadata) models.Catalog {
	return models.Catalog{
		Project:       meta.Project,
		Version:       meta.Version,
		TotalFeatures: len(b.records),
		LastUpdated:   meta.Timestamp.Format(DateFormat),
		Categories:    b.registrar.Snapshot(),
		Features:      b.Records(),
	}
}

// Verify checks a catalog document against its invariants: total matches
// the record count, category counts match the records, ids strictly
// increase, and every record is valid. Violations wrap models.ErrInvalidCatalog.
func Verify(c models.Catalog) error {
	if c.TotalFeatures != len(c.Features) {
		return fmt.Errorf("%w: total_features is %d but %d features are listed",
			models.ErrInvalidCatalog, c.TotalFeatures, len(c.Features))
	}

	derived := models.NewCategoryCounts()
	prev := 0
	for i := range c.Features {
		f := &c.Features[i]
		if err := f.Validate(); err != nil {
			return fmt.Errorf("%w: %v", models.ErrInvalidCatalog, err)
		}
		if f.ID <= prev {
			return fmt.Errorf("%w: feature id %d follows %d, ids must strictly increase",
				models.ErrInvalidCatalog, f.ID, prev)
		}
		prev = f.ID
		derived.Add(f.Category, 1)
	}

	declared := c.Categories
	if declared.Len() != derived.Len() {
		return fmt.Errorf("%w: %d categories declared but features use %d",
			models.ErrInvalidCatalog, declared.Len(), derived.Len())
	}
	for _, cat := range derived.Keys() {
		want, _ := derived.Get(cat)
		got, ok := declared.Get(cat)
		if !ok {
			return fmt.Errorf("%w: category %q is missing from categories", models.ErrInvalidCatalog, cat)
		}
		if got != want {
			return fmt.Errorf("%w: category %q declares %d features but has %d",
				models.ErrInvalidCatalog, cat, got, want)
		}
	}
	return nil
}
