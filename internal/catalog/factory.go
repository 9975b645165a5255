package catalog

import (
	"github.com/harrison/featurelist/internal/models"
)

// Factory turns authored fields into feature records
type Factory struct {
	ids *Allocator
}

// NewFactory creates a Factory that draws ids from ids
func NewFactory(ids *Allocator) *Factory {
	return &Factory{ids: ids}
}

// Create validates the authored fields and returns a new record with a fresh id.
// Validation runs before allocation, so a rejected entry never consumes an id.
func (f *Factory) Create(category, description, priority string, steps []string) (models.FeatureRecord, error) {
	p, err := models.ParsePriority(priority)
	if err != nil {
		return models.FeatureRecord{}, err
	}
	if err := models.CheckSteps(steps); err != nil {
		return models.FeatureRecord{}, err
	}

	owned := make([]string, len(steps))
	copy(owned, steps)

	return models.FeatureRecord{
		ID:          f.ids.Next(),
		Category:    category,
		Description: description,
		Priority:    p,
		Steps:       owned,
		Passes:      false,
	}, nil
}

// validateEntry runs the same checks as Create without allocating
func validateEntry(e models.Entry) error {
	if _, err := models.ParsePriority(e.Priority); err != nil {
		return err
	}
	return models.CheckSteps(e.Steps)
}
