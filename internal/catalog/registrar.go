package catalog

import "github.com/harrison/featurelist/internal/models"

// Registrar tracks how many records belong to each category.
// It is a cache over the record sequence, kept in step by the Builder.
type Registrar struct {
	counts *models.CategoryCounts
}

// NewRegistrar creates an empty Registrar
func NewRegistrar() *Registrar {
	return &Registrar{counts: models.NewCategoryCounts()}
}

// Register counts one more record for category
func (r *Registrar) Register(category string) {
	r.counts.Add(category, 1)
}

// Count returns the number of records registered for category
func (r *Registrar) Count(category string) int {
	n, _ := r.counts.Get(category)
	return n
}

// Len returns the number of distinct categories seen
func (r *Registrar) Len() int {
	return r.counts.Len()
}

// Snapshot returns a copy of the current counts in first-appearance order
func (r *Registrar) Snapshot() *models.CategoryCounts {
	return r.counts.Clone()
}
