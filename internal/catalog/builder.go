// Package catalog assembles feature test cases into a catalog document.
//
// A Builder owns everything that changes while a catalog is assembled: the
// ordered record sequence, the id allocator and the per-category counts.
// Records are only ever appended. Extending a catalog means adding more
// records to the same Builder and calling Build again; metadata is always
// derived from the live record sequence.
package catalog

import (
	"github.com/harrison/featurelist/internal/models"
)

// Builder is the owned context for one catalog
type Builder struct {
	records   []models.FeatureRecord
	ids       *Allocator
	factory   *Factory
	registrar *Registrar
}

// NewBuilder creates an empty Builder whose first id is 1
func NewBuilder() *Builder {
	return newBuilderWithAllocator(NewAllocator())
}

func newBuilderWithAllocator(ids *Allocator) *Builder {
	return &Builder{
		ids:       ids,
		factory:   NewFactory(ids),
		registrar: NewRegistrar(),
	}
}

// Add creates one record under category and appends it.
// Nothing changes if the entry is rejected.
func (b *Builder) Add(category string, entry models.Entry) (models.FeatureRecord, error) {
	rec, err := b.factory.Create(category, entry.Description, entry.Priority, entry.Steps)
	if err != nil {
		return models.FeatureRecord{}, err
	}
	b.records = append(b.records, rec)
	b.registrar.Register(rec.Category)
	return rec, nil
}

// AddBatch appends every entry of batch in order.
// The batch is checked up front; if any entry is invalid no record is
// created and a *models.RecordError naming the first bad entry is returned.
func (b *Builder) AddBatch(batch models.Batch) ([]models.FeatureRecord, error) {
	for i, e := range batch.Entries {
		if err := validateEntry(e); err != nil {
			return nil, &models.RecordError{Category: batch.Category, Index: i, Source: batch.Source, Err: err}
		}
	}

	added := make([]models.FeatureRecord, 0, len(batch.Entries))
	for i, e := range batch.Entries {
		rec, err := b.Add(batch.Category, e)
		if err != nil {
			return added, &models.RecordError{Category: batch.Category, Index: i, Source: batch.Source, Err: err}
		}
		added = append(added, rec)
	}
	return added, nil
}

// AddPhase validates every batch of the phase, then appends them in order.
// A phase is all-or-nothing.
func (b *Builder) AddPhase(phase models.Phase) (int, error) {
	for _, batch := range phase.Batches {
		for i, e := range batch.Entries {
			if err := validateEntry(e); err != nil {
				return 0, &models.RecordError{Category: batch.Category, Index: i, Source: batch.Source, Err: err}
			}
		}
	}

	added := 0
	for _, batch := range phase.Batches {
		recs, err := b.AddBatch(batch)
		added += len(recs)
		if err != nil {
			return added, err
		}
	}
	return added, nil
}

// Records returns a copy of the record sequence in creation order
func (b *Builder) Records() []models.FeatureRecord {
	out := make([]models.FeatureRecord, len(b.records))
	for i, r := range b.records {
		r.Steps = r.StepsCopy()
		out[i] = r
	}
	return out
}

// Len returns the number of records
func (b *Builder) Len() int {
	return len(b.records)
}

// LastID returns the highest id assigned so far, 0 if none
func (b *Builder) LastID() int {
	return b.ids.Last()
}

// Counts returns the current per-category counts
func (b *Builder) Counts() *models.CategoryCounts {
	return b.registrar.Snapshot()
}

// Mismatch describes a category whose declared count disagrees with the
// entries authored for it
type Mismatch struct {
	Category string
	Declared int
	Actual   int
	Source   string
}

// DeclaredMismatches compares the declared counts of batches with the entries
// those same batches hold. Batches without a declared count are skipped and
// batches sharing a category are summed. Records from earlier phases never
// count, so a category that recurs across phases is checked phase by phase.
func DeclaredMismatches(batches []models.Batch) []Mismatch {
	declared := models.NewCategoryCounts()
	authored := make(map[string]int)
	sources := make(map[string]string)
	for _, batch := range batches {
		authored[batch.Category] += len(batch.Entries)
		if batch.Expected <= 0 {
			continue
		}
		declared.Add(batch.Category, batch.Expected)
		if _, ok := sources[batch.Category]; !ok {
			sources[batch.Category] = batch.Source
		}
	}

	var out []Mismatch
	for _, cat := range declared.Keys() {
		want, _ := declared.Get(cat)
		if got := authored[cat]; want != got {
			out = append(out, Mismatch{Category: cat, Declared: want, Actual: got, Source: sources[cat]})
		}
	}
	return out
}
