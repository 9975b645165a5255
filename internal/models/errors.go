package models

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidPriority is returned when a tier outside high/medium/low is supplied
	ErrInvalidPriority = errors.New("invalid priority")

	// ErrInvalidSteps is returned when a feature has no test steps
	ErrInvalidSteps = errors.New("invalid steps: at least one test step is required")

	// ErrIOFailure is returned when the catalog destination cannot be written
	ErrIOFailure = errors.New("io failure")

	// ErrInvalidCatalog is returned when a catalog document breaks its own invariants
	ErrInvalidCatalog = errors.New("invalid catalog")
)

// RecordError reports which authored entry failed to become a record.
// It unwraps to the underlying validation error.
type RecordError struct {
	Category string // Category of the failing batch
	Index    int    // Zero-based position of the entry inside its batch
	Source   string // Batch source file, empty for in-code batches
	Err      error
}

// Error implements the error interface for RecordError.
func (e *RecordError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("%s: category %q entry %d: %v", e.Source, e.Category, e.Index+1, e.Err)
	}
	return fmt.Sprintf("category %q entry %d: %v", e.Category, e.Index+1, e.Err)
}

// Unwrap returns the underlying validation error
func (e *RecordError) Unwrap() error {
	return e.Err
}
