package models

import (
	"fmt"
	"strings"
)

// Priority is the importance tier of a feature test case
type Priority string

const (
	// PriorityHigh marks a test case that blocks a release
	PriorityHigh Priority = "high"
	// PriorityMedium marks a test case that should pass before release
	PriorityMedium Priority = "medium"
	// PriorityLow marks a nice-to-have test case
	PriorityLow Priority = "low"
)

// Priorities lists every valid tier in descending importance
var Priorities = []Priority{PriorityHigh, PriorityMedium, PriorityLow}

// ParsePriority converts an authored tier name into a Priority.
// Surrounding whitespace is ignored; matching is case sensitive.
func ParsePriority(s string) (Priority, error) {
	p := Priority(strings.TrimSpace(s))
	if !p.IsValid() {
		return "", fmt.Errorf("%w: %q (must be one of: high, medium, low)", ErrInvalidPriority, s)
	}
	return p, nil
}

// IsValid returns true if p is one of the enumerated tiers
func (p Priority) IsValid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	default:
		return false
	}
}

// String returns the tier name
func (p Priority) String() string {
	return string(p)
}

// FeatureRecord is one manual test case in the catalog.
// Category, Description, Priority and Steps never change after creation;
// Passes belongs to whoever executes the tests.
type FeatureRecord struct {
	ID          int      `json:"id"`
	Category    string   `json:"category"`
	Description string   `json:"description"`
	Priority    Priority `json:"priority"`
	Steps       []string `json:"test_steps"`
	Passes      bool     `json:"passes"`
}

// Validate checks that the record satisfies the catalog invariants
func (r *FeatureRecord) Validate() error {
	if r.ID <= 0 {
		return fmt.Errorf("feature id must be positive, got %d", r.ID)
	}
	if !r.Priority.IsValid() {
		return fmt.Errorf("feature %d: %w: %q", r.ID, ErrInvalidPriority, r.Priority)
	}
	if err := CheckSteps(r.Steps); err != nil {
		return fmt.Errorf("feature %d: %w", r.ID, err)
	}
	return nil
}

// CheckSteps rejects an empty step list and empty step strings
func CheckSteps(steps []string) error {
	if len(steps) == 0 {
		return ErrInvalidSteps
	}
	for i, s := range steps {
		if s == "" {
			return fmt.Errorf("%w: step %d is empty", ErrInvalidSteps, i+1)
		}
	}
	return nil
}

// StepsCopy returns a copy of the test steps that callers may modify
func (r *FeatureRecord) StepsCopy() []string {
	steps := make([]string, len(r.Steps))
	copy(steps, r.Steps)
	return steps
}
