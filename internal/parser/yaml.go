package parser

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/harrison/featurelist/internal/models"
)

// YAMLParser reads authored batches from YAML. A file holds either one batch
// at the top level or a list under "batches":
//
//	category: Authentication
//	expected: 2
//	features:
//	  - description: User can log in
//	    priority: high
//	    steps:
//	      - Navigate to /login
type YAMLParser struct{}

type yamlFeature struct {
	Description string   `yaml:"description"`
	Priority    string   `yaml:"priority"`
	Steps       []string `yaml:"steps"`
}

type yamlBatch struct {
	Category string        `yaml:"category"`
	Expected int           `yaml:"expected"`
	Features []yamlFeature `yaml:"features"`
}

type yamlBatchFile struct {
	yamlBatch `yaml:",inline"`
	Batches   []yamlBatch `yaml:"batches"`
}

// NewYAMLParser creates a YAMLParser
func NewYAMLParser() *YAMLParser {
	return &YAMLParser{}
}

// Parse reads YAML batches from r. Unknown keys are rejected so typos in
// authored content surface instead of silently dropping fields.
func (p *YAMLParser) Parse(r io.Reader, source string) ([]models.Batch, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var file yamlBatchFile
	if err := dec.Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	raw := file.Batches
	if file.Category != "" || len(file.Features) > 0 {
		if len(raw) > 0 {
			return nil, fmt.Errorf("file mixes a top-level category with a batches list")
		}
		raw = []yamlBatch{file.yamlBatch}
	}

	batches := make([]models.Batch, 0, len(raw))
	for i, yb := range raw {
		if yb.Category == "" {
			return nil, fmt.Errorf("batch %d: category is required", i+1)
		}
		if yb.Expected < 0 {
			return nil, fmt.Errorf("batch %q: expected must be >= 0, got %d", yb.Category, yb.Expected)
		}

		batch := models.Batch{
			Category: yb.Category,
			Expected: yb.Expected,
			Entries:  make([]models.Entry, 0, len(yb.Features)),
			Source:   source,
		}
		for _, f := range yb.Features {
			batch.Entries = append(batch.Entries, models.Entry{
				Description: f.Description,
				Priority:    f.Priority,
				Steps:       f.Steps,
			})
		}
		batches = append(batches, batch)
	}
	return batches, nil
}
