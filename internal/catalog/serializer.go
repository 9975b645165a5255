package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/harrison/featurelist/internal/filelock"
	"github.com/harrison/featurelist/internal/models"
)

// FileMode is the permission of written catalog documents
const FileMode os.FileMode = 0644

// WriteResult reports what Write put on disk
type WriteResult struct {
	Path    string
	Records int
	Bytes   int
}

// Encode renders the canonical JSON form of a catalog: two-space indent,
// no HTML escaping, trailing newline.
func Encode(c models.Catalog) ([]byte, error) {
	if c.Categories == nil {
		c.Categories = models.NewCategoryCounts()
	}
	if c.Features == nil {
		c.Features = []models.FeatureRecord{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(c); err != nil {
		return nil, fmt.Errorf("encode catalog: %w", err)
	}
	return buf.Bytes(), nil
}

// Write verifies the catalog, renders it, and replaces destination with the
// result. The write is not a merge: destination ends up holding exactly c.
// If anything goes wrong on disk the previous file stays intact and the error
// wraps models.ErrIOFailure.
func Write(c models.Catalog, destination string) (WriteResult, error) {
	if err := Verify(c); err != nil {
		return WriteResult{}, err
	}

	data, err := Encode(c)
	if err != nil {
		return WriteResult{}, err
	}

	if err := filelock.LockAndWrite(destination, data, FileMode); err != nil {
		return WriteResult{}, fmt.Errorf("%w: write %s: %v", models.ErrIOFailure, destination, err)
	}

	return WriteResult{
		Path:    destination,
		Records: len(c.Features),
		Bytes:   len(data),
	}, nil
}

// Decode parses a catalog document and verifies its invariants
func Decode(data []byte) (models.Catalog, error) {
	var c models.Catalog
	if err := json.Unmarshal(data, &c); err != nil {
		return models.Catalog{}, fmt.Errorf("%w: %v", models.ErrInvalidCatalog, err)
	}
	if c.Categories == nil {
		c.Categories = models.NewCategoryCounts()
	}
	if err := Verify(c); err != nil {
		return models.Catalog{}, err
	}
	return c, nil
}

// Load reads and verifies the catalog at path.
// A missing file is reported with an error satisfying errors.Is(err, os.ErrNotExist).
func Load(path string) (models.Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return models.Catalog{}, fmt.Errorf("load %s: %w", path, err)
		}
		return models.Catalog{}, fmt.Errorf("%w: read %s: %v", models.ErrIOFailure, path, err)
	}

	c, err := Decode(data)
	if err != nil {
		return models.Catalog{}, fmt.Errorf("load %s: %w", path, err)
	}
	return c, nil
}

// Restore rebuilds a Builder from a previously written catalog so it can be
// extended. Ids continue after the highest stored id, category counts are
// recounted from the records, and stored passes values are kept as found.
func Restore(c models.Catalog) (*Builder, error) {
	if err := Verify(c); err != nil {
		return nil, err
	}

	b := newBuilderWithAllocator(NewAllocatorFrom(c.MaxID()))
	for _, f := range c.Features {
		f.Steps = f.StepsCopy()
		b.records = append(b.records, f)
		b.registrar.Register(f.Category)
	}
	return b, nil
}
