// Package seed embeds the authored test catalog of the World Cup 2026
// prediction game. Batches live under batches/<phase>/ as numbered YAML files.
package seed

import (
	"embed"
	"fmt"
	"io/fs"
	"path"

	"github.com/harrison/featurelist/internal/models"
	"github.com/harrison/featurelist/internal/parser"
)

//go:embed batches
var batchFS embed.FS

const (
	// Project is the catalog's project name
	Project = "World Cup 2026 Prediction Game"
	// Version is the catalog's version string
	Version = "1.0.0"
)

// PhaseNames lists the embedded phases in build order
var PhaseNames = []string{"initial", "extension"}

// FS returns the embedded batch tree rooted at batches/
func FS() fs.FS {
	sub, err := fs.Sub(batchFS, "batches")
	if err != nil {
		panic(fmt.Sprintf("seed: embedded batches missing: %v", err))
	}
	return sub
}

// Phase parses one embedded phase
func Phase(name string) (models.Phase, error) {
	batches, err := parser.ParseDirectory(FS(), name)
	if err != nil {
		return models.Phase{}, fmt.Errorf("seed phase %s: %w", name, err)
	}
	if len(batches) == 0 {
		return models.Phase{}, fmt.Errorf("seed phase %s: no batches", name)
	}
	for i := range batches {
		batches[i].Source = path.Join("seed", batches[i].Source)
	}
	return models.Phase{Name: name, Batches: batches}, nil
}

// Phases parses every embedded phase in build order
func Phases() ([]models.Phase, error) {
	phases := make([]models.Phase, 0, len(PhaseNames))
	for _, name := range PhaseNames {
		p, err := Phase(name)
		if err != nil {
			return nil, err
		}
		phases = append(phases, p)
	}
	return phases, nil
}
