package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/harrison/featurelist/internal/catalog"
	"github.com/harrison/featurelist/internal/display"
	"github.com/harrison/featurelist/internal/models"
	"github.com/harrison/featurelist/internal/parser"
)

// validationSource is one named group of batches to check
type validationSource struct {
	name    string
	batches []models.Batch
	err     error
}

// NewValidateCommand creates and returns the validate subcommand
func NewValidateCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "validate [batch-file-or-directory]...",
		Short: "Check batch sources without writing a catalog",
		Long: `Parse batch sources and run them through a throwaway builder, checking for:
  - Unknown priority tiers
  - Features without test steps
  - Declared counts that differ from the authored features
  - Batch files without a numeric prefix

With no arguments the configured phases (or the embedded catalog) are checked.

Exit code: 0 if valid, 1 if errors found`,
		RunE: func(cmd *cobra.Command, args []string) error {
			sources, err := collectSources(args, configPath, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			return validateSources(sources, cmd.OutOrStdout())
		},
		SilenceUsage: true,
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Path to config file (default: .featurelist/config.yaml)")

	return cmd
}

// collectSources parses the given paths, or the configured phases when none are given
func collectSources(paths []string, configPath string, output io.Writer) ([]validationSource, error) {
	workDir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}

	if len(paths) == 0 {
		cfg, err := loadConfig(configPath)
		if err != nil {
			return nil, err
		}
		phases, err := loadPhases(cfg, workDir)
		if err != nil {
			return nil, err
		}
		sources := make([]validationSource, 0, len(phases))
		for _, p := range phases {
			sources = append(sources, validationSource{name: "phase " + p.Name, batches: p.Batches})
		}
		return sources, nil
	}

	sources := make([]validationSource, 0, len(paths))
	for _, p := range paths {
		batches, err := parser.ParsePath(workDir, p)
		sources = append(sources, validationSource{name: p, batches: batches, err: err})

		if info, statErr := os.Stat(p); statErr == nil && info.IsDir() {
			if unnumbered, _ := display.FindUnnumberedFiles(os.DirFS(p), "."); len(unnumbered) > 0 {
				display.WarnUnnumberedFiles(filepath.Clean(p), unnumbered).Display(output)
			}
		}
	}
	return sources, nil
}

// validateSources dry-runs every batch and reports counts, mismatches and errors
func validateSources(sources []validationSource, output io.Writer) error {
	progress := display.NewProgressIndicator(output, len(sources))
	progress.Start()

	var batches []models.Batch
	var failures []error
	for _, src := range sources {
		if src.err != nil {
			progress.Fail(src.name, src.err)
			failures = append(failures, src.err)
			continue
		}
		progress.Step(src.name, len(src.batches))
		batches = append(batches, src.batches...)
	}

	entries := 0
	for _, b := range batches {
		entries += len(b.Entries)
	}
	progress.Complete(entries)

	builder := catalog.NewBuilder()
	for _, batch := range batches {
		if _, err := builder.AddBatch(batch); err != nil {
			failures = append(failures, err)
		}
	}

	counts := builder.Counts()
	if counts.Len() > 0 {
		fmt.Fprintf(output, "\nCategories:\n")
		for _, cat := range counts.Keys() {
			n, _ := counts.Get(cat)
			fmt.Fprintf(output, "  %-32s %4d\n", cat, n)
		}
	}
	fmt.Fprintf(output, "\nTotal: %d features in %d categories\n", builder.Len(), counts.Len())

	if mismatches := catalog.DeclaredMismatches(batches); len(mismatches) > 0 {
		display.WarnCountMismatch(mismatches).Display(output)
	}

	if len(failures) > 0 {
		fmt.Fprintf(output, "\n\x1b[31m✗ Found %d error(s):\x1b[0m\n", len(failures))
		for _, err := range failures {
			fmt.Fprintf(output, "  - %v\n", err)
		}
		return fmt.Errorf("validation failed with %d error(s)", len(failures))
	}

	fmt.Fprintf(output, "\x1b[32m✓\x1b[0m All batches valid\n")
	return nil
}
