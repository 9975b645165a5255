package cmd

import (
	"github.com/spf13/cobra"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// NewRootCommand creates and returns the root cobra command for featurelist.
// Running it without a subcommand generates the catalog.
func NewRootCommand() *cobra.Command {
	opts := &generateOptions{}

	cmd := &cobra.Command{
		Use:   "featurelist",
		Short: "Build the manual feature-test catalog",
		Long: `Featurelist assembles authored feature test cases into a single JSON
catalog of numbered records with per-category counts.

Test cases are authored as YAML or Markdown batches. Each build phase adds
its batches and rewrites the catalog, so later phases extend the numbering
of earlier ones without renumbering anything.

Running featurelist with no arguments builds the embedded catalog and
writes feature_list.json in the current directory.`,
		Version: Version,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, opts)
		},
		// main prints the error; silence cobra's copy and the usage text
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	addGenerateFlags(cmd, opts)

	cmd.AddCommand(NewGenerateCommand())
	cmd.AddCommand(NewValidateCommand())
	cmd.AddCommand(NewHistoryCommand())

	return cmd
}
