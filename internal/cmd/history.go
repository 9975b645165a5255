package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harrison/featurelist/internal/config"
	"github.com/harrison/featurelist/internal/history"
)

// NewHistoryCommand creates the 'featurelist history' command
func NewHistoryCommand() *cobra.Command {
	var configPath, output string
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent catalog builds",
		Long: `Display the builds recorded in the history database, most recent first.

Every catalog write is one entry. Phases written by the same generate
invocation share a run id.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}

			workDir, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get working directory: %w", err)
			}

			dbPath, err := config.HistoryDBPath(cfg, workDir)
			if err != nil {
				return fmt.Errorf("failed to get history database path: %w", err)
			}

			w := cmd.OutOrStdout()
			if _, err := os.Stat(dbPath); os.IsNotExist(err) {
				fmt.Fprintf(w, "No builds recorded yet\n")
				fmt.Fprintf(w, "Database path: %s\n", dbPath)
				return nil
			}

			store, err := history.NewStore(dbPath)
			if err != nil {
				return fmt.Errorf("open history store: %w", err)
			}
			defer store.Close()

			var builds []*history.BuildRecord
			if output != "" {
				latest, err := store.LatestBuild(commandContext(cmd), output)
				if err != nil {
					return fmt.Errorf("query latest build: %w", err)
				}
				if latest != nil {
					builds = append(builds, latest)
				}
			} else {
				builds, err = store.ListBuilds(commandContext(cmd), limit)
				if err != nil {
					return fmt.Errorf("list builds: %w", err)
				}
			}

			if len(builds) == 0 {
				fmt.Fprintf(w, "No builds recorded yet\n")
				return nil
			}
			displayBuilds(w, builds)
			return nil
		},
		SilenceUsage: true,
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Path to config file (default: .featurelist/config.yaml)")
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Maximum number of builds to show (0 = all)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Only show the latest build of this catalog path")

	return cmd
}

// displayBuilds prints builds with colored headers
func displayBuilds(w io.Writer, builds []*history.BuildRecord) {
	cyan := color.New(color.FgCyan, color.Bold)
	green := color.New(color.FgGreen)
	gray := color.New(color.FgHiBlack)

	cyan.Fprintf(w, "=== Catalog Builds (%d) ===\n\n", len(builds))

	for _, b := range builds {
		cyan.Fprintf(w, "Build #%d", b.ID)
		gray.Fprintf(w, " run %s\n", shortRunID(b.RunID))
		fmt.Fprintf(w, "  Time: %s ", b.CreatedAt.Local().Format("2006-01-02 15:04:05"))
		gray.Fprintf(w, "(%s ago)\n", roundAge(time.Since(b.CreatedAt)))
		fmt.Fprintf(w, "  Phase: %s\n", b.Phase)
		fmt.Fprintf(w, "  Output: %s (%d bytes)\n", b.OutputPath, b.Bytes)
		if b.Project != "" {
			fmt.Fprintf(w, "  Project: %s %s\n", b.Project, b.Version)
		}
		fmt.Fprintf(w, "  Features: ")
		green.Fprintf(w, "%d", b.Total)
		fmt.Fprintf(w, " (max id %d) in %d categories\n\n", b.MaxID, b.Categories.Len())
	}
}

func shortRunID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func roundAge(d time.Duration) time.Duration {
	switch {
	case d < time.Minute:
		return d.Round(time.Second)
	case d < time.Hour:
		return d.Round(time.Minute)
	default:
		return d.Round(time.Hour)
	}
}
