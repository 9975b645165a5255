package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/harrison/featurelist/internal/catalog"
	"github.com/harrison/featurelist/internal/config"
	"github.com/harrison/featurelist/internal/display"
	"github.com/harrison/featurelist/internal/history"
	"github.com/harrison/featurelist/internal/logger"
	"github.com/harrison/featurelist/internal/models"
	"github.com/harrison/featurelist/internal/parser"
	"github.com/harrison/featurelist/internal/seed"
)

// buildLogger receives build progress events
type buildLogger interface {
	LogInfo(message string)
	LogWarn(message string)
	LogDebug(message string)
	LogPhaseStart(name string, batches, entries int)
	LogBatch(batch models.Batch, firstID, lastID int)
	LogPhaseComplete(name string, done, planned int, duration time.Duration)
	LogWrite(path string, records, bytes int)
	LogSummary(s logger.Summary)
}

type generateOptions struct {
	configPath string
	output     string
	logLevel   string
	noHistory  bool
	resume     bool
	phases     []string
}

// NewGenerateCommand creates the generate command
func NewGenerateCommand() *cobra.Command {
	opts := &generateOptions{}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Build the catalog and write it to disk",
		Long: `Build every configured phase in order and write the catalog after each one.

Phases come from .featurelist/config.yaml. Without configured phases the
embedded catalog is built: the "initial" phase followed by "extension".

All batches are validated before anything is written. A rejected entry
aborts the run and leaves any existing catalog untouched.

With --resume a phase is skipped only when every one of its categories is
already in the catalog; any other phase is added in full. Batches added to
an already built phase therefore duplicate that phase's existing categories.
Put new batches in a new phase, or rebuild without --resume.

Examples:
  featurelist generate                          # embedded catalog to feature_list.json
  featurelist generate --output out/list.json   # custom destination
  featurelist generate --phase initial          # only the first phase
  featurelist generate --resume                 # extend the existing catalog
  featurelist generate --config ci.yaml --no-history`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, opts)
		},
		SilenceUsage: true,
	}

	addGenerateFlags(cmd, opts)
	return cmd
}

func addGenerateFlags(cmd *cobra.Command, opts *generateOptions) {
	cmd.Flags().StringVar(&opts.configPath, "config", "", "Path to config file (default: .featurelist/config.yaml)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Catalog destination (default: feature_list.json)")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "", "Log level: trace, debug, info, warn, error")
	cmd.Flags().BoolVar(&opts.noHistory, "no-history", false, "Do not record this build in the history database")
	cmd.Flags().BoolVar(&opts.resume, "resume", false, "Load the existing catalog and extend it")
	cmd.Flags().StringSliceVar(&opts.phases, "phase", nil, "Only build the named phases (repeatable)")
}

// loadConfig loads the config file named by --config or the default location
func loadConfig(configPath string) (*config.Config, error) {
	if configPath != "" {
		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", configPath, err)
		}
		return cfg, nil
	}

	cfg, err := config.LoadConfigFromDir(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

func runGenerate(cmd *cobra.Command, opts *generateOptions) error {
	started := time.Now()
	out := cmd.OutOrStdout()

	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		return err
	}

	var outputPtr, logLevelPtr *string
	var noHistoryPtr *bool
	if cmd.Flags().Changed("output") {
		outputPtr = &opts.output
	}
	if cmd.Flags().Changed("log-level") {
		logLevelPtr = &opts.logLevel
	}
	if cmd.Flags().Changed("no-history") {
		noHistoryPtr = &opts.noHistory
	}
	cfg.MergeWithFlags(outputPtr, logLevelPtr, noHistoryPtr)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	workDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}

	consoleLog := logger.NewConsoleLogger(cmd.ErrOrStderr(), cfg.LogLevel)
	log := &multiLogger{loggers: []buildLogger{consoleLog}}

	if logDir, err := config.LogDir(cfg, workDir); err != nil {
		consoleLog.LogWarn(fmt.Sprintf("build log disabled: %v", err))
	} else if fileLog, err := logger.NewFileLogger(logDir, cfg.LogLevel); err != nil {
		consoleLog.LogWarn(fmt.Sprintf("build log disabled: %v", err))
	} else {
		defer fileLog.Close()
		log.loggers = append(log.loggers, fileLog)
		consoleLog.LogDebug(fmt.Sprintf("build log: %s", fileLog.Path()))
	}

	phases, err := loadPhases(cfg, workDir)
	if err != nil {
		return err
	}
	phases, err = selectPhases(phases, opts.phases)
	if err != nil {
		return err
	}

	// Reject bad input before the first write
	if err := preflight(phases); err != nil {
		return err
	}

	meta := catalog.Metadata{
		Project: cfg.Project,
		Version: cfg.Version,
	}
	if cfg.UsesEmbeddedPhases() {
		if meta.Project == "" {
			meta.Project = seed.Project
		}
		if meta.Version == "" {
			meta.Version = seed.Version
		}
	}

	b := catalog.NewBuilder()
	if opts.resume {
		existing, err := catalog.Load(cfg.Output)
		switch {
		case errors.Is(err, os.ErrNotExist):
			log.LogWarn(fmt.Sprintf("no catalog at %s, starting a new one", cfg.Output))
		case err != nil:
			return fmt.Errorf("resume: %w", err)
		default:
			if b, err = catalog.Restore(existing); err != nil {
				return fmt.Errorf("resume: %w", err)
			}
			log.LogInfo(fmt.Sprintf("Resuming %s: %d features, next id %d", cfg.Output, b.Len(), b.LastID()+1))
		}
	}

	var pending []models.Phase
	for _, p := range phases {
		if opts.resume && phasePresent(p, b.Counts()) {
			log.LogInfo(fmt.Sprintf("Skipping phase %s: its categories are already in the catalog", p.Name))
			continue
		}
		if opts.resume {
			if existing := presentCategories(p, b.Counts()); len(existing) > 0 {
				log.LogWarn(fmt.Sprintf("phase %s adds to categories already in the catalog: %s",
					p.Name, strings.Join(existing, ", ")))
			}
		}
		pending = append(pending, p)
	}

	planned := b.Len()
	for _, p := range pending {
		planned += p.EntryCount()
	}

	store := openHistory(cfg, workDir, log)
	if store != nil {
		defer store.Close()
	}
	runID := history.NewRunID()

	ctx := commandContext(cmd)

	for _, p := range pending {
		phaseStart := time.Now()
		log.LogPhaseStart(p.Name, len(p.Batches), p.EntryCount())

		nextID := b.LastID() + 1
		if _, err := b.AddPhase(p); err != nil {
			return fmt.Errorf("phase %s: %w", p.Name, err)
		}
		for _, batch := range p.Batches {
			lastID := nextID + len(batch.Entries) - 1
			log.LogBatch(batch, nextID, lastID)
			nextID = lastID + 1
		}

		if mismatches := catalog.DeclaredMismatches(p.Batches); len(mismatches) > 0 {
			display.WarnCountMismatch(mismatches).Display(cmd.ErrOrStderr())
			for _, m := range mismatches {
				log.LogWarn(fmt.Sprintf("%s: declared %d features, found %d", m.Category, m.Declared, m.Actual))
			}
		}

		meta.Timestamp = time.Now()
		doc := b.Build(meta)
		res, err := catalog.Write(doc, cfg.Output)
		if err != nil {
			return fmt.Errorf("phase %s: %w", p.Name, err)
		}
		fmt.Fprintf(out, "Wrote %d features (%d bytes) to %s\n", res.Records, res.Bytes, res.Path)
		log.LogWrite(res.Path, res.Records, res.Bytes)

		if store != nil {
			rec := &history.BuildRecord{
				RunID:      runID,
				Phase:      p.Name,
				OutputPath: res.Path,
				Project:    doc.Project,
				Version:    doc.Version,
				Total:      doc.TotalFeatures,
				MaxID:      doc.MaxID(),
				Categories: doc.Categories,
				Bytes:      res.Bytes,
			}
			if err := store.RecordBuild(ctx, rec); err != nil {
				log.LogWarn(fmt.Sprintf("failed to record build history: %v", err))
			}
		}

		log.LogPhaseComplete(p.Name, b.Len(), planned, time.Since(phaseStart))
	}

	if len(pending) == 0 {
		fmt.Fprintf(out, "Nothing to add: %s already holds %d features\n", cfg.Output, b.Len())
		return nil
	}

	log.LogSummary(logger.Summary{
		Output:     cfg.Output,
		Phases:     len(pending),
		Total:      b.Len(),
		Categories: b.Counts(),
		Duration:   time.Since(started),
	})
	return nil
}

// commandContext returns the command's context, or Background when run outside Execute
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// loadPhases parses the configured phases, or the embedded ones when none are configured
func loadPhases(cfg *config.Config, workDir string) ([]models.Phase, error) {
	if cfg.UsesEmbeddedPhases() {
		return seed.Phases()
	}

	phases := make([]models.Phase, 0, len(cfg.Phases))
	for _, pc := range cfg.Phases {
		phase := models.Phase{Name: pc.Name}
		for _, src := range pc.Sources {
			batches, err := parser.ParsePath(workDir, src)
			if err != nil {
				return nil, fmt.Errorf("phase %s: %w", pc.Name, err)
			}
			phase.Batches = append(phase.Batches, batches...)
		}
		phases = append(phases, phase)
	}
	return phases, nil
}

// selectPhases keeps the named phases in build order; no names keeps all
func selectPhases(phases []models.Phase, names []string) ([]models.Phase, error) {
	if len(names) == 0 {
		return phases, nil
	}

	wanted := make(map[string]bool, len(names))
	for _, n := range names {
		wanted[n] = true
	}

	var selected []models.Phase
	for _, p := range phases {
		if wanted[p.Name] {
			selected = append(selected, p)
			delete(wanted, p.Name)
		}
	}
	for _, n := range names {
		if wanted[n] {
			return nil, fmt.Errorf("unknown phase %q", n)
		}
	}
	return selected, nil
}

// preflight runs every phase through a throwaway builder
func preflight(phases []models.Phase) error {
	scratch := catalog.NewBuilder()
	for _, p := range phases {
		if _, err := scratch.AddPhase(p); err != nil {
			return fmt.Errorf("phase %s: %w", p.Name, err)
		}
	}
	return nil
}

// phasePresent reports whether every category of p already has records
func phasePresent(p models.Phase, counts *models.CategoryCounts) bool {
	if len(p.Batches) == 0 {
		return false
	}
	for _, batch := range p.Batches {
		if _, ok := counts.Get(batch.Category); !ok {
			return false
		}
	}
	return true
}

// presentCategories lists the categories of p that already have records, in batch order
func presentCategories(p models.Phase, counts *models.CategoryCounts) []string {
	var present []string
	seen := make(map[string]bool)
	for _, batch := range p.Batches {
		if seen[batch.Category] {
			continue
		}
		seen[batch.Category] = true
		if _, ok := counts.Get(batch.Category); ok {
			present = append(present, batch.Category)
		}
	}
	return present
}

// openHistory opens the history store; failures only disable history
func openHistory(cfg *config.Config, workDir string, log buildLogger) *history.Store {
	if !cfg.History.Enabled {
		return nil
	}

	dbPath, err := config.HistoryDBPath(cfg, workDir)
	if err != nil {
		log.LogWarn(fmt.Sprintf("build history disabled: %v", err))
		return nil
	}

	store, err := history.NewStore(dbPath)
	if err != nil {
		log.LogWarn(fmt.Sprintf("build history disabled: %v", err))
		return nil
	}
	log.LogDebug(fmt.Sprintf("build history: %s", dbPath))
	return store
}

// multiLogger forwards build events to several loggers
type multiLogger struct {
	loggers []buildLogger
}

func (ml *multiLogger) LogInfo(message string) {
	for _, l := range ml.loggers {
		l.LogInfo(message)
	}
}

func (ml *multiLogger) LogWarn(message string) {
	for _, l := range ml.loggers {
		l.LogWarn(message)
	}
}

func (ml *multiLogger) LogDebug(message string) {
	for _, l := range ml.loggers {
		l.LogDebug(message)
	}
}

func (ml *multiLogger) LogPhaseStart(name string, batches, entries int) {
	for _, l := range ml.loggers {
		l.LogPhaseStart(name, batches, entries)
	}
}

func (ml *multiLogger) LogBatch(batch models.Batch, firstID, lastID int) {
	for _, l := range ml.loggers {
		l.LogBatch(batch, firstID, lastID)
	}
}

func (ml *multiLogger) LogPhaseComplete(name string, done, planned int, duration time.Duration) {
	for _, l := range ml.loggers {
		l.LogPhaseComplete(name, done, planned, duration)
	}
}

func (ml *multiLogger) LogWrite(path string, records, bytes int) {
	for _, l := range ml.loggers {
		l.LogWrite(path, records, bytes)
	}
}

func (ml *multiLogger) LogSummary(s logger.Summary) {
	for _, l := range ml.loggers {
		l.LogSummary(s)
	}
}

var (
	_ buildLogger = (*logger.ConsoleLogger)(nil)
	_ buildLogger = (*logger.FileLogger)(nil)
	_ buildLogger = (*logger.NoOpLogger)(nil)
)
