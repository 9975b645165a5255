package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/harrison/featurelist/internal/models"
)

// FileLogger writes a plain-text log of each build to a timestamped file
// and keeps a latest.log symlink pointing at the most recent one.
type FileLogger struct {
	logDir   string
	runLog   *os.File
	runFile  string
	logLevel string
	mu       sync.Mutex
}

// NewFileLogger creates a FileLogger in logDir at the given level.
// The directory is created if needed.
func NewFileLogger(logDir string, logLevel string) (*FileLogger, error) {
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	// build-YYYYMMDD-HHMMSS.log
	runFile := filepath.Join(logDir, fmt.Sprintf("build-%s.log", time.Now().Format("20060102-150405")))

	file, err := os.OpenFile(runFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to create build log file: %w", err)
	}

	symlinkPath := filepath.Join(logDir, "latest.log")
	if _, err := os.Lstat(symlinkPath); err == nil {
		if err := os.Remove(symlinkPath); err != nil {
			file.Close()
			return nil, fmt.Errorf("failed to remove old symlink: %w", err)
		}
	}
	if err := os.Symlink(filepath.Base(runFile), symlinkPath); err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to create symlink: %w", err)
	}

	fl := &FileLogger{
		logDir:   logDir,
		runLog:   file,
		runFile:  runFile,
		logLevel: normalizeLogLevel(logLevel),
	}

	fl.writeRunLog("=== Featurelist Build Log ===\n")
	fl.writeRunLog(fmt.Sprintf("Started at: %s\n\n", time.Now().Format(time.RFC3339)))

	return fl, nil
}

// Path returns the build log file this logger writes to
func (fl *FileLogger) Path() string {
	return fl.runFile
}

func (fl *FileLogger) shouldLog(messageLevel string) bool {
	return logLevelToInt(messageLevel) >= logLevelToInt(fl.logLevel)
}

// LogDebug logs a debug-level message.
func (fl *FileLogger) LogDebug(message string) {
	fl.logWithLevel("DEBUG", message)
}

// LogInfo logs an info-level message.
func (fl *FileLogger) LogInfo(message string) {
	fl.logWithLevel("INFO", message)
}

// LogWarn logs a warning-level message.
func (fl *FileLogger) LogWarn(message string) {
	fl.logWithLevel("WARN", message)
}

// LogError logs an error-level message.
func (fl *FileLogger) LogError(message string) {
	fl.logWithLevel("ERROR", message)
}

func (fl *FileLogger) logWithLevel(level string, message string) {
	if !fl.shouldLog(strings.ToLower(level)) {
		return
	}
	fl.writeRunLog(fmt.Sprintf("[%s] [%s] %s\n", timestamp(), level, message))
}

// LogPhaseStart logs the start of a build phase at INFO level.
func (fl *FileLogger) LogPhaseStart(name string, batches, entries int) {
	if !fl.shouldLog("info") {
		return
	}
	fl.writeRunLog(fmt.Sprintf("[%s] Starting phase %s: %d batches, %d features\n",
		timestamp(), name, batches, entries))
}

// LogBatch logs every added batch with its source and id range.
// The file log records batches at INFO level so it stays a full audit trail.
func (fl *FileLogger) LogBatch(batch models.Batch, firstID, lastID int) {
	if !fl.shouldLog("info") {
		return
	}
	source := batch.Source
	if source == "" {
		source = "-"
	}
	fl.writeRunLog(fmt.Sprintf("[%s] %s: %d features (ids %d-%d) from %s\n",
		timestamp(), batch.Category, len(batch.Entries), firstID, lastID, source))
}

// LogPhaseComplete logs the end of a phase at INFO level.
func (fl *FileLogger) LogPhaseComplete(name string, done, planned int, duration time.Duration) {
	if !fl.shouldLog("info") {
		return
	}
	fl.writeRunLog(fmt.Sprintf("[%s] Phase %s complete: %d/%d features, duration %.1fs\n",
		timestamp(), name, done, planned, duration.Seconds()))
}

// LogWrite logs a catalog write at INFO level.
func (fl *FileLogger) LogWrite(path string, records, bytes int) {
	if !fl.shouldLog("info") {
		return
	}
	fl.writeRunLog(fmt.Sprintf("[%s] Wrote %d features (%d bytes) to %s\n", timestamp(), records, bytes, path))
}

// LogSummary logs the build summary with every category count at INFO level.
func (fl *FileLogger) LogSummary(s Summary) {
	if !fl.shouldLog("info") {
		return
	}

	ts := timestamp()
	var b strings.Builder
	fmt.Fprintf(&b, "\n[%s] === BUILD SUMMARY ===\n", ts)
	fmt.Fprintf(&b, "[%s] Output:         %s\n", ts, s.Output)
	fmt.Fprintf(&b, "[%s] Phases:         %d\n", ts, s.Phases)
	fmt.Fprintf(&b, "[%s] Total features: %d\n", ts, s.Total)
	fmt.Fprintf(&b, "[%s] Categories:     %d\n", ts, s.Categories.Len())
	for _, cat := range s.Categories.Keys() {
		n, _ := s.Categories.Get(cat)
		fmt.Fprintf(&b, "[%s]   - %s: %d\n", ts, cat, n)
	}
	fmt.Fprintf(&b, "[%s] Total time:     %.1fs\n", ts, s.Duration.Seconds())
	fmt.Fprintf(&b, "[%s] Completed at:   %s\n", ts, time.Now().Format(time.RFC3339))

	fl.writeRunLog(b.String())
}

// Close flushes and closes the build log file.
// Calling Close more than once is safe.
func (fl *FileLogger) Close() error {
	fl.mu.Lock()
	defer fl.mu.Unlock()

	if fl.runLog != nil {
		if err := fl.runLog.Sync(); err != nil {
			return fmt.Errorf("failed to sync build log: %w", err)
		}
		if err := fl.runLog.Close(); err != nil {
			return fmt.Errorf("failed to close build log: %w", err)
		}
		fl.runLog = nil
	}

	return nil
}

func (fl *FileLogger) writeRunLog(message string) {
	fl.mu.Lock()
	defer fl.mu.Unlock()

	if fl.runLog != nil {
		fl.runLog.WriteString(message)
		fl.runLog.Sync()
	}
}
