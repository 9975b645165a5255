// Package logger provides logging implementations for catalog builds.
//
// Loggers report phase progress, batch additions, catalog writes and the
// final build summary. Implementations are thread-safe and support console
// and file destinations.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/harrison/featurelist/internal/models"
)

// Log level constants for filtering
const (
	levelTrace int = 0
	levelDebug int = 1
	levelInfo  int = 2
	levelWarn  int = 3
	levelError int = 4
)

// Summary describes a finished build for LogSummary
type Summary struct {
	Output     string
	Phases     int
	Total      int
	Categories *models.CategoryCounts
	Duration   time.Duration
}

// ConsoleLogger logs build progress to a writer with timestamps and thread safety.
// All output is prefixed with [HH:MM:SS] timestamps.
// It supports log level filtering to control message verbosity.
// Color output is enabled only when writing to a terminal.
type ConsoleLogger struct {
	writer      io.Writer
	logLevel    string
	mutex       sync.Mutex
	colorOutput bool
}

// NewConsoleLogger creates a ConsoleLogger that writes to the provided io.Writer.
// If writer is nil, messages are silently discarded.
// Valid levels: trace, debug, info, warn, error (case-insensitive).
// If logLevel is empty or invalid, defaults to "info".
func NewConsoleLogger(writer io.Writer, logLevel string) *ConsoleLogger {
	return &ConsoleLogger{
		writer:      writer,
		logLevel:    normalizeLogLevel(logLevel),
		colorOutput: isTerminal(writer),
	}
}

// isTerminal reports whether w is a TTY that should receive colors.
// NO_COLOR (via fatih/color) disables colors even on a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok || f == nil {
		return false
	}
	if color.NoColor {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// normalizeLogLevel converts a log level string to lowercase and validates it.
// Returns "info" as default for empty or invalid levels.
func normalizeLogLevel(level string) string {
	normalized := strings.ToLower(strings.TrimSpace(level))

	switch normalized {
	case "trace", "debug", "info", "warn", "error":
		return normalized
	default:
		return "info"
	}
}

// shouldLog checks if a message at the given level should be logged.
func (cl *ConsoleLogger) shouldLog(messageLevel string) bool {
	return logLevelToInt(messageLevel) >= logLevelToInt(cl.logLevel)
}

// logLevelToInt converts a log level string to its numeric value.
func logLevelToInt(level string) int {
	switch level {
	case "trace":
		return levelTrace
	case "debug":
		return levelDebug
	case "info":
		return levelInfo
	case "warn":
		return levelWarn
	case "error":
		return levelError
	default:
		return levelInfo
	}
}

// LogTrace logs a trace-level message (most verbose).
func (cl *ConsoleLogger) LogTrace(message string) {
	cl.logWithLevel("TRACE", message)
}

// LogDebug logs a debug-level message.
func (cl *ConsoleLogger) LogDebug(message string) {
	cl.logWithLevel("DEBUG", message)
}

// LogInfo logs an info-level message.
// Format: "[HH:MM:SS] [INFO] <message>"
func (cl *ConsoleLogger) LogInfo(message string) {
	cl.logWithLevel("INFO", message)
}

// LogWarn logs a warning-level message.
func (cl *ConsoleLogger) LogWarn(message string) {
	cl.logWithLevel("WARN", message)
}

// LogError logs an error-level message.
func (cl *ConsoleLogger) LogError(message string) {
	cl.logWithLevel("ERROR", message)
}

func (cl *ConsoleLogger) logWithLevel(level string, message string) {
	if cl.writer == nil || !cl.shouldLog(strings.ToLower(level)) {
		return
	}

	cl.mutex.Lock()
	defer cl.mutex.Unlock()

	ts := timestamp()
	if cl.colorOutput {
		fmt.Fprintf(cl.writer, "[%s] [%s] %s\n", ts, levelColor(level).Sprint(level), message)
		return
	}
	fmt.Fprintf(cl.writer, "[%s] [%s] %s\n", ts, level, message)
}

func levelColor(level string) *color.Color {
	switch level {
	case "TRACE":
		return color.New(color.FgHiBlack)
	case "DEBUG":
		return color.New(color.FgCyan)
	case "WARN":
		return color.New(color.FgYellow)
	case "ERROR":
		return color.New(color.FgRed)
	default:
		return color.New(color.FgBlue)
	}
}

// LogPhaseStart logs the start of a build phase at INFO level.
// Format: "[HH:MM:SS] Starting phase <name>: <batches> batches, <entries> features"
func (cl *ConsoleLogger) LogPhaseStart(name string, batches, entries int) {
	if cl.writer == nil || !cl.shouldLog("info") {
		return
	}

	cl.mutex.Lock()
	defer cl.mutex.Unlock()

	phaseName := name
	if cl.colorOutput {
		phaseName = color.New(color.Bold).Sprint(name)
	}
	fmt.Fprintf(cl.writer, "[%s] Starting phase %s: %d batches, %d features\n",
		timestamp(), phaseName, batches, entries)
}

// LogBatch logs one added batch at DEBUG level with the id range it received.
// Format: "[HH:MM:SS] <category>: <n> features (ids <first>-<last>)"
func (cl *ConsoleLogger) LogBatch(batch models.Batch, firstID, lastID int) {
	if cl.writer == nil || !cl.shouldLog("debug") {
		return
	}

	cl.mutex.Lock()
	defer cl.mutex.Unlock()

	category := batch.Category
	if cl.colorOutput {
		category = color.New(color.FgCyan).Sprint(category)
	}
	fmt.Fprintf(cl.writer, "[%s] %s: %d features (ids %d-%d)\n",
		timestamp(), category, len(batch.Entries), firstID, lastID)
}

// LogPhaseComplete logs the end of a phase with overall progress at INFO level.
// done and planned count features across all phases of the build.
func (cl *ConsoleLogger) LogPhaseComplete(name string, done, planned int, duration time.Duration) {
	if cl.writer == nil || !cl.shouldLog("info") {
		return
	}

	cl.mutex.Lock()
	defer cl.mutex.Unlock()

	pb := NewProgressBar(planned, 20, cl.colorOutput)
	pb.Update(done)

	if cl.colorOutput {
		fmt.Fprintf(cl.writer, "[%s] Phase %s %s (%s) %s\n", timestamp(),
			color.New(color.Bold).Sprint(name), color.New(color.FgGreen).Sprint("complete"),
			formatDuration(duration), pb.Render())
		return
	}
	fmt.Fprintf(cl.writer, "[%s] Phase %s complete (%s) %s\n",
		timestamp(), name, formatDuration(duration), pb.Render())
}

// LogWrite logs a catalog write at DEBUG level; commands print their own
// confirmation line on stdout.
func (cl *ConsoleLogger) LogWrite(path string, records, bytes int) {
	if cl.writer == nil || !cl.shouldLog("debug") {
		return
	}

	cl.mutex.Lock()
	defer cl.mutex.Unlock()

	fmt.Fprintf(cl.writer, "[%s] Wrote %d features (%d bytes) to %s\n", timestamp(), records, bytes, path)
}

// LogSummary logs the build summary at INFO level; per-category counts
// are included at DEBUG level.
func (cl *ConsoleLogger) LogSummary(s Summary) {
	if cl.writer == nil || !cl.shouldLog("info") {
		return
	}

	cl.mutex.Lock()
	defer cl.mutex.Unlock()

	ts := timestamp()
	header := "=== Build Summary ==="
	if cl.colorOutput {
		header = color.New(color.Bold).Sprint(header)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s\n", ts, header)
	fmt.Fprintf(&b, "[%s] Output: %s\n", ts, s.Output)
	fmt.Fprintf(&b, "[%s] Phases: %d\n", ts, s.Phases)
	if cl.colorOutput {
		fmt.Fprintf(&b, "[%s] %s\n", ts, color.New(color.FgGreen).Sprintf("Total features: %d", s.Total))
	} else {
		fmt.Fprintf(&b, "[%s] Total features: %d\n", ts, s.Total)
	}
	fmt.Fprintf(&b, "[%s] Categories: %d\n", ts, s.Categories.Len())
	if cl.shouldLog("debug") {
		for _, cat := range s.Categories.Keys() {
			n, _ := s.Categories.Get(cat)
			fmt.Fprintf(&b, "[%s]   - %s: %d\n", ts, cat, n)
		}
	}
	fmt.Fprintf(&b, "[%s] Duration: %s\n", ts, formatDuration(s.Duration))

	io.WriteString(cl.writer, b.String())
}

// timestamp returns the current time formatted as "15:04:05" (HH:MM:SS).
func timestamp() string {
	return time.Now().Format("15:04:05")
}

// formatDuration converts a time.Duration to a human-readable string.
// Sub-second durations are shown in milliseconds.
// Examples: "250ms", "5s", "1m30s", "2h15m"
func formatDuration(d time.Duration) string {
	switch {
	case d >= time.Hour:
		hours := d / time.Hour
		remainder := d % time.Hour
		if remainder == 0 {
			return fmt.Sprintf("%dh", hours)
		}
		minutes := remainder / time.Minute
		remainder = remainder % time.Minute
		if remainder == 0 {
			return fmt.Sprintf("%dh%dm", hours, minutes)
		}
		seconds := remainder / time.Second
		return fmt.Sprintf("%dh%dm%ds", hours, minutes, seconds)
	case d >= time.Minute:
		minutes := d / time.Minute
		remainder := d % time.Minute
		if remainder == 0 {
			return fmt.Sprintf("%dm", minutes)
		}
		seconds := remainder / time.Second
		return fmt.Sprintf("%dm%ds", minutes, seconds)
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	default:
		return fmt.Sprintf("%ds", int64(d.Seconds()))
	}
}

// NoOpLogger discards all log messages.
// Useful for testing or when logging is disabled.
type NoOpLogger struct{}

// NewNoOpLogger creates a NoOpLogger instance.
func NewNoOpLogger() *NoOpLogger {
	return &NoOpLogger{}
}

// LogInfo is a no-op implementation.
func (n *NoOpLogger) LogInfo(message string) {
}

func (n *NoOpLogger) LogWarn(message string) {
}

func (n *NoOpLogger) LogDebug(message string) {
}

func (n *NoOpLogger) LogPhaseStart(name string, batches, entries int) {
}

func (n *NoOpLogger) LogBatch(batch models.Batch, firstID, lastID int) {
}

func (n *NoOpLogger) LogPhaseComplete(name string, done, planned int, duration time.Duration) {
}

func (n *NoOpLogger) LogWrite(path string, records, bytes int) {
}

func (n *NoOpLogger) LogSummary(s Summary) {
}
