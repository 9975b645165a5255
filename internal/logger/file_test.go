package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/harrison/featurelist/internal/models"
)

func readLog(t *testing.T, fl *FileLogger) string {
	t.Helper()
	data, err := os.ReadFile(fl.Path())
	if err != nil {
		t.Fatalf("read build log: %v", err)
	}
	return string(data)
}

// TestFileLoggerCreatesDirAndSymlink verifies the log dir, build file and latest.log
func TestFileLoggerCreatesDirAndSymlink(t *testing.T) {
	logDir := filepath.Join(t.TempDir(), "nested", "logs")

	fl, err := NewFileLogger(logDir, "info")
	if err != nil {
		t.Fatalf("NewFileLogger() error = %v", err)
	}
	defer fl.Close()

	if !strings.HasPrefix(filepath.Base(fl.Path()), "build-") {
		t.Errorf("build log name = %s, want build-*.log", filepath.Base(fl.Path()))
	}

	symlinkPath := filepath.Join(logDir, "latest.log")
	info, err := os.Lstat(symlinkPath)
	if err != nil {
		t.Fatalf("expected latest.log: %v", err)
	}
	if info.Mode()&os.ModeSymlink == 0 {
		t.Error("latest.log should be a symlink")
	}

	target, err := os.Readlink(symlinkPath)
	if err != nil {
		t.Fatalf("readlink: %v", err)
	}
	if target != filepath.Base(fl.Path()) {
		t.Errorf("latest.log -> %s, want %s", target, filepath.Base(fl.Path()))
	}

	if !strings.Contains(readLog(t, fl), "=== Featurelist Build Log ===") {
		t.Error("missing log header")
	}
}

// TestFileLoggerReplacesSymlink verifies a second logger takes over latest.log
func TestFileLoggerReplacesSymlink(t *testing.T) {
	logDir := t.TempDir()

	first, err := NewFileLogger(logDir, "info")
	if err != nil {
		t.Fatalf("first logger: %v", err)
	}
	first.Close()

	second, err := NewFileLogger(logDir, "info")
	if err != nil {
		t.Fatalf("second logger: %v", err)
	}
	defer second.Close()

	if _, err := os.Stat(filepath.Join(logDir, "latest.log")); err != nil {
		t.Errorf("latest.log should resolve: %v", err)
	}
}

// TestFileLoggerBuildEvents verifies every build event reaches the file
func TestFileLoggerBuildEvents(t *testing.T) {
	fl, err := NewFileLogger(t.TempDir(), "info")
	if err != nil {
		t.Fatalf("NewFileLogger() error = %v", err)
	}
	defer fl.Close()

	fl.LogPhaseStart("initial", 2, 5)
	fl.LogBatch(models.Batch{Category: "Authentication", Entries: make([]models.Entry, 3), Source: "seed/initial/01-authentication.yaml"}, 1, 3)
	fl.LogBatch(models.Batch{Category: "Payments", Entries: make([]models.Entry, 2)}, 4, 5)
	fl.LogPhaseComplete("initial", 5, 5, 2*time.Second)
	fl.LogWrite("feature_list.json", 5, 1234)
	fl.LogSummary(Summary{
		Output:     "feature_list.json",
		Phases:     1,
		Total:      5,
		Categories: sampleCounts(),
		Duration:   2 * time.Second,
	})
	fl.LogDebug("hidden at info level")

	out := readLog(t, fl)
	for _, want := range []string{
		"Starting phase initial: 2 batches, 5 features",
		"Authentication: 3 features (ids 1-3) from seed/initial/01-authentication.yaml",
		"Payments: 2 features (ids 4-5) from -",
		"Phase initial complete: 5/5 features, duration 2.0s",
		"Wrote 5 features (1234 bytes) to feature_list.json",
		"=== BUILD SUMMARY ===",
		"- Authentication: 3",
		"- Payments: 2",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("build log missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "hidden at info level") {
		t.Error("debug message should be filtered at info level")
	}
}

// TestFileLoggerCloseTwice verifies Close is idempotent and later writes are dropped
func TestFileLoggerCloseTwice(t *testing.T) {
	fl, err := NewFileLogger(t.TempDir(), "info")
	if err != nil {
		t.Fatalf("NewFileLogger() error = %v", err)
	}

	if err := fl.Close(); err != nil {
		t.Fatalf("first Close() error = %v", err)
	}
	if err := fl.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}

	fl.LogInfo("after close")
	if strings.Contains(readLog(t, fl), "after close") {
		t.Error("writes after Close should be dropped")
	}
}

// TestNewFileLoggerInvalidPath verifies an unusable directory is reported
func TestNewFileLoggerInvalidPath(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(blocker, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := NewFileLogger(filepath.Join(blocker, "logs"), "info"); err == nil {
		t.Error("expected error when the log dir is below a regular file")
	}
}
