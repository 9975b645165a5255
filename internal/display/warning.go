package display

import (
	"fmt"
	"io"
	"strings"

	"github.com/harrison/featurelist/internal/catalog"
)

// Warning represents a user-facing warning message
type Warning struct {
	Title      string   // Main warning title
	Message    string   // Detailed explanation (optional)
	Details    []string // Numbered detail lines (optional)
	Suggestion string   // Action to take (optional)
}

// Display shows a formatted warning in yellow
func (w Warning) Display(out io.Writer) {
	var b strings.Builder

	b.WriteString("\x1b[33m")
	b.WriteString("⚠️  Warning: ")
	b.WriteString(w.Title)
	b.WriteString("\n")

	if w.Message != "" {
		b.WriteString("    ")
		b.WriteString(w.Message)
		b.WriteString("\n")
	}

	for i, detail := range w.Details {
		fmt.Fprintf(&b, "      %d. %s\n", i+1, detail)
	}

	if w.Suggestion != "" {
		b.WriteString("    Suggestion:\n")
		b.WriteString("    ")
		b.WriteString(w.Suggestion)
		b.WriteString("\n")
	}

	b.WriteString("\x1b[0m")

	fmt.Fprint(out, b.String())
}

// WarnCountMismatch creates a warning listing categories whose declared
// entry counts disagree with what was authored
func WarnCountMismatch(mismatches []catalog.Mismatch) Warning {
	details := make([]string, 0, len(mismatches))
	for _, m := range mismatches {
		line := fmt.Sprintf("%s: declared %d, found %d", m.Category, m.Declared, m.Actual)
		if m.Source != "" {
			line += " (" + m.Source + ")"
		}
		details = append(details, line)
	}

	category := "category"
	if len(mismatches) != 1 {
		category = "categories"
	}

	return Warning{
		Title:      "Declared Feature Counts Differ",
		Message:    fmt.Sprintf("%d %s do not match their expected count:", len(mismatches), category),
		Details:    details,
		Suggestion: "Update the expected value or add the missing features",
	}
}

// WarnUnnumberedFiles creates a warning for batch files without a numeric prefix
func WarnUnnumberedFiles(dir string, files []string) Warning {
	return Warning{
		Title:      "Unnumbered Batch Files",
		Message:    fmt.Sprintf("These files in %s are added after all numbered files, in name order:", dir),
		Details:    files,
		Suggestion: "Prefix batch files with a number (e.g. 04-payments.yaml) to fix their position",
	}
}
