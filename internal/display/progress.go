package display

import (
	"fmt"
	"io"
)

// ProgressIndicator manages multi-step progress display with ANSI colors
type ProgressIndicator struct {
	writer  io.Writer
	total   int
	current int
}

// NewProgressIndicator creates a new progress indicator
func NewProgressIndicator(w io.Writer, total int) *ProgressIndicator {
	return &ProgressIndicator{
		writer: w,
		total:  total,
	}
}

// Start displays the header message
func (p *ProgressIndicator) Start() {
	fmt.Fprintf(p.writer, "Loading batch sources:\n")
}

// Step displays progress for current item: [N/Total] source (cyan)
func (p *ProgressIndicator) Step(source string, batches int) {
	p.current++
	fmt.Fprintf(p.writer, "\x1b[36m  [%d/%d] %s (%d batches)\x1b[0m\n", p.current, p.total, source, batches)
}

// Fail displays a failed item in red
func (p *ProgressIndicator) Fail(source string, err error) {
	p.current++
	fmt.Fprintf(p.writer, "\x1b[31m  [%d/%d] %s: %v\x1b[0m\n", p.current, p.total, source, err)
}

// Complete displays success message with green checkmark
func (p *ProgressIndicator) Complete(features int) {
	fmt.Fprintf(p.writer, "\x1b[32m✓\x1b[0m Loaded %d batch sources (%d features)\n", p.total, features)
}
