package report

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// Console prints run progress and summaries for interactive use. It is
// separate from structured logging: the logger is for operators, the
// console for the person running the command.
type Console struct {
	out io.Writer
}

// NewConsole creates a console reporter writing to stdout.
func NewConsole() *Console {
	return &Console{out: os.Stdout}
}

// NewConsoleWriter creates a console reporter with a custom writer.
func NewConsoleWriter(w io.Writer) *Console {
	return &Console{out: w}
}

// Header prints a section header.
func (c *Console) Header(title string) {
	rule := strings.Repeat("=", 60)
	fmt.Fprintf(c.out, "%s\n%s\n%s\n", rule, title, rule)
}

// Info prints an informational line.
func (c *Console) Info(format string, args ...any) {
	fmt.Fprintf(c.out, "  "+format+"\n", args...)
}

// Warn prints a warning line.
func (c *Console) Warn(format string, args ...any) {
	fmt.Fprintf(c.out, "! "+format+"\n", args...)
}

// Error prints an error line.
func (c *Console) Error(format string, args ...any) {
	fmt.Fprintf(c.out, "✗ "+format+"\n", args...)
}

// FileProcessed prints one processed file with its masked count.
func (c *Console) FileProcessed(relPath string, maskedCount int, dryRun bool) {
	marker := "✓"
	if dryRun {
		marker = "·"
	}
	fmt.Fprintf(c.out, "%s %s (%d masked)\n", marker, relPath, maskedCount)
}

// Summary prints the run totals of a report.
func (c *Console) Summary(r *Report) {
	fmt.Fprintln(c.out)
	fmt.Fprintf(c.out, "Files scanned: %d\n", r.Summary.TotalFilesScanned)
	fmt.Fprintf(c.out, "Files masked:  %d\n", r.Summary.TotalFilesMasked)
	fmt.Fprintf(c.out, "Items masked:  %d\n", r.Summary.TotalItemsMasked)
	if len(r.Errors) > 0 {
		fmt.Fprintf(c.out, "Errors:        %d\n", len(r.Errors))
	}
}
