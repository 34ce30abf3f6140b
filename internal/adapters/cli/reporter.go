package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
)

// Reporter prints command results as aligned tables or JSON.
type Reporter struct {
	writer io.Writer
	json   bool
}

// NewReporter creates a reporter writing to w (stdout when nil).
func NewReporter(w io.Writer, asJSON bool) *Reporter {
	if w == nil {
		w = os.Stdout
	}
	return &Reporter{writer: w, json: asJSON}
}

// Handle prints v as JSON when requested, otherwise as a table.
func (r *Reporter) Handle(v any, header []string, rows [][]string) error {
	if r.json {
		enc := json.NewEncoder(r.writer)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	return r.table(header, rows)
}

// Title prints a section heading in table mode.
func (r *Reporter) Title(format string, args ...any) {
	if r.json {
		return
	}
	_, _ = fmt.Fprintf(r.writer, "\n=== "+format+" ===\n", args...)
}

func (r *Reporter) table(header []string, rows [][]string) error {
	tw := tabwriter.NewWriter(r.writer, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, strings.Join(header, "\t"))
	for _, row := range rows {
		_, _ = fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return tw.Flush()
}

func formatValue(v float64) string {
	return fmt.Sprintf("%.3f", v)
}
