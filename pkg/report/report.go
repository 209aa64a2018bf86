// Package report renders a human-readable plain-text audit of a merge:
// the match counts plus small samples of the rows that matched only one side.
package report

import (
	"fmt"
	"io"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/mergetab/mergetab/pkg/audit"
	"github.com/mergetab/mergetab/pkg/errors"
	"github.com/mergetab/mergetab/pkg/tables"
)

// DefaultSampleSize is how many example rows each unmatched side shows.
const DefaultSampleSize = 5

// Write renders the audit report to w. leftOnly and rightOnly are the merge
// result rows filtered by provenance; at most sampleSize rows of each are
// shown. A sampleSize of zero or less uses DefaultSampleSize.
func Write(w io.Writer, summary audit.Summary, leftOnly, rightOnly *tables.Table, sampleSize int) error {
	if sampleSize <= 0 {
		sampleSize = DefaultSampleSize
	}

	fmt.Fprintln(w, "=== Merge Audit Report ===")
	fmt.Fprintf(w, "Total rows in merged output: %d\n", summary.TotalRows)
	fmt.Fprintf(w, "Matched on both sides      : %d\n", summary.Matched)
	fmt.Fprintf(w, "Left-only rows             : %d\n", summary.LeftOnly)
	fmt.Fprintf(w, "Right-only rows            : %d\n", summary.RightOnly)
	fmt.Fprintln(w)

	writeSample(w, "Examples of LEFT-ONLY rows", leftOnly, sampleSize)
	fmt.Fprintln(w)
	writeSample(w, "Examples of RIGHT-ONLY rows", rightOnly, sampleSize)
	return nil
}

// Save writes the audit report to a file.
func Save(path string, summary audit.Summary, leftOnly, rightOnly *tables.Table, sampleSize int) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.NewIOError("create", path, err)
	}
	if err := Write(f, summary, leftOnly, rightOnly, sampleSize); err != nil {
		_ = f.Close()
		return errors.NewIOError("write", path, err)
	}
	if err := f.Close(); err != nil {
		return errors.NewIOError("close", path, err)
	}
	return nil
}

func writeSample(w io.Writer, title string, t *tables.Table, sampleSize int) {
	if t == nil || t.NumRows() == 0 {
		fmt.Fprintf(w, "%s: (none)\n", title)
		return
	}
	fmt.Fprintf(w, "%s (showing up to %d):\n", title, sampleSize)
	fmt.Fprintln(w, Render(t.Head(sampleSize)))
}

// Render draws a table as text.
func Render(t *tables.Table) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleLight)

	header := make(table.Row, t.NumCols())
	for i, name := range t.Columns() {
		header[i] = name
	}
	tw.AppendHeader(header)

	for row := 0; row < t.NumRows(); row++ {
		cells := make(table.Row, t.NumCols())
		for i, cell := range t.Row(row) {
			cells[i] = tables.FormatValue(cell)
		}
		tw.AppendRow(cells)
	}
	return tw.Render()
}

// SummaryTable draws the audit counts as a small two-column table for
// terminal output.
func SummaryTable(summary audit.Summary) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleLight)
	tw.AppendHeader(table.Row{"bucket", "rows"})
	tw.AppendRows([]table.Row{
		{"matched", summary.Matched},
		{"left_only", summary.LeftOnly},
		{"right_only", summary.RightOnly},
	})
	tw.AppendFooter(table.Row{"total", summary.TotalRows})
	return tw.Render()
}
