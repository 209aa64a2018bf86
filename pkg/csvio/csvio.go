// Package csvio loads delimited files into tables and writes tables back out.
//
// Loading applies, in order: an optional rename map over original header
// names, column-name normalization, optional per-column type coercion, and
// optional date parsing. Coercion and date-parse problems never abort a load;
// they are returned as ordered diagnostics alongside the table.
package csvio

import (
	"encoding/csv"
	"io"
	"os"
	"time"

	"github.com/mergetab/mergetab/pkg/diag"
	"github.com/mergetab/mergetab/pkg/errors"
	"github.com/mergetab/mergetab/pkg/normalize"
	"github.com/mergetab/mergetab/pkg/tables"
)

// Options controls how a delimited file is turned into a table. The zero
// value loads every column as strings with default normalization.
type Options struct {
	// Rename maps original (pre-normalization) header names to replacements.
	Rename map[string]string

	// Types requests per-column coercion, keyed by post-normalization name.
	// Columns absent from the table are skipped silently.
	Types map[string]tables.DType

	// DateColumns are post-normalization columns parsed as timestamps.
	// Unparseable cells become null.
	DateColumns []string

	// Normalize are the column-name normalization switches.
	Normalize normalize.Options

	// Comma is the field delimiter. Zero means ','.
	Comma rune
}

// DefaultOptions returns loader options with default normalization and no
// renames or coercions.
func DefaultOptions() *Options {
	return &Options{Normalize: normalize.DefaultOptions()}
}

// Read loads the delimited file at path into a normalized table. The returned
// diagnostics carry every non-fatal problem encountered, in order.
func Read(path string, opts *Options) (*tables.Table, []diag.Diagnostic, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, errors.NewIOError("open", path, err)
	}
	defer f.Close() //nolint:errcheck // read-only file

	t, diags, err := ReadFrom(f, opts)
	if err != nil {
		return nil, nil, errors.NewIOError("read", path, err)
	}
	return t, diags, nil
}

// ReadFrom loads delimited data from r. See Read.
func ReadFrom(r io.Reader, opts *Options) (*tables.Table, []diag.Diagnostic, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	reader := csv.NewReader(r)
	if opts.Comma != 0 {
		reader.Comma = opts.Comma
	}
	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(records) == 0 {
		empty, err := tables.New()
		return empty, nil, err
	}

	header := records[0]
	cols := make([]tables.Column, len(header))
	for i, name := range header {
		values := make([]tables.Value, len(records)-1)
		for row, record := range records[1:] {
			// Empty fields are the null marker.
			if record[i] != "" {
				values[row] = record[i]
			}
		}
		cols[i] = tables.Column{Name: name, Values: values}
	}
	t, err := tables.New(cols...)
	if err != nil {
		return nil, nil, err
	}

	var diags []diag.Diagnostic

	if len(opts.Rename) > 0 {
		t = t.Rename(opts.Rename)
	}

	before := t.NumCols()
	t = normalize.Columns(t, opts.Normalize)
	if t.NumCols() < before {
		diags = append(diags, diag.Warnf("", nil,
			"column name normalization collapsed %d columns; last occurrence kept", before-t.NumCols()))
	}

	t, diags = coerce(t, opts, diags)
	return t, diags, nil
}

// coerce applies requested type casts and date parses. Failures downgrade to
// warnings and leave the original column untouched.
func coerce(t *tables.Table, opts *Options, diags []diag.Diagnostic) (*tables.Table, []diag.Diagnostic) {
	for _, name := range t.Columns() {
		dtype, wanted := opts.Types[name]
		if !wanted {
			continue
		}
		col, _ := t.Column(name)
		cast, err := col.Cast(dtype)
		if err != nil {
			diags = append(diags, diag.Warnf(name, err, "could not cast column %q to %s", name, dtype))
			continue
		}
		t, _ = t.WithColumn(cast)
	}

	for _, name := range opts.DateColumns {
		col, ok := t.Column(name)
		if !ok {
			continue
		}
		if wrong := wrongTypeForDates(col); wrong != "" {
			diags = append(diags, diag.Warnf(name, nil, "could not parse dates for %q: column holds %s values", name, wrong))
			continue
		}
		parsed, coerced := col.ParseTimes()
		if coerced > 0 {
			diags = append(diags, diag.Warnf(name, nil, "date parse for %q nulled %d unparseable values", name, coerced))
		}
		t, _ = t.WithColumn(parsed)
	}
	return t, diags
}

// wrongTypeForDates reports the first cell type that cannot take part in a
// date parse, or "" when the column is parseable cell-wise.
func wrongTypeForDates(col tables.Column) string {
	for _, v := range col.Values {
		switch v.(type) {
		case nil, string, time.Time:
		case int64:
			return "int"
		case float64:
			return "float"
		case bool:
			return "bool"
		default:
			return "unsupported"
		}
	}
	return ""
}

// Write serializes the table to path as CSV, null cells as empty fields.
func Write(t *tables.Table, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.NewIOError("create", path, err)
	}
	if err := WriteTo(f, t); err != nil {
		_ = f.Close()
		return errors.NewIOError("write", path, err)
	}
	if err := f.Close(); err != nil {
		return errors.NewIOError("close", path, err)
	}
	return nil
}

// WriteTo serializes the table to w as CSV.
func WriteTo(w io.Writer, t *tables.Table) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(t.Columns()); err != nil {
		return err
	}
	record := make([]string, t.NumCols())
	for row := 0; row < t.NumRows(); row++ {
		for i, cell := range t.Row(row) {
			record[i] = tables.FormatValue(cell)
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
