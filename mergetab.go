// Package mergetab merges two delimited tabular datasets on a set of join
// keys, reconciles overlapping columns, and derives a quantitative audit of
// how many rows matched, were left-only, or right-only.
//
// The one-call entry point is Run:
//
//	result, err := mergetab.Run(
//	    mergetab.WithLeft("customers.csv", nil),
//	    mergetab.WithRight("orders.csv", nil),
//	    mergetab.WithKeys("customer_id"),
//	    mergetab.WithJoin(merge.Left),
//	)
//
// Run composes the loader, deduplicator, merge engine, conflict resolver, and
// auditor. Each invocation operates on its own tables; Run is safe to call
// concurrently from independent call sites.
package mergetab

import (
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mergetab/mergetab/pkg/audit"
	"github.com/mergetab/mergetab/pkg/csvio"
	"github.com/mergetab/mergetab/pkg/dedupe"
	"github.com/mergetab/mergetab/pkg/diag"
	"github.com/mergetab/mergetab/pkg/errors"
	"github.com/mergetab/mergetab/pkg/logging"
	"github.com/mergetab/mergetab/pkg/merge"
	"github.com/mergetab/mergetab/pkg/resolve"
	"github.com/mergetab/mergetab/pkg/tables"
)

// Result is the outcome of one merge run: the merged (and resolved) table,
// its audit summary, and every non-fatal diagnostic emitted on the way.
type Result struct {
	// RunID identifies this run in log output.
	RunID string

	// Table is the final merge result, conflict-resolved when a conflict
	// spec was configured. It carries the provenance column.
	Table *tables.Table

	// Summary is the audit derived from the provenance column.
	Summary audit.Summary

	// Diagnostics are the ordered non-fatal events from loading and dedup.
	Diagnostics []diag.Diagnostic
}

// LeftOnly returns the result rows that matched only the left input.
func (r *Result) LeftOnly() *tables.Table {
	return audit.Filter(r.Table, merge.ProvenanceLeftOnly)
}

// RightOnly returns the result rows that matched only the right input.
func (r *Result) RightOnly() *tables.Table {
	return audit.Filter(r.Table, merge.ProvenanceRightOnly)
}

// Run loads both inputs, optionally deduplicates each side, merges with
// provenance, optionally resolves conflicts, and audits the result.
// Configuration and validation errors propagate unchanged; coercion and
// date-parse problems surface as diagnostics on the Result.
func Run(opts ...Option) (*Result, error) {
	cfg := newConfig()
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}
	if cfg.left.path == "" || cfg.right.path == "" {
		return nil, errors.NewConfigError("run", "both left and right input paths are required", nil)
	}
	if len(cfg.merge.Keys) == 0 {
		return nil, errors.NewConfigError("run", "at least one join key is required", nil)
	}

	result := &Result{RunID: uuid.NewString()}
	logger := cfg.logger.With().Str("run_id", result.RunID).Logger()

	left, err := loadSide(&logger, "left", cfg.left, &result.Diagnostics)
	if err != nil {
		return nil, err
	}
	right, err := loadSide(&logger, "right", cfg.right, &result.Diagnostics)
	if err != nil {
		return nil, err
	}

	merged, err := merge.Merge(left, right, cfg.merge)
	if err != nil {
		return nil, err
	}
	logger.Debug().
		Str("how", string(cfg.merge.How)).
		Int("rows", merged.NumRows()).
		Msg("merged inputs")

	if len(cfg.conflicts) > 0 {
		merged, err = resolve.Conflicts(merged, cfg.conflicts, cfg.merge.Suffixes)
		if err != nil {
			return nil, err
		}
	}

	summary, err := audit.Count(merged)
	if err != nil {
		return nil, err
	}

	result.Table = merged
	result.Summary = summary
	return result, nil
}

// loadSide loads one input and applies its optional dedup, collecting
// diagnostics and logging them as they arrive.
func loadSide(logger *zerolog.Logger, name string, s side, out *[]diag.Diagnostic) (*tables.Table, error) {
	t, diags, err := csvio.Read(s.path, s.csv)
	if err != nil {
		return nil, err
	}
	for _, d := range diags {
		d.Log(logger)
	}
	*out = append(*out, diags...)

	if len(s.dedupeKeys) > 0 {
		deduped, removed, err := dedupe.Dedupe(t, s.dedupeKeys, s.keep)
		if err != nil {
			return nil, err
		}
		if removed > 0 {
			d := diag.Infof("removed %d duplicate rows from %s input based on %v", removed, name, s.dedupeKeys)
			d.Log(logger)
			*out = append(*out, d)
		}
		t = deduped
	}

	logger.Debug().
		Str("side", name).
		Str("path", s.path).
		Int("rows", t.NumRows()).
		Int("cols", t.NumCols()).
		Msg("loaded input")
	return t, nil
}

// defaultLogger is indirected for tests.
func defaultLogger() *zerolog.Logger {
	return logging.Default()
}
