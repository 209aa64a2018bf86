// Package merge performs the relational join between two tables with
// optional cardinality validation and per-row provenance tagging.
package merge

import (
	"strings"

	"github.com/mergetab/mergetab/pkg/errors"
	"github.com/mergetab/mergetab/pkg/tables"
)

// JoinType selects the join semantics.
type JoinType string

// Supported join types.
const (
	Inner JoinType = "inner"
	Left  JoinType = "left"
	Right JoinType = "right"
	Outer JoinType = "outer"
)

// ParseJoinType converts a join token into a JoinType, rejecting unknown
// values at the boundary.
func ParseJoinType(s string) (JoinType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "inner":
		return Inner, nil
	case "left":
		return Left, nil
	case "right":
		return Right, nil
	case "outer", "full":
		return Outer, nil
	default:
		return "", errors.NewValidationError("how", s, "must be inner, left, right, or outer")
	}
}

// Cardinality declares how many times a key value may repeat on each side.
type Cardinality string

// Cardinality contracts. None skips validation.
const (
	None       Cardinality = ""
	OneToOne   Cardinality = "one_to_one"
	OneToMany  Cardinality = "one_to_many"
	ManyToOne  Cardinality = "many_to_one"
	ManyToMany Cardinality = "many_to_many"
)

// ParseCardinality converts a validation token into a Cardinality. The empty
// string means no validation. Short aliases (1:1, 1:m, m:1, m:m) are accepted.
func ParseCardinality(s string) (Cardinality, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return None, nil
	case "one_to_one", "1:1":
		return OneToOne, nil
	case "one_to_many", "1:m":
		return OneToMany, nil
	case "many_to_one", "m:1":
		return ManyToOne, nil
	case "many_to_many", "m:m":
		return ManyToMany, nil
	default:
		return "", errors.NewValidationError("validate", s, "must be one_to_one, one_to_many, many_to_one, or many_to_many")
	}
}

// Suffixes disambiguate overlapping non-key column names.
type Suffixes struct {
	Left  string
	Right string
}

// DefaultSuffixes returns the default suffix pair, "_left" and "_right".
func DefaultSuffixes() Suffixes {
	return Suffixes{Left: "_left", Right: "_right"}
}

// Provenance column and values. The column name matches the conventional
// merge-indicator name so downstream tooling recognizes it.
const (
	ProvenanceColumn = "_merge"

	ProvenanceBoth      = "both"
	ProvenanceLeftOnly  = "left_only"
	ProvenanceRightOnly = "right_only"
)

// Options configures a merge. The zero value performs an inner join on no
// keys, which fails validation; Keys is always required.
type Options struct {
	// Keys are the join key columns, present in both tables.
	Keys []string

	// How is the join type. Empty defaults to Inner.
	How JoinType

	// Validate optionally declares a cardinality contract checked against the
	// realized key multiplicities before any rows are merged.
	Validate Cardinality

	// Suffixes disambiguate overlapping non-key columns. Zero value defaults
	// to DefaultSuffixes.
	Suffixes Suffixes

	// Indicator requests a per-row provenance column in the output.
	Indicator bool
}

// rowPair is one output row: indices into left and right, -1 for no match.
type rowPair struct {
	left  int
	right int
}

// Merge joins left and right on the configured keys. Key columns are unified
// into a single output column per key; overlapping non-key columns are
// suffixed per side. All validation happens before any row is produced.
func Merge(left, right *tables.Table, opts Options) (*tables.Table, error) {
	if len(opts.Keys) == 0 {
		return nil, errors.NewValidationError("keys", opts.Keys, "at least one join key is required")
	}
	if opts.How == "" {
		opts.How = Inner
	}
	switch opts.How {
	case Inner, Left, Right, Outer:
	default:
		return nil, errors.NewValidationError("how", string(opts.How), "unknown join type")
	}
	if opts.Suffixes == (Suffixes{}) {
		opts.Suffixes = DefaultSuffixes()
	}

	if missing := left.MissingColumns(opts.Keys); len(missing) > 0 {
		return nil, errors.NewMissingColumnError("left", missing)
	}
	if missing := right.MissingColumns(opts.Keys); len(missing) > 0 {
		return nil, errors.NewMissingColumnError("right", missing)
	}
	if opts.Indicator && (left.HasColumn(ProvenanceColumn) || right.HasColumn(ProvenanceColumn)) {
		return nil, errors.NewValidationError("indicator", ProvenanceColumn, "input already has a provenance column")
	}

	leftKeys := keyStrings(left, opts.Keys)
	rightKeys := keyStrings(right, opts.Keys)

	if opts.Validate != None {
		if err := validateCardinality(left, right, leftKeys, rightKeys, opts); err != nil {
			return nil, err
		}
	}

	pairs := joinPairs(leftKeys, rightKeys, opts.How)
	return buildResult(left, right, pairs, opts)
}

// keyStrings precomputes the key tuple identity of every row.
func keyStrings(t *tables.Table, keys []string) []string {
	out := make([]string, t.NumRows())
	for row := range out {
		out[row] = t.KeysOf(row, keys)
	}
	return out
}

// validateCardinality fails the merge when a side that must be unique carries
// a repeated key. The error names the first offending key in row order.
func validateCardinality(left, right *tables.Table, leftKeys, rightKeys []string, opts Options) error {
	checkUnique := func(t *tables.Table, keys []string, side string) error {
		counts := make(map[string]int, len(keys))
		for _, k := range keys {
			counts[k]++
		}
		for row, k := range keys {
			if counts[k] > 1 {
				return errors.NewCardinalityError(string(opts.Validate), side, displayKey(t, row, opts.Keys), counts[k])
			}
		}
		return nil
	}

	switch opts.Validate {
	case OneToOne:
		if err := checkUnique(left, leftKeys, "left"); err != nil {
			return err
		}
		return checkUnique(right, rightKeys, "right")
	case OneToMany:
		return checkUnique(left, leftKeys, "left")
	case ManyToOne:
		return checkUnique(right, rightKeys, "right")
	case ManyToMany:
		return nil
	default:
		return errors.NewValidationError("validate", string(opts.Validate), "unknown cardinality")
	}
}

// displayKey renders a key tuple for error messages.
func displayKey(t *tables.Table, row int, keys []string) string {
	parts := make([]string, len(keys))
	for i, k := range keys {
		cell, _ := t.Cell(k, row)
		parts[i] = tables.FormatValue(cell)
	}
	return strings.Join(parts, ",")
}

// joinPairs produces the output row pairs for the requested join type. Left
// and outer joins emit left rows in order, each followed by its matches in
// right row order; right joins mirror that; outer appends unmatched right
// rows last.
func joinPairs(leftKeys, rightKeys []string, how JoinType) []rowPair {
	rightIndex := make(map[string][]int, len(rightKeys))
	for row, k := range rightKeys {
		rightIndex[k] = append(rightIndex[k], row)
	}

	var pairs []rowPair

	if how == Right {
		leftIndex := make(map[string][]int, len(leftKeys))
		for row, k := range leftKeys {
			leftIndex[k] = append(leftIndex[k], row)
		}
		for rightRow, k := range rightKeys {
			matches := leftIndex[k]
			if len(matches) == 0 {
				pairs = append(pairs, rowPair{left: -1, right: rightRow})
				continue
			}
			for _, leftRow := range matches {
				pairs = append(pairs, rowPair{left: leftRow, right: rightRow})
			}
		}
		return pairs
	}

	rightMatched := make([]bool, len(rightKeys))
	for leftRow, k := range leftKeys {
		matches := rightIndex[k]
		if len(matches) == 0 {
			if how == Left || how == Outer {
				pairs = append(pairs, rowPair{left: leftRow, right: -1})
			}
			continue
		}
		for _, rightRow := range matches {
			pairs = append(pairs, rowPair{left: leftRow, right: rightRow})
			rightMatched[rightRow] = true
		}
	}

	if how == Outer {
		for rightRow, matched := range rightMatched {
			if !matched {
				pairs = append(pairs, rowPair{left: -1, right: rightRow})
			}
		}
	}
	return pairs
}

// buildResult assembles the output table: unified keys, suffixed overlapping
// non-key columns, and the provenance column when requested.
func buildResult(left, right *tables.Table, pairs []rowPair, opts Options) (*tables.Table, error) {
	keySet := make(map[string]bool, len(opts.Keys))
	for _, k := range opts.Keys {
		keySet[k] = true
	}
	overlap := make(map[string]bool)
	for _, name := range right.Columns() {
		if left.HasColumn(name) && !keySet[name] {
			overlap[name] = true
		}
	}

	var cols []tables.Column

	gather := func(src tables.Column, side func(rowPair) int) []tables.Value {
		values := make([]tables.Value, len(pairs))
		for i, p := range pairs {
			if idx := side(p); idx >= 0 {
				values[i] = src.Values[idx]
			}
		}
		return values
	}

	for _, name := range left.Columns() {
		src, _ := left.Column(name)
		if keySet[name] {
			// Keys are unified: filled from whichever side is present.
			rightSrc, _ := right.Column(name)
			values := make([]tables.Value, len(pairs))
			for i, p := range pairs {
				if p.left >= 0 {
					values[i] = src.Values[p.left]
				} else {
					values[i] = rightSrc.Values[p.right]
				}
			}
			cols = append(cols, tables.Column{Name: name, Values: values})
			continue
		}
		outName := name
		if overlap[name] {
			outName = name + opts.Suffixes.Left
		}
		cols = append(cols, tables.Column{Name: outName, Values: gather(src, func(p rowPair) int { return p.left })})
	}

	for _, name := range right.Columns() {
		if keySet[name] {
			continue
		}
		src, _ := right.Column(name)
		outName := name
		if overlap[name] {
			outName = name + opts.Suffixes.Right
		}
		cols = append(cols, tables.Column{Name: outName, Values: gather(src, func(p rowPair) int { return p.right })})
	}

	if opts.Indicator {
		values := make([]tables.Value, len(pairs))
		for i, p := range pairs {
			switch {
			case p.left >= 0 && p.right >= 0:
				values[i] = ProvenanceBoth
			case p.right < 0:
				values[i] = ProvenanceLeftOnly
			default:
				values[i] = ProvenanceRightOnly
			}
		}
		cols = append(cols, tables.Column{Name: ProvenanceColumn, Values: values})
	}

	return tables.New(cols...)
}
