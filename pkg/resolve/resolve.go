// Package resolve reconciles suffixed overlapping columns produced by a merge
// into a single column per base name, per a configured strategy.
package resolve

import (
	"sort"
	"strings"

	"github.com/mergetab/mergetab/pkg/errors"
	"github.com/mergetab/mergetab/pkg/merge"
	"github.com/mergetab/mergetab/pkg/tables"
)

// Strategy selects how a reconciled column derives its values.
type Strategy string

// Resolution strategies.
const (
	// PreferLeft takes the left-suffixed value unconditionally.
	PreferLeft Strategy = "left"

	// PreferRight takes the right-suffixed value unconditionally.
	PreferRight Strategy = "right"

	// Coalesce takes the left-suffixed value when non-null, else the right.
	Coalesce Strategy = "coalesce"
)

// ParseStrategy converts a strategy token into a Strategy, rejecting unknown
// values. The base column name is carried in the error for explainability.
func ParseStrategy(base, s string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "left", "prefer-left", "prefer_left":
		return PreferLeft, nil
	case "right", "prefer-right", "prefer_right":
		return PreferRight, nil
	case "coalesce":
		return Coalesce, nil
	default:
		return "", errors.NewValidationError("strategy for column "+base, s, "must be left, right, or coalesce")
	}
}

// Spec maps base column names to their resolution strategy. Base names whose
// suffixed pair is absent from the table are ignored, so callers may pass a
// superset of possible conflicts.
type Spec map[string]Strategy

// Conflicts resolves every base name in the spec whose <base><left-suffix>
// and <base><right-suffix> columns both exist, adding one reconciled <base>
// column per entry. The suffixed source columns remain; the input table is
// never mutated.
func Conflicts(t *tables.Table, spec Spec, suffixes merge.Suffixes) (*tables.Table, error) {
	if suffixes == (merge.Suffixes{}) {
		suffixes = merge.DefaultSuffixes()
	}

	// Validate the whole spec before deriving anything, so an illegal
	// strategy leaves the table untouched.
	bases := make([]string, 0, len(spec))
	for base, strategy := range spec {
		switch strategy {
		case PreferLeft, PreferRight, Coalesce:
		default:
			return nil, errors.NewValidationError("strategy for column "+base, string(strategy), "must be left, right, or coalesce")
		}
		bases = append(bases, base)
	}
	sort.Strings(bases)

	out := t
	for _, base := range bases {
		leftCol, leftOK := t.Column(base + suffixes.Left)
		rightCol, rightOK := t.Column(base + suffixes.Right)
		if !leftOK || !rightOK {
			// Not an overlapping column; skip quietly.
			continue
		}

		values := make([]tables.Value, len(leftCol.Values))
		switch spec[base] {
		case PreferLeft:
			copy(values, leftCol.Values)
		case PreferRight:
			copy(values, rightCol.Values)
		case Coalesce:
			for i, v := range leftCol.Values {
				if tables.IsNull(v) {
					values[i] = rightCol.Values[i]
				} else {
					values[i] = v
				}
			}
		}

		next, err := out.WithColumn(tables.Column{Name: base, Values: values})
		if err != nil {
			return nil, err
		}
		out = next
	}

	if out == t {
		return t.Clone(), nil
	}
	return out, nil
}
