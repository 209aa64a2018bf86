// Package audit tabulates merge provenance into match counts.
package audit

import (
	"fmt"

	"github.com/mergetab/mergetab/pkg/errors"
	"github.com/mergetab/mergetab/pkg/merge"
	"github.com/mergetab/mergetab/pkg/tables"
)

// Summary is the fixed audit record derived from a merge result. The counts
// always satisfy Matched + LeftOnly + RightOnly == TotalRows for results whose
// provenance values are well-formed; unexpected values count toward TotalRows
// only.
type Summary struct {
	Matched   int `json:"matched"`
	LeftOnly  int `json:"left_only"`
	RightOnly int `json:"right_only"`
	TotalRows int `json:"total_rows"`
}

// Count derives a Summary from a merge result carrying a provenance column.
// It fails when the column is absent: the merge must have been performed with
// the indicator requested.
func Count(t *tables.Table) (Summary, error) {
	col, ok := t.Column(merge.ProvenanceColumn)
	if !ok {
		return Summary{}, fmt.Errorf("%w: no %q column found, merge with the indicator enabled",
			errors.ErrNoProvenance, merge.ProvenanceColumn)
	}

	s := Summary{TotalRows: len(col.Values)}
	for _, v := range col.Values {
		switch v {
		case merge.ProvenanceBoth:
			s.Matched++
		case merge.ProvenanceLeftOnly:
			s.LeftOnly++
		case merge.ProvenanceRightOnly:
			s.RightOnly++
		}
	}
	return s, nil
}

// Filter returns the rows of a merge result whose provenance equals tag.
// A result without a provenance column yields an empty selection error-free;
// callers that require provenance should use Count first.
func Filter(t *tables.Table, tag string) *tables.Table {
	col, ok := t.Column(merge.ProvenanceColumn)
	if !ok {
		return t.Select(nil)
	}
	var rows []int
	for i, v := range col.Values {
		if v == tag {
			rows = append(rows, i)
		}
	}
	return t.Select(rows)
}
