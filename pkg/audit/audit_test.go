package audit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mergetab/mergetab/pkg/errors"
	"github.com/mergetab/mergetab/pkg/merge"
	"github.com/mergetab/mergetab/pkg/tables"
)

func mergedWithIndicator() *tables.Table {
	return tables.MustNew(
		tables.IntColumn("id", 1, 2, 3, 4),
		tables.StringColumn(merge.ProvenanceColumn,
			merge.ProvenanceBoth,
			merge.ProvenanceLeftOnly,
			merge.ProvenanceBoth,
			merge.ProvenanceRightOnly,
		),
	)
}

func TestCount(t *testing.T) {
	got, err := Count(mergedWithIndicator())
	require.NoError(t, err)

	want := Summary{Matched: 2, LeftOnly: 1, RightOnly: 1, TotalRows: 4}
	assert.Equal(t, want, got)
	assert.Equal(t, got.TotalRows, got.Matched+got.LeftOnly+got.RightOnly)
}

func TestCountUnknownProvenance(t *testing.T) {
	tbl := tables.MustNew(
		tables.StringColumn(merge.ProvenanceColumn, merge.ProvenanceBoth, "mystery"),
	)
	got, err := Count(tbl)
	require.NoError(t, err)

	assert.Equal(t, 1, got.Matched)
	assert.Equal(t, 2, got.TotalRows, "unexpected values still count toward the total")
}

func TestCountRequiresProvenance(t *testing.T) {
	tbl := tables.MustNew(tables.IntColumn("id", 1))
	_, err := Count(tbl)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrNoProvenance))
}

func TestFilter(t *testing.T) {
	tbl := mergedWithIndicator()

	matched := Filter(tbl, merge.ProvenanceBoth)
	assert.Equal(t, 2, matched.NumRows())
	cell, _ := matched.Cell("id", 1)
	assert.Equal(t, int64(3), cell)

	leftOnly := Filter(tbl, merge.ProvenanceLeftOnly)
	assert.Equal(t, 1, leftOnly.NumRows())

	assert.Equal(t, 0, Filter(tbl, "mystery").NumRows())

	bare := tables.MustNew(tables.IntColumn("id", 1))
	assert.Equal(t, 0, Filter(bare, merge.ProvenanceBoth).NumRows())
}
