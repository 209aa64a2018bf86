package merge

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mergetab/mergetab/pkg/errors"
	"github.com/mergetab/mergetab/pkg/tables"
)

func customers() *tables.Table {
	return tables.MustNew(
		tables.IntColumn("id", 1, 2),
		tables.StringColumn("name", "A", "B"),
	)
}

func orders() *tables.Table {
	return tables.MustNew(
		tables.IntColumn("id", 2, 3),
		tables.StringColumn("email", "b@x.com", "c@x.com"),
	)
}

func rowsOf(t *tables.Table) [][]tables.Value {
	rows := make([][]tables.Value, t.NumRows())
	for i := range rows {
		rows[i] = t.Row(i)
	}
	return rows
}

func TestParseJoinType(t *testing.T) {
	for token, want := range map[string]JoinType{
		"inner": Inner, "LEFT": Left, "right": Right, "outer": Outer, "full": Outer,
	} {
		got, err := ParseJoinType(token)
		require.NoError(t, err, token)
		assert.Equal(t, want, got)
	}

	_, err := ParseJoinType("cross")
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))
}

func TestParseCardinality(t *testing.T) {
	for token, want := range map[string]Cardinality{
		"":            None,
		"one_to_one":  OneToOne,
		"1:1":         OneToOne,
		"one_to_many": OneToMany,
		"m:1":         ManyToOne,
		"M:M":         ManyToMany,
	} {
		got, err := ParseCardinality(token)
		require.NoError(t, err, token)
		assert.Equal(t, want, got)
	}

	_, err := ParseCardinality("one_to_some")
	require.Error(t, err)
}

func TestMergeJoinTypes(t *testing.T) {
	tests := []struct {
		name string
		how  JoinType
		want [][]tables.Value
	}{
		{
			name: "inner keeps only matches",
			how:  Inner,
			want: [][]tables.Value{
				{int64(2), "B", "b@x.com", ProvenanceBoth},
			},
		},
		{
			name: "left keeps all left rows",
			how:  Left,
			want: [][]tables.Value{
				{int64(1), "A", nil, ProvenanceLeftOnly},
				{int64(2), "B", "b@x.com", ProvenanceBoth},
			},
		},
		{
			name: "right keeps all right rows",
			how:  Right,
			want: [][]tables.Value{
				{int64(2), "B", "b@x.com", ProvenanceBoth},
				{int64(3), nil, "c@x.com", ProvenanceRightOnly},
			},
		},
		{
			name: "outer keeps the union",
			how:  Outer,
			want: [][]tables.Value{
				{int64(1), "A", nil, ProvenanceLeftOnly},
				{int64(2), "B", "b@x.com", ProvenanceBoth},
				{int64(3), nil, "c@x.com", ProvenanceRightOnly},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Merge(customers(), orders(), Options{
				Keys:      []string{"id"},
				How:       tt.how,
				Indicator: true,
			})
			require.NoError(t, err)
			assert.Equal(t, []string{"id", "name", "email", ProvenanceColumn}, out.Columns())
			if diff := cmp.Diff(tt.want, rowsOf(out)); diff != "" {
				t.Errorf("unexpected rows (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMergeSuffixesOverlap(t *testing.T) {
	left := tables.MustNew(
		tables.IntColumn("id", 1),
		tables.StringColumn("city", "NYC"),
	)
	right := tables.MustNew(
		tables.IntColumn("id", 1),
		tables.StringColumn("city", "Boston"),
	)

	out, err := Merge(left, right, Options{Keys: []string{"id"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "city_left", "city_right"}, out.Columns(),
		"keys unified, overlapping non-key columns suffixed")

	custom, err := Merge(left, right, Options{
		Keys:     []string{"id"},
		Suffixes: Suffixes{Left: "_l", Right: "_r"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "city_l", "city_r"}, custom.Columns())
}

func TestMergeOneToManyFansOut(t *testing.T) {
	left := tables.MustNew(
		tables.IntColumn("id", 1),
		tables.StringColumn("name", "A"),
	)
	right := tables.MustNew(
		tables.IntColumn("id", 1, 1),
		tables.StringColumn("item", "x", "y"),
	)

	out, err := Merge(left, right, Options{Keys: []string{"id"}, How: Left})
	require.NoError(t, err)
	assert.Equal(t, 2, out.NumRows(), "each match produces a row")
}

func TestMergeMultiKey(t *testing.T) {
	left := tables.MustNew(
		tables.StringColumn("a", "x", "x"),
		tables.IntColumn("b", 1, 2),
		tables.StringColumn("v", "l1", "l2"),
	)
	right := tables.MustNew(
		tables.StringColumn("a", "x"),
		tables.IntColumn("b", 2),
		tables.StringColumn("w", "r1"),
	)

	out, err := Merge(left, right, Options{Keys: []string{"a", "b"}, How: Inner})
	require.NoError(t, err)
	require.Equal(t, 1, out.NumRows())
	cell, _ := out.Cell("v", 0)
	assert.Equal(t, "l2", cell)
}

func TestMergeNullKeysMatch(t *testing.T) {
	left := tables.MustNew(tables.NewColumn("id", nil), tables.StringColumn("v", "l"))
	right := tables.MustNew(tables.NewColumn("id", nil), tables.StringColumn("w", "r"))

	out, err := Merge(left, right, Options{Keys: []string{"id"}, How: Inner})
	require.NoError(t, err)
	assert.Equal(t, 1, out.NumRows())
}

func TestMergeMissingKeysFailFast(t *testing.T) {
	_, err := Merge(customers(), orders(), Options{Keys: []string{"customer_id"}})
	require.Error(t, err)
	assert.True(t, errors.IsColumnNotFound(err))

	var missing *errors.MissingColumnError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, "left", missing.Table)
	assert.Equal(t, []string{"customer_id"}, missing.Columns)

	_, err = Merge(customers(), orders(), Options{})
	require.Error(t, err, "empty key tuple is rejected")
}

func TestMergeCardinalityValidation(t *testing.T) {
	dupRight := tables.MustNew(
		tables.IntColumn("id", 2, 2),
		tables.StringColumn("email", "b1@x.com", "b2@x.com"),
	)

	// many_to_one requires unique right keys.
	_, err := Merge(customers(), dupRight, Options{
		Keys:     []string{"id"},
		Validate: ManyToOne,
	})
	require.Error(t, err)
	assert.True(t, errors.IsCardinalityError(err))

	var cardErr *errors.CardinalityError
	require.True(t, errors.As(err, &cardErr))
	assert.Equal(t, "right", cardErr.Side)
	assert.Equal(t, "2", cardErr.Key)
	assert.Equal(t, 2, cardErr.Count)

	// one_to_many tolerates duplicate right keys.
	_, err = Merge(customers(), dupRight, Options{
		Keys:     []string{"id"},
		Validate: OneToMany,
	})
	require.NoError(t, err)

	// one_to_one rejects them.
	_, err = Merge(customers(), dupRight, Options{
		Keys:     []string{"id"},
		Validate: OneToOne,
	})
	require.Error(t, err)

	// many_to_many always passes.
	_, err = Merge(customers(), dupRight, Options{
		Keys:     []string{"id"},
		Validate: ManyToMany,
	})
	require.NoError(t, err)
}

func TestMergeWithoutIndicator(t *testing.T) {
	out, err := Merge(customers(), orders(), Options{Keys: []string{"id"}})
	require.NoError(t, err)
	assert.False(t, out.HasColumn(ProvenanceColumn))
}

func TestMergeRejectsExistingProvenanceColumn(t *testing.T) {
	left := tables.MustNew(
		tables.IntColumn("id", 1),
		tables.StringColumn(ProvenanceColumn, "stale"),
	)
	right := tables.MustNew(tables.IntColumn("id", 1))

	_, err := Merge(left, right, Options{Keys: []string{"id"}, Indicator: true})
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))
}
