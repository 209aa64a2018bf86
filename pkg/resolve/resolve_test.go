package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mergetab/mergetab/pkg/errors"
	"github.com/mergetab/mergetab/pkg/merge"
	"github.com/mergetab/mergetab/pkg/tables"
)

func merged() *tables.Table {
	return tables.MustNew(
		tables.IntColumn("id", 1, 2, 3),
		tables.NewColumn("city_left", "NYC", nil, "LA"),
		tables.NewColumn("city_right", "Boston", "Chicago", nil),
	)
}

func TestParseStrategy(t *testing.T) {
	for token, want := range map[string]Strategy{
		"left": PreferLeft, "prefer-left": PreferLeft, "prefer_left": PreferLeft,
		"Right": PreferRight, "prefer-right": PreferRight,
		"coalesce": Coalesce,
	} {
		got, err := ParseStrategy("city", token)
		require.NoError(t, err, token)
		assert.Equal(t, want, got)
	}

	_, err := ParseStrategy("city", "middle")
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))
	assert.Contains(t, err.Error(), "city")
	assert.Contains(t, err.Error(), "middle")
}

func TestConflictsStrategies(t *testing.T) {
	tests := []struct {
		name     string
		strategy Strategy
		want     []tables.Value
	}{
		{"prefer left", PreferLeft, []tables.Value{"NYC", nil, "LA"}},
		{"prefer right", PreferRight, []tables.Value{"Boston", "Chicago", nil}},
		{"coalesce", Coalesce, []tables.Value{"NYC", "Chicago", "LA"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Conflicts(merged(), Spec{"city": tt.strategy}, merge.Suffixes{})
			require.NoError(t, err)

			col, ok := out.Column("city")
			require.True(t, ok, "reconciled column is added")
			assert.Equal(t, tt.want, col.Values)

			// Suffixed sources stay in place.
			assert.True(t, out.HasColumn("city_left"))
			assert.True(t, out.HasColumn("city_right"))
		})
	}
}

func TestConflictsSupersetIgnored(t *testing.T) {
	spec := Spec{"city": Coalesce, "email": Coalesce, "phone": PreferLeft}
	out, err := Conflicts(merged(), spec, merge.Suffixes{})
	require.NoError(t, err)

	assert.True(t, out.HasColumn("city"))
	assert.False(t, out.HasColumn("email"), "base names without a suffixed pair are skipped")
	assert.False(t, out.HasColumn("phone"))
}

func TestConflictsUnknownStrategy(t *testing.T) {
	in := merged()
	_, err := Conflicts(in, Spec{"city": "middle"}, merge.Suffixes{})
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))
	assert.Contains(t, err.Error(), "city")

	// The input is untouched even when another entry was valid.
	_, err = Conflicts(in, Spec{"city": Coalesce, "email": "middle"}, merge.Suffixes{})
	require.Error(t, err)
	assert.False(t, in.HasColumn("city"))
}

func TestConflictsCustomSuffixes(t *testing.T) {
	tbl := tables.MustNew(
		tables.NewColumn("city_l", "NYC"),
		tables.NewColumn("city_r", "Boston"),
	)
	out, err := Conflicts(tbl, Spec{"city": PreferRight}, merge.Suffixes{Left: "_l", Right: "_r"})
	require.NoError(t, err)
	cell, _ := out.Cell("city", 0)
	assert.Equal(t, "Boston", cell)
}

func TestConflictsPure(t *testing.T) {
	in := merged()
	out, err := Conflicts(in, Spec{}, merge.Suffixes{})
	require.NoError(t, err)
	assert.NotSame(t, in, out, "callers always get a fresh table")
	assert.Equal(t, in.Columns(), out.Columns())
}
