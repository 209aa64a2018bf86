package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mergetab/mergetab/pkg/audit"
	"github.com/mergetab/mergetab/pkg/errors"
	"github.com/mergetab/mergetab/pkg/tables"
)

func TestWrite(t *testing.T) {
	summary := audit.Summary{Matched: 1, LeftOnly: 1, RightOnly: 1, TotalRows: 3}
	leftOnly := tables.MustNew(
		tables.IntColumn("id", 1),
		tables.StringColumn("name", "A"),
	)
	rightOnly := tables.MustNew(
		tables.IntColumn("id", 3),
		tables.StringColumn("email", "c@x.com"),
	)

	var sb strings.Builder
	require.NoError(t, Write(&sb, summary, leftOnly, rightOnly, 0))
	out := sb.String()

	assert.Contains(t, out, "=== Merge Audit Report ===")
	assert.Contains(t, out, "Total rows in merged output: 3")
	assert.Contains(t, out, "Matched on both sides      : 1")
	assert.Contains(t, out, "Examples of LEFT-ONLY rows (showing up to 5):")
	assert.Contains(t, out, "c@x.com")
}

func TestWriteEmptySamples(t *testing.T) {
	var sb strings.Builder
	require.NoError(t, Write(&sb, audit.Summary{Matched: 2, TotalRows: 2}, nil, nil, 3))
	out := sb.String()

	assert.Contains(t, out, "Examples of LEFT-ONLY rows: (none)")
	assert.Contains(t, out, "Examples of RIGHT-ONLY rows: (none)")
}

func TestWriteSampleSizeCaps(t *testing.T) {
	leftOnly := tables.MustNew(tables.IntColumn("id", 1, 2, 3, 4))

	var sb strings.Builder
	require.NoError(t, Write(&sb, audit.Summary{LeftOnly: 4, TotalRows: 4}, leftOnly, nil, 2))
	out := sb.String()

	assert.Contains(t, out, "(showing up to 2)")
	assert.NotContains(t, out, "3", "rows past the sample size are omitted")
}

func TestSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.txt")
	require.NoError(t, Save(path, audit.Summary{TotalRows: 1, Matched: 1}, nil, nil, 0))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Total rows in merged output: 1")

	err = Save(filepath.Join(t.TempDir(), "missing", "report.txt"), audit.Summary{}, nil, nil, 0)
	require.Error(t, err)
	var ioErr *errors.IOError
	require.True(t, errors.As(err, &ioErr))
	assert.Equal(t, "create", ioErr.Operation)
}

func TestRender(t *testing.T) {
	tbl := tables.MustNew(
		tables.IntColumn("id", 1),
		tables.NewColumn("city", nil),
	)
	out := Render(tbl)
	assert.Contains(t, out, "id")
	assert.Contains(t, out, "city")
	assert.Contains(t, out, "1")
}

func TestSummaryTable(t *testing.T) {
	out := SummaryTable(audit.Summary{Matched: 5, LeftOnly: 2, RightOnly: 1, TotalRows: 8})
	assert.Contains(t, out, "matched")
	assert.Contains(t, out, "left_only")
	assert.Contains(t, out, "right_only")
	assert.Contains(t, out, "8")
}
