// Package dedupe collapses rows sharing a key tuple down to one row per key.
package dedupe

import (
	"sort"
	"strings"

	"github.com/mergetab/mergetab/pkg/errors"
	"github.com/mergetab/mergetab/pkg/tables"
)

// Keep selects which duplicate row survives, by existing row order.
type Keep string

// Keep policies.
const (
	KeepFirst Keep = "first"
	KeepLast  Keep = "last"
)

// ParseKeep converts a keep token into a Keep, rejecting unknown values.
func ParseKeep(s string) (Keep, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "first":
		return KeepFirst, nil
	case "last":
		return KeepLast, nil
	default:
		return "", errors.NewValidationError("keep", s, "must be first or last")
	}
}

// Dedupe returns a table with one row per distinct key tuple, keeping the
// first- or last-occurring row among duplicates, and the number of rows
// removed. Kept rows preserve their original relative order.
//
// It fails fast when keys is empty or any key column is absent; the input is
// never partially deduplicated.
func Dedupe(t *tables.Table, keys []string, keep Keep) (*tables.Table, int, error) {
	if len(keys) == 0 {
		return nil, 0, errors.NewValidationError("keys", keys, "at least one dedup key is required")
	}
	if missing := t.MissingColumns(keys); len(missing) > 0 {
		return nil, 0, errors.NewMissingColumnError("", missing)
	}

	rows := t.NumRows()
	chosen := make(map[string]int, rows)
	order := make([]string, 0, rows)
	for row := 0; row < rows; row++ {
		key := t.KeysOf(row, keys)
		if _, seen := chosen[key]; !seen {
			order = append(order, key)
			chosen[key] = row
			continue
		}
		if keep == KeepLast {
			chosen[key] = row
		}
	}

	// Kept rows come out in first-occurrence key order with keep-first, and in
	// ascending surviving-row order with keep-last; both preserve the relative
	// order of the rows that remain.
	kept := make([]int, 0, len(order))
	for _, key := range order {
		kept = append(kept, chosen[key])
	}
	if keep == KeepLast {
		sort.Ints(kept)
	}

	return t.Select(kept), rows - len(kept), nil
}
