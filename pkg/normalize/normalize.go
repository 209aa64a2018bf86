// Package normalize canonicalizes column names so joins are insensitive to
// cosmetic naming differences between sources: stray whitespace, casing, and
// embedded spaces.
//
// Normalization is idempotent. When two distinct names normalize to the same
// name the last-applied rename wins; the loader reports the collision as a
// warning diagnostic.
package normalize

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/mergetab/mergetab/pkg/tables"
)

// Options are the independent normalization switches. Each defaults to on.
type Options struct {
	// Trim removes leading and trailing whitespace.
	Trim bool

	// Lower lowercases the name.
	Lower bool

	// SpacesToUnderscores replaces embedded spaces with underscores.
	SpacesToUnderscores bool
}

// DefaultOptions returns the default normalization behavior: all switches on.
func DefaultOptions() Options {
	return Options{Trim: true, Lower: true, SpacesToUnderscores: true}
}

// lowerCaser performs Unicode-correct lowercasing, language-neutral.
var lowerCaser = cases.Lower(language.Und)

// Name normalizes a single column name per the options.
func Name(name string, opts Options) string {
	out := name
	if opts.Trim {
		out = strings.TrimSpace(out)
	}
	if opts.Lower {
		out = lowerCaser.String(out)
	}
	if opts.SpacesToUnderscores {
		out = strings.ReplaceAll(out, " ", "_")
	}
	return out
}

// Columns returns a table with all column names normalized. Row data is
// untouched. Applying Columns twice yields the same table as applying it once.
func Columns(t *tables.Table, opts Options) *tables.Table {
	mapping := make(map[string]string)
	for _, name := range t.Columns() {
		if normalized := Name(name, opts); normalized != name {
			mapping[name] = normalized
		}
	}
	if len(mapping) == 0 {
		return t.Clone()
	}
	return t.Rename(mapping)
}
