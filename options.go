package mergetab

import (
	"github.com/rs/zerolog"

	"github.com/mergetab/mergetab/pkg/csvio"
	"github.com/mergetab/mergetab/pkg/dedupe"
	"github.com/mergetab/mergetab/pkg/merge"
	"github.com/mergetab/mergetab/pkg/resolve"
)

// Option is a function that configures a merge run.
type Option func(*config) error

// side holds per-input configuration.
type side struct {
	path       string
	csv        *csvio.Options
	dedupeKeys []string
	keep       dedupe.Keep
}

// config collects everything a run needs. Defaults: inner join, "_left" and
// "_right" suffixes, provenance indicator on, keep-last dedup policy.
type config struct {
	left      side
	right     side
	merge     merge.Options
	conflicts resolve.Spec
	logger    *zerolog.Logger
}

func newConfig() *config {
	return &config{
		left:  side{keep: dedupe.KeepLast},
		right: side{keep: dedupe.KeepLast},
		merge: merge.Options{
			How:       merge.Inner,
			Suffixes:  merge.DefaultSuffixes(),
			Indicator: true,
		},
		logger: defaultLogger(),
	}
}

// WithLeft sets the left input path and its loader options. A nil options
// value loads with defaults.
func WithLeft(path string, opts *csvio.Options) Option {
	return func(c *config) error {
		c.left.path = path
		c.left.csv = opts
		return nil
	}
}

// WithRight sets the right input path and its loader options. A nil options
// value loads with defaults.
func WithRight(path string, opts *csvio.Options) Option {
	return func(c *config) error {
		c.right.path = path
		c.right.csv = opts
		return nil
	}
}

// WithKeys sets the join key columns, named post-normalization.
func WithKeys(keys ...string) Option {
	return func(c *config) error {
		c.merge.Keys = keys
		return nil
	}
}

// WithJoin sets the join type. The default is an inner join.
func WithJoin(how merge.JoinType) Option {
	return func(c *config) error {
		c.merge.How = how
		return nil
	}
}

// WithValidation declares a cardinality contract checked during the merge.
func WithValidation(cardinality merge.Cardinality) Option {
	return func(c *config) error {
		c.merge.Validate = cardinality
		return nil
	}
}

// WithSuffixes overrides the suffix pair for overlapping non-key columns.
func WithSuffixes(suffixes merge.Suffixes) Option {
	return func(c *config) error {
		c.merge.Suffixes = suffixes
		return nil
	}
}

// WithDedupeLeft deduplicates the left input on the given keys before the
// merge, keeping rows per the keep policy.
func WithDedupeLeft(keep dedupe.Keep, keys ...string) Option {
	return func(c *config) error {
		c.left.keep = keep
		c.left.dedupeKeys = keys
		return nil
	}
}

// WithDedupeRight deduplicates the right input on the given keys before the
// merge, keeping rows per the keep policy.
func WithDedupeRight(keep dedupe.Keep, keys ...string) Option {
	return func(c *config) error {
		c.right.keep = keep
		c.right.dedupeKeys = keys
		return nil
	}
}

// WithConflicts configures conflict resolution over suffixed overlapping
// columns after the merge.
func WithConflicts(spec resolve.Spec) Option {
	return func(c *config) error {
		c.conflicts = spec
		return nil
	}
}

// WithLogger routes run logging through the given logger instead of the
// package default.
func WithLogger(logger *zerolog.Logger) Option {
	return func(c *config) error {
		c.logger = logger
		return nil
	}
}
