// Package jobspec parses YAML job files describing a full merge run. A job
// file can express everything the library API can, including the per-side
// rename maps, type coercions, and date columns that have no flag equivalent.
package jobspec

import (
	"os"

	"github.com/goccy/go-yaml"

	"github.com/mergetab/mergetab"
	"github.com/mergetab/mergetab/pkg/csvio"
	"github.com/mergetab/mergetab/pkg/dedupe"
	"github.com/mergetab/mergetab/pkg/errors"
	"github.com/mergetab/mergetab/pkg/merge"
	"github.com/mergetab/mergetab/pkg/resolve"
	"github.com/mergetab/mergetab/pkg/tables"
)

// Input describes one side of the merge.
type Input struct {
	Path   string            `yaml:"path"`
	Rename map[string]string `yaml:"rename"`
	Types  map[string]string `yaml:"types"`
	Dates  []string          `yaml:"dates"`
	Dedupe *Dedupe           `yaml:"dedupe"`
}

// Dedupe describes an optional pre-merge deduplication.
type Dedupe struct {
	Keys []string `yaml:"keys"`
	Keep string   `yaml:"keep"`
}

// Report describes the optional plain-text audit report.
type Report struct {
	Path       string `yaml:"path"`
	SampleSize int    `yaml:"sample_size"`
}

// Suffixes overrides the overlapping-column suffix pair.
type Suffixes struct {
	Left  string `yaml:"left"`
	Right string `yaml:"right"`
}

// Job is a fully described merge run.
type Job struct {
	Left      Input             `yaml:"left"`
	Right     Input             `yaml:"right"`
	Keys      []string          `yaml:"keys"`
	How       string            `yaml:"how"`
	Validate  string            `yaml:"validate"`
	Suffixes  *Suffixes         `yaml:"suffixes"`
	Conflicts map[string]string `yaml:"conflicts"`
	Output    string            `yaml:"output"`
	Report    *Report           `yaml:"report"`
}

// Load reads and parses a job file.
func Load(path string) (*Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewIOError("read", path, err)
	}
	var job Job
	if err := yaml.Unmarshal(data, &job); err != nil {
		return nil, errors.NewConfigError("jobspec", "invalid job file "+path, err)
	}
	return &job, nil
}

// Options translates the job into mergetab run options, rejecting unknown
// tokens at this boundary.
func (j *Job) Options() ([]mergetab.Option, error) {
	leftCSV, err := loaderOptions(j.Left)
	if err != nil {
		return nil, err
	}
	rightCSV, err := loaderOptions(j.Right)
	if err != nil {
		return nil, err
	}

	opts := []mergetab.Option{
		mergetab.WithLeft(j.Left.Path, leftCSV),
		mergetab.WithRight(j.Right.Path, rightCSV),
		mergetab.WithKeys(j.Keys...),
	}

	if j.How != "" {
		how, err := merge.ParseJoinType(j.How)
		if err != nil {
			return nil, err
		}
		opts = append(opts, mergetab.WithJoin(how))
	}

	cardinality, err := merge.ParseCardinality(j.Validate)
	if err != nil {
		return nil, err
	}
	if cardinality != merge.None {
		opts = append(opts, mergetab.WithValidation(cardinality))
	}

	if j.Suffixes != nil {
		opts = append(opts, mergetab.WithSuffixes(merge.Suffixes{
			Left:  j.Suffixes.Left,
			Right: j.Suffixes.Right,
		}))
	}

	if dd, err := dedupeOption(j.Left.Dedupe, mergetab.WithDedupeLeft); err != nil {
		return nil, err
	} else if dd != nil {
		opts = append(opts, dd)
	}
	if dd, err := dedupeOption(j.Right.Dedupe, mergetab.WithDedupeRight); err != nil {
		return nil, err
	} else if dd != nil {
		opts = append(opts, dd)
	}

	if len(j.Conflicts) > 0 {
		spec := make(resolve.Spec, len(j.Conflicts))
		for base, token := range j.Conflicts {
			strategy, err := resolve.ParseStrategy(base, token)
			if err != nil {
				return nil, err
			}
			spec[base] = strategy
		}
		opts = append(opts, mergetab.WithConflicts(spec))
	}

	return opts, nil
}

func loaderOptions(in Input) (*csvio.Options, error) {
	opts := csvio.DefaultOptions()
	opts.Rename = in.Rename
	opts.DateColumns = in.Dates
	if len(in.Types) > 0 {
		opts.Types = make(map[string]tables.DType, len(in.Types))
		for column, token := range in.Types {
			dtype, err := tables.ParseDType(token)
			if err != nil {
				return nil, err
			}
			opts.Types[column] = dtype
		}
	}
	return opts, nil
}

func dedupeOption(dd *Dedupe, with func(dedupe.Keep, ...string) mergetab.Option) (mergetab.Option, error) {
	if dd == nil || len(dd.Keys) == 0 {
		return nil, nil
	}
	keep := dedupe.KeepLast
	if dd.Keep != "" {
		parsed, err := dedupe.ParseKeep(dd.Keep)
		if err != nil {
			return nil, err
		}
		keep = parsed
	}
	return with(keep, dd.Keys...), nil
}
