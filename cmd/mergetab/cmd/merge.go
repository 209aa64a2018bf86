package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mergetab/mergetab"
	"github.com/mergetab/mergetab/internal/jobspec"
	"github.com/mergetab/mergetab/pkg/csvio"
	"github.com/mergetab/mergetab/pkg/dedupe"
	"github.com/mergetab/mergetab/pkg/errors"
	"github.com/mergetab/mergetab/pkg/merge"
	"github.com/mergetab/mergetab/pkg/report"
	"github.com/mergetab/mergetab/pkg/resolve"
)

var mergeFlags struct {
	job string

	left        string
	right       string
	on          []string
	how         string
	validate    string
	suffixLeft  string
	suffixRight string

	dedupeLeft  []string
	dedupeRight []string
	keep        string

	coalesce    []string
	preferLeft  []string
	preferRight []string

	output     string
	reportPath string
	sampleSize int
}

// mergeCmd performs the two-file merge workflow.
var mergeCmd = &cobra.Command{
	Use:   "merge",
	Short: "Merge two delimited files on join keys",
	Long: `Merge two delimited files on one or more join keys, optionally
de-duplicating each side first and reconciling overlapping columns.

The merged output always carries a provenance column recording which
side(s) each row came from, and a summary of matched / left-only /
right-only counts is printed on completion.

A YAML job file (--job) can express options that have no flag, such as
per-side column renames, type coercions, and date parsing.`,
	Example: `  mergetab merge --left customers.csv --right orders.csv --on customer_id \
    --how left --output merged.csv --report report.txt \
    --dedupe-left customer_id --dedupe-right customer_id --coalesce city,email

  mergetab merge --job job.yaml`,
	RunE: runMerge,
}

func init() {
	f := mergeCmd.Flags()

	f.StringVar(&mergeFlags.job, "job", "", "YAML job file describing the whole run")

	f.StringVar(&mergeFlags.left, "left", "", "path to the left input")
	f.StringVar(&mergeFlags.right, "right", "", "path to the right input")
	f.StringSliceVar(&mergeFlags.on, "on", nil, "join key column(s)")
	f.StringVar(&mergeFlags.how, "how", "left", "join type: inner, left, right, or outer")
	f.StringVar(&mergeFlags.validate, "validate", "", "cardinality contract: one_to_one, one_to_many, many_to_one, many_to_many")
	f.StringVar(&mergeFlags.suffixLeft, "suffix-left", "_left", "suffix for overlapping left columns")
	f.StringVar(&mergeFlags.suffixRight, "suffix-right", "_right", "suffix for overlapping right columns")

	f.StringSliceVar(&mergeFlags.dedupeLeft, "dedupe-left", nil, "key(s) to de-duplicate the left input by")
	f.StringSliceVar(&mergeFlags.dedupeRight, "dedupe-right", nil, "key(s) to de-duplicate the right input by")
	f.StringVar(&mergeFlags.keep, "keep", "last", "which duplicate row to keep: first or last")

	f.StringSliceVar(&mergeFlags.coalesce, "coalesce", nil, "overlapping column(s) to coalesce (left value, falling back to right)")
	f.StringSliceVar(&mergeFlags.preferLeft, "prefer-left", nil, "overlapping column(s) resolved to the left value")
	f.StringSliceVar(&mergeFlags.preferRight, "prefer-right", nil, "overlapping column(s) resolved to the right value")

	f.StringVar(&mergeFlags.output, "output", "", "where to write the merged CSV")
	f.StringVar(&mergeFlags.reportPath, "report", "", "optional path for a text audit report")
	f.IntVar(&mergeFlags.sampleSize, "sample-size", report.DefaultSampleSize, "example rows per unmatched side in the report")

	rootCmd.AddCommand(mergeCmd)
}

func runMerge(cmd *cobra.Command, _ []string) error {
	opts, output, reportPath, sampleSize, err := buildRun()
	if err != nil {
		return err
	}

	result, err := mergetab.Run(opts...)
	if err != nil {
		return err
	}

	if output != "" {
		if err := csvio.Write(result.Table, output); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote merged output to %s\n", output)
	}

	if reportPath != "" {
		if err := report.Save(reportPath, result.Summary, result.LeftOnly(), result.RightOnly(), sampleSize); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote audit report to %s\n", reportPath)
	}

	fmt.Fprintln(cmd.OutOrStdout(), report.SummaryTable(result.Summary))
	return nil
}

// buildRun translates flags (or the job file) into run options plus the
// output, report path, and sample size.
func buildRun() ([]mergetab.Option, string, string, int, error) {
	if mergeFlags.job != "" {
		if mergeFlags.left != "" || mergeFlags.right != "" {
			return nil, "", "", 0, errors.NewConfigError("flags",
				"--job cannot be combined with --left/--right", nil)
		}
		job, err := jobspec.Load(mergeFlags.job)
		if err != nil {
			return nil, "", "", 0, err
		}
		opts, err := job.Options()
		if err != nil {
			return nil, "", "", 0, err
		}
		reportPath, sampleSize := "", report.DefaultSampleSize
		if job.Report != nil {
			reportPath = job.Report.Path
			if job.Report.SampleSize > 0 {
				sampleSize = job.Report.SampleSize
			}
		}
		return opts, job.Output, reportPath, sampleSize, nil
	}

	how, err := merge.ParseJoinType(mergeFlags.how)
	if err != nil {
		return nil, "", "", 0, err
	}
	cardinality, err := merge.ParseCardinality(mergeFlags.validate)
	if err != nil {
		return nil, "", "", 0, err
	}
	keep, err := dedupe.ParseKeep(mergeFlags.keep)
	if err != nil {
		return nil, "", "", 0, err
	}

	opts := []mergetab.Option{
		mergetab.WithLeft(mergeFlags.left, nil),
		mergetab.WithRight(mergeFlags.right, nil),
		mergetab.WithKeys(mergeFlags.on...),
		mergetab.WithJoin(how),
		mergetab.WithSuffixes(merge.Suffixes{Left: mergeFlags.suffixLeft, Right: mergeFlags.suffixRight}),
	}
	if cardinality != merge.None {
		opts = append(opts, mergetab.WithValidation(cardinality))
	}
	if len(mergeFlags.dedupeLeft) > 0 {
		opts = append(opts, mergetab.WithDedupeLeft(keep, mergeFlags.dedupeLeft...))
	}
	if len(mergeFlags.dedupeRight) > 0 {
		opts = append(opts, mergetab.WithDedupeRight(keep, mergeFlags.dedupeRight...))
	}

	spec := make(resolve.Spec)
	for _, base := range mergeFlags.coalesce {
		spec[base] = resolve.Coalesce
	}
	for _, base := range mergeFlags.preferLeft {
		spec[base] = resolve.PreferLeft
	}
	for _, base := range mergeFlags.preferRight {
		spec[base] = resolve.PreferRight
	}
	if len(spec) > 0 {
		opts = append(opts, mergetab.WithConflicts(spec))
	}

	return opts, mergeFlags.output, mergeFlags.reportPath, mergeFlags.sampleSize, nil
}
