package main

import (
	"fmt"
	"io"
	"os"

	"github.com/ajroetker/go-sgemm/internal/benchlog"
	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

type summaryOptions struct {
	goBench string
	plain   bool
}

func newSummaryCommand() *cobra.Command {
	opts := &summaryOptions{}
	cmd := &cobra.Command{
		Use:   "summary <log>...",
		Short: "Average Gflop/s of each log, slowest first",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			summaries, err := loadSummaries(args, opts.goBench)
			if err != nil {
				return err
			}
			if opts.plain {
				return writePlainSummary(cmd.OutOrStdout(), summaries)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), renderSummary(summaries))
			return err
		},
	}
	cmd.Flags().StringVar(&opts.goBench, "go-bench", "",
		"Read the files as `go test -bench` output, keeping benchmarks with this name prefix "+
			"(e.g. BenchmarkSquareSgemm).")
	cmd.Flags().BoolVar(&opts.plain, "plain", false, "Print \"<file>: <average>\" lines instead of a table.")
	return cmd
}

func loadSummaries(paths []string, goBench string) ([]benchlog.Summary, error) {
	if goBench == "" {
		return benchlog.Summarize(paths)
	}
	var summaries []benchlog.Summary
	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			return nil, errors.Wrapf(err, "opening %s", path)
		}
		results, err := benchlog.ParseGoBench(f, goBench)
		_ = f.Close()
		if err != nil {
			return nil, errors.WithMessage(err, path)
		}
		s, err := benchlog.NewSummary(path, results)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, s)
	}
	return summaries, nil
}

func writePlainSummary(w io.Writer, summaries []benchlog.Summary) error {
	for _, s := range summaries {
		if _, err := fmt.Fprintf(w, "%s: %.2f\n", s.Path, s.Average); err != nil {
			return errors.Wrap(err, "writing summary")
		}
	}
	return nil
}

func renderSummary(summaries []benchlog.Summary) string {
	table := newTable(true)
	table.Row("Log", "Sizes", "Average Gflop/s", "Peak Gflop/s", "Peak at", "Timed flops")
	for _, s := range summaries {
		var flops float64
		for _, r := range s.Results {
			flops += benchlog.Flops(r.Size) * float64(r.Iterations)
		}
		table.Row(
			titleOf(s.Name),
			humanize.Comma(int64(len(s.Results))),
			fmt.Sprintf("%.2f", s.Average),
			fmt.Sprintf("%.2f", s.Peak.Gflops),
			fmt.Sprintf("n=%d", s.Peak.Size),
			humanize.SIWithDigits(flops, 2, "flop"),
		)
	}
	return titleStyle.Render("Summary") + "\n" + table.Render()
}
