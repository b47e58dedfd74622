package main

import (
	"os"
	"path/filepath"

	"github.com/ajroetker/go-sgemm/internal/benchlog"
	"github.com/janpfeifer/must"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"k8s.io/klog/v2"
)

type plotOptions struct {
	baseline string
	outDir   string
}

func newPlotCommand() *cobra.Command {
	opts := &plotOptions{}
	cmd := &cobra.Command{
		Use:   "plot <log>...",
		Short: "Plot Gflop/s against matrix size, one PNG per log",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := plotLogs(opts.baseline, opts.outDir, args)
			for _, f := range files {
				klog.Infof("Wrote %s", f)
			}
			return err
		},
	}
	cmd.Flags().StringVar(&opts.baseline, "baseline", "", "Log drawn on every plot for comparison, typically the blas run.")
	cmd.Flags().StringVar(&opts.outDir, "out", ".", "Directory for the PNG files.")
	return cmd
}

// plotLogs writes <out>/<name>.png for each log, with the baseline (if any)
// drawn alongside. It returns the files written.
func plotLogs(baselinePath, outDir string, paths []string) ([]string, error) {
	var baseline []benchlog.Result
	if baselinePath != "" {
		var err error
		if baseline, err = benchlog.ReadFile(baselinePath); err != nil {
			return nil, err
		}
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "creating %s", outDir)
	}

	var written []string
	for _, path := range paths {
		results, err := benchlog.ReadFile(path)
		if err != nil {
			return written, err
		}
		name := benchlog.LogName(path)
		p := plot.New()
		p.Title.Text = titleOf(name)
		p.X.Label.Text = "Matrix Size"
		p.Y.Label.Text = "Performance (GFlops)"
		p.Y.Min = 0
		p.Legend.Top = true

		if baseline != nil && path != baselinePath {
			addSeries(p, benchlog.LogName(baselinePath), baseline, 0)
		}
		addSeries(p, name, results, 1)

		out := filepath.Join(outDir, name+".png")
		if err := p.Save(8*vg.Inch, 5*vg.Inch, out); err != nil {
			return written, errors.Wrapf(err, "saving %s", out)
		}
		written = append(written, out)
	}
	return written, nil
}

// addSeries draws results as a line with point markers.
func addSeries(p *plot.Plot, label string, results []benchlog.Result, style int) {
	xys := make(plotter.XYs, len(results))
	for i, r := range results {
		xys[i].X = float64(r.Size)
		xys[i].Y = r.Gflops
	}
	// Values come from parsed floats, so NewLinePoints cannot reject them.
	line, points := must.M2(plotter.NewLinePoints(xys))
	line.Color = plotutil.Color(style)
	points.Color = plotutil.Color(style)
	points.Shape = plotutil.Shape(style)
	p.Add(line, points)
	p.Legend.Add(label, line, points)
}
