package main

import (
	"io"
	"math"
	"math/rand/v2"
	"os"
	"slices"
	"time"

	"github.com/ajroetker/go-sgemm/hwy"
	"github.com/ajroetker/go-sgemm/hwy/contrib/sgemm"
	"github.com/ajroetker/go-sgemm/internal/benchlog"
	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"k8s.io/klog/v2"
)

// defaultSizes sweeps around powers of two and their multiples, where
// blocking effects show up.
var defaultSizes = []int{
	31, 32, 96, 97, 127, 128, 129, 191, 192, 229, 255, 256, 257, 319, 320, 321,
	417, 479, 480, 511, 512, 639, 640, 767, 768, 769,
}

type runOptions struct {
	impl       string
	sizes      []int
	macro      int
	micro      int
	lanes      int
	packing    string
	minSeconds float64
	check      bool
	logPath    string
	seed       uint64
	progress   bool
}

func newRunCommand() *cobra.Command {
	opts := &runOptions{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Time an implementation over a sweep of matrix sizes",
		Long: "Time an implementation over a sweep of matrix sizes, printing one " +
			"\"Size: N\\tGflop/s: X\" line per size. Blocking parameters default to " +
			"$SGEMM_MACRO_BLOCK, $SGEMM_MICRO_TILE, $SGEMM_LANES and $SGEMM_PACKING, " +
			"then to the values tuned for the detected vector width.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			params, err := resolveParams(cmd.Flags(), opts)
			if err != nil {
				return err
			}
			return runBenchmarks(cmd.OutOrStdout(), cmd.ErrOrStderr(), opts, params)
		},
	}
	addRunFlags(cmd.Flags(), opts)
	return cmd
}

func addRunFlags(fs *pflag.FlagSet, opts *runOptions) {
	defaults := sgemm.DefaultParams()
	fs.StringVar(&opts.impl, "impl", "blocked", "Implementation to time: blocked, naive or blas.")
	fs.IntSliceVar(&opts.sizes, "sizes", defaultSizes, "Matrix sizes to time.")
	fs.IntVar(&opts.macro, "macro", defaults.MacroBlock, "Macro block edge (Bm).")
	fs.IntVar(&opts.micro, "micro", defaults.MicroTile, "Micro tile edge (Bs): 4, 8 or 16.")
	fs.IntVar(&opts.lanes, "lanes", defaults.Lanes, "Float32 lanes per vector, 0 for the detected width.")
	fs.StringVar(&opts.packing, "packing", defaults.Packing.String(), "Packing of A: once or per-tile.")
	fs.Float64Var(&opts.minSeconds, "min-seconds", 0.1, "Minimum timed duration per size; trials double until reached.")
	fs.BoolVar(&opts.check, "check", true, "Verify each size against a float64 reference before timing.")
	fs.StringVar(&opts.logPath, "log", "", "Also append the results to this file.")
	fs.Uint64Var(&opts.seed, "seed", 42, "Seed of the random operands.")
	fs.BoolVar(&opts.progress, "progress", true, "Show a progress bar on stderr.")
}

// resolveParams starts from the environment and applies the flags set on
// the command line.
func resolveParams(fs *pflag.FlagSet, opts *runOptions) (sgemm.Params, error) {
	params, err := sgemm.ParamsFromEnv()
	if err != nil {
		return params, err
	}
	if fs.Changed("macro") {
		params.MacroBlock = opts.macro
	}
	if fs.Changed("micro") {
		params.MicroTile = opts.micro
	}
	if fs.Changed("lanes") {
		params.Lanes = opts.lanes
	}
	if fs.Changed("packing") {
		if params.Packing, err = sgemm.ParsePackingStrategy(opts.packing); err != nil {
			return params, err
		}
	}
	return params, params.Validate()
}

func runBenchmarks(stdout, stderr io.Writer, opts *runOptions, params sgemm.Params) error {
	impl, err := selectImpl(opts.impl, params)
	if err != nil {
		return err
	}
	for _, n := range opts.sizes {
		if n < 1 {
			return errors.Errorf("invalid size %d", n)
		}
	}

	out := stdout
	if opts.logPath != "" {
		f, err := os.Create(opts.logPath)
		if err != nil {
			return errors.Wrapf(err, "creating log %s", opts.logPath)
		}
		defer f.Close()
		out = io.MultiWriter(stdout, f)
	}
	w := benchlog.NewWriter(out)
	if err := w.Header("Description:\t%s (%s)", impl.description, hwy.CurrentName()); err != nil {
		return err
	}
	klog.Infof("Timing %s on %s over %d sizes", impl.description, hwy.CurrentName(), len(opts.sizes))

	var bar *progressbar.ProgressBar
	if opts.progress {
		bar = progressbar.NewOptions(len(opts.sizes),
			progressbar.OptionSetWriter(stderr),
			progressbar.OptionSetDescription(impl.name),
			progressbar.OptionShowCount(),
			progressbar.OptionSetTheme(progressbar.ThemeASCII),
			progressbar.OptionClearOnFinish(),
		)
	}

	rng := rand.New(rand.NewPCG(opts.seed, opts.seed))
	for _, n := range opts.sizes {
		if opts.check {
			if err := checkSize(impl.fn, n, rng); err != nil {
				return errors.WithMessagef(err, "%s", impl.name)
			}
		}
		result := timeSize(impl.fn, n, opts.minSeconds, rng)
		if klog.V(1).Enabled() {
			klog.Infof("n=%d: %s flops/call, %s of operands, %d iterations in %.3fs",
				n, humanize.Comma(int64(benchlog.Flops(n))), humanize.Bytes(uint64(3*n*n*4)),
				result.Iterations, result.Seconds)
		}
		if err := w.Write(result); err != nil {
			return err
		}
		if bar != nil {
			_ = bar.Add(1)
		}
	}
	if bar != nil {
		_ = bar.Finish()
	}
	return nil
}

// randomOperands returns n×n matrices with values in [-1, 1).
func randomOperands(n int, rng *rand.Rand) (a, b, c []float32) {
	fill := func() []float32 {
		m := make([]float32, n*n)
		for i := range m {
			m[i] = 2*rng.Float32() - 1
		}
		return m
	}
	return fill(), fill(), fill()
}

// timeSize doubles the number of calls until they take at least
// minSeconds, and reports the rate of the last batch.
func timeSize(fn sgemmFunc, n int, minSeconds float64, rng *rand.Rand) benchlog.Result {
	a, b, c := randomOperands(n, rng)
	for iterations := 1; ; iterations *= 2 {
		start := time.Now()
		for range iterations {
			fn(n, n, a, b, c)
		}
		elapsed := time.Since(start).Seconds()
		if elapsed >= minSeconds {
			return benchlog.NewResult(n, iterations, elapsed)
		}
		// Keep C bounded across batches.
		clear(c)
	}
}

// checkSize runs fn once and compares it with a float64 evaluation.
// Each element may differ by 3·n·ε·(Σ|a||b| + |c|), ε the float32 unit roundoff.
func checkSize(fn sgemmFunc, n int, rng *rand.Rand) error {
	const eps = 1.0 / (1 << 24)
	a, b, c := randomOperands(n, rng)
	c0 := slices.Clone(c)
	fn(n, n, a, b, c)
	for j := range n {
		for i := range n {
			want := float64(c0[i+j*n])
			mag := math.Abs(want)
			for p := range n {
				x := float64(a[i+p*n]) * float64(b[p+j*n])
				want += x
				mag += math.Abs(x)
			}
			got := float64(c[i+j*n])
			bound := 3 * float64(n) * eps * mag
			if diff := math.Abs(got - want); !(diff <= bound) {
				return errors.Errorf("n=%d: C[%d,%d] = %g, want %g (error %g > bound %g)", n, i, j, got, want, diff, bound)
			}
		}
	}
	return nil
}
