package benchlog

import (
	"cmp"
	"path/filepath"
	"slices"
	"strings"

	"github.com/pkg/errors"
	"github.com/samber/lo"
)

// Summary aggregates one log file.
type Summary struct {
	// Name is the file name without directory and ".log" extension.
	Name    string
	Path    string
	Results []Result
	Average float64
	Peak    Result
}

// Summarize returns the average rate of each log, ordered from slowest to
// fastest. Logs without measurements are an error.
func Summarize(paths []string) ([]Summary, error) {
	summaries := make([]Summary, 0, len(paths))
	for _, path := range paths {
		results, err := ReadFile(path)
		if err != nil {
			return nil, err
		}
		s, err := NewSummary(path, results)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, s)
	}
	slices.SortStableFunc(summaries, func(a, b Summary) int {
		return cmp.Compare(a.Average, b.Average)
	})
	return summaries, nil
}

// NewSummary aggregates the results read from path.
func NewSummary(path string, results []Result) (Summary, error) {
	if len(results) == 0 {
		return Summary{}, errors.Errorf("benchlog: %s has no %s lines", path, Marker)
	}
	total := lo.SumBy(results, func(r Result) float64 { return r.Gflops })
	return Summary{
		Name:    LogName(path),
		Path:    path,
		Results: results,
		Average: total / float64(len(results)),
		Peak: lo.MaxBy(results, func(a, b Result) bool {
			return a.Gflops > b.Gflops
		}),
	}, nil
}

// LogName strips the directory and the ".log" extension from path.
func LogName(path string) string {
	return strings.TrimSuffix(filepath.Base(path), ".log")
}

// Sizes returns the sizes of results, in order.
func Sizes(results []Result) []int {
	return lo.Map(results, func(r Result, _ int) int { return r.Size })
}

// BySize indexes results by size; later results for the same size win.
func BySize(results []Result) map[int]Result {
	return lo.KeyBy(results, func(r Result) int { return r.Size })
}
