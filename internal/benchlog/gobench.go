package benchlog

import (
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/tools/benchmark/parse"
)

// ParseGoBench converts `go test -bench` output into results. Only
// benchmarks whose name starts with prefix and whose last path element is
// a matrix size are kept, e.g. "BenchmarkSquareSgemm/256-8".
//
// The rate is recomputed from ns/op, so custom metrics are not needed.
func ParseGoBench(r io.Reader, prefix string) ([]Result, error) {
	set, err := parse.ParseSet(r)
	if err != nil {
		return nil, errors.Wrap(err, "benchlog: parsing go test output")
	}
	var results []Result
	for name, runs := range set {
		if !strings.HasPrefix(name, prefix) {
			continue
		}
		n, ok := benchSize(name)
		if !ok {
			continue
		}
		for _, b := range runs {
			if b.NsPerOp <= 0 {
				continue
			}
			results = append(results, NewResult(n, b.N, b.NsPerOp*float64(b.N)/1e9))
		}
	}
	slices.SortStableFunc(results, func(a, b Result) int { return a.Size - b.Size })
	return results, nil
}

// benchSize extracts the size from names like "BenchmarkX/256-8" or "BenchmarkX/256".
func benchSize(name string) (int, bool) {
	idx := strings.LastIndex(name, "/")
	if idx < 0 {
		return 0, false
	}
	last := name[idx+1:]
	if dash := strings.LastIndex(last, "-"); dash > 0 {
		last = last[:dash]
	}
	n, err := strconv.Atoi(last)
	return n, err == nil && n > 0
}
