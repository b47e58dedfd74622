// Package benchlog reads and writes sgemm benchmark logs.
//
// A log is plain text. Every measurement is one line of the form
//
//	Size: 256	Gflop/s: 12.34 (40 iter in 0.123 seconds)
//
// where the size is followed by a tab and the rate is the third
// space-separated field. All other lines (headers, notes) are ignored by
// the readers.
package benchlog

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Marker identifies measurement lines.
const Marker = "Gflop/s"

// Result is one measurement.
type Result struct {
	Size       int
	Gflops     float64
	Iterations int
	Seconds    float64
}

// Flops returns the floating-point operations of one n×n multiply-accumulate.
func Flops(n int) float64 {
	fn := float64(n)
	return 2 * fn * fn * fn
}

// NewResult computes the rate of iterations runs of size n taking seconds.
func NewResult(n, iterations int, seconds float64) Result {
	r := Result{Size: n, Iterations: iterations, Seconds: seconds}
	if seconds > 0 {
		r.Gflops = Flops(n) * float64(iterations) / seconds / 1e9
	}
	return r
}

// Format renders r as a log line, without the trailing newline.
func Format(r Result) string {
	return fmt.Sprintf("Size: %d\t%s: %.4g (%d iter in %.3f seconds)", r.Size, Marker, r.Gflops, r.Iterations, r.Seconds)
}

// ParseLine parses a measurement line. ok is false for lines that do not
// carry a measurement.
func ParseLine(line string) (r Result, ok bool, err error) {
	if !strings.Contains(line, Marker) {
		return r, false, nil
	}
	fields := strings.Split(strings.TrimSpace(line), " ")
	if len(fields) < 3 {
		return r, false, errors.Errorf("benchlog: malformed line %q", line)
	}
	sizeField, _, _ := strings.Cut(fields[1], "\t")
	if r.Size, err = strconv.Atoi(sizeField); err != nil {
		return r, false, errors.Wrapf(err, "benchlog: size in line %q", line)
	}
	if r.Gflops, err = strconv.ParseFloat(fields[2], 64); err != nil {
		return r, false, errors.Wrapf(err, "benchlog: rate in line %q", line)
	}
	// The "(N iter in S seconds)" suffix is optional.
	if len(fields) >= 7 && fields[4] == "iter" {
		r.Iterations, _ = strconv.Atoi(strings.TrimPrefix(fields[3], "("))
		r.Seconds, _ = strconv.ParseFloat(fields[6], 64)
	}
	return r, true, nil
}

// Read parses all measurement lines of a log.
func Read(reader io.Reader) ([]Result, error) {
	var results []Result
	scanner := bufio.NewScanner(reader)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		r, ok, err := ParseLine(scanner.Text())
		if err != nil {
			return nil, errors.WithMessagef(err, "line %d", lineNum)
		}
		if ok {
			results = append(results, r)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "benchlog: reading log")
	}
	return results, nil
}

// ReadFile parses the log at path.
func ReadFile(path string) ([]Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "benchlog: opening %s", path)
	}
	defer f.Close()
	results, err := Read(f)
	if err != nil {
		return nil, errors.WithMessage(err, path)
	}
	return results, nil
}

// Writer appends measurement lines to an io.Writer.
type Writer struct {
	w io.Writer
}

// NewWriter returns a Writer on w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Header writes a free-form line that readers skip. It must not contain
// the marker.
func (w *Writer) Header(format string, args ...any) error {
	line := fmt.Sprintf(format, args...)
	if strings.Contains(line, Marker) {
		return errors.Errorf("benchlog: header %q contains %q", line, Marker)
	}
	_, err := fmt.Fprintln(w.w, line)
	return errors.Wrap(err, "benchlog: writing header")
}

// Write writes one measurement line.
func (w *Writer) Write(r Result) error {
	_, err := fmt.Fprintln(w.w, Format(r))
	return errors.Wrap(err, "benchlog: writing result")
}
