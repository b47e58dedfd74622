// Copyright 2025 go-highway Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package sgemm

import (
	"fmt"
	"sync"

	"github.com/ajroetker/go-sgemm/hwy"
)

// Kernel computes C += A·B with a fixed set of blocking parameters.
//
// A Kernel is safe for concurrent use: scratch buffers come from a pool and
// each call holds its own. Calls on overlapping C matrices must still be
// serialized by the caller.
type Kernel struct {
	params Params
	pool   sync.Pool
}

// New returns a Kernel for the given parameters. Lanes of 0 is resolved to
// the detected vector width.
func New(params Params) (*Kernel, error) {
	params = params.Resolved()
	if err := params.Validate(); err != nil {
		return nil, err
	}
	k := &Kernel{params: params}
	k.pool.New = func() any {
		s := &scratch{}
		s.reserve(k.params, k.params.MacroBlock)
		return s
	}
	return k, nil
}

// MustNew is like New but panics on invalid parameters.
func MustNew(params Params) *Kernel {
	k, err := New(params)
	if err != nil {
		panic(err)
	}
	return k
}

// Params returns the resolved parameters of the kernel.
func (k *Kernel) Params() Params {
	return k.params
}

// String describes the kernel, e.g. "blocked sgemm (mb=128/mt=8/lanes=4/pack=once)".
func (k *Kernel) String() string {
	return fmt.Sprintf("blocked sgemm (%s)", k.params)
}

// Accumulate computes C += A·B for n×n column-major matrices with leading
// dimension ld. Element (r, c) of each matrix is at index r + c*ld.
//
// Preconditions: n >= 0, ld >= n, every slice holds at least (n-1)*ld+n
// elements, and C does not overlap A or B. They are only checked when built
// with -tags sgemmdebug, in which case a violation panics with the error
// from Validate.
//
// Only the n×n window of C is written; A and B are only read.
func (k *Kernel) Accumulate(n, ld int, a, b, c []float32) {
	if debugChecks {
		if err := Validate(n, ld, a, b, c); err != nil {
			panic(err)
		}
	}
	if n <= 0 {
		return
	}
	s := k.pool.Get().(*scratch)
	defer k.pool.Put(s)

	av, bv, cv := NewView(a, n, ld), NewView(b, n, ld), NewView(c, n, ld)
	for t := range k.params.Tiles(n) {
		blockKernel(k.params, s, ld, t.Rows, t.Cols, t.DepthExtent,
			av.Sub(t.Row, t.Depth, t.Rows, t.DepthExtent).Origin(),
			bv.Sub(t.Depth, t.Col, t.DepthExtent, t.Cols).Origin(),
			cv.Sub(t.Row, t.Col, t.Rows, t.Cols).Origin())
	}
}

var defaultKernel = sync.OnceValue(func() *Kernel {
	return MustNew(DefaultParams())
})

// Default returns the kernel used by SquareSgemm, built from DefaultParams.
func Default() *Kernel {
	return defaultKernel()
}

// SquareSgemm computes C += A·B for n×n column-major matrices with leading
// dimension ld, using the parameters for the detected vector width.
// See Kernel.Accumulate for the preconditions.
func SquareSgemm(n, ld int, a, b, c []float32) {
	defaultKernel().Accumulate(n, ld, a, b, c)
}

// Naive computes C += A·B with the plain triple loop. It has the same
// contract as SquareSgemm and serves as the baseline in benchmarks.
func Naive(n, ld int, a, b, c []float32) {
	if debugChecks {
		if err := Validate(n, ld, a, b, c); err != nil {
			panic(err)
		}
	}
	if n <= 0 {
		return
	}
	genericKernel(n, n, n, a, 1, ld, b, 1, ld, c, ld)
}

// Describe returns a one-line description of the dispatch target and the
// default kernel, for benchmark headers.
func Describe() string {
	return fmt.Sprintf("%s on %s (fma=%t)", defaultKernel(), hwy.CurrentName(), hwy.HasFMA())
}
