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
	"math"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/ajroetker/go-sgemm/hwy"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas32"
)

// eps32 is the unit roundoff of float32.
const eps32 = 1.0 / (1 << 24)

// matrixLen returns the number of elements an n×n matrix with leading
// dimension ld needs.
func matrixLen(n, ld int) int {
	if n == 0 {
		return 0
	}
	return (n-1)*ld + n
}

// randomMatrix returns an n×n column-major matrix with values in [-1, 1).
// Padding rows (when ld > n) are filled with NaN so any read of them shows up.
func randomMatrix(rng *rand.Rand, n, ld int) []float32 {
	m := make([]float32, matrixLen(n, ld))
	for i := range m {
		if i%ld < n {
			m[i] = 2*rng.Float32() - 1
		} else {
			m[i] = float32(math.NaN())
		}
	}
	return m
}

// reference computes C + A·B in float64, and for each element a bound on the
// error of any float32 evaluation order: (n+2)·2·eps32·(|c| + Σ|a||b|).
func reference(n, ld int, a, b, c []float32) (want, bound []float64) {
	want = make([]float64, n*n)
	bound = make([]float64, n*n)
	for j := range n {
		for i := range n {
			sum := float64(c[i+j*ld])
			mag := math.Abs(sum)
			for p := range n {
				x := float64(a[i+p*ld]) * float64(b[p+j*ld])
				sum += x
				mag += math.Abs(x)
			}
			want[i+j*n] = sum
			bound[i+j*n] = float64(2*(n+2))*eps32*mag + 1e-30
		}
	}
	return
}

// firstMismatch returns an error describing the first element of got that is
// farther from want than its bound allows.
func firstMismatch(n, ld int, got []float32, want, bound []float64) error {
	for j := range n {
		for i := range n {
			g := float64(got[i+j*ld])
			w := want[i+j*n]
			if diff := math.Abs(g - w); !(diff <= bound[i+j*n]) {
				return errors.Errorf("C[%d,%d] = %g, want %g (diff %g > bound %g)", i, j, g, w, diff, bound[i+j*n])
			}
		}
	}
	return nil
}

// testParams covers every micro-kernel shape, both packing strategies, and
// macro blocks that are smaller than, equal to, or not multiples of the
// micro tile.
func testParams() []Params {
	return []Params{
		ParamsTiny(),
		ParamsSmall(),
		ParamsNEON(),
		ParamsAVX2(),
		ParamsAVX512(),
		{MacroBlock: 20, MicroTile: 8, Lanes: 4, Packing: PackPerMicroTile},
		{MacroBlock: 33, MicroTile: 4, Lanes: 4, Packing: PackPerMicroTile},
		{MacroBlock: 7, MicroTile: 16, Lanes: 8},
		{MacroBlock: 48, MicroTile: 16, Lanes: 4},
	}
}

var testSizes = []int{0, 1, 2, 3, 4, 5, 7, 8, 9, 15, 16, 17, 31, 32, 33, 63, 64, 65, 127, 128, 129}

func TestAccumulateMatchesReference(t *testing.T) {
	t.Logf("Dispatch level: %s", hwy.CurrentName())
	for _, params := range testParams() {
		k := MustNew(params)
		for _, n := range testSizes {
			if testing.Short() && n > 64 {
				continue
			}
			t.Run(fmt.Sprintf("%s/n=%d", k.Params(), n), func(t *testing.T) {
				rng := rand.New(rand.NewPCG(uint64(n), 1))
				ld := max(n, 1)
				a := randomMatrix(rng, n, ld)
				b := randomMatrix(rng, n, ld)
				c := randomMatrix(rng, n, ld)
				want, bound := reference(n, ld, a, b, c)
				k.Accumulate(n, ld, a, b, c)
				require.NoError(t, firstMismatch(n, ld, c, want, bound))
			})
		}
	}
}

func TestSquareSgemm(t *testing.T) {
	t.Logf("%s", Describe())
	rng := rand.New(rand.NewPCG(7, 7))
	for _, n := range []int{1, 13, 64, 100} {
		a := randomMatrix(rng, n, n)
		b := randomMatrix(rng, n, n)
		c := randomMatrix(rng, n, n)
		want, bound := reference(n, n, a, b, c)
		SquareSgemm(n, n, a, b, c)
		require.NoErrorf(t, firstMismatch(n, n, c, want, bound), "n=%d", n)
	}
}

func TestNaive(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 5))
	for _, n := range []int{0, 1, 6, 37} {
		ld := n + 3
		a := randomMatrix(rng, n, ld)
		b := randomMatrix(rng, n, ld)
		c := randomMatrix(rng, n, ld)
		want, bound := reference(n, ld, a, b, c)
		Naive(n, ld, a, b, c)
		require.NoErrorf(t, firstMismatch(n, ld, c, want, bound), "n=%d", n)
	}
}

func TestMatchesGonumBLAS(t *testing.T) {
	rng := rand.New(rand.NewPCG(11, 13))
	for _, n := range []int{1, 8, 45, 96} {
		ld := n + 1
		a := randomMatrix(rng, n, ld)
		b := randomMatrix(rng, n, ld)
		c := randomMatrix(rng, n, ld)
		_, bound := reference(n, ld, a, b, c)

		// A column-major matrix read as row-major is its transpose, so
		// Cᵀ += Bᵀ·Aᵀ in row-major is C += A·B in column-major.
		oracle := slices.Clone(c)
		general := func(data []float32) blas32.General {
			return blas32.General{Rows: n, Cols: n, Stride: ld, Data: data}
		}
		blas32.Gemm(blas.NoTrans, blas.NoTrans, 1, general(b), general(a), 1, general(oracle))

		SquareSgemm(n, ld, a, b, c)
		for j := range n {
			for i := range n {
				idx := i + j*ld
				diff := math.Abs(float64(c[idx]) - float64(oracle[idx]))
				require.LessOrEqualf(t, diff, 2*bound[i+j*n], "n=%d C[%d,%d]: got %g, gonum %g", n, i, j, c[idx], oracle[idx])
			}
		}
	}
}

func TestAdditivity(t *testing.T) {
	rng := rand.New(rand.NewPCG(17, 19))
	for _, params := range []Params{ParamsSmall(), ParamsNEON(), ParamsAVX512()} {
		k := MustNew(params)
		n := 41
		a := randomMatrix(rng, n, n)
		b := randomMatrix(rng, n, n)
		c := randomMatrix(rng, n, n)
		c0 := slices.Clone(c)

		k.Accumulate(n, n, a, b, c)
		k.Accumulate(n, n, a, b, c)

		// C1 - C0 ≈ 2·A·B.
		zero := make([]float32, len(c))
		product, bound := reference(n, n, a, b, zero)
		for j := range n {
			for i := range n {
				got := float64(c[i+j*n]) - float64(c0[i+j*n])
				want := 2 * product[i+j*n]
				tol := 4*bound[i+j*n] + float64(4*(n+2))*eps32*(math.Abs(float64(c0[i+j*n]))+math.Abs(want))
				require.InDeltaf(t, want, got, tol, "%s C[%d,%d]", k.Params(), i, j)
			}
		}
	}
}

func TestIdentityProbe(t *testing.T) {
	const n = 8
	rng := rand.New(rand.NewPCG(23, 29))
	for _, params := range testParams() {
		a := make([]float32, n*n)
		for i := range n {
			a[i+i*n] = 1
		}
		b := randomMatrix(rng, n, n)
		c := make([]float32, n*n)
		MustNew(params).Accumulate(n, n, a, b, c)
		if diff := cmp.Diff(b, c, cmpopts.EquateApprox(0, 1e-6)); diff != "" {
			t.Errorf("%s: I·B != B (-want +got):\n%s", params, diff)
		}
	}
}

func TestZeroProbe(t *testing.T) {
	const n = 23
	rng := rand.New(rand.NewPCG(31, 37))
	for _, params := range testParams() {
		k := MustNew(params)
		zero := make([]float32, n*n)
		other := randomMatrix(rng, n, n)

		c := randomMatrix(rng, n, n)
		want := slices.Clone(c)
		k.Accumulate(n, n, zero, other, c)
		require.Equalf(t, want, c, "%s: 0·B must leave C unchanged", k.Params())

		k.Accumulate(n, n, other, zero, c)
		require.Equalf(t, want, c, "%s: A·0 must leave C unchanged", k.Params())
	}
}

func TestBlockSizeInvariance(t *testing.T) {
	const n = 70
	rng := rand.New(rand.NewPCG(41, 43))
	a := randomMatrix(rng, n, n)
	b := randomMatrix(rng, n, n)
	c0 := randomMatrix(rng, n, n)

	var baseline []float32
	for _, params := range testParams() {
		c := slices.Clone(c0)
		MustNew(params).Accumulate(n, n, a, b, c)
		if baseline == nil {
			baseline = c
			continue
		}
		if diff := cmp.Diff(baseline, c, cmpopts.EquateApprox(1e-5, 1e-4)); diff != "" {
			t.Errorf("%s differs from %s:\n%s", params, testParams()[0], diff)
		}
	}
}

func TestOperandsUnchanged(t *testing.T) {
	const n, ld = 37, 40
	rng := rand.New(rand.NewPCG(47, 53))
	a := randomMatrix(rng, n, ld)
	b := randomMatrix(rng, n, ld)
	c := randomMatrix(rng, n, ld)
	aBits := bits(a)
	bBits := bits(b)
	for _, params := range testParams() {
		MustNew(params).Accumulate(n, ld, a, b, c)
		require.Equal(t, aBits, bits(a), "A modified")
		require.Equal(t, bBits, bits(b), "B modified")
	}
}

// bits returns the raw representation of x, so NaN padding compares equal.
func bits(x []float32) []uint32 {
	out := make([]uint32, len(x))
	for i, v := range x {
		out[i] = math.Float32bits(v)
	}
	return out
}

func TestAliasedAB(t *testing.T) {
	const n = 19
	rng := rand.New(rand.NewPCG(59, 61))
	a := randomMatrix(rng, n, n)
	c := randomMatrix(rng, n, n)
	want, bound := reference(n, n, a, a, c)
	SquareSgemm(n, n, a, a, c)
	require.NoError(t, firstMismatch(n, n, c, want, bound))
}

func TestLeadingDimensionLargerThanN(t *testing.T) {
	const n, ld = 29, 35
	rng := rand.New(rand.NewPCG(67, 71))
	for _, params := range testParams() {
		a := randomMatrix(rng, n, ld)
		b := randomMatrix(rng, n, ld)
		c := randomMatrix(rng, n, ld)
		// Mark padding rows of C with a sentinel.
		for i := range c {
			if i%ld >= n {
				c[i] = -12345
			}
		}
		want, bound := reference(n, ld, a, b, c)
		MustNew(params).Accumulate(n, ld, a, b, c)
		require.NoError(t, firstMismatch(n, ld, c, want, bound))
		for i := range c {
			if i%ld >= n {
				require.Equalf(t, float32(-12345), c[i], "%s: padding element %d written", params, i)
			}
		}
	}
}

func TestVectorKernelMatchesGeneric(t *testing.T) {
	rng := rand.New(rand.NewPCG(73, 79))
	for _, shape := range []struct{ bs, lanes int }{
		{4, 4}, {8, 4}, {8, 8}, {16, 4}, {16, 8}, {16, 16},
	} {
		for _, k := range []int{1, 7, 64} {
			bs := shape.bs
			ldc := bs + 3
			packedA := make([]float32, k*bs)
			packedB := make([]float32, k*bs)
			for i := range packedA {
				packedA[i] = 2*rng.Float32() - 1
				packedB[i] = 2*rng.Float32() - 1
			}
			c0 := make([]float32, (bs-1)*ldc+bs)
			for i := range c0 {
				c0[i] = 2*rng.Float32() - 1
			}

			vec := slices.Clone(c0)
			vectorKernel(bs, shape.lanes, k, packedA, packedB, vec, ldc)
			gen := slices.Clone(c0)
			genericKernel(bs, bs, k, packedA, 1, bs, packedB, bs, 1, gen, ldc)

			if diff := cmp.Diff(gen, vec, cmpopts.EquateApprox(1e-5, 1e-5)); diff != "" {
				t.Errorf("bs=%d lanes=%d k=%d: vector kernel differs from generic (-generic +vector):\n%s",
					bs, shape.lanes, k, diff)
			}
		}
	}
}

func TestBlockKernelDegenerate(t *testing.T) {
	params := ParamsNEON().Resolved()
	s := &scratch{}
	s.reserve(params, params.MacroBlock)
	rng := rand.New(rand.NewPCG(83, 89))
	const ld = 10
	a := randomMatrix(rng, ld, ld)
	b := randomMatrix(rng, ld, ld)
	c := randomMatrix(rng, ld, ld)
	want := bits(c)
	for _, dims := range [][3]int{{0, 5, 5}, {5, 0, 5}, {5, 5, 0}} {
		blockKernel(params, s, ld, dims[0], dims[1], dims[2], a, b, c)
		require.Equalf(t, want, bits(c), "m,n,k=%v", dims)
	}
}

func TestConcurrentIndependentCalls(t *testing.T) {
	k := MustNew(ParamsNEON())
	var g errgroup.Group
	for worker := range 8 {
		g.Go(func() error {
			rng := rand.New(rand.NewPCG(uint64(worker), 97))
			n := 50 + worker
			a := randomMatrix(rng, n, n)
			b := randomMatrix(rng, n, n)
			c := randomMatrix(rng, n, n)
			want, bound := reference(n, n, a, b, c)
			k.Accumulate(n, n, a, b, c)
			return errors.WithMessagef(firstMismatch(n, n, c, want, bound), "worker %d", worker)
		})
	}
	require.NoError(t, g.Wait())
}
