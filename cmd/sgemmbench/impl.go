package main

import (
	"strings"

	"github.com/ajroetker/go-sgemm/hwy/contrib/sgemm"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas32"
)

// sgemmFunc computes C += A·B for n×n column-major matrices with leading
// dimension ld.
type sgemmFunc func(n, ld int, a, b, c []float32)

// implementation is a benchmarkable sgemm.
type implementation struct {
	name        string
	description string
	fn          sgemmFunc
}

var implNames = []string{"blocked", "naive", "blas"}

// selectImpl returns the implementation registered under name.
func selectImpl(name string, params sgemm.Params) (implementation, error) {
	switch strings.ToLower(name) {
	case "blocked":
		k, err := sgemm.New(params)
		if err != nil {
			return implementation{}, err
		}
		return implementation{name: "blocked", description: k.String(), fn: k.Accumulate}, nil
	case "naive":
		return implementation{name: "naive", description: "naive triple loop", fn: sgemm.Naive}, nil
	case "blas":
		return implementation{name: "blas", description: "gonum blas32.Gemm", fn: blasSgemm}, nil
	}
	return implementation{}, errors.Errorf("unknown implementation %q, want one of %s", name, strings.Join(implNames, ", "))
}

// blasSgemm calls gonum's row-major Gemm. A column-major matrix read as
// row-major is its transpose, so computing Cᵀ += Bᵀ·Aᵀ row-major yields
// C += A·B column-major.
func blasSgemm(n, ld int, a, b, c []float32) {
	if n == 0 {
		return
	}
	view := func(data []float32) blas32.General {
		return blas32.General{Rows: n, Cols: n, Stride: ld, Data: data}
	}
	blas32.Gemm(blas.NoTrans, blas.NoTrans, 1, view(b), view(a), 1, view(c))
}
