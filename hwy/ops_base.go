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

package hwy

import "math"

// This file provides the pure Go implementations of the vector operations.
// Every operation works on the active lanes of its operands; binary
// operations use the smaller of the two lane counts.

// clampLanes bounds a requested lane count to [0, MaxVecLanes].
func clampLanes(n int) int {
	return min(max(n, 0), MaxVecLanes)
}

// LoadN creates a vector of n lanes from the start of src.
// If src is shorter than n, the missing lanes are zero.
func LoadN[T Floats](src []T, n int) Vec[T] {
	n = clampLanes(n)
	var v Vec[T]
	v.n = n
	copy(v.data[:n], src)
	return v
}

// Load creates a vector with MaxLanes[T]() lanes from the start of src.
func Load[T Floats](src []T) Vec[T] {
	return LoadN(src, MaxLanes[T]())
}

// Store writes a vector's data to a slice.
// At most len(dst) lanes are written.
func Store[T Floats](v Vec[T], dst []T) {
	n := min(len(dst), v.n)
	copy(dst[:n], v.data[:n])
}

// SetN creates a vector of n lanes all set to value.
func SetN[T Floats](value T, n int) Vec[T] {
	n = clampLanes(n)
	var v Vec[T]
	v.n = n
	for i := range n {
		v.data[i] = value
	}
	return v
}

// Set creates a vector with all MaxLanes[T]() lanes set to the same value.
func Set[T Floats](value T) Vec[T] {
	return SetN(value, MaxLanes[T]())
}

// ZeroN creates a vector of n lanes set to zero.
func ZeroN[T Floats](n int) Vec[T] {
	return Vec[T]{n: clampLanes(n)}
}

// Zero creates a vector with all MaxLanes[T]() lanes set to zero.
func Zero[T Floats]() Vec[T] {
	return ZeroN[T](MaxLanes[T]())
}

// Add performs element-wise addition.
func Add[T Floats](a, b Vec[T]) Vec[T] {
	var r Vec[T]
	r.n = min(a.n, b.n)
	for i := range r.n {
		r.data[i] = a.data[i] + b.data[i]
	}
	return r
}

// Mul performs element-wise multiplication.
func Mul[T Floats](a, b Vec[T]) Vec[T] {
	var r Vec[T]
	r.n = min(a.n, b.n)
	for i := range r.n {
		r.data[i] = a.data[i] * b.data[i]
	}
	return r
}

// MulAdd computes a*b + c per lane.
//
// The product and the sum are written as separate operations; the compiler
// may contract them into a hardware FMA on targets that have one (arm64,
// ppc64, s390x). Use FMA to force a single rounding everywhere.
func MulAdd[T Floats](a, b, c Vec[T]) Vec[T] {
	var r Vec[T]
	r.n = min(a.n, b.n, c.n)
	for i := range r.n {
		r.data[i] = a.data[i]*b.data[i] + c.data[i]
	}
	return r
}

// FMA performs fused multiply-add: a*b + c with a single rounding.
func FMA[T Floats](a, b, c Vec[T]) Vec[T] {
	var r Vec[T]
	r.n = min(a.n, b.n, c.n)
	for i := range r.n {
		r.data[i] = T(math.FMA(float64(a.data[i]), float64(b.data[i]), float64(c.data[i])))
	}
	return r
}

// ReduceSum sums all active lanes.
func ReduceSum[T Floats](v Vec[T]) T {
	var sum T
	for i := range v.n {
		sum += v.data[i]
	}
	return sum
}
