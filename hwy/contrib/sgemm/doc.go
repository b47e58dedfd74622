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

// Package sgemm computes the in-place accumulation C += A·B for square,
// column-major, single-precision matrices.
//
// The kernel family is tuned for memory-hierarchy and SIMD efficiency:
//
//   - The N×N problem is cut into macro tiles of MacroBlock along rows,
//     columns and depth.
//   - Each macro tile packs its B slice into transposed column panels and
//     its A slice into row panels, so the hot loop streams unit-stride data.
//   - Every MicroTile×MicroTile output tile that fits exactly is computed by
//     a register-resident vector micro-kernel written against hwy.Vec;
//     remainder tiles go through a scalar micro-kernel on a copy of C.
//
// Example usage:
//
//	// C += A * B where A, B, C are n×n column-major with leading dimension ld
//	sgemm.SquareSgemm(n, ld, a, b, c)
//
//	// Or with explicit tuning parameters:
//	k := sgemm.MustNew(sgemm.ParamsAVX2())
//	k.Accumulate(n, ld, a, b, c)
//
// Preconditions (n ≥ 0, ld ≥ n, slices large enough, C disjoint from A and
// B) are not checked unless the package is built with -tags sgemmdebug; see
// Validate.
package sgemm
