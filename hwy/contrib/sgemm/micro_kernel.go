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

import "github.com/ajroetker/go-sgemm/hwy"

// Accumulator bounds for the register tile. The largest legal tile is
// 16×16 with 4-lane vectors: 16 columns × 4 vectors each.
const (
	maxGroups       = 16 / 4
	maxAccumulators = 16 * maxGroups
)

// vectorKernel computes one full bs×bs tile: C[0:bs, 0:bs] += Ã · B̃.
//
// packedA is a row panel ([k][bs], see packRowPanel) and packedB a
// transposed column panel ([k][bs], see packColPanel). c starts at the
// tile origin with leading dimension ldc.
//
// The tile lives in bs×(bs/lanes) vector accumulators for the whole depth
// loop. Accumulator acc[j*groups+g] holds rows [g*lanes, (g+1)*lanes) of
// column j. For each depth step p:
//
//	a-vectors: Ã[p, g*lanes : (g+1)*lanes]  for each row group g
//	b-vectors: B̃[p, h*lanes : (h+1)*lanes]  for each column group h
//	acc[j, g] += a[g] * b[j/lanes][j%lanes]
//
// C is read once before the loop and written once after it.
func vectorKernel(bs, lanes, k int, packedA, packedB, c []float32, ldc int) {
	groups := bs / lanes

	var acc [maxAccumulators]hwy.Vec[float32]
	for j := range bs {
		col := c[j*ldc:]
		for g := range groups {
			acc[j*groups+g] = hwy.LoadN(col[g*lanes:], lanes)
		}
	}

	var va, vb [maxGroups]hwy.Vec[float32]
	for p := range k {
		aRow := packedA[p*bs : (p+1)*bs]
		bRow := packedB[p*bs : (p+1)*bs]
		for g := range groups {
			va[g] = hwy.LoadN(aRow[g*lanes:], lanes)
			vb[g] = hwy.LoadN(bRow[g*lanes:], lanes)
		}
		for j := range bs {
			b := vb[j/lanes]
			lane := j % lanes
			base := j * groups
			for g := range groups {
				acc[base+g] = hwy.MulAddLane(va[g], b, lane, acc[base+g])
			}
		}
	}

	for j := range bs {
		col := c[j*ldc:]
		for g := range groups {
			hwy.Store(acc[j*groups+g], col[g*lanes:(g+1)*lanes])
		}
	}
}
