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

// scratch holds the buffers one Accumulate call needs. A Kernel keeps them
// in a sync.Pool so a buffer is used by at most one call at a time.
type scratch struct {
	packedA []float32
	packedB []float32
	edge    []float32 // bs×bs copy of a remainder C tile
}

// reserve grows the buffers to fit macro tiles of up to bm rows, columns and
// depth.
func (s *scratch) reserve(p Params, bm int) {
	s.packedA = grow(s.packedA, p.PackedASize(bm, bm))
	s.packedB = grow(s.packedB, p.PackedBSize(bm, bm))
	s.edge = grow(s.edge, p.MicroTile*p.MicroTile)
}

func grow(buf []float32, size int) []float32 {
	if cap(buf) < size {
		return make([]float32, size)
	}
	return buf[:size]
}

// blockKernel accumulates one macro tile: C[0:m, 0:n] += A[0:m, 0:k] · B[0:k, 0:n].
//
// a, b and c start at the tile origins of column-major matrices sharing the
// leading dimension ld. Any of m, n or k being 0 is a no-op.
//
// B is packed once into column panels. A is packed into row panels either
// once for the whole tile or per micro tile, following p.Packing. Full
// micro tiles are computed by vectorKernel directly on C; remainder tiles
// are copied into s.edge and computed by genericKernel.
func blockKernel(p Params, s *scratch, ld, m, n, k int, a, b, c []float32) {
	if m == 0 || n == 0 || k == 0 {
		return
	}
	bs := p.MicroTile
	panelSize := k * bs
	rowPanels := ceilDiv(m, bs)
	colPanels := ceilDiv(n, bs)

	packedB := s.packedB[:colPanels*panelSize]
	packColPanels(b, ld, k, n, bs, packedB)

	packOnce := p.Packing == PackAOnce
	var packedA []float32
	if packOnce {
		packedA = s.packedA[:rowPanels*panelSize]
		packRowPanels(a, ld, m, k, bs, packedA)
	} else {
		packedA = s.packedA[:panelSize]
	}

	for jp := range colPanels {
		j0 := jp * bs
		cols := min(bs, n-j0)
		bPanel := packedB[jp*panelSize : (jp+1)*panelSize]
		for ip := range rowPanels {
			i0 := ip * bs
			rows := min(bs, m-i0)
			var aPanel []float32
			if packOnce {
				aPanel = packedA[ip*panelSize : (ip+1)*panelSize]
			} else {
				aPanel = packedA
				packRowPanel(a[i0:], ld, rows, k, bs, aPanel)
			}

			cTile := c[i0+j0*ld:]
			if rows == bs && cols == bs {
				vectorKernel(bs, p.Lanes, k, aPanel, bPanel, cTile, ld)
				continue
			}
			edge := s.edge[:bs*bs]
			copyTileIn(cTile, ld, rows, cols, edge, bs)
			genericKernel(rows, cols, k, aPanel, 1, bs, bPanel, bs, 1, edge, bs)
			copyTileOut(edge, bs, rows, cols, cTile, ld)
		}
	}
}
