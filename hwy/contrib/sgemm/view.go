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

import "iter"

// View is a column-major matrix window over a flat slice: element (r, c)
// lives at Data[Offset + r + c*LD].
type View struct {
	Data       []float32
	Rows, Cols int
	LD         int
	Offset     int
}

// NewView returns the n×n view of data with leading dimension ld.
func NewView(data []float32, n, ld int) View {
	return View{Data: data, Rows: n, Cols: n, LD: ld}
}

// Index returns the position of element (r, c) in Data.
func (v View) Index(r, c int) int {
	return v.Offset + r + c*v.LD
}

// At returns element (r, c).
func (v View) At(r, c int) float32 {
	return v.Data[v.Index(r, c)]
}

// Set stores x at element (r, c).
func (v View) Set(r, c int, x float32) {
	v.Data[v.Index(r, c)] = x
}

// Sub returns the rows×cols window starting at (r, c). The window shares
// Data with v.
func (v View) Sub(r, c, rows, cols int) View {
	return View{
		Data:   v.Data,
		Rows:   rows,
		Cols:   cols,
		LD:     v.LD,
		Offset: v.Index(r, c),
	}
}

// Origin returns Data starting at element (0, 0).
func (v View) Origin() []float32 {
	return v.Data[v.Offset:]
}

// Tile is one macro tile of the product: rows [Row, Row+Rows) of C, columns
// [Col, Col+Cols) of C, and depth [Depth, Depth+DepthExtent) of the
// reduction dimension.
type Tile struct {
	Row, Col, Depth         int
	Rows, Cols, DepthExtent int
}

// Tiles yields the macro tiles covering an n×n product, with the row index
// outermost, then the column index, then depth. Each (i, j, k) triple is
// covered exactly once and every extent is min(MacroBlock, n - offset).
func (p Params) Tiles(n int) iter.Seq[Tile] {
	bm := p.MacroBlock
	return func(yield func(Tile) bool) {
		if bm < 1 {
			return
		}
		for i := 0; i < n; i += bm {
			rows := min(bm, n-i)
			for j := 0; j < n; j += bm {
				cols := min(bm, n-j)
				for k := 0; k < n; k += bm {
					t := Tile{
						Row: i, Col: j, Depth: k,
						Rows: rows, Cols: cols, DepthExtent: min(bm, n-k),
					}
					if !yield(t) {
						return
					}
				}
			}
		}
	}
}
