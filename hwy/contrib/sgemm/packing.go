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

// Packing rearranges the operands of a macro tile so the micro-kernels
// read them with unit stride.
//
// Row panels of A ([k][bs] per panel):
//
//	panel i, step p: A[i*bs+0, p], A[i*bs+1, p], ..., A[i*bs+bs-1, p]
//
// Column panels of B, transposed ([k][bs] per panel):
//
//	panel j, step p: B[p, j*bs+0], B[p, j*bs+1], ..., B[p, j*bs+bs-1]
//
// Rows or columns past the edge of the tile are zero-filled so a partial
// panel has the same shape as a full one.

// packRowPanel packs rows [0, rows) of the column-major block a (leading
// dimension lda) over depth k into dst, which must hold k*bs values.
func packRowPanel(a []float32, lda, rows, k, bs int, dst []float32) {
	for p := range k {
		out := dst[p*bs : (p+1)*bs]
		copy(out[:rows], a[p*lda:p*lda+rows])
		clear(out[rows:])
	}
}

// packRowPanels packs the m×k block a into ceil(m/bs) row panels.
func packRowPanels(a []float32, lda, m, k, bs int, packed []float32) {
	panelSize := k * bs
	for i0, panel := 0, 0; i0 < m; i0, panel = i0+bs, panel+1 {
		packRowPanel(a[i0:], lda, min(bs, m-i0), k, bs, packed[panel*panelSize:(panel+1)*panelSize])
	}
}

// packColPanel packs columns [0, cols) of the column-major block b (leading
// dimension ldb) over depth k into dst, transposed. dst must hold k*bs values.
func packColPanel(b []float32, ldb, k, cols, bs int, dst []float32) {
	for jj := range cols {
		col := b[jj*ldb : jj*ldb+k]
		for p, v := range col {
			dst[p*bs+jj] = v
		}
	}
	if cols < bs {
		for p := range k {
			clear(dst[p*bs+cols : (p+1)*bs])
		}
	}
}

// packColPanels packs the k×n block b into ceil(n/bs) transposed column panels.
func packColPanels(b []float32, ldb, k, n, bs int, packed []float32) {
	panelSize := k * bs
	for j0, panel := 0, 0; j0 < n; j0, panel = j0+bs, panel+1 {
		packColPanel(b[j0*ldb:], ldb, k, min(bs, n-j0), bs, packed[panel*panelSize:(panel+1)*panelSize])
	}
}

// copyTileIn copies the rows×cols window of c (leading dimension ldc) into
// the top-left of the bs×bs column-major buffer tile. The rest of tile is
// left as is: the generic kernel never touches it.
func copyTileIn(c []float32, ldc, rows, cols int, tile []float32, bs int) {
	for j := range cols {
		copy(tile[j*bs:j*bs+rows], c[j*ldc:j*ldc+rows])
	}
}

// copyTileOut is the inverse of copyTileIn.
func copyTileOut(tile []float32, bs, rows, cols int, c []float32, ldc int) {
	for j := range cols {
		copy(c[j*ldc:j*ldc+rows], tile[j*bs:j*bs+rows])
	}
}
