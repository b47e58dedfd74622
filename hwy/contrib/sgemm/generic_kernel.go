package sgemm

// genericKernel computes C[0:m, 0:n] += A[0:m, 0:k] · B[0:k, 0:n] with one
// scalar accumulator per output element.
//
// Operands are addressed by strides so the same loop serves packed panels
// and plain column-major storage:
//
//	A(i, p) = a[i*aRow + p*aDepth]
//	B(p, j) = b[p*bDepth + j*bCol]
//	C(i, j) = c[i + j*ldc]
//
// Each C(i, j) is loaded once, accumulated over p in increasing order and
// stored once.
func genericKernel(m, n, k int, a []float32, aRow, aDepth int, b []float32, bDepth, bCol int, c []float32, ldc int) {
	if m == 0 || n == 0 || k == 0 {
		return
	}
	for j := range n {
		cCol := c[j*ldc : j*ldc+m]
		bOff := j * bCol
		for i := range cCol {
			sum := cCol[i]
			aIdx := i * aRow
			bIdx := bOff
			for range k {
				sum += a[aIdx] * b[bIdx]
				aIdx += aDepth
				bIdx += bDepth
			}
			cCol[i] = sum
		}
	}
}
