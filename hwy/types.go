// Package hwy provides a portable vector-lane facade for float kernels.
//
// It follows the Highway C++ library's design philosophy: write the kernel
// once against a vector type, pick the lane count for the target at runtime.
// The lane count is detected from the CPU (AVX-512, AVX2, NEON, SSE2) and
// can be overridden per call site, so the same kernel source serves 4, 8 and
// 16 lane variants.
//
// Basic usage:
//
//	import "github.com/ajroetker/go-sgemm/hwy"
//
//	lanes := hwy.MaxLanes[float32]()
//	a := hwy.LoadN(data1, lanes)
//	b := hwy.LoadN(data2, lanes)
//	acc = hwy.MulAdd(a, b, acc)
//	hwy.Store(acc, output)
package hwy

// MaxVecLanes is the largest number of lanes a Vec can hold.
// It matches a 512-bit register of float32.
const MaxVecLanes = 16

// Floats is a constraint for floating-point types.
type Floats interface {
	~float32 | ~float64
}

// Vec is a portable vector handle.
//
// The lanes live in a fixed-size array so that vectors are plain values:
// creating, copying and returning them never allocates, and the Go compiler
// is free to keep them in registers or on the stack.
//
// Vec instances should not be created directly; use Load, Set, or Zero instead.
type Vec[T Floats] struct {
	data [MaxVecLanes]T
	n    int
}

// NumLanes returns the number of active lanes (elements) in this vector.
func (v Vec[T]) NumLanes() int {
	return v.n
}

// Data returns a copy of the active lanes.
// This is primarily for testing and should not be used in performance-critical code.
func (v Vec[T]) Data() []T {
	out := make([]T, v.n)
	copy(out, v.data[:v.n])
	return out
}

// Store writes the vector's data to a slice.
// This is the method form of the hwy.Store function.
func (v Vec[T]) Store(dst []T) {
	Store(v, dst)
}
