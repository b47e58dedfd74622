package hwy

import (
	"os"
	"strconv"
	"unsafe"
)

// DispatchLevel represents the SIMD instruction set detected on this CPU.
//
// Kernels in this module are written in pure Go against Vec; the level
// decides the vector width (and therefore the lane counts and tile shapes)
// they are tuned for.
type DispatchLevel int

const (
	// DispatchScalar indicates no SIMD, pure Go implementation.
	DispatchScalar DispatchLevel = iota

	// DispatchSSE2 indicates SSE2 instructions (x86-64 baseline).
	DispatchSSE2

	// DispatchAVX2 indicates AVX2 instructions (256-bit SIMD).
	DispatchAVX2

	// DispatchAVX512 indicates AVX-512 instructions (512-bit SIMD).
	DispatchAVX512

	// DispatchNEON indicates ARM NEON instructions (128-bit SIMD).
	DispatchNEON

	// DispatchSVE indicates ARM SVE instructions (scalable vector).
	DispatchSVE
)

// String returns a human-readable name for the dispatch level.
func (d DispatchLevel) String() string {
	switch d {
	case DispatchScalar:
		return "scalar"
	case DispatchSSE2:
		return "sse2"
	case DispatchAVX2:
		return "avx2"
	case DispatchAVX512:
		return "avx512"
	case DispatchNEON:
		return "neon"
	case DispatchSVE:
		return "sve"
	default:
		return "unknown"
	}
}

// currentLevel is the detected SIMD level for this runtime.
// Set by init() in dispatch_*.go files.
var currentLevel DispatchLevel

// currentWidth is the SIMD register width in bytes for the current level.
// Set by init() in dispatch_*.go files.
var currentWidth int

// currentName is the human-readable name of the current SIMD level.
// Set by init() in dispatch_*.go files.
var currentName string

// hasFMA reports hardware fused multiply-add. Set by init() in dispatch_*.go files.
var hasFMA bool

// CurrentLevel returns the SIMD instruction set being used.
func CurrentLevel() DispatchLevel {
	return currentLevel
}

// CurrentWidth returns the SIMD register width in bytes.
// For example: 16 for SSE2/NEON, 32 for AVX2, 64 for AVX-512.
func CurrentWidth() int {
	return currentWidth
}

// CurrentName returns a human-readable name for the current SIMD target.
// For example: "avx2", "neon", "scalar".
func CurrentName() string {
	return currentName
}

// HasFMA returns true if the CPU has fused multiply-add instructions.
func HasFMA() bool {
	return hasFMA
}

// NoSimdEnv checks if the HWY_NO_SIMD environment variable is set.
// When set, Highway will use scalar fallback regardless of CPU capabilities.
// This is useful for testing and debugging.
func NoSimdEnv() bool {
	val := os.Getenv("HWY_NO_SIMD")
	if val == "" {
		return false
	}
	// Any non-empty value is considered true, but also parse as bool
	if b, err := strconv.ParseBool(val); err == nil {
		return b
	}
	return true
}

// setScalarMode configures 16-byte vectors without SIMD.
func setScalarMode() {
	currentLevel = DispatchScalar
	currentWidth = 16 // Use 16-byte vectors even in scalar mode for consistency
	currentName = "scalar"
}

// LanesFor returns the number of lanes of type T in a register of
// widthBytes bytes, capped at MaxVecLanes.
func LanesFor[T Floats](widthBytes int) int {
	var dummy T
	elementSize := int(unsafe.Sizeof(dummy))
	if elementSize == 0 {
		return 0
	}
	return min(widthBytes/elementSize, MaxVecLanes)
}

// MaxLanes returns the maximum number of lanes for type T with the current SIMD width.
//
// For example, with AVX2 (256 bits / 32 bytes):
//   - float32: 32/4 = 8 lanes
//   - float64: 32/8 = 4 lanes
func MaxLanes[T Floats]() int {
	return LanesFor[T](currentWidth)
}
