//go:build arm64

package hwy

import "golang.org/x/sys/cpu"

func init() {
	// Check for HWY_NO_SIMD environment variable first
	if NoSimdEnv() {
		setScalarMode()
		return
	}

	// ARM64 (AArch64) always has NEON (ASIMD) available.
	// It's part of the ARMv8-A base architecture.
	// Note: cpu.ARM64.HasASIMD is always true for ARMv8+
	if cpu.ARM64.HasASIMD {
		currentLevel = DispatchNEON
		currentWidth = 16 // NEON is 128-bit (16 bytes)
		currentName = "neon"
		hasFMA = true // FMLA is part of ASIMD
	} else {
		// Fallback to scalar (should never happen on ARMv8+)
		setScalarMode()
	}

	// SVE keeps the NEON width: the vector length is only known in
	// streaming code, and 128 bits is the architectural minimum.
	if cpu.ARM64.HasSVE {
		currentLevel = DispatchSVE
		currentName = "sve"
	}
}
