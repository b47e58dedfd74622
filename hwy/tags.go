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

// Tag represents a vector size tag that determines how many lanes
// are used in SIMD operations.
type Tag interface {
	// Width returns the width in bytes (16 for 128-bit, 32 for 256-bit, etc.)
	Width() int

	// Name returns a human-readable name for this tag ("sse2", "avx2", etc.)
	Name() string
}

// ScalableTag adapts to the widest SIMD available at runtime.
// This is the recommended tag for most use cases as it provides
// optimal performance across different CPU architectures.
//
// Usage:
//
//	tag := hwy.ScalableTag[float32]{}
//	maxLanes := tag.MaxLanes()
type ScalableTag[T Floats] struct{}

// Width returns the current runtime SIMD width in bytes.
func (ScalableTag[T]) Width() int {
	return currentWidth
}

// Name returns the current runtime SIMD target name.
func (ScalableTag[T]) Name() string {
	return currentLevel.String()
}

// MaxLanes returns the maximum number of lanes for type T
// with the current SIMD width.
func (t ScalableTag[T]) MaxLanes() int {
	return MaxLanes[T]()
}

// FixedTag128 forces 128-bit SIMD operations (SSE, NEON).
// Use this when you need consistent behavior across platforms
// or when you know 128-bit is optimal for your use case.
type FixedTag128[T Floats] struct{}

// Width returns 16 bytes (128 bits).
func (FixedTag128[T]) Width() int {
	return 16
}

// Name returns "128bit".
func (FixedTag128[T]) Name() string {
	return "128bit"
}

// MaxLanes returns the number of T values that fit in 128 bits.
func (t FixedTag128[T]) MaxLanes() int {
	return LanesFor[T](16)
}

// FixedTag256 forces 256-bit SIMD operations (AVX2).
type FixedTag256[T Floats] struct{}

// Width returns 32 bytes (256 bits).
func (FixedTag256[T]) Width() int {
	return 32
}

// Name returns "256bit".
func (FixedTag256[T]) Name() string {
	return "256bit"
}

// MaxLanes returns the number of T values that fit in 256 bits.
func (t FixedTag256[T]) MaxLanes() int {
	return LanesFor[T](32)
}

// FixedTag512 forces 512-bit SIMD operations (AVX-512, SVE).
type FixedTag512[T Floats] struct{}

// Width returns 64 bytes (512 bits).
func (FixedTag512[T]) Width() int {
	return 64
}

// Name returns "512bit".
func (FixedTag512[T]) Name() string {
	return "512bit"
}

// MaxLanes returns the number of T values that fit in 512 bits.
func (t FixedTag512[T]) MaxLanes() int {
	return LanesFor[T](64)
}
