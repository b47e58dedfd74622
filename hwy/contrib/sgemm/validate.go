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

import (
	"unsafe"

	"github.com/pkg/errors"
)

// Validate checks the preconditions of Kernel.Accumulate: n >= 0, ld >= n,
// every slice long enough to hold an n×n matrix with leading dimension ld,
// and C not overlapping A or B. A and B may alias each other.
func Validate(n, ld int, a, b, c []float32) error {
	if n < 0 {
		return errors.Errorf("sgemm: negative size n=%d", n)
	}
	if n == 0 {
		return nil
	}
	if ld < n {
		return errors.Errorf("sgemm: leading dimension ld=%d smaller than n=%d", ld, n)
	}
	need := (n-1)*ld + n
	for _, op := range []struct {
		name string
		data []float32
	}{{"A", a}, {"B", b}, {"C", c}} {
		if len(op.data) < need {
			return errors.Errorf("sgemm: %s has %d elements, need at least %d for n=%d, ld=%d",
				op.name, len(op.data), need, n, ld)
		}
	}
	if overlaps(c[:need], a[:need]) {
		return errors.New("sgemm: C overlaps A")
	}
	if overlaps(c[:need], b[:need]) {
		return errors.New("sgemm: C overlaps B")
	}
	return nil
}

// overlaps reports whether the memory of x and y intersects.
func overlaps(x, y []float32) bool {
	if len(x) == 0 || len(y) == 0 {
		return false
	}
	const size = unsafe.Sizeof(float32(0))
	x0 := uintptr(unsafe.Pointer(unsafe.SliceData(x)))
	y0 := uintptr(unsafe.Pointer(unsafe.SliceData(y)))
	x1 := x0 + uintptr(len(x))*size
	y1 := y0 + uintptr(len(y))*size
	return x0 < y1 && y0 < x1
}
