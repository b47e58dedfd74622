package hwy

// Broadcast broadcasts a single lane to all lanes in the vector.
// Returns a zero vector of the same width if lane is out of bounds.
func Broadcast[T Floats](v Vec[T], lane int) Vec[T] {
	if lane < 0 || lane >= v.n {
		return ZeroN[T](v.n)
	}
	return SetN(v.data[lane], v.n)
}

// GetLane extracts a single lane value from the vector.
// Returns zero value if index is out of bounds.
func GetLane[T Floats](v Vec[T], idx int) T {
	if idx < 0 || idx >= v.n {
		var zero T
		return zero
	}
	return v.data[idx]
}

// InsertLane returns a new vector with the value inserted at the given lane.
// Returns original vector if index is out of bounds.
func InsertLane[T Floats](v Vec[T], idx int, val T) Vec[T] {
	if idx >= 0 && idx < v.n {
		v.data[idx] = val
	}
	return v
}

// MulAddLane computes acc + a*b[lane] per lane of a.
//
// This is the lane-indexed multiply-accumulate (NEON's FMLA by element):
// a single lane of b is multiplied against every lane of a, so a vector of b
// carries several scalars without an explicit Broadcast per scalar.
// Returns acc unchanged if lane is out of bounds.
func MulAddLane[T Floats](a, b Vec[T], lane int, acc Vec[T]) Vec[T] {
	if lane < 0 || lane >= b.n {
		return acc
	}
	s := b.data[lane]
	var r Vec[T]
	r.n = min(a.n, acc.n)
	for i := range r.n {
		r.data[i] = a.data[i]*s + acc.data[i]
	}
	return r
}
