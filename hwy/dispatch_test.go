package hwy

import "testing"

func TestDispatchWidth(t *testing.T) {
	t.Logf("Dispatch level: %s (%d bytes, fma=%v)", CurrentName(), CurrentWidth(), HasFMA())

	switch CurrentWidth() {
	case 16, 32, 64:
	default:
		t.Fatalf("unexpected SIMD width %d", CurrentWidth())
	}
	if got, want := MaxLanes[float32](), CurrentWidth()/4; got != want {
		t.Errorf("MaxLanes[float32]() = %d, want %d", got, want)
	}
	if CurrentLevel().String() == "unknown" {
		t.Errorf("CurrentLevel() = %d has no name", CurrentLevel())
	}
}

func TestLanesFor(t *testing.T) {
	testCases := []struct {
		width     int
		f32, f64 int
	}{
		{16, 4, 2},
		{32, 8, 4},
		{64, 16, 8},
		{128, MaxVecLanes, MaxVecLanes},
	}
	for _, tc := range testCases {
		if got := LanesFor[float32](tc.width); got != tc.f32 {
			t.Errorf("LanesFor[float32](%d) = %d, want %d", tc.width, got, tc.f32)
		}
		if got := LanesFor[float64](tc.width); got != tc.f64 {
			t.Errorf("LanesFor[float64](%d) = %d, want %d", tc.width, got, tc.f64)
		}
	}
}

func TestTags(t *testing.T) {
	tags := []struct {
		tag   Tag
		lanes int
	}{
		{FixedTag128[float32]{}, FixedTag128[float32]{}.MaxLanes()},
		{FixedTag256[float32]{}, FixedTag256[float32]{}.MaxLanes()},
		{FixedTag512[float32]{}, FixedTag512[float32]{}.MaxLanes()},
		{ScalableTag[float32]{}, ScalableTag[float32]{}.MaxLanes()},
	}
	for _, tc := range tags {
		if got := LanesFor[float32](tc.tag.Width()); got != tc.lanes {
			t.Errorf("%s: LanesFor(Width()) = %d, MaxLanes() = %d", tc.tag.Name(), got, tc.lanes)
		}
	}
}

func TestNoSimdEnv(t *testing.T) {
	t.Setenv("HWY_NO_SIMD", "")
	if NoSimdEnv() {
		t.Error("NoSimdEnv() = true with empty HWY_NO_SIMD")
	}
	t.Setenv("HWY_NO_SIMD", "false")
	if NoSimdEnv() {
		t.Error("NoSimdEnv() = true with HWY_NO_SIMD=false")
	}
	t.Setenv("HWY_NO_SIMD", "yes")
	if !NoSimdEnv() {
		t.Error("NoSimdEnv() = false with HWY_NO_SIMD=yes")
	}
}
