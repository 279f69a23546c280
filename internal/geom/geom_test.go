package geom

import "testing"

func TestRectClampTo(t *testing.T) {
	src := Size{W: 100, H: 50}
	tests := []struct {
		name string
		in   Rect
		want Rect
	}{
		{"inside", Rect{X: 10, Y: 10, W: 20, H: 20}, Rect{X: 10, Y: 10, W: 20, H: 20}},
		{"overflow right", Rect{X: 90, Y: 0, W: 20, H: 10}, Rect{X: 90, Y: 0, W: 10, H: 10}},
		{"overflow bottom", Rect{X: 0, Y: 45, W: 10, H: 20}, Rect{X: 0, Y: 45, W: 10, H: 5}},
		{"origin past edge", Rect{X: 200, Y: 60, W: 10, H: 10}, Rect{X: 99, Y: 49, W: 1, H: 1}},
		{"zero size", Rect{X: 10, Y: 10, W: 0, H: 0}, Rect{X: 10, Y: 10, W: 1, H: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in.ClampTo(src)
			if got != tt.want {
				t.Errorf("ClampTo = %+v, want %+v", got, tt.want)
			}
			if got.W < 1 || got.H < 1 {
				t.Errorf("ClampTo produced degenerate rect %+v", got)
			}
		})
	}
}

func TestRectIntersect(t *testing.T) {
	a := Rect{X: 10, Y: 10, W: 30, H: 30}
	b := Rect{X: 20, Y: 20, W: 30, H: 30}
	got, ok := a.Intersect(b)
	if !ok {
		t.Fatal("expected intersection")
	}
	want := Rect{X: 20, Y: 20, W: 20, H: 20}
	if got != want {
		t.Errorf("Intersect = %+v, want %+v", got, want)
	}

	if _, ok := a.Intersect(Rect{X: 100, Y: 100, W: 5, H: 5}); ok {
		t.Error("disjoint rects should not intersect")
	}
}

func TestRoundHalfAway(t *testing.T) {
	tests := []struct {
		in   float64
		want int64
	}{
		{0.4, 0}, {0.5, 1}, {1.5, 2}, {2.4, 2},
		{-0.4, 0}, {-0.5, -1}, {-1.5, -2},
		{87.5, 88}, {194.444, 194},
	}
	for _, tt := range tests {
		if got := RoundHalfAway(tt.in); got != tt.want {
			t.Errorf("RoundHalfAway(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestRoundDimClamps(t *testing.T) {
	if got := RoundDim(0.2); got != 1 {
		t.Errorf("RoundDim(0.2) = %d, want 1", got)
	}
	if got := RoundDim(1e12); got != MaxDimension {
		t.Errorf("RoundDim(1e12) = %d, want %d", got, uint32(MaxDimension))
	}
}

func TestSaturatingArithmetic(t *testing.T) {
	if got := AddU32(MaxDimension-1, 100); got != MaxDimension {
		t.Errorf("AddU32 should saturate at MaxDimension, got %d", got)
	}
	if got := SubU32(3, 10); got != 0 {
		t.Errorf("SubU32(3,10) = %d, want 0", got)
	}
	if got := SubU32(10, 3); got != 7 {
		t.Errorf("SubU32(10,3) = %d, want 7", got)
	}
}

func TestRoundUp(t *testing.T) {
	tests := []struct{ v, m, want uint32 }{
		{801, 16, 816}, {601, 16, 608}, {800, 16, 800}, {1, 8, 8},
	}
	for _, tt := range tests {
		if got := RoundUp(tt.v, tt.m); got != tt.want {
			t.Errorf("RoundUp(%d, %d) = %d, want %d", tt.v, tt.m, got, tt.want)
		}
	}
}
