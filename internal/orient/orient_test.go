package orient

import (
	"testing"

	"layoutplan/internal/geom"
)

var all = [8]Orientation{
	Identity, Rotate90, Rotate180, Rotate270,
	FlipH, Transpose, FlipV, Transverse,
}

// cayley is the full D4 multiplication table: cayley[a][b] = a.Compose(b).
var cayley = [8][8]Orientation{
	{0, 1, 2, 3, 4, 5, 6, 7},
	{1, 2, 3, 0, 7, 4, 5, 6},
	{2, 3, 0, 1, 6, 7, 4, 5},
	{3, 0, 1, 2, 5, 6, 7, 4},
	{4, 5, 6, 7, 0, 1, 2, 3},
	{5, 6, 7, 4, 3, 0, 1, 2},
	{6, 7, 4, 5, 2, 3, 0, 1},
	{7, 4, 5, 6, 1, 2, 3, 0},
}

func TestComposeMatchesCayleyTable(t *testing.T) {
	for _, a := range all {
		for _, b := range all {
			got := a.Compose(b)
			want := cayley[a][b]
			if got != want {
				t.Errorf("%v.Compose(%v) = %v, want %v", a, b, got, want)
			}
		}
	}
}

func TestComposeClosure(t *testing.T) {
	for _, a := range all {
		for _, b := range all {
			if c := a.Compose(b); c > Transverse {
				t.Errorf("%v.Compose(%v) = %d, outside the group", a, b, c)
			}
		}
	}
}

func TestInverseLaw(t *testing.T) {
	for _, a := range all {
		if got := a.Compose(a.Inverse()); got != Identity {
			t.Errorf("%v.Compose(inverse) = %v, want identity", a, got)
		}
		if got := a.Inverse().Compose(a); got != Identity {
			t.Errorf("inverse.Compose(%v) = %v, want identity", a, got)
		}
	}
}

func TestInvolutions(t *testing.T) {
	for _, a := range []Orientation{FlipH, FlipV, Transpose, Transverse, Rotate180} {
		if a.Inverse() != a {
			t.Errorf("%v should be self-inverse", a)
		}
	}
	if Rotate90.Inverse() != Rotate270 {
		t.Errorf("Rotate90.Inverse() = %v, want Rotate270", Rotate90.Inverse())
	}
}

func TestEXIFRoundTrip(t *testing.T) {
	for v := 1; v <= 8; v++ {
		if got := FromEXIF(v).ToEXIF(); got != v {
			t.Errorf("FromEXIF(%d).ToEXIF() = %d", v, got)
		}
	}
}

func TestFromEXIFInvalid(t *testing.T) {
	for _, v := range []int{-1, 0, 9, 100} {
		if got := FromEXIF(v); got != Identity {
			t.Errorf("FromEXIF(%d) = %v, want identity", v, got)
		}
	}
}

func TestEXIFMapping(t *testing.T) {
	want := map[int]Orientation{
		1: Identity, 2: FlipH, 3: Rotate180, 4: FlipV,
		5: Transpose, 6: Rotate90, 7: Transverse, 8: Rotate270,
	}
	for v, o := range want {
		if got := FromEXIF(v); got != o {
			t.Errorf("FromEXIF(%d) = %v, want %v", v, got, o)
		}
	}
}

func TestSwapsAxes(t *testing.T) {
	src := geom.Size{W: 640, H: 480}
	for _, a := range all {
		want := src
		if a.SwapsAxes() {
			want = src.Swapped()
		}
		if got := a.TransformDimensions(src); got != want {
			t.Errorf("%v.TransformDimensions(%v) = %v, want %v", a, src, got, want)
		}
		swapped := a == Rotate90 || a == Rotate270 || a == Transpose || a == Transverse
		if a.SwapsAxes() != swapped {
			t.Errorf("%v.SwapsAxes() = %v, want %v", a, a.SwapsAxes(), swapped)
		}
	}
}

func TestTransformRectToSource(t *testing.T) {
	src := geom.Size{W: 4, H: 3}
	tests := []struct {
		o    Orientation
		rect geom.Rect // display space
		want geom.Rect // source space
	}{
		{Identity, geom.Rect{X: 1, Y: 1, W: 2, H: 1}, geom.Rect{X: 1, Y: 1, W: 2, H: 1}},
		{Rotate90, geom.Rect{X: 0, Y: 0, W: 1, H: 1}, geom.Rect{X: 0, Y: 2, W: 1, H: 1}},
		{Rotate180, geom.Rect{X: 0, Y: 0, W: 1, H: 1}, geom.Rect{X: 3, Y: 2, W: 1, H: 1}},
		{Rotate270, geom.Rect{X: 0, Y: 0, W: 1, H: 1}, geom.Rect{X: 3, Y: 0, W: 1, H: 1}},
		{FlipH, geom.Rect{X: 0, Y: 0, W: 1, H: 1}, geom.Rect{X: 3, Y: 0, W: 1, H: 1}},
		{Transpose, geom.Rect{X: 2, Y: 1, W: 1, H: 2}, geom.Rect{X: 1, Y: 2, W: 2, H: 1}},
	}
	for _, tt := range tests {
		if got := tt.o.TransformRectToSource(tt.rect, src); got != tt.want {
			t.Errorf("%v.TransformRectToSource(%+v) = %+v, want %+v", tt.o, tt.rect, got, tt.want)
		}
	}
}

func TestRectRoundTrip(t *testing.T) {
	src := geom.Size{W: 40, H: 30}
	rects := []geom.Rect{
		{X: 0, Y: 0, W: 1, H: 1},
		{X: 3, Y: 5, W: 7, H: 11},
		{X: 0, Y: 0, W: 40, H: 30},
		{X: 12, Y: 0, W: 5, H: 30},
	}
	for _, a := range all {
		disp := a.TransformDimensions(src)
		for _, r := range rects {
			// r lives in display space; its dims must fit there.
			dr := r
			if dr.Right() > disp.W || dr.Bottom() > disp.H {
				continue
			}
			s := a.TransformRectToSource(dr, src)
			back := a.TransformRectFromSource(s, src)
			if back != dr {
				t.Errorf("%v round trip: %+v -> %+v -> %+v", a, dr, s, back)
			}
		}
	}
}

func TestTransformSignedRectMatchesUnsigned(t *testing.T) {
	src := geom.Size{W: 40, H: 30}
	r := geom.Rect{X: 3, Y: 5, W: 7, H: 11}
	for _, a := range all {
		want := a.TransformRectFromSource(r, src)
		got := a.TransformSignedRect(geom.SignedRect{
			X: int64(r.X), Y: int64(r.Y), W: int64(r.W), H: int64(r.H),
		}, src)
		if got.X != int64(want.X) || got.Y != int64(want.Y) ||
			got.W != int64(want.W) || got.H != int64(want.H) {
			t.Errorf("%v: signed %+v, unsigned %+v", a, got, want)
		}
	}
}
