package layout

import (
	"math"

	"layoutplan/internal/geom"
)

// SourceCrop selects a sub-rectangle of the source, either in pixels or as
// fractions of the source dimensions.
type SourceCrop struct {
	Percent bool      `json:"percent,omitempty"`
	Rect    geom.Rect `json:"rect"`

	// Fractional coordinates, valid when Percent is set. Clamped to [0,1].
	PX float32 `json:"px,omitempty"`
	PY float32 `json:"py,omitempty"`
	PW float32 `json:"pw,omitempty"`
	PH float32 `json:"ph,omitempty"`
}

// CropPixels selects a pixel rectangle.
func CropPixels(r geom.Rect) SourceCrop {
	return SourceCrop{Rect: r}
}

// CropPercent selects a fractional rectangle.
func CropPercent(x, y, w, h float32) SourceCrop {
	return SourceCrop{
		Percent: true,
		PX:      clamp01(x), PY: clamp01(y),
		PW: clamp01(w), PH: clamp01(h),
	}
}

// Resolve turns the crop into a pixel rectangle within src, clamped to the
// source bounds with a minimum dimension of 1.
func (c SourceCrop) Resolve(src geom.Size) geom.Rect {
	r := c.Rect
	if c.Percent {
		r = geom.Rect{
			X: uint32(math.Floor(float64(src.W) * float64(clamp01(c.PX)))),
			Y: uint32(math.Floor(float64(src.H) * float64(clamp01(c.PY)))),
			W: uint32(math.Floor(float64(src.W) * float64(clamp01(c.PW)))),
			H: uint32(math.Floor(float64(src.H) * float64(clamp01(c.PH)))),
		}
	}
	return r.ClampTo(src)
}

// ToRegion re-expresses the crop as a region viewport with the given fill
// color. The viewport never extends beyond the source, so the color is only
// meaningful for downstream composition defaults.
func (c SourceCrop) ToRegion(src geom.Size, color CanvasColor) Region {
	r := c.Resolve(src)
	return Region{
		Left:   RegionCoord{Pixels: int32(r.X)},
		Top:    RegionCoord{Pixels: int32(r.Y)},
		Right:  RegionCoord{Pixels: int32(r.Right())},
		Bottom: RegionCoord{Pixels: int32(r.Bottom())},
		Color:  color,
	}
}

// RegionCoord is one viewport edge: a fraction of the source dimension plus
// a signed pixel offset.
type RegionCoord struct {
	Percent float32 `json:"percent,omitempty"`
	Pixels  int32   `json:"pixels,omitempty"`
}

// Resolve computes the edge coordinate against a source dimension. The
// result may be negative or exceed the dimension.
func (c RegionCoord) Resolve(dim uint32) int64 {
	return int64(math.Floor(float64(dim)*float64(clamp01(c.Percent)))) + int64(c.Pixels)
}

// Region is a viewport described by four edges. Portions of the viewport
// outside the source become padding filled with Color.
type Region struct {
	Left   RegionCoord `json:"left"`
	Top    RegionCoord `json:"top"`
	Right  RegionCoord `json:"right"`
	Bottom RegionCoord `json:"bottom"`
	Color  CanvasColor `json:"color"`
}

// RegionBlank is a viewport with no source intersection: a pure w by h
// canvas of the given color.
func RegionBlank(w, h uint32, color CanvasColor) Region {
	return Region{
		Left:   RegionCoord{Pixels: -int32(w)},
		Top:    RegionCoord{Pixels: -int32(h)},
		Right:  RegionCoord{Pixels: 0},
		Bottom: RegionCoord{Pixels: 0},
		Color:  color,
	}
}

// Resolve computes the signed viewport rectangle against the source.
func (r Region) Resolve(src geom.Size) (geom.SignedRect, error) {
	l := r.Left.Resolve(src.W)
	t := r.Top.Resolve(src.H)
	rt := r.Right.Resolve(src.W)
	b := r.Bottom.Resolve(src.H)
	if rt <= l || b <= t {
		return geom.SignedRect{}, ErrZeroRegionDimension
	}
	return geom.SignedRect{X: l, Y: t, W: rt - l, H: b - t}, nil
}

// Decompose splits a resolved viewport into the content rectangle actually
// covered by source pixels and its offset within the viewport. ok is false
// when the viewport lies entirely outside the source.
func Decompose(v geom.SignedRect, src geom.Size) (content geom.Rect, offset geom.Point, ok bool) {
	x0 := maxI64(v.X, 0)
	y0 := maxI64(v.Y, 0)
	x1 := minI64(v.X+v.W, int64(src.W))
	y1 := minI64(v.Y+v.H, int64(src.H))
	if x1 <= x0 || y1 <= y0 {
		return geom.Rect{}, geom.Point{}, false
	}
	content = geom.Rect{
		X: uint32(x0), Y: uint32(y0),
		W: uint32(x1 - x0), H: uint32(y1 - y0),
	}
	offset = geom.Point{X: int32(x0 - v.X), Y: int32(y0 - v.Y)}
	return content, offset, true
}

func minI64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}

func maxI64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}
