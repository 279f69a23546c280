package layout

import (
	"math"

	"layoutplan/internal/geom"
)

// AlignMode selects how a canvas is rounded to a codec alignment multiple.
type AlignMode uint8

const (
	// AlignCrop rounds down, trimming content at the right/bottom edges.
	AlignCrop AlignMode = iota
	// AlignExtend rounds up; the band past the content is edge-replicated.
	AlignExtend
	// AlignDistort rounds to nearest, stretching content to match.
	AlignDistort
)

var alignNames = [3]string{"crop", "extend", "distort"}

func (m AlignMode) String() string {
	if int(m) < len(alignNames) {
		return alignNames[m]
	}
	return "unknown"
}

// Align rounds the canvas to a per-axis multiple. X and Y must be >= 1.
type Align struct {
	Mode AlignMode `json:"mode"`
	X    uint32    `json:"x"`
	Y    uint32    `json:"y"`
}

// OutputLimits caps, floors and aligns the final canvas. The stages apply
// in fixed order: max, then min (with max reapplied), then align. Alignment
// may push the canvas back outside the min/max bounds; that is expected.
type OutputLimits struct {
	Max      geom.Size `json:"max,omitempty"`
	HasMax   bool      `json:"has_max,omitempty"`
	Min      geom.Size `json:"min,omitempty"`
	HasMin   bool      `json:"has_min,omitempty"`
	Align    Align     `json:"align,omitempty"`
	HasAlign bool      `json:"has_align,omitempty"`
}

// Apply runs the limits pipeline over a solved layout.
func (l OutputLimits) Apply(lay Layout) Layout {
	lay = l.applyMax(lay)
	if l.HasMin && !l.Min.IsZero() {
		if lay.Canvas.W < l.Min.W || lay.Canvas.H < l.Min.H {
			s := math.Max(
				float64(l.Min.W)/float64(lay.Canvas.W),
				float64(l.Min.H)/float64(lay.Canvas.H),
			)
			lay = scaleLayout(lay, s)
			// Rounding safety: the floor is a hard promise unless max says otherwise.
			if lay.Canvas.W < l.Min.W {
				lay.Canvas.W = l.Min.W
			}
			if lay.Canvas.H < l.Min.H {
				lay.Canvas.H = l.Min.H
			}
			lay = l.applyMax(lay)
		}
	}
	if l.HasAlign {
		lay = applyAlign(lay, l.Align)
	}
	return lay
}

func (l OutputLimits) applyMax(lay Layout) Layout {
	if !l.HasMax || l.Max.IsZero() {
		return lay
	}
	if lay.Canvas.W <= l.Max.W && lay.Canvas.H <= l.Max.H {
		return lay
	}
	s := math.Min(
		float64(l.Max.W)/float64(lay.Canvas.W),
		float64(l.Max.H)/float64(lay.Canvas.H),
	)
	lay = scaleLayout(lay, s)
	if lay.Canvas.W > l.Max.W {
		lay.Canvas.W = l.Max.W
	}
	if lay.Canvas.H > l.Max.H {
		lay.Canvas.H = l.Max.H
	}
	return lay
}

// scaleLayout scales every output-space quantity by s. The crop window is a
// source-space selection and stays fixed: the same source pixels survive,
// they just land on a smaller or larger canvas.
func scaleLayout(lay Layout, s float64) Layout {
	if !lay.ResizeTo.IsZero() {
		lay.ResizeTo = geom.Size{W: geom.ScaleDim(lay.ResizeTo.W, s), H: geom.ScaleDim(lay.ResizeTo.H, s)}
	}
	lay.Canvas = geom.Size{W: geom.ScaleDim(lay.Canvas.W, s), H: geom.ScaleDim(lay.Canvas.H, s)}
	lay.Placement = geom.Point{
		X: int32(geom.RoundHalfAway(float64(lay.Placement.X) * s)),
		Y: int32(geom.RoundHalfAway(float64(lay.Placement.Y) * s)),
	}
	lay.ScaleX *= s
	lay.ScaleY *= s
	return lay
}

func applyAlign(lay Layout, a Align) Layout {
	ax, ay := a.X, a.Y
	if ax == 0 {
		ax = 1
	}
	if ay == 0 {
		ay = 1
	}
	switch a.Mode {
	case AlignCrop:
		cw := lay.Canvas.W / ax * ax
		if cw < ax {
			cw = ax
		}
		ch := lay.Canvas.H / ay * ay
		if ch < ay {
			ch = ay
		}
		lay.Canvas = geom.Size{W: cw, H: ch}
		lay.ResizeTo.W, lay.Placement.X = trimToCanvas(lay.ResizeTo.W, lay.Placement.X, cw)
		lay.ResizeTo.H, lay.Placement.Y = trimToCanvas(lay.ResizeTo.H, lay.Placement.Y, ch)

	case AlignExtend:
		lay.Content = lay.Canvas
		lay.HasContent = true
		lay.Canvas = geom.Size{W: geom.RoundUp(lay.Canvas.W, ax), H: geom.RoundUp(lay.Canvas.H, ay)}
		lay.Placement = geom.Point{}

	case AlignDistort:
		cw := nearestMultiple(lay.Canvas.W, ax)
		ch := nearestMultiple(lay.Canvas.H, ay)
		fx := float64(cw) / float64(lay.Canvas.W)
		fy := float64(ch) / float64(lay.Canvas.H)
		lay.ResizeTo = geom.Size{W: geom.ScaleDim(lay.ResizeTo.W, fx), H: geom.ScaleDim(lay.ResizeTo.H, fy)}
		lay.Placement = geom.Point{
			X: int32(geom.RoundHalfAway(float64(lay.Placement.X) * fx)),
			Y: int32(geom.RoundHalfAway(float64(lay.Placement.Y) * fy)),
		}
		lay.Canvas = geom.Size{W: cw, H: ch}
		lay.ScaleX *= fx
		lay.ScaleY *= fy
	}
	return lay
}

// trimToCanvas shrinks a placed extent so it ends within the canvas,
// trimming the far edge only.
func trimToCanvas(extent uint32, pos int32, canvas uint32) (uint32, int32) {
	end := int64(pos) + int64(extent)
	over := end - int64(canvas)
	if over <= 0 {
		return extent, pos
	}
	if int64(extent)-over < 1 {
		return 1, pos
	}
	return uint32(int64(extent) - over), pos
}

func nearestMultiple(v, m uint32) uint32 {
	n := (uint64(v) + uint64(m)/2) / uint64(m) * uint64(m)
	if n < uint64(m) {
		n = uint64(m)
	}
	if n > geom.MaxDimension {
		n = geom.MaxDimension
	}
	return uint32(n)
}
