package pipeline

import (
	"math"

	"layoutplan/internal/geom"
	"layoutplan/internal/layout"
)

// DeriveSecondary maps an ideal layout computed for the primary source onto
// a secondary plane (gain map, depth, alpha) of a different resolution. The
// secondary crop is rounded outward so it always covers the primary
// selection; the target defaults to the ideal output scaled by the
// secondary-to-primary ratio. Orientation is inherited unchanged.
func (il *IdealLayout) DeriveSecondary(secondarySrc geom.Size, target geom.Size, hasTarget bool) (IdealLayout, DecoderRequest, error) {
	if il.PreSource.IsZero() || secondarySrc.IsZero() {
		return IdealLayout{}, DecoderRequest{}, layout.ErrZeroSourceDimension
	}
	rx := float64(secondarySrc.W) / float64(il.PreSource.W)
	ry := float64(secondarySrc.H) / float64(il.PreSource.H)

	o := il.Orientation
	dispSec := o.TransformDimensions(secondarySrc)

	// Ratios for the post-orientation axes.
	drx, dry := rx, ry
	if o.SwapsAxes() {
		drx, dry = ry, rx
	}

	lay := il.Layout
	if !hasTarget {
		target = geom.Size{
			W: geom.ScaleDim(lay.ResizeTo.W, drx),
			H: geom.ScaleDim(lay.ResizeTo.H, dry),
		}
	}

	sec := IdealLayout{
		Orientation: o,
		PreSource:   secondarySrc,
		Padding:     il.Padding,
		HasPadding:  il.HasPadding,
		Layout: layout.Layout{
			Source: geom.Size{
				W: geom.ScaleDim(lay.Source.W, drx),
				H: geom.ScaleDim(lay.Source.H, dry),
			},
			ResizeTo: target,
			Canvas: geom.Size{
				W: geom.ScaleDim(lay.Canvas.W, drx),
				H: geom.ScaleDim(lay.Canvas.H, dry),
			},
			Placement: geom.Point{
				X: int32(geom.RoundHalfAway(float64(lay.Placement.X) * drx)),
				Y: int32(geom.RoundHalfAway(float64(lay.Placement.Y) * dry)),
			},
			Color: lay.Color,
		},
	}

	req := DecoderRequest{Orientation: o}

	if il.HasSourceCrop {
		crop := scaleRectCovering(il.SourceCrop, rx, ry, secondarySrc)
		sec.SourceCrop = crop
		sec.HasSourceCrop = true
		sec.cropSubject = scaleRectCovering(il.cropSubject, drx, dry, dispSec)
		req.Crop = crop
		req.HasCrop = true
	}

	// Content scale factors keep the residual math of Finalize exact.
	if sec.HasSourceCrop {
		sec.Layout.ScaleX = float64(target.W) / float64(sec.cropSubject.W)
		sec.Layout.ScaleY = float64(target.H) / float64(sec.cropSubject.H)
	} else {
		sec.Layout.ScaleX = float64(target.W) / float64(sec.Layout.Source.W)
		sec.Layout.ScaleY = float64(target.H) / float64(sec.Layout.Source.H)
	}

	req.TargetSize = preOrientSize(o, target)
	return sec, req, nil
}

// scaleRectCovering scales a rectangle with floor/ceil rounding so the
// result, mapped back, always contains the original, clamped to bounds.
func scaleRectCovering(r geom.Rect, fx, fy float64, bounds geom.Size) geom.Rect {
	x0 := int64(math.Floor(float64(r.X) * fx))
	y0 := int64(math.Floor(float64(r.Y) * fy))
	x1 := int64(math.Ceil(float64(r.Right()) * fx))
	y1 := int64(math.Ceil(float64(r.Bottom()) * fy))
	if x1 > int64(bounds.W) {
		x1 = int64(bounds.W)
	}
	if y1 > int64(bounds.H) {
		y1 = int64(bounds.H)
	}
	if x0 > x1-1 {
		x0 = x1 - 1
	}
	if y0 > y1-1 {
		y0 = y1 - 1
	}
	if x0 < 0 {
		x0 = 0
	}
	if y0 < 0 {
		y0 = 0
	}
	return geom.Rect{X: uint32(x0), Y: uint32(y0), W: geom.ClampDim(x1 - x0), H: geom.ClampDim(y1 - y0)}
}
