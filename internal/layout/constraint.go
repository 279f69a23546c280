package layout

import (
	"math"

	"layoutplan/internal/geom"
)

// ConstraintMode selects how target dimensions are reconciled with the
// source aspect ratio.
type ConstraintMode uint8

const (
	// Distort resizes to the exact target, ignoring aspect ratio.
	Distort ConstraintMode = iota
	// Within scales down to fit inside the target, never enlarging.
	Within
	// Fit scales to fit inside the target, enlarging if needed.
	Fit
	// WithinCrop fills the target by cropping, never enlarging.
	WithinCrop
	// FitCrop fills the target by cropping, enlarging if needed.
	FitCrop
	// WithinPad fits inside the target and pads to it, never enlarging.
	WithinPad
	// FitPad fits inside the target and pads to it, enlarging if needed.
	FitPad
	// AspectCrop crops to the target aspect ratio without resizing.
	AspectCrop
)

var modeNames = [8]string{
	"distort", "within", "fit", "within-crop",
	"fit-crop", "within-pad", "fit-pad", "aspect-crop",
}

func (m ConstraintMode) String() string {
	if int(m) < len(modeNames) {
		return modeNames[m]
	}
	return "unknown"
}

// Constraint describes one resize request. Width and Height are targets in
// pixels; zero means "derive from the other axis". At least one must be set.
type Constraint struct {
	Mode    ConstraintMode `json:"mode"`
	Width   uint32         `json:"width,omitempty"`
	Height  uint32         `json:"height,omitempty"`
	Gravity Gravity        `json:"gravity"`
	Color   CanvasColor    `json:"color"`

	// Crop optionally restricts the source before the constraint applies.
	Crop    SourceCrop `json:"crop,omitempty"`
	HasCrop bool       `json:"has_crop,omitempty"`
}

// Layout is the solved geometry for one computation: what to resize, to
// which dimensions, and where it lands on the canvas.
//
// ResizeTo is expressed relative to the resize subject (the effective source
// the constraint saw). Crop-mode constraints window the subject through a
// smaller canvas using a negative placement; Crop records the window within
// the subject so decoders can crop early.
type Layout struct {
	Source    geom.Size   `json:"source"`
	Crop      geom.Rect   `json:"crop,omitempty"`
	HasCrop   bool        `json:"has_crop,omitempty"`
	ResizeTo  geom.Size   `json:"resize_to"`
	Canvas    geom.Size   `json:"canvas"`
	Placement geom.Point  `json:"placement"`
	Color     CanvasColor `json:"color"`

	// Content holds the pre-extension canvas after Extend alignment.
	Content    geom.Size `json:"content,omitempty"`
	HasContent bool      `json:"has_content,omitempty"`

	// Per-axis content scale (subject pixels to output pixels).
	ScaleX float64 `json:"-"`
	ScaleY float64 `json:"-"`
}

// Solve computes the Layout for an effective source size. The source is in
// post-orientation space; any Constraint.Crop must already be resolved away
// by the caller.
func (c Constraint) Solve(src geom.Size) (Layout, error) {
	if src.IsZero() {
		return Layout{}, ErrZeroSourceDimension
	}
	tw, th := c.Width, c.Height
	if tw == 0 && th == 0 {
		return Layout{}, ErrZeroTargetDimension
	}
	sw, sh := float64(src.W), float64(src.H)

	// Single-axis targets derive the other axis from the source ratio.
	if tw == 0 {
		tw = geom.RoundDim(sw * float64(th) / sh)
	}
	if th == 0 {
		th = geom.RoundDim(sh * float64(tw) / sw)
	}

	lay := Layout{Source: src, Color: c.Color, ScaleX: 1, ScaleY: 1}

	switch c.Mode {
	case Distort:
		lay.ResizeTo = geom.Size{W: tw, H: th}
		lay.Canvas = lay.ResizeTo
		lay.ScaleX = float64(tw) / sw
		lay.ScaleY = float64(th) / sh

	case Fit, Within:
		s := math.Min(float64(tw)/sw, float64(th)/sh)
		if c.Mode == Within && s > 1 {
			s = 1
		}
		lay.ResizeTo = geom.Size{W: geom.ScaleDim(src.W, s), H: geom.ScaleDim(src.H, s)}
		lay.Canvas = lay.ResizeTo
		lay.ScaleX, lay.ScaleY = s, s

	case FitCrop, WithinCrop:
		s := math.Max(float64(tw)/sw, float64(th)/sh)
		if c.Mode == WithinCrop && s > 1 {
			s = 1
		}
		lay.ResizeTo = geom.Size{W: geom.ScaleDim(src.W, s), H: geom.ScaleDim(src.H, s)}
		lay.Canvas = geom.Size{W: tw, H: th}.Min(lay.ResizeTo)
		lay.ScaleX, lay.ScaleY = s, s

		// The crop window covers the canvas extent, mapped back to the
		// subject and anchored by gravity.
		cw := minDim(geom.RoundDim(float64(lay.Canvas.W)/s), src.W)
		ch := minDim(geom.RoundDim(float64(lay.Canvas.H)/s), src.H)
		wx := gravityOffset(src.W, cw, c.Gravity.X)
		wy := gravityOffset(src.H, ch, c.Gravity.Y)
		lay.Crop = geom.Rect{X: wx, Y: wy, W: cw, H: ch}
		lay.HasCrop = true
		lay.Placement = geom.Point{
			X: -int32(geom.RoundHalfAway(s * float64(wx))),
			Y: -int32(geom.RoundHalfAway(s * float64(wy))),
		}

	case FitPad, WithinPad:
		s := math.Min(float64(tw)/sw, float64(th)/sh)
		if c.Mode == WithinPad && s > 1 {
			s = 1
		}
		lay.ResizeTo = geom.Size{W: geom.ScaleDim(src.W, s), H: geom.ScaleDim(src.H, s)}
		lay.Canvas = geom.Size{W: tw, H: th}
		lay.ScaleX, lay.ScaleY = s, s
		lay.Placement = geom.Point{
			X: int32(geom.RoundHalfAway(float64(lay.Canvas.W-minDim(lay.ResizeTo.W, lay.Canvas.W)) * float64(c.Gravity.X))),
			Y: int32(geom.RoundHalfAway(float64(lay.Canvas.H-minDim(lay.ResizeTo.H, lay.Canvas.H)) * float64(c.Gravity.Y))),
		}

	case AspectCrop:
		// Largest tw:th rectangle inside the source; no scaling.
		cw, ch := src.W, uint32(uint64(src.W)*uint64(th)/uint64(tw))
		if ch > src.H {
			ch = src.H
			cw = uint32(uint64(src.H) * uint64(tw) / uint64(th))
		}
		if cw == 0 {
			cw = 1
		}
		if ch == 0 {
			ch = 1
		}
		wx := gravityOffset(src.W, cw, c.Gravity.X)
		wy := gravityOffset(src.H, ch, c.Gravity.Y)
		lay.Crop = geom.Rect{X: wx, Y: wy, W: cw, H: ch}
		lay.HasCrop = true
		lay.ResizeTo = geom.Size{W: cw, H: ch}
		lay.Canvas = lay.ResizeTo
		lay.Placement = geom.Point{X: -int32(wx), Y: -int32(wy)}
	}

	return lay, nil
}

// gravityOffset floors the placement of an inner extent within an outer one.
func gravityOffset(outer, inner uint32, g float32) uint32 {
	if inner >= outer {
		return 0
	}
	return uint32(math.Floor(float64(outer-inner) * float64(clamp01(g))))
}

func minDim(a, b uint32) uint32 {
	if a < b {
		return a
	}
	return b
}
