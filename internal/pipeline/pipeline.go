package pipeline

import (
	"layoutplan/internal/geom"
	"layoutplan/internal/layout"
	"layoutplan/internal/orient"
)

// Pipeline is a fixed-order layout builder. Each command category occupies
// one slot and the last setter wins, except orientation, which composes.
// Evaluation order is always orient, region/crop, constrain, pad, limits,
// regardless of call order.
//
// The builder is a plain value: chainable methods return a modified copy
// and Compute allocates nothing.
type Pipeline struct {
	src geom.Size

	orientation orient.Orientation

	// Region and source crop share one slot; setting either replaces the
	// other.
	hasSel      bool
	selIsRegion bool
	region      layout.Region
	crop        layout.SourceCrop

	hasCons bool
	cons    layout.Constraint

	hasPad bool
	pad    Padding

	limits layout.OutputLimits
}

// New starts a pipeline for a source of the given pre-orientation size.
func New(w, h uint32) Pipeline {
	return Pipeline{src: geom.Size{W: w, H: h}}
}

// AutoOrient composes the correction for an EXIF orientation tag. Values
// outside 1-8 are ignored.
func (p Pipeline) AutoOrient(exif int) Pipeline {
	p.orientation = orient.FromEXIF(exif).Compose(p.orientation)
	return p
}

// Rotate composes a clockwise rotation of 90, 180 or 270 degrees. Other
// angles are ignored.
func (p Pipeline) Rotate(degrees int) Pipeline {
	var o orient.Orientation
	switch degrees {
	case 90:
		o = orient.Rotate90
	case 180:
		o = orient.Rotate180
	case 270:
		o = orient.Rotate270
	default:
		return p
	}
	p.orientation = o.Compose(p.orientation)
	return p
}

// FlipH composes a horizontal mirror.
func (p Pipeline) FlipH() Pipeline {
	p.orientation = orient.FlipH.Compose(p.orientation)
	return p
}

// FlipV composes a vertical mirror.
func (p Pipeline) FlipV() Pipeline {
	p.orientation = orient.FlipV.Compose(p.orientation)
	return p
}

// Crop selects a source sub-rectangle, replacing any region.
func (p Pipeline) Crop(c layout.SourceCrop) Pipeline {
	p.hasSel = true
	p.selIsRegion = false
	p.crop = c
	return p
}

// CropPixels selects a pixel rectangle in post-orientation coordinates.
func (p Pipeline) CropPixels(x, y, w, h uint32) Pipeline {
	return p.Crop(layout.CropPixels(geom.Rect{X: x, Y: y, W: w, H: h}))
}

// CropPercent selects a fractional rectangle.
func (p Pipeline) CropPercent(x, y, w, h float32) Pipeline {
	return p.Crop(layout.CropPercent(x, y, w, h))
}

// Region sets the viewport, replacing any crop.
func (p Pipeline) Region(r layout.Region) Pipeline {
	p.hasSel = true
	p.selIsRegion = true
	p.region = r
	return p
}

// Constrain sets the constraint slot. A constraint carrying its own source
// crop also claims the region/crop slot.
func (p Pipeline) Constrain(c layout.Constraint) Pipeline {
	if c.HasCrop {
		p = p.Crop(c.Crop)
		c.HasCrop = false
	}
	p.hasCons = true
	p.cons = c
	return p
}

func (p Pipeline) constrainSized(mode layout.ConstraintMode, w, h uint32) Pipeline {
	return p.Constrain(layout.Constraint{
		Mode: mode, Width: w, Height: h,
		Gravity: layout.GravityCenter(),
	})
}

// Fit scales to fit inside w by h.
func (p Pipeline) Fit(w, h uint32) Pipeline { return p.constrainSized(layout.Fit, w, h) }

// Within scales down to fit inside w by h, never enlarging.
func (p Pipeline) Within(w, h uint32) Pipeline { return p.constrainSized(layout.Within, w, h) }

// FitCrop fills w by h by cropping.
func (p Pipeline) FitCrop(w, h uint32) Pipeline { return p.constrainSized(layout.FitCrop, w, h) }

// WithinCrop fills w by h by cropping, never enlarging.
func (p Pipeline) WithinCrop(w, h uint32) Pipeline {
	return p.constrainSized(layout.WithinCrop, w, h)
}

// FitPad fits inside w by h and pads to it.
func (p Pipeline) FitPad(w, h uint32) Pipeline { return p.constrainSized(layout.FitPad, w, h) }

// WithinPad fits inside w by h and pads to it, never enlarging.
func (p Pipeline) WithinPad(w, h uint32) Pipeline {
	return p.constrainSized(layout.WithinPad, w, h)
}

// Distort resizes to exactly w by h.
func (p Pipeline) Distort(w, h uint32) Pipeline { return p.constrainSized(layout.Distort, w, h) }

// AspectCrop crops to the w:h aspect ratio without resizing.
func (p Pipeline) AspectCrop(w, h uint32) Pipeline {
	return p.constrainSized(layout.AspectCrop, w, h)
}

// WithGravity sets the anchor for the current constraint.
func (p Pipeline) WithGravity(g layout.Gravity) Pipeline {
	if p.hasCons {
		p.cons.Gravity = g
	}
	return p
}

// WithCanvasColor sets the canvas fill for the current constraint.
func (p Pipeline) WithCanvasColor(c layout.CanvasColor) Pipeline {
	if p.hasCons {
		p.cons.Color = c
	}
	return p
}

// Pad expands the canvas by per-side pixel amounts. Amounts accumulate
// across calls; an explicit color wins over earlier ones.
func (p Pipeline) Pad(left, top, right, bottom uint32, color layout.CanvasColor) Pipeline {
	p.hasPad = true
	p.pad.Left = geom.AddU32(p.pad.Left, left)
	p.pad.Top = geom.AddU32(p.pad.Top, top)
	p.pad.Right = geom.AddU32(p.pad.Right, right)
	p.pad.Bottom = geom.AddU32(p.pad.Bottom, bottom)
	if !color.IsTransparent() || !p.pad.HasColor {
		p.pad.Color = color
		p.pad.HasColor = true
	}
	return p
}

// PadUniform expands every side by n.
func (p Pipeline) PadUniform(n uint32, color layout.CanvasColor) Pipeline {
	return p.Pad(n, n, n, n, color)
}

// MaxOutput caps the canvas.
func (p Pipeline) MaxOutput(w, h uint32) Pipeline {
	p.limits.Max = geom.Size{W: w, H: h}
	p.limits.HasMax = true
	return p
}

// MinOutput floors the canvas.
func (p Pipeline) MinOutput(w, h uint32) Pipeline {
	p.limits.Min = geom.Size{W: w, H: h}
	p.limits.HasMin = true
	return p
}

// AlignOutput rounds the canvas to codec alignment multiples.
func (p Pipeline) AlignOutput(a layout.Align) Pipeline {
	p.limits.Align = a
	p.limits.HasAlign = true
	return p
}

// Compute evaluates the pipeline against a hypothetical full decode.
func (p Pipeline) Compute() (IdealLayout, DecoderRequest, error) {
	if p.src.IsZero() {
		return IdealLayout{}, DecoderRequest{}, layout.ErrZeroSourceDimension
	}
	in := coreInput{
		src:         p.src,
		orientation: p.orientation,
		cons:        p.cons,
		hasCons:     p.hasCons,
		pad:         p.pad,
		hasPad:      p.hasPad,
		limits:      p.limits,
	}
	if p.hasSel {
		dispSrc := p.orientation.TransformDimensions(p.src)
		if p.selIsRegion {
			v, err := p.region.Resolve(dispSrc)
			if err != nil {
				return IdealLayout{}, DecoderRequest{}, err
			}
			in.viewport = v
			in.hasView = true
			in.viewColor = p.region.Color
			in.hasViewColor = true
		} else {
			r := p.crop.Resolve(dispSrc)
			in.viewport = geom.SignedRect{X: int64(r.X), Y: int64(r.Y), W: int64(r.W), H: int64(r.H)}
			in.hasView = true
		}
	}
	return computeCore(in)
}

// canvasOp is a post-constraint canvas adjustment (sequential mode only).
type canvasOp struct {
	isPad bool
	pad   Padding
	crop  layout.SourceCrop
}

// coreInput is the fully resolved command state: a net orientation, an
// optional viewport in display space, one constraint, padding, ordered
// post-constraint canvas adjustments, and output limits.
type coreInput struct {
	src         geom.Size
	orientation orient.Orientation

	hasView      bool
	viewport     geom.SignedRect
	viewColor    layout.CanvasColor
	hasViewColor bool

	cons    layout.Constraint
	hasCons bool

	pad    Padding
	hasPad bool

	postOps []canvasOp
	limits  layout.OutputLimits
}

// computeCore is the shared evaluator behind Pipeline.Compute and
// ComputeLayoutSequential: select, constrain, pad, adjust, limit.
func computeCore(in coreInput) (IdealLayout, DecoderRequest, error) {
	if in.src.IsZero() {
		return IdealLayout{}, DecoderRequest{}, layout.ErrZeroSourceDimension
	}
	src := geom.Size{W: geom.ClampDim(int64(in.src.W)), H: geom.ClampDim(int64(in.src.H))}
	o := in.orientation
	dispSrc := o.TransformDimensions(src)

	viewport := geom.SignedRect{W: int64(dispSrc.W), H: int64(dispSrc.H)}
	if in.hasView {
		viewport = in.viewport
	}
	cons, hasCons := in.cons, in.hasCons
	pad, hasPad := in.pad, in.hasPad
	limits := in.limits

	subject := geom.Size{W: geom.ClampDim(viewport.W), H: geom.ClampDim(viewport.H)}
	content, offset, hasContent := layout.Decompose(viewport, dispSrc)

	var lay layout.Layout
	if hasCons {
		var err error
		lay, err = cons.Solve(subject)
		if err != nil {
			return IdealLayout{}, DecoderRequest{}, err
		}
	} else {
		lay = layout.Layout{
			Source:   subject,
			ResizeTo: subject,
			Canvas:   subject,
			ScaleX:   1, ScaleY: 1,
		}
	}
	if in.hasViewColor && lay.Color.IsTransparent() {
		lay.Color = in.viewColor
	}

	ideal := IdealLayout{Orientation: o, PreSource: src}

	if !hasContent {
		// Pure canvas: the viewport misses the source entirely.
		lay.ResizeTo = geom.Size{}
		lay.HasCrop = false
		lay.Crop = geom.Rect{}
		lay.Placement = geom.Point{}
	} else {
		contentSubj := geom.Rect{
			X: uint32(offset.X), Y: uint32(offset.Y),
			W: content.W, H: content.H,
		}
		decodeSubj := contentSubj
		if lay.HasCrop {
			if w, ok := lay.Crop.Intersect(contentSubj); ok {
				decodeSubj = w
			}
		}
		decodeDisplay := geom.Rect{
			X: uint32(int64(decodeSubj.X) + viewport.X),
			Y: uint32(int64(decodeSubj.Y) + viewport.Y),
			W: decodeSubj.W, H: decodeSubj.H,
		}
		viewIsFull := viewport == (geom.SignedRect{W: int64(dispSrc.W), H: int64(dispSrc.H)})
		if !viewIsFull || decodeDisplay != (geom.Rect{W: dispSrc.W, H: dispSrc.H}) {
			ideal.HasSourceCrop = true
			ideal.SourceCrop = o.TransformRectToSource(decodeDisplay, src)
			ideal.cropSubject = decodeSubj
		}
	}

	if hasPad && !pad.isZero() {
		lay.Canvas.W = geom.AddU32(lay.Canvas.W, geom.AddU32(pad.Left, pad.Right))
		lay.Canvas.H = geom.AddU32(lay.Canvas.H, geom.AddU32(pad.Top, pad.Bottom))
		lay.Placement.X += int32(pad.Left)
		lay.Placement.Y += int32(pad.Top)
		if pad.HasColor && !pad.Color.IsTransparent() {
			lay.Color = pad.Color
		}
		ideal.Padding = pad
		ideal.HasPadding = true
	}

	// Sequential post-constraint canvas adjustments, in command order.
	for _, op := range in.postOps {
		if op.isPad {
			lay.Canvas.W = geom.AddU32(lay.Canvas.W, geom.AddU32(op.pad.Left, op.pad.Right))
			lay.Canvas.H = geom.AddU32(lay.Canvas.H, geom.AddU32(op.pad.Top, op.pad.Bottom))
			lay.Placement.X += int32(op.pad.Left)
			lay.Placement.Y += int32(op.pad.Top)
			if op.pad.HasColor && !op.pad.Color.IsTransparent() {
				lay.Color = op.pad.Color
			}
		} else {
			r := op.crop.Resolve(lay.Canvas)
			lay.Canvas = r.Size()
			lay.Placement.X -= int32(r.X)
			lay.Placement.Y -= int32(r.Y)
		}
	}

	lay = limits.Apply(lay)
	ideal.Layout = lay

	req := DecoderRequest{Orientation: o}
	if ideal.HasSourceCrop {
		// A crop covering the whole source is placement bookkeeping only;
		// the decoder gains nothing from hearing about it.
		if ideal.SourceCrop != (geom.Rect{W: src.W, H: src.H}) {
			req.Crop = ideal.SourceCrop
			req.HasCrop = true
		}
		req.TargetSize = preOrientSize(o, geom.Size{
			W: geom.RoundDim(lay.ScaleX * float64(ideal.cropSubject.W)),
			H: geom.RoundDim(lay.ScaleY * float64(ideal.cropSubject.H)),
		})
	} else if !lay.ResizeTo.IsZero() {
		req.TargetSize = preOrientSize(o, lay.ResizeTo)
	}
	return ideal, req, nil
}

// preOrientSize maps a post-orientation size back to the decoder's
// pre-orientation frame.
func preOrientSize(o orient.Orientation, s geom.Size) geom.Size {
	if o.SwapsAxes() {
		return s.Swapped()
	}
	return s
}
