package pipeline

import (
	"layoutplan/internal/geom"
	"layoutplan/internal/layout"
	"layoutplan/internal/orient"
)

// CommandOp discriminates sequential commands.
type CommandOp uint8

const (
	OpAutoOrient CommandOp = iota
	OpRotate
	OpFlipH
	OpFlipV
	OpCrop
	OpRegion
	OpConstrain
	OpPad
	OpMax
	OpMin
	OpAlign
)

// Command is one step of a sequential layout program.
type Command struct {
	Op CommandOp

	EXIF       int
	Degrees    int
	Crop       layout.SourceCrop
	Region     layout.Region
	Constraint layout.Constraint
	Pad        Padding
	Size       geom.Size
	Align      layout.Align
}

// CmdAutoOrient corrects for an EXIF orientation tag.
func CmdAutoOrient(exif int) Command { return Command{Op: OpAutoOrient, EXIF: exif} }

// CmdRotate rotates clockwise by 90, 180 or 270 degrees.
func CmdRotate(degrees int) Command { return Command{Op: OpRotate, Degrees: degrees} }

// CmdFlipH mirrors horizontally.
func CmdFlipH() Command { return Command{Op: OpFlipH} }

// CmdFlipV mirrors vertically.
func CmdFlipV() Command { return Command{Op: OpFlipV} }

// CmdCrop selects a sub-rectangle of the current effective source.
func CmdCrop(c layout.SourceCrop) Command { return Command{Op: OpCrop, Crop: c} }

// CmdRegion sets a viewport relative to the current effective source.
func CmdRegion(r layout.Region) Command { return Command{Op: OpRegion, Region: r} }

// CmdConstrain applies a constraint; a later constraint replaces it.
func CmdConstrain(c layout.Constraint) Command { return Command{Op: OpConstrain, Constraint: c} }

// CmdPad expands the canvas.
func CmdPad(p Padding) Command { return Command{Op: OpPad, Pad: p} }

// CmdMax caps the canvas.
func CmdMax(w, h uint32) Command { return Command{Op: OpMax, Size: geom.Size{W: w, H: h}} }

// CmdMin floors the canvas.
func CmdMin(w, h uint32) Command { return Command{Op: OpMin, Size: geom.Size{W: w, H: h}} }

// CmdAlign rounds the canvas to codec multiples.
func CmdAlign(a layout.Align) Command { return Command{Op: OpAlign, Align: a} }

// ComputeLayoutSequential evaluates commands in order. Orientation commands
// fuse into one source transform. Region and crop commands compose, each
// refining the previous effective source. The last constraint wins; crops
// and pads after a constraint adjust the output canvas instead of the
// source, and an axis-swapping orientation after a constraint swaps its
// target dimensions. Unlike the fixed-order builder, this evaluator may
// allocate for the post-constraint adjustment list.
func ComputeLayoutSequential(src geom.Size, cmds []Command) (IdealLayout, DecoderRequest, error) {
	if src.IsZero() {
		return IdealLayout{}, DecoderRequest{}, layout.ErrZeroSourceDimension
	}
	src = geom.Size{W: geom.ClampDim(int64(src.W)), H: geom.ClampDim(int64(src.H))}

	var (
		o        orient.Orientation
		hasView  bool
		viewport geom.SignedRect
		vColor   layout.CanvasColor
		hasColor bool
		cons     layout.Constraint
		hasCons  bool
		postOps  []canvasOp
		padSum   Padding
		hasPad   bool
		limits   layout.OutputLimits
	)

	for _, cmd := range cmds {
		switch cmd.Op {
		case OpAutoOrient, OpRotate, OpFlipH, OpFlipV:
			op := commandOrientation(cmd)
			if op == orient.Identity {
				continue
			}
			if hasView {
				viewport = op.TransformSignedRect(viewport, o.TransformDimensions(src))
			}
			o = op.Compose(o)
			if hasCons && op.SwapsAxes() {
				cons.Width, cons.Height = cons.Height, cons.Width
			}

		case OpCrop:
			if hasCons {
				postOps = append(postOps, canvasOp{crop: cmd.Crop})
				continue
			}
			eff := effectiveDims(hasView, viewport, o.TransformDimensions(src))
			r := cmd.Crop.Resolve(eff)
			nv := geom.SignedRect{X: int64(r.X), Y: int64(r.Y), W: int64(r.W), H: int64(r.H)}
			viewport = translateView(hasView, viewport, nv)
			hasView = true

		case OpRegion:
			eff := effectiveDims(hasView, viewport, o.TransformDimensions(src))
			v, err := cmd.Region.Resolve(eff)
			if err != nil {
				return IdealLayout{}, DecoderRequest{}, err
			}
			viewport = translateView(hasView, viewport, v)
			hasView = true
			vColor = cmd.Region.Color
			hasColor = true

		case OpConstrain:
			c := cmd.Constraint
			if c.HasCrop {
				eff := effectiveDims(hasView, viewport, o.TransformDimensions(src))
				r := c.Crop.Resolve(eff)
				nv := geom.SignedRect{X: int64(r.X), Y: int64(r.Y), W: int64(r.W), H: int64(r.H)}
				viewport = translateView(hasView, viewport, nv)
				hasView = true
				c.HasCrop = false
			}
			cons = c
			hasCons = true

		case OpPad:
			postOps = append(postOps, canvasOp{isPad: true, pad: cmd.Pad})
			padSum.Left = geom.AddU32(padSum.Left, cmd.Pad.Left)
			padSum.Top = geom.AddU32(padSum.Top, cmd.Pad.Top)
			padSum.Right = geom.AddU32(padSum.Right, cmd.Pad.Right)
			padSum.Bottom = geom.AddU32(padSum.Bottom, cmd.Pad.Bottom)
			if cmd.Pad.HasColor {
				padSum.Color = cmd.Pad.Color
				padSum.HasColor = true
			}
			hasPad = true

		case OpMax:
			limits.Max = cmd.Size
			limits.HasMax = true

		case OpMin:
			limits.Min = cmd.Size
			limits.HasMin = true

		case OpAlign:
			limits.Align = cmd.Align
			limits.HasAlign = true
		}
	}

	ideal, req, err := computeCore(coreInput{
		src:          src,
		orientation:  o,
		hasView:      hasView,
		viewport:     viewport,
		viewColor:    vColor,
		hasViewColor: hasColor,
		cons:         cons,
		hasCons:      hasCons,
		postOps:      postOps,
		limits:       limits,
	})
	if err != nil {
		return ideal, req, err
	}
	if hasPad && !padSum.isZero() {
		ideal.Padding = padSum
		ideal.HasPadding = true
	}
	return ideal, req, nil
}

func commandOrientation(cmd Command) orient.Orientation {
	switch cmd.Op {
	case OpAutoOrient:
		return orient.FromEXIF(cmd.EXIF)
	case OpRotate:
		switch cmd.Degrees {
		case 90:
			return orient.Rotate90
		case 180:
			return orient.Rotate180
		case 270:
			return orient.Rotate270
		}
	case OpFlipH:
		return orient.FlipH
	case OpFlipV:
		return orient.FlipV
	}
	return orient.Identity
}

func effectiveDims(hasView bool, v geom.SignedRect, disp geom.Size) geom.Size {
	if !hasView {
		return disp
	}
	return geom.Size{W: geom.ClampDim(v.W), H: geom.ClampDim(v.H)}
}

// translateView places a rectangle resolved against the current effective
// source into absolute display coordinates.
func translateView(hasView bool, cur, next geom.SignedRect) geom.SignedRect {
	if !hasView {
		return next
	}
	next.X += cur.X
	next.Y += cur.Y
	return next
}
