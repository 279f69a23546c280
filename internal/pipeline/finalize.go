package pipeline

import "layoutplan/internal/geom"

// Finalize reconciles the decoder's actual output against the ideal layout
// and returns the concrete residual plan. The plan is always well-defined:
// for a full decode it contains the complete trim, orient, resize and
// placement work.
func (il *IdealLayout) Finalize(req *DecoderRequest, offer *DecoderOffer) LayoutPlan {
	lay := il.Layout
	plan := LayoutPlan{
		Request:              *req,
		RemainingOrientation: il.Orientation.Compose(offer.OrientationApplied.Inverse()),
		ResizeTo:             lay.ResizeTo,
		Canvas:               lay.Canvas,
		Placement:            lay.Placement,
		Color:                lay.Color,
		ContentSize:          lay.Content,
		HasContentSize:       lay.HasContent,
		Padding:              il.Padding,
		HasPadding:           il.HasPadding,
	}

	// Decoder output expressed in the pre-orientation frame, and the
	// source rectangle it corresponds to.
	preOut := offer.Dimensions
	if offer.OrientationApplied.SwapsAxes() {
		preOut = preOut.Swapped()
	}
	base := geom.Rect{W: il.PreSource.W, H: il.PreSource.H}
	if offer.HasCrop {
		base = offer.CropApplied
	}
	fx := float64(preOut.W) / float64(base.W)
	fy := float64(preOut.H) / float64(base.H)

	if !il.HasSourceCrop {
		if lay.ResizeTo.IsZero() {
			// Pure canvas: nothing to decode, trim or resize.
			return plan
		}
		plan.ResizeIsIdentity = plan.RemainingOrientation.TransformDimensions(offer.Dimensions) == plan.ResizeTo
		return plan
	}

	wanted := il.SourceCrop
	covered := wanted
	if offer.HasCrop {
		if i, ok := wanted.Intersect(offer.CropApplied); ok {
			covered = i
		} else {
			// The decoder cropped away everything we wanted; the best
			// residual uses what it did produce.
			covered = offer.CropApplied
		}
	}

	if !offer.HasCrop || offer.CropApplied != covered || covered != wanted {
		// Trim the covered rectangle out of the decoder output,
		// accounting for any prescale and applied orientation.
		rel := geom.Rect{X: covered.X - base.X, Y: covered.Y - base.Y, W: covered.W, H: covered.H}
		scaled := scaleRectCovering(rel, fx, fy, preOut)
		if scaled != (geom.Rect{W: preOut.W, H: preOut.H}) {
			plan.Trim = offer.OrientationApplied.TransformRectFromSource(scaled, preOut)
			plan.HasTrim = true
		}
	}

	// Residual resize and placement, crop-relative: the trimmed content
	// scales by the ideal factors and lands where the crop's slice of the
	// subject would have landed.
	coveredDisp := il.Orientation.TransformRectFromSource(covered, il.PreSource)
	wantedDisp := il.Orientation.TransformRectFromSource(wanted, il.PreSource)
	subjX := int64(il.cropSubject.X) + int64(coveredDisp.X) - int64(wantedDisp.X)
	subjY := int64(il.cropSubject.Y) + int64(coveredDisp.Y) - int64(wantedDisp.Y)

	plan.ResizeTo = geom.Size{
		W: geom.RoundDim(lay.ScaleX * float64(coveredDisp.W)),
		H: geom.RoundDim(lay.ScaleY * float64(coveredDisp.H)),
	}
	plan.Placement = geom.Point{
		X: lay.Placement.X + int32(geom.RoundHalfAway(lay.ScaleX*float64(subjX))),
		Y: lay.Placement.Y + int32(geom.RoundHalfAway(lay.ScaleY*float64(subjY))),
	}

	trimmed := offer.Dimensions
	if plan.HasTrim {
		trimmed = plan.Trim.Size()
	}
	plan.ResizeIsIdentity = plan.RemainingOrientation.TransformDimensions(trimmed) == plan.ResizeTo
	return plan
}
