package pipeline

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"layoutplan/internal/geom"
	"layoutplan/internal/layout"
	"layoutplan/internal/orient"
)

func seq(t *testing.T, src geom.Size, cmds ...Command) (IdealLayout, DecoderRequest) {
	t.Helper()
	ideal, req, err := ComputeLayoutSequential(src, cmds)
	if err != nil {
		t.Fatalf("ComputeLayoutSequential: %v", err)
	}
	return ideal, req
}

func TestSequentialMatchesBuilderForSimplePrograms(t *testing.T) {
	opts := cmp.Options{
		cmp.AllowUnexported(IdealLayout{}),
		cmpopts.IgnoreFields(layout.Layout{}, "ScaleX", "ScaleY"),
	}

	fromBuilder, reqB := compute(t, New(4000, 3000).AutoOrient(6).Fit(800, 600))
	fromSeq, reqS := seq(t, geom.Size{W: 4000, H: 3000},
		CmdAutoOrient(6),
		CmdConstrain(layout.Constraint{Mode: layout.Fit, Width: 800, Height: 600, Gravity: layout.GravityCenter()}),
	)
	if diff := cmp.Diff(fromBuilder, fromSeq, opts); diff != "" {
		t.Errorf("ideal mismatch (-builder +sequential):\n%s", diff)
	}
	if reqB != reqS {
		t.Errorf("request mismatch: %+v vs %+v", reqB, reqS)
	}
}

func TestSequentialCropsCompose(t *testing.T) {
	// The second crop is relative to the first one's output.
	ideal, _ := seq(t, geom.Size{W: 1000, H: 1000},
		CmdCrop(layout.CropPixels(geom.Rect{X: 100, Y: 100, W: 500, H: 500})),
		CmdCrop(layout.CropPixels(geom.Rect{X: 50, Y: 50, W: 200, H: 200})),
		CmdConstrain(layout.Constraint{Mode: layout.Fit, Width: 200, Height: 200, Gravity: layout.GravityCenter()}),
	)
	if !ideal.HasSourceCrop || ideal.SourceCrop != (geom.Rect{X: 150, Y: 150, W: 200, H: 200}) {
		t.Errorf("source crop = %+v (has=%v), want (150,150,200,200)", ideal.SourceCrop, ideal.HasSourceCrop)
	}
}

func TestSequentialLastConstraintWinsKeepsCrops(t *testing.T) {
	ideal, _ := seq(t, geom.Size{W: 1000, H: 1000},
		CmdCrop(layout.CropPixels(geom.Rect{X: 0, Y: 0, W: 500, H: 500})),
		CmdConstrain(layout.Constraint{Mode: layout.Fit, Width: 100, Height: 100, Gravity: layout.GravityCenter()}),
		CmdConstrain(layout.Constraint{Mode: layout.Fit, Width: 250, Height: 250, Gravity: layout.GravityCenter()}),
	)
	if ideal.Layout.ResizeTo != (geom.Size{W: 250, H: 250}) {
		t.Errorf("resize = %+v, want the later constraint", ideal.Layout.ResizeTo)
	}
	if !ideal.HasSourceCrop || ideal.SourceCrop != (geom.Rect{X: 0, Y: 0, W: 500, H: 500}) {
		t.Errorf("crop lost: %+v (has=%v)", ideal.SourceCrop, ideal.HasSourceCrop)
	}
}

func TestSequentialPadAfterConstraint(t *testing.T) {
	ideal, _ := seq(t, geom.Size{W: 1000, H: 1000},
		CmdConstrain(layout.Constraint{Mode: layout.Fit, Width: 100, Height: 100, Gravity: layout.GravityCenter()}),
		CmdPad(Padding{Left: 10, Top: 10, Right: 10, Bottom: 10}),
	)
	if ideal.Layout.Canvas != (geom.Size{W: 120, H: 120}) {
		t.Errorf("canvas = %+v, want 120x120", ideal.Layout.Canvas)
	}
	if ideal.Layout.Placement != (geom.Point{X: 10, Y: 10}) {
		t.Errorf("placement = %+v, want (10,10)", ideal.Layout.Placement)
	}
}

func TestSequentialCropAfterConstraintShrinksCanvas(t *testing.T) {
	ideal, _ := seq(t, geom.Size{W: 1000, H: 1000},
		CmdConstrain(layout.Constraint{Mode: layout.Fit, Width: 200, Height: 200, Gravity: layout.GravityCenter()}),
		CmdCrop(layout.CropPixels(geom.Rect{X: 20, Y: 20, W: 100, H: 100})),
	)
	if ideal.Layout.Canvas != (geom.Size{W: 100, H: 100}) {
		t.Errorf("canvas = %+v, want 100x100", ideal.Layout.Canvas)
	}
	if ideal.Layout.Placement != (geom.Point{X: -20, Y: -20}) {
		t.Errorf("placement = %+v, want (-20,-20)", ideal.Layout.Placement)
	}
	// The source is untouched: the full resize still happens.
	if ideal.Layout.ResizeTo != (geom.Size{W: 200, H: 200}) {
		t.Errorf("resize = %+v, want 200x200", ideal.Layout.ResizeTo)
	}
}

func TestSequentialOrientationAfterConstraintSwapsTargets(t *testing.T) {
	ideal, _ := seq(t, geom.Size{W: 4000, H: 3000},
		CmdConstrain(layout.Constraint{Mode: layout.Fit, Width: 800, Height: 600, Gravity: layout.GravityCenter()}),
		CmdRotate(90),
	)
	if ideal.Orientation != orient.Rotate90 {
		t.Errorf("orientation = %v, want rotate90", ideal.Orientation)
	}
	// Targets swapped to 600x800 against the rotated 3000x4000 source:
	// scale 0.15, resize 450x600.
	if ideal.Layout.ResizeTo != (geom.Size{W: 450, H: 600}) {
		t.Errorf("resize = %+v, want 450x600", ideal.Layout.ResizeTo)
	}
}

func TestSequentialOrientationFusesBeforeCrop(t *testing.T) {
	// A crop recorded before a later rotation stays anchored to the same
	// source pixels.
	a, _ := seq(t, geom.Size{W: 400, H: 300},
		CmdCrop(layout.CropPixels(geom.Rect{X: 0, Y: 0, W: 100, H: 50})),
		CmdRotate(180),
	)
	b, _ := seq(t, geom.Size{W: 400, H: 300},
		CmdRotate(180),
		CmdCrop(layout.CropPixels(geom.Rect{X: 300, Y: 250, W: 100, H: 50})),
	)
	if !a.HasSourceCrop || !b.HasSourceCrop || a.SourceCrop != b.SourceCrop {
		t.Errorf("crops diverged: %+v vs %+v", a.SourceCrop, b.SourceCrop)
	}
}

func TestSequentialZeroRegion(t *testing.T) {
	_, _, err := ComputeLayoutSequential(geom.Size{W: 100, H: 100}, []Command{
		CmdRegion(layout.Region{
			Left:  layout.RegionCoord{Pixels: 50},
			Right: layout.RegionCoord{Pixels: 50},
			Top:   layout.RegionCoord{},
			Bottom: layout.RegionCoord{Percent: 1},
		}),
	})
	if !errors.Is(err, layout.ErrZeroRegionDimension) {
		t.Errorf("err = %v, want ErrZeroRegionDimension", err)
	}
}

func TestSequentialLimits(t *testing.T) {
	ideal, _ := seq(t, geom.Size{W: 4000, H: 3000},
		CmdConstrain(layout.Constraint{Mode: layout.Fit, Width: 4000, Height: 3000, Gravity: layout.GravityCenter()}),
		CmdMax(1000, 1000),
		CmdAlign(layout.Align{Mode: layout.AlignExtend, X: 16, Y: 16}),
	)
	if ideal.Layout.Canvas != (geom.Size{W: 1008, H: 752}) {
		t.Errorf("canvas = %+v, want 1008x752", ideal.Layout.Canvas)
	}
	if !ideal.Layout.HasContent || ideal.Layout.Content != (geom.Size{W: 1000, H: 750}) {
		t.Errorf("content = %+v, want 1000x750", ideal.Layout.Content)
	}
}
