// Package preview rasterizes a layout plan as a schematic: the canvas in
// its fill color, the content rectangle, and the edge-replication band from
// Extend alignment. It exists for debugging plans, not for pixel output.
package preview

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"os"

	"github.com/HugoSmits86/nativewebp"
	xdraw "golang.org/x/image/draw"

	"layoutplan/internal/layout"
	"layoutplan/internal/pipeline"
)

// maxEdge caps the rendered schematic; larger canvases scale down.
const maxEdge = 512

var (
	contentFill = color.NRGBA{R: 0x4a, G: 0x90, B: 0xd9, A: 0xff}
	extendFill  = color.NRGBA{R: 0xd9, G: 0xd9, B: 0xd9, A: 0xff}
	checkerA    = color.NRGBA{R: 0xee, G: 0xee, B: 0xee, A: 0xff}
	checkerB    = color.NRGBA{R: 0xcc, G: 0xcc, B: 0xcc, A: 0xff}
)

// Render draws the schematic at full canvas resolution, then downscales to
// fit maxEdge.
func Render(plan pipeline.LayoutPlan) *image.NRGBA {
	w, h := int(plan.Canvas.W), int(plan.Canvas.H)
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	img := image.NewNRGBA(image.Rect(0, 0, w, h))

	fillCanvas(img, plan.Color)

	if plan.HasContentSize {
		// Everything past the real content is the replicated band.
		draw.Draw(img, image.Rect(int(plan.ContentSize.W), 0, w, h),
			image.NewUniform(extendFill), image.Point{}, draw.Src)
		draw.Draw(img, image.Rect(0, int(plan.ContentSize.H), w, h),
			image.NewUniform(extendFill), image.Point{}, draw.Src)
	}

	if !plan.ResizeTo.IsZero() {
		content := image.Rect(
			int(plan.Placement.X),
			int(plan.Placement.Y),
			int(plan.Placement.X)+int(plan.ResizeTo.W),
			int(plan.Placement.Y)+int(plan.ResizeTo.H),
		).Intersect(img.Bounds())
		draw.Draw(img, content, image.NewUniform(contentFill), image.Point{}, draw.Src)
	}

	if w <= maxEdge && h <= maxEdge {
		return img
	}
	scale := float64(maxEdge) / float64(w)
	if sh := float64(maxEdge) / float64(h); sh < scale {
		scale = sh
	}
	dw, dh := int(float64(w)*scale), int(float64(h)*scale)
	if dw < 1 {
		dw = 1
	}
	if dh < 1 {
		dh = 1
	}
	dst := image.NewNRGBA(image.Rect(0, 0, dw, dh))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), xdraw.Src, nil)
	return dst
}

// fillCanvas paints the canvas color; transparent fills get a checkerboard
// so padding stays visible.
func fillCanvas(img *image.NRGBA, c layout.CanvasColor) {
	b := img.Bounds()
	switch c.Kind {
	case layout.ColorSrgb:
		draw.Draw(img, b, image.NewUniform(color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}), image.Point{}, draw.Src)
	case layout.ColorLinear:
		draw.Draw(img, b, image.NewUniform(color.NRGBA{
			R: linearToSrgb8(c.LR), G: linearToSrgb8(c.LG), B: linearToSrgb8(c.LB), A: clamp8(c.LA * 255),
		}), image.Point{}, draw.Src)
	default:
		const cell = 8
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				fill := checkerA
				if (x/cell+y/cell)%2 == 1 {
					fill = checkerB
				}
				img.SetNRGBA(x, y, fill)
			}
		}
	}
}

func linearToSrgb8(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	f := float64(v)
	var s float64
	if f <= 0.0031308 {
		s = f * 12.92
	} else {
		s = 1.055*math.Pow(f, 1/2.4) - 0.055
	}
	return clamp8(float32(s * 255))
}

func clamp8(v float32) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}

// WriteWebP encodes the schematic to path.
func WriteWebP(path string, img *image.NRGBA) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("preview: create %s: %w", path, err)
	}
	defer f.Close()

	if err := nativewebp.Encode(f, img, nil); err != nil {
		return fmt.Errorf("preview: encode %s: %w", path, err)
	}
	return nil
}
