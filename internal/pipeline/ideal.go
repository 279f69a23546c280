// Package pipeline turns a sequence of layout commands into an ideal layout
// and a decoder request, and later reconciles the decoder's actual output
// into a concrete plan for the resize and compositing engines.
package pipeline

import (
	"layoutplan/internal/geom"
	"layoutplan/internal/layout"
	"layoutplan/internal/orient"
)

// Padding is a per-side canvas expansion with an optional fill color.
type Padding struct {
	Left   uint32 `json:"left,omitempty"`
	Top    uint32 `json:"top,omitempty"`
	Right  uint32 `json:"right,omitempty"`
	Bottom uint32 `json:"bottom,omitempty"`

	Color    layout.CanvasColor `json:"color,omitempty"`
	HasColor bool               `json:"has_color,omitempty"`
}

func (p Padding) isZero() bool {
	return p.Left == 0 && p.Top == 0 && p.Right == 0 && p.Bottom == 0
}

// IdealLayout is the layout computed against a hypothetical full decode.
// Orientation is the net D4 element still to be realized; Layout is
// expressed in post-orientation space. SourceCrop is the decode rectangle
// in pre-orientation source coordinates.
type IdealLayout struct {
	Orientation orient.Orientation `json:"orientation"`
	Layout      layout.Layout      `json:"layout"`

	SourceCrop    geom.Rect `json:"source_crop,omitempty"`
	HasSourceCrop bool      `json:"has_source_crop,omitempty"`

	Padding    Padding `json:"padding,omitempty"`
	HasPadding bool    `json:"has_padding,omitempty"`

	// PreSource is the full pre-orientation source.
	PreSource geom.Size `json:"pre_source"`

	// cropSubject is the decode rectangle re-expressed in the coordinates
	// of the resize subject (the effective post-orientation source).
	cropSubject geom.Rect
}

// DecoderRequest is the advisory handed to the decoder: a preferred source
// crop, a prescale target, and an orientation it is permitted to apply.
// All coordinates are pre-orientation. The decoder may satisfy any subset.
type DecoderRequest struct {
	Crop    geom.Rect `json:"crop,omitempty"`
	HasCrop bool      `json:"has_crop,omitempty"`

	TargetSize  geom.Size          `json:"target_size"`
	Orientation orient.Orientation `json:"orientation"`
}

// DecoderOffer reports what the decoder actually produced: its output
// dimensions, any crop it performed (source coordinates), and any
// orientation it applied.
type DecoderOffer struct {
	Dimensions geom.Size `json:"dimensions"`

	CropApplied geom.Rect `json:"crop_applied,omitempty"`
	HasCrop     bool      `json:"has_crop,omitempty"`

	OrientationApplied orient.Orientation `json:"orientation_applied"`
}

// FullDecode is the offer of a decoder that did no cropping, scaling or
// rotation: the plan derived from it contains the full ideal work.
func FullDecode(w, h uint32) DecoderOffer {
	return DecoderOffer{Dimensions: geom.Size{W: w, H: h}}
}

// LayoutPlan is the concrete residual work after decoder negotiation. Every
// field is directly consumable: trim the decoder output, apply the
// remaining orientation, resize, and place on the canvas.
type LayoutPlan struct {
	Request DecoderRequest `json:"request"`

	// Trim is in decoder-output coordinates.
	Trim    geom.Rect `json:"trim,omitempty"`
	HasTrim bool      `json:"has_trim,omitempty"`

	ResizeTo             geom.Size          `json:"resize_to"`
	RemainingOrientation orient.Orientation `json:"remaining_orientation"`
	Canvas               geom.Size          `json:"canvas"`
	Placement            geom.Point         `json:"placement"`
	Color                layout.CanvasColor `json:"color"`
	ResizeIsIdentity     bool               `json:"resize_is_identity"`

	ContentSize    geom.Size `json:"content_size,omitempty"`
	HasContentSize bool      `json:"has_content_size,omitempty"`

	Padding    Padding `json:"padding,omitempty"`
	HasPadding bool    `json:"has_padding,omitempty"`
}
