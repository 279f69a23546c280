// Package joblist parses the batch planner's job file: one entry per image,
// each with an ordered list of layout operations.
package joblist

// Job is one image to plan.
type Job struct {
	// File is the image path, relative to the configured source dir.
	File string `json:"file"`

	// Name overrides the output plan name (default: the file stem).
	Name string `json:"name,omitempty"`

	Ops []OpSpec `json:"ops"`

	// Subsampling overrides the configured default (444, 422, 420).
	Subsampling string `json:"subsampling,omitempty"`
}

// OpSpec is one layout operation in wire form. Op selects the operation;
// the other fields are operand slots, used per op:
//
//	auto_orient          value (EXIF tag; 0 = use the probed tag)
//	rotate               value (90, 180, 270)
//	flip_h, flip_v       -
//	crop                 x, y, w, h (pixels)
//	crop_percent         px, py, pw, ph
//	region               left, top, right, bottom (pixel offsets), color
//	fit, within, fit_crop, within_crop, fit_pad, within_pad, distort,
//	aspect_crop          w, h, gravity_x, gravity_y, color
//	pad                  x, y, w, h as left, top, right, bottom; color
//	max, min             w, h
//	align                mode (crop, extend, distort), x, y
type OpSpec struct {
	Op string `json:"op"`

	Value int   `json:"value,omitempty"`
	X     int64 `json:"x,omitempty"`
	Y     int64 `json:"y,omitempty"`
	W     int64 `json:"w,omitempty"`
	H     int64 `json:"h,omitempty"`

	PX float32 `json:"px,omitempty"`
	PY float32 `json:"py,omitempty"`
	PW float32 `json:"pw,omitempty"`
	PH float32 `json:"ph,omitempty"`

	Left   int32 `json:"left,omitempty"`
	Top    int32 `json:"top,omitempty"`
	Right  int32 `json:"right,omitempty"`
	Bottom int32 `json:"bottom,omitempty"`

	GravityX float32 `json:"gravity_x,omitempty"`
	GravityY float32 `json:"gravity_y,omitempty"`

	Mode  string `json:"mode,omitempty"`
	Color string `json:"color,omitempty"` // #rrggbb or #rrggbbaa
}
