// Package orient implements the eight-element D4 orientation algebra used to
// describe image rotation and mirroring, with the EXIF 1-8 encoding and the
// coordinate transforms between pre- and post-orientation spaces.
package orient

import "layoutplan/internal/geom"

// Orientation is one of the eight D4 elements. The low two bits hold the
// clockwise quarter-turn count; bit 2 holds a horizontal flip applied after
// the rotation.
type Orientation uint8

const (
	Identity Orientation = iota
	Rotate90
	Rotate180
	Rotate270
	FlipH
	Transpose
	FlipV
	Transverse
)

var names = [8]string{
	"identity", "rotate90", "rotate180", "rotate270",
	"fliph", "transpose", "flipv", "transverse",
}

func (o Orientation) String() string {
	return names[o&7]
}

// rotation returns the quarter-turn count in {0,1,2,3}.
func (o Orientation) rotation() uint8 { return uint8(o) & 3 }

// flipped reports whether a horizontal flip follows the rotation.
func (o Orientation) flipped() bool { return o&4 != 0 }

// exifToOrientation maps EXIF values 1-8 to the operation that displays the
// image upright. Index 0 is unused.
var exifToOrientation = [9]Orientation{
	0, Identity, FlipH, Rotate180, FlipV, Transpose, Rotate90, Transverse, Rotate270,
}

var orientationToExif = [8]uint8{1, 6, 3, 8, 2, 5, 4, 7}

// FromEXIF returns the orientation for an EXIF tag value. Values outside 1-8
// yield Identity.
func FromEXIF(v int) Orientation {
	if v < 1 || v > 8 {
		return Identity
	}
	return exifToOrientation[v]
}

// ToEXIF returns the EXIF tag value for o.
func (o Orientation) ToEXIF() int {
	return int(orientationToExif[o&7])
}

// Compose returns the net element for applying b first and then o, so
// appending a new operation to an accumulated orientation is
// next.Compose(current).
func (o Orientation) Compose(b Orientation) Orientation {
	ra, rb := o.rotation(), b.rotation()
	if !b.flipped() {
		return fromParts((ra+rb)&3, o.flipped())
	}
	return fromParts((rb-ra)&3, !o.flipped())
}

// Inverse returns the element that undoes o. Flipped elements are their own
// inverse; pure rotations invert by negating the turn count.
func (o Orientation) Inverse() Orientation {
	if o.flipped() {
		return o
	}
	return fromParts((4-o.rotation())&3, false)
}

// SwapsAxes reports whether o exchanges width and height.
func (o Orientation) SwapsAxes() bool {
	return o.rotation()&1 != 0
}

// TransformDimensions maps a pre-orientation size to its post-orientation
// size.
func (o Orientation) TransformDimensions(s geom.Size) geom.Size {
	if o.SwapsAxes() {
		return s.Swapped()
	}
	return s
}

// TransformRectToSource maps a rectangle in display (post-orientation)
// coordinates back to the pre-orientation source space of a src.W by src.H
// image. The caller guarantees the rectangle lies within display bounds.
func (o Orientation) TransformRectToSource(r geom.Rect, src geom.Size) geom.Rect {
	w, h := src.W, src.H
	switch o & 7 {
	case Rotate90:
		return geom.Rect{X: r.Y, Y: h - r.X - r.W, W: r.H, H: r.W}
	case Rotate180:
		return geom.Rect{X: w - r.X - r.W, Y: h - r.Y - r.H, W: r.W, H: r.H}
	case Rotate270:
		return geom.Rect{X: w - r.Y - r.H, Y: r.X, W: r.H, H: r.W}
	case FlipH:
		return geom.Rect{X: w - r.X - r.W, Y: r.Y, W: r.W, H: r.H}
	case Transpose:
		return geom.Rect{X: r.Y, Y: r.X, W: r.H, H: r.W}
	case FlipV:
		return geom.Rect{X: r.X, Y: h - r.Y - r.H, W: r.W, H: r.H}
	case Transverse:
		return geom.Rect{X: w - r.Y - r.H, Y: h - r.X - r.W, W: r.H, H: r.W}
	}
	return r
}

// TransformRectFromSource maps a rectangle in pre-orientation source
// coordinates into the display space of o. It is the inverse of
// TransformRectToSource.
func (o Orientation) TransformRectFromSource(r geom.Rect, src geom.Size) geom.Rect {
	return o.Inverse().TransformRectToSource(r, o.TransformDimensions(src))
}

// TransformSignedRect maps a rectangle that may extend outside the image
// through o applied to a src.W by src.H image. Used for region viewports.
func (o Orientation) TransformSignedRect(r geom.SignedRect, src geom.Size) geom.SignedRect {
	w, h := int64(src.W), int64(src.H)
	switch o & 7 {
	case Rotate90:
		return geom.SignedRect{X: h - r.Y - r.H, Y: r.X, W: r.H, H: r.W}
	case Rotate180:
		return geom.SignedRect{X: w - r.X - r.W, Y: h - r.Y - r.H, W: r.W, H: r.H}
	case Rotate270:
		return geom.SignedRect{X: r.Y, Y: w - r.X - r.W, W: r.H, H: r.W}
	case FlipH:
		return geom.SignedRect{X: w - r.X - r.W, Y: r.Y, W: r.W, H: r.H}
	case Transpose:
		return geom.SignedRect{X: r.Y, Y: r.X, W: r.H, H: r.W}
	case FlipV:
		return geom.SignedRect{X: r.X, Y: h - r.Y - r.H, W: r.W, H: r.H}
	case Transverse:
		return geom.SignedRect{X: h - r.Y - r.H, Y: w - r.X - r.W, W: r.H, H: r.W}
	}
	return r
}

func fromParts(rotation uint8, flip bool) Orientation {
	o := Orientation(rotation & 3)
	if flip {
		o |= 4
	}
	return o
}
