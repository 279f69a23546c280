package layout

import "errors"

// The layout engine's failure taxonomy. Everything else is normalized
// locally (clamped percentages, ignored EXIF values, saturated arithmetic).
var (
	ErrZeroSourceDimension = errors.New("layout: source dimension is zero")
	ErrZeroTargetDimension = errors.New("layout: no non-zero target dimension")
	ErrZeroRegionDimension = errors.New("layout: region resolves to zero size")
)
