// Package codec computes per-plane block geometry and the MCU grid a
// JPEG-family encoder needs for a given canvas and chroma subsampling.
package codec

import "layoutplan/internal/geom"

// BlockSize is the DCT block edge length.
const BlockSize = 8

// Subsampling is the chroma subsampling scheme.
type Subsampling uint8

const (
	Sub444 Subsampling = iota
	Sub422
	Sub420
)

var subsamplingNames = [3]string{"4:4:4", "4:2:2", "4:2:0"}

func (s Subsampling) String() string {
	if int(s) < len(subsamplingNames) {
		return subsamplingNames[s]
	}
	return "unknown"
}

// Factors returns the horizontal and vertical luma-to-chroma ratios.
func (s Subsampling) Factors() (h, v uint32) {
	switch s {
	case Sub422:
		return 2, 1
	case Sub420:
		return 2, 2
	default:
		return 1, 1
	}
}

// PlaneLayout is the geometry of one plane: the real content, the content
// extended to full 8-pixel blocks, and the block grid.
type PlaneLayout struct {
	Content  geom.Size `json:"content"`
	Extended geom.Size `json:"extended"`
	BlocksW  uint32    `json:"blocks_w"`
	BlocksH  uint32    `json:"blocks_h"`
}

func planeFor(content geom.Size) PlaneLayout {
	ext := geom.Size{
		W: geom.RoundUp(content.W, BlockSize),
		H: geom.RoundUp(content.H, BlockSize),
	}
	return PlaneLayout{
		Content:  content,
		Extended: ext,
		BlocksW:  ext.W / BlockSize,
		BlocksH:  ext.H / BlockSize,
	}
}

// CodecLayout is the full encoder-facing geometry for one canvas.
type CodecLayout struct {
	Luma        PlaneLayout `json:"luma"`
	Chroma      PlaneLayout `json:"chroma"`
	Subsampling Subsampling `json:"subsampling"`

	MCUSize        geom.Size `json:"mcu_size"`
	MCUCols        uint32    `json:"mcu_cols"`
	MCURows        uint32    `json:"mcu_rows"`
	LumaRowsPerMCU uint32    `json:"luma_rows_per_mcu"`
}

// ForCanvas computes the codec layout for a canvas. The canvas is assumed
// MCU-aligned; callers align it with OutputLimits beforehand.
func ForCanvas(canvas geom.Size, sub Subsampling) CodecLayout {
	h, v := sub.Factors()
	chroma := geom.Size{
		W: geom.CeilDiv(canvas.W, h),
		H: geom.CeilDiv(canvas.H, v),
	}
	mcu := geom.Size{W: BlockSize * h, H: BlockSize * v}
	return CodecLayout{
		Luma:           planeFor(canvas),
		Chroma:         planeFor(chroma),
		Subsampling:    sub,
		MCUSize:        mcu,
		MCUCols:        canvas.W / mcu.W,
		MCURows:        canvas.H / mcu.H,
		LumaRowsPerMCU: mcu.H,
	}
}
