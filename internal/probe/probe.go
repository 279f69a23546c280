// Package probe reads image headers from disk: dimensions, format, and the
// EXIF orientation tag for JPEG files. It never decodes pixel data.
package probe

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	"io"
	"os"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "github.com/ftrvxmtrx/tga"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Info describes a probed image.
type Info struct {
	Width  uint32 `json:"width"`
	Height uint32 `json:"height"`
	Format string `json:"format"`

	// EXIFOrientation is the raw orientation tag, 1-8, or 0 when absent.
	EXIFOrientation int `json:"exif_orientation,omitempty"`
}

// File probes the image at path.
func File(path string) (Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return Info{}, fmt.Errorf("probe: open %s: %w", path, err)
	}
	defer f.Close()

	cfg, format, err := image.DecodeConfig(bufio.NewReader(f))
	if err != nil {
		return Info{}, fmt.Errorf("probe: decode %s: %w", path, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return Info{}, fmt.Errorf("probe: %s: degenerate dimensions %dx%d", path, cfg.Width, cfg.Height)
	}
	info := Info{Width: uint32(cfg.Width), Height: uint32(cfg.Height), Format: format}

	if format == "jpeg" {
		if _, err := f.Seek(0, io.SeekStart); err == nil {
			if o, ok := scanJPEGOrientation(f); ok {
				info.EXIFOrientation = o
			}
		}
	}
	return info, nil
}

// maxAPP1 bounds how much of an APP1 segment is buffered for tag parsing.
const maxAPP1 = 1 << 16

// scanJPEGOrientation walks JPEG marker segments looking for an Exif APP1
// block and returns the orientation tag from its first IFD.
func scanJPEGOrientation(r io.Reader) (int, bool) {
	br := bufio.NewReader(r)

	var soi [2]byte
	if _, err := io.ReadFull(br, soi[:]); err != nil || soi[0] != 0xff || soi[1] != 0xd8 {
		return 0, false
	}

	for {
		b, err := br.ReadByte()
		if err != nil {
			return 0, false
		}
		if b != 0xff {
			continue
		}
		marker, err := br.ReadByte()
		if err != nil {
			return 0, false
		}
		switch {
		case marker == 0xff || (marker >= 0xd0 && marker <= 0xd7) || marker == 0x01:
			// Fill byte or parameterless marker.
			continue
		case marker == 0xd9 || marker == 0xda:
			// EOI or start of scan: no Exif segment ahead of the image data.
			return 0, false
		}

		var lb [2]byte
		if _, err := io.ReadFull(br, lb[:]); err != nil {
			return 0, false
		}
		length := int(binary.BigEndian.Uint16(lb[:]))
		if length < 2 {
			return 0, false
		}
		payload := length - 2

		if marker != 0xe1 {
			if _, err := br.Discard(payload); err != nil {
				return 0, false
			}
			continue
		}

		n := payload
		if n > maxAPP1 {
			n = maxAPP1
		}
		buf := make([]byte, n)
		if _, err := io.ReadFull(br, buf); err != nil {
			return 0, false
		}
		if payload > n {
			if _, err := br.Discard(payload - n); err != nil {
				return 0, false
			}
		}
		if o, ok := parseExifOrientation(buf); ok {
			return o, true
		}
	}
}

// parseExifOrientation extracts tag 0x0112 from the first IFD of an Exif
// APP1 payload.
func parseExifOrientation(p []byte) (int, bool) {
	if !bytes.HasPrefix(p, []byte("Exif\x00\x00")) {
		return 0, false
	}
	t := p[6:]
	if len(t) < 8 {
		return 0, false
	}
	var bo binary.ByteOrder
	switch {
	case t[0] == 'I' && t[1] == 'I':
		bo = binary.LittleEndian
	case t[0] == 'M' && t[1] == 'M':
		bo = binary.BigEndian
	default:
		return 0, false
	}
	if bo.Uint16(t[2:4]) != 42 {
		return 0, false
	}
	off := int(bo.Uint32(t[4:8]))
	if off < 0 || off+2 > len(t) {
		return 0, false
	}
	count := int(bo.Uint16(t[off : off+2]))
	for i := 0; i < count; i++ {
		e := off + 2 + 12*i
		if e+12 > len(t) {
			return 0, false
		}
		if bo.Uint16(t[e:e+2]) != 0x0112 {
			continue
		}
		if bo.Uint16(t[e+2:e+4]) != 3 { // SHORT
			return 0, false
		}
		v := int(bo.Uint16(t[e+8 : e+10]))
		if v < 1 || v > 8 {
			return 0, false
		}
		return v, true
	}
	return 0, false
}
