package probe

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func TestFilePNG(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "probe.png")

	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewNRGBA(image.Rect(0, 0, 37, 21))); err != nil {
		t.Fatalf("encode: %v", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	info, err := File(path)
	if err != nil {
		t.Fatalf("File: %v", err)
	}
	if info.Width != 37 || info.Height != 21 {
		t.Errorf("dimensions = %dx%d, want 37x21", info.Width, info.Height)
	}
	if info.Format != "png" {
		t.Errorf("format = %q, want png", info.Format)
	}
	if info.EXIFOrientation != 0 {
		t.Errorf("orientation = %d, want 0 for png", info.EXIFOrientation)
	}
}

func TestFileMissing(t *testing.T) {
	if _, err := File(filepath.Join(t.TempDir(), "nope.jpg")); err == nil {
		t.Error("expected an error for a missing file")
	}
}

// buildExifAPP1 assembles a minimal big-endian Exif payload with a single
// orientation entry.
func buildExifAPP1(orientation uint16) []byte {
	var b bytes.Buffer
	b.WriteString("Exif\x00\x00")
	tiff := &bytes.Buffer{}
	tiff.WriteString("MM")
	binary.Write(tiff, binary.BigEndian, uint16(42))
	binary.Write(tiff, binary.BigEndian, uint32(8)) // IFD0 offset
	binary.Write(tiff, binary.BigEndian, uint16(1)) // one entry
	binary.Write(tiff, binary.BigEndian, uint16(0x0112))
	binary.Write(tiff, binary.BigEndian, uint16(3)) // SHORT
	binary.Write(tiff, binary.BigEndian, uint32(1)) // count
	binary.Write(tiff, binary.BigEndian, orientation)
	binary.Write(tiff, binary.BigEndian, uint16(0)) // value padding
	binary.Write(tiff, binary.BigEndian, uint32(0)) // next IFD
	b.Write(tiff.Bytes())
	return b.Bytes()
}

func TestParseExifOrientation(t *testing.T) {
	for want := 1; want <= 8; want++ {
		got, ok := parseExifOrientation(buildExifAPP1(uint16(want)))
		if !ok || got != want {
			t.Errorf("orientation %d: got %d ok=%v", want, got, ok)
		}
	}
	if _, ok := parseExifOrientation(buildExifAPP1(9)); ok {
		t.Error("out-of-range orientation must be rejected")
	}
	if _, ok := parseExifOrientation([]byte("not exif")); ok {
		t.Error("non-exif payload must be rejected")
	}
}

func TestScanJPEGOrientation(t *testing.T) {
	exif := buildExifAPP1(6)
	var b bytes.Buffer
	b.Write([]byte{0xff, 0xd8}) // SOI
	b.Write([]byte{0xff, 0xe0, 0x00, 0x04, 0x00, 0x00})
	b.Write([]byte{0xff, 0xe1})
	binary.Write(&b, binary.BigEndian, uint16(len(exif)+2))
	b.Write(exif)
	b.Write([]byte{0xff, 0xda}) // SOS: scan stops here

	got, ok := scanJPEGOrientation(bytes.NewReader(b.Bytes()))
	if !ok || got != 6 {
		t.Errorf("scan = %d ok=%v, want 6", got, ok)
	}

	// No APP1 at all.
	var plain bytes.Buffer
	plain.Write([]byte{0xff, 0xd8, 0xff, 0xda})
	if _, ok := scanJPEGOrientation(bytes.NewReader(plain.Bytes())); ok {
		t.Error("expected no orientation without APP1")
	}
}
