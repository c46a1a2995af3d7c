package raster

import (
	"bytes"
	"image"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/tiff"
)

func TestTIFFRoundtrip(t *testing.T) {
	f := NewFrame(37, 23)
	for i := range f.Pix {
		f.Pix[i] = uint16((i * 2718) % 65536)
	}

	var buf bytes.Buffer
	if err := EncodeTIFF(&buf, f); err != nil {
		t.Fatalf("encode: %v", err)
	}

	g, err := DecodeTIFF(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	if g.Width != f.Width || g.Height != f.Height {
		t.Fatalf("dims changed: %dx%d -> %dx%d", f.Width, f.Height, g.Width, g.Height)
	}
	for i := range f.Pix {
		if g.Pix[i] != f.Pix[i] {
			t.Fatalf("sample %d: wrote %d, read %d", i, f.Pix[i], g.Pix[i])
		}
	}
}

func TestLoadSaveTIFF(t *testing.T) {
	f := NewFrame(16, 16)
	for i := range f.Pix {
		f.Pix[i] = uint16(i * 256)
	}

	path := filepath.Join(t.TempDir(), "frame.tif")
	if err := SaveTIFF(f, path); err != nil {
		t.Fatalf("save: %v", err)
	}

	g, err := LoadTIFF(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	for i := range f.Pix {
		if g.Pix[i] != f.Pix[i] {
			t.Fatalf("sample %d: wrote %d, read %d", i, f.Pix[i], g.Pix[i])
		}
	}
}

func TestLoadTIFFMissingFile(t *testing.T) {
	if _, err := LoadTIFF(filepath.Join(t.TempDir(), "no-such.tif")); err == nil {
		t.Errorf("missing file loaded without error")
	}
}

func TestLoadTIFFGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garbage.tif")
	if err := os.WriteFile(path, []byte("this is not a tiff"), 0644); err != nil {
		t.Fatalf("setup: %v", err)
	}
	if _, err := LoadTIFF(path); err == nil {
		t.Errorf("garbage loaded without error")
	}
}

func TestDecodeTIFFPromotesEightBit(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 4, 1))
	img.Pix = []uint8{0, 1, 128, 255}

	var buf bytes.Buffer
	if err := tiff.Encode(&buf, img, nil); err != nil {
		t.Fatalf("encode: %v", err)
	}

	f, err := DecodeTIFF(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	wants := []uint16{0, 256, 32768, 65280}
	for x, want := range wants {
		if got := f.At(x, 0); got != want {
			t.Errorf("sample %d: got %d, want %d", x, got, want)
		}
	}
}

func TestGrayImageMatchesFrame(t *testing.T) {
	f := NewFrame(5, 3)
	for i := range f.Pix {
		f.Pix[i] = uint16(i * 4369)
	}

	img := f.GrayImage()
	for y := 0; y < 3; y++ {
		for x := 0; x < 5; x++ {
			if got := img.Gray16At(x, y).Y; got != f.At(x, y) {
				t.Errorf("(%d,%d): image %d, frame %d", x, y, got, f.At(x, y))
			}
		}
	}
}
