package radiometry

import (
	"testing"

	"github.com/radgeo/radprep/pkg/raster"
)

func TestRequantizeRounding(t *testing.T) {
	f := raster.NewFrame(4, 1)
	g := raster.NewFloatGrid(4, 1)
	g.Set(0, 0, 0)
	g.Set(1, 0, 0.5)
	g.Set(2, 0, 1)
	g.Set(3, 0, 1.0/65535.0)

	out := Requantize(f, &g)

	wants := []uint16{0, 32768, 65535, 1}
	for x, want := range wants {
		if got := out.At(x, 0); got != want {
			t.Errorf("sample %d: got %d, want %d", x, got, want)
		}
	}
}

func TestRequantizeClampsOvershoot(t *testing.T) {
	// Enhancement stages can overshoot [0,1] by a hair; the requantizer
	// must absorb that rather than wrap the integer.
	f := raster.NewFrame(2, 1)
	g := raster.NewFloatGrid(2, 1)
	g.Set(0, 0, -0.25)
	g.Set(1, 0, 1.25)

	out := Requantize(f, &g)

	if got := out.At(0, 0); got != 0 {
		t.Errorf("undershoot: got %d, want 0", got)
	}
	if got := out.At(1, 0); got != 65535 {
		t.Errorf("overshoot: got %d, want 65535", got)
	}
}

func TestRequantizePreservesNoData(t *testing.T) {
	f := raster.NewFrame(3, 1)
	f.SetNoData(0)
	f.Pix = []uint16{0, 30000, 0}

	g := raster.NewFloatGrid(3, 1)
	g.Set(0, 0, 0.9) // stage arithmetic output at a nodata position is discarded
	g.Set(1, 0, 0.5)
	g.Set(2, 0, 0.9)

	out := Requantize(f, &g)

	if out.At(0, 0) != 0 || out.At(2, 0) != 0 {
		t.Errorf("nodata positions not preserved: %d, %d", out.At(0, 0), out.At(2, 0))
	}
	if got := out.At(1, 0); got != 32768 {
		t.Errorf("valid sample: got %d, want 32768", got)
	}
	if out.NoData == nil || *out.NoData != 0 {
		t.Errorf("sentinel not carried onto output frame")
	}
}
