package radiometry

import(
	"github.com/radgeo/radprep/pkg/raster"
)

// Guards the divide when bounds have been repaired down to a sliver.
const minBoundsWidth = 1e-6

// Stretch maps raw samples into normalized [0,1] intensity using the
// estimated bounds. Samples at or below Lo come out exactly 0,
// samples at or above Hi exactly 1; the tails are deliberately
// clipped so the informative mid-range gets the full display
// contrast. Nodata positions are stretched like any other sample
// here, and reinstated from the source frame by Requantize.
func Stretch(f *raster.Frame, b Bounds) raster.FloatGrid {
	g := raster.NewFloatGrid(f.Width, f.Height)

	w := b.Width()
	if w < minBoundsWidth {
		w = minBoundsWidth
	}

	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			n := (float64(f.At(x, y)) - b.Lo) / w
			if n < 0 { n = 0 }
			if n > 1 { n = 1 }
			g.Set(x, y, n)
		}
	}

	return g
}
